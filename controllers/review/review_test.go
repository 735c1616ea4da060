package reviewController_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"cacc/config"
	reviewController "cacc/controllers/review"
	"cacc/models"
	"cacc/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewsURL = "/api/v1/reviews/"

func reviewURL(id uint) string {
	return fmt.Sprintf("/api/v1/reviews/%d", id)
}

func validReview(companyID uint, rating int) map[string]interface{} {
	return map[string]interface{}{
		"title":   "Title",
		"summary": "Summary",
		"company": companyID,
		"rating":  rating,
	}
}

func TestUnauthenticatedAccessIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	id := f.Reviews[0].ID
	cases := []testutil.Request{
		{Method: http.MethodGet, Path: reviewsURL},
		{Method: http.MethodPost, Path: reviewsURL, Body: validReview(f.Companies[0].ID, 1)},
		{Method: http.MethodGet, Path: reviewURL(id)},
		{Method: http.MethodPatch, Path: reviewURL(id), Body: map[string]string{"title": "New title"}},
		{Method: http.MethodPut, Path: reviewURL(id), Body: validReview(f.Companies[0].ID, 1)},
		{Method: http.MethodDelete, Path: reviewURL(id)},
	}

	for _, req := range cases {
		t.Run(req.Method, func(t *testing.T) {
			status, env := testutil.DoJSON(t, app, req)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.False(t, env.Status)
		})
	}
}

func TestInvalidTokenIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.Seed(t, db)
	app := testutil.NewApp(t)

	status, _ := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL, Token: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestInactiveReviewerIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	status, _ := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL, Token: testutil.AccessToken(t, f.Inactive)})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegularUserListsOnlyOwnReviews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL, Token: testutil.AccessToken(t, f.Regular)})
	require.Equal(t, http.StatusOK, status)

	var page testutil.Page[models.CompanyReview]
	testutil.DecodeData(t, env, &page)

	own := f.ReviewsBy(f.Regular)
	assert.EqualValues(t, len(own), page.Count)
	assert.Len(t, page.Results, len(own))
	for _, r := range page.Results {
		assert.Equal(t, f.Regular.ID, r.ReviewerID)
	}
}

func TestAdminListsAllReviews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL, Token: testutil.AccessToken(t, f.Admin)})
	require.Equal(t, http.StatusOK, status)

	var page testutil.Page[models.CompanyReview]
	testutil.DecodeData(t, env, &page)

	var total int64
	require.NoError(t, db.Model(&models.CompanyReview{}).Count(&total).Error)
	assert.Equal(t, total, page.Count)
	assert.Len(t, page.Results, int(total))
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
}

func TestListPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	token := testutil.AccessToken(t, f.Admin)

	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL + "?limit=1", Token: token})
	require.Equal(t, http.StatusOK, status)

	var first testutil.Page[models.CompanyReview]
	testutil.DecodeData(t, env, &first)
	assert.EqualValues(t, len(f.Reviews), first.Count)
	require.Len(t, first.Results, 1)
	assert.Equal(t, f.Reviews[0].ID, first.Results[0].ID)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "offset=1")
	assert.Nil(t, first.Previous)

	status, env = testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL + "?limit=1&offset=3", Token: token})
	require.Equal(t, http.StatusOK, status)

	var last testutil.Page[models.CompanyReview]
	testutil.DecodeData(t, env, &last)
	require.Len(t, last.Results, 1)
	assert.Equal(t, f.Reviews[3].ID, last.Results[0].ID)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Contains(t, *last.Previous, "offset=2")
}

func TestListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	list := func(t *testing.T, query string, reviewer models.Reviewer) testutil.Page[models.CompanyReview] {
		status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL + query, Token: testutil.AccessToken(t, reviewer)})
		require.Equal(t, http.StatusOK, status)
		var page testutil.Page[models.CompanyReview]
		testutil.DecodeData(t, env, &page)
		return page
	}

	t.Run("company", func(t *testing.T) {
		page := list(t, fmt.Sprintf("?company=%d", f.Companies[0].ID), f.Admin)
		assert.EqualValues(t, 2, page.Count)
		for _, r := range page.Results {
			assert.Equal(t, f.Companies[0].ID, r.CompanyID)
		}
	})

	t.Run("company within ownership scope", func(t *testing.T) {
		page := list(t, fmt.Sprintf("?company=%d", f.Companies[0].ID), f.Regular)
		require.EqualValues(t, 1, page.Count)
		assert.Equal(t, f.Regular.ID, page.Results[0].ReviewerID)
	})

	t.Run("reviewer hidden by ownership", func(t *testing.T) {
		page := list(t, fmt.Sprintf("?reviewer=%d", f.Other.ID), f.Regular)
		assert.EqualValues(t, 0, page.Count)
		assert.Empty(t, page.Results)
	})

	t.Run("date", func(t *testing.T) {
		page := list(t, "?date=2024-03-01", f.Admin)
		assert.EqualValues(t, 2, page.Count)
	})

	t.Run("invalid date", func(t *testing.T) {
		status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL + "?date=yesterday", Token: testutil.AccessToken(t, f.Admin)})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(env.Data), "date")
	})
}

func TestDateFilterUsesConfiguredZone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	config.AppConfig.TimeZone = time.FixedZone("CET", 60*60)

	// 00:30 and 23:30 on 2024-03-01 local, one hour earlier in UTC
	early := models.CompanyReview{ReviewerID: f.Other.ID, CompanyID: f.Companies[1].ID, Rating: 3, Title: "Early", Summary: "s", IPAddress: "10.0.0.2", Date: time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC)}
	late := models.CompanyReview{ReviewerID: f.Other.ID, CompanyID: f.Companies[1].ID, Rating: 3, Title: "Late", Summary: "s", IPAddress: "10.0.0.2", Date: time.Date(2024, 3, 1, 22, 30, 0, 0, time.UTC)}
	// 00:30 on 2024-03-02 local
	next := models.CompanyReview{ReviewerID: f.Other.ID, CompanyID: f.Companies[1].ID, Rating: 3, Title: "Next", Summary: "s", IPAddress: "10.0.0.2", Date: time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)}
	for _, r := range []*models.CompanyReview{&early, &late, &next} {
		require.NoError(t, db.Create(r).Error)
	}

	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewsURL + "?date=2024-03-01", Token: testutil.AccessToken(t, f.Admin)})
	require.Equal(t, http.StatusOK, status)

	var page testutil.Page[models.CompanyReview]
	testutil.DecodeData(t, env, &page)

	var ids []uint
	for _, r := range page.Results {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []uint{f.Reviews[0].ID, f.Reviews[2].ID, early.ID, late.ID}, ids)
}

func TestCreateReviewTrimsText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	body := validReview(f.Companies[0].ID, 4)
	body["title"] = "  Padded  "
	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodPost, Path: reviewsURL, Token: testutil.AccessToken(t, f.Regular), Body: body})
	require.Equal(t, http.StatusCreated, status)

	var created models.CompanyReview
	testutil.DecodeData(t, env, &created)
	assert.Equal(t, "Padded", created.Title)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	token := testutil.AccessToken(t, f.Regular)

	for rating := -1; rating <= 7; rating++ {
		t.Run(fmt.Sprintf("rating %d", rating), func(t *testing.T) {
			status, env := testutil.DoJSON(t, app, testutil.Request{
				Method: http.MethodPost,
				Path:   reviewsURL,
				Token:  token,
				Body:   validReview(f.Companies[0].ID, rating),
			})

			if rating >= 1 && rating <= 5 {
				require.Equal(t, http.StatusCreated, status)
				var created models.CompanyReview
				testutil.DecodeData(t, env, &created)
				assert.Equal(t, rating, created.Rating)
				return
			}

			require.Equal(t, http.StatusBadRequest, status)
			var errs map[string]string
			testutil.DecodeData(t, env, &errs)
			assert.Contains(t, errs, "rating")
		})
	}
}

func TestCreateReviewAssignsServerFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	body := validReview(f.Companies[1].ID, 3)
	body["reviewer"] = f.Admin.ID
	body["ip_address"] = "1.2.3.4"
	body["date"] = "2000-01-01T00:00:00Z"

	status, env := testutil.DoJSON(t, app, testutil.Request{
		Method:  http.MethodPost,
		Path:    reviewsURL,
		Token:   testutil.AccessToken(t, f.Regular),
		Body:    body,
		Headers: map[string]string{"X-Forwarded-For": "82.73.64.55, 103.0.123.105, 40.42.3.28"},
	})
	require.Equal(t, http.StatusCreated, status)

	var created models.CompanyReview
	testutil.DecodeData(t, env, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, f.Regular.ID, created.ReviewerID)
	assert.Equal(t, f.Companies[1].ID, created.CompanyID)
	assert.Equal(t, "82.73.64.55", created.IPAddress)
	assert.Greater(t, created.Date.Year(), 2000)

	var stored models.CompanyReview
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Equal(t, f.Regular.ID, stored.ReviewerID)
	assert.Equal(t, "82.73.64.55", stored.IPAddress)
}

func TestCreateReviewWithoutForwardedHeaderUsesConnectionAddress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	status, env := testutil.DoJSON(t, app, testutil.Request{
		Method: http.MethodPost,
		Path:   reviewsURL,
		Token:  testutil.AccessToken(t, f.Regular),
		Body:   validReview(f.Companies[0].ID, 5),
	})
	require.Equal(t, http.StatusCreated, status)

	var created models.CompanyReview
	testutil.DecodeData(t, env, &created)
	// fiber's test connection reports the unspecified address as its peer
	assert.Equal(t, "0.0.0.0", created.IPAddress)
}

func TestCreateReviewFieldErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	token := testutil.AccessToken(t, f.Regular)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"missing fields", map[string]interface{}{}, "title"},
		{"blank title", map[string]interface{}{"title": "", "summary": "s", "company": f.Companies[0].ID, "rating": 3}, "title"},
		{"whitespace title", map[string]interface{}{"title": "   ", "summary": "s", "company": f.Companies[0].ID, "rating": 3}, "title"},
		{"whitespace summary", map[string]interface{}{"title": "t", "summary": "\n\t ", "company": f.Companies[0].ID, "rating": 3}, "summary"},
		{"long title", map[string]interface{}{"title": strings.Repeat("x", 65), "summary": "s", "company": f.Companies[0].ID, "rating": 3}, "title"},
		{"unknown company", validReview(9999, 3), "company"},
		{"rating wrong type", map[string]interface{}{"title": "t", "summary": "s", "company": f.Companies[0].ID, "rating": "five"}, "rating"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodPost, Path: reviewsURL, Token: token, Body: tc.body})
			require.Equal(t, http.StatusBadRequest, status)

			var errs map[string]string
			testutil.DecodeData(t, env, &errs)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestRetrieveIsOwnershipScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	othersReview := f.ReviewsBy(f.Other)[0]

	status, _ := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewURL(othersReview.ID), Token: testutil.AccessToken(t, f.Regular)})
	assert.Equal(t, http.StatusNotFound, status)

	// indistinguishable from a row that does not exist
	status, _ = testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewURL(9999), Token: testutil.AccessToken(t, f.Regular)})
	assert.Equal(t, http.StatusNotFound, status)

	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewURL(othersReview.ID), Token: testutil.AccessToken(t, f.Admin)})
	require.Equal(t, http.StatusOK, status)
	var got models.CompanyReview
	testutil.DecodeData(t, env, &got)
	assert.Equal(t, othersReview.ID, got.ID)

	own := f.ReviewsBy(f.Regular)[0]
	status, _ = testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewURL(own.ID), Token: testutil.AccessToken(t, f.Regular)})
	assert.Equal(t, http.StatusOK, status)
}

func TestNonAdminCannotModify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	token := testutil.AccessToken(t, f.Regular)

	own := f.ReviewsBy(f.Regular)[0]
	cases := []testutil.Request{
		{Method: http.MethodPatch, Path: reviewURL(own.ID), Token: token, Body: map[string]string{"title": "New title"}},
		{Method: http.MethodPut, Path: reviewURL(own.ID), Token: token, Body: validReview(f.Companies[0].ID, 1)},
		{Method: http.MethodDelete, Path: reviewURL(own.ID), Token: token},
		{Method: http.MethodDelete, Path: reviewURL(9999), Token: token},
	}

	for _, req := range cases {
		t.Run(req.Method+" "+req.Path, func(t *testing.T) {
			status, _ := testutil.DoJSON(t, app, req)
			assert.Equal(t, http.StatusForbidden, status)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.CompanyReview{}).Where("id = ?", own.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdminPartialUpdateKeepsServerFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	original := f.ReviewsBy(f.Regular)[0]

	status, env := testutil.DoJSON(t, app, testutil.Request{
		Method: http.MethodPatch,
		Path:   reviewURL(original.ID),
		Token:  testutil.AccessToken(t, f.Admin),
		Body:   map[string]interface{}{"title": "New title", "date": "2030-01-01T00:00:00Z", "reviewer": f.Admin.ID},
	})
	require.Equal(t, http.StatusOK, status)

	var updated models.CompanyReview
	testutil.DecodeData(t, env, &updated)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, original.Summary, updated.Summary)
	assert.Equal(t, original.ReviewerID, updated.ReviewerID)
	assert.True(t, original.Date.Equal(updated.Date), "date changed from %s to %s", original.Date, updated.Date)
}

func TestAdminUpdateValidatesRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)

	status, env := testutil.DoJSON(t, app, testutil.Request{
		Method: http.MethodPatch,
		Path:   reviewURL(f.Reviews[0].ID),
		Token:  testutil.AccessToken(t, f.Admin),
		Body:   map[string]interface{}{"rating": 11},
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(env.Data), "rating")
}

func TestAdminReplaceRequiresAllFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	token := testutil.AccessToken(t, f.Admin)

	status, _ := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodPut, Path: reviewURL(f.Reviews[0].ID), Token: token, Body: map[string]string{"title": "Only title"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodPut, Path: reviewURL(f.Reviews[0].ID), Token: token, Body: validReview(f.Companies[2].ID, 1)})
	require.Equal(t, http.StatusOK, status)

	var updated models.CompanyReview
	testutil.DecodeData(t, env, &updated)
	assert.Equal(t, f.Companies[2].ID, updated.CompanyID)
	assert.Equal(t, 1, updated.Rating)
	assert.Equal(t, "Title", updated.Title)
}

func TestAdminDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	app := testutil.NewApp(t)
	token := testutil.AccessToken(t, f.Admin)

	id := f.Reviews[2].ID
	status, _ := testutil.DoJSON(t, app, testutil.Request{Method: http.MethodDelete, Path: reviewURL(id), Token: token})
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = testutil.DoJSON(t, app, testutil.Request{Method: http.MethodGet, Path: reviewURL(id), Token: token})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = testutil.DoJSON(t, app, testutil.Request{Method: http.MethodDelete, Path: reviewURL(id), Token: token})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFindVisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)

	othersReview := f.ReviewsBy(f.Other)[0]

	_, err := reviewController.FindVisible(db, &f.Regular, int(othersReview.ID))
	assert.ErrorIs(t, err, reviewController.ErrNotFound)

	_, err = reviewController.FindVisible(db, &f.Regular, 9999)
	assert.ErrorIs(t, err, reviewController.ErrNotFound)

	review, err := reviewController.FindVisible(db, &f.Admin, int(othersReview.ID))
	require.NoError(t, err)
	assert.Equal(t, othersReview.ID, review.ID)
}
