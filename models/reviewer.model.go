package models

import "time"

// Reviewer is a platform user who may author reviews. Staff reviewers are administrators.
type Reviewer struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"-"`
	FirstName  string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName   string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	Email      string     `gorm:"type:varchar(254);not null;default:''" json:"-"`
	Password   string     `gorm:"not null" json:"-"`
	IsStaff    bool       `gorm:"not null" json:"-"`
	IsActive   bool       `gorm:"not null" json:"-"`
	DateJoined time.Time  `gorm:"autoCreateTime" json:"-"`
	LastLogin  *time.Time `json:"-"`
}

// DisplayName returns the full name when set and the username otherwise.
func (r Reviewer) DisplayName() string {
	switch {
	case r.FirstName != "" && r.LastName != "":
		return r.FirstName + " " + r.LastName
	case r.FirstName != "":
		return r.FirstName
	default:
		return r.Username
	}
}
