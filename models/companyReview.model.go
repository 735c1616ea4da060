package models

import "time"

const (
	MaxReviewTitleLength   = 64
	MaxReviewSummaryLength = 10000
)

// CompanyReview is a rating of a company posted by a reviewer.
// ReviewerID, IPAddress and Date are assigned by the server.
type CompanyReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReviewerID uint      `gorm:"not null;index" json:"reviewer"`
	Reviewer   Reviewer  `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"-"`
	CompanyID  uint      `gorm:"not null;index" json:"company"`
	Company    Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	Title      string    `gorm:"type:varchar(64);not null" json:"title"`
	Summary    string    `gorm:"type:text;not null" json:"summary"`
	IPAddress  string    `gorm:"type:varchar(45);not null" json:"ip_address"`
	Date       time.Time `gorm:"autoCreateTime;<-:create" json:"date"`
}
