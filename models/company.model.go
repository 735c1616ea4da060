package models

// MaxCompanyNameLength bounds Company.Name.
const MaxCompanyNameLength = 64

// Company is a company that can be reviewed.
type Company struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(64);not null" json:"name"`
}
