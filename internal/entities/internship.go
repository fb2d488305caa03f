package entities

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	defaultTitle    = "Unknown"
	defaultCompany  = "Unknown"
	defaultType     = "internship"
	defaultCurrency = "INR"

	maxLocations   = 3
	skillSeparator = ", "
)

// Internship is a normalized listing. Rows are written once on first sighting and never updated.
type Internship struct {
	ID            int
	ExternalID    string `gorm:"uniqueIndex;not null"`
	Title         string `gorm:"not null"`
	CompanyName   string
	LogoURL       string
	Type          string
	StipendMin    *int64
	StipendMax    *int64
	Currency      string
	Duration      string
	Location      string
	WorkFromHome  bool
	Skills        string
	StartDate     string
	EndDate       string
	Deadline      string
	URL           string
	Views         int64
	Registrations int64
	RawJSON       datatypes.JSON
	ScrapedAt     time.Time `gorm:"index;not null"`
	FirstSeen     time.Time `gorm:"not null"`
}

// SkillList splits the stored comma-joined skills.
func (i Internship) SkillList() []string {
	if i.Skills == "" {
		return []string{}
	}
	return strings.Split(i.Skills, skillSeparator)
}

// HasStipend is false when neither bound is set to a non-zero value.
func (i Internship) HasStipend() bool {
	return (i.StipendMin != nil && *i.StipendMin != 0) || (i.StipendMax != nil && *i.StipendMax != 0)
}

type StoreStats struct {
	Total      int64
	AddedToday int64
}
