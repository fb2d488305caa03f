package entities

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"
)

// RawItem is one upstream listing exactly as received.
type RawItem json.RawMessage

func (r RawItem) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RawItem) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

// IsObject reports whether the item is a JSON object.
func (r RawItem) IsObject() bool {
	trimmed := bytes.TrimSpace(r)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// sourceRecord lists every key the upstream is known to use, aliases included.
type sourceRecord struct {
	ID       LooseString `json:"id"`
	EntityID LooseString `json:"entity_id"`

	Title            LooseString `json:"title"`
	OpportunityTitle LooseString `json:"opportunity_title"`
	OrganisationName LooseString `json:"organisation_name"`
	CompanyName      LooseString `json:"company_name"`
	LogoURL          LooseString `json:"logo_url"`
	OrganisationLogo LooseString `json:"organisation_logo"`
	Type             LooseString `json:"type"`
	OpportunityType  LooseString `json:"opportunity_type"`

	Stipend stipend `json:"stipend"`

	Duration           LooseString `json:"duration"`
	InternshipDuration LooseString `json:"internship_duration"`

	Locations      LooseList `json:"locations"`
	IsWorkFromHome LooseBool `json:"is_work_from_home"`
	WorkFromHome   LooseBool `json:"work_from_home"`

	SkillsRequired LooseList `json:"skills_required"`
	Skills         LooseList `json:"skills"`

	StartDate             LooseString `json:"start_date"`
	RegistrationStartDate LooseString `json:"registration_start_date"`
	EndDate               LooseString `json:"end_date"`
	RegistrationEndDate   LooseString `json:"registration_end_date"`
	Deadline              LooseString `json:"deadline"`

	PublicURL LooseString `json:"public_url"`
	URL       LooseString `json:"url"`

	ViewsCount         LooseInt `json:"views_count"`
	Views              LooseInt `json:"views"`
	RegistrationsCount LooseInt `json:"registrations_count"`
	Registrations      LooseInt `json:"registrations"`

	ApprovedDate LooseString `json:"approved_date"`
	ServerTime   LooseString `json:"server_time"`
	CreatedAt    LooseString `json:"created_at"`
}

type stipend struct {
	Min      LooseInt
	Max      LooseInt
	Currency LooseString
	isObject bool
}

func (s *stipend) UnmarshalJSON(b []byte) error {
	*s = stipend{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	var fields struct {
		Min      LooseInt    `json:"min"`
		Max      LooseInt    `json:"max"`
		Currency LooseString `json:"currency"`
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}

	*s = stipend{Min: fields.Min, Max: fields.Max, Currency: fields.Currency, isObject: true}
	return nil
}

func decodeSourceRecord(raw RawItem) (sourceRecord, bool) {
	var record sourceRecord
	if !raw.IsObject() {
		return record, false
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return record, false
	}
	return record, true
}

// PublishedAt extracts the listing timestamp from approved_date, server_time or
// created_at, whichever is present first. Zone-less values are read as UTC.
// ok is false when no timestamp is present or it cannot be parsed.
func (r RawItem) PublishedAt() (t time.Time, ok bool) {
	record, decoded := decodeSourceRecord(r)
	if !decoded {
		return time.Time{}, false
	}

	value := coalesce(record.ApprovedDate, record.ServerTime, record.CreatedAt)
	if value == "" {
		return time.Time{}, false
	}

	return ParseTimestamp(value)
}

// ParseTimestamp accepts ISO-8601, RFC-1123 and the other layouts dateparse knows.
func ParseTimestamp(value string) (time.Time, bool) {
	t, err := dateparse.ParseIn(strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func coalesce(values ...LooseString) string {
	value, _ := lo.Coalesce(lo.Map(values, func(v LooseString, _ int) string {
		return strings.TrimSpace(v.String())
	})...)
	return value
}
