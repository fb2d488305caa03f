package entities

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrMissingExternalID = errors.New("item has no external id")

// NewInternship maps a raw upstream item onto the stored schema. Every field falls back
// to its default; only a missing id rejects the item. urlBase prefixes the external id
// when the item carries no url of its own. Timestamps are left for the store to set.
func NewInternship(raw RawItem, urlBase string) (Internship, error) {
	record, ok := decodeSourceRecord(raw)
	if !ok {
		return Internship{}, errors.Wrap(ErrMissingExternalID, "item is not an object")
	}

	externalID := coalesce(record.ID, record.EntityID)
	if externalID == "" {
		return Internship{}, ErrMissingExternalID
	}

	internship := Internship{
		ExternalID:    externalID,
		Title:         orDefault(coalesce(record.Title, record.OpportunityTitle), defaultTitle),
		CompanyName:   orDefault(coalesce(record.OrganisationName, record.CompanyName), defaultCompany),
		LogoURL:       coalesce(record.LogoURL, record.OrganisationLogo),
		Type:          orDefault(coalesce(record.Type, record.OpportunityType), defaultType),
		Currency:      defaultCurrency,
		Duration:      coalesce(record.Duration, record.InternshipDuration),
		Location:      strings.Join(lo.Slice(record.Locations.Names("location", "city"), 0, maxLocations), skillSeparator),
		WorkFromHome:  bool(record.IsWorkFromHome) || bool(record.WorkFromHome),
		Skills:        strings.Join(skillNames(record), skillSeparator),
		StartDate:     coalesce(record.StartDate, record.RegistrationStartDate),
		EndDate:       coalesce(record.EndDate, record.RegistrationEndDate),
		Deadline:      coalesce(record.Deadline, record.RegistrationEndDate),
		URL:           orDefault(coalesce(record.PublicURL, record.URL), urlBase+externalID),
		Views:         firstTruthy(record.ViewsCount, record.Views),
		Registrations: firstTruthy(record.RegistrationsCount, record.Registrations),
		RawJSON:       append([]byte(nil), raw...),
	}

	if record.Stipend.isObject {
		internship.StipendMin = record.Stipend.Min.Ptr()
		internship.StipendMax = record.Stipend.Max.Ptr()
		internship.Currency = orDefault(strings.TrimSpace(record.Stipend.Currency.String()), defaultCurrency)
	}

	return internship, nil
}

func skillNames(record sourceRecord) []string {
	skills := record.SkillsRequired
	if len(skills) == 0 {
		skills = record.Skills
	}
	return skills.Names("skill", "name")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func firstTruthy(values ...LooseInt) int64 {
	for _, v := range values {
		if v.Truthy() {
			return v.Value
		}
	}
	return 0
}
