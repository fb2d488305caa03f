package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

var scrapedAt = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func Test_NewEntry_StipendAndSkills(t *testing.T) {
	withStipend := entities.Internship{
		ExternalID: "1", StipendMin: ptr(15000), StipendMax: ptr(25000), Currency: "INR",
		Skills: "Python, Django", ScrapedAt: scrapedAt, FirstSeen: scrapedAt,
	}
	withoutStipend := entities.Internship{ExternalID: "2", Currency: "INR"}
	zeroStipend := entities.Internship{ExternalID: "3", StipendMin: ptr(0), Currency: "INR"}

	entry := NewEntry(withStipend)
	require.NotNil(t, entry.Stipend)
	assert.Equal(t, int64(15000), *entry.Stipend.Min)
	assert.Equal(t, int64(25000), *entry.Stipend.Max)
	assert.Equal(t, "INR", entry.Stipend.Currency)
	assert.Equal(t, []string{"Python", "Django"}, entry.Skills)
	assert.Equal(t, "2026-10-19T08:30:00.000000Z", entry.ScrapedAt)

	assert.Nil(t, NewEntry(withoutStipend).Stipend)
	assert.Nil(t, NewEntry(zeroStipend).Stipend)
	assert.Equal(t, []string{}, NewEntry(withoutStipend).Skills)
}

func Test_WriteFile_CreatesDirectoriesAndKeepsEveryField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "data", "internships.json")
	snapshot := NewSnapshot([]entities.Internship{
		{ExternalID: "1", Title: "A", Skills: "Go", StipendMax: ptr(10)},
		{ExternalID: "2", Title: "B"},
	}, scrapedAt)

	require.NoError(t, WriteFile(path, snapshot))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var document map[string]any
	require.NoError(t, json.Unmarshal(data, &document))
	assert.Equal(t, float64(2), document["totalInternships"])
	assert.Equal(t, "2026-10-19T08:30:00.000000Z", document["lastUpdated"])

	internships := document["internships"].([]any)
	require.Len(t, internships, 2)

	fields := []string{"id", "title", "company", "logo", "type", "stipend", "duration", "location",
		"workFromHome", "skills", "deadline", "url", "views", "registrations", "scrapedAt", "firstSeen"}
	for _, raw := range internships {
		entry := raw.(map[string]any)
		for _, field := range fields {
			assert.Contains(t, entry, field)
		}
	}
	assert.Nil(t, internships[1].(map[string]any)["stipend"])

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.TotalInternships)
}
