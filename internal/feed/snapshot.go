// Package feed shapes stored internships into the public JSON document consumed by the website.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/samber/lo"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

type Snapshot struct {
	LastUpdated      string  `json:"lastUpdated"`
	TotalInternships int     `json:"totalInternships"`
	Internships      []Entry `json:"internships"`
}

type Entry struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Logo          string   `json:"logo"`
	Type          string   `json:"type"`
	Stipend       *Stipend `json:"stipend"`
	Duration      string   `json:"duration"`
	Location      string   `json:"location"`
	WorkFromHome  bool     `json:"workFromHome"`
	Skills        []string `json:"skills"`
	Deadline      string   `json:"deadline"`
	URL           string   `json:"url"`
	Views         int64    `json:"views"`
	Registrations int64    `json:"registrations"`
	ScrapedAt     string   `json:"scrapedAt"`
	FirstSeen     string   `json:"firstSeen"`
}

type Stipend struct {
	Min      *int64 `json:"min"`
	Max      *int64 `json:"max"`
	Currency string `json:"currency"`
}

func NewSnapshot(internships []entities.Internship, now time.Time) Snapshot {
	entries := lo.Map(internships, func(item entities.Internship, _ int) Entry {
		return NewEntry(item)
	})

	return Snapshot{
		LastUpdated:      FormatTimestamp(now),
		TotalInternships: len(entries),
		Internships:      entries,
	}
}

func NewEntry(item entities.Internship) Entry {
	entry := Entry{
		ID:            item.ExternalID,
		Title:         item.Title,
		Company:       item.CompanyName,
		Logo:          item.LogoURL,
		Type:          item.Type,
		Duration:      item.Duration,
		Location:      item.Location,
		WorkFromHome:  item.WorkFromHome,
		Skills:        item.SkillList(),
		Deadline:      item.Deadline,
		URL:           item.URL,
		Views:         item.Views,
		Registrations: item.Registrations,
		ScrapedAt:     FormatTimestamp(item.ScrapedAt),
		FirstSeen:     FormatTimestamp(item.FirstSeen),
	}

	if item.HasStipend() {
		entry.Stipend = &Stipend{Min: item.StipendMin, Max: item.StipendMax, Currency: item.Currency}
	}

	return entry
}

// FormatTimestamp renders t as ISO-8601 in UTC with a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// WriteFile writes the snapshot as indented JSON, creating parent directories.
func WriteFile(path string, snapshot Snapshot) error {
	return writeJSON(path, snapshot)
}

func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}

func writeJSON(path string, value any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
