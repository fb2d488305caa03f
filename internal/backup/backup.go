// Package backup keeps the raw upstream items of each run in a dated JSON file.
package backup

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/pkg/errors"
)

const fileDateLayout = "2006-01-02"

type Backup struct {
	ScrapeDate     time.Time          `json:"scrape_date"`
	HoursLookback  int                `json:"hours_lookback"`
	PerPage        int                `json:"per_page"`
	TotalItems     int                `json:"total_items"`
	OldItems       int                `json:"old_items"`
	UndatedItems   int                `json:"undated_items"`
	NewItems       int                `json:"new_items"`
	DuplicateItems int                `json:"duplicate_items"`
	SkippedItems   int                `json:"skipped_items"`
	FailedItems    int                `json:"failed_items"`
	PagesFetched   int                `json:"pages_fetched"`
	StopReason     string             `json:"stop_reason"`
	Interrupted    bool               `json:"interrupted"`
	Items          []entities.RawItem `json:"items"`
}

// PathFor returns the backup file of the given calendar day.
func PathFor(dir string, date time.Time) string {
	return filepath.Join(dir, "internships_"+date.Format(fileDateLayout)+".json")
}

// Write stores the backup under dir, replacing a backup of the same day.
func Write(dir string, backup Backup, date time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "can't create backup directory %s", dir)
	}

	if backup.Items == nil {
		backup.Items = []entities.RawItem{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return "", errors.Wrap(err, "can't encode backup")
	}

	path := PathFor(dir, date)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", errors.Wrapf(err, "can't write backup %s", path)
	}

	return path, nil
}

func Read(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read backup %s", path)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, errors.Wrapf(err, "can't decode backup %s", path)
	}

	return &backup, nil
}
