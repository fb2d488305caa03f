package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/maxaizer/internship-scraper/internal/feed"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Internships struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInternshipsRepository(db *gorm.DB) *Internships {
	return &Internships{db: db, now: time.Now}
}

// SetClock replaces the clock used for insertion timestamps, snapshot time and "today".
func (repo *Internships) SetClock(now func() time.Time) {
	repo.now = now
}

// Add inserts the internship unless its external id is already stored.
// A duplicate is reported as (false, nil); any other failure is returned.
func (repo *Internships) Add(ctx context.Context, internship entities.Internship) (bool, error) {
	now := repo.now().UTC()
	internship.ID = 0
	internship.ScrapedAt = now
	internship.FirstSeen = now

	res := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(&internship)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// ListAll returns stored internships, most recently inserted first. limit <= 0 means all.
func (repo *Internships) ListAll(ctx context.Context, limit int) ([]entities.Internship, error) {
	var internships []entities.Internship

	query := repo.db.WithContext(ctx).Order("scraped_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&internships).Error; err != nil {
		return nil, err
	}
	return internships, nil
}

// ExportSnapshot writes every stored internship to path in the public feed format.
func (repo *Internships) ExportSnapshot(ctx context.Context, path string) (int, error) {
	internships, err := repo.ListAll(ctx, 0)
	if err != nil {
		return 0, err
	}

	snapshot := feed.NewSnapshot(internships, repo.now())
	if err = feed.WriteFile(path, snapshot); err != nil {
		return 0, err
	}
	return snapshot.TotalInternships, nil
}

// Stats counts all rows and the rows inserted on the current local calendar day.
func (repo *Internships) Stats(ctx context.Context) (entities.StoreStats, error) {
	var stats entities.StoreStats

	if err := repo.db.WithContext(ctx).Model(&entities.Internship{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	now := repo.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	if err := repo.db.WithContext(ctx).Model(&entities.Internship{}).
		Where("scraped_at >= ? AND scraped_at < ?", dayStart.UTC(), dayEnd.UTC()).
		Count(&stats.AddedToday).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
