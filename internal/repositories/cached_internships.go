package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	gocache "github.com/patrickmn/go-cache"
)

type internshipRepository interface {
	Add(ctx context.Context, internship entities.Internship) (bool, error)
	ListAll(ctx context.Context, limit int) ([]entities.Internship, error)
	ExportSnapshot(ctx context.Context, path string) (int, error)
	Stats(ctx context.Context) (entities.StoreStats, error)
}

// CachedInternships remembers external ids already known to be stored,
// so repeated ids report a duplicate without touching the database.
type CachedInternships struct {
	internshipRepository
	cache *gocache.Cache
}

func NewCachedInternships(repo internshipRepository) *CachedInternships {
	return &CachedInternships{internshipRepository: repo, cache: gocache.New(30*time.Minute, time.Hour)}
}

func (c *CachedInternships) Add(ctx context.Context, internship entities.Internship) (bool, error) {
	if _, found := c.cache.Get(internship.ExternalID); found {
		return false, nil
	}

	added, err := c.internshipRepository.Add(ctx, internship)
	if err == nil {
		c.cache.SetDefault(internship.ExternalID, struct{}{})
	}

	return added, err
}
