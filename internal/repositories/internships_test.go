package repositories

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/maxaizer/internship-scraper/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Internships, *DbContext) {
	dbCtx, err := NewDbContext(filepath.Join(t.TempDir(), "nested", "internships.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })

	return NewInternshipsRepository(dbCtx.DB), dbCtx
}

func newInternship(t *testing.T, raw string) entities.Internship {
	internship, err := entities.NewInternship(entities.RawItem(raw), "https://unstop.com/internships/")
	require.NoError(t, err)
	return internship
}

func Test_Internships_AddTwiceKeepsOneRow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	internship := newInternship(t, `{"id":"test-001","title":"Software Development Intern"}`)

	added, err := repo.Add(ctx, internship)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, internship)
	require.NoError(t, err)
	assert.False(t, added)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}

func Test_Internships_DuplicateDoesNotUpdateFirstSighting(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return first })
	_, err := repo.Add(ctx, newInternship(t, `{"id":"1","title":"Original"}`))
	require.NoError(t, err)

	repo.SetClock(func() time.Time { return first.Add(24 * time.Hour) })
	added, err := repo.Add(ctx, newInternship(t, `{"id":"1","title":"Renamed"}`))
	require.NoError(t, err)
	assert.False(t, added)

	stored, err := repo.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Original", stored[0].Title)
	assert.True(t, first.Equal(stored[0].FirstSeen))
	assert.True(t, first.Equal(stored[0].ScrapedAt))
}

func Test_Internships_ListAllNewestFirstWithLimit(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		repo.SetClock(func() time.Time { return at })
		_, err := repo.Add(ctx, newInternship(t, fmt.Sprintf(`{"id":"%d"}`, i)))
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "4", all[0].ExternalID)
	assert.Equal(t, "0", all[4].ExternalID)

	limited, err := repo.ListAll(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "4", limited[0].ExternalID)
	assert.Equal(t, "3", limited[1].ExternalID)
}

func Test_Internships_StatsCountsToday(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	today := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	repo.SetClock(func() time.Time { return yesterday })
	_, err := repo.Add(ctx, newInternship(t, `{"id":"old"}`))
	require.NoError(t, err)

	repo.SetClock(func() time.Time { return today })
	for _, id := range []string{"a", "b"} {
		_, err = repo.Add(ctx, newInternship(t, fmt.Sprintf(`{"id":"%s"}`, id)))
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.AddedToday)
}

func Test_Internships_ExportSnapshot(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Add(ctx, newInternship(t,
		`{"id":"1","title":"Paid","stipend":{"min":15000,"max":25000,"currency":"INR"},"skills_required":[{"skill":"Go"}]}`))
	require.NoError(t, err)
	_, err = repo.Add(ctx, newInternship(t, `{"id":"2","title":"Unpaid"}`))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "docs", "data", "internships.json")
	exported, err := repo.ExportSnapshot(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, exported)

	snapshot, err := feed.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalInternships)
	require.Len(t, snapshot.Internships, 2)

	byID := map[string]feed.Entry{}
	for _, entry := range snapshot.Internships {
		byID[entry.ID] = entry
	}

	paid := byID["1"]
	require.NotNil(t, paid.Stipend)
	assert.Equal(t, int64(15000), *paid.Stipend.Min)
	assert.Equal(t, int64(25000), *paid.Stipend.Max)
	assert.Equal(t, "INR", paid.Stipend.Currency)
	assert.Equal(t, []string{"Go"}, paid.Skills)

	assert.Nil(t, byID["2"].Stipend)
	assert.Equal(t, []string{}, byID["2"].Skills)
}
