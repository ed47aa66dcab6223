package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
)

type fakeRunRepo struct {
	runs       []models.FarmRun
	lastFilter mongodb.RunFilter
	err        error
}

func (f *fakeRunRepo) InsertRun(ctx context.Context, run models.FarmRun) error { return f.err }

func (f *fakeRunRepo) ListRuns(ctx context.Context, filter mongodb.RunFilter) ([]models.FarmRun, error) {
	f.lastFilter = filter
	return f.runs, f.err
}

func (f *fakeRunRepo) DeleteRun(ctx context.Context, userID, runID string) error { return f.err }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMonthWindow(t *testing.T) {
	cases := []struct {
		year, month int
		start, end  string
	}{
		{2024, 3, "2024-03-01", "2024-03-31"},
		{2024, 2, "2024-02-01", "2024-02-29"}, // leap year
		{2023, 2, "2023-02-01", "2023-02-28"},
		{2024, 12, "2024-12-01", "2024-12-31"},
	}

	for _, tc := range cases {
		start, end := MonthWindow(tc.year, tc.month)
		assert.Equal(t, tc.start, start)
		assert.Equal(t, tc.end, end)
	}
}

func TestSummary_AppliesMonthWindow(t *testing.T) {
	repo := &fakeRunRepo{runs: []models.FarmRun{{Date: "2024-03-05", Kills: 7, TotalEarnings: 50}}}
	svc := NewService(repo, nil)

	summary, err := svc.Summary(context.Background(), "user-1", "boss-1", 2024, 3)
	require.NoError(t, err)

	assert.Equal(t, "user-1", repo.lastFilter.UserID)
	assert.Equal(t, "boss-1", repo.lastFilter.BossID)
	assert.Equal(t, "2024-03-01", repo.lastFilter.StartDate)
	assert.Equal(t, "2024-03-31", repo.lastFilter.EndDate)
	assert.Equal(t, 7, summary.TotalKills)
}

func TestSummary_NoWindowWithoutYearAndMonth(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := NewService(repo, nil)

	_, err := svc.Summary(context.Background(), "user-1", "", 2024, 0)
	require.NoError(t, err)

	assert.Empty(t, repo.lastFilter.StartDate)
	assert.Empty(t, repo.lastFilter.EndDate)
}

func TestSummary_RepositoryError(t *testing.T) {
	repo := &fakeRunRepo{err: errors.New("boom")}
	svc := NewService(repo, nil)

	_, err := svc.Summary(context.Background(), "user-1", "", 0, 0)
	assert.Error(t, err)
}

func TestInsights_DefaultsToLast30Days(t *testing.T) {
	today := time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC)
	repo := &fakeRunRepo{}
	svc := NewService(repo, nil).WithClock(fixedClock(today))

	_, err := svc.Insights(context.Background(), "user-1", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", repo.lastFilter.StartDate)
	assert.Equal(t, "2024-03-31", repo.lastFilter.EndDate)
}

func TestInsights_ExplicitRangePassedThrough(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := NewService(repo, nil)

	_, err := svc.Insights(context.Background(), "user-1", "boss-2", "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", repo.lastFilter.StartDate)
	assert.Equal(t, "2024-01-31", repo.lastFilter.EndDate)
	assert.Equal(t, "boss-2", repo.lastFilter.BossID)
}
