package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
	"github.com/nkoivu/bossfarm/internal/server/handlers"
	"github.com/nkoivu/bossfarm/internal/service/expiry"
	"github.com/nkoivu/bossfarm/internal/service/stats"
	"github.com/nkoivu/bossfarm/internal/service/tracker"
	"github.com/nkoivu/bossfarm/pkg/clients/notify"
)

type stubRunRepo struct{ runs []models.FarmRun }

func (s *stubRunRepo) InsertRun(ctx context.Context, run models.FarmRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubRunRepo) ListRuns(ctx context.Context, filter mongodb.RunFilter) ([]models.FarmRun, error) {
	return s.runs, nil
}

func (s *stubRunRepo) DeleteRun(ctx context.Context, userID, runID string) error { return nil }

type stubLootRepo struct{}

func (stubLootRepo) ListItems(ctx context.Context, bossID string) ([]models.LootItem, error) {
	return nil, nil
}

func (stubLootRepo) FindItemByName(ctx context.Context, bossID, name string) (*models.LootItem, error) {
	return nil, mongodb.ErrNotFound
}

func (stubLootRepo) InsertItem(ctx context.Context, item models.LootItem) error { return nil }

func (stubLootRepo) UpdateItemPrice(ctx context.Context, itemID string, price float64) (*models.LootItem, error) {
	return nil, mongodb.ErrNotFound
}

func (stubLootRepo) InsertPriceEntry(ctx context.Context, entry models.PriceHistoryEntry) error {
	return nil
}

func (stubLootRepo) ListPriceEntries(ctx context.Context, lootItemID string, limit int) ([]models.PriceHistoryEntry, error) {
	return nil, nil
}

type stubBossRepo struct{}

func (stubBossRepo) ListBosses(ctx context.Context) ([]models.Boss, error) {
	return []models.Boss{{ID: "boss-1", Name: "Ancient Wyrm"}}, nil
}

type stubEquipmentRepo struct{ items []models.EquipmentItem }

func (s *stubEquipmentRepo) ListByOwner(ctx context.Context, userID string) ([]models.EquipmentItem, error) {
	return s.items, nil
}

func (s *stubEquipmentRepo) GetByID(ctx context.Context, userID, itemID string) (*models.EquipmentItem, error) {
	return nil, mongodb.ErrNotFound
}

func (s *stubEquipmentRepo) Insert(ctx context.Context, item models.EquipmentItem) error {
	s.items = append(s.items, item)
	return nil
}

func (s *stubEquipmentRepo) Update(ctx context.Context, item models.EquipmentItem) error { return nil }

func (s *stubEquipmentRepo) Delete(ctx context.Context, userID, itemID string) error { return nil }

func (s *stubEquipmentRepo) ListExpiringUnnotified(ctx context.Context, fromDate, toDate string) ([]models.EquipmentItem, error) {
	return nil, nil
}

func (s *stubEquipmentRepo) MarkNotified(ctx context.Context, itemIDs []string) error { return nil }

type stubNotifier struct{}

func (stubNotifier) SendMessage(ctx context.Context, req notify.SendMessageRequest) (*notify.SendMessageResponse, error) {
	return &notify.SendMessageResponse{Status: "queued"}, nil
}

func testEngine(runRepo *stubRunRepo) http.Handler {
	trackerSvc := tracker.NewService(runRepo, stubLootRepo{}, stubBossRepo{}, nil)
	statsSvc := stats.NewService(runRepo, nil).WithClock(func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	})
	expirySvc := expiry.NewService(&stubEquipmentRepo{}, stubNotifier{}, nil)

	return New(
		handlers.NewTrackerHandler(trackerSvc, nil),
		handlers.NewStatsHandler(statsSvc, nil),
		handlers.NewEquipmentHandler(expirySvc, nil),
		nil,
	)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	testEngine(&stubRunRepo{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAPIRequiresIdentity(t *testing.T) {
	paths := []string{"/api/farm-runs", "/api/farm-stats", "/api/equipment", "/api/bosses"}

	for _, path := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)

		testEngine(&stubRunRepo{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestFarmStatsSummary(t *testing.T) {
	repo := &stubRunRepo{runs: []models.FarmRun{
		{Date: "2024-03-09", Kills: 4, Chests: 1, TotalEarnings: 120},
		{Date: "2024-03-08", Kills: 6, Chests: 2, TotalEarnings: 80},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/farm-stats", nil)
	req.Header.Set("X-User-ID", "user-1")

	testEngine(repo).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"totalKills":10`)
	assert.Contains(t, body, `"bestDay":{"date":"2024-03-09"`)
}

func TestFarmStatsSummary_BadMonth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/farm-stats?year=2024&month=13", nil)
	req.Header.Set("X-User-ID", "user-1")

	testEngine(&stubRunRepo{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFarmRun(t *testing.T) {
	repo := &stubRunRepo{}

	payload := `{"bossId":"boss-1","date":"05/03/2024","kills":3,"chests":1,"timeSpent":30,"totalEarnings":90}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/farm-runs", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")

	testEngine(repo).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.runs, 1)
	assert.Equal(t, "2024-03-05", repo.runs[0].Date)
	assert.Equal(t, "user-1", repo.runs[0].UserID)
}

func TestCreateFarmRun_BadDate(t *testing.T) {
	payload := `{"bossId":"boss-1","date":"someday","kills":3}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/farm-runs", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-1")

	testEngine(&stubRunRepo{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBosses(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bosses", nil)
	req.Header.Set("X-User-ID", "user-1")

	testEngine(&stubRunRepo{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ancient Wyrm")
}
