package tracker

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
	inserted []models.FarmRun
	runs     []models.FarmRun
	err      error
}

func (f *fakeRunRepo) InsertRun(ctx context.Context, run models.FarmRun) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, run)
	return nil
}

func (f *fakeRunRepo) ListRuns(ctx context.Context, filter mongodb.RunFilter) ([]models.FarmRun, error) {
	return f.runs, f.err
}

func (f *fakeRunRepo) DeleteRun(ctx context.Context, userID, runID string) error { return f.err }

type fakeLootRepo struct {
	items     []models.LootItem
	history   []models.PriceHistoryEntry
	findErr   error
	insertErr error
}

func (f *fakeLootRepo) ListItems(ctx context.Context, bossID string) ([]models.LootItem, error) {
	return f.items, nil
}

func (f *fakeLootRepo) FindItemByName(ctx context.Context, bossID, name string) (*models.LootItem, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, item := range f.items {
		if item.BossID == bossID && item.Name == name {
			found := item
			return &found, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeLootRepo) InsertItem(ctx context.Context, item models.LootItem) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeLootRepo) UpdateItemPrice(ctx context.Context, itemID string, price float64) (*models.LootItem, error) {
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].BasePrice = price
			updated := f.items[i]
			return &updated, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeLootRepo) InsertPriceEntry(ctx context.Context, entry models.PriceHistoryEntry) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeLootRepo) ListPriceEntries(ctx context.Context, lootItemID string, limit int) ([]models.PriceHistoryEntry, error) {
	return f.history, nil
}

type fakeBossRepo struct{ bosses []models.Boss }

func (f *fakeBossRepo) ListBosses(ctx context.Context) ([]models.Boss, error) { return f.bosses, nil }

func newTestService(runs *fakeRunRepo, loot *fakeLootRepo) *Service {
	return NewService(runs, loot, &fakeBossRepo{}, nil).
		WithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) })
}

func validRequest() models.CreateFarmRunRequest {
	return models.CreateFarmRunRequest{
		BossID:        "boss-1",
		Date:          "2024-03-10",
		Kills:         12,
		Chests:        3,
		TimeSpent:     45,
		TotalEarnings: 360,
		Loot: []models.LootEntryInput{
			{Name: "Dragon Scale", Quantity: 2, Price: 80},
			{Name: "Gold Coin", Quantity: 20, Price: 10},
		},
	}
}

func TestRecordRun_CreatesUnseenLootItems(t *testing.T) {
	runs := &fakeRunRepo{}
	loot := &fakeLootRepo{items: []models.LootItem{
		{ID: "li-1", BossID: "boss-1", Name: "Dragon Scale", BasePrice: 75},
	}}
	svc := newTestService(runs, loot)

	run, err := svc.RecordRun(context.Background(), "user-1", validRequest())
	require.NoError(t, err)

	require.Len(t, runs.inserted, 1)
	require.Len(t, run.Loot, 2)

	// Existing item reused, unseen one implicitly created with default rarity.
	assert.Equal(t, "li-1", run.Loot[0].LootItemID)
	require.Len(t, loot.items, 2)
	created := loot.items[1]
	assert.Equal(t, "Gold Coin", created.Name)
	assert.Equal(t, models.RarityCommon, created.Rarity)
	assert.Equal(t, created.ID, run.Loot[1].LootItemID)
}

func TestRecordRun_SnapshotsSubmittedPrice(t *testing.T) {
	runs := &fakeRunRepo{}
	loot := &fakeLootRepo{items: []models.LootItem{
		{ID: "li-1", BossID: "boss-1", Name: "Dragon Scale", BasePrice: 75},
	}}
	svc := newTestService(runs, loot)

	run, err := svc.RecordRun(context.Background(), "user-1", validRequest())
	require.NoError(t, err)

	// The submitted price wins over the catalog's base price.
	assert.Equal(t, 80.0, run.Loot[0].PriceAtTime)
	assert.Equal(t, 160.0, run.Loot[0].TotalValue)
}

func TestRecordRun_NormalizesDate(t *testing.T) {
	runs := &fakeRunRepo{}
	svc := newTestService(runs, &fakeLootRepo{})

	req := validRequest()
	req.Date = "10/03/2024"
	req.Loot = nil

	run, err := svc.RecordRun(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", run.Date)
}

func TestRecordRun_RejectsBadDate(t *testing.T) {
	svc := newTestService(&fakeRunRepo{}, &fakeLootRepo{})

	req := validRequest()
	req.Date = "whenever"

	_, err := svc.RecordRun(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "whenever")
}

func TestRecordRun_Validation(t *testing.T) {
	svc := newTestService(&fakeRunRepo{}, &fakeLootRepo{})

	cases := []func(*models.CreateFarmRunRequest){
		func(r *models.CreateFarmRunRequest) { r.BossID = "" },
		func(r *models.CreateFarmRunRequest) { r.Date = "" },
		func(r *models.CreateFarmRunRequest) { r.Kills = -1 },
		func(r *models.CreateFarmRunRequest) { r.TotalEarnings = -0.5 },
		func(r *models.CreateFarmRunRequest) { r.Loot[0].Name = "" },
		func(r *models.CreateFarmRunRequest) { r.Loot[1].Quantity = 0 },
	}

	for i, mutate := range cases {
		req := validRequest()
		mutate(&req)
		_, err := svc.RecordRun(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, ErrValidation, "case %d", i)
	}
}

func TestRecordRun_SkipsUnresolvableLootEntries(t *testing.T) {
	runs := &fakeRunRepo{}
	loot := &fakeLootRepo{findErr: errors.New("db down")}
	svc := newTestService(runs, loot)

	run, err := svc.RecordRun(context.Background(), "user-1", validRequest())
	require.NoError(t, err, "loot resolution failures must not fail the run")
	assert.Empty(t, run.Loot)
	require.Len(t, runs.inserted, 1)
}

func TestUpdateLootPrice_AppendsHistory(t *testing.T) {
	loot := &fakeLootRepo{items: []models.LootItem{
		{ID: "li-1", BossID: "boss-1", Name: "Dragon Scale", BasePrice: 75},
	}}
	svc := newTestService(&fakeRunRepo{}, loot)

	item, err := svc.UpdateLootPrice(context.Background(), "user-1", models.UpdateLootPriceRequest{ID: "li-1", BasePrice: 90})
	require.NoError(t, err)

	assert.Equal(t, 90.0, item.BasePrice)
	require.Len(t, loot.history, 1)
	assert.Equal(t, "li-1", loot.history[0].LootItemID)
	assert.Equal(t, 90.0, loot.history[0].Price)
	assert.Equal(t, "user-1", loot.history[0].RecordedBy)
}

func TestUpdateLootPrice_UnknownItem(t *testing.T) {
	svc := newTestService(&fakeRunRepo{}, &fakeLootRepo{})

	_, err := svc.UpdateLootPrice(context.Background(), "user-1", models.UpdateLootPriceRequest{ID: "missing", BasePrice: 90})
	assert.ErrorIs(t, err, mongodb.ErrNotFound)
}

func TestPriceHistory_RequiresItemID(t *testing.T) {
	svc := newTestService(&fakeRunRepo{}, &fakeLootRepo{})

	_, err := svc.PriceHistory(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)
}
