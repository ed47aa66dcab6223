package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
)

// ErrValidation indicates the submitted payload failed a domain check.
var ErrValidation = errors.New("invalid farm run payload")

// priceHistoryLimit caps the trend listing at the most recent entries.
const priceHistoryLimit = 30

// Service implements the recording side of the tracker: farm runs, the
// loot catalog, and price history.
type Service struct {
	runs   mongodb.FarmRunRepository
	loot   mongodb.LootRepository
	bosses mongodb.BossRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new tracker service instance.
func NewService(runs mongodb.FarmRunRepository, loot mongodb.LootRepository, bosses mongodb.BossRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		runs:   runs,
		loot:   loot,
		bosses: bosses,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordRun validates and stores a new farm run. Loot entries resolve to
// catalog items, creating any not yet seen for the boss; the submitted
// price is snapshotted onto the run line. A loot entry that cannot be
// resolved is skipped rather than failing the whole run.
func (s *Service) RecordRun(ctx context.Context, userID string, req models.CreateFarmRunRequest) (*models.FarmRun, error) {
	if err := validateRunRequest(req); err != nil {
		return nil, err
	}

	date, err := models.NormalizeDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	run := models.FarmRun{
		ID:            uuid.NewString(),
		UserID:        userID,
		BossID:        req.BossID,
		Date:          date,
		Kills:         req.Kills,
		Chests:        req.Chests,
		TimeSpent:     req.TimeSpent,
		TotalEarnings: req.TotalEarnings,
		Notes:         req.Notes,
		CreatedAt:     s.now().UTC(),
	}

	for _, entry := range req.Loot {
		item, err := s.resolveLootItem(ctx, req.BossID, entry)
		if err != nil {
			s.logger.Warn("skipping unresolvable loot entry",
				zap.String("boss_id", req.BossID),
				zap.String("name", entry.Name),
				zap.Error(err))
			continue
		}

		run.Loot = append(run.Loot, models.LootLine{
			LootItemID:  item.ID,
			Name:        item.Name,
			Quantity:    entry.Quantity,
			PriceAtTime: entry.Price,
			TotalValue:  float64(entry.Quantity) * entry.Price,
		})
	}

	if err := s.runs.InsertRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record farm run: %w", err)
	}

	s.logger.Info("farm run recorded",
		zap.String("run_id", run.ID),
		zap.String("user_id", userID),
		zap.String("date", run.Date),
		zap.Int("loot_lines", len(run.Loot)))

	return &run, nil
}

func (s *Service) resolveLootItem(ctx context.Context, bossID string, entry models.LootEntryInput) (*models.LootItem, error) {
	item, err := s.loot.FindItemByName(ctx, bossID, entry.Name)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return nil, err
	}

	created := models.LootItem{
		ID:        uuid.NewString(),
		BossID:    bossID,
		Name:      entry.Name,
		BasePrice: entry.Price,
		Rarity:    models.RarityCommon,
		CreatedAt: s.now().UTC(),
	}
	if err := s.loot.InsertItem(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRuns returns a user's runs, newest first, optionally narrowed by
// boss and an inclusive date range.
func (s *Service) ListRuns(ctx context.Context, userID, bossID, startDate, endDate string) ([]models.FarmRun, error) {
	runs, err := s.runs.ListRuns(ctx, mongodb.RunFilter{
		UserID:    userID,
		BossID:    bossID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, fmt.Errorf("list farm runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes one of the user's runs.
func (s *Service) DeleteRun(ctx context.Context, userID, runID string) error {
	if err := s.runs.DeleteRun(ctx, userID, runID); err != nil {
		return fmt.Errorf("delete farm run %s: %w", runID, err)
	}
	return nil
}

// ListLootItems returns the catalog, optionally narrowed to one boss.
func (s *Service) ListLootItems(ctx context.Context, bossID string) ([]models.LootItem, error) {
	items, err := s.loot.ListItems(ctx, bossID)
	if err != nil {
		return nil, fmt.Errorf("list loot items: %w", err)
	}
	return items, nil
}

// UpdateLootPrice sets a new base price and appends a price-history entry.
// Historical run lines keep their snapshotted prices. A history write
// failure is logged but does not undo the price change, matching the
// catalog-first ordering of the operation.
func (s *Service) UpdateLootPrice(ctx context.Context, userID string, req models.UpdateLootPriceRequest) (*models.LootItem, error) {
	item, err := s.loot.UpdateItemPrice(ctx, req.ID, req.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("update loot price: %w", err)
	}

	entry := models.PriceHistoryEntry{
		ID:         uuid.NewString(),
		LootItemID: item.ID,
		Price:      req.BasePrice,
		RecordedBy: userID,
		RecordedAt: s.now().UTC(),
	}
	if err := s.loot.InsertPriceEntry(ctx, entry); err != nil {
		s.logger.Error("failed recording price history", zap.String("loot_item_id", item.ID), zap.Error(err))
	}

	return item, nil
}

// PriceHistory returns the last entries for a loot item in chronological
// order.
func (s *Service) PriceHistory(ctx context.Context, lootItemID string) ([]models.PriceHistoryEntry, error) {
	if strings.TrimSpace(lootItemID) == "" {
		return nil, fmt.Errorf("%w: lootItemId is required", ErrValidation)
	}

	entries, err := s.loot.ListPriceEntries(ctx, lootItemID, priceHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	return entries, nil
}

// ListBosses returns the static boss reference data.
func (s *Service) ListBosses(ctx context.Context) ([]models.Boss, error) {
	bosses, err := s.bosses.ListBosses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bosses: %w", err)
	}
	return bosses, nil
}

func validateRunRequest(req models.CreateFarmRunRequest) error {
	switch {
	case strings.TrimSpace(req.BossID) == "":
		return fmt.Errorf("%w: bossId is required", ErrValidation)
	case strings.TrimSpace(req.Date) == "":
		return fmt.Errorf("%w: date is required", ErrValidation)
	case req.Kills < 0 || req.Chests < 0 || req.TimeSpent < 0 || req.TotalEarnings < 0:
		return fmt.Errorf("%w: counts must be non-negative", ErrValidation)
	}

	for _, entry := range req.Loot {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("%w: loot entry name is required", ErrValidation)
		}
		if entry.Quantity <= 0 {
			return fmt.Errorf("%w: loot quantity must be positive", ErrValidation)
		}
	}
	return nil
}
