package expiry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
	"github.com/nkoivu/bossfarm/pkg/clients/notify"
)

// ErrValidation indicates the submitted equipment payload failed a check.
var ErrValidation = errors.New("invalid equipment payload")

// notifyWindowDays is the inclusive lookahead for expiry notifications.
const notifyWindowDays = 3

// Service owns equipment CRUD and the expiry notification batch.
type Service struct {
	equipment mongodb.EquipmentRepository
	notifier  notify.Client
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new expiry service instance.
func NewService(equipment mongodb.EquipmentRepository, notifier notify.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		equipment: equipment,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DaysUntil computes whole days from today's midnight to the expiration
// date's midnight. Negative for already-expired items.
func DaysUntil(expirationDate string, today time.Time) (int, error) {
	expiration, err := models.ParseDay(expirationDate)
	if err != nil {
		return 0, err
	}
	// Anchor today's calendar day at UTC midnight so the diff is whole days
	// regardless of the server timezone.
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	diff := expiration.Sub(todayMidnight)
	return int(math.Ceil(diff.Hours() / 24)), nil
}

// Classify grades an equipment item's urgency relative to today. Day 1 is
// critical, day 2 warning, day 3 info; the boundaries are inclusive.
func Classify(item models.EquipmentItem, today time.Time) models.ExpiryStatus {
	status := models.ExpiryStatus{Item: item, Level: models.ExpiryNormal}

	daysUntil, err := DaysUntil(item.ExpirationDate, today)
	if err != nil {
		// Malformed dates never reach storage through the API; grade
		// anything unparsable as expired so it surfaces.
		status.Level = models.ExpiryExpired
		status.DaysUntil = -1
		return status
	}

	status.DaysUntil = daysUntil
	switch {
	case daysUntil < 0:
		status.Level = models.ExpiryExpired
	case daysUntil <= 1:
		status.Level = models.ExpiryCritical
	case daysUntil <= 2:
		status.Level = models.ExpiryWarning
	case daysUntil <= notifyWindowDays:
		status.Level = models.ExpiryInfo
	}
	return status
}

// List returns a user's equipment with classifications, ascending by
// expiration date.
func (s *Service) List(ctx context.Context, userID string) ([]models.ExpiryStatus, error) {
	items, err := s.equipment.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}

	today := s.now()
	statuses := make([]models.ExpiryStatus, 0, len(items))
	for _, item := range items {
		statuses = append(statuses, Classify(item, today))
	}
	return statuses, nil
}

// Upcoming returns the user's items expiring within the notification
// window, classified, soonest first.
func (s *Service) Upcoming(ctx context.Context, userID string) ([]models.ExpiryStatus, error) {
	statuses, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming := make([]models.ExpiryStatus, 0, len(statuses))
	for _, status := range statuses {
		if status.DaysUntil >= 0 && status.DaysUntil <= notifyWindowDays {
			upcoming = append(upcoming, status)
		}
	}
	return upcoming, nil
}

// Create registers a new equipment item for the user.
func (s *Service) Create(ctx context.Context, userID string, req models.CreateEquipmentRequest) (*models.EquipmentItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	date, err := models.NormalizeDate(req.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	item := models.EquipmentItem{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		ExpirationDate: date,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.equipment.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return &item, nil
}

// Update edits an equipment item. Changing the expiration date re-arms the
// notification flag so a renewed item re-enters the notification window.
func (s *Service) Update(ctx context.Context, userID, itemID string, req models.UpdateEquipmentRequest) (*models.EquipmentItem, error) {
	item, err := s.equipment.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("load equipment %s: %w", itemID, err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ExpirationDate != nil {
		date, err := models.NormalizeDate(*req.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		if date != item.ExpirationDate {
			item.ExpirationDate = date
			item.NotificationSent = false
		}
	}

	if err := s.equipment.Update(ctx, *item); err != nil {
		return nil, fmt.Errorf("update equipment %s: %w", itemID, err)
	}
	return item, nil
}

// Delete removes one of the user's equipment items.
func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	if err := s.equipment.Delete(ctx, userID, itemID); err != nil {
		return fmt.Errorf("delete equipment %s: %w", itemID, err)
	}
	return nil
}

// ScanAndNotify finds all not-yet-notified items expiring within the
// window, sends one aggregated message per owner, and flips the
// notification flags for each successfully delivered batch. Owner batches
// are dispatched concurrently; one owner's failure never blocks another.
func (s *Service) ScanAndNotify(ctx context.Context) ([]models.NotifyResult, error) {
	today := s.now()
	fromDate := models.Midnight(today).Format(models.DateLayout)
	toDate := models.Midnight(today).AddDate(0, 0, notifyWindowDays).Format(models.DateLayout)

	items, err := s.equipment.ListExpiringUnnotified(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("scan expiring equipment: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	batches := make(map[string][]models.ExpiryStatus)
	owners := make([]string, 0)
	for _, item := range items {
		if _, ok := batches[item.UserID]; !ok {
			owners = append(owners, item.UserID)
		}
		batches[item.UserID] = append(batches[item.UserID], Classify(item, today))
	}

	results := make([]models.NotifyResult, len(owners))

	var wg sync.WaitGroup
	for i, owner := range owners {
		wg.Add(1)
		go func(i int, owner string, batch []models.ExpiryStatus) {
			defer wg.Done()
			results[i] = s.notifyOwner(ctx, owner, batch)
		}(i, owner, batches[owner])
	}
	wg.Wait()

	return results, nil
}

func (s *Service) notifyOwner(ctx context.Context, owner string, batch []models.ExpiryStatus) models.NotifyResult {
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].DaysUntil < batch[j].DaysUntil
	})

	itemIDs := make([]string, 0, len(batch))
	for _, status := range batch {
		itemIDs = append(itemIDs, status.Item.ID)
	}

	result := models.NotifyResult{UserID: owner, ItemsNotified: itemIDs}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.notifier.SendMessage(sendCtx, notify.SendMessageRequest{
		To:      owner,
		Subject: fmt.Sprintf("Equipment expiration alert - %d item%s expiring soon", len(batch), plural(len(batch))),
		Body:    buildExpiryMessage(batch),
	})
	if err != nil {
		s.logger.Error("failed notifying owner", zap.String("user_id", owner), zap.Error(err))
		result.Error = err.Error()
		return result
	}

	if err := s.equipment.MarkNotified(sendCtx, itemIDs); err != nil {
		s.logger.Error("failed marking equipment notified", zap.String("user_id", owner), zap.Error(err))
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

func buildExpiryMessage(batch []models.ExpiryStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d equipment item%s expiring soon:\n\n", len(batch), plural(len(batch)))

	for _, status := range batch {
		marker := "[NOTICE]"
		switch status.Level {
		case models.ExpiryCritical, models.ExpiryExpired:
			marker = "[URGENT]"
		case models.ExpiryWarning:
			marker = "[WARNING]"
		}
		fmt.Fprintf(&b, "%s %s expires in %d day%s (%s)\n",
			marker, status.Item.Name, status.DaysUntil, plural(status.DaysUntil), status.Item.ExpirationDate)
	}

	b.WriteString("\nLog in to your farm tracker to review and manage your equipment.")
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
