package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

var (
	ErrMissingTrackerType = errors.New("missing tracking type")
	ErrAboveBelowCurrent  = errors.New("cannot set 'above' lower than current value")
	ErrBelowAboveCurrent  = errors.New("cannot set 'below' higher than current value")
	ErrNoAlertRange       = errors.New("must have at least one range set for an active alert")
	ErrUnknownTracker     = errors.New("unknown tracker")
	ErrSaveInFlight       = errors.New("tracker save already in flight")
)

// TrackerEdit is a partial change to a tracker's alert configuration.
// Clear flags remove a bound; a nil field leaves it untouched.
type TrackerEdit struct {
	Active      *bool
	TrackerType *domain.TrackerType
	Above       *decimal.Decimal
	ClearAbove  bool
	Below       *decimal.Decimal
	ClearBelow  bool
}

// TrackerUsecase edits and persists tracker alert settings. A tracker is
// Clean until edited (draft held locally), Dirty until a save succeeds,
// and Saving while a persist is in flight. Saving state is per tracker, so
// saves on different trackers do not interfere.
type TrackerUsecase struct {
	portfolio *PortfolioUsecase
	client    domain.MarketClient
	logger    *zap.Logger

	mu     sync.Mutex
	drafts map[string]domain.TokenTracker
	saving map[string]bool
}

func NewTrackerUsecase(portfolio *PortfolioUsecase, client domain.MarketClient, logger *zap.Logger) *TrackerUsecase {
	return &TrackerUsecase{
		portfolio: portfolio,
		client:    client,
		logger:    logger,
		drafts:    make(map[string]domain.TokenTracker),
		saving:    make(map[string]bool),
	}
}

// Edit applies a partial change on top of the tracker's draft (or its
// current saved state when clean) without touching the server.
func (u *TrackerUsecase) Edit(id string, edit TrackerEdit) (domain.TokenTracker, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	tracker, ok := u.drafts[id]
	if !ok {
		tracker, ok = u.portfolio.Tracker(id)
		if !ok {
			return domain.TokenTracker{}, fmt.Errorf("%w: %s", ErrUnknownTracker, id)
		}
	}

	if edit.Active != nil {
		tracker.Active = *edit.Active
	}
	if edit.TrackerType != nil {
		trackerType := *edit.TrackerType
		tracker.TrackerType = &trackerType
	}
	if edit.ClearAbove {
		tracker.Above = nil
	} else if edit.Above != nil {
		above := *edit.Above
		tracker.Above = &above
	}
	if edit.ClearBelow {
		tracker.Below = nil
	} else if edit.Below != nil {
		below := *edit.Below
		tracker.Below = &below
	}

	u.drafts[id] = tracker
	return tracker, nil
}

// Draft returns the pending local edit for a tracker, if any.
func (u *TrackerUsecase) Draft(id string) (domain.TokenTracker, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	tracker, ok := u.drafts[id]
	return tracker, ok
}

// IsDirty reports whether the tracker has an unsaved local edit.
func (u *TrackerUsecase) IsDirty(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.drafts[id]
	return ok
}

// IsSaving reports whether a persist is in flight for the tracker.
func (u *TrackerUsecase) IsSaving(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.saving[id]
}

// Discard drops the tracker's pending edit, reverting it to Clean.
func (u *TrackerUsecase) Discard(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.drafts, id)
}

// Save validates the tracker's draft against current market values and
// persists it. On success the server's tracker replaces the local one and
// the draft clears; on failure the draft is retained.
func (u *TrackerUsecase) Save(ctx context.Context, id string) (*domain.TokenTracker, error) {
	u.mu.Lock()
	if u.saving[id] {
		u.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	tracker, ok := u.drafts[id]
	if !ok {
		tracker, ok = u.portfolio.Tracker(id)
		if !ok {
			u.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrUnknownTracker, id)
		}
	}
	u.mu.Unlock()

	// Drafts carry the token as of the first edit; prices may have moved
	// since. Validate against the live token, keeping the drafted settings.
	if live, ok := u.portfolio.Tracker(id); ok {
		tracker.Token = live.Token
	}
	if err := ValidateTracker(tracker); err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.saving[id] = true
	u.mu.Unlock()

	update := domain.TrackerUpdate{
		ID:          tracker.ID,
		Active:      tracker.Active,
		TrackerType: tracker.TrackerType,
		Above:       tracker.Above,
		Below:       tracker.Below,
	}
	saved, err := u.client.SaveTracker(ctx, update)

	u.mu.Lock()
	delete(u.saving, id)
	if err != nil {
		u.mu.Unlock()
		u.logger.Warn("tracker save failed", zap.String("tracker_id", id), zap.Error(err))
		return nil, fmt.Errorf("save tracker: %w", err)
	}
	delete(u.drafts, id)
	u.mu.Unlock()

	u.portfolio.ApplyTracker(*saved)
	return saved, nil
}

// ValidateTracker checks an alert configuration against the tracker's
// current market value. Checks run in order and stop at the first failure.
func ValidateTracker(tracker domain.TokenTracker) error {
	if tracker.TrackerType == nil {
		return ErrMissingTrackerType
	}
	current := tracker.CurrentValue()
	if tracker.Above != nil && tracker.Above.LessThan(current) {
		return ErrAboveBelowCurrent
	}
	if tracker.Below != nil && tracker.Below.GreaterThan(current) {
		return ErrBelowAboveCurrent
	}
	if tracker.Active && tracker.Above == nil && tracker.Below == nil {
		return ErrNoAlertRange
	}
	return nil
}
