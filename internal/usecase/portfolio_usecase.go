package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tlskins/nft-tracker-app/internal/domain"
	"github.com/tlskins/nft-tracker-app/internal/portfolio"
)

var (
	ErrWalletNotLoaded  = errors.New("wallet not loaded")
	ErrUserNotLoaded    = errors.New("user not loaded")
	ErrWalletNotTracked = errors.New("wallet not in tracked set")
	ErrSyncTimeout      = errors.New("syncing timed out, please try again in a few minutes")
)

// PortfolioUsecase owns the in-memory wallet state. The flat tracker list
// is the single source of truth; the collection grouping is derived from
// it and memoized against a state version. Every load and sync bumps a
// generation counter, and prediction batches issued under an older
// generation are discarded at merge time.
type PortfolioUsecase struct {
	client    domain.MarketClient
	snapshots domain.SnapshotRepository
	logger    *zap.Logger
	cutoff    time.Duration
	now       func() time.Time

	mu             sync.Mutex
	loaded         bool
	generation     uint64
	version        uint64
	trackers       []domain.TokenTracker
	untracked      []domain.Nft
	trackingTypes  []domain.TrackerType
	user           *domain.User
	selectedWallet string

	groupedVersion uint64
	grouped        portfolio.Grouping
}

// NewPortfolioUsecase builds the portfolio state manager. snapshots may be
// nil when no local store is configured.
func NewPortfolioUsecase(client domain.MarketClient, snapshots domain.SnapshotRepository, cutoff time.Duration, logger *zap.Logger) *PortfolioUsecase {
	return &PortfolioUsecase{
		client:    client,
		snapshots: snapshots,
		logger:    logger,
		cutoff:    cutoff,
		now:       time.Now,
	}
}

// SetUser installs the session user. The connected wallet becomes the
// selected wallet unless one was already chosen.
func (u *PortfolioUsecase) SetUser(user *domain.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.user = user
	if u.selectedWallet == "" && user != nil {
		u.selectedWallet = user.WalletPublicKey
	}
}

func (u *PortfolioUsecase) User() *domain.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.user
}

// SelectWallet switches the wallet the per-wallet aggregates are computed
// for. The wallet must belong to the user's tracked set.
func (u *PortfolioUsecase) SelectWallet(walletAddress string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.user == nil {
		return ErrUserNotLoaded
	}
	if !u.user.TracksWallet(walletAddress) {
		return fmt.Errorf("%w: %s", ErrWalletNotTracked, walletAddress)
	}
	u.selectedWallet = walletAddress
	return nil
}

// LoadWallet fetches the full wallet payload and replaces local state.
func (u *PortfolioUsecase) LoadWallet(ctx context.Context) error {
	data, err := u.client.GetWallet(ctx)
	if err != nil {
		return fmt.Errorf("get wallet: %w", err)
	}

	u.mu.Lock()
	u.generation++
	u.version++
	u.loaded = true
	u.trackers = data.Tracked
	u.untracked = data.Untracked
	u.trackingTypes = data.TrackingTypes
	u.mu.Unlock()

	u.logger.Info("wallet loaded",
		zap.Int("tracked", len(data.Tracked)),
		zap.Int("untracked", len(data.Untracked)),
	)
	u.recordSnapshots(ctx)
	return nil
}

// SyncWallet asks the backend to re-scan the user's wallets and replaces
// local state with the result. A slow failure is reported as ErrSyncTimeout.
func (u *PortfolioUsecase) SyncWallet(ctx context.Context) error {
	data, err := u.client.SyncWallet(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSyncTimeout) {
			return ErrSyncTimeout
		}
		return fmt.Errorf("sync wallet: %w", err)
	}

	u.mu.Lock()
	u.generation++
	u.version++
	u.loaded = true
	u.trackers = data.Tracked
	u.untracked = data.Untracked
	u.mu.Unlock()

	u.logger.Info("wallet synced",
		zap.Int("tracked", len(data.Tracked)),
		zap.Int("untracked", len(data.Untracked)),
	)
	u.recordSnapshots(ctx)
	return nil
}

// RefreshPredictions finds trackers whose valuation is older than the
// cutoff and requests recomputation, one batch per collection. Batches run
// concurrently and independently; a failed collection keeps its prior
// values. Results merge by id and are dropped wholesale if the wallet was
// reloaded while the batch was in flight.
func (u *PortfolioUsecase) RefreshPredictions(ctx context.Context) error {
	u.mu.Lock()
	if !u.loaded {
		u.mu.Unlock()
		return ErrWalletNotLoaded
	}
	generation := u.generation
	trackers := make([]domain.TokenTracker, len(u.trackers))
	copy(trackers, u.trackers)
	u.mu.Unlock()

	collections, staleIDs := portfolio.StaleIDsByCollection(trackers, u.cutoff, u.now())
	if len(collections) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var merged atomic.Bool
	errCh := make(chan error, len(collections))
	for _, coll := range collections {
		wg.Add(1)
		go func(coll string, ids []string) {
			defer wg.Done()
			updated, err := u.client.PredictTrackers(ctx, domain.PredictRequest{Collection: coll, IDs: ids})
			if err != nil {
				u.logger.Warn("prediction batch failed",
					zap.String("collection", coll),
					zap.Int("tracker_count", len(ids)),
					zap.Error(err),
				)
				errCh <- fmt.Errorf("predict %s: %w", coll, err)
				return
			}
			if !u.mergeTrackers(generation, updated) {
				u.logger.Debug("discarded prediction batch from superseded generation",
					zap.String("collection", coll))
				return
			}
			merged.Store(true)
		}(coll, staleIDs[coll])
	}
	wg.Wait()
	close(errCh)

	// Successful collections are already merged even when siblings failed,
	// so their valuations still get snapshotted.
	if merged.Load() {
		u.recordSnapshots(ctx)
	}

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RunPeriodicRefresh re-runs the staleness refresh on a fixed interval
// until the context is done.
func (u *PortfolioUsecase) RunPeriodicRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := u.RefreshPredictions(ctx); err != nil && !errors.Is(err, ErrWalletNotLoaded) {
				u.logger.Warn("periodic refresh failed", zap.Error(err))
			}
		}
	}
}

// ApplyTracker replaces the same-id tracker in the flat list, typically
// with a server response after a save. Unknown ids are a no-op.
func (u *PortfolioUsecase) ApplyTracker(tracker domain.TokenTracker) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.trackers = portfolio.Merge(u.trackers, []domain.TokenTracker{tracker})
	u.version++
}

// ApplyPriceChange folds a live collection price move into every tracked
// token of that collection.
func (u *PortfolioUsecase) ApplyPriceChange(change domain.PriceChange) {
	if change.FloorPrice == nil && change.SuggestedPrice == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	touched := false
	for i, tracker := range u.trackers {
		coll, ok := tracker.Collection()
		if !ok || coll != change.Collection {
			continue
		}
		token := *tracker.Token
		if change.FloorPrice != nil {
			floor := *change.FloorPrice
			token.FloorPrice = &floor
		}
		if change.SuggestedPrice != nil {
			suggested := *change.SuggestedPrice
			token.SuggestedPrice = &suggested
		}
		u.trackers[i].Token = &token
		touched = true
	}
	if touched {
		u.version++
	}
}

// DeleteWallet removes a tracked wallet server-side and drops its trackers
// and untracked NFTs from local state.
func (u *PortfolioUsecase) DeleteWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	user, err := u.client.DeleteWallet(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("delete wallet: %w", err)
	}

	u.mu.Lock()
	u.user = user
	kept := u.trackers[:0]
	for _, tracker := range u.trackers {
		if tracker.WalletAddress != walletAddress {
			kept = append(kept, tracker)
		}
	}
	u.trackers = kept
	keptNfts := u.untracked[:0]
	for _, nft := range u.untracked {
		if nft.WalletAddress != walletAddress {
			keptNfts = append(keptNfts, nft)
		}
	}
	u.untracked = keptNfts
	if u.selectedWallet == walletAddress {
		u.selectedWallet = ""
		if user != nil {
			u.selectedWallet = user.WalletPublicKey
		}
	}
	u.version++
	u.mu.Unlock()

	return user, nil
}

// AddTrackedWallet appends a wallet to the user's tracked set via the
// profile endpoint.
func (u *PortfolioUsecase) AddTrackedWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	u.mu.Lock()
	if u.user == nil {
		u.mu.Unlock()
		return nil, ErrUserNotLoaded
	}
	if u.user.TracksWallet(walletAddress) {
		user := u.user
		u.mu.Unlock()
		return user, nil
	}
	wallets := append(append([]string{}, u.user.TrackedWallets...), walletAddress)
	u.mu.Unlock()

	user, err := u.client.UpdateProfile(ctx, domain.ProfileUpdate{TrackedWallets: &wallets})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	u.mu.Lock()
	u.user = user
	u.mu.Unlock()
	return user, nil
}

// Loaded reports whether a wallet payload has been applied.
func (u *PortfolioUsecase) Loaded() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loaded
}

// Trackers returns a copy of the flat tracker list.
func (u *PortfolioUsecase) Trackers() []domain.TokenTracker {
	u.mu.Lock()
	defer u.mu.Unlock()
	trackers := make([]domain.TokenTracker, len(u.trackers))
	copy(trackers, u.trackers)
	return trackers
}

// Tracker looks up one tracker by id in the flat list.
func (u *PortfolioUsecase) Tracker(id string) (domain.TokenTracker, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, tracker := range u.trackers {
		if tracker.ID == id {
			return tracker, true
		}
	}
	return domain.TokenTracker{}, false
}

func (u *PortfolioUsecase) Untracked() []domain.Nft {
	u.mu.Lock()
	defer u.mu.Unlock()
	nfts := make([]domain.Nft, len(u.untracked))
	copy(nfts, u.untracked)
	return nfts
}

func (u *PortfolioUsecase) TrackingTypes() []domain.TrackerType {
	u.mu.Lock()
	defer u.mu.Unlock()
	types := make([]domain.TrackerType, len(u.trackingTypes))
	copy(types, u.trackingTypes)
	return types
}

// Grouped returns the collection grouping derived from the flat list,
// recomputed only when the list has changed since the last call.
func (u *PortfolioUsecase) Grouped() portfolio.Grouping {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.groupedLocked()
}

// Collections returns the distinct collection keys in first-seen order.
func (u *PortfolioUsecase) Collections() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	grouping := u.groupedLocked()
	collections := make([]string, len(grouping.Collections))
	copy(collections, grouping.Collections)
	return collections
}

func (u *PortfolioUsecase) groupedLocked() portfolio.Grouping {
	if u.groupedVersion != u.version || u.grouped.ByCollection == nil {
		u.grouped = portfolio.Group(u.trackers)
		u.groupedVersion = u.version
	}
	return u.grouped
}

// WalletValuation computes aggregates for the selected wallet. A selection
// outside the user's tracked set yields a zero valuation.
func (u *PortfolioUsecase) WalletValuation() portfolio.Valuation {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.user == nil || !u.user.TracksWallet(u.selectedWallet) {
		return portfolio.Valuate(nil, nil)
	}
	return portfolio.Valuate(
		portfolio.FilterByWallet(u.trackers, u.selectedWallet),
		portfolio.FilterNftsByWallet(u.untracked, u.selectedWallet),
	)
}

// CollectionValuation computes aggregates over one collection across all
// tracked wallets.
func (u *PortfolioUsecase) CollectionValuation(collection string) portfolio.Valuation {
	u.mu.Lock()
	defer u.mu.Unlock()
	return portfolio.Valuate(portfolio.FilterByCollection(u.trackers, collection), nil)
}

// mergeTrackers folds a prediction batch into the flat list unless the
// wallet was reloaded since the batch was issued.
func (u *PortfolioUsecase) mergeTrackers(generation uint64, updates []domain.TokenTracker) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if generation != u.generation {
		return false
	}
	u.trackers = portfolio.Merge(u.trackers, updates)
	u.version++
	return true
}

func (u *PortfolioUsecase) recordSnapshots(ctx context.Context) {
	if u.snapshots == nil {
		return
	}
	rows := snapshotRows(u.Trackers(), u.now())
	if len(rows) == 0 {
		return
	}
	if err := u.snapshots.Create(ctx, rows); err != nil {
		u.logger.Warn("failed to record valuation snapshots", zap.Int("rows", len(rows)), zap.Error(err))
	}
}

// snapshotRows computes one valuation row per wallet+collection pair, in
// first-seen order.
func snapshotRows(trackers []domain.TokenTracker, takenAt time.Time) []domain.ValuationSnapshot {
	var wallets []string
	byWallet := make(map[string][]domain.TokenTracker)
	for _, tracker := range trackers {
		if _, seen := byWallet[tracker.WalletAddress]; !seen {
			wallets = append(wallets, tracker.WalletAddress)
		}
		byWallet[tracker.WalletAddress] = append(byWallet[tracker.WalletAddress], tracker)
	}

	var rows []domain.ValuationSnapshot
	for _, wallet := range wallets {
		grouping := portfolio.Group(byWallet[wallet])
		for _, coll := range grouping.Collections {
			valuation := portfolio.Valuate(grouping.ByCollection[coll], nil)
			rows = append(rows, domain.ValuationSnapshot{
				WalletAddress:  wallet,
				Collection:     coll,
				FloorTotal:     valuation.FloorTotal,
				SuggestedTotal: valuation.SuggestedTotal,
				TotalTracked:   valuation.TotalTracked,
				TakenAt:        takenAt,
			})
		}
	}
	return rows
}
