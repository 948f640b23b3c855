package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

type MockMarketClient struct {
	mock.Mock
}

func (m *MockMarketClient) GetWallet(ctx context.Context) (*domain.WalletData, error) {
	args := m.Called(ctx)
	if data := args.Get(0); data != nil {
		return data.(*domain.WalletData), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarketClient) SyncWallet(ctx context.Context) (*domain.SyncData, error) {
	args := m.Called(ctx)
	if data := args.Get(0); data != nil {
		return data.(*domain.SyncData), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarketClient) PredictTrackers(ctx context.Context, req domain.PredictRequest) ([]domain.TokenTracker, error) {
	args := m.Called(ctx, req)
	if trackers := args.Get(0); trackers != nil {
		return trackers.([]domain.TokenTracker), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarketClient) SaveTracker(ctx context.Context, update domain.TrackerUpdate) (*domain.TokenTracker, error) {
	args := m.Called(ctx, update)
	if tracker := args.Get(0); tracker != nil {
		return tracker.(*domain.TokenTracker), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarketClient) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, update)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarketClient) DeleteWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	args := m.Called(ctx, walletAddress)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSnapshotRepo struct {
	mock.Mock
}

func (m *MockSnapshotRepo) Create(ctx context.Context, snapshots []domain.ValuationSnapshot) error {
	args := m.Called(ctx, snapshots)
	return args.Error(0)
}

func (m *MockSnapshotRepo) ListByWallet(ctx context.Context, walletAddress string, limit int) ([]domain.ValuationSnapshot, error) {
	args := m.Called(ctx, walletAddress, limit)
	if snapshots := args.Get(0); snapshots != nil {
		return snapshots.([]domain.ValuationSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSnapshotRepo) LatestByWallet(ctx context.Context, walletAddress string) ([]domain.ValuationSnapshot, error) {
	args := m.Called(ctx, walletAddress)
	if snapshots := args.Get(0); snapshots != nil {
		return snapshots.([]domain.ValuationSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func newTestTracker(id, wallet, collection string, floor, suggested *decimal.Decimal) domain.TokenTracker {
	tracker := domain.TokenTracker{
		ID:            id,
		WalletAddress: wallet,
		UserID:        "user-1",
		TokenAddress:  "addr-" + id,
	}
	tracker.Token = &domain.Token{
		ID:             "token-" + id,
		Collection:     collection,
		FloorPrice:     floor,
		SuggestedPrice: suggested,
	}
	return tracker
}
