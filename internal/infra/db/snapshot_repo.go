package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Create(ctx context.Context, snapshots []domain.ValuationSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	models := make([]snapshotModel, 0, len(snapshots))
	for _, snapshot := range snapshots {
		models = append(models, mapSnapshotToModel(snapshot))
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *SnapshotRepository) ListByWallet(ctx context.Context, walletAddress string, limit int) ([]domain.ValuationSnapshot, error) {
	var models []snapshotModel
	query := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Order("taken_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapSnapshotsToDomain(models), nil
}

// LatestByWallet returns the most recent snapshot batch for a wallet, one
// row per collection.
func (r *SnapshotRepository) LatestByWallet(ctx context.Context, walletAddress string) ([]domain.ValuationSnapshot, error) {
	latest := r.db.Model(&snapshotModel{}).
		Select("MAX(taken_at)").
		Where("wallet_address = ?", walletAddress)

	var models []snapshotModel
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ? AND taken_at = (?)", walletAddress, latest).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapSnapshotsToDomain(models), nil
}

func mapSnapshotsToDomain(models []snapshotModel) []domain.ValuationSnapshot {
	snapshots := make([]domain.ValuationSnapshot, 0, len(models))
	for _, model := range models {
		snapshots = append(snapshots, domain.ValuationSnapshot{
			ID:             model.ID,
			WalletAddress:  model.WalletAddress,
			Collection:     model.Collection,
			FloorTotal:     model.FloorTotal,
			SuggestedTotal: model.SuggestedTotal,
			TotalTracked:   model.TotalTracked,
			TakenAt:        model.TakenAt,
		})
	}
	return snapshots
}

func mapSnapshotToModel(snapshot domain.ValuationSnapshot) snapshotModel {
	return snapshotModel{
		ID:             snapshot.ID,
		WalletAddress:  snapshot.WalletAddress,
		Collection:     snapshot.Collection,
		FloorTotal:     snapshot.FloorTotal,
		SuggestedTotal: snapshot.SuggestedTotal,
		TotalTracked:   snapshot.TotalTracked,
		TakenAt:        snapshot.TakenAt,
	}
}
