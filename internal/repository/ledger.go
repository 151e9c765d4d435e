package repository

import (
	"context"
	"taqsit/internal/model"

	"gorm.io/gorm"
)

type LedgerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.CashLedgerEntry) error
	ListByTenant(ctx context.Context, tenantID string) ([]*model.CashLedgerEntry, error)
	ListByTenantAndTypes(ctx context.Context, tenantID string, types []string) ([]*model.CashLedgerEntry, error)
}

type ledgerRepoImpl struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepoImpl{
		db: db,
	}
}

func (r *ledgerRepoImpl) Create(ctx context.Context, tx *gorm.DB, entry *model.CashLedgerEntry) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepoImpl) ListByTenant(ctx context.Context, tenantID string) ([]*model.CashLedgerEntry, error) {
	var entries []*model.CashLedgerEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *ledgerRepoImpl) ListByTenantAndTypes(ctx context.Context, tenantID string, types []string) ([]*model.CashLedgerEntry, error) {
	var entries []*model.CashLedgerEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND type IN ?", tenantID, types).
		Order("created_at ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}
