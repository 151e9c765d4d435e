package repository

import (
	"context"
	"taqsit/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	FindByTenant(ctx context.Context, tenantID string) (*model.Subscription, error)
	FindByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*model.Subscription, error)
	// UpdateByTenant applies the given column updates to the tenant's row and
	// reports whether a row was hit; the caller inserts on a miss.
	UpdateByTenant(ctx context.Context, tx *gorm.DB, tenantID string, updates map[string]interface{}) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) FindByTenant(ctx context.Context, tenantID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) FindByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("provider_subscription_id = ?", providerSubscriptionID).
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) UpdateByTenant(ctx context.Context, tx *gorm.DB, tenantID string, updates map[string]interface{}) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Subscription{}).
		Where("tenant_id = ?", tenantID).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepoImpl) Create(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error {
	return tx.WithContext(ctx).Create(sub).Error
}
