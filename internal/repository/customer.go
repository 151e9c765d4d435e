package repository

import (
	"context"
	"taqsit/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	// ExistsForTenant is the ownership check used before plan creation: the
	// customer must exist and belong to the caller's tenant.
	ExistsForTenant(ctx context.Context, tenantID, customerID string) (bool, error)
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{
		db: db,
	}
}

func (r *customerRepoImpl) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepoImpl) ExistsForTenant(ctx context.Context, tenantID, customerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ? AND id = ?", tenantID, customerID).
		Count(&count).Error

	return count > 0, err
}
