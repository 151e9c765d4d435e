package repository

import (
	"context"
	"taqsit/internal/model"

	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(ctx context.Context, tx *gorm.DB, plan *model.InstallmentPlan) error
	FindByID(ctx context.Context, tenantID, planID string) (*model.InstallmentPlan, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*model.InstallmentPlan, error)
}

type planRepoImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepoImpl{
		db: db,
	}
}

func (r *planRepoImpl) Create(ctx context.Context, tx *gorm.DB, plan *model.InstallmentPlan) error {
	return tx.WithContext(ctx).Create(plan).Error
}

func (r *planRepoImpl) FindByID(ctx context.Context, tenantID, planID string) (*model.InstallmentPlan, error) {
	var plan model.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, planID).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepoImpl) ListByTenant(ctx context.Context, tenantID string) ([]*model.InstallmentPlan, error) {
	var plans []*model.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&plans).Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}
