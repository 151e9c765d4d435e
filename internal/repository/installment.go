package repository

import (
	"context"
	"taqsit/internal/model"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, installments []*model.Installment) error
	FindByID(ctx context.Context, tenantID, installmentID string) (*model.Installment, error)
	ListByPlan(ctx context.Context, tenantID, planID string) ([]*model.Installment, error)
	ListUnsettledByTenant(ctx context.Context, tenantID string) ([]*model.Installment, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, installmentID string, amountPaid, principalPaid decimal.Decimal, paidOn time.Time, notes string) error
	MarkPending(ctx context.Context, tx *gorm.DB, installmentID string, notes string) error
}

type installmentRepoImpl struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepoImpl{
		db: db,
	}
}

func (r *installmentRepoImpl) CreateBatch(ctx context.Context, tx *gorm.DB, installments []*model.Installment) error {
	return tx.WithContext(ctx).Create(&installments).Error
}

func (r *installmentRepoImpl) FindByID(ctx context.Context, tenantID, installmentID string) (*model.Installment, error) {
	var installment model.Installment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, installmentID).
		First(&installment).Error

	if err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *installmentRepoImpl) ListByPlan(ctx context.Context, tenantID, planID string) ([]*model.Installment, error) {
	var installments []*model.Installment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND installment_plan_id = ?", tenantID, planID).
		Order("installment_number ASC").
		Find(&installments).Error

	if err != nil {
		return nil, err
	}

	return installments, nil
}

// ListUnsettledByTenant returns installments where the paid amount has not
// covered the amount due. Feeds the capital-deployed computation.
func (r *installmentRepoImpl) ListUnsettledByTenant(ctx context.Context, tenantID string) ([]*model.Installment, error) {
	var installments []*model.Installment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND amount_paid < amount_due", tenantID).
		Find(&installments).Error

	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, installmentID string, amountPaid, principalPaid decimal.Decimal, paidOn time.Time, notes string) error {
	result := tx.WithContext(ctx).Model(&model.Installment{}).
		Where("id = ?", installmentID).
		Updates(map[string]interface{}{
			"status":         model.InstallmentStatusPaid,
			"amount_paid":    amountPaid,
			"principal_paid": principalPaid,
			"paid_on":        paidOn,
			"notes":          notes,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *installmentRepoImpl) MarkPending(ctx context.Context, tx *gorm.DB, installmentID string, notes string) error {
	result := tx.WithContext(ctx).Model(&model.Installment{}).
		Where("id = ?", installmentID).
		Updates(map[string]interface{}{
			"status":         model.InstallmentStatusPending,
			"principal_paid": decimal.Zero,
			"paid_on":        nil,
			"notes":          notes,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
