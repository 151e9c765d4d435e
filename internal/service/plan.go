package service

import (
	"context"
	"fmt"
	"taqsit/internal/model"
	"taqsit/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatePlanInput struct {
	CustomerID        string
	TotalPrice        decimal.Decimal
	UpfrontPaid       decimal.Decimal
	MonthlyProfitRate decimal.Decimal
	TotalMonths       int
	StartDate         time.Time
	BusinessModel     string
	Notes             string
}

// PlanMetrics are the plan-level aggregates recomputed from installment rows
// at read time; none of them are stored.
type PlanMetrics struct {
	MonthsPaid      int
	TotalPaid       decimal.Decimal
	RemainingAmount decimal.Decimal
	TotalProfit     decimal.Decimal
	FutureValue     decimal.Decimal
	PerInstallment  decimal.Decimal
	Status          string
	MyRevenue       decimal.Decimal
}

type PlanDetail struct {
	Plan         *model.InstallmentPlan
	Installments []*model.Installment
	Metrics      *PlanMetrics
}

type PlanService interface {
	CreatePlan(ctx context.Context, tenantID string, in *CreatePlanInput) (*PlanDetail, error)
	GetPlan(ctx context.Context, tenantID, planID string) (*PlanDetail, error)
	ListPlans(ctx context.Context, tenantID string) ([]*PlanDetail, error)
	RecordPayment(ctx context.Context, tenantID, installmentID string, amountPaid decimal.Decimal, paidOn time.Time, notes string) (*model.Installment, error)
	RevertToPending(ctx context.Context, tenantID, installmentID string, notes string) (*model.Installment, error)
}

type planServiceImpl struct {
	db              *gorm.DB
	planRepo        repository.PlanRepository
	installmentRepo repository.InstallmentRepository
	ledgerRepo      repository.LedgerRepository
	customerRepo    repository.CustomerRepository
	capitalService  CapitalService
	locks           *tenantLocks
}

func NewPlanService(
	db *gorm.DB,
	planRepo repository.PlanRepository,
	installmentRepo repository.InstallmentRepository,
	ledgerRepo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
	capitalService CapitalService,
) PlanService {
	return &planServiceImpl{
		db:              db,
		planRepo:        planRepo,
		installmentRepo: installmentRepo,
		ledgerRepo:      ledgerRepo,
		customerRepo:    customerRepo,
		capitalService:  capitalService,
		locks:           newTenantLocks(),
	}
}

func (s *planServiceImpl) CreatePlan(ctx context.Context, tenantID string, in *CreatePlanInput) (*PlanDetail, error) {
	if in.TotalMonths <= 0 {
		return nil, fmt.Errorf("%w: total months must be positive", ErrValidation)
	}
	if in.TotalPrice.IsNegative() || in.UpfrontPaid.IsNegative() {
		return nil, fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	}
	if in.UpfrontPaid.GreaterThanOrEqual(in.TotalPrice) {
		return nil, fmt.Errorf("%w: upfront paid must be less than total price", ErrValidation)
	}
	if in.BusinessModel != model.BusinessModelProductOwner && in.BusinessModel != model.BusinessModelFinancerOnly {
		return nil, fmt.Errorf("%w: unknown business model %q", ErrValidation, in.BusinessModel)
	}

	exists, err := s.customerRepo.ExistsForTenant(ctx, tenantID, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}

	financeAmount := in.TotalPrice.Sub(in.UpfrontPaid)
	schedule, err := model.ComputeSchedule(financeAmount, in.MonthlyProfitRate, in.TotalMonths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Funds check and the resulting writes run under the tenant's lock so
	// two concurrent creations cannot both pass the check.
	unlock := s.locks.Lock(tenantID)
	defer unlock()

	available, err := s.capitalService.AvailableFunds(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if financeAmount.GreaterThan(available) {
		return nil, fmt.Errorf("%w: need %s, available %s", ErrInsufficientFunds, financeAmount, available)
	}

	plan := &model.InstallmentPlan{
		ID:                uuid.NewString(),
		TenantID:          tenantID,
		CustomerID:        in.CustomerID,
		TotalPrice:        in.TotalPrice,
		UpfrontPaid:       in.UpfrontPaid,
		FinanceAmount:     financeAmount,
		MonthlyProfitRate: in.MonthlyProfitRate,
		TotalMonths:       in.TotalMonths,
		StartDate:         in.StartDate,
		BusinessModel:     in.BusinessModel,
		Notes:             in.Notes,
	}
	installments := model.GenerateInstallments(plan, schedule)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.planRepo.Create(ctx, tx, plan); err != nil {
			return fmt.Errorf("store plan: %w", err)
		}
		if err := s.installmentRepo.CreateBatch(ctx, tx, installments); err != nil {
			return fmt.Errorf("store installments: %w", err)
		}

		// Money lent out leaves the pool; without this entry available
		// funds would never decrease as plans are created.
		if financeAmount.IsPositive() {
			entry := &model.CashLedgerEntry{
				ID:            uuid.NewString(),
				TenantID:      tenantID,
				Type:          model.LedgerTypeFinancingDisbursed,
				Amount:        financeAmount,
				Direction:     -1,
				ReferenceID:   plan.ID,
				ReferenceType: model.ReferenceTypePlan,
			}
			if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
				return fmt.Errorf("store disbursement entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &PlanDetail{
		Plan:         plan,
		Installments: installments,
		Metrics:      computeMetrics(plan, installments, schedule, time.Now()),
	}, nil
}

func (s *planServiceImpl) GetPlan(ctx context.Context, tenantID, planID string) (*PlanDetail, error) {
	plan, err := s.planRepo.FindByID(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.ListByPlan(ctx, tenantID, planID)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}

	schedule, err := model.ComputeSchedule(plan.FinanceAmount, plan.MonthlyProfitRate, plan.TotalMonths)
	if err != nil {
		return nil, fmt.Errorf("recompute schedule: %w", err)
	}

	return &PlanDetail{
		Plan:         plan,
		Installments: installments,
		Metrics:      computeMetrics(plan, installments, schedule, time.Now()),
	}, nil
}

func (s *planServiceImpl) ListPlans(ctx context.Context, tenantID string) ([]*PlanDetail, error) {
	plans, err := s.planRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	details := make([]*PlanDetail, 0, len(plans))
	for _, plan := range plans {
		detail, err := s.GetPlan(ctx, tenantID, plan.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// RecordPayment settles the installment unconditionally, whether the amount
// is below, at or above the amount due; a shortfall only shows up in
// reporting as amount_due - amount_paid. Settling an already-paid row is
// rejected so the collection ledger stays additive; revert first.
func (s *planServiceImpl) RecordPayment(ctx context.Context, tenantID, installmentID string, amountPaid decimal.Decimal, paidOn time.Time, notes string) (*model.Installment, error) {
	if !amountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: paid amount must be positive", ErrValidation)
	}

	installment, err := s.installmentRepo.FindByID(ctx, tenantID, installmentID)
	if err != nil {
		return nil, err
	}
	if installment.IsSettled() {
		return nil, fmt.Errorf("%w: installment already settled", ErrValidation)
	}

	principalPaid := amountPaid
	if installment.PrincipalDue.IsPositive() && principalPaid.GreaterThan(installment.PrincipalDue) {
		principalPaid = installment.PrincipalDue
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.installmentRepo.MarkPaid(ctx, tx, installment.ID, amountPaid, principalPaid, paidOn, notes); err != nil {
			return fmt.Errorf("mark installment paid: %w", err)
		}

		entry := &model.CashLedgerEntry{
			ID:            uuid.NewString(),
			TenantID:      tenantID,
			Type:          model.LedgerTypeCollectionReceived,
			Amount:        amountPaid,
			Direction:     1,
			ReferenceID:   installment.ID,
			ReferenceType: model.ReferenceTypeInstallment,
		}
		if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("store collection entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.installmentRepo.FindByID(ctx, tenantID, installmentID)
}

// RevertToPending reopens a settled installment. The recorded amount stays on
// the row for audit; the cash movement is reversed in the ledger so available
// funds stays accurate.
func (s *planServiceImpl) RevertToPending(ctx context.Context, tenantID, installmentID string, notes string) (*model.Installment, error) {
	installment, err := s.installmentRepo.FindByID(ctx, tenantID, installmentID)
	if err != nil {
		return nil, err
	}
	if !installment.IsSettled() {
		return nil, fmt.Errorf("%w: installment is not settled", ErrValidation)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.installmentRepo.MarkPending(ctx, tx, installment.ID, notes); err != nil {
			return fmt.Errorf("mark installment pending: %w", err)
		}

		if installment.AmountPaid.IsPositive() {
			entry := &model.CashLedgerEntry{
				ID:            uuid.NewString(),
				TenantID:      tenantID,
				Type:          model.LedgerTypeCollectionReversed,
				Amount:        installment.AmountPaid,
				Direction:     -1,
				ReferenceID:   installment.ID,
				ReferenceType: model.ReferenceTypeInstallment,
			}
			if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
				return fmt.Errorf("store reversal entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.installmentRepo.FindByID(ctx, tenantID, installmentID)
}

func computeMetrics(plan *model.InstallmentPlan, installments []*model.Installment, schedule *model.Schedule, now time.Time) *PlanMetrics {
	monthsPaid := 0
	totalPaid := plan.UpfrontPaid
	overdue := false
	for _, inst := range installments {
		if inst.IsSettled() {
			monthsPaid++
			totalPaid = totalPaid.Add(inst.AmountPaid)
		}
		if inst.IsOverdueAt(now) {
			overdue = true
		}
	}

	status := model.PlanStatusActive
	switch {
	case monthsPaid >= plan.TotalMonths:
		status = model.PlanStatusCompleted
	case overdue:
		status = model.PlanStatusOverdue
	}

	var myRevenue decimal.Decimal
	switch plan.BusinessModel {
	case model.BusinessModelFinancerOnly:
		profitPerMonth := schedule.TotalProfit.Div(decimal.NewFromInt(int64(plan.TotalMonths)))
		myRevenue = profitPerMonth.Mul(decimal.NewFromInt(int64(monthsPaid))).Round(2)
	default:
		myRevenue = totalPaid
	}

	return &PlanMetrics{
		MonthsPaid:      monthsPaid,
		TotalPaid:       totalPaid,
		RemainingAmount: plan.UpfrontPaid.Add(schedule.FutureValue).Sub(totalPaid),
		TotalProfit:     schedule.TotalProfit,
		FutureValue:     schedule.FutureValue,
		PerInstallment:  schedule.PerInstallment,
		Status:          status,
		MyRevenue:       myRevenue,
	}
}
