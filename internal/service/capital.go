package service

import (
	"context"
	"fmt"
	"taqsit/internal/model"
	"taqsit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ownerCapitalTypes is the subset of ledger movements entered by the owner
// through the capital form. Balance reports over this subset only; available
// funds always spans every entry type.
var ownerCapitalTypes = []string{
	model.LedgerTypeOwnerInvestment,
	model.LedgerTypeOwnerWithdrawal,
	model.LedgerTypeAdjustment,
}

type CapitalSummary struct {
	AvailableFunds  decimal.Decimal
	CapitalDeployed decimal.Decimal
	Equity          decimal.Decimal
	Balance         decimal.Decimal
}

type CapitalService interface {
	AvailableFunds(ctx context.Context, tenantID string) (decimal.Decimal, error)
	CapitalDeployed(ctx context.Context, tenantID string) (decimal.Decimal, error)
	Summary(ctx context.Context, tenantID string) (*CapitalSummary, error)
	CreateCapitalEntry(ctx context.Context, tenantID, entryType string, amount decimal.Decimal, notes string) (*model.CashLedgerEntry, error)
}

type capitalServiceImpl struct {
	db              *gorm.DB
	ledgerRepo      repository.LedgerRepository
	installmentRepo repository.InstallmentRepository
	planRepo        repository.PlanRepository
}

func NewCapitalService(
	db *gorm.DB,
	ledgerRepo repository.LedgerRepository,
	installmentRepo repository.InstallmentRepository,
	planRepo repository.PlanRepository,
) CapitalService {
	return &capitalServiceImpl{
		db:              db,
		ledgerRepo:      ledgerRepo,
		installmentRepo: installmentRepo,
		planRepo:        planRepo,
	}
}

// AvailableFunds is the signed sum over every ledger entry for the tenant,
// regardless of type. Summed in Go with decimals so no driver ever does
// floating-point arithmetic on money.
func (s *capitalServiceImpl) AvailableFunds(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	entries, err := s.ledgerRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list ledger entries: %w", err)
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.SignedValue())
	}
	return total, nil
}

// CapitalDeployed sums outstanding principal over not-fully-paid
// installments. Rows carrying explicit principal figures use those; rows
// without fall back to an even principal split of the plan's finance amount.
func (s *capitalServiceImpl) CapitalDeployed(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	installments, err := s.installmentRepo.ListUnsettledByTenant(ctx, tenantID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list unsettled installments: %w", err)
	}

	plans := make(map[string]*model.InstallmentPlan)
	total := decimal.Zero
	for _, inst := range installments {
		if inst.PrincipalDue.IsPositive() {
			outstanding := inst.PrincipalDue.Sub(inst.PrincipalPaid)
			if outstanding.IsPositive() {
				total = total.Add(outstanding)
			}
			continue
		}

		plan, ok := plans[inst.InstallmentPlanID]
		if !ok {
			plan, err = s.planRepo.FindByID(ctx, tenantID, inst.InstallmentPlanID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("find plan %s: %w", inst.InstallmentPlanID, err)
			}
			plans[inst.InstallmentPlanID] = plan
		}

		portion := plan.FinanceAmount.Div(decimal.NewFromInt(int64(plan.TotalMonths))).Round(2)
		if inst.AmountPaid.LessThan(portion) {
			total = total.Add(portion)
		}
	}

	return total, nil
}

func (s *capitalServiceImpl) Summary(ctx context.Context, tenantID string) (*CapitalSummary, error) {
	available, err := s.AvailableFunds(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	deployed, err := s.CapitalDeployed(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ownerEntries, err := s.ledgerRepo.ListByTenantAndTypes(ctx, tenantID, ownerCapitalTypes)
	if err != nil {
		return nil, fmt.Errorf("list owner capital entries: %w", err)
	}

	// Equity answers "how much has the owner ever put in"; withdrawals and
	// adjustments do not reduce it. Balance is the signed owner-only subset.
	equity := decimal.Zero
	balance := decimal.Zero
	for _, entry := range ownerEntries {
		if entry.Type == model.LedgerTypeOwnerInvestment {
			equity = equity.Add(entry.Amount)
		}
		balance = balance.Add(entry.SignedValue())
	}

	return &CapitalSummary{
		AvailableFunds:  available,
		CapitalDeployed: deployed,
		Equity:          equity,
		Balance:         balance,
	}, nil
}

func (s *capitalServiceImpl) CreateCapitalEntry(ctx context.Context, tenantID, entryType string, amount decimal.Decimal, notes string) (*model.CashLedgerEntry, error) {
	direction := 1
	switch entryType {
	case model.LedgerTypeOwnerInvestment:
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: investment amount must be positive", ErrValidation)
		}
	case model.LedgerTypeOwnerWithdrawal:
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: withdrawal amount must be positive", ErrValidation)
		}
		direction = -1
	case model.LedgerTypeAdjustment:
		if amount.IsZero() {
			return nil, fmt.Errorf("%w: adjustment amount must be non-zero", ErrValidation)
		}
		if amount.IsNegative() {
			direction = -1
		}
	default:
		return nil, fmt.Errorf("%w: unknown capital entry type %q", ErrValidation, entryType)
	}

	entry := &model.CashLedgerEntry{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Type:      entryType,
		Amount:    amount.Abs(),
		Direction: direction,
		Notes:     notes,
	}
	if err := s.ledgerRepo.Create(ctx, s.db, entry); err != nil {
		return nil, fmt.Errorf("store capital entry: %w", err)
	}

	return entry, nil
}
