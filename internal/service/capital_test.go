package service

import (
	"context"
	"taqsit/internal/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableFundsSumsSignedEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenantID := "tenant-a"

	_, err := env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerInvestment, dec("1000"), "")
	require.NoError(t, err)
	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerWithdrawal, dec("300"), "")
	require.NoError(t, err)
	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeAdjustment, dec("-50"), "stock count correction")
	require.NoError(t, err)

	// Other tenants never bleed into the sum.
	_, err = env.capitalService.CreateCapitalEntry(ctx, "tenant-b", model.LedgerTypeOwnerInvestment, dec("9999"), "")
	require.NoError(t, err)

	available, err := env.capitalService.AvailableFunds(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, available.Equal(dec("650")), "available = %s", available)
}

func TestAvailableFundsOrderInvariant(t *testing.T) {
	entries := []struct {
		entryType string
		amount    string
	}{
		{entryType: model.LedgerTypeOwnerInvestment, amount: "1000"},
		{entryType: model.LedgerTypeOwnerWithdrawal, amount: "300"},
		{entryType: model.LedgerTypeAdjustment, amount: "-50"},
		{entryType: model.LedgerTypeOwnerInvestment, amount: "125.25"},
	}

	env := newTestEnv(t)
	ctx := context.Background()

	// Same entries in opposite insertion orders, one tenant each.
	for i := range entries {
		_, err := env.capitalService.CreateCapitalEntry(ctx, "tenant-fwd", entries[i].entryType, dec(entries[i].amount), "")
		require.NoError(t, err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		_, err := env.capitalService.CreateCapitalEntry(ctx, "tenant-rev", entries[i].entryType, dec(entries[i].amount), "")
		require.NoError(t, err)
	}

	for _, tenantID := range []string{"tenant-fwd", "tenant-rev"} {
		available, err := env.capitalService.AvailableFunds(ctx, tenantID)
		require.NoError(t, err)
		assert.True(t, available.Equal(dec("775.25")), "%s: available = %s", tenantID, available)
	}
}

func TestCapitalSummaryEquityAndBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenantID := "tenant-a"

	_, err := env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerInvestment, dec("1000"), "")
	require.NoError(t, err)
	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerInvestment, dec("500"), "")
	require.NoError(t, err)
	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerWithdrawal, dec("300"), "")
	require.NoError(t, err)
	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeAdjustment, dec("-50"), "")
	require.NoError(t, err)

	summary, err := env.capitalService.Summary(ctx, tenantID)
	require.NoError(t, err)

	// Equity only ever grows with investments.
	assert.True(t, summary.Equity.Equal(dec("1500")), "equity = %s", summary.Equity)
	// Balance is the signed owner-entry subset: 1500 - 300 - 50.
	assert.True(t, summary.Balance.Equal(dec("1150")), "balance = %s", summary.Balance)
	assert.True(t, summary.AvailableFunds.Equal(dec("1150")), "available = %s", summary.AvailableFunds)
	assert.True(t, summary.CapitalDeployed.IsZero())
}

func TestCapitalSummaryExcludesFinancingFlowsFromOwnerFigures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenantID := "tenant-a"
	customer := env.createCustomer(t, tenantID)
	env.invest(t, tenantID, "2000")

	detail := env.createPlan(t, tenantID, customer.ID, &CreatePlanInput{
		TotalPrice:        dec("1200"),
		UpfrontPaid:       dec("0"),
		MonthlyProfitRate: dec("5"),
		TotalMonths:       12,
	})

	_, err := env.planService.RecordPayment(ctx, tenantID, detail.Installments[0].ID, dec("160"), time.Now(), "")
	require.NoError(t, err)

	summary, err := env.capitalService.Summary(ctx, tenantID)
	require.NoError(t, err)

	// Disbursement and collection move available funds but not equity/balance.
	assert.True(t, summary.AvailableFunds.Equal(dec("960")), "available = %s", summary.AvailableFunds)
	assert.True(t, summary.Equity.Equal(dec("2000")), "equity = %s", summary.Equity)
	assert.True(t, summary.Balance.Equal(dec("2000")), "balance = %s", summary.Balance)

	// 11 open installments x 100 of principal each.
	assert.True(t, summary.CapitalDeployed.Equal(dec("1100")), "deployed = %s", summary.CapitalDeployed)
}

func TestCapitalDeployedFallsBackToEvenSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenantID := "tenant-a"
	customer := env.createCustomer(t, tenantID)

	// Legacy rows carry no principal breakdown.
	plan := &model.InstallmentPlan{
		ID:            "plan-legacy",
		TenantID:      tenantID,
		CustomerID:    customer.ID,
		TotalPrice:    dec("1200"),
		UpfrontPaid:   dec("0"),
		FinanceAmount: dec("1200"),
		TotalMonths:   3,
		StartDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		BusinessModel: model.BusinessModelProductOwner,
	}
	require.NoError(t, env.db.Create(plan).Error)

	for i := 1; i <= 3; i++ {
		inst := &model.Installment{
			ID:                uuid.NewString(),
			TenantID:          tenantID,
			InstallmentPlanID: plan.ID,
			InstallmentNumber: i,
			DueDate:           plan.StartDate.AddDate(0, i, 0),
			AmountDue:         dec("400"),
			Status:            model.InstallmentStatusPending,
		}
		require.NoError(t, env.db.Create(inst).Error)
	}

	deployed, err := env.capitalService.CapitalDeployed(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, deployed.Equal(dec("1200")), "deployed = %s", deployed)
}

func TestCreateCapitalEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenantID := "tenant-a"

	_, err := env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerInvestment, dec("0"), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeOwnerWithdrawal, dec("-10"), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeAdjustment, dec("0"), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, "SOMETHING_ELSE", dec("10"), "")
	assert.ErrorIs(t, err, ErrValidation)

	// Financing movements only enter the ledger through plan operations.
	_, err = env.capitalService.CreateCapitalEntry(ctx, tenantID, model.LedgerTypeFinancingDisbursed, dec("10"), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateCapitalEntryStoresMagnitudeAndDirection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entry, err := env.capitalService.CreateCapitalEntry(ctx, "tenant-a", model.LedgerTypeAdjustment, dec("-75.50"), "")
	require.NoError(t, err)

	assert.True(t, entry.Amount.Equal(dec("75.50")))
	assert.Equal(t, -1, entry.Direction)
	assert.True(t, entry.SignedValue().Equal(dec("-75.50")))
}
