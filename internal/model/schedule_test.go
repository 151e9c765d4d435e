package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSchedule(t *testing.T) {
	schedule, err := ComputeSchedule(dec("1200"), dec("5"), 12)
	require.NoError(t, err)

	assert.True(t, schedule.TotalProfit.Equal(dec("720")), "total profit = %s", schedule.TotalProfit)
	assert.True(t, schedule.FutureValue.Equal(dec("1920")), "future value = %s", schedule.FutureValue)
	assert.True(t, schedule.PerInstallment.Equal(dec("160")), "per installment = %s", schedule.PerInstallment)
}

func TestComputeScheduleZeroRate(t *testing.T) {
	schedule, err := ComputeSchedule(dec("1200"), decimal.Zero, 12)
	require.NoError(t, err)

	assert.True(t, schedule.TotalProfit.IsZero())
	assert.True(t, schedule.FutureValue.Equal(dec("1200")))
	assert.True(t, schedule.PerInstallment.Equal(dec("100")))
}

func TestComputeScheduleRejectsBadTerms(t *testing.T) {
	_, err := ComputeSchedule(dec("1200"), dec("5"), 0)
	require.Error(t, err)

	_, err = ComputeSchedule(dec("1200"), dec("5"), -3)
	require.Error(t, err)

	_, err = ComputeSchedule(dec("-1"), dec("5"), 12)
	require.Error(t, err)

	_, err = ComputeSchedule(dec("1200"), dec("-5"), 12)
	require.Error(t, err)
}

func newTestPlan(finance, rate string, months int) *InstallmentPlan {
	return &InstallmentPlan{
		ID:                uuid.NewString(),
		TenantID:          uuid.NewString(),
		FinanceAmount:     dec(finance),
		MonthlyProfitRate: dec(rate),
		TotalMonths:       months,
		StartDate:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateInstallmentsSumEqualsFutureValue(t *testing.T) {
	tests := []struct {
		finance string
		rate    string
		months  int
	}{
		{finance: "1200", rate: "5", months: 12},
		{finance: "1000", rate: "0", months: 3},
		{finance: "999.99", rate: "2.5", months: 7},
		{finance: "350", rate: "1.75", months: 11},
	}

	for _, tt := range tests {
		plan := newTestPlan(tt.finance, tt.rate, tt.months)
		schedule, err := ComputeSchedule(plan.FinanceAmount, plan.MonthlyProfitRate, plan.TotalMonths)
		require.NoError(t, err)

		installments := GenerateInstallments(plan, schedule)
		require.Len(t, installments, tt.months)

		sum := decimal.Zero
		principalSum := decimal.Zero
		for _, inst := range installments {
			sum = sum.Add(inst.AmountDue)
			principalSum = principalSum.Add(inst.PrincipalDue)
		}
		assert.True(t, sum.Equal(schedule.FutureValue),
			"finance=%s rate=%s months=%d: sum %s != future value %s", tt.finance, tt.rate, tt.months, sum, schedule.FutureValue)
		assert.True(t, principalSum.Equal(plan.FinanceAmount),
			"finance=%s months=%d: principal sum %s != finance amount", tt.finance, tt.months, principalSum)
	}
}

func TestGenerateInstallmentsRemainderInLastPeriod(t *testing.T) {
	plan := newTestPlan("1000", "0", 3)
	schedule, err := ComputeSchedule(plan.FinanceAmount, plan.MonthlyProfitRate, plan.TotalMonths)
	require.NoError(t, err)

	installments := GenerateInstallments(plan, schedule)
	require.Len(t, installments, 3)

	assert.True(t, installments[0].AmountDue.Equal(dec("333.33")))
	assert.True(t, installments[1].AmountDue.Equal(dec("333.33")))
	assert.True(t, installments[2].AmountDue.Equal(dec("333.34")))
}

func TestGenerateInstallmentsDueDatesMonthly(t *testing.T) {
	plan := newTestPlan("1200", "5", 12)
	schedule, err := ComputeSchedule(plan.FinanceAmount, plan.MonthlyProfitRate, plan.TotalMonths)
	require.NoError(t, err)

	installments := GenerateInstallments(plan, schedule)
	for i, inst := range installments {
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, plan.StartDate.AddDate(0, i+1, 0), inst.DueDate)
		assert.Equal(t, InstallmentStatusPending, inst.Status)
	}
}

func TestInstallmentIsOverdueAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	pendingPast := &Installment{Status: InstallmentStatusPending, DueDate: now.AddDate(0, -1, 0)}
	pendingFuture := &Installment{Status: InstallmentStatusPending, DueDate: now.AddDate(0, 1, 0)}
	sweptOverdue := &Installment{Status: InstallmentStatusOverdue, DueDate: now.AddDate(0, 1, 0)}
	paidPast := &Installment{Status: InstallmentStatusPaid, DueDate: now.AddDate(0, -1, 0)}

	assert.True(t, pendingPast.IsOverdueAt(now))
	assert.False(t, pendingFuture.IsOverdueAt(now))
	assert.True(t, sweptOverdue.IsOverdueAt(now))
	assert.False(t, paidPast.IsOverdueAt(now))
}
