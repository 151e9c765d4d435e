package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Schedule is the amortization result for a financed plan. The profit model
// is simple trade profit (principal * rate * periods), not compounding.
type Schedule struct {
	PerInstallment decimal.Decimal // rounded to 2dp, last period absorbs the remainder
	TotalProfit    decimal.Decimal
	FutureValue    decimal.Decimal // finance amount + total profit
}

// ComputeSchedule computes the trade-profit schedule for a finance amount,
// a monthly profit rate in percent and a number of monthly periods.
func ComputeSchedule(financeAmount, monthlyRate decimal.Decimal, totalMonths int) (*Schedule, error) {
	if totalMonths <= 0 {
		return nil, fmt.Errorf("total months must be positive, got %d", totalMonths)
	}
	if financeAmount.IsNegative() {
		return nil, fmt.Errorf("finance amount must not be negative, got %s", financeAmount)
	}
	if monthlyRate.IsNegative() {
		return nil, fmt.Errorf("monthly profit rate must not be negative, got %s", monthlyRate)
	}

	months := decimal.NewFromInt(int64(totalMonths))
	totalProfit := financeAmount.Mul(monthlyRate).Div(oneHundred).Mul(months).Round(2)
	futureValue := financeAmount.Add(totalProfit)

	return &Schedule{
		PerInstallment: futureValue.Div(months).Round(2),
		TotalProfit:    totalProfit,
		FutureValue:    futureValue,
	}, nil
}

// LastInstallmentAmount returns the final period's amount so that the sum of
// all amounts due equals the future value exactly.
func (s *Schedule) LastInstallmentAmount(totalMonths int) decimal.Decimal {
	allButLast := s.PerInstallment.Mul(decimal.NewFromInt(int64(totalMonths - 1)))
	return s.FutureValue.Sub(allButLast)
}

// GenerateInstallments produces the plan's installment rows, one per period,
// due monthly from the plan start date. Principal portions follow the same
// even split with the remainder pushed into the final row.
func GenerateInstallments(plan *InstallmentPlan, schedule *Schedule) []*Installment {
	months := decimal.NewFromInt(int64(plan.TotalMonths))
	principalPer := plan.FinanceAmount.Div(months).Round(2)
	lastPrincipal := plan.FinanceAmount.Sub(principalPer.Mul(decimal.NewFromInt(int64(plan.TotalMonths - 1))))

	installments := make([]*Installment, 0, plan.TotalMonths)
	for i := 1; i <= plan.TotalMonths; i++ {
		amountDue := schedule.PerInstallment
		principalDue := principalPer
		if i == plan.TotalMonths {
			amountDue = schedule.LastInstallmentAmount(plan.TotalMonths)
			principalDue = lastPrincipal
		}

		installments = append(installments, &Installment{
			ID:                uuid.NewString(),
			InstallmentPlanID: plan.ID,
			TenantID:          plan.TenantID,
			InstallmentNumber: i,
			DueDate:           plan.StartDate.AddDate(0, i, 0),
			AmountDue:         amountDue,
			AmountPaid:        decimal.Zero,
			PrincipalDue:      principalDue,
			PrincipalPaid:     decimal.Zero,
			Status:            InstallmentStatusPending,
		})
	}
	return installments
}

// IsSettled reports whether the installment has been closed by a payment.
func (i *Installment) IsSettled() bool {
	return i.Status == InstallmentStatusPaid
}

// IsOverdueAt reports whether the installment should be treated as overdue at
// the given time, honoring both the stored OVERDUE status (written by the
// time-based sweep) and the display-time derivation for stale PENDING rows.
func (i *Installment) IsOverdueAt(now time.Time) bool {
	if i.Status == InstallmentStatusOverdue {
		return true
	}
	return i.Status == InstallmentStatusPending && i.DueDate.Before(now)
}
