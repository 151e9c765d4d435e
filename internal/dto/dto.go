package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type CreatePlanRequest struct {
	CustomerID        string          `json:"customer_id" validate:"required"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	UpfrontPaid       decimal.Decimal `json:"upfront_paid"`
	MonthlyProfitRate decimal.Decimal `json:"monthly_profit_rate"`
	TotalMonths       int             `json:"total_months" validate:"required,gt=0"`
	StartDate         string          `json:"start_date" validate:"required"` // YYYY-MM-DD
	BusinessModel     string          `json:"business_model" validate:"required,oneof=PRODUCT_OWNER FINANCER_ONLY"`
	Notes             string          `json:"notes"`
}

func (r *CreatePlanRequest) Validate() error {
	return validate.Struct(r)
}

type RecordPaymentRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
	PaidOn     string          `json:"paid_on"` // YYYY-MM-DD, defaults to today
	Notes      string          `json:"notes"`
}

type RevertInstallmentRequest struct {
	Notes string `json:"notes"`
}

type CreateCapitalEntryRequest struct {
	Type   string          `json:"type" validate:"required,oneof=OWNER_INVESTMENT OWNER_WITHDRAWAL ADJUSTMENT"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

func (r *CreateCapitalEntryRequest) Validate() error {
	return validate.Struct(r)
}

type CreateCheckoutRequest struct {
	PlanCode string `json:"plan_code" validate:"required"`
}

func (r *CreateCheckoutRequest) Validate() error {
	return validate.Struct(r)
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type InstallmentResponse struct {
	ID                string          `json:"id"`
	InstallmentNumber int             `json:"installment_number"`
	DueDate           time.Time       `json:"due_date"`
	AmountDue         decimal.Decimal `json:"amount_due"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	Status            string          `json:"status"`
	PaidOn            *time.Time      `json:"paid_on,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

type PlanResponse struct {
	ID                string                `json:"id"`
	CustomerID        string                `json:"customer_id"`
	TotalPrice        decimal.Decimal       `json:"total_price"`
	UpfrontPaid       decimal.Decimal       `json:"upfront_paid"`
	FinanceAmount     decimal.Decimal       `json:"finance_amount"`
	MonthlyProfitRate decimal.Decimal       `json:"monthly_profit_rate"`
	TotalMonths       int                   `json:"total_months"`
	StartDate         time.Time             `json:"start_date"`
	BusinessModel     string                `json:"business_model"`
	Status            string                `json:"status"`
	MonthsPaid        int                   `json:"months_paid"`
	TotalPaid         decimal.Decimal       `json:"total_paid"`
	RemainingAmount   decimal.Decimal       `json:"remaining_amount"`
	TotalProfit       decimal.Decimal       `json:"total_profit"`
	FutureValue       decimal.Decimal       `json:"future_value"`
	PerInstallment    decimal.Decimal       `json:"per_installment"`
	MyRevenue         decimal.Decimal       `json:"my_revenue"`
	Installments      []InstallmentResponse `json:"installments,omitempty"`
}

type CapitalEntryResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Direction int             `json:"direction"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CapitalSummaryResponse struct {
	AvailableFunds  decimal.Decimal `json:"available_funds"`
	CapitalDeployed decimal.Decimal `json:"capital_deployed"`
	Equity          decimal.Decimal `json:"equity"`
	Balance         decimal.Decimal `json:"balance"`
}

type SubscriptionResponse struct {
	PlanCode           string     `json:"plan_code"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`
	ExpiredAt          *time.Time `json:"expired_at,omitempty"`
}
