package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BusinessModelProductOwner = "PRODUCT_OWNER" // tenant sells the good, keeps the full payment stream
	BusinessModelFinancerOnly = "FINANCER_ONLY" // tenant only finances, earns the profit slice
)

const (
	InstallmentStatusPending = "PENDING"
	InstallmentStatusPaid    = "PAID"
	InstallmentStatusOverdue = "OVERDUE"
)

// Derived plan statuses, never stored.
const (
	PlanStatusActive    = "ACTIVE"
	PlanStatusCompleted = "COMPLETED"
	PlanStatusOverdue   = "OVERDUE"
)

const (
	LedgerTypeOwnerInvestment    = "OWNER_INVESTMENT"
	LedgerTypeOwnerWithdrawal    = "OWNER_WITHDRAWAL"
	LedgerTypeAdjustment         = "ADJUSTMENT"
	LedgerTypeFinancingDisbursed = "FINANCING_DISBURSED"
	LedgerTypeCollectionReceived = "COLLECTION_RECEIVED"
	LedgerTypeCollectionReversed = "COLLECTION_REVERSED"
)

const (
	ReferenceTypePlan        = "installment_plan"
	ReferenceTypeInstallment = "installment"
)

const (
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

type Customer struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	TenantID  string `gorm:"size:64;index;not null"`
	Name      string `gorm:"size:150;not null"`
	Phone     string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InstallmentPlan terms are immutable after creation; plan status and
// financial aggregates are always derived from the installment rows.
type InstallmentPlan struct {
	ID                string          `gorm:"primaryKey;size:64;not null"`
	TenantID          string          `gorm:"size:64;index;not null"`
	CustomerID        string          `gorm:"size:64;index;not null"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UpfrontPaid       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FinanceAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null"` // total_price - upfront_paid
	MonthlyProfitRate decimal.Decimal `gorm:"type:decimal(7,4);not null"`  // percent per month
	TotalMonths       int             `gorm:"not null"`
	StartDate         time.Time       `gorm:"not null"`
	BusinessModel     string          `gorm:"size:32;not null"` // PRODUCT_OWNER, FINANCER_ONLY
	Notes             string          `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Installment struct {
	ID                string          `gorm:"primaryKey;size:64;not null"`
	InstallmentPlanID string          `gorm:"size:64;index;not null"`
	TenantID          string          `gorm:"size:64;index;not null"`
	InstallmentNumber int             `gorm:"not null"` // 1..total_months
	DueDate           time.Time       `gorm:"not null"`
	AmountDue         decimal.Decimal `gorm:"type:decimal(14,2);not null"` // fixed at generation time
	AmountPaid        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PrincipalDue      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PrincipalPaid     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Status            string          `gorm:"size:16;index;not null"` // PENDING, PAID, OVERDUE
	PaidOn            *time.Time
	Notes             string `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CashLedgerEntry is append-only. Signed value = Amount * Direction; a
// tenant's available funds is the signed sum over every entry type, so
// financing disbursements and collections post here too.
type CashLedgerEntry struct {
	ID            string          `gorm:"primaryKey;size:64;not null"`
	TenantID      string          `gorm:"size:64;index;not null"`
	Type          string          `gorm:"size:32;index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"` // non-negative magnitude
	Direction     int             `gorm:"not null"`                    // +1 or -1
	ReferenceID   string          `gorm:"size:64;index"`
	ReferenceType string          `gorm:"size:32"`
	Notes         string          `gorm:"type:text"`
	CreatedAt     time.Time
}

// SignedValue is the entry's contribution to the tenant's available funds.
func (e *CashLedgerEntry) SignedValue() decimal.Decimal {
	return e.Amount.Mul(decimal.NewFromInt(int64(e.Direction)))
}

// Subscription holds the single billing subscription row per tenant. Status
// transitions are driven exclusively by verified provider webhooks.
type Subscription struct {
	ID                     string `gorm:"primaryKey;size:64;not null"`
	TenantID               string `gorm:"size:64;uniqueIndex;not null"`
	PlanCode               string `gorm:"size:32;not null"`
	Status                 string `gorm:"size:16;not null"`
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	ProviderSubscriptionID string `gorm:"size:64;index"`
	ProviderCustomerID     string `gorm:"size:64"`
	ProviderProductID      string `gorm:"size:64"`
	ProviderVariantID      string `gorm:"size:64"`
	CanceledAt             *time.Time
	ExpiredAt              *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// WebhookEvent is the idempotency log. EventID is a synthetic composite of
// event name, provider resource id and event timestamp; the primary key
// enforces at-most-once processing.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
