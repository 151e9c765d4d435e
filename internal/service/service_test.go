package service

import (
	"context"
	"fmt"
	"strings"
	"taqsit/internal/model"
	"taqsit/internal/repository"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testEnv struct {
	db               *gorm.DB
	customerRepo     repository.CustomerRepository
	planRepo         repository.PlanRepository
	installmentRepo  repository.InstallmentRepository
	ledgerRepo       repository.LedgerRepository
	subscriptionRepo repository.SubscriptionRepository
	webhookEventRepo repository.WebhookEventRepository
	capitalService   CapitalService
	planService      PlanService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Customer{},
		&model.InstallmentPlan{},
		&model.Installment{},
		&model.CashLedgerEntry{},
		&model.Subscription{},
		&model.WebhookEvent{},
	))

	customerRepo := repository.NewCustomerRepository(db)
	planRepo := repository.NewPlanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	capitalService := NewCapitalService(db, ledgerRepo, installmentRepo, planRepo)

	return &testEnv{
		db:               db,
		customerRepo:     customerRepo,
		planRepo:         planRepo,
		installmentRepo:  installmentRepo,
		ledgerRepo:       ledgerRepo,
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		webhookEventRepo: repository.NewWebhookEventRepository(db),
		capitalService:   capitalService,
		planService:      NewPlanService(db, planRepo, installmentRepo, ledgerRepo, customerRepo, capitalService),
	}
}

func (e *testEnv) createCustomer(t *testing.T, tenantID string) *model.Customer {
	t.Helper()

	customer := &model.Customer{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     "Test Customer",
	}
	require.NoError(t, e.customerRepo.Create(context.Background(), customer))
	return customer
}

func (e *testEnv) invest(t *testing.T, tenantID, amount string) {
	t.Helper()

	_, err := e.capitalService.CreateCapitalEntry(context.Background(), tenantID, model.LedgerTypeOwnerInvestment, dec(amount), "")
	require.NoError(t, err)
}

func (e *testEnv) createPlan(t *testing.T, tenantID, customerID string, in *CreatePlanInput) *PlanDetail {
	t.Helper()

	if in.CustomerID == "" {
		in.CustomerID = customerID
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if in.BusinessModel == "" {
		in.BusinessModel = model.BusinessModelProductOwner
	}

	detail, err := e.planService.CreatePlan(context.Background(), tenantID, in)
	require.NoError(t, err)
	return detail
}
