package server

import (
	"taqsit/internal/handler"
	appmiddleware "taqsit/internal/middleware"
	"taqsit/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	planHandler    *handler.PlanHandler
	capitalHandler *handler.CapitalHandler
	billingHandler *handler.BillingHandler
}

func NewServer(planService service.PlanService, capitalService service.CapitalService, billingService service.BillingService) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		planHandler:    handler.NewPlanHandler(planService),
		capitalHandler: handler.NewCapitalHandler(capitalService),
		billingHandler: handler.NewBillingHandler(billingService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Provider webhooks authenticate with a payload signature, not tenant auth.
	api.POST("/billing/webhook", s.billingHandler.Webhook)

	secured := api.Group("", appmiddleware.AuthMiddleware())

	// -------- plans / installments --------
	secured.POST("/plans", s.planHandler.CreatePlan)
	secured.GET("/plans", s.planHandler.ListPlans)
	secured.GET("/plans/:id", s.planHandler.GetPlan)
	secured.POST("/installments/:id/payment", s.planHandler.RecordPayment)
	secured.POST("/installments/:id/revert", s.planHandler.RevertToPending)

	// -------- capital ledger --------
	secured.POST("/capital/entries", s.capitalHandler.CreateEntry)
	secured.GET("/capital/summary", s.capitalHandler.GetSummary)

	// -------- billing --------
	secured.POST("/billing/checkout", s.billingHandler.CreateCheckout)
	secured.GET("/billing/subscription", s.billingHandler.GetSubscription)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
