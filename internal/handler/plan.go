package handler

import (
	"net/http"
	"taqsit/internal/dto"
	"taqsit/internal/model"
	"taqsit/internal/service"
	"time"

	"github.com/labstack/echo/v4"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

func (h *PlanHandler) CreatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreatePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}

	detail, err := h.planService.CreatePlan(ctx, tenantID, &service.CreatePlanInput{
		CustomerID:        req.CustomerID,
		TotalPrice:        req.TotalPrice,
		UpfrontPaid:       req.UpfrontPaid,
		MonthlyProfitRate: req.MonthlyProfitRate,
		TotalMonths:       req.TotalMonths,
		StartDate:         startDate,
		BusinessModel:     req.BusinessModel,
		Notes:             req.Notes,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, planToResponse(detail, true))
}

func (h *PlanHandler) GetPlan(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	detail, err := h.planService.GetPlan(ctx, tenantID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, planToResponse(detail, true))
}

func (h *PlanHandler) ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	details, err := h.planService.ListPlans(ctx, tenantID)
	if err != nil {
		return toHTTPError(err)
	}

	plans := make([]*dto.PlanResponse, 0, len(details))
	for _, detail := range details {
		plans = append(plans, planToResponse(detail, false))
	}

	return c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) RecordPayment(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	paidOn := time.Now()
	if req.PaidOn != "" {
		paidOn, err = time.Parse("2006-01-02", req.PaidOn)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "paid_on must be YYYY-MM-DD")
		}
	}

	installment, err := h.planService.RecordPayment(ctx, tenantID, c.Param("id"), req.AmountPaid, paidOn, req.Notes)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, installmentToResponse(installment))
}

func (h *PlanHandler) RevertToPending(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, err := tenantIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.RevertInstallmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	installment, err := h.planService.RevertToPending(ctx, tenantID, c.Param("id"), req.Notes)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, installmentToResponse(installment))
}

func planToResponse(detail *service.PlanDetail, withInstallments bool) *dto.PlanResponse {
	resp := &dto.PlanResponse{
		ID:                detail.Plan.ID,
		CustomerID:        detail.Plan.CustomerID,
		TotalPrice:        detail.Plan.TotalPrice,
		UpfrontPaid:       detail.Plan.UpfrontPaid,
		FinanceAmount:     detail.Plan.FinanceAmount,
		MonthlyProfitRate: detail.Plan.MonthlyProfitRate,
		TotalMonths:       detail.Plan.TotalMonths,
		StartDate:         detail.Plan.StartDate,
		BusinessModel:     detail.Plan.BusinessModel,
		Status:            detail.Metrics.Status,
		MonthsPaid:        detail.Metrics.MonthsPaid,
		TotalPaid:         detail.Metrics.TotalPaid,
		RemainingAmount:   detail.Metrics.RemainingAmount,
		TotalProfit:       detail.Metrics.TotalProfit,
		FutureValue:       detail.Metrics.FutureValue,
		PerInstallment:    detail.Metrics.PerInstallment,
		MyRevenue:         detail.Metrics.MyRevenue,
	}

	if withInstallments {
		resp.Installments = make([]dto.InstallmentResponse, 0, len(detail.Installments))
		for _, inst := range detail.Installments {
			resp.Installments = append(resp.Installments, *installmentToResponse(inst))
		}
	}
	return resp
}

func installmentToResponse(inst *model.Installment) *dto.InstallmentResponse {
	return &dto.InstallmentResponse{
		ID:                inst.ID,
		InstallmentNumber: inst.InstallmentNumber,
		DueDate:           inst.DueDate,
		AmountDue:         inst.AmountDue,
		AmountPaid:        inst.AmountPaid,
		Status:            inst.Status,
		PaidOn:            inst.PaidOn,
		Notes:             inst.Notes,
	}
}
