package handler

import (
	"net/http"

	commissionapp "github.com/agencia/backend/internal/application/commission"
	"github.com/agencia/backend/internal/interfaces/http/dto"
	"github.com/agencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionHandler handles monthly commission endpoints
type CommissionHandler struct {
	BaseHandler
	monthlyService *commissionapp.MonthlyService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(monthlyService *commissionapp.MonthlyService) *CommissionHandler {
	return &CommissionHandler{monthlyService: monthlyService}
}

// RegisterRoutes registers commission routes
func (h *CommissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	commissions := rg.Group("/commissions/:sellerID/:year/:month")
	{
		commissions.GET("", h.GetMonthly)
		commissions.POST("/recalculate", h.Recalculate)
		commissions.PUT("/manual-percentage", h.SetManualPercentage)
		commissions.DELETE("/manual-percentage", h.ClearManualPercentage)
	}
}

func (h *CommissionHandler) parsePeriod(c *gin.Context) (uuid.UUID, int, int, bool) {
	var req dto.PeriodRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid commission period"))
		return uuid.Nil, 0, 0, false
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid seller id"))
		return uuid.Nil, 0, 0, false
	}
	return sellerID, req.Month, req.Year, true
}

// GetMonthly returns the seller's monthly commission rollup
func (h *CommissionHandler) GetMonthly(c *gin.Context) {
	sellerID, month, year, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	result, err := h.monthlyService.GetMonthly(c.Request.Context(), sellerID, month, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Recalculate rebuilds the seller's monthly commission from its sales
func (h *CommissionHandler) Recalculate(c *gin.Context) {
	sellerID, month, year, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	result, err := h.monthlyService.RecalculateWithResult(c.Request.Context(), sellerID, month, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetManualPercentageRequest represents a manual percentage override
type SetManualPercentageRequest struct {
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
	Reason     string          `json:"reason" binding:"required,min=3"`
}

// SetManualPercentage assigns an island seller's manual percentage
func (h *CommissionHandler) SetManualPercentage(c *gin.Context) {
	sellerID, month, year, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	var req SetManualPercentageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.monthlyService.SetManualPercentage(c.Request.Context(), middleware.GetActor(c), sellerID, month, year, req.Percentage, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClearManualPercentage removes the manual percentage override
func (h *CommissionHandler) ClearManualPercentage(c *gin.Context) {
	sellerID, month, year, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	result, err := h.monthlyService.ClearManualPercentage(c.Request.Context(), middleware.GetActor(c), sellerID, month, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
