package handler

import (
	salesapp "github.com/agencia/backend/internal/application/sales"
	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesHandler handles sale and payment endpoints
type SalesHandler struct {
	BaseHandler
	paymentService *salesapp.PaymentService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(paymentService *salesapp.PaymentService) *SalesHandler {
	return &SalesHandler{paymentService: paymentService}
}

// RegisterRoutes registers sale and payment routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	salesGroup := rg.Group("/sales")
	{
		salesGroup.POST("", h.CreateSale)
		salesGroup.GET("/:id/financials", h.GetFinancials)
		salesGroup.POST("/:id/payments", h.RegisterPayment)
		salesGroup.POST("/:id/opening/confirm", h.ConfirmOpening)
		salesGroup.POST("/:id/opening/voucher", h.AttachOpeningVoucher)
	}
	payments := rg.Group("/payments")
	{
		payments.POST("/:id/confirm", h.ConfirmPayment)
		payments.POST("/:id/voucher", h.AttachVoucher)
	}
}

// CreateSaleRequest represents a request to open a sale
type CreateSaleRequest struct {
	Mode          string          `json:"mode" binding:"required,oneof=DOMESTIC INTERNATIONAL"`
	SoldPrice     decimal.Decimal `json:"sold_price" binding:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	OpeningMethod string          `json:"opening_method" binding:"required,oneof=CASH TRANSFER CARD DEPOSIT CREDIT DIRECT_TO_VENDOR"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	SellerID      string          `json:"seller_id" binding:"required,uuid"`
	CustomerID    string          `json:"customer_id" binding:"required,uuid"`
}

// CreateSale opens a sale with its opening payment
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		h.BadRequest(c, "invalid seller_id")
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "invalid customer_id")
		return
	}

	result, err := h.paymentService.CreateSale(c.Request.Context(), middleware.GetActor(c), salesapp.CreateSaleRequest{
		Mode:          sales.CurrencyMode(req.Mode),
		SoldPrice:     req.SoldPrice,
		OpeningAmount: req.OpeningAmount,
		OpeningMethod: sales.PaymentMethod(req.OpeningMethod),
		ExchangeRate:  req.ExchangeRate,
		SellerID:      sellerID,
		CustomerID:    customerID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RegisterPaymentRequest represents a request to record an installment
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required,oneof=CASH TRANSFER CARD DEPOSIT"`
	// USDRate marks a domestic installment paid in dollars: amount is the
	// USD figure, converted once at this rate and then frozen.
	USDRate *decimal.Decimal `json:"usd_rate,omitempty"`
}

// RegisterPayment records an installment against a sale
func (h *SalesHandler) RegisterPayment(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.RegisterPayment(c.Request.Context(), middleware.GetActor(c), salesapp.RegisterPaymentRequest{
		SaleID:  saleID,
		Amount:  req.Amount,
		Method:  sales.PaymentMethod(req.Method),
		USDRate: req.USDRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ConfirmPayment confirms a voucher-gated installment
func (h *SalesHandler) ConfirmPayment(c *gin.Context) {
	entryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.paymentService.ConfirmPayment(c.Request.Context(), middleware.GetActor(c), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AttachVoucher marks an installment's voucher as uploaded
func (h *SalesHandler) AttachVoucher(c *gin.Context) {
	entryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.paymentService.AttachVoucher(c.Request.Context(), middleware.GetActor(c), entryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmOpening confirms a sale's opening payment
func (h *SalesHandler) ConfirmOpening(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.paymentService.ConfirmOpening(c.Request.Context(), middleware.GetActor(c), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AttachOpeningVoucher marks the opening payment's voucher as uploaded
func (h *SalesHandler) AttachOpeningVoucher(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.paymentService.AttachOpeningVoucher(c.Request.Context(), middleware.GetActor(c), saleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetFinancials returns the sale's current financial position
func (h *SalesHandler) GetFinancials(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.paymentService.GetFinancials(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
