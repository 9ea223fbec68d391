package handler

import (
	salesapp "github.com/agencia/backend/internal/application/sales"
	"github.com/agencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CancellationHandler handles the cancellation lifecycle endpoints
type CancellationHandler struct {
	BaseHandler
	cancellationService *salesapp.CancellationService
}

// NewCancellationHandler creates a new CancellationHandler
func NewCancellationHandler(cancellationService *salesapp.CancellationService) *CancellationHandler {
	return &CancellationHandler{cancellationService: cancellationService}
}

// RegisterRoutes registers cancellation routes
func (h *CancellationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sales/:id/cancellation", h.RequestCancellation)
	rg.POST("/sales/:id/reversal", h.ExecuteReversal)

	requests := rg.Group("/cancellation-requests")
	{
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
	}
}

// RequestCancellationRequest represents a request to open a cancellation
type RequestCancellationRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// RequestCancellation opens a cancellation request for a sale
func (h *CancellationHandler) RequestCancellation(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RequestCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.cancellationService.RequestCancellation(c.Request.Context(), middleware.GetActor(c), saleID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// Approve approves a pending cancellation request
func (h *CancellationHandler) Approve(c *gin.Context) {
	requestID, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := h.cancellationService.ApproveCancellation(c.Request.Context(), middleware.GetActor(c), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// RejectCancellationRequest represents a rejection with its reason
type RejectCancellationRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// Reject rejects a pending cancellation request
func (h *CancellationHandler) Reject(c *gin.Context) {
	requestID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RejectCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.cancellationService.RejectCancellation(c.Request.Context(), middleware.GetActor(c), requestID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// ExecuteReversal runs the approved cancellation's reversal and returns the
// structured report. Partial failures still return 200 with Success false.
func (h *CancellationHandler) ExecuteReversal(c *gin.Context) {
	saleID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.cancellationService.ExecuteReversal(c.Request.Context(), middleware.GetActor(c), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
