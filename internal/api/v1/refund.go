package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rtvox/rtvox-billing/internal/api/dto"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/logger"
	"github.com/rtvox/rtvox-billing/internal/service"
)

// RefundHandler handles refund estimate and request API calls
type RefundHandler struct {
	refundService service.RefundService
	log           *logger.Logger
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(refundService service.RefundService, log *logger.Logger) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
		log:           log,
	}
}

// Estimate computes a refund breakdown for an order
// @Summary Estimate a refund
// @Description Compute the refund breakdown for a paid order without side effects
// @Tags Refunds
// @Accept json
// @Produce json
// @Param request body dto.RefundEstimateRequest true "Refund estimate request"
// @Success 200 {object} dto.RefundEstimateResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /refunds/estimate [post]
func (h *RefundHandler) Estimate(c *gin.Context) {
	var req dto.RefundEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).Mark(ierr.ErrValidation))
		return
	}

	response, err := h.refundService.EstimateRefund(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Request submits a refund request for an order
// @Summary Request a refund
// @Description Compute the refund breakdown and record the request on the order; duplicate requests are rejected
// @Tags Refunds
// @Accept json
// @Produce json
// @Param request body dto.RefundRequestRequest true "Refund request"
// @Success 200 {object} dto.RefundRequestResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /refunds/request [post]
func (h *RefundHandler) Request(c *gin.Context) {
	var req dto.RefundRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).Mark(ierr.ErrValidation))
		return
	}

	response, err := h.refundService.RequestRefund(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
