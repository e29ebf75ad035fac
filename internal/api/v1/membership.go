package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rtvox/rtvox-billing/internal/api/dto"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/logger"
	"github.com/rtvox/rtvox-billing/internal/service"
)

// MembershipHandler handles membership status API calls
type MembershipHandler struct {
	membershipService service.MembershipService
	log               *logger.Logger
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService service.MembershipService, log *logger.Logger) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		log:               log,
	}
}

// Status resolves a user's membership status
// @Summary Get membership status
// @Description Resolve whether the user's paid membership is currently active
// @Tags Membership
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} dto.MembershipStatusResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /membership/status [get]
func (h *MembershipHandler) Status(c *gin.Context) {
	var req dto.MembershipStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).Mark(ierr.ErrValidation))
		return
	}

	response, err := h.membershipService.GetStatus(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
