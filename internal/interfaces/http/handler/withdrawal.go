package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	"github.com/smmpanel/backend/internal/domain/billing"
)

// WithdrawalHandler handles referral earnings withdrawal endpoints
type WithdrawalHandler struct {
	BaseHandler
	withdrawalService *appbilling.WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService *appbilling.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// Request godoc
// @Summary      Request a withdrawal of referral earnings
// @Tags         withdrawals
// @Accept       json
// @Produce      json
// @Param        request body appbilling.RequestWithdrawalRequest true "Withdrawal details"
// @Success      201 {object} dto.Response{data=appbilling.WithdrawalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /withdrawals [post]
func (h *WithdrawalHandler) Request(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.RequestWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.withdrawalService.RequestWithdrawal(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @Summary      List own withdrawals
// @Tags         withdrawals
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appbilling.WithdrawalResponse}
// @Security     BearerAuth
// @Router       /withdrawals [get]
func (h *WithdrawalHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.withdrawalService.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPending godoc
// @Summary      List withdrawals by status (admin)
// @Tags         admin
// @Produce      json
// @Param        status query string false "Withdrawal status" default(pending)
// @Success      200 {object} dto.Response{data=[]appbilling.WithdrawalResponse}
// @Security     BearerAuth
// @Router       /admin/withdrawals [get]
func (h *WithdrawalHandler) ListPending(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := billing.WithdrawalStatus(c.DefaultQuery("status", string(billing.WithdrawalStatusPending)))

	result, err := h.withdrawalService.ListByStatus(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPaid godoc
// @Summary      Mark a withdrawal as paid (admin)
// @Tags         admin
// @Produce      json
// @Param        id path string true "Withdrawal ID"
// @Success      200 {object} dto.Response{data=appbilling.WithdrawalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/withdrawals/{id}/pay [post]
func (h *WithdrawalHandler) MarkPaid(c *gin.Context) {
	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID")
		return
	}

	result, err := h.withdrawalService.MarkPaid(c.Request.Context(), withdrawalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel a pending withdrawal (admin)
// @Tags         admin
// @Produce      json
// @Param        id path string true "Withdrawal ID"
// @Success      200 {object} dto.Response{data=appbilling.WithdrawalResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/withdrawals/{id}/cancel [post]
func (h *WithdrawalHandler) Cancel(c *gin.Context) {
	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid withdrawal ID")
		return
	}

	result, err := h.withdrawalService.Cancel(c.Request.Context(), withdrawalID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
