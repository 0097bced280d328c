package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smmpanel/backend/internal/application/identity"
)

// UserHandler handles referral dashboard and admin user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Referrals godoc
// @Summary      Referral dashboard
// @Description  Return the caller's referral code, earnings, and referred signups
// @Tags         referrals
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.ReferralSummary}
// @Security     BearerAuth
// @Router       /referrals [get]
func (h *UserHandler) Referrals(c *gin.Context) {
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

	result, err := h.userService.ReferralDashboard(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List accounts (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.UserResponse}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get an account (admin)
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.userParam(c)
	if !ok {
		return
	}

	result, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Suspend godoc
// @Summary      Suspend an account (admin)
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/suspend [post]
func (h *UserHandler) Suspend(c *gin.Context) {
	userID, ok := h.userParam(c)
	if !ok {
		return
	}

	result, err := h.userService.Suspend(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Unsuspend godoc
// @Summary      Re-enable a suspended account (admin)
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/unsuspend [post]
func (h *UserHandler) Unsuspend(c *gin.Context) {
	userID, ok := h.userParam(c)
	if !ok {
		return
	}

	result, err := h.userService.Unsuspend(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetRole godoc
// @Summary      Change an account's role (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identity.SetRoleRequest true "New role"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Security     BearerAuth
// @Router       /admin/users/{id}/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	userID, ok := h.userParam(c)
	if !ok {
		return
	}

	var req identity.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.SetRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AdjustBalance godoc
// @Summary      Set an account's wallet balance (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identity.AdjustBalanceRequest true "New balance in minor units"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Security     BearerAuth
// @Router       /admin/users/{id}/balance [put]
func (h *UserHandler) AdjustBalance(c *gin.Context) {
	userID, ok := h.userParam(c)
	if !ok {
		return
	}

	var req identity.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.AdjustBalance(c.Request.Context(), userID, req.Balance)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *UserHandler) userParam(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}
