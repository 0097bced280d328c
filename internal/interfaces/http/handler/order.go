package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/smmpanel/backend/internal/application/ordering"
)

// OrderHandler handles SMM order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *appordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *appordering.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Place godoc
// @Summary      Place an order
// @Description  Debit the wallet and submit the order to the provider
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body appordering.PlaceOrderRequest true "Order details"
// @Success      201 {object} dto.Response{data=appordering.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appordering.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=appordering.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, orderID, ok := h.orderParams(c)
	if !ok {
		return
	}

	result, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appordering.OrderResponse}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
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

	result, err := h.orderService.ListOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Refresh godoc
// @Summary      Refresh an order's status from the provider
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=appordering.OrderResponse}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/refresh [post]
func (h *OrderHandler) Refresh(c *gin.Context) {
	userID, orderID, ok := h.orderParams(c)
	if !ok {
		return
	}

	result, err := h.orderService.RefreshOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Request cancellation of an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=appordering.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, orderID, ok := h.orderParams(c)
	if !ok {
		return
	}

	result, err := h.orderService.CancelOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refill godoc
// @Summary      Request a refill for a dropped order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=appordering.RefillResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/refill [post]
func (h *OrderHandler) Refill(c *gin.Context) {
	userID, orderID, ok := h.orderParams(c)
	if !ok {
		return
	}

	result, err := h.orderService.RequestRefill(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RefillStatus godoc
// @Summary      Check the status of a refill request
// @Tags         orders
// @Produce      json
// @Param        refill_id path string true "Refill ID"
// @Success      200 {object} dto.Response{data=appordering.RefillResponse}
// @Security     BearerAuth
// @Router       /orders/refills/{refill_id} [get]
func (h *OrderHandler) RefillStatus(c *gin.Context) {
	refillID := c.Param("refill_id")
	if refillID == "" {
		h.BadRequest(c, "Missing refill ID")
		return
	}

	result, err := h.orderService.RefillStatus(c.Request.Context(), refillID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// orderParams extracts the authenticated user and the order path parameter
func (h *OrderHandler) orderParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, orderID, true
}
