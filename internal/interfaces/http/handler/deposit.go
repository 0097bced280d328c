package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
)

// DepositHandler handles mobile-money deposit endpoints
type DepositHandler struct {
	BaseHandler
	depositService *appbilling.DepositService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(depositService *appbilling.DepositService) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

// Initiate godoc
// @Summary      Start a deposit
// @Description  Push a USSD payment prompt to the given phone and record a pending transaction
// @Tags         deposits
// @Accept       json
// @Produce      json
// @Param        request body appbilling.InitiateDepositRequest true "Deposit details"
// @Success      201 {object} dto.Response{data=appbilling.TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /deposits [post]
func (h *DepositHandler) Initiate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.InitiateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.depositService.InitiateDeposit(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get a deposit transaction
// @Tags         deposits
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200 {object} dto.Response{data=appbilling.TransactionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /deposits/{id} [get]
func (h *DepositHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	result, err := h.depositService.GetTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List own deposit transactions
// @Tags         deposits
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]appbilling.TransactionResponse}
// @Security     BearerAuth
// @Router       /deposits [get]
func (h *DepositHandler) List(c *gin.Context) {
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

	result, err := h.depositService.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GatewayBalance godoc
// @Summary      Payment gateway merchant balance
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/gateway/balance [get]
func (h *DepositHandler) GatewayBalance(c *gin.Context) {
	balance, err := h.depositService.GatewayBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"balance": balance.String()})
}
