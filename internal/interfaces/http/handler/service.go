package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/smmpanel/backend/internal/application/catalog"
)

// ServiceHandler handles service catalog endpoints
type ServiceHandler struct {
	BaseHandler
	catalogService *appcatalog.CatalogService
}

// NewServiceHandler creates a new service catalog handler
func NewServiceHandler(catalogService *appcatalog.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		catalogService: catalogService,
	}
}

// List godoc
// @Summary      List enabled services
// @Tags         services
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcatalog.ServiceResponse}
// @Security     BearerAuth
// @Router       /services [get]
func (h *ServiceHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.ListEnabled(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAll godoc
// @Summary      List all services including disabled (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appcatalog.ServiceResponse}
// @Security     BearerAuth
// @Router       /admin/services [get]
func (h *ServiceHandler) ListAll(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200 {object} dto.Response{data=appcatalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /services/{id} [get]
func (h *ServiceHandler) Get(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}

	result, err := h.catalogService.Get(c.Request.Context(), serviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Create godoc
// @Summary      Add a service to the catalog (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.CreateServiceRequest true "Service details"
// @Success      201 {object} dto.Response{data=appcatalog.ServiceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/services [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	var req appcatalog.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.catalogService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update godoc
// @Summary      Update a catalog entry (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID"
// @Param        request body appcatalog.UpdateServiceRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=appcatalog.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/services/{id} [put]
func (h *ServiceHandler) Update(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}

	var req appcatalog.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.catalogService.Update(c.Request.Context(), serviceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetEnabled godoc
// @Summary      Enable or disable a service (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID"
// @Success      200 {object} dto.Response{data=appcatalog.ServiceResponse}
// @Security     BearerAuth
// @Router       /admin/services/{id}/enabled [put]
func (h *ServiceHandler) SetEnabled(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}

	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.catalogService.SetEnabled(c.Request.Context(), serviceID, *req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Remove a service from the catalog (admin)
// @Tags         admin
// @Param        id path string true "Service ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/services/{id} [delete]
func (h *ServiceHandler) Delete(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid service ID")
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), serviceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Import godoc
// @Summary      Import the provider's service catalog (admin)
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=appcatalog.ImportReport}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/services/import [post]
func (h *ServiceHandler) Import(c *gin.Context) {
	result, err := h.catalogService.ImportFromProvider(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ProviderBalance godoc
// @Summary      Upstream panel reseller balance
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/provider/balance [get]
func (h *ServiceHandler) ProviderBalance(c *gin.Context) {
	balance, currency, err := h.catalogService.ProviderBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"balance": balance.String(), "currency": currency})
}
