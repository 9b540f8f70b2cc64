package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentflow/internal/domain"
	"rentflow/internal/pkg/response"
	"rentflow/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts read-only catalog endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/unit-types", h.ListUnitTypes)
	rg.GET("/unit-types/:id", h.GetUnitType)
}

// RegisterOperatorRoutes mounts inventory-management endpoints; callers
// must pass the operator role middleware first.
func (h *Handler) RegisterOperatorRoutes(rg *gin.RouterGroup) {
	rg.POST("/unit-types", h.CreateUnitType)
	rg.GET("/unit-types/:id/assets", h.ListAssets)
	rg.POST("/assets", h.CreateAsset)
	rg.PATCH("/assets/:id/status", h.UpdateAssetStatus)
}

func (h *Handler) ListUnitTypes(c *gin.Context) {
	providerID, _ := strconv.ParseInt(c.Query("provider_id"), 10, 64)

	rows, err := h.service.ListUnitTypes(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list unit types")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unit_types": rows})
}

func (h *Handler) GetUnitType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid unit type id")
		return
	}

	ut, err := h.service.GetUnitType(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unit_type": ut})
}

func (h *Handler) CreateUnitType(c *gin.Context) {
	var req CreateUnitTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit type", fields)
		return
	}

	ut, err := h.service.CreateUnitType(c.Request.Context(), c.GetInt64("provider_id"), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create unit type")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"unit_type": ut})
}

func (h *Handler) ListAssets(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid unit type id")
		return
	}

	rows, err := h.service.ListAssets(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assets": rows})
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid asset", fields)
		return
	}

	a, err := h.service.CreateAsset(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"asset": a})
}

func (h *Handler) UpdateAssetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid asset id")
		return
	}

	var req UpdateAssetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status", fields)
		return
	}

	a, err := h.service.UpdateAssetStatus(c.Request.Context(), id, domain.AssetStatus(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": a})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit type or asset not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Catalog operation failed")
}
