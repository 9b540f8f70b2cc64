package assignment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentflow/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the operator-facing resolver endpoints; callers
// must pass the operator role middleware first.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reservations/:id/candidate-assets", h.FindCandidates)
	rg.POST("/reservations/:id/assign", h.Assign)
}

func (h *Handler) FindCandidates(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation id")
		return
	}

	candidates, err := h.service.FindCandidates(c.Request.Context(), id, c.GetInt64("provider_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidates": candidates})
}

func (h *Handler) Assign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation id")
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.Assign(c.Request.Context(), id, req.AssetID, c.GetInt64("provider_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": view})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid assignment request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation or asset not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to manage this reservation")
	case errors.Is(err, ErrWrongUnitType):
		response.Error(c, http.StatusBadRequest, "WRONG_UNIT_TYPE", "Asset belongs to a different unit type")
	case errors.Is(err, ErrUnassignableState):
		response.Error(c, http.StatusConflict, "STATE_ERROR", "Only confirmed or active reservations can be assigned")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "ASSIGNMENT_CONFLICT", "Asset is not available for the reservation window")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve assignment")
	}
}
