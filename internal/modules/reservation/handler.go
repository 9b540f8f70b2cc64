package reservation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rentflow/internal/pkg/response"
	"rentflow/internal/repository"
)

type Handler struct {
	service *Service
	sweeper *Sweeper
}

func NewHandler(service *Service, sweeper *Sweeper) *Handler {
	return &Handler{service: service, sweeper: sweeper}
}

// RegisterRoutes mounts the customer-facing booking endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.CreateHold)
	rg.GET("/reservations/:id", h.GetReservation)
	rg.GET("/reservations", h.ListReservations)
	rg.POST("/reservations/:id/confirm", h.Confirm)
	rg.POST("/reservations/:id/cancel", h.Cancel)
	rg.GET("/unit-types/:id/availability", h.CheckAvailability)
}

// RegisterOperatorRoutes mounts fulfilment endpoints; callers must pass
// the operator role middleware first.
func (h *Handler) RegisterOperatorRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations/:id/pickup", h.Pickup)
	rg.POST("/reservations/:id/return", h.Complete)
}

// RegisterInternalRoutes mounts the sweep endpoint for the trusted
// scheduler identity; callers must pass InternalTokenAuth first.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations/sweep", h.Sweep)
}

func (h *Handler) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.CreateHold(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) ListReservations(c *gin.Context) {
	providerID := c.GetInt64("provider_id")
	if providerID == 0 {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Listing requires a provider-scoped token")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unitTypeID, _ := strconv.ParseInt(c.Query("unit_type_id"), 10, 64)

	rows, err := h.service.ListByProvider(c.Request.Context(), providerID, repository.ReservationFilters{
		Status:     c.Query("status"),
		UnitTypeID: unitTypeID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": rows})
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	res, err := h.service.Confirm(c.Request.Context(), id, req.PaymentReference)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) Pickup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.service.Pickup(c.Request.Context(), id, c.GetInt64("provider_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.service.Complete(c.Request.Context(), id, c.GetInt64("provider_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	start, err1 := time.Parse(time.RFC3339, c.Query("start"))
	end, err2 := time.Parse(time.RFC3339, c.Query("end"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be RFC3339 timestamps")
		return
	}
	quantity, _ := strconv.Atoi(c.DefaultQuery("quantity", "1"))

	result, err := h.service.CheckAvailability(c.Request.Context(), id, start, end, quantity, 0)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Sweep(c *gin.Context) {
	count, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "SWEEP_FAILED", "Hold sweep failed")
		return
	}

	response.Success(c, http.StatusOK, SweepResult{ExpiredCount: count})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation request")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CAPACITY_CONFLICT", "Not enough capacity for the selected dates")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation or unit type not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to act on this reservation")
	case errors.Is(err, ErrHoldExpired):
		response.Error(c, http.StatusConflict, "HOLD_EXPIRED", "Hold has expired; restart the booking")
	case errors.Is(err, ErrStateTransition):
		response.Error(c, http.StatusConflict, "STATE_ERROR", "Reservation is not in a state that allows this action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, try again")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id in path")
		return 0, false
	}
	return id, true
}
