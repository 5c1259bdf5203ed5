package event

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/middleware"
	"github.com/vibra-events/vibra-backend/utils"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondValidation(c, verr.Fields)
	case errors.Is(err, ErrEventNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCapacityBelowRegistrations):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("❌ event request %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
	}
}

// ListEvents godoc
// @Summary List active events
// @Tags events
// @Produce json
// @Param category query string false "academic|cultural|sports|workshop|seminar|all"
// @Param search query string false "matches title or description"
// @Param page query int false "page (default 1)"
// @Param limit query int false "page size (default 10)"
// @Success 200 {object} ListResult
// @Router /api/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	viewer, _ := middleware.CurrentUser(c)
	f := ListFilter{
		Category:        c.Query("category"),
		Search:          c.Query("search"),
		Page:            page,
		Limit:           limit,
		IncludeInactive: viewer.IsAdmin() && c.Query("includeInactive") == "true",
	}

	result, err := h.Service.ListEvents(c.Request.Context(), f, viewer.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEvent godoc
// @Summary Get one event
// @Tags events
// @Produce json
// @Param id path int true "event id"
// @Success 200 {object} Event
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, ErrEventNotFound.Error())
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	e, err := h.Service.GetEvent(c.Request.Context(), id, viewer.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// CreateEvent godoc
// @Summary Create an event (admin)
// @Tags events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "event"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}

	e, err := h.Service.CreateEvent(c.Request.Context(), &req, c.GetUint("user_id"), middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully", "event": e})
}

// UpdateEvent godoc
// @Summary Update an event (admin)
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "event id"
// @Param body body UpdateEventRequest true "fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, ErrEventNotFound.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}

	e, err := h.Service.UpdateEvent(c.Request.Context(), id, &req, c.GetUint("user_id"), middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully", "event": e})
}

// GetAdminStats handles GET /api/events/admin/stats
func (h *Handler) GetAdminStats(c *gin.Context) {
	stats, err := h.Service.GetAdminStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
