package registration

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/internal/event"
	"github.com/vibra-events/vibra-backend/middleware"
	"github.com/vibra-events/vibra-backend/utils"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRegistrationNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEventInactive),
		errors.Is(err, ErrEventFull),
		errors.Is(err, ErrAlreadyRegistered):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("❌ registration %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
	}
}

// Register godoc
// @Summary Register the caller for an event
// @Tags registrations
// @Produce json
// @Param id path int true "event id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/events/{id}/register [post]
func (h *Handler) Register(c *gin.Context) {
	eventID, ok := event.ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, ErrEventNotFound.Error())
		return
	}

	e, err := h.Service.Register(c.Request.Context(), c.GetUint("user_id"), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully registered for event",
		"event": gin.H{
			"id":       e.ID,
			"title":    e.Title,
			"date":     e.Date,
			"location": e.Location,
		},
	})
}

// Unregister handles DELETE /api/events/:id/unregister
func (h *Handler) Unregister(c *gin.Context) {
	eventID, ok := event.ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, ErrEventNotFound.Error())
		return
	}

	if err := h.Service.Unregister(c.Request.Context(), c.GetUint("user_id"), eventID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully unregistered from event"})
}

// DeleteEvent handles DELETE /api/events/:id (admin)
func (h *Handler) DeleteEvent(c *gin.Context) {
	eventID, ok := event.ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, ErrEventNotFound.Error())
		return
	}

	n, err := h.Service.DeleteEvent(c.Request.Context(), c.GetUint("user_id"), eventID, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully", "usersUpdated": n})
}

type selectStudentRequest struct {
	UserID  uint `json:"userId" binding:"required"`
	EventID uint `json:"eventId" binding:"required"`
}

// SelectStudent handles POST /api/events/admin/select-student (admin)
func (h *Handler) SelectStudent(c *gin.Context) {
	var req selectStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}

	err := h.Service.SelectStudent(c.Request.Context(), c.GetUint("user_id"), req.UserID, req.EventID, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student selected successfully"})
}

// ClearUserRegistrations handles DELETE /api/users/:id/registrations (admin)
func (h *Handler) ClearUserRegistrations(c *gin.Context) {
	userID, ok := event.ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}

	n, err := h.Service.ClearUserRegistrations(c.Request.Context(), c.GetUint("user_id"), userID, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed from all events successfully", "eventsUpdated": n})
}
