package userprofile

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/event"
	"github.com/vibra-events/vibra-backend/middleware"
	"github.com/vibra-events/vibra-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrIncorrectPassword), errors.Is(err, ErrInvalidRole), errors.Is(err, ErrEmailTaken):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("❌ users %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
	}
}

// ===========================
// 🔹 PROFILE ENDPOINTS
// ===========================

// GetProfile godoc
// @Summary Current user's profile with registrations
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/users/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/users/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// GET /api/users/registered-events
func (h *Handler) GetRegisteredEvents(c *gin.Context) {
	events, err := h.service.RegisteredEvents(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GET /api/users/dashboard-stats
func (h *Handler) GetDashboardStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	stats, err := h.service.DashboardStats(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ===========================
// 🔹 ADMIN ENDPOINTS
// ===========================

// ListUsers godoc
// @Summary List accounts
// @Tags users
// @Produce json
// @Param role query string false "student|admin|all"
// @Param page query int false "page (default 1)"
// @Param limit query int false "page size (default 10)"
// @Success 200 {object} UserList
// @Security BearerAuth
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := h.service.ListUsers(c.Request.Context(), UserListFilter{Role: c.Query("role"), Page: page, Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /api/users/:id/role
func (h *Handler) UpdateRole(c *gin.Context) {
	userID, ok := event.ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, auth.ErrUserNotFound.Error())
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, ErrInvalidRole.Error())
		return
	}
	user, err := h.service.UpdateRole(c.Request.Context(), c.GetUint("user_id"), userID, req.Role, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully", "user": user})
}

// PUT /api/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := event.ParseID(c, "id")
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, auth.ErrUserNotFound.Error())
		return
	}
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}
	user, err := h.service.UpdateUser(c.Request.Context(), c.GetUint("user_id"), userID, req, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// GetRegistrations godoc
// @Summary Students with at least one registration
// @Tags events
// @Produce json
// @Success 200 {array} auth.User
// @Security BearerAuth
// @Router /api/events/admin/registrations [get]
func (h *Handler) GetRegistrations(c *gin.Context) {
	users, err := h.service.StudentsWithRegistrations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []auth.User{}
	}
	c.JSON(http.StatusOK, users)
}
