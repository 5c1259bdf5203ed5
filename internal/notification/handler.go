package notification

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/utils"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// GET /api/users/notifications
func (h *Handler) List(c *gin.Context) {
	userID := c.GetUint("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	views, unread, err := h.Service.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		log.Printf("❌ list notifications for user %d: %v", userID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": views, "unreadCount": unread})
}

// PUT /api/users/notifications/:id/read
func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.Service.MarkAsRead(c.Request.Context(), uint(id), c.GetUint("user_id")); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// GET /api/users/notifications/stream (SSE)
func (h *Handler) Stream(c *gin.Context) {
	userID := c.GetUint("user_id")

	sub, err := h.Service.Subscribe(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrStreamUnavailable) {
			utils.RespondWithError(c, http.StatusServiceUnavailable, "Live notifications are not enabled")
			return
		}
		log.Printf("❌ notification stream for user %d: %v", userID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: inapp\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
