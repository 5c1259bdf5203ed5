package reports

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/middleware"
	"github.com/vibra-events/vibra-backend/utils"
)

type Handler struct {
	service ReportService
}

func NewHandler(s ReportService) *Handler {
	return &Handler{service: s}
}

// Export godoc
// @Summary Download a report
// @Tags reports
// @Produce octet-stream
// @Param type path string true "registrations|events"
// @Param format query string false "csv|excel|pdf (default csv)"
// @Param date_range query string false "daily|weekly|monthly|yearly|custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Success 200 {file} file
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/events/admin/reports/{type} [get]
func (h *Handler) Export(c *gin.Context) {
	from, to, err := GetDateRange(c.Query("date_range"), c.Query("start_date"), c.Query("end_date"), time.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	req := ReportRequest{
		Type:   strings.ToLower(c.Param("type")),
		Format: strings.ToLower(c.DefaultQuery("format", FormatCSV)),
		From:   from,
		To:     to,
	}

	out, filename, mime, err := h.service.Export(c.Request.Context(), req, c.GetUint("user_id"), middleware.GetIPFromContext(c))
	switch {
	case errors.Is(err, ErrUnknownReportType), errors.Is(err, ErrUnknownFormat):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("❌ report %s/%s: %v", req.Type, req.Format, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, mime, out)
}
