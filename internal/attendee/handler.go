package attendee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atalvarez9/events-directory-backend/internal/apierror"
	"github.com/atalvarez9/events-directory-backend/internal/event"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func respondError(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	c.JSON(apiErr.Status, gin.H{"code": apiErr.Code, "error": apiErr.Message})
}

// ===========================
// 🎟 RSVP - POST /events/:id/attendees
func (h *Handler) RSVP(c *gin.Context) {
	caller := event.CallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": apierror.CodeUnauthorized, "error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid event ID"})
		return
	}

	var req RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid input: " + err.Error()})
		return
	}
	notify := true
	if req.Notify != nil {
		notify = *req.Notify
	}

	if err := h.Service.RSVP(c.Request.Context(), id, *caller, notify, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "rsvp recorded"})
}

// ===========================
// ❌ Un-RSVP - DELETE /events/:id/attendees
func (h *Handler) CancelRSVP(c *gin.Context) {
	caller := event.CallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": apierror.CodeUnauthorized, "error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid event ID"})
		return
	}

	if err := h.Service.CancelRSVP(c.Request.Context(), id, *caller, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "rsvp removed"})
}
