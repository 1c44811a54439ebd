package event

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atalvarez9/events-directory-backend/internal/apierror"
)

// AttendanceInfo is the caller's RSVP state for one event.
type AttendanceInfo struct {
	Attending bool
	Notify    bool
}

// AttendanceLookup reports the caller's RSVP state, used to fill the
// caller-relative fields of the public transform. The batch variant keeps
// listing at one extra query instead of one per row.
type AttendanceLookup interface {
	Attendance(eventID uuid.UUID, address string) (attending, notify bool)
	AttendanceBatch(eventIDs []uuid.UUID, address string) map[uuid.UUID]AttendanceInfo
}

type Handler struct {
	Service    *Service
	Attendance AttendanceLookup
}

func NewHandler(s *Service, attendance AttendanceLookup) *Handler {
	return &Handler{Service: s, Attendance: attendance}
}

// ===========================
// 📌 CallerFromContext extracts the optional caller identity set by the auth
// middleware. Every handler package reads the identity through this helper.
func CallerFromContext(c *gin.Context) *Caller {
	raw, exists := c.Get("caller")
	if !exists {
		return nil
	}
	caller, ok := raw.(Caller)
	if !ok {
		return nil
	}
	return &caller
}

func respondError(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	c.JSON(apiErr.Status, gin.H{"code": apiErr.Code, "error": apiErr.Message})
}

// ===========================
// 📄 List Events - GET /events
func (h *Handler) ListEvents(c *gin.Context) {
	var filters FilterRequest
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid filters: " + err.Error()})
		return
	}

	caller := CallerFromContext(c)
	events, total, err := h.Service.ListEvents(filters, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	var rsvps map[uuid.UUID]AttendanceInfo
	if caller != nil && h.Attendance != nil && len(events) > 0 {
		ids := make([]uuid.UUID, len(events))
		for i := range events {
			ids[i] = events[i].ID
		}
		rsvps = h.Attendance.AttendanceBatch(ids, caller.Address)
	}

	now := time.Now().UTC()
	out := make([]PublicEvent, 0, len(events))
	for i := range events {
		info := rsvps[events[i].ID]
		out = append(out, ToPublic(&events[i], caller, info.Attending, info.Notify, now))
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "total": total, "data": out})
}

// ===========================
// 🔍 Get Event - GET /events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid event ID"})
		return
	}

	caller := CallerFromContext(c)
	e, err := h.Service.GetEvent(id, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	attending, notify := h.attendance(e.ID, caller)
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": ToPublic(e, caller, attending, notify, time.Now().UTC())})
}

// ===========================
// 🎯 Create Event - POST /events
func (h *Handler) CreateEvent(c *gin.Context) {
	caller := CallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": apierror.CodeUnauthorized, "error": "authentication required"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.CreateEvent(&req, *caller, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": ToPublic(e, caller, false, false, time.Now().UTC())})
}

// ===========================
// 🛠 Update Event - PUT /events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	caller := CallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": apierror.CodeUnauthorized, "error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid event ID"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.UpdateEvent(id, &req, *caller, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	attending, notify := h.attendance(e.ID, caller)
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": ToPublic(e, caller, attending, notify, time.Now().UTC())})
}

// ===========================
// ✅ Approve Event - PATCH /events/:id/approve
func (h *Handler) ApproveEvent(c *gin.Context) {
	h.moderate(c, h.Service.ApproveEvent)
}

// ===========================
// ❌ Reject Event - PATCH /events/:id/reject
func (h *Handler) RejectEvent(c *gin.Context) {
	h.moderate(c, h.Service.RejectEvent)
}

func (h *Handler) moderate(c *gin.Context, action func(uuid.UUID, Caller, string) (*Event, error)) {
	caller := CallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": apierror.CodeUnauthorized, "error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid event ID"})
		return
	}

	e, err := action(id, *caller, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": ToPublic(e, caller, false, false, time.Now().UTC())})
}

// ===========================
// 🗒 Event History - GET /events/:id/history (admin)
func (h *Handler) EventHistory(c *gin.Context) {
	caller := CallerFromContext(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": apierror.CodeUnauthorized, "error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": apierror.CodeValidation, "error": "invalid event ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	trail, err := h.Service.History(c.Request.Context(), id, *caller, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "data": trail})
}

func (h *Handler) attendance(eventID uuid.UUID, caller *Caller) (bool, bool) {
	if caller == nil || h.Attendance == nil {
		return false, false
	}
	return h.Attendance.Attendance(eventID, caller.Address)
}
