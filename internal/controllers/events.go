package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eventforms/internal/models"
	"eventforms/internal/repository"
)

// -----------------------------
// Events
// -----------------------------

type EventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Category    string `json:"category" binding:"required,max=80"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"omitempty,url"`
	Date        string `json:"date"` // RFC3339 or YYYY-MM-DD
	Place       string `json:"place"`
}

type StatusRequest struct {
	Status models.EventStatus `json:"status" binding:"required,oneof=upcoming in_progress finished"`
}

// parseDate accepts RFC3339 or YYYY-MM-DD. An empty string means no date.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		d, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func (req EventRequest) apply(ev *models.Event) bool {
	date, err := parseDate(req.Date)
	if err != nil {
		return false
	}
	ev.Title = strings.TrimSpace(req.Title)
	ev.Category = strings.TrimSpace(req.Category)
	ev.Description = req.Description
	ev.Image = req.Image
	ev.Date = date
	ev.Place = req.Place
	return true
}

func (h *Handler) CreateEvent(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}

	ev := models.Event{CreatedBy: userID}
	if !req.apply(&ev) {
		jsonError(c, http.StatusBadRequest, "invalid date format (use RFC3339 or YYYY-MM-DD)")
		return
	}
	if err := h.repo.CreateEvent(c.Request.Context(), &ev); err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("event created", "event_id", ev.ID, "user_id", userID)
	c.JSON(http.StatusCreated, ev)
}

// MyEvents lists events the caller created or staffs.
func (h *Handler) MyEvents(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	events, err := h.repo.ListEventsForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) GetEvent(c *gin.Context) {
	ev, ok := h.loadEvent(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	ev, _, ok := h.ownedEvent(c, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.apply(&ev) {
		jsonError(c, http.StatusBadRequest, "invalid date format (use RFC3339 or YYYY-MM-DD)")
		return
	}
	if err := h.repo.UpdateEvent(c.Request.Context(), &ev); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.CloseEvent(ev.ID)
	c.JSON(http.StatusOK, ev)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	ev, userID, ok := h.ownedEvent(c, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteEvent(c.Request.Context(), ev.ID); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.CloseEvent(ev.ID)
	h.log.Info("event deleted", "event_id", ev.ID, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// UpdateStatus moves the event one step forward: upcoming, in_progress,
// finished. Owner and staff may do it.
func (h *Handler) UpdateStatus(c *gin.Context) {
	ev, _, ok := h.memberEvent(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ev.Status.CanMoveTo(req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	err := h.repo.UpdateEventStatus(c.Request.Context(), ev.ID, ev.Status, req.Status)
	if errors.Is(err, repository.ErrNotFound) {
		// Someone else moved it first.
		jsonError(c, http.StatusConflict, "event status changed, reload and try again")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	ev.Status = req.Status
	c.JSON(http.StatusOK, ev)
}
