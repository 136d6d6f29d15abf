package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventforms/internal/models"
	"eventforms/internal/repository"
)

const maxStaffResults = 20

type StaffRequest struct {
	EventID uint `json:"event_id" binding:"required"`
	UserID  uint `json:"user_id" binding:"required"`
}

type LeaveRequest struct {
	EventID uint `json:"event_id" binding:"required"`
}

// FindStaff searches users who accept staff work. ?q matches name or email.
func (h *Handler) FindStaff(c *gin.Context) {
	limit := maxStaffResults
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			jsonError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxStaffResults)
	}
	users, err := h.repo.FindStaffCandidates(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) AssignStaff(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	var req StaffRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	ev, err := h.repo.GetEvent(ctx, req.EventID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if ev.CreatedBy != userID {
		h.respondError(c, errNotEventOwner)
		return
	}
	if req.UserID == ev.CreatedBy {
		jsonError(c, http.StatusBadRequest, "the owner cannot be staff of their own event")
		return
	}
	target, err := h.repo.GetUser(ctx, req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !target.CanBeStaff {
		jsonError(c, http.StatusBadRequest, "this user does not accept staff assignments")
		return
	}

	a, err := h.repo.AssignStaff(ctx, ev.ID, target.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			jsonError(c, http.StatusConflict, "user is already staff of this event")
			return
		}
		h.respondError(c, err)
		return
	}
	a.User = target
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) RemoveStaff(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	var req StaffRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	ev, err := h.repo.GetEvent(ctx, req.EventID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if ev.CreatedBy != userID {
		h.respondError(c, errNotEventOwner)
		return
	}
	if err := h.repo.RemoveStaff(ctx, ev.ID, req.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.Close(req.UserID, ev.ID)
	c.JSON(http.StatusOK, gin.H{"message": "staff removed"})
}

// LeaveEvent lets a staff member drop out of an event.
func (h *Handler) LeaveEvent(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	var req LeaveRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.repo.RemoveStaff(c.Request.Context(), req.EventID, userID); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.Close(userID, req.EventID)
	c.JSON(http.StatusOK, gin.H{"message": "left event"})
}

// ToggleCanBeStaff only works on the caller's own account.
func (h *Handler) ToggleCanBeStaff(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if id != userID {
		jsonError(c, http.StatusForbidden, "you can only change your own account")
		return
	}
	next, err := h.repo.ToggleCanBeStaff(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_be_staff": next})
}

// ListStaff shows the staff of an event to its owner and staff.
func (h *Handler) ListStaff(c *gin.Context) {
	ev, _, ok := h.memberEvent(c, "id")
	if !ok {
		return
	}
	staff, err := h.repo.ListStaff(c.Request.Context(), ev.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if staff == nil {
		staff = []models.StaffAssignment{}
	}
	c.JSON(http.StatusOK, staff)
}
