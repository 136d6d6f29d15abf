package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventforms/internal/builder"
	"eventforms/internal/formfield"
)

type AddFieldRequest struct {
	Name     string         `json:"name" binding:"required"`
	Type     formfield.Type `json:"type" binding:"required"`
	Required bool           `json:"required"`
	Options  []string       `json:"options"`
}

type UpdateFieldRequest struct {
	Name     string         `json:"name" binding:"required"`
	Type     formfield.Type `json:"type" binding:"required"`
	Required *bool          `json:"required"`
	Options  []string       `json:"options"`
}

type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type BuilderTemplateRequest struct {
	Name string `json:"name" binding:"max=120"`
}

// session resolves the caller's builder for :eventId. Owner and staff may
// open it; only the owner can leave preview.
func (h *Handler) session(c *gin.Context) (*builder.Orchestrator, uint, bool) {
	ev, userID, ok := h.memberEvent(c, "eventId")
	if !ok {
		return nil, 0, false
	}
	o, err := h.sessions.Get(c.Request.Context(), userID, builderEvent(ev))
	if err != nil {
		h.respondError(c, err)
		return nil, 0, false
	}
	return o, userID, true
}

func fieldIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		jsonError(c, http.StatusBadRequest, "invalid field index")
		return 0, false
	}
	return i, true
}

func (h *Handler) reply(c *gin.Context, snap builder.Snapshot, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) BuilderState(c *gin.Context) {
	o, _, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, o.Snapshot())
}

func (h *Handler) BuilderCreate(c *gin.Context) {
	o, userID, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := o.Create(userID)
	h.reply(c, snap, err)
}

func (h *Handler) BuilderEdit(c *gin.Context) {
	o, userID, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := o.Edit(userID)
	h.reply(c, snap, err)
}

func (h *Handler) BuilderAddField(c *gin.Context) {
	o, _, ok := h.session(c)
	if !ok {
		return
	}
	var req AddFieldRequest
	if !bindJSON(c, &req) {
		return
	}
	snap, err := o.AddField(formfield.Field{
		Name:     req.Name,
		Type:     req.Type,
		Required: req.Required,
		Options:  req.Options,
	})
	h.reply(c, snap, err)
}

func (h *Handler) BuilderUpdateField(c *gin.Context) {
	o, _, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := fieldIndex(c)
	if !ok {
		return
	}
	var req UpdateFieldRequest
	if !bindJSON(c, &req) {
		return
	}
	snap, err := o.UpdateField(index, req.Name, req.Type, req.Required, req.Options)
	h.reply(c, snap, err)
}

func (h *Handler) BuilderRemoveField(c *gin.Context) {
	o, _, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := fieldIndex(c)
	if !ok {
		return
	}
	snap, err := o.RemoveField(index)
	h.reply(c, snap, err)
}

func (h *Handler) BuilderReorder(c *gin.Context) {
	o, _, ok := h.session(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	snap, err := o.ReorderField(*req.From, *req.To)
	h.reply(c, snap, err)
}

func (h *Handler) BuilderSave(c *gin.Context) {
	o, userID, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := o.Save(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	// Other open sessions still hold the previous fields.
	h.sessions.CloseEvent(snap.EventID)
	h.log.Info("form saved", "event_id", snap.EventID, "user_id", userID, "fields", len(snap.Fields))
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) BuilderDelete(c *gin.Context) {
	o, userID, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := o.Delete(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.CloseEvent(snap.EventID)
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) BuilderSaveTemplate(c *gin.Context) {
	if _, _, ok := h.ownedEvent(c, "eventId"); !ok {
		return
	}
	o, _, ok := h.session(c)
	if !ok {
		return
	}
	// The name is optional and defaults to the event title.
	var req BuilderTemplateRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	tpl, err := o.SaveTemplate(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) BuilderApplyTemplate(c *gin.Context) {
	o, userID, ok := h.session(c)
	if !ok {
		return
	}
	templateID, ok := parseID(c, "templateId")
	if !ok {
		return
	}
	snap, err := o.ApplyTemplate(c.Request.Context(), userID, templateID)
	h.reply(c, snap, err)
}

// BuilderClose discards unsaved edits.
func (h *Handler) BuilderClose(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	h.sessions.Close(userID, eventID)
	c.Status(http.StatusNoContent)
}
