package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"eventforms/internal/builder"
	"eventforms/internal/formfield"
	"eventforms/internal/models"
	"eventforms/internal/repository"
	"eventforms/internal/validation"
)

type FormRequest struct {
	Fields []formfield.Field `json:"fields" binding:"required,min=1,dive"`
}

type SaveTemplateRequest struct {
	EventID uint   `json:"event_id" binding:"required"`
	Name    string `json:"name" binding:"max=120"`
}

type ParticipantsQuery struct {
	Limit  int `form:"limit" json:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" json:"offset" binding:"omitempty,min=0"`
}

type AddParticipantRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// GetFormByEvent is public: the participant page and the SPA both read it.
func (h *Handler) GetFormByEvent(c *gin.Context) {
	ev, ok := h.loadEvent(c, "id")
	if !ok {
		return
	}
	form, err := h.repo.GetForm(c.Request.Context(), ev.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "this event has no form")
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event_id": ev.ID,
		"title":    ev.Title,
		"status":   ev.Status,
		"fields":   form.Fields.Data(),
	})
}

// CreateForm stores a complete field list in one request.
func (h *Handler) CreateForm(c *gin.Context) {
	h.writeForm(c, func(ctx context.Context, eventID uint, fields []formfield.Field) error {
		if _, found, err := h.repo.FindFormFields(ctx, eventID); err != nil {
			return err
		} else if found {
			return builder.ErrFormExists
		}
		return h.repo.CreateForm(ctx, eventID, fields)
	}, http.StatusCreated)
}

func (h *Handler) UpdateForm(c *gin.Context) {
	h.writeForm(c, h.repo.UpdateForm, http.StatusOK)
}

func (h *Handler) writeForm(c *gin.Context, store func(context.Context, uint, []formfield.Field) error, status int) {
	ev, _, ok := h.ownedEvent(c, "id")
	if !ok {
		return
	}
	var req FormRequest
	if !bindJSON(c, &req) {
		return
	}
	list, err := formfield.CheckForm(req.Fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	fields := list.Fields()
	if err := store(c.Request.Context(), ev.ID, fields); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.CloseEvent(ev.ID)
	c.JSON(status, gin.H{"event_id": ev.ID, "fields": fields})
}

func (h *Handler) DeleteForm(c *gin.Context) {
	ev, _, ok := h.ownedEvent(c, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteForm(c.Request.Context(), ev.ID); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessions.CloseEvent(ev.ID)
	c.JSON(http.StatusOK, gin.H{"message": "form deleted"})
}

// -----------------------------
// Templates
// -----------------------------

func (h *Handler) MyTemplates(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	tpls, err := h.repo.ListTemplatesByOwner(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tpls == nil {
		tpls = []builder.Template{}
	}
	c.JSON(http.StatusOK, tpls)
}

// SaveTemplate saves the event's persisted form as a template.
func (h *Handler) SaveTemplate(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	var req SaveTemplateRequest
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
	fields, found, err := h.repo.FindFormFields(ctx, ev.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, builder.ErrNoForm)
		return
	}
	tpl, err := builder.SaveTemplate(ctx, h.repo, builderEvent(ev), req.Name, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tpl, err := h.repo.GetTemplate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tpl.OwnerID != userID {
		h.respondError(c, builder.ErrTemplateNotOwned)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// -----------------------------
// Participants
// -----------------------------

// registerParticipant checks answers against the event's form and stores
// them. fields is returned even when the answers are rejected so the page
// can be rendered again.
func (h *Handler) registerParticipant(ctx context.Context, ev models.Event, answers map[string]string) ([]formfield.Field, models.Participant, error) {
	if ev.Status == models.StatusFinished {
		return nil, models.Participant{}, errRegistrationClosed
	}
	fields, found, err := h.repo.FindFormFields(ctx, ev.ID)
	if err != nil {
		return nil, models.Participant{}, err
	}
	if !found {
		return nil, models.Participant{}, builder.ErrNoForm
	}
	record, err := formfield.CheckAnswers(fields, answers)
	if err != nil {
		return fields, models.Participant{}, err
	}
	p, err := h.repo.AddParticipant(ctx, ev.ID, record)
	if err != nil {
		return fields, p, err
	}
	h.log.Info("participant registered", "event_id", ev.ID, "participant_id", p.ID)
	return fields, p, nil
}

// AddParticipant is public.
func (h *Handler) AddParticipant(c *gin.Context) {
	ev, ok := h.loadEvent(c, "id")
	if !ok {
		return
	}
	var req AddParticipantRequest
	if !bindJSON(c, &req) {
		return
	}
	_, p, err := h.registerParticipant(c.Request.Context(), ev, req.Answers)
	if err != nil {
		if errors.Is(err, builder.ErrNoForm) {
			jsonError(c, http.StatusNotFound, "this event has no form")
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListParticipants(c *gin.Context) {
	ev, _, ok := h.memberEvent(c, "id")
	if !ok {
		return
	}
	var q ParticipantsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "fields": validation.Messages(err)})
		return
	}

	ctx := c.Request.Context()
	total, err := h.repo.CountParticipants(ctx, ev.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	participants, err := h.repo.ListParticipants(ctx, ev.ID, q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	c.JSON(http.StatusOK, gin.H{"event_id": ev.ID, "count": total, "participants": participants})
}

// QRCode serves a PNG pointing at the participant page.
func (h *Handler) QRCode(c *gin.Context) {
	ev, _, ok := h.memberEvent(c, "id")
	if !ok {
		return
	}
	png, err := qrcode.Encode(h.cfg.ParticipantFormURL(ev.ID), qrcode.Medium, 256)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
