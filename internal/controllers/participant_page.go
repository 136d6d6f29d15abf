package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventforms/internal/builder"
	"eventforms/internal/formfield"
	"eventforms/internal/models"
	"eventforms/internal/render"
	"eventforms/internal/repository"
)

type messageView struct {
	Title   string
	Message string
}

func pageMessage(c *gin.Context, code int, title, msg string) {
	c.HTML(code, render.PageMessage, messageView{Title: title, Message: msg})
}

// pageEvent loads the event for the participant page, answering with an
// HTML message when it cannot.
func (h *Handler) pageEvent(c *gin.Context) (models.Event, []formfield.Field, bool) {
	eventID, ok := parseUintParam(c.Param("eventId"))
	if !ok {
		pageMessage(c, http.StatusNotFound, "Not found", "This registration page does not exist.")
		return models.Event{}, nil, false
	}
	ctx := c.Request.Context()
	ev, err := h.repo.GetEvent(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		pageMessage(c, http.StatusNotFound, "Not found", "This registration page does not exist.")
		return ev, nil, false
	}
	if err != nil {
		h.pageFailure(c, err)
		return ev, nil, false
	}
	fields, found, err := h.repo.FindFormFields(ctx, ev.ID)
	if err != nil {
		h.pageFailure(c, err)
		return ev, nil, false
	}
	if !found {
		pageMessage(c, http.StatusNotFound, ev.Title, "Registration is not open yet.")
		return ev, nil, false
	}
	if ev.Status == models.StatusFinished {
		pageMessage(c, http.StatusConflict, ev.Title, "Registration for this event is closed.")
		return ev, nil, false
	}
	return ev, fields, true
}

func (h *Handler) pageFailure(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.Error("participant page failed", "path", c.Request.URL.Path, "error", err)
	pageMessage(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
}

// ParticipantForm renders one input per saved field.
func (h *Handler) ParticipantForm(c *gin.Context) {
	ev, fields, ok := h.pageEvent(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, render.PageForm, render.FormView{
		EventID:    ev.ID,
		EventTitle: ev.Title,
		Action:     c.Request.URL.Path,
		Inputs:     render.Inputs(fields, nil, nil),
	})
}

// SubmitParticipantForm validates the posted answers again on the server.
// Rejected answers re-render the page with the submitted values.
func (h *Handler) SubmitParticipantForm(c *gin.Context) {
	ev, fields, ok := h.pageEvent(c)
	if !ok {
		return
	}

	values := render.Values(fields, c.PostForm)
	_, _, err := h.registerParticipant(c.Request.Context(), ev, values)
	var answerErr *formfield.AnswerError
	switch {
	case err == nil:
		c.HTML(http.StatusCreated, render.PageSuccess, render.FormView{EventID: ev.ID, EventTitle: ev.Title})
	case errors.As(err, &answerErr):
		c.HTML(http.StatusBadRequest, render.PageForm, render.FormView{
			EventID:    ev.ID,
			EventTitle: ev.Title,
			Action:     c.Request.URL.Path,
			Inputs:     render.Inputs(fields, values, answerErr.Fields),
			Error:      "Please correct the highlighted fields.",
		})
	case errors.Is(err, errRegistrationClosed):
		pageMessage(c, http.StatusConflict, ev.Title, "Registration for this event is closed.")
	case errors.Is(err, builder.ErrNoForm):
		pageMessage(c, http.StatusNotFound, ev.Title, "Registration is not open yet.")
	default:
		h.pageFailure(c, fmt.Errorf("register participant: %w", err))
	}
}
