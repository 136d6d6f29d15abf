package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventforms/config"
	"eventforms/internal/auth"
	"eventforms/internal/builder"
	"eventforms/internal/formfield"
	"eventforms/internal/middleware"
	"eventforms/internal/models"
	"eventforms/internal/repository"
	"eventforms/internal/validation"
)

var (
	errRegistrationClosed = errors.New("registration for this event is closed")
	errNotEventOwner      = errors.New("only the event owner can do this")
	errNotEventMember     = errors.New("only the event owner or staff can do this")
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	cfg      *config.Config
	repo     *repository.Repository
	tokens   *auth.Tokens
	sessions *builder.Sessions
	log      *slog.Logger
}

func New(cfg *config.Config, repo *repository.Repository, tokens *auth.Tokens, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		repo:     repo,
		tokens:   tokens,
		sessions: builder.NewSessions(repo, repo, cfg.BuilderIdleTimeout),
		log:      logger,
	}
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// respondError maps domain errors to a status code and writes them.
func (h *Handler) respondError(c *gin.Context, err error) {
	var answerErr *formfield.AnswerError
	switch {
	case errors.As(err, &answerErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "please correct the highlighted fields", "fields": answerErr.Fields})
	case errors.Is(err, repository.ErrNotFound):
		jsonError(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrDuplicate):
		jsonError(c, http.StatusConflict, "already exists")
	case errors.Is(err, formfield.ErrEmptyName),
		errors.Is(err, formfield.ErrInvalidType),
		errors.Is(err, formfield.ErrDuplicateField),
		errors.Is(err, formfield.ErrProtectedField),
		errors.Is(err, formfield.ErrIndexOutOfRange),
		errors.Is(err, formfield.ErrEmailFirst),
		errors.Is(err, formfield.ErrInvalidOption),
		errors.Is(err, builder.ErrEmptyForm),
		errors.Is(err, builder.ErrTemplateTooSmall):
		jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, builder.ErrNotOwner),
		errors.Is(err, builder.ErrTemplateNotOwned),
		errors.Is(err, errNotEventOwner),
		errors.Is(err, errNotEventMember):
		jsonError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, builder.ErrNotEditing),
		errors.Is(err, builder.ErrNotPreviewing),
		errors.Is(err, builder.ErrFormExists),
		errors.Is(err, builder.ErrNoForm),
		errors.Is(err, models.ErrStatusTransition),
		errors.Is(err, errRegistrationClosed):
		jsonError(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		jsonError(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindJSON binds the request body and answers 400 with per-field messages
// when it does not validate.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if fields := validation.Messages(err); fields != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
			return false
		}
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

// getUserIDFromContext expects AuthMiddleware to have run.
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func parseUintParam(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, ok := parseUintParam(c.Param(param))
	if !ok {
		jsonError(c, http.StatusBadRequest, "invalid "+param)
	}
	return id, ok
}

// loadEvent fetches the event named by the :id style param.
func (h *Handler) loadEvent(c *gin.Context, param string) (models.Event, bool) {
	eventID, ok := parseID(c, param)
	if !ok {
		return models.Event{}, false
	}
	ev, err := h.repo.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "event not found")
			return ev, false
		}
		h.respondError(c, err)
		return ev, false
	}
	return ev, true
}

// ownedEvent loads the event and checks the caller created it.
func (h *Handler) ownedEvent(c *gin.Context, param string) (models.Event, uint, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return models.Event{}, 0, false
	}
	ev, ok := h.loadEvent(c, param)
	if !ok {
		return ev, 0, false
	}
	if ev.CreatedBy != userID {
		h.respondError(c, errNotEventOwner)
		return ev, 0, false
	}
	return ev, userID, true
}

// memberEvent loads the event and checks the caller owns or staffs it.
func (h *Handler) memberEvent(c *gin.Context, param string) (models.Event, uint, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return models.Event{}, 0, false
	}
	ev, ok := h.loadEvent(c, param)
	if !ok {
		return ev, 0, false
	}
	if ev.CreatedBy == userID {
		return ev, userID, true
	}
	staff, err := h.repo.IsStaff(c.Request.Context(), ev.ID, userID)
	if err != nil {
		h.respondError(c, err)
		return ev, 0, false
	}
	if !staff {
		h.respondError(c, errNotEventMember)
		return ev, 0, false
	}
	return ev, userID, true
}

func builderEvent(ev models.Event) builder.Event {
	return builder.Event{ID: ev.ID, Title: ev.Title, OwnerID: ev.CreatedBy}
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	jsonError(c, http.StatusNotFound, "not found")
}
