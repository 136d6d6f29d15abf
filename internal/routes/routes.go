package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventforms/config"
	"eventforms/internal/auth"
	"eventforms/internal/controllers"
	"eventforms/internal/middleware"
	"eventforms/internal/render"
	"eventforms/internal/repository"
	"eventforms/internal/validation"
)

// NewRouter wires the handlers, middleware and routes on top of db.
func NewRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *gin.Engine {
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	h := controllers.New(cfg, repository.New(db), tokens, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	SetupRoutes(r, h, tokens)
	return r
}

func SetupRoutes(r *gin.Engine, h *controllers.Handler, tokens *auth.Tokens) {
	validation.Setup()
	r.SetHTMLTemplate(render.Templates())

	// Participant page
	r.GET("/participant-form/:eventId", h.ParticipantForm)
	r.POST("/participant-form/:eventId", h.SubmitParticipantForm)

	// Public Routes
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/auth/confirm-email", h.ConfirmEmail)
		public.POST("/auth/confirm-email", h.ConfirmEmail)

		public.GET("/events/:id", h.GetEvent)
		public.GET("/forms/get-by-event/:id", h.GetFormByEvent)
		public.POST("/forms/add-participant/:id", h.AddParticipant)
	}

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthMiddleware(tokens))
	{
		// AUTH
		authorized.GET("/auth/me", h.Me)
		authorized.PUT("/auth/change-name", h.ChangeName)
		authorized.PUT("/auth/change-password", h.ChangePassword)

		// EVENTS
		authorized.GET("/events/my-events", h.MyEvents)
		authorized.POST("/events/create", h.CreateEvent)
		authorized.PUT("/events/update/:id", h.UpdateEvent)
		authorized.DELETE("/events/delete/:id", h.DeleteEvent)
		authorized.PATCH("/events/:id/status", h.UpdateStatus)

		// FORMS
		authorized.POST("/forms/create/:id", h.CreateForm)
		authorized.PUT("/forms/update-form/:id", h.UpdateForm)
		authorized.DELETE("/forms/delete/:id", h.DeleteForm)
		authorized.GET("/forms/my-templates", h.MyTemplates)
		authorized.POST("/forms/templates", h.SaveTemplate)
		authorized.GET("/forms/templates/:id", h.GetTemplate)
		authorized.GET("/forms/participants/:id", h.ListParticipants)
		authorized.GET("/forms/qrcode/:id", h.QRCode)

		// STAFF
		authorized.GET("/staff/find", h.FindStaff)
		authorized.POST("/staff/assign-staff", h.AssignStaff)
		authorized.POST("/staff/remove", h.RemoveStaff)
		authorized.POST("/staff/leave", h.LeaveEvent)
		authorized.PUT("/staff/toggle-can-be-staff/:id", h.ToggleCanBeStaff)
		authorized.GET("/staff/staff/:id", h.ListStaff)

		// FORM BUILDER
		b := authorized.Group("/builder/:eventId")
		b.GET("", h.BuilderState)
		b.DELETE("", h.BuilderClose)
		b.POST("/create", h.BuilderCreate)
		b.POST("/edit", h.BuilderEdit)
		b.POST("/fields", h.BuilderAddField)
		b.PUT("/fields/:index", h.BuilderUpdateField)
		b.DELETE("/fields/:index", h.BuilderRemoveField)
		b.POST("/reorder", h.BuilderReorder)
		b.POST("/save", h.BuilderSave)
		b.DELETE("/form", h.BuilderDelete)
		b.POST("/templates", h.BuilderSaveTemplate)
		b.POST("/templates/:templateId/apply", h.BuilderApplyTemplate)
	}

	r.NoRoute(controllers.NotFound)
}
