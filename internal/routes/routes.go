package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/config"
	"github.com/BruksfildServices01/psi-scheduler/internal/domain/account"
	domain "github.com/BruksfildServices01/psi-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/psi-scheduler/internal/handlers"
	"github.com/BruksfildServices01/psi-scheduler/internal/middleware"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
	"github.com/BruksfildServices01/psi-scheduler/internal/realtime"
	"github.com/BruksfildServices01/psi-scheduler/internal/storage"
	ucAppointment "github.com/BruksfildServices01/psi-scheduler/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/psi-scheduler/internal/usecase/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/validators"
)

// AccountStore is the account port plus avatar bookkeeping.
type AccountStore interface {
	account.Repository
	handlers.AvatarRepository
}

// Notifier is everything the routes fan out to the notification service.
type Notifier interface {
	ucAppointment.Notifier
	ucAuth.ResetMailer
	handlers.RequestNotifier
	handlers.NotificationCreator
	handlers.RiskNotifier
}

// Deps are built once in cmd/api and shared by every handler.
type Deps struct {
	Config *config.Config
	Log    zerolog.Logger
	DB     *gorm.DB

	Tokens       *auth.TokenIssuer
	Accounts     AccountStore
	Appointments domain.Repository
	Notify       Notifier
	Audit        *audit.Dispatcher
	Storage      storage.Store
	Hub          *realtime.Hub
	Assistant    handlers.Replier

	// UploadDir is served at /uploads when files are kept on local disk.
	UploadDir string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	refreshTTL := cfg.RefreshTokenTTL()

	var checkDomain func(string) bool
	if cfg.ValidateEmailDomain {
		checkDomain = validators.MailDomainChecker(nil, 0)
	}

	authHandler := handlers.NewAuthHandler(
		ucAuth.NewLogin(d.Accounts, d.Tokens, refreshTTL, d.Audit),
		ucAuth.NewRegister(d.Accounts, d.Tokens, refreshTTL, d.Audit, checkDomain),
		ucAuth.NewRefresh(d.Accounts, d.Tokens, refreshTTL),
		ucAuth.NewLogout(d.Accounts),
		ucAuth.NewForgotPassword(d.Accounts, d.Tokens, d.Notify, cfg.FrontendURL),
		ucAuth.NewResetPassword(d.Accounts, d.Tokens),
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewListAppointments(d.Appointments),
		ucAppointment.NewGetAppointment(d.Appointments),
		ucAppointment.NewCreateAppointment(d.Appointments, d.Notify, d.Audit),
		ucAppointment.NewUpdateAppointment(d.Appointments, d.Notify, d.Audit),
		ucAppointment.NewCancelAppointment(d.Appointments, d.Notify, d.Audit),
		ucAppointment.NewCompleteAppointment(d.Appointments, d.Notify, d.Audit),
		ucAppointment.NewAvailableSlots(d.Appointments),
		ucAppointment.NewSendReminder(d.Appointments, d.Notify, d.Audit),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	meHandler := handlers.NewMeHandler(d.DB)
	patientHandler := handlers.NewPatientHandler(d.DB, cfg.Timezone)
	psychologistHandler := handlers.NewPsychologistHandler(d.DB)
	requestHandler := handlers.NewRequestHandler(d.DB, d.Notify, d.Audit, checkDomain)
	scheduleHandler := handlers.NewScheduleHandler(d.DB)
	notificationHandler := handlers.NewNotificationHandler(d.DB, d.Notify)
	chatHandler := handlers.NewChatHandler(d.DB, d.Assistant, d.Notify)
	dashboardHandler := handlers.NewDashboardHandler(d.DB, cfg.Timezone)
	analyticsHandler := handlers.NewAnalyticsHandler(d.DB, cfg.Timezone)
	searchHandler := handlers.NewSearchHandler(d.DB)
	exportHandler := handlers.NewExportHandler(d.DB, cfg.Timezone)
	uploadHandler := handlers.NewUploadHandler(d.Storage, d.Accounts, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	requireAuth := middleware.AuthMiddleware(d.Tokens, d.Accounts)
	psychologist := middleware.RequireRole(models.RolePsychologist)

	// ======================================================
	// UNVERSIONED
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Hub != nil {
		r.GET("/ws/:token", realtime.NewHandler(d.Hub, d.Tokens).Connect)
	}

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	// ======================================================
	// API v1
	// ======================================================
	api := r.Group("/api/v1")

	// ------------------------------
	// AUTH
	// ------------------------------
	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)

	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("", middleware.RateLimit(authLimiter))
		limited.POST("/login", authHandler.Login)
		limited.POST("/register", authHandler.Register)
		limited.POST("/refresh", authHandler.Refresh)
		limited.POST("/logout", authHandler.Logout)
		limited.POST("/forgot-password", authHandler.ForgotPassword)
		limited.POST("/reset-password", authHandler.ResetPassword)

		authGroup.GET("/me", requireAuth, authHandler.Me)
	}

	// ------------------------------
	// PUBLIC
	// ------------------------------
	api.GET("/psychologists", psychologistHandler.List)
	api.GET("/psychologists/:id", psychologistHandler.Get)
	api.POST("/requests", requestHandler.Create)

	// ------------------------------
	// AUTHENTICATED
	// ------------------------------
	secured := api.Group("", requireAuth)
	{
		secured.GET("/users/me", meHandler.GetMe)
		secured.PUT("/users/me", meHandler.UpdateMe)
		secured.PUT("/psychologists/me", psychologist, meHandler.UpdateMe)

		patients := secured.Group("/patients")
		patients.GET("", patientHandler.List)
		patients.GET("/:id", patientHandler.Get)
		patients.POST("", psychologist, patientHandler.Create)
		patients.PUT("/:id", psychologist, patientHandler.Update)
		patients.DELETE("/:id", psychologist, patientHandler.Delete)

		appointments := secured.Group("/appointments")
		appointments.GET("", appointmentHandler.List)
		appointments.GET("/available-slots", appointmentHandler.AvailableSlots)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.POST("", appointmentHandler.Create)
		appointments.PUT("/:id", appointmentHandler.Update)
		appointments.DELETE("/:id", appointmentHandler.Cancel)
		appointments.POST("/:id/complete", psychologist, appointmentHandler.Complete)
		appointments.POST("/:id/remind", psychologist, appointmentHandler.Remind)

		requests := secured.Group("/requests", psychologist)
		requests.GET("", requestHandler.List)
		requests.PUT("/:id/accept", requestHandler.Accept)
		requests.PUT("/:id/reject", requestHandler.Reject)

		schedule := secured.Group("/schedule")
		schedule.GET("", scheduleHandler.List)
		schedule.POST("", psychologist, scheduleHandler.Create)
		schedule.PUT("/:id", psychologist, scheduleHandler.Update)
		schedule.DELETE("/:id", psychologist, scheduleHandler.Delete)
		schedule.POST("/:id/exceptions", psychologist, scheduleHandler.AddException)

		notifications := secured.Group("/notifications")
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
		notifications.POST("/send", psychologist, notificationHandler.Send)

		chat := secured.Group("/chat")
		chat.POST("/message", chatHandler.Message)
		chat.GET("/history", chatHandler.History)
		chat.DELETE("/history", chatHandler.Clear)

		secured.GET("/dashboard/stats", dashboardHandler.Stats)

		stats := secured.Group("/analytics", psychologist)
		stats.GET("/overview", analyticsHandler.Overview)
		stats.GET("/trends", analyticsHandler.Trends)
		stats.POST("/reports", analyticsHandler.CreateReport)
		stats.GET("/reports", analyticsHandler.ListReports)

		secured.GET("/search", psychologist, searchHandler.Search)

		exports := secured.Group("/export", psychologist)
		exports.GET("/patients", exportHandler.Patients)
		exports.GET("/appointments", exportHandler.Appointments)

		upload := secured.Group("/upload")
		upload.POST("/avatar", uploadHandler.Avatar)
		upload.POST("/attachment", psychologist, uploadHandler.Attachment)
		upload.POST("/bulk", psychologist, uploadHandler.Bulk)
		upload.DELETE("", uploadHandler.Delete)

		secured.GET("/audit-logs", auditLogsHandler.List)
	}
}
