package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/vibra-events/vibra-backend/config"
	"github.com/vibra-events/vibra-backend/internal/auditlog"
	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/event"
	"github.com/vibra-events/vibra-backend/internal/notification"
	"github.com/vibra-events/vibra-backend/internal/registration"
	"github.com/vibra-events/vibra-backend/internal/reports"
	"github.com/vibra-events/vibra-backend/internal/userprofile"
	"github.com/vibra-events/vibra-backend/middleware"
	"gorm.io/gorm"

	_ "github.com/vibra-events/vibra-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the long-lived collaborators built in main.
type Deps struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	Notifications notification.Service
	Dispatcher    notification.Dispatcher
}

func Setup(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ========== Platform ==========
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Vibra Event Management API is running!"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ========== Services ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(d.DB))

	authSvc := auth.NewService(auth.NewRepository(d.DB), d.Dispatcher, cfg)
	authHandler := auth.NewHandler(authSvc)

	eventSvc := event.NewService(event.NewRepository(d.DB), auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	registrationSvc := registration.NewService(registration.NewRepository(d.DB), d.Dispatcher, auditSvc)
	registrationHandler := registration.NewHandler(registrationSvc)

	profileSvc := userprofile.NewService(userprofile.NewRepository(d.DB), auditSvc)
	profileHandler := userprofile.NewHandler(profileSvc)

	reportsSvc := reports.NewReportService(reports.NewReportRepository(d.DB), reports.NewReportExporter(), auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	notificationHandler := notification.NewHandler(d.Notifications)
	auditHandler := auditlog.NewHandler(auditSvc)

	requireAuth := middleware.AuthMiddleware(authSvc)
	adminOnly := middleware.RBACMiddleware(auth.RoleAdmin)

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, d.Redis))
	api.Use(middleware.AuditMiddleware())

	// ========== Auth ==========
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", requireAuth, authHandler.Me)
	}

	// ========== Events ==========
	events := api.Group("/events")
	{
		events.GET("", middleware.OptionalAuth(authSvc), eventHandler.ListEvents)
		events.GET("/:id", middleware.OptionalAuth(authSvc), eventHandler.GetEvent)

		events.POST("/:id/register", requireAuth, registrationHandler.Register)
		events.DELETE("/:id/unregister", requireAuth, registrationHandler.Unregister)
		events.DELETE("/:id/register", requireAuth, registrationHandler.Unregister)

		admin := events.Group("", requireAuth, adminOnly)
		admin.POST("", eventHandler.CreateEvent)
		admin.PUT("/:id", eventHandler.UpdateEvent)
		admin.DELETE("/:id", registrationHandler.DeleteEvent)
		admin.GET("/admin/stats", eventHandler.GetAdminStats)
		admin.GET("/admin/registrations", profileHandler.GetRegistrations)
		admin.POST("/admin/select-student", registrationHandler.SelectStudent)
		admin.GET("/admin/reports/:type", reportsHandler.Export)
	}

	// ========== Users ==========
	users := api.Group("/users", requireAuth)
	{
		users.GET("/profile", profileHandler.GetProfile)
		users.PUT("/profile", profileHandler.UpdateProfile)
		users.GET("/registered-events", profileHandler.GetRegisteredEvents)
		users.GET("/dashboard-stats", profileHandler.GetDashboardStats)

		users.GET("/notifications", notificationHandler.List)
		users.GET("/notifications/stream", notificationHandler.Stream)
		users.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)

		users.GET("", adminOnly, profileHandler.ListUsers)
		users.PUT("/:id/role", adminOnly, profileHandler.UpdateRole)
		users.PUT("/:id", adminOnly, profileHandler.UpdateUser)
		users.DELETE("/:id/registrations", adminOnly, registrationHandler.ClearUserRegistrations)
	}

	// ========== Admin ==========
	adminRoutes := api.Group("/admin", requireAuth, adminOnly)
	{
		adminRoutes.GET("/audit-logs", auditHandler.GetAuditLogs)
		adminRoutes.GET("/audit-logs/:id", auditHandler.GetAuditLogByID)
	}
}
