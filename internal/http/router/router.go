package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/levkonnect-backend/internal/config"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers"
	"github.com/ignatzorin/levkonnect-backend/internal/http/middleware"
	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
	"github.com/ignatzorin/levkonnect-backend/internal/ws"
)

// Deps — все зависимости HTTP-слоя.
type Deps struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Tokens        *service.TokenManager
	Auth          *service.AuthService
	Users         *service.UserService
	Jobs          *service.JobService
	Projects      *service.ProjectService
	Reviews       *service.ReviewService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService
	Contacts      *service.ContactService
	Hub           *ws.Hub
}

// New собирает gin-роутер со всеми маршрутами приложения.
func New(d Deps) *gin.Engine {
	if d.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(d.Cfg.AllowedOrigins))
	r.Use(middleware.ErrorHandler())

	authHandler := handlers.NewAuthHandler(d.Auth)
	userHandler := handlers.NewUserHandler(d.Users)
	jobHandler := handlers.NewJobHandler(d.Jobs)
	projectHandler := handlers.NewProjectHandler(d.Projects)
	reviewHandler := handlers.NewReviewHandler(d.Reviews)
	notificationHandler := handlers.NewNotificationHandler(d.Notifications)
	dashboardHandler := handlers.NewDashboardHandler(d.Dashboard)
	contactHandler := handlers.NewContactHandler(d.Contacts)
	healthHandler := handlers.NewHealthHandler(d.DB)
	wsHandler := handlers.NewWSHandler(d.Hub, d.Tokens)

	r.GET("/health", healthHandler.Check)

	api := r.Group("/api")

	api.GET("/ws", wsHandler.Connect)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(d.Cfg.RateLimit))
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/resend-verification", authHandler.ResendVerification)
		authGroup.POST("/request-password-reset", authHandler.RequestPasswordReset)
		authGroup.GET("/verify-reset-token", authHandler.VerifyResetToken)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		adminUsers := authGroup.Group("/users")
		adminUsers.Use(middleware.AuthMiddleware(d.Tokens), middleware.RequireRole(models.RoleAdmin))
		{
			adminUsers.GET("", authHandler.ListUsers)
			adminUsers.PUT("/:id/status", middleware.UUIDValidator("id"), authHandler.UpdateUserStatus)
		}
	}

	users := api.Group("/users")
	{
		me := users.Group("/me")
		me.Use(middleware.AuthMiddleware(d.Tokens))
		{
			me.GET("", userHandler.GetMe)
			me.PUT("", userHandler.UpdateMe)
			me.PUT("/password", userHandler.ChangePassword)
		}
		users.GET("/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListForUser)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", jobHandler.List)
		jobs.GET("/:id", middleware.OptionalAuth(d.Tokens), middleware.UUIDValidator("id"), jobHandler.Get)

		jobs.POST("", middleware.AuthMiddleware(d.Tokens),
			middleware.RequireRole(models.RoleClient), jobHandler.Create)
		jobs.PUT("/:id", middleware.AuthMiddleware(d.Tokens),
			middleware.UUIDValidator("id"), jobHandler.Update)
		jobs.DELETE("/:id", middleware.AuthMiddleware(d.Tokens),
			middleware.UUIDValidator("id"), jobHandler.Delete)

		jobs.GET("/client/jobs", middleware.AuthMiddleware(d.Tokens),
			middleware.RequireRole(models.RoleClient), jobHandler.ClientJobs)
		jobs.GET("/engineer/recommended", middleware.AuthMiddleware(d.Tokens),
			middleware.RequireRole(models.RoleEngineer), jobHandler.Recommended)

		jobs.POST("/:id/bids/:bidId/accept", middleware.AuthMiddleware(d.Tokens),
			middleware.RequireRole(models.RoleClient),
			middleware.UUIDValidator("id", "bidId"), jobHandler.AcceptBid)
	}

	bids := api.Group("/bids")
	bids.Use(middleware.AuthMiddleware(d.Tokens))
	{
		bids.POST("", middleware.RequireRole(models.RoleEngineer), jobHandler.CreateBid)
		bids.GET("/my-bids", middleware.RequireRole(models.RoleEngineer), jobHandler.MyBids)
	}

	projects := api.Group("/projects")
	projects.Use(middleware.AuthMiddleware(d.Tokens))
	{
		projects.GET("", projectHandler.List)
		projects.GET("/:id", middleware.UUIDValidator("id"), projectHandler.Get)
		projects.PATCH("/:id/status", middleware.UUIDValidator("id"), projectHandler.UpdateStatus)
		projects.POST("/:id/milestones", middleware.UUIDValidator("id"), projectHandler.CreateMilestone)
		projects.PATCH("/:id/milestones/:milestone_id/status",
			middleware.UUIDValidator("id", "milestone_id"), projectHandler.UpdateMilestoneStatus)
		projects.POST("/:id/messages", middleware.UUIDValidator("id"), projectHandler.SendMessage)
		projects.POST("/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.Create)
	}

	notifications := api.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(d.Tokens))
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.GET("/unread/count", notificationHandler.UnreadCount)
	}

	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(d.Tokens))
	{
		dashboard.GET("/metrics", middleware.RequireRole(models.RoleClient, models.RoleAdmin),
			dashboardHandler.ClientMetrics)
		dashboard.GET("/engineer-metrics", middleware.RequireRole(models.RoleEngineer),
			dashboardHandler.EngineerMetrics)
	}

	contact := api.Group("/contact")
	{
		contact.POST("", middleware.RateLimitMiddleware(d.Cfg.RateLimit), contactHandler.Submit)
		contact.GET("", middleware.AuthMiddleware(d.Tokens),
			middleware.RequireRole(models.RoleAdmin), contactHandler.List)
	}

	return r
}
