package router

import (
	"github.com/M-owl-8/ACT/internal/backup"
	"github.com/M-owl-8/ACT/internal/config"
	"github.com/M-owl-8/ACT/internal/handler"
	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/motivation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New assembles the gin engine with every route group mounted.
func New(cfg *config.Config, db *gorm.DB, engine *motivation.Engine, backupSvc *backup.Service) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger())

	authHandler := handler.NewAuthHandler(db, cfg.JWT)
	userHandler := handler.NewUserHandler(db)
	categoryHandler := handler.NewCategoryHandler(db)
	entryHandler := handler.NewEntryHandler(db, engine)
	dashboardHandler := handler.NewDashboardHandler(db)
	reportHandler := handler.NewReportHandler(db)
	motivationHandler := handler.NewMotivationHandler(db)
	bookHandler := handler.NewBookHandler(db)
	reminderHandler := handler.NewReminderHandler(db, engine)
	pushHandler := handler.NewPushHandler(db)
	backupHandler := handler.NewBackupHandler(backupSvc)
	healthHandler := handler.NewHealthHandler(db)

	r.GET("/health", healthHandler.Ping)
	r.GET("/health/db", healthHandler.PingDB)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/verify-recovery-keyword", authHandler.VerifyRecoveryKeyword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	authed := r.Group("/", middleware.AuthMiddleware(cfg.JWT.Secret, db))

	users := authed.Group("users")
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)
		users.GET("/me/devices", userHandler.Devices)
		users.GET("", middleware.RequireAdmin(), userHandler.List)
	}

	categories := authed.Group("categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", categoryHandler.Create)
		categories.GET("/:id", categoryHandler.Get)
		categories.PATCH("/:id", categoryHandler.Update)
		categories.DELETE("/:id", categoryHandler.Delete)
	}

	entries := authed.Group("entries")
	{
		entries.GET("", entryHandler.List)
		entries.POST("", entryHandler.Create)
		entries.GET("/stats/count", entryHandler.Count)
		entries.GET("/stats/totals", entryHandler.Totals)
		entries.GET("/stats/by-expense-type", entryHandler.ByExpenseType)
		entries.GET("/:id", entryHandler.Get)
		entries.PATCH("/:id", entryHandler.Update)
		entries.DELETE("/:id", entryHandler.Delete)
	}

	dashboard := authed.Group("dashboard")
	{
		dashboard.GET("", dashboardHandler.Overview)
		dashboard.GET("/stats/:days", dashboardHandler.Stats)
		dashboard.GET("/breakdown/:days", dashboardHandler.Breakdown)
	}

	reports := authed.Group("reports")
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.GET("/comparison", reportHandler.Comparison)
	}

	motivationGroup := authed.Group("motivation")
	{
		motivationGroup.GET("/streak", motivationHandler.Streak)
		motivationGroup.POST("/streak/check", motivationHandler.CheckStreak)
		motivationGroup.GET("/goals", motivationHandler.ListGoals)
		motivationGroup.POST("/goals", motivationHandler.CreateGoal)
		motivationGroup.GET("/goals/:id", motivationHandler.GetGoal)
		motivationGroup.PATCH("/goals/:id", motivationHandler.UpdateGoal)
		motivationGroup.DELETE("/goals/:id", motivationHandler.DeleteGoal)
		motivationGroup.POST("/goals/:id/add-savings", motivationHandler.AddSavings)
		motivationGroup.GET("/challenges/no-spend", motivationHandler.NoSpendStatus)
		motivationGroup.POST("/challenges/no-spend", motivationHandler.StartNoSpend)
	}

	books := authed.Group("books")
	{
		books.GET("", bookHandler.List)
		books.POST("", bookHandler.Create)
		books.GET("/stats/overview", bookHandler.StatsOverview)
		books.GET("/:id", bookHandler.Get)
		books.DELETE("/:id", bookHandler.Delete)
		books.POST("/:id/sessions", bookHandler.CreateSession)
		books.GET("/:id/sessions", bookHandler.ListSessions)
		books.POST("/:id/progress", bookHandler.SetProgress)
	}

	reminders := authed.Group("reminders")
	{
		reminders.GET("", reminderHandler.List)
		reminders.POST("", reminderHandler.Create)
		reminders.GET("/calendar/:year/:month", reminderHandler.Calendar)
		reminders.GET("/:id", reminderHandler.Get)
		reminders.PUT("/:id", reminderHandler.Update)
		reminders.DELETE("/:id", reminderHandler.Delete)
		reminders.POST("/:id/complete", reminderHandler.Complete)
		reminders.POST("/:id/create-expense", reminderHandler.CreateExpense)
	}

	pushGroup := authed.Group("push")
	{
		pushGroup.POST("/register", pushHandler.Register)
		pushGroup.GET("/tokens", pushHandler.List)
		pushGroup.DELETE("/tokens", pushHandler.DeleteAll)
		pushGroup.DELETE("/tokens/:id", pushHandler.Delete)
		pushGroup.POST("/tokens/:id/deactivate", pushHandler.Deactivate)
	}

	backupGroup := authed.Group("backup", middleware.RequireAdmin())
	{
		backupGroup.POST("", backupHandler.Create)
		backupGroup.GET("", backupHandler.List)
		backupGroup.POST("/cleanup", backupHandler.Cleanup)
		backupGroup.POST("/:id/restore", backupHandler.Restore)
	}

	return r
}
