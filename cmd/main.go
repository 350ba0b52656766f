package main

import (
	"fmt"
	"os"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/handler"
	"github.com/AshAI-Sys/ashley-ai-sub006/internal/middleware"
	"github.com/AshAI-Sys/ashley-ai-sub006/internal/model"
	"github.com/AshAI-Sys/ashley-ai-sub006/internal/store"
	"github.com/AshAI-Sys/ashley-ai-sub006/internal/tenant"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/config"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/database"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/jwtutil"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/logger"
	"github.com/AshAI-Sys/ashley-ai-sub006/prometheus"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	conf, err := config.Load("workspace")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", conf.LogConfig()...)

	// Initialize database connection
	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	// Run migrations
	err = database.MigrateModels(db,
		&model.Workspace{},
		&model.User{},
		&model.Order{},
		&model.Client{},
		&model.DefectCode{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database models")
	}

	// Initialize JWT utility
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// Compose the tenant services. Everything is constructed here and
	// injected; no package-level singletons.
	manager := tenant.NewManager(db, log)
	guard := tenant.NewGuard(manager)
	dataClient := store.NewGormClient(db)

	workspaceHandler := handler.NewWorkspaceHandler(manager)
	orderHandler := handler.NewOrderHandler(guard, dataClient)
	userHandler := handler.NewUserHandler(guard, dataClient)

	// Initialize Echo framework
	e := echo.New()

	// Apply middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Public routes
	e.GET("/health", handler.HealthCheck)

	// Workspace administration - operator surface, not tenant-scoped
	workspaces := e.Group("/workspaces")
	workspaces.POST("", workspaceHandler.Create)
	workspaces.GET("/:id/config", workspaceHandler.GetConfig)
	workspaces.PUT("/:id/config", workspaceHandler.UpdateConfig)
	workspaces.GET("/:id/limits", workspaceHandler.GetLimits)
	workspaces.GET("/:id/stats", workspaceHandler.GetStats)
	workspaces.GET("/:id/features/:name", workspaceHandler.CheckFeature)
	workspaces.POST("/:id/suspend", workspaceHandler.Suspend)
	workspaces.POST("/:id/activate", workspaceHandler.Activate)
	workspaces.DELETE("/:id", workspaceHandler.Delete)

	// Tenant-scoped routes - every request resolves and validates its
	// workspace before any handler runs
	scoped := e.Group("")
	scoped.Use(middleware.JWTAuthMiddleware(jwt))
	scoped.Use(middleware.TenantMiddleware(manager))

	scoped.POST("/orders", orderHandler.Create)
	scoped.GET("/orders", orderHandler.List)
	scoped.POST("/users", userHandler.Create)
	scoped.GET("/users", userHandler.List)
	scoped.POST("/uploads/check", userHandler.CheckUpload)

	// Start server
	log.Info("Starting workspace-service on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
