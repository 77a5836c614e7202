package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vishalbharath/Military-Assest-Management/api/swagger"
	"github.com/vishalbharath/Military-Assest-Management/internal/handler"
	"github.com/vishalbharath/Military-Assest-Management/internal/middleware"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	"github.com/vishalbharath/Military-Assest-Management/internal/service"
	"github.com/vishalbharath/Military-Assest-Management/pkg/cache"
	"github.com/vishalbharath/Military-Assest-Management/pkg/config"
	"github.com/vishalbharath/Military-Assest-Management/pkg/database"
	"github.com/vishalbharath/Military-Assest-Management/pkg/logger"
	corsmiddleware "github.com/vishalbharath/Military-Assest-Management/pkg/middleware/cors"
	reqidmiddleware "github.com/vishalbharath/Military-Assest-Management/pkg/middleware/requestid"
)

// @title Military Asset Management API
// @version 1.0.0
// @description Admin console for tracking asset purchases, transfers and assignments across bases
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	cacheEnabled := false
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, projection cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			cacheEnabled = true
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheEnabled)

	userRepo := repository.NewUserRepository(db)
	baseRepo := repository.NewBaseRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "military-asset-management",
		SingleSession:      false,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	baseSvc := service.NewBaseService(baseRepo, validate, logr)
	assetSvc := service.NewAssetService(assetRepo, cacheSvc, validate, logr)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, cacheSvc, metricsSvc, validate, logr)
	transferSvc := service.NewTransferService(transferRepo, cacheSvc, metricsSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, cacheSvc, metricsSvc, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, assetRepo, auditRepo, cacheSvc, logr,
		cfg.Dashboard.CacheTTL, cfg.Dashboard.RecentLimit)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	baseHandler := handler.NewBaseHandler(baseSvc)
	assetHandler := handler.NewAssetHandler(assetSvc)
	purchaseHandler := handler.NewPurchaseHandler(purchaseSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	purchases := protected.Group("/purchases")
	purchases.POST("", purchaseHandler.Create)
	purchases.GET("", purchaseHandler.List)
	purchases.GET("/:id", purchaseHandler.Get)
	purchases.POST("/:id/approve", purchaseHandler.Approve)
	purchases.POST("/:id/reject", purchaseHandler.Reject)
	purchases.POST("/:id/deliver", purchaseHandler.Deliver)

	transfers := protected.Group("/transfers")
	transfers.POST("", transferHandler.Create)
	transfers.GET("", transferHandler.List)
	transfers.GET("/:id", transferHandler.Get)
	transfers.POST("/:id/approve", transferHandler.Approve)
	transfers.POST("/:id/reject", transferHandler.Reject)
	transfers.POST("/:id/dispatch", transferHandler.Dispatch)
	transfers.POST("/:id/complete", transferHandler.Complete)

	assignments := protected.Group("/assignments")
	assignments.POST("", assignmentHandler.Create)
	assignments.GET("", assignmentHandler.List)
	assignments.GET("/:id", assignmentHandler.Get)
	assignments.POST("/:id/return", assignmentHandler.Return)
	assignments.POST("/:id/expend", assignmentHandler.Expend)
	assignments.POST("/:id/damage", assignmentHandler.Damage)

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.Create)
	assets.GET("", assetHandler.List)
	assets.GET("/:id", assetHandler.Get)

	bases := protected.Group("/bases")
	bases.GET("", baseHandler.List)
	bases.GET("/:id", baseHandler.Get)
	bases.POST("", middleware.RequirePermission(models.PermManageBases), baseHandler.Create)

	users := protected.Group("/users")
	users.POST("", middleware.RequirePermission(models.PermManageUsers), userHandler.Create)
	users.GET("", middleware.RequirePermission(models.PermManageUsers), userHandler.List)
	// GET by id is open to the authenticated user for their own record;
	// the service enforces manage_users for everyone else.
	users.GET("/:id", userHandler.Get)

	protected.GET("/audit-logs",
		middleware.RequirePermission(models.PermViewAll, models.PermViewBase), auditHandler.List)
	protected.GET("/dashboard/metrics",
		middleware.RequirePermission(models.PermViewAll, models.PermViewBase), dashboardHandler.Metrics)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
