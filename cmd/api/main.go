package main

import (
	_ "urlaubsplanner/api/swagger" // swagger docs
	"urlaubsplanner/internal/config"
	"urlaubsplanner/internal/database"
	"urlaubsplanner/internal/handler"
	"urlaubsplanner/internal/middleware"
	"urlaubsplanner/internal/repository"
	"urlaubsplanner/internal/service"
	"urlaubsplanner/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Urlaubsplanner API
// @version         1.0
// @description     Vacation request management with region-scoped approvals and audit trail.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	logrus.Info("connected to PostgreSQL")

	if cfg.SeedDemoData {
		if err := database.SeedDemoData(db); err != nil {
			logrus.WithError(err).Fatal("demo data seeding failed")
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	authService := service.NewAuthService(userRepo, middleware.GetJWTSecret(), nil)
	vacationService := service.NewVacationService(userRepo, vacationRepo, auditRepo, txManager, wsHub, nil)
	managerService := service.NewManagerService(userRepo, vacationRepo)
	adminService := service.NewAdminService(userRepo, regionRepo, vacationRepo, auditRepo, txManager, nil, nil)
	auditService := service.NewAuditService(auditRepo)
	regionService := service.NewRegionService(regionRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	vacationHandler := handler.NewVacationHandler(vacationService, managerService)
	managerHandler := handler.NewManagerHandler(managerService)
	adminHandler := handler.NewAdminHandler(adminService)
	auditHandler := handler.NewAuditHandler(auditService)
	regionHandler := handler.NewRegionHandler(regionService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	vacationHandler.RegisterRoutes(router.Group(""))
	managerHandler.RegisterRoutes(router.Group(""))
	adminHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	regionHandler.RegisterRoutes(router.Group(""))

	logrus.Infof("server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
