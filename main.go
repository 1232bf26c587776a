package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/controllers"
	"github.com/tasmeem-studio/tasmeem-api/jobs"
	"github.com/tasmeem-studio/tasmeem-api/logger"
	"github.com/tasmeem-studio/tasmeem-api/middleware"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})
	log.Info().Msg("starting Tasmeem API server")

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Package{},
		&models.Order{},
		&models.Plan{},
		&models.RevisionRequest{},
		&models.Message{},
		&models.EngineerApplication{},
		&models.RevisionsPurchaseConfig{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("database migration completed")

	tokens := services.InitTokenService(cfg.JWTSecret)
	services.InitPackageCache(cfg.RedisAddr)
	services.InitMailService()
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 service")
		}
	} else {
		log.Warn().Msg("AWS_S3_BUCKET not set, plan uploads disabled")
	}

	scheduler := jobs.NewScheduler(db, cfg.PlanRetentionDays)
	if err := scheduler.Start(cfg.PurgeSchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start plan purge scheduler")
	}
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		v1.GET("/packages", controllers.ListPackages)
		v1.POST("/applications/:token/apply", controllers.Apply)

		authed := v1.Group("", middleware.RequireAuth(tokens))
		{
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)

			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListOrders)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.POST("/orders/:id/claim", controllers.ClaimOrder)
			authed.POST("/orders/:id/status", controllers.UpdateOrderStatus)

			authed.POST("/orders/:id/revisions", controllers.CreateRevisionRequest)
			authed.GET("/orders/:id/revisions", controllers.ListRevisionRequests)
			authed.POST("/orders/:id/revisions/purchase", controllers.PurchaseRevisions)
			authed.GET("/revision-settings", controllers.GetRevisionSettings)

			authed.POST("/orders/:id/plans", controllers.UploadPlan)
			authed.GET("/orders/:id/plans", controllers.ListPlans)

			authed.POST("/orders/:id/messages", controllers.SendMessage)
			authed.GET("/orders/:id/messages", controllers.ListMessages)

			admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.ListUsers)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)
				admin.POST("/packages", controllers.CreatePackage)
				admin.PUT("/packages/:id", controllers.UpdatePackage)
				admin.POST("/applications/invite", controllers.InviteEngineer)
				admin.GET("/applications", controllers.ListApplications)
				admin.POST("/applications/:id/review", controllers.ReviewApplication)
			}
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tasmeem API is running",
	})
}
