package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-pms-api/api/swagger"
	"github.com/noah-isme/campus-pms-api/internal/handler"
	"github.com/noah-isme/campus-pms-api/internal/middleware"
	"github.com/noah-isme/campus-pms-api/internal/models"
	"github.com/noah-isme/campus-pms-api/internal/repository"
	"github.com/noah-isme/campus-pms-api/internal/service"
	"github.com/noah-isme/campus-pms-api/pkg/cache"
	"github.com/noah-isme/campus-pms-api/pkg/certificate"
	"github.com/noah-isme/campus-pms-api/pkg/config"
	"github.com/noah-isme/campus-pms-api/pkg/database"
	"github.com/noah-isme/campus-pms-api/pkg/logger"
	"github.com/noah-isme/campus-pms-api/pkg/magiclink"
	"github.com/noah-isme/campus-pms-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/campus-pms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-pms-api/pkg/middleware/requestid"
)

// @title Campus PMS API
// @version 1.0.0
// @description Placement management API centred on the Internship Performance Passport
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	passportRepo := repository.NewPassportRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	internshipRepo := repository.NewInternshipRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)

	certStorage, err := certificate.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare certificate storage", "error", err)
	}
	certGenerator := certificate.NewGenerator(certStorage, cfg.Certificates.BaseURL)

	signer := magiclink.NewSigner(cfg.MentorLinks.Secret, cfg.MentorLinks.TTL)

	var sender mailer.Sender
	if cfg.Notifications.Enabled {
		sender = mailer.NewSMTPSender(
			cfg.Notifications.SMTPHost,
			cfg.Notifications.SMTPPort,
			cfg.Notifications.SMTPUser,
			cfg.Notifications.SMTPPass,
			cfg.Notifications.FromAddress,
		)
	}
	notifications := service.NewNotificationService(sender, studentRepo,
		cfg.Notifications.Workers, cfg.Notifications.MaxRetries, logr)
	notifications.Start(context.Background())
	defer notifications.Stop()

	metricsSvc := service.NewMetricsService()
	publicViews := service.NewPublicViewCache(redisClient, cfg.Passports.PublicCacheTTL)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	passportSvc := service.NewPassportService(service.PassportServiceDeps{
		Passports:    passportRepo,
		Applications: applicationRepo,
		Internships:  internshipRepo,
		Students:     studentRepo,
		Links:        signer,
		Certificates: certGenerator,
		Notifier:     notifications,
		PublicViews:  publicViews,
		Metrics:      metricsSvc,
		LinkBaseURL:  cfg.MentorLinks.BaseURL,
		Validator:    validate,
		Logger:       logr,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	passportHandler := handler.NewPassportHandler(passportSvc)
	publicHandler := handler.NewPublicHandler(passportSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.Static("/certificates", certStorage.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	// Mentor submission and public view are unauthenticated; the mentor
	// endpoint is gated by its single-use token instead.
	api.PUT("/passports/:ippId/company-evaluation", publicHandler.SubmitCompanyEvaluation)
	api.GET("/public/passports/:ippId", publicHandler.GetPublic)

	passports := api.Group("/passports", middleware.JWT(authSvc))
	{
		passports.POST("", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), passportHandler.Create)
		passports.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), passportHandler.List)
		passports.GET("/student/:studentId", passportHandler.ListByStudent)
		passports.GET("/:ippId", passportHandler.Get)
		passports.POST("/:ippId/evaluation-request", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), passportHandler.RequestEvaluation)
		passports.PUT("/:ippId/student-submission", middleware.RequireRoles(models.RoleStudent), passportHandler.SubmitStudentDocumentation)
		passports.PUT("/:ippId/faculty-assessment", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), passportHandler.SubmitFacultyAssessment)
		passports.POST("/:ippId/publish", middleware.RequireRoles(models.RoleAdmin), passportHandler.Publish)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
