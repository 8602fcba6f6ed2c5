package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "vendortrack/docs"
	"vendortrack/internal/analytics"
	"vendortrack/internal/caching"
	"vendortrack/internal/handlers"
	"vendortrack/internal/jobs/background"
	"vendortrack/internal/middleware"
	"vendortrack/internal/repositories"
	"vendortrack/internal/services"
	"vendortrack/pkg/database"
)

const version = "1.0.0"

// CustomValidator adapts validator/v10 to echo's Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// @title Vendortrack API
// @version 1.0
// @description Vendor and service contract tracking with expiry and payment reminders.
// @BasePath /
func main() {
	// Local development loads configuration from .env; in deployment the
	// environment is already populated and the file is absent
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	jwksURL := os.Getenv("JWT_JWKS_URL")
	if jwtSecret == "" && jwksURL == "" {
		log.Fatal("JWT_SECRET or JWT_JWKS_URL environment variable is required")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "vendortrack-documents"
	}

	// Create repositories
	userRepo := repositories.NewUserRepository(pool)
	vendorRepo := repositories.NewVendorRepository(pool)
	serviceRepo := repositories.NewServiceRepository(pool)
	reminderRepo := repositories.NewReminderRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Mailer: SMTP when configured, otherwise log-only delivery
	var mailer services.Mailer
	if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		smtpPort := os.Getenv("SMTP_PORT")
		if smtpPort == "" {
			smtpPort = "587"
		}
		mailer = services.NewSMTPMailer(services.SMTPConfig{
			Host:     smtpHost,
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		})
	} else {
		log.Println("SMTP_HOST not set, reminder emails will be logged instead of sent")
		mailer = services.NewLogMailer()
	}

	// Create services
	notifierSvc := services.NewNotifierService(vendorRepo, userRepo, mailer)
	reminderSvc := services.NewReminderService(reminderRepo, serviceRepo, notifierSvc)
	vendorSvc := services.NewVendorService(vendorRepo, serviceRepo, cacheSvc)
	serviceSvc := services.NewServiceService(serviceRepo, vendorRepo, cacheSvc, reminderSvc)
	authSvc := services.NewAuthService(userRepo, jwtSecret)
	dashboardSvc := analytics.NewDashboardService(vendorRepo, serviceRepo, cacheSvc)

	documentSvc, err := services.NewDocumentService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL, minioBucket, serviceRepo)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	vendorHandlers := handlers.NewVendorHandlers(vendorSvc, serviceSvc)
	serviceHandlers := handlers.NewServiceHandlers(serviceSvc, documentSvc)
	reminderHandlers := handlers.NewReminderHandlers(reminderSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	jobHandlers := handlers.NewJobHandlers(reminderSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// JWT middleware
	jwtMiddleware, err := middleware.NewJWTMiddleware(middleware.AuthConfig{
		Secret:  jwtSecret,
		JWKSURL: jwksURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize auth middleware: %v", err)
	}

	// Background jobs
	scheduler := background.NewJobScheduler(reminderSvc, dashboardSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health and docs (no auth required)
	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login). Local login
	// issues HS256 tokens, so it is only available when JWT_SECRET is set;
	// in JWKS-only mode tokens come from the external identity provider.
	if jwtSecret != "" {
		auth := v1.Group("/auth")
		auth.POST("/signup", authHandlers.Signup)
		auth.POST("/login", authHandlers.Login)
	} else {
		log.Println("JWT_SECRET not set, local signup/login routes disabled (JWKS verification only)")
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(jwtMiddleware)

	protected.GET("/me", authHandlers.Me)

	// Vendor routes
	protected.GET("/vendors", vendorHandlers.ListVendors)
	protected.POST("/vendors", vendorHandlers.CreateVendor)
	protected.GET("/vendors/active-with-services", vendorHandlers.ListActiveVendorsWithServices)
	protected.GET("/vendors/:id", vendorHandlers.GetVendor)
	protected.PUT("/vendors/:id", vendorHandlers.UpdateVendor)
	protected.DELETE("/vendors/:id", vendorHandlers.DeleteVendor)
	protected.GET("/vendors/:id/services", vendorHandlers.ListVendorServices)

	// Service routes
	protected.GET("/services", serviceHandlers.ListServices)
	protected.POST("/services", serviceHandlers.CreateService)
	protected.GET("/services/expiring-soon", serviceHandlers.ListExpiringSoon)
	protected.GET("/services/payment-due-soon", serviceHandlers.ListPaymentDueSoon)
	protected.GET("/services/:id", serviceHandlers.GetService)
	protected.PUT("/services/:id", serviceHandlers.UpdateService)
	protected.PATCH("/services/:id/status", serviceHandlers.UpdateServiceStatus)
	protected.DELETE("/services/:id", serviceHandlers.DeleteService)
	protected.POST("/services/:id/document", serviceHandlers.UploadServiceDocument)
	protected.GET("/services/:id/document", serviceHandlers.GetServiceDocument)
	protected.DELETE("/services/:id/document", serviceHandlers.DeleteServiceDocument)

	// Reminder log
	protected.GET("/reminders", reminderHandlers.ListReminders)

	// Dashboard
	protected.GET("/dashboard/stats", dashboardHandlers.GetStats)

	// Manual job trigger
	protected.POST("/jobs/sweeps/run", jobHandlers.RunSweeps)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Vendortrack server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
