package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petvax/vaccination-system/internal/api/handler"
	"github.com/petvax/vaccination-system/internal/api/middleware"
	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/service"
	"github.com/petvax/vaccination-system/internal/infrastructure/config"
	mongodb "github.com/petvax/vaccination-system/internal/infrastructure/db/mongo"
	redisdb "github.com/petvax/vaccination-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The reminder queue is optional; pass nil to disable reminder enqueueing.
func NewRouter(
	client *mongo.Client,
	db *mongo.Database,
	rdb *redis.Client,
	cfg *config.Config,
	reminders service.ReminderQueue,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("petvax"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	petRepo := mongodb.NewPetRepository(db)
	apptRepo := mongodb.NewAppointmentRepository(db)
	vaccineRepo := mongodb.NewVaccineRepository(db)
	batchRepo := mongodb.NewBatchRepository(db)
	movementRepo := mongodb.NewMovementRepository(db)
	countsRepo := mongodb.NewCountsRepository(db)

	otpStore := redisdb.NewOTPStore(rdb, cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts)
	tokenStore := redisdb.NewTokenStore(rdb, cfg.Auth.RefreshTokenTTL)
	bookingDedup := redisdb.NewBookingDedup(rdb)

	// --- Services ---
	authService := service.NewAuthService(
		userRepo, otpStore, tokenStore,
		service.NewLogOTPSender(log),
		cfg.JWTSecret, cfg.Auth.AccessTokenTTL, log,
	)
	petService := service.NewPetService(petRepo, log)
	apptService := service.NewAppointmentService(apptRepo, petRepo, bookingDedup, reminders, log)
	inventoryService := service.NewInventoryService(vaccineRepo, batchRepo, movementRepo, log)
	dashboardService := service.NewDashboardService(countsRepo, petRepo, apptRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	petHandler := handler.NewPetHandler(petService)
	apptHandler := handler.NewAppointmentHandler(apptService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	healthHandler := handler.NewHealthHandler(client, rdb)

	auth := middleware.Auth(cfg.JWTSecret)
	staffSide := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	anyRole := middleware.RBAC(domain.Roles()...)

	// --- Probes and operational surfaces ---
	e.GET("/health/live", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth (public) ---
	authGroup := e.Group("/api/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/verify-otp", authHandler.VerifyOTP)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/register", authHandler.Register, auth, adminOnly)

	// --- Pets ---
	pets := e.Group("/api/pets", auth)
	pets.POST("", petHandler.Create, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer))
	pets.GET("", petHandler.List, anyRole)
	pets.GET("/:id", petHandler.Get, anyRole)
	pets.PUT("/:id", petHandler.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer))
	pets.DELETE("/:id", petHandler.Delete, staffSide)

	// --- Appointments ---
	e.GET("/api/appointments/slots", apptHandler.Slots)
	appts := e.Group("/api/appointments", auth)
	appts.POST("", apptHandler.Book, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer))
	appts.GET("", apptHandler.List, anyRole)
	appts.GET("/:id", apptHandler.Get, anyRole)
	appts.PATCH("/:id/status", apptHandler.Transition, anyRole)

	// --- Inventory ---
	vaccines := e.Group("/api/vaccines", auth)
	vaccines.POST("", inventoryHandler.CreateVaccine, adminOnly)
	vaccines.GET("", inventoryHandler.ListVaccines, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleVet))
	vaccines.DELETE("/:id", inventoryHandler.DeleteVaccine, adminOnly)
	vaccines.POST("/batches", inventoryHandler.CreateBatch, staffSide)
	vaccines.GET("/batches", inventoryHandler.ListBatches, staffSide)
	vaccines.POST("/batches/:id/receipts", inventoryHandler.Receive, staffSide)
	vaccines.POST("/batches/:id/exports", inventoryHandler.Export, staffSide)
	vaccines.GET("/batches/:id/movements", inventoryHandler.Movements, staffSide)

	// --- Dashboard ---
	e.GET("/api/dashboard/summary", dashboardHandler.Summary, auth, anyRole)

	return e
}
