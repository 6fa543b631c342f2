package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/fleetgate/reservation-api/internal/api/handler"
	"github.com/fleetgate/reservation-api/internal/api/middleware"
	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
	"github.com/fleetgate/reservation-api/internal/core/service"
	mongodb "github.com/fleetgate/reservation-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetgate/reservation-api/internal/infrastructure/db/redis"
	"github.com/fleetgate/reservation-api/internal/infrastructure/token"
	"github.com/fleetgate/reservation-api/internal/pkg/config"
	"github.com/fleetgate/reservation-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, mail ports.MailDispatcher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("fleet"))

	// --- Dependencies ---
	log := logger.Get()

	accountRepo := mongodb.NewAccountRepository(db)
	verificationRepo := mongodb.NewVerificationRepository(db)
	vehicleRepo := mongodb.NewVehicleRepository(db)
	driverRepo := mongodb.NewDriverRepository(db)
	companyRepo := mongodb.NewCompanyRepository(db)
	reservationRepo := mongodb.NewReservationRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	decisionStore := redisdb.NewDecisionTokenStore(rdb)

	tokens := token.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
	)

	codeIssuer := service.NewCodeIssuer(verificationRepo, mail, log)
	authService := service.NewAuthService(accountRepo, codeIssuer, tokens, cfg.TrustedAdminDomain, log)
	reservationService := service.NewReservationService(
		reservationRepo, vehicleRepo, driverRepo, accountRepo,
		notificationRepo, decisionStore, mail,
		cfg.BaseURL, time.Duration(cfg.DecisionLinkTTLHours)*time.Hour, log,
	)
	fleetService := service.NewFleetService(vehicleRepo, driverRepo, companyRepo, log)
	notificationService := service.NewNotificationService(notificationRepo)

	authHandler := handler.NewAuthHandler(authService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	fleetHandler := handler.NewFleetHandler(fleetService)
	companyHandler := handler.NewCompanyHandler(fleetService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	authMiddleware := middleware.Auth(tokens, accountRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes (IP rate limited: credential surface) ---
	auth := e.Group("/auth")
	auth.Use(echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		}),
	}))
	auth.POST("/register", authHandler.Register)
	auth.POST("/register-admin", authHandler.RegisterAdmin)
	auth.POST("/verify-admin", authHandler.VerifyAdmin)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me, authMiddleware)
	auth.GET("/users", authHandler.ListUsers, authMiddleware, adminOnly)
	auth.DELETE("/users/:email", authHandler.DeleteUser, authMiddleware, adminOnly)

	// --- Anonymous decision links from approval emails ---
	e.GET("/reservations/approve/:id", reservationHandler.DecideByLink)
	e.GET("/reservations/reject/:id", reservationHandler.DecideByLink)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)

	v1.GET("/reservations", reservationHandler.List)
	v1.POST("/reservations", reservationHandler.Create)
	v1.PUT("/reservations/:id", reservationHandler.Update)
	v1.DELETE("/reservations/:id", reservationHandler.Delete)
	v1.POST("/reservations/:id/approve", reservationHandler.Approve, adminOnly)
	v1.POST("/reservations/:id/reject", reservationHandler.Reject, adminOnly)

	v1.GET("/vehicles", fleetHandler.ListVehicles)
	v1.POST("/vehicles", fleetHandler.CreateVehicle)
	v1.GET("/drivers", fleetHandler.ListDrivers)
	v1.POST("/drivers", fleetHandler.CreateDriver)

	v1.GET("/companies", companyHandler.List)
	v1.POST("/companies", companyHandler.Create)

	v1.GET("/notifications", notificationHandler.List)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)
	v1.DELETE("/notifications", notificationHandler.Clear)

	// --- Operational surface ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb, log)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
