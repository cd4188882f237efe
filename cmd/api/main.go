package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finlens/finlens-backend/internal/ai"
	"github.com/finlens/finlens-backend/internal/config"
	"github.com/finlens/finlens-backend/internal/handler"
	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/repository/postgres"
	"github.com/finlens/finlens-backend/internal/repository/storage"
	"github.com/finlens/finlens-backend/internal/service"
	"github.com/finlens/finlens-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Apply schema migrations
	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)

	// WebSocket hub for real-time events
	hub := websocket.NewHub()

	// Initialize services
	userService := service.NewUserService(userRepo)
	accountService := service.NewAccountService(accountRepo, transactionRepo, hub)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo, hub)
	dashboardService := service.NewDashboardService(accountRepo, transactionRepo)
	insightService := service.NewInsightService(transactionRepo)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, hub)
	adminService := service.NewAdminService(userRepo, transactionRepo)

	// Receipt scanning is optional: disabled unless both S3 storage and the
	// Gemini API key are configured
	var receiptStorage storage.ReceiptRepository
	var scanner ai.ReceiptScanner
	if cfg.Gemini.APIKey != "" {
		s3Repo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptStorage = s3Repo
		scanner = ai.NewGeminiClient(cfg.Gemini)
		log.Info().Str("model", cfg.Gemini.Model).Msg("Receipt scanning enabled")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, receipt scanning disabled")
	}
	receiptService := service.NewReceiptService(receiptStorage, scanner, hub)

	// Initialize auth middleware (UserService provisions users on first login)
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Rate limiters: general API limit plus a stricter one for AI scans
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit, middleware.DefaultBurstSize)
	defer rateLimiter.Stop()
	scanRateLimiter := middleware.NewRateLimiterWithConfig(cfg.ScanRateLimit, 1)
	defer scanRateLimiter.Stop()

	// WebSocket token validator authenticates connections outside the
	// regular middleware chain
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, &userLookupAdapter{userService: userService})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	insightHandler := handler.NewInsightHandler(insightService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	adminHandler := handler.NewAdminHandler(adminService)
	websocketHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, scanRateLimiter, authHandler, accountHandler, transactionHandler, dashboardHandler, insightHandler, budgetHandler, receiptHandler, adminHandler, websocketHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userLookupAdapter adapts UserService to websocket.UserLookup
type userLookupAdapter struct {
	userService *service.UserService
}

// GetUserIDByAuth0ID implements websocket.UserLookup
func (a *userLookupAdapter) GetUserIDByAuth0ID(auth0ID string) (int32, error) {
	user, err := a.userService.GetUserByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
