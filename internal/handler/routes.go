package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/finlens/finlens-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	scanRateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	accountHandler *AccountHandler,
	transactionHandler *TransactionHandler,
	dashboardHandler *DashboardHandler,
	insightHandler *InsightHandler,
	budgetHandler *BudgetHandler,
	receiptHandler *ReceiptHandler,
	adminHandler *AdminHandler,
	websocketHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.PUT("/me", authHandler.UpdateProfile)

	// Account routes (protected)
	accounts := api.Group("/accounts")
	accounts.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/summary", accountHandler.GetAccountSummary)
	accounts.GET("/:id/stats", accountHandler.GetAccountStats)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.PATCH("/:id/default", accountHandler.SetDefaultAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/categories/recent", transactionHandler.GetRecentCategories)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/bulk-delete", transactionHandler.BulkDeleteTransactions)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/categories", dashboardHandler.GetCategoryBreakdown)

	// Insight routes (protected)
	insights := api.Group("/insights")
	insights.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	insights.GET("", insightHandler.GetInsights)

	// Budget routes (protected)
	budget := api.Group("/budget")
	budget.Use(authMiddleware.Authenticate(), rateLimiter.Middleware())
	budget.GET("", budgetHandler.GetBudget)
	budget.PUT("", budgetHandler.SetBudget)

	// Receipt routes (protected, stricter rate limit for AI scans)
	receipts := api.Group("/receipts")
	receipts.Use(authMiddleware.Authenticate(), scanRateLimiter.Middleware())
	receipts.POST("/scan", receiptHandler.ScanReceipt)

	// Admin routes (protected, admin role required)
	admin := api.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), middleware.RequireAdmin(), rateLimiter.Middleware())
	admin.GET("/stats", adminHandler.GetPlatformStats)

	// WebSocket endpoint authenticates via query param token
	e.GET("/ws", websocketHandler.HandleWS)

	// API documentation
	e.GET("/openapi.json", ServeOpenAPI3Spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
