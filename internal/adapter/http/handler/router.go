package handler

import (
	"mybank-ledger/internal/adapter/http/middleware"
	"mybank-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AccountSvc     ports.AccountService
	LedgerSvc      ports.LedgerService
	TransferSvc    ports.TransferService
	HistorySvc     ports.HistoryService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (verifies PostgreSQL, plus Redis when configured)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	accountHandler := NewAccountHandler(deps.AccountSvc)
	transactionHandler := NewTransactionHandler(deps.LedgerSvc, deps.TransferSvc, deps.HistorySvc)

	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.GET("", accountHandler.List)
		accounts.POST("", accountHandler.Open)
		accounts.GET("/:id", accountHandler.Get)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("/deposit", transactionHandler.Deposit)
		transactions.POST("/withdrawal", transactionHandler.Withdraw)
		transactions.POST("/transfer", transactionHandler.Transfer)
		transactions.GET("", transactionHandler.List)
	}

	return r
}
