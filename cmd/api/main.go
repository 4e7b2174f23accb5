package main

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "leaveflow/api/swagger" // swagger docs
	"leaveflow/internal/auth"
	"leaveflow/internal/database"
	"leaveflow/internal/handler"
	"leaveflow/internal/middleware"
	"leaveflow/internal/repository"
	"leaveflow/internal/service"
	"leaveflow/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Leave Management API
// @version         1.0
// @description     API for submitting and approving employee leave requests with role-gated access.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "postgres")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			log.Fatal("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		jwtSecret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}

	tokenTTL := auth.DefaultTokenTTL
	if hours, err := strconv.Atoi(os.Getenv("JWT_TTL_HOURS")); err == nil && hours > 0 {
		tokenTTL = time.Duration(hours) * time.Hour
	}

	allowance := decimal.NewFromInt(25)
	if days, err := decimal.NewFromString(os.Getenv("LEAVE_ALLOWANCE_DAYS")); err == nil && days.IsPositive() {
		allowance = days
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler), all wired
	// explicitly — no ambient registry.
	hasher := auth.NewBcryptHasher()
	tokens := auth.NewTokenService([]byte(jwtSecret), tokenTTL)
	authmw := middleware.NewAuthMiddleware(tokens)

	userRepo := repository.NewUserRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	authService := service.NewAuthService(userRepo, auditRepo, txManager, hasher, tokens)
	userService := service.NewUserService(userRepo, auditRepo, txManager)
	leaveService := service.NewLeaveService(leaveRepo, balanceRepo, auditRepo, txManager, wsHub, allowance)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authmw)
	leaveHandler := handler.NewLeaveHandler(leaveService, authmw)
	auditHandler := handler.NewAuditHandler(auditService, authmw)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
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
		websocket.ServeWs(wsHub, c, tokens)
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	leaveHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := getenv("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
