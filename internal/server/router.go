package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/planweaver/planweaver-backend/internal/handlers"
	"github.com/planweaver/planweaver-backend/internal/middleware"
)

type RouterConfig struct {
	CORSOrigins     []string
	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	StrategyHandler *handlers.StrategyHandler
	ClientHandler   *handlers.ClientHandler
	ReportHandler   *handlers.ReportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("planweaver"))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/register", cfg.AuthHandler.Register)
	router.POST("/api/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/refresh", cfg.AuthHandler.Refresh)
	api.POST("/logout", cfg.AuthHandler.Logout)
	api.GET("/user", cfg.UserHandler.GetMe)

	// Catalog
	api.GET("/strategies", cfg.StrategyHandler.List)
	api.GET("/strategies/organized", cfg.StrategyHandler.Organized)
	api.GET("/strategies/export", cfg.StrategyHandler.Export)
	api.POST("/strategies/import", cfg.StrategyHandler.Import)
	api.POST("/strategies", cfg.StrategyHandler.Create)
	api.PUT("/strategies/:id", cfg.StrategyHandler.Update)
	api.DELETE("/strategies/:id", cfg.StrategyHandler.Delete)
	api.GET("/custom-strategies", cfg.StrategyHandler.ListCustom)
	api.POST("/custom-strategies", cfg.StrategyHandler.CreateCustom)
	api.PUT("/custom-strategies/:id", cfg.StrategyHandler.UpdateCustom)
	api.DELETE("/custom-strategies/:id", cfg.StrategyHandler.DeleteCustom)

	// Clients
	api.POST("/clients", cfg.ClientHandler.Create)
	api.GET("/clients", cfg.ClientHandler.List)
	api.GET("/clients/:id", cfg.ClientHandler.Get)
	api.PUT("/clients/:id", cfg.ClientHandler.Update)

	// Reports
	api.POST("/reports/generate", cfg.ReportHandler.Generate)
	api.GET("/reports", cfg.ReportHandler.List)
	api.GET("/reports/:id", cfg.ReportHandler.Get)

	return router
}
