package app

import (
	"github.com/gin-gonic/gin"

	"github.com/planweaver/planweaver-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		CORSOrigins:     cfg.CORSOrigins,
		AuthMiddleware:  middlewareset.Auth,
		AuthHandler:     handlerset.Auth,
		UserHandler:     handlerset.User,
		StrategyHandler: handlerset.Strategy,
		ClientHandler:   handlerset.Client,
		ReportHandler:   handlerset.Report,
	})
}
