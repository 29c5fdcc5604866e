package app

import (
	"github.com/planweaver/planweaver-backend/internal/handlers"
	"github.com/planweaver/planweaver-backend/internal/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Strategy *handlers.StrategyHandler
	Client   *handlers.ClientHandler
	Report   *handlers.ReportHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth),
		User:     handlers.NewUserHandler(log, serviceset.User),
		Strategy: handlers.NewStrategyHandler(log, serviceset.Catalog),
		Client:   handlers.NewClientHandler(log, serviceset.Client),
		Report:   handlers.NewReportHandler(log, serviceset.Report),
	}
}
