package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/catalog"
	redisclient "github.com/planweaver/planweaver-backend/internal/clients/redis"
	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Catalog services.CatalogService
	Client  services.ClientService
	Report  services.ReportService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	store *catalog.Store,
	bus redisclient.CatalogBus,
) (Services, error) {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log,
		reposet.User,
		reposet.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, reposet.User)
	catalogService := services.NewCatalogService(db, log, store, reposet.Strategy, reposet.ClientProfile, bus)
	clientService := services.NewClientService(db, log, reposet.ClientProfile, catalogService)
	reportService := services.NewReportService(log, reposet.Report, catalogService)

	if err := catalogService.Hydrate(context.Background()); err != nil {
		return Services{}, fmt.Errorf("hydrate catalog: %w", err)
	}

	return Services{
		Auth:    authService,
		User:    userService,
		Catalog: catalogService,
		Client:  clientService,
		Report:  reportService,
	}, nil
}
