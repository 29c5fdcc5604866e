package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/repos"
	"github.com/planweaver/planweaver-backend/internal/requestdata"
	"github.com/planweaver/planweaver-backend/internal/types"
)

// ClientUpdate is a partial edit of a client profile; nil leaves the field
// untouched.
type ClientUpdate struct {
	Name                   *string
	Data                   json.RawMessage
	StrategyConfigurations []types.ClientStrategyConfig
}

type ClientService interface {
	CreateClient(ctx context.Context, name string, data json.RawMessage, configs []types.ClientStrategyConfig) (*types.ClientProfile, error)
	GetClient(ctx context.Context, id uuid.UUID) (*types.ClientProfile, error)
	ListClients(ctx context.Context) ([]*types.ClientProfile, error)
	UpdateClient(ctx context.Context, id uuid.UUID, update ClientUpdate) (*types.ClientProfile, error)
}

type clientService struct {
	db                *gorm.DB
	log               *logger.Logger
	clientProfileRepo repos.ClientProfileRepo
	catalogService    CatalogService
}

func NewClientService(db *gorm.DB, log *logger.Logger, clientProfileRepo repos.ClientProfileRepo, catalogService CatalogService) ClientService {
	serviceLog := log.With("service", "ClientService")
	return &clientService{
		db:                db,
		log:               serviceLog,
		clientProfileRepo: clientProfileRepo,
		catalogService:    catalogService,
	}
}

func (clis *clientService) CreateClient(ctx context.Context, name string, data json.RawMessage, configs []types.ClientStrategyConfig) (*types.ClientProfile, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	if name == "" {
		return nil, fmt.Errorf("client name required")
	}

	profile := &types.ClientProfile{
		ID:     uuid.New(),
		UserID: rd.UserID,
		Name:   name,
		Data:   datatypes.JSON(data),
	}
	if err := profile.SetConfigs(configs); err != nil {
		return nil, fmt.Errorf("encode strategy configurations: %w", err)
	}

	if _, err := clis.clientProfileRepo.Create(ctx, nil, []*types.ClientProfile{profile}); err != nil {
		return nil, fmt.Errorf("create client profile: %w", err)
	}
	clis.catalogService.SetClientConfigs(profile.ID, configs)
	return profile, nil
}

func (clis *clientService) GetClient(ctx context.Context, id uuid.UUID) (*types.ClientProfile, error) {
	profile, err := clis.ownedProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (clis *clientService) ListClients(ctx context.Context) ([]*types.ClientProfile, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	return clis.clientProfileRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

func (clis *clientService) UpdateClient(ctx context.Context, id uuid.UUID, update ClientUpdate) (*types.ClientProfile, error) {
	profile, err := clis.ownedProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("client name required")
		}
		profile.Name = *update.Name
	}
	if update.Data != nil {
		profile.Data = datatypes.JSON(update.Data)
	}
	if update.StrategyConfigurations != nil {
		if err := profile.SetConfigs(update.StrategyConfigurations); err != nil {
			return nil, fmt.Errorf("encode strategy configurations: %w", err)
		}
	}

	if _, err := clis.clientProfileRepo.Save(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("persist client profile: %w", err)
	}
	if update.StrategyConfigurations != nil {
		clis.catalogService.SetClientConfigs(profile.ID, update.StrategyConfigurations)
	}
	return profile, nil
}

func (clis *clientService) ownedProfile(ctx context.Context, id uuid.UUID) (*types.ClientProfile, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	profiles, err := clis.clientProfileRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load client profile: %w", err)
	}
	if len(profiles) == 0 || profiles[0] == nil || profiles[0].UserID != rd.UserID {
		return nil, fmt.Errorf("client profile not found")
	}
	return profiles[0], nil
}
