package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/plan"
	"github.com/planweaver/planweaver-backend/internal/repos"
	"github.com/planweaver/planweaver-backend/internal/requestdata"
	"github.com/planweaver/planweaver-backend/internal/types"
)

// GenerateInput is one report-generation request after schema validation.
// ClientData is opaque to the engine and stored verbatim.
type GenerateInput struct {
	ClientData                json.RawMessage
	StrategyConfigurations    []types.ClientStrategyConfig
	SelectedCustomStrategyIDs []string
	ClientProfileID           *uuid.UUID
}

type ReportService interface {
	Generate(ctx context.Context, input GenerateInput) (*types.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error)
	ListReports(ctx context.Context) ([]*types.Report, error)
}

type reportService struct {
	log            *logger.Logger
	reportRepo     repos.ReportRepo
	catalogService CatalogService
}

func NewReportService(log *logger.Logger, reportRepo repos.ReportRepo, catalogService CatalogService) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		log:            serviceLog,
		reportRepo:     reportRepo,
		catalogService: catalogService,
	}
}

// Generate compiles the report and persists it as a frozen snapshot.
// Compilation itself cannot fail; only persistence errors surface.
func (rs *reportService) Generate(ctx context.Context, input GenerateInput) (*types.Report, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}

	configs := mergeSelectedCustomIDs(input.StrategyConfigurations, input.SelectedCustomStrategyIDs)
	compiled := plan.Compile(configs, rs.catalogService.GetStrategies())

	report := &types.Report{
		ID:              uuid.New(),
		UserID:          rd.UserID,
		ClientProfileID: input.ClientProfileID,
		ClientData:      datatypes.JSON(input.ClientData),
		GeneratedReport: compiled,
		CreatedAt:       time.Now().UTC(),
	}
	rawConfigs, err := json.Marshal(configs)
	if err != nil {
		return nil, fmt.Errorf("encode strategy configurations: %w", err)
	}
	report.StrategyConfigurations = datatypes.JSON(rawConfigs)

	if _, err := rs.reportRepo.Create(ctx, nil, []*types.Report{report}); err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}
	rs.log.Info("Report generated", "report_id", report.ID, "configs", len(configs), "chars", len(compiled))
	return report, nil
}

func (rs *reportService) GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	reports, err := rs.reportRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if len(reports) == 0 || reports[0] == nil || reports[0].UserID != rd.UserID {
		return nil, fmt.Errorf("report not found")
	}
	return reports[0], nil
}

func (rs *reportService) ListReports(ctx context.Context) ([]*types.Report, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("unauthorized")
	}
	return rs.reportRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

// mergeSelectedCustomIDs appends any selected custom strategy id that is not
// already configured as an enabled config with no input values. Ids already
// present are left untouched, enabled or not.
func mergeSelectedCustomIDs(configs []types.ClientStrategyConfig, selectedIDs []string) []types.ClientStrategyConfig {
	merged := make([]types.ClientStrategyConfig, len(configs))
	copy(merged, configs)

	present := make(map[string]bool, len(configs))
	for _, cfg := range configs {
		present[cfg.StrategyID] = true
	}
	for _, id := range selectedIDs {
		if id == "" || present[id] {
			continue
		}
		present[id] = true
		merged = append(merged, types.ClientStrategyConfig{StrategyID: id, IsEnabled: true})
	}
	return merged
}
