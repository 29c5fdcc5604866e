package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planweaver/planweaver-backend/internal/logger"
	"github.com/planweaver/planweaver-backend/internal/services"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type ReportHandler struct {
	log           *logger.Logger
	reportService services.ReportService
}

func NewReportHandler(log *logger.Logger, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		log:           log.With("handler", "ReportHandler"),
		reportService: reportService,
	}
}

// Generate compiles a report from the posted client data and strategy
// configurations. Shape of the payload is only checked as far as JSON
// decoding goes; unknown strategy ids and unresolved placeholders degrade
// inside the compiled text instead of failing the request.
func (rh *ReportHandler) Generate(c *gin.Context) {
	var req struct {
		ClientData                json.RawMessage              `json:"client_data"`
		StrategyConfigurations    []types.ClientStrategyConfig `json:"strategy_configurations"`
		SelectedCustomStrategyIDs []string                     `json:"selected_custom_strategy_ids"`
		ClientProfileID           *uuid.UUID                   `json:"client_profile_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	report, err := rh.reportService.Generate(c.Request.Context(), services.GenerateInput{
		ClientData:                req.ClientData,
		StrategyConfigurations:    req.StrategyConfigurations,
		SelectedCustomStrategyIDs: req.SelectedCustomStrategyIDs,
		ClientProfileID:           req.ClientProfileID,
	})
	if err != nil {
		rh.log.Error("Report generation failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "generate_report_failed", err)
		return
	}
	RespondOK(c, gin.H{"report": report.GeneratedReport, "report_id": report.ID})
}

func (rh *ReportHandler) List(c *gin.Context) {
	reports, err := rh.reportService.ListReports(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	if reports == nil {
		reports = []*types.Report{}
	}
	RespondOK(c, gin.H{"reports": reports})
}

func (rh *ReportHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return
	}
	report, err := rh.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "report_not_found", err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}
