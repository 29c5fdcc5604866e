package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planweaver/planweaver-backend/internal/services"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type fakeReportService struct {
	reports  []*types.Report
	lastGen  services.GenerateInput
	generate *types.Report
}

func (f *fakeReportService) Generate(ctx context.Context, input services.GenerateInput) (*types.Report, error) {
	f.lastGen = input
	if f.generate == nil {
		return nil, fmt.Errorf("no report configured")
	}
	return f.generate, nil
}

func (f *fakeReportService) GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("report not found")
}

func (f *fakeReportService) ListReports(ctx context.Context) ([]*types.Report, error) {
	return f.reports, nil
}

func newReportRouter(t *testing.T, svc services.ReportService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(testLogger(t), svc)
	r := gin.New()
	r.POST("/api/reports/generate", h.Generate)
	r.GET("/api/reports", h.List)
	r.GET("/api/reports/:id", h.Get)
	return r
}

func TestGenerateEnvelope(t *testing.T) {
	reportID := uuid.New()
	svc := &fakeReportService{
		generate: &types.Report{
			ID:              reportID,
			GeneratedReport: "BUILD NET WORTH\n\nSave 250 per month.",
		},
	}
	router := newReportRouter(t, svc)

	body := strings.NewReader(`{
		"client_data": {"name": "Dana"},
		"strategy_configurations": [
			{"strategyId": "monthly-savings", "isEnabled": true, "inputValues": {"amount": 250}}
		],
		"selected_custom_strategy_ids": ["custom-1"]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/reports/generate", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Report   string    `json:"report"`
		ReportID uuid.UUID `json:"report_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Report != "BUILD NET WORTH\n\nSave 250 per month." {
		t.Fatalf("report = %q", resp.Report)
	}
	if resp.ReportID != reportID {
		t.Fatalf("report_id = %s, want %s", resp.ReportID, reportID)
	}

	// The handler forwards the decoded payload untouched.
	if len(svc.lastGen.StrategyConfigurations) != 1 || svc.lastGen.StrategyConfigurations[0].StrategyID != "monthly-savings" {
		t.Fatalf("forwarded configs = %+v", svc.lastGen.StrategyConfigurations)
	}
	if len(svc.lastGen.SelectedCustomStrategyIDs) != 1 || svc.lastGen.SelectedCustomStrategyIDs[0] != "custom-1" {
		t.Fatalf("forwarded selected ids = %v", svc.lastGen.SelectedCustomStrategyIDs)
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	router := newReportRouter(t, &fakeReportService{})

	req := httptest.NewRequest(http.MethodPost, "/api/reports/generate", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListReportsEnvelope(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeReportService{
		reports: []*types.Report{
			{ID: uuid.New(), GeneratedReport: "newest", CreatedAt: now},
			{ID: uuid.New(), GeneratedReport: "older", CreatedAt: now.Add(-time.Hour)},
		},
	}
	router := newReportRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Reports []types.Report `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Reports) != 2 || resp.Reports[0].GeneratedReport != "newest" {
		t.Fatalf("reports = %+v", resp.Reports)
	}
}

func TestGetReportInvalidID(t *testing.T) {
	router := newReportRouter(t, &fakeReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetReportMissing(t *testing.T) {
	router := newReportRouter(t, &fakeReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
