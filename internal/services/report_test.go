package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planweaver/planweaver-backend/internal/requestdata"
	"github.com/planweaver/planweaver-backend/internal/types"
)

type fakeReportRepo struct {
	created []*types.Report
}

func (f *fakeReportRepo) Create(ctx context.Context, tx *gorm.DB, reports []*types.Report) ([]*types.Report, error) {
	f.created = append(f.created, reports...)
	return reports, nil
}

func (f *fakeReportRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Report, error) {
	var out []*types.Report
	for _, id := range ids {
		for _, r := range f.created {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeReportRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Report, error) {
	var out []*types.Report
	for _, r := range f.created {
		for _, id := range userIDs {
			if r.UserID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func authedContext(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func newTestReportService(t *testing.T) (ReportService, CatalogService, *fakeReportRepo) {
	t.Helper()
	catalogSvc, store, _ := newTestCatalogService(t)

	savings := &types.Strategy{
		ID:      "monthly-savings",
		Title:   "Monthly Savings Plan",
		Section: "buildNetWorth",
		Content: "Save {{amount}} per month.",
	}
	if err := savings.SetFields([]types.InputFieldSpec{{ID: "amount", Type: types.FieldTypeNumber}}); err != nil {
		t.Fatalf("set fields: %v", err)
	}
	store.Put(savings)
	store.Put(&types.Strategy{
		ID:       "custom-note",
		Title:    "Custom Planning Note",
		Section:  "leavingALegacy",
		Content:  "Review your estate documents.",
		IsCustom: true,
	})

	repo := &fakeReportRepo{}
	svc := NewReportService(testLogger(t), repo, catalogSvc)
	return svc, catalogSvc, repo
}

func TestGenerateCompilesAndPersists(t *testing.T) {
	svc, _, repo := newTestReportService(t)
	userID := uuid.New()

	report, err := svc.Generate(authedContext(userID), GenerateInput{
		ClientData: json.RawMessage(`{"name":"Dana"}`),
		StrategyConfigurations: []types.ClientStrategyConfig{
			{StrategyID: "monthly-savings", IsEnabled: true, InputValues: map[string]any{"amount": float64(250)}},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "BUILD NET WORTH\n\nSave 250 per month."
	if report.GeneratedReport != want {
		t.Fatalf("report = %q, want %q", report.GeneratedReport, want)
	}
	if report.UserID != userID || report.ID == uuid.Nil {
		t.Fatalf("report identity = %+v", report)
	}
	if len(repo.created) != 1 {
		t.Fatalf("persisted %d reports, want 1", len(repo.created))
	}

	// The snapshot keeps the configs that produced the text.
	var snapshot []types.ClientStrategyConfig
	if err := json.Unmarshal(report.StrategyConfigurations, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0].StrategyID != "monthly-savings" {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestGenerateMergesSelectedCustomIDs(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	report, err := svc.Generate(authedContext(uuid.New()), GenerateInput{
		ClientData:                json.RawMessage(`{}`),
		SelectedCustomStrategyIDs: []string{"custom-note"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(report.GeneratedReport, "Review your estate documents.") {
		t.Fatalf("selected custom strategy missing from report: %q", report.GeneratedReport)
	}
}

func TestGenerateSelectedIDDoesNotOverrideExplicitConfig(t *testing.T) {
	svc, _, _ := newTestReportService(t)

	// Explicitly disabled config wins over the selected-ids list.
	report, err := svc.Generate(authedContext(uuid.New()), GenerateInput{
		ClientData: json.RawMessage(`{}`),
		StrategyConfigurations: []types.ClientStrategyConfig{
			{StrategyID: "custom-note", IsEnabled: false},
		},
		SelectedCustomStrategyIDs: []string{"custom-note"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.GeneratedReport != "" {
		t.Fatalf("disabled config still rendered: %q", report.GeneratedReport)
	}
}

func TestGenerateRequiresAuth(t *testing.T) {
	svc, _, _ := newTestReportService(t)
	if _, err := svc.Generate(context.Background(), GenerateInput{}); err == nil {
		t.Fatalf("unauthenticated generate accepted")
	}
}

func TestGetReportScopedToOwner(t *testing.T) {
	svc, _, _ := newTestReportService(t)
	owner := uuid.New()

	report, err := svc.Generate(authedContext(owner), GenerateInput{ClientData: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.GetReport(authedContext(owner), report.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetReport(authedContext(uuid.New()), report.ID); err == nil {
		t.Fatalf("foreign user read another user's report")
	}
}

func TestMergeSelectedCustomIDs(t *testing.T) {
	configs := []types.ClientStrategyConfig{
		{StrategyID: "a", IsEnabled: false},
		{StrategyID: "b", IsEnabled: true},
	}
	merged := mergeSelectedCustomIDs(configs, []string{"a", "c", "", "c"})

	if len(merged) != 3 {
		t.Fatalf("merged %d configs, want 3: %+v", len(merged), merged)
	}
	if merged[0].IsEnabled {
		t.Fatalf("existing disabled config was re-enabled")
	}
	last := merged[2]
	if last.StrategyID != "c" || !last.IsEnabled || last.InputValues != nil {
		t.Fatalf("appended config = %+v", last)
	}
}
