package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"run-registry-service/internal/core/domain"
	"run-registry-service/internal/core/services"
	"run-registry-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	testOwner = "Clownworldenjoyer76"
	testRepo  = "football_for_mat"
)

func setupRouter() (*testutil.MockRunReportRepo, *testutil.MockArtifactRepo, *testutil.MockWorkspaceStore, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	runRepo := new(testutil.MockRunReportRepo)
	artifactRepo := new(testutil.MockArtifactRepo)
	workspace := new(testutil.MockWorkspaceStore)

	runSvc := services.NewRunReportService(runRepo, artifactRepo, nil, testOwner, testRepo)
	artifactSvc := services.NewArtifactService(artifactRepo, runRepo, workspace)
	manifestSvc := services.NewManifestService(workspace)
	statusDocSvc := services.NewStatusDocService(runRepo, artifactRepo, testOwner, testRepo)

	h := New(runSvc, artifactSvc, manifestSvc, statusDocSvc)
	r := gin.New()
	api := r.Group("/api/v1/run-registry")
	h.RegisterRoutes(api)

	return runRepo, artifactRepo, workspace, r
}

func TestIngestRunReport(t *testing.T) {
	runRepo, artifactRepo, _, r := setupRouter()

	stored := &domain.RunReport{
		ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(),
		RunID: "17645210891", Workflow: "pregame",
		Status: domain.RunStatusSuccess, Trigger: domain.TriggerWorkflowDispatch,
		Branch: "main",
	}

	runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RunReport")).Return(nil)
	runRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(stored, nil)
	artifactRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*domain.Artifact")).Return(nil)
	artifactRepo.On("CreateExternalBatch", mock.Anything, mock.AnythingOfType("[]*domain.ExternalArtifact")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"run_id":   "17645210891",
		"workflow": "pregame",
		"status":   "success",
		"trigger":  "workflow_dispatch",
		"branch":   "main",
		"artifact_paths": []string{
			"output/logs/props_pregame.log",
			"models/manifest/models_manifest.csv",
		},
	})
	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "17645210891", resp["run_id"])
	assert.Equal(t, "https://github.com/Clownworldenjoyer76/football_for_mat/actions/runs/17645210891", resp["run_url"])
}

func TestIngestRunReport_MissingFields(t *testing.T) {
	_, _, _, r := setupRouter()

	body, _ := json.Marshal(map[string]interface{}{"run_id": "123"})
	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestRunReport_Conflict(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RunReport")).Return(domain.ErrRunIDConflict)

	body, _ := json.Marshal(map[string]interface{}{
		"run_id": "17645210891", "workflow": "pregame",
		"status": "success", "trigger": "workflow_dispatch", "branch": "main",
	})
	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetRunReport(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	id := uuid.New()
	report := &domain.RunReport{
		ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		RunID: "123", Workflow: "pregame",
		Status: domain.RunStatusSuccess, Trigger: domain.TriggerPush, Branch: "main",
	}
	runRepo.On("GetByID", mock.Anything, id).Return(report, nil)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/runs/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRunReport_NotFound(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	id := uuid.New()
	runRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRunReportNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/runs/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFindRunReport(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	stored := &domain.RunReport{
		ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(),
		RunID: "17645210891", Workflow: "pregame",
		Status: domain.RunStatusSuccess, Trigger: domain.TriggerPush, Branch: "main",
	}
	runRepo.On("GetByRunID", mock.Anything, "17645210891").Return(stored, nil)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/run?run_id=17645210891", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "17645210891", resp["run_id"])
}

func TestFindRunReport_InvalidRunID(t *testing.T) {
	_, _, _, r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/run?run_id=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRunReports(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	reports := []*domain.RunReport{
		{
			ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now(),
			RunID: "1", Workflow: "pregame",
			Status: domain.RunStatusSuccess, Trigger: domain.TriggerSchedule, Branch: "main",
		},
	}
	runRepo.On("List", mock.Anything, mock.AnythingOfType("ports.RunListFilter")).Return(reports, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/runs?status=success", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}

func TestCompleteRunReport_AlreadyTerminal(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	id := uuid.New()
	terminal := &domain.RunReport{ID: id, RunID: "123", Status: domain.RunStatusSuccess}
	runRepo.On("GetByID", mock.Anything, id).Return(terminal, nil)

	body, _ := json.Marshal(map[string]string{"status": "failure"})
	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs/"+id.String()+"/complete", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSyncRunReport_IntegrationDisabled(t *testing.T) {
	_, _, _, r := setupRouter()

	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs/"+uuid.New().String()+"/sync", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetStatusDoc(t *testing.T) {
	runRepo, artifactRepo, _, r := setupRouter()

	id := uuid.New()
	report := &domain.RunReport{
		ID: id, RunID: "17645210891", Workflow: "pregame",
		Status: domain.RunStatusSuccess, Trigger: domain.TriggerWorkflowDispatch, Branch: "main",
	}
	runRepo.On("GetByID", mock.Anything, id).Return(report, nil)
	artifactRepo.On("ListByRun", mock.Anything, id).Return([]*domain.Artifact{
		{Path: "output/logs/props_pregame.log", Kind: domain.ArtifactKindLog},
	}, nil)
	artifactRepo.On("ListExternalByRun", mock.Anything, id).Return([]*domain.ExternalArtifact{
		{Name: "models-pregame"},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/runs/"+id.String()+"/report", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "**Run ID:** 17645210891")
	assert.Contains(t, w.Body.String(), "(if produced)")
}
