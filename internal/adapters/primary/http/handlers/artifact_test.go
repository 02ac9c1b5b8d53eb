package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListRunArtifacts(t *testing.T) {
	runRepo, artifactRepo, _, r := setupRouter()

	runID := uuid.New()
	report := &domain.RunReport{ID: runID, Status: domain.RunStatusSuccess}
	artifacts := []*domain.Artifact{
		{
			ID: uuid.New(), RunReportID: runID,
			Path: "output/logs/props_pregame.log", Kind: domain.ArtifactKindLog,
			Produced: true, SizeBytes: 42, SHA256: "abc",
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		},
	}
	runRepo.On("GetByID", mock.Anything, runID).Return(report, nil)
	artifactRepo.On("ListByRun", mock.Anything, runID).Return(artifacts, nil)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/runs/"+runID.String()+"/artifacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}

func TestRecordRunArtifacts_TerminalReport(t *testing.T) {
	runRepo, _, _, r := setupRouter()

	runID := uuid.New()
	report := &domain.RunReport{ID: runID, Status: domain.RunStatusSuccess}
	runRepo.On("GetByID", mock.Anything, runID).Return(report, nil)

	body, _ := json.Marshal(map[string]interface{}{"paths": []string{"output/logs/late.log"}})
	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs/"+runID.String()+"/artifacts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecordRunArtifacts_EmptyBody(t *testing.T) {
	_, _, _, r := setupRouter()

	body, _ := json.Marshal(map[string]interface{}{"paths": []string{}})
	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs/"+uuid.New().String()+"/artifacts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanRunArtifacts(t *testing.T) {
	runRepo, artifactRepo, workspace, r := setupRouter()

	runID := uuid.New()
	report := &domain.RunReport{ID: runID, Status: domain.RunStatusSuccess}
	pending := &domain.Artifact{
		ID: uuid.New(), RunReportID: runID,
		Path: "output/logs/train.log", Kind: domain.ArtifactKindLog,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	runRepo.On("GetByID", mock.Anything, runID).Return(report, nil)
	artifactRepo.On("ListByRun", mock.Anything, runID).Return([]*domain.Artifact{pending}, nil)
	workspace.On("Stat", mock.Anything, "output/logs/train.log").Return(&ports.FileStat{
		SizeBytes: 42, SHA256: "abc",
	}, nil)
	artifactRepo.On("MarkProduced", mock.Anything, pending.ID, int64(42), "abc").Return(nil)

	req, _ := http.NewRequest("POST", "/api/v1/run-registry/runs/"+runID.String()+"/artifacts/scan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	artifactRepo.AssertCalled(t, "MarkProduced", mock.Anything, pending.ID, int64(42), "abc")
}

func TestGetArtifact_NotFound(t *testing.T) {
	_, artifactRepo, _, r := setupRouter()

	id := uuid.New()
	artifactRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrArtifactNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/artifacts/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListExternalArtifacts(t *testing.T) {
	runRepo, artifactRepo, _, r := setupRouter()

	runID := uuid.New()
	report := &domain.RunReport{ID: runID, Status: domain.RunStatusSuccess}
	externals := []*domain.ExternalArtifact{
		{ID: uuid.New(), RunReportID: runID, Name: "models-pregame", CreatedAt: time.Now()},
		{ID: uuid.New(), RunReportID: runID, Name: "nflverse-raw", CreatedAt: time.Now()},
	}
	runRepo.On("GetByID", mock.Anything, runID).Return(report, nil)
	artifactRepo.On("ListExternalByRun", mock.Anything, runID).Return(externals, nil)

	req, _ := http.NewRequest("GET", "/api/v1/run-registry/runs/"+runID.String()+"/external_artifacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(2), resp["total"])
}
