package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgedev/renata/internal/store"
	"github.com/edgedev/renata/internal/transform"
	"github.com/edgedev/renata/pkg/models"
)

type fakePipeline struct {
	result *models.TransformResult
	err    error
}

func (f *fakePipeline) Run(_ context.Context, _ models.TransformRequest, _ string) (*models.TransformResult, []models.GenerationAttempt, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.result, []models.GenerationAttempt{{AttemptNumber: 1}}, nil
}

func (f *fakePipeline) Classify(_ string) models.ClassificationResult {
	return models.ClassificationResult{Archetype: models.ArchetypeBacksideB, Confidence: 0.8}
}

func successResult() *models.TransformResult {
	return &models.TransformResult{
		Code:           "import pandas as pd",
		Report:         models.ValidationReport{OverallScore: 95, Status: models.StatusExcellent, CanDeploy: true},
		Attempts:       1,
		Classification: models.ClassificationResult{Archetype: models.ArchetypeBacksideB},
		FullyValidated: true,
	}
}

func newTestServer(pipeline Pipeline, apiKey string) *Server {
	return NewServer(pipeline, store.NewMemoryStore(), 0, apiKey)
}

func doJSON(s *Server, method, path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakePipeline{result: successResult()}, "")
	rec := doJSON(s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateTransformSuccess(t *testing.T) {
	s := newTestServer(&fakePipeline{result: successResult()}, "")
	rec := doJSON(s, http.MethodPost, "/api/v1/transforms",
		`{"source":"df['gap'] = df['open'] / df['close'] - 1","task":"format"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp transformResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.True(t, resp.Result.FullyValidated)

	// Session must be retrievable afterwards.
	rec = doJSON(s, http.MethodGet, "/api/v1/transforms/"+resp.SessionID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateTransformBadInput(t *testing.T) {
	s := newTestServer(&fakePipeline{err: transform.ErrSourceTooShort}, "")
	rec := doJSON(s, http.MethodPost, "/api/v1/transforms", `{"source":"df","task":"format"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTransformGenerationFailure(t *testing.T) {
	s := newTestServer(&fakePipeline{err: transform.ErrGenerationFailed}, "")
	rec := doJSON(s, http.MethodPost, "/api/v1/transforms", `{"source":"df['x'] = 1  # scanner","task":"format"}`, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(&fakePipeline{result: successResult()}, "secret")

	rec := doJSON(s, http.MethodPost, "/api/v1/classify", `{"source":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(s, http.MethodPost, "/api/v1/classify", `{"source":"x"}`, "secret")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open.
	rec = doJSON(s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTransformNotFound(t *testing.T) {
	s := newTestServer(&fakePipeline{result: successResult()}, "")
	rec := doJSON(s, http.MethodGet, "/api/v1/transforms/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTransforms(t *testing.T) {
	s := newTestServer(&fakePipeline{result: successResult()}, "")
	doJSON(s, http.MethodPost, "/api/v1/transforms",
		`{"source":"df['gap'] = df['open'] / df['close'] - 1","task":"format"}`, "")

	rec := doJSON(s, http.MethodGet, "/api/v1/transforms?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 1)
}

func TestClassifyEndpoint(t *testing.T) {
	s := newTestServer(&fakePipeline{result: successResult()}, "")
	rec := doJSON(s, http.MethodPost, "/api/v1/classify", `{"source":"adv20_min_usd = 30e6"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backside_b")
}
