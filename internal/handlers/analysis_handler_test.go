package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/msoler-dev/envolvente/internal/envelope"
	"github.com/msoler-dev/envolvente/internal/logger"
	"github.com/msoler-dev/envolvente/internal/middleware"
	"github.com/msoler-dev/envolvente/internal/models"
	"github.com/msoler-dev/envolvente/internal/services"
)

// MockAnalysisService is a mock implementation of AnalysisService for testing
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, in envelope.Input) (*models.AnalysisResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result, ok := args.Get(0).(*models.AnalysisResult)
	if !ok {
		return nil, args.Error(1)
	}
	return result, args.Error(1)
}

// setupAnalysisTestRouter creates a test router with middleware and the
// analyses route registered.
func setupAnalysisTestRouter(handler *AnalysisHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyses", handler.Analyze)
	}

	return router
}

func validAnalyzeBody() map[string]interface{} {
	return map[string]interface{}{
		"reference": "9872023VH5797S",
		"records": []map[string]interface{}{
			{
				"use_label":  "VIVIENDA",
				"area_m2":    100,
				"floor_code": "00",
				"unit_ref":   "9872023VH5797S0001WX",
			},
		},
	}
}

func postAnalyses(router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler_Success(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	expected := &models.AnalysisResult{
		Reference:    "9872023VH5797S",
		Kind:         models.KindHouse,
		HeatedAreaM2: 100,
		Envelope: models.ThermalEnvelope{
			ExteriorWalls: 108.0,
			FloorOnGround: 100,
			Roof:          100,
		},
	}
	mockService.On("Analyze", mock.Anything, mock.AnythingOfType("envelope.Input")).Return(expected, nil)

	// Act
	w := postAnalyses(router, validAnalyzeBody())

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response AnalysisResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	require.NotNil(t, response.Analysis)
	assert.Equal(t, "9872023VH5797S", response.Analysis.Reference)
	assert.Equal(t, models.KindHouse, response.Analysis.Kind)
	assert.Equal(t, 108.0, response.Analysis.Envelope.ExteriorWalls)

	mockService.AssertExpectations(t)
}

func TestAnalyzeHandler_PassesRequestThrough(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	var captured envelope.Input
	mockService.On("Analyze", mock.Anything, mock.AnythingOfType("envelope.Input")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(envelope.Input)
		}).
		Return(&models.AnalysisResult{}, nil)

	body := validAnalyzeBody()
	body["construction_year"] = 1995
	body["floor_height_m"] = 3.0
	body["parts"] = []map[string]interface{}{
		{
			"floors_above": 2,
			"footprint":    [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		},
	}

	// Act
	w := postAnalyses(router, body)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9872023VH5797S", captured.Reference)
	assert.Equal(t, 1995, captured.ConstructionYear)
	assert.Equal(t, 3.0, captured.FloorHeightM)
	require.Len(t, captured.Records, 1)
	assert.Equal(t, "VIVIENDA", captured.Records[0].Use)
	require.Len(t, captured.Parts, 1)
	assert.Equal(t, 2, captured.Parts[0].FloorsAbove)
	assert.Len(t, captured.Parts[0].Footprint, 4)
}

func TestAnalyzeHandler_ValidationErrors(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{
			name:   "missing reference",
			mutate: func(body map[string]interface{}) { delete(body, "reference") },
		},
		{
			name:   "reference too short",
			mutate: func(body map[string]interface{}) { body["reference"] = "SHORT" },
		},
		{
			name:   "missing records",
			mutate: func(body map[string]interface{}) { delete(body, "records") },
		},
		{
			name: "target unit wrong length",
			mutate: func(body map[string]interface{}) {
				body["target_unit"] = "9872023VH5797S"
			},
		},
		{
			name: "construction year out of range",
			mutate: func(body map[string]interface{}) {
				body["construction_year"] = 1200
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validAnalyzeBody()
			tt.mutate(body)

			// Act
			w := postAnalyses(router, body)

			// Assert
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		})
	}

	// The service is never reached on validation failures.
	mockService.AssertNotCalled(t, "Analyze")
}

func TestAnalyzeHandler_MalformedJSON(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}

func TestAnalyzeHandler_InvalidReference(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	mockService.On("Analyze", mock.Anything, mock.AnythingOfType("envelope.Input")).
		Return(nil, services.ErrInvalidReference)

	// Act
	w := postAnalyses(router, validAnalyzeBody())

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REFERENCE")
	mockService.AssertExpectations(t)
}

func TestAnalyzeHandler_NoHeatedArea(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	mockService.On("Analyze", mock.Anything, mock.AnythingOfType("envelope.Input")).
		Return(nil, services.ErrNoHeatedArea)

	// Act
	w := postAnalyses(router, validAnalyzeBody())

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "NO_HEATED_AREA")
	mockService.AssertExpectations(t)
}

func TestAnalyzeHandler_ServiceError(t *testing.T) {
	// Arrange
	mockService := new(MockAnalysisService)
	handler := NewAnalysisHandler(mockService)
	router := setupAnalysisTestRouter(handler)

	mockService.On("Analyze", mock.Anything, mock.AnythingOfType("envelope.Input")).
		Return(nil, assert.AnError)

	// Act
	w := postAnalyses(router, validAnalyzeBody())

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	mockService.AssertExpectations(t)
}
