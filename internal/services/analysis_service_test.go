package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msoler-dev/envolvente/internal/envelope"
	"github.com/msoler-dev/envolvente/internal/logger"
	"github.com/msoler-dev/envolvente/internal/models"
)

func newTestService() AnalysisService {
	estimator := envelope.NewEstimator(envelope.DefaultConfig())
	log := logger.New("test")
	return NewAnalysisService(estimator, log)
}

func validInput() envelope.Input {
	return envelope.Input{
		Reference: "9872023VH5797S",
		Records: []models.ConstructionRecord{
			{Use: "VIVIENDA", AreaM2: 100, FloorCode: "00", UnitRef: "9872023VH5797S0001WX"},
		},
	}
}

func TestAnalyze_Success(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	// Act
	result, err := service.Analyze(ctx, validInput())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "9872023VH5797S", result.Reference)
	assert.Equal(t, models.KindHouse, result.Kind)
	assert.Equal(t, 100, result.HeatedAreaM2)
	assert.Greater(t, result.Envelope.ExteriorWalls, 0.0)
}

func TestAnalyze_InvalidReference(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Reference = "NOT-A-REFERENCE"

	// Act
	result, err := service.Analyze(ctx, in)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestAnalyze_NoHeatedArea(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Records = []models.ConstructionRecord{
		{Use: "ALMACEN", AreaM2: 50, FloorCode: "00", UnitRef: "9872023VH5797S0001WX"},
	}

	// Act
	result, err := service.Analyze(ctx, in)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoHeatedArea)
}

func TestAnalyze_ConstructionYearTooLow(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	in := validInput()
	in.ConstructionYear = 1500

	// Act
	result, err := service.Analyze(ctx, in)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestAnalyze_ConstructionYearTooHigh(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	in := validInput()
	in.ConstructionYear = 2500

	// Act
	result, err := service.Analyze(ctx, in)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestAnalyze_ZeroYearMeansUnknown(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	in := validInput()
	in.ConstructionYear = 0

	// Act
	result, err := service.Analyze(ctx, in)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	// Unknown year lands in the 1979-2006 regulatory era.
	assert.Equal(t, models.GlazingDouble, result.Envelope.GlazingType)
}

func TestAnalyze_FloorHeightOutOfRange(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		height float64
	}{
		{"negative height", -1.0},
		{"above maximum", 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.FloorHeightM = tt.height

			// Act
			result, err := service.Analyze(ctx, in)

			// Assert
			assert.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidHeight)
		})
	}
}

func TestAnalyze_SingleUnitScope(t *testing.T) {
	// Arrange
	service := newTestService()
	ctx := context.Background()

	in := envelope.Input{
		Reference: "9872023VH5797S0001WX",
		Records: []models.ConstructionRecord{
			{Use: "VIVIENDA", AreaM2: 60, FloorCode: "00", UnitRef: "9872023VH5797S0001WX"},
			{Use: "VIVIENDA", AreaM2: 60, FloorCode: "00", UnitRef: "9872023VH5797S0002YZ"},
		},
	}

	// Act
	result, err := service.Analyze(ctx, in)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "9872023VH5797S0001WX", result.Reference)
	assert.Greater(t, result.Envelope.WallsToHeated, 0.0)
}
