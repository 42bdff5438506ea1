package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/msoler-dev/envolvente/internal/envelope"
	"github.com/msoler-dev/envolvente/internal/logger"
	"github.com/msoler-dev/envolvente/internal/models"
)

// Construction year validation constants
const (
	MinConstructionYear = 1700
	MaxConstructionYear = 2100
)

// MaxFloorHeightM bounds the accepted story height override.
const MaxFloorHeightM = 10.0

// Service-level errors
var (
	ErrInvalidReference = errors.New("invalid cadastral reference")
	ErrNoHeatedArea     = errors.New("no heated area found")
	ErrInvalidYear      = errors.New("construction year out of range")
	ErrInvalidHeight    = errors.New("floor height out of range")
)

// AnalysisService defines the interface for envelope analysis operations.
type AnalysisService interface {
	// Analyze runs the envelope estimation over collaborator-produced
	// cadastral records.
	// Returns ErrInvalidReference if the reference fails its format check.
	// Returns ErrNoHeatedArea if the requested scope has no dwelling area.
	// Returns ErrInvalidYear or ErrInvalidHeight for out-of-range overrides.
	Analyze(ctx context.Context, in envelope.Input) (*models.AnalysisResult, error)
}

// analysisService is the concrete implementation of AnalysisService.
type analysisService struct {
	estimator *envelope.Estimator
	log       *logger.Logger
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(estimator *envelope.Estimator, log *logger.Logger) AnalysisService {
	return &analysisService{
		estimator: estimator,
		log:       log,
	}
}

// Analyze validates the request bounds, logs the run, and delegates to the
// estimator, translating engine errors into service-level errors.
func (s *analysisService) Analyze(ctx context.Context, in envelope.Input) (*models.AnalysisResult, error) {
	if in.ConstructionYear != 0 && (in.ConstructionYear < MinConstructionYear || in.ConstructionYear > MaxConstructionYear) {
		s.log.Warn("Invalid construction year provided", map[string]interface{}{
			"reference": in.Reference,
			"year":      in.ConstructionYear,
		})
		return nil, fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidYear, MinConstructionYear, MaxConstructionYear, in.ConstructionYear)
	}

	if in.FloorHeightM < 0 || in.FloorHeightM > MaxFloorHeightM {
		s.log.Warn("Invalid floor height provided", map[string]interface{}{
			"reference":      in.Reference,
			"floor_height_m": in.FloorHeightM,
		})
		return nil, fmt.Errorf("%w: must be between 0 and %.0f meters, got %.2f",
			ErrInvalidHeight, MaxFloorHeightM, in.FloorHeightM)
	}

	s.log.Info("Running envelope analysis", map[string]interface{}{
		"reference":   in.Reference,
		"target_unit": in.TargetUnit,
		"records":     len(in.Records),
		"parts":       len(in.Parts),
		"neighbors":   len(in.NeighborFootprints),
		"sketches":    len(in.Sketches),
	})

	result, err := s.estimator.Estimate(in)
	if err != nil {
		switch {
		case errors.Is(err, envelope.ErrInvalidReference):
			s.log.Warn("Reference failed format check", map[string]interface{}{
				"reference": in.Reference,
			})
			return nil, fmt.Errorf("%w: %s", ErrInvalidReference, in.Reference)
		case errors.Is(err, envelope.ErrNoHeatedArea):
			s.log.Warn("No heated area in requested scope", map[string]interface{}{
				"reference":   in.Reference,
				"target_unit": in.TargetUnit,
			})
			return nil, ErrNoHeatedArea
		default:
			s.log.Error("Envelope analysis failed", err, map[string]interface{}{
				"reference": in.Reference,
			})
			return nil, fmt.Errorf("failed to analyze reference: %w", err)
		}
	}

	s.log.Info("Envelope analysis complete", map[string]interface{}{
		"reference":      result.Reference,
		"kind":           result.Kind,
		"heated_area_m2": result.HeatedAreaM2,
		"exterior_walls": result.Envelope.ExteriorWalls,
		"roof":           result.Envelope.Roof,
		"fallbacks":      result.Fallbacks,
	})

	return result, nil
}
