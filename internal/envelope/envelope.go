// Package envelope implements the thermal-envelope estimation engine: a
// deterministic, single-pass transform from cadastral construction records
// and building geometry to envelope surface quantities. The engine performs
// no I/O; collaborators hand it already-materialized records.
package envelope

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/msoler-dev/envolvente/internal/building"
	"github.com/msoler-dev/envolvente/internal/classifier"
	"github.com/msoler-dev/envolvente/internal/geom"
	"github.com/msoler-dev/envolvente/internal/models"
)

// Engine-level errors. Both are fatal: no envelope is computed.
var (
	// ErrInvalidReference means the cadastral reference fails the fixed
	// 14-or-20 alphanumeric format check.
	ErrInvalidReference = errors.New("invalid cadastral reference")
	// ErrNoHeatedArea means classification found zero heated area for the
	// requested scope, so no envelope can be meaningfully computed.
	ErrNoHeatedArea = errors.New("no heated area found")
)

var referencePattern = regexp.MustCompile(`^[0-9A-Z]{14}([0-9A-Z]{6})?$`)

// Config holds the engine's tunable defaults. The estimator is a pure
// function of its input and this configuration; there is no process-wide
// state.
type Config struct {
	// FloorHeightM is the assumed story height when neither the input nor
	// the building parts provide one.
	FloorHeightM float64
	// FootprintToleranceM is the vertex-matching tolerance for footprint
	// polygons in a planar metric system.
	FootprintToleranceM float64
	// SketchToleranceM is the tolerance for fine-grained sketch polygons.
	SketchToleranceM float64
	// DefaultYear stands in for an unknown construction year. 1980 lands
	// in the middle regulatory era bucket.
	DefaultYear int
}

// DefaultConfig returns the engine defaults tuned to Spanish cadastral
// conventions.
func DefaultConfig() Config {
	return Config{
		FloorHeightM:        2.7,
		FootprintToleranceM: geom.FootprintTolerance,
		SketchToleranceM:    geom.SketchTolerance,
		DefaultYear:         1980,
	}
}

// Input is the full set of collaborator-produced records for one run.
type Input struct {
	// Reference is the 14-character building reference, or a 20-character
	// unit reference which selects single-unit mode.
	Reference string
	// TargetUnit optionally scopes the estimate to one real-estate unit;
	// implied by a 20-character Reference.
	TargetUnit string
	// ConstructionYear of the building; 0 means unknown.
	ConstructionYear int
	// FloorHeightM overrides the derived story height when positive.
	FloorHeightM float64

	Records            []models.ConstructionRecord
	Parts              []models.RawBuildingPart
	NeighborFootprints []geom.Polygon
	Sketches           []models.FloorSketch
}

// Estimator computes thermal envelopes. Safe to reuse across runs.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an Estimator, filling unset config fields with the
// defaults.
func NewEstimator(cfg Config) *Estimator {
	def := DefaultConfig()
	if cfg.FloorHeightM <= 0 {
		cfg.FloorHeightM = def.FloorHeightM
	}
	if cfg.FootprintToleranceM <= 0 {
		cfg.FootprintToleranceM = def.FootprintToleranceM
	}
	if cfg.SketchToleranceM <= 0 {
		cfg.SketchToleranceM = def.SketchToleranceM
	}
	if cfg.DefaultYear <= 0 {
		cfg.DefaultYear = def.DefaultYear
	}
	return &Estimator{cfg: cfg}
}

// NormalizeReference upper-cases a cadastral reference and strips
// whitespace, the form the format check expects.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ref), " ", ""))
}

// Estimate runs the full pipeline: reference validation, classification,
// building modelling, envelope estimation in aggregate or single-unit mode,
// window estimation and the attic access check. Identical inputs always
// produce identical results.
func (e *Estimator) Estimate(in Input) (*models.AnalysisResult, error) {
	ref := NormalizeReference(in.Reference)
	if !referencePattern.MatchString(ref) {
		return nil, fmt.Errorf("%w: %q is not 14 or 20 alphanumeric characters", ErrInvalidReference, in.Reference)
	}

	target := NormalizeReference(in.TargetUnit)
	if target == "" && len(ref) == 20 {
		target = ref
	}
	if target != "" && !referencePattern.MatchString(target) {
		return nil, fmt.Errorf("%w: target unit %q", ErrInvalidReference, in.TargetUnit)
	}

	cls := classifier.Classify(in.Records)
	bld := building.New(in.Parts)

	res := &models.AnalysisResult{
		Reference:        ref,
		Kind:             buildingKind(len(cls.Units)),
		ConstructionYear: in.ConstructionYear,
		FloorCount:       bld.MaxFloorsAbove(),
		Units:            cls.Units,
		Parts:            bld.Parts,
	}
	if target != "" {
		res.Reference = target
	}
	for _, u := range cls.Units {
		res.HeatedAreaM2 += u.HeatedAreaM2()
		res.TotalAreaM2 += u.TotalAreaM2()
	}
	res.FloorHeightM = e.floorHeight(in, bld)

	var err error
	if target != "" {
		err = e.estimateUnit(res, cls, bld, in, target)
	} else {
		err = e.estimateAggregate(res, cls, bld, in)
	}
	if err != nil {
		return nil, err
	}

	year := in.ConstructionYear
	if year == 0 {
		year = e.cfg.DefaultYear
	}
	estimateWindows(year, &res.Envelope)

	return res, nil
}

// floorHeight derives the story height: explicit input wins, then the
// tallest part height divided by the floor count, then the config default.
func (e *Estimator) floorHeight(in Input, bld building.Building) float64 {
	if in.FloorHeightM > 0 {
		return in.FloorHeightM
	}
	if h := bld.MaxHeightM(); h > 0 {
		return round2(h / float64(bld.MaxFloorsAbove()))
	}
	return e.cfg.FloorHeightM
}

func buildingKind(unitCount int) models.BuildingKind {
	switch {
	case unitCount == 0:
		return models.KindUnknown
	case unitCount == 1:
		return models.KindHouse
	default:
		return models.KindApartmentBlock
	}
}

// distributeExteriorWalls splits a total exterior wall area across the four
// orientation bins proportionally to the building's facade lengths, or
// evenly when no orientation data exists.
func distributeExteriorWalls(res *models.AnalysisResult, wallArea float64, facades geom.FacadeLengths) {
	env := &res.Envelope
	if total := facades.Total(); total > 0 {
		env.ExteriorWallsNorth = round1(wallArea * facades.North / total)
		env.ExteriorWallsSouth = round1(wallArea * facades.South / total)
		env.ExteriorWallsEast = round1(wallArea * facades.East / total)
		env.ExteriorWallsWest = round1(wallArea * facades.West / total)
	} else {
		quarter := round1(wallArea / 4)
		env.ExteriorWallsNorth = quarter
		env.ExteriorWallsSouth = quarter
		env.ExteriorWallsEast = quarter
		env.ExteriorWallsWest = quarter
		res.AddFallback(models.FallbackEvenOrientation)
	}
	env.ExteriorWalls = round1(env.ExteriorWallsNorth + env.ExteriorWallsSouth +
		env.ExteriorWallsEast + env.ExteriorWallsWest)
}

// sketchWallLength computes the heated/unheated shared wall length on one
// floor from its fine-grained sketch polygons: the largest heated polygon
// matched against every unheated polygon, all projected into a common local
// frame. Returns 0 when no usable sketch exists for the floor.
func (e *Estimator) sketchWallLength(sketches []models.FloorSketch, floor string) float64 {
	for _, s := range sketches {
		if classifier.NormalizeFloorCode(s.FloorCode) != floor {
			continue
		}
		if len(s.HeatedPolygons) == 0 || len(s.UnheatedPolygons) == 0 {
			return 0
		}

		var heated geom.Polygon
		bestArea := -1.0
		for _, p := range s.HeatedPolygons {
			if a := geom.GeoArea(p); a > bestArea {
				heated, bestArea = p, a
			}
		}
		if len(heated) == 0 {
			return 0
		}

		refLat := heated.MeanLat()
		origin := heated[0]
		heatedM := geom.ProjectToFrame(heated, origin, refLat)

		total := 0.0
		for _, lnc := range s.UnheatedPolygons {
			lncM := geom.ProjectToFrame(lnc, origin, refLat)
			total += geom.SharedEdgeLength(heatedM, lncM, e.cfg.SketchToleranceM)
		}
		return total
	}
	return 0
}

// finalizeFloorSurfaces applies the presentation rounding for floor,
// ceiling and roof figures (whole square meters). Walls and windows keep
// one decimal and are rounded at assignment.
func finalizeFloorSurfaces(env *models.ThermalEnvelope) {
	env.FloorOnGround = round0(env.FloorOnGround)
	env.FloorOnUnheated = round0(env.FloorOnUnheated)
	env.FloorOnHeated = round0(env.FloorOnHeated)
	env.CeilingUnderHeated = round0(env.CeilingUnderHeated)
	env.Roof = round0(env.Roof)
}

func round0(v float64) float64 { return math.Round(v) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
