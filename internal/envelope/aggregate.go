package envelope

import (
	"math"

	"github.com/msoler-dev/envolvente/internal/building"
	"github.com/msoler-dev/envolvente/internal/classifier"
	"github.com/msoler-dev/envolvente/internal/geom"
	"github.com/msoler-dev/envolvente/internal/models"
)

// estimateAggregate computes the whole-building envelope: every heated floor
// summed, exterior walls from the dwelling part's perimeter, and the
// adiabatic surfaces between units folded in.
func (e *Estimator) estimateAggregate(res *models.AnalysisResult, cls classifier.Classification,
	bld building.Building, in Input) error {

	heatedFloors := cls.HeatedFloors()
	if len(heatedFloors) == 0 {
		return ErrNoHeatedArea
	}

	h := res.FloorHeightM
	env := &res.Envelope
	multiUnit := len(cls.Units) > 1

	maxHeatedPerFloor := 0
	for _, f := range heatedFloors {
		if a := cls.Floors[f].Heated; a > maxHeatedPerFloor {
			maxHeatedPerFloor = a
		}
	}

	primary, ambiguous := bld.PrimaryPart(float64(maxHeatedPerFloor))
	if ambiguous {
		res.AddFallback(models.FallbackAmbiguousPart)
	}

	// Dwelling perimeter: the primary part's real outline, or a square
	// footprint from the largest heated floor.
	var perim float64
	if primary != nil && len(primary.Footprint) > 0 {
		perim = primary.Footprint.Perimeter()
	} else {
		perim = 4 * math.Sqrt(float64(maxHeatedPerFloor))
		res.AddFallback(models.FallbackSquarePerimeter)
	}

	// Walls shared with heated neighbor buildings, scaled over every heated
	// floor. They reduce the exterior perimeter.
	sharedLen := 0.0
	nHeated := float64(len(heatedFloors))
	if len(in.NeighborFootprints) > 0 {
		if outline := bld.LargestFootprint(); outline != nil {
			sharedLen, _ = geom.SharedEdgeWithNeighbors(outline.Footprint, in.NeighborFootprints, e.cfg.FootprintToleranceM)
			if sharedLen > 0 {
				env.WallsToHeated = sharedLen * h * nHeated
			}
		} else {
			res.AddFallback(models.FallbackNeighborsSkipped)
		}
	}

	wallArea := math.Max(perim-sharedLen, 0) * h * nHeated
	distributeExteriorWalls(res, wallArea, bld.FacadeLengths())

	// Walls between dwelling and unheated space on the same floor. Tiered:
	// sketch polygons, then the real wall between building parts, then the
	// square-footprint estimate.
	interPart := bld.InterPartWallLength(e.cfg.FootprintToleranceM)
	for _, f := range heatedFloors {
		areas := cls.Floors[f]
		if areas.Unheated == 0 {
			continue
		}
		if l := e.sketchWallLength(in.Sketches, f); l > 0 {
			env.WallsToUnheated += l * h
		} else if interPart > 0 {
			env.WallsToUnheated += interPart * h
		} else {
			side := math.Min(math.Sqrt(float64(areas.Heated)), math.Sqrt(float64(areas.Unheated)))
			env.WallsToUnheated += side * h
			res.AddFallback(models.FallbackSqrtSharedWall)
		}
	}
	env.WallsToUnheated = round1(env.WallsToUnheated)

	basement := bld.HasBasement() || building.BasementInRecords(cls.Floors)
	e.assignFloors(res, cls, heatedFloors, basement, multiUnit)

	if multiUnit {
		e.sameFloorSharedWalls(res, cls, heatedFloors, h)
	}
	env.WallsToHeated = round1(env.WallsToHeated)

	heatedAt := func(code string) int { return cls.Floors[code].Heated }
	applyAtticCheck(res, bld, primary, heatedAt, heatedFloors[len(heatedFloors)-1], cls.TopOccupiedFloor())

	finalizeFloorSurfaces(env)
	return nil
}

// assignFloors distributes each heated floor's area among the floor
// categories by inspecting the floor immediately below: ground contact for
// the lowest heated floor at or below street level, unheated space, another
// conditioned unit (adiabatic), or a proportional split when the lower floor
// is mixed.
func (e *Estimator) assignFloors(res *models.AnalysisResult, cls classifier.Classification,
	heatedFloors []string, basement, multiUnit bool) {

	env := &res.Envelope

	lowest := heatedFloors[0]
	lowestArea := float64(cls.Floors[lowest].Heated)
	if idx := classifier.FloorIndex(lowest); idx > 0 {
		// Dwelling starting above street level (over a garage or shops):
		// whatever sits directly below decides the category, not the ground.
		// Nothing below the building-wide lowest heated floor can be heated.
		if below, ok := cls.Floors[classifier.FloorCodeForIndex(idx-1)]; ok && below.Unheated > 0 {
			env.FloorOnUnheated += lowestArea
		} else {
			env.FloorOnGround = lowestArea
		}
	} else if basement {
		env.FloorOnUnheated += lowestArea
	} else {
		env.FloorOnGround = lowestArea
	}

	for _, f := range heatedFloors[1:] {
		heated := float64(cls.Floors[f].Heated)
		below, ok := cls.Floors[classifier.FloorCodeForIndex(classifier.FloorIndex(f)-1)]
		if !ok {
			continue
		}
		total := float64(below.Heated + below.Unheated)
		switch {
		case below.Heated == 0 && below.Unheated > 0:
			env.FloorOnUnheated += heated
		case below.Heated > 0 && below.Unheated == 0:
			if multiUnit {
				env.FloorOnHeated += heated
			}
		case below.Heated > 0 && below.Unheated > 0:
			env.FloorOnUnheated += heated * float64(below.Unheated) / total
			if multiUnit {
				env.FloorOnHeated += heated * float64(below.Heated) / total
			}
		}
	}

	// Symmetric ceilings: a heated floor directly under another heated floor
	// has an adiabatic ceiling. Only meaningful between distinct units.
	if multiUnit {
		for _, f := range heatedFloors {
			above, ok := cls.Floors[classifier.FloorCodeForIndex(classifier.FloorIndex(f)+1)]
			if ok && above.Heated > 0 {
				env.CeilingUnderHeated += math.Min(float64(cls.Floors[f].Heated), float64(above.Heated))
			}
		}
	}
}

// sameFloorSharedWalls estimates the adiabatic walls between units sharing a
// floor: the smallest unit's square side, times one wall per adjacent pair.
func (e *Estimator) sameFloorSharedWalls(res *models.AnalysisResult, cls classifier.Classification,
	heatedFloors []string, h float64) {

	env := &res.Envelope
	for _, f := range heatedFloors {
		minSide := math.MaxFloat64
		count := 0
		for _, unit := range cls.Units {
			a := cls.UnitFloors[unit.Reference][f].Heated
			if a == 0 {
				continue
			}
			count++
			if side := math.Sqrt(float64(a)); side < minSide {
				minSide = side
			}
		}
		if count > 1 {
			env.WallsToHeated += minSide * h * float64(count-1)
			res.AddFallback(models.FallbackEstimatedUnitSide)
		}
	}
}
