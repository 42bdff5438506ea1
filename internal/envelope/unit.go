package envelope

import (
	"fmt"
	"math"

	"github.com/msoler-dev/envolvente/internal/building"
	"github.com/msoler-dev/envolvente/internal/classifier"
	"github.com/msoler-dev/envolvente/internal/geom"
	"github.com/msoler-dev/envolvente/internal/models"
)

// pure-LNC part matching tolerance: a part is taken to be the storage/garage
// volume when its footprint area matches an unheated-only floor this close.
const lncPartAreaToleranceM2 = 5.0

// estimateUnit computes the envelope of one real-estate unit. The shape of
// the computation follows the aggregate mode but every perimeter figure is
// first reduced to the unit's own share, since building-wide figures
// overstate a single unit's exposure.
func (e *Estimator) estimateUnit(res *models.AnalysisResult, cls classifier.Classification,
	bld building.Building, in Input, target string) error {

	unit := cls.Unit(target)
	if unit == nil || unit.HeatedAreaM2() == 0 {
		return fmt.Errorf("%w: unit %s", ErrNoHeatedArea, target)
	}

	h := res.FloorHeightM
	env := &res.Envelope
	unitFloors := cls.UnitFloors[target]
	heatedFloors := cls.UnitHeatedFloors(target)
	nHeated := float64(len(heatedFloors))
	totalHeated := float64(unit.HeatedAreaM2())
	perFloor := totalHeated / nHeated

	maxHeatedPerFloor := 0.0
	for _, f := range heatedFloors {
		if a := float64(unitFloors[f].Heated); a > maxHeatedPerFloor {
			maxHeatedPerFloor = a
		}
	}

	primary, ambiguous := bld.PrimaryPart(maxHeatedPerFloor)
	if ambiguous {
		res.AddFallback(models.FallbackAmbiguousPart)
	}

	pureLNCWall := e.pureLNCWallLength(bld, primary, unitFloors, heatedFloors)
	e.unitWallsToUnheated(res, in, unitFloors, heatedFloors, pureLNCWall, h)

	// Heated neighbors inside the building: other units with heated area on
	// one of this unit's floors.
	neighborCount, neighborArea := sameFloorNeighbors(cls, target, heatedFloors)

	// Walls shared with neighbor buildings concern the whole building, so
	// the shared length is prorated to this unit's share of its floor.
	sharedLen := 0.0
	if len(in.NeighborFootprints) > 0 {
		if outline := bld.LargestFootprint(); outline != nil {
			sharedLen, _ = geom.SharedEdgeWithNeighbors(outline.Footprint, in.NeighborFootprints, e.cfg.FootprintToleranceM)
			if sharedLen > 0 && neighborArea > 0 {
				sharedLen *= perFloor / (perFloor + neighborArea)
			}
			if sharedLen > 0 {
				env.WallsToHeated = sharedLen * h * nHeated
			}
		} else {
			res.AddFallback(models.FallbackNeighborsSkipped)
		}
	}

	var perim float64
	if primary != nil && len(primary.Footprint) > 0 {
		perim = primary.Footprint.Perimeter() - pureLNCWall - sharedLen
	} else {
		perim = 4*math.Sqrt(perFloor) - sharedLen
		res.AddFallback(models.FallbackSquarePerimeter)
	}
	perim = math.Max(perim, 0)

	// Units sharing a floor split the floor's perimeter by area share, and
	// the walls between them are adiabatic.
	if neighborCount > 0 {
		perim *= perFloor / (perFloor + neighborArea)
		env.WallsToHeated += math.Sqrt(perFloor) * h * float64(neighborCount)
		res.AddFallback(models.FallbackEstimatedUnitSide)
	}
	env.WallsToHeated = round1(env.WallsToHeated)

	wallArea := perim * h * nHeated
	distributeExteriorWalls(res, wallArea, bld.FacadeLengths())

	e.assignUnitFloor(res, cls, bld, unit, unitFloors, heatedFloors)

	heatedAt := func(code string) int { return unitFloors[code].Heated }
	applyAtticCheck(res, bld, primary, heatedAt, heatedFloors[len(heatedFloors)-1], cls.TopOccupiedFloor())

	finalizeFloorSurfaces(env)
	return nil
}

// pureLNCWallLength finds the real wall between the primary (dwelling) part
// and parts holding only unheated space. A part is matched to an
// unheated-only floor by footprint area; when dwelling and storage share one
// part this wall does not exist and the per-floor estimate applies instead.
func (e *Estimator) pureLNCWallLength(bld building.Building, primary *models.BuildingPart,
	unitFloors map[string]classifier.FloorAreas, heatedFloors []string) float64 {

	if primary == nil || len(bld.Parts) < 2 || len(primary.Footprint) == 0 {
		return 0
	}

	heatedSet := make(map[string]bool, len(heatedFloors))
	for _, f := range heatedFloors {
		heatedSet[f] = true
	}

	total := 0.0
	for i := range bld.Parts {
		p := &bld.Parts[i]
		if p == primary || len(p.Footprint) == 0 {
			continue
		}
		matched := false
		for code, areas := range unitFloors {
			if heatedSet[code] || areas.Unheated == 0 {
				continue
			}
			if math.Abs(p.FootprintAreaM2-float64(areas.Unheated)) < lncPartAreaToleranceM2 {
				matched = true
				break
			}
		}
		if matched {
			total += geom.SharedEdgeLength(primary.Footprint, p.Footprint, e.cfg.FootprintToleranceM)
		}
	}
	return total
}

// unitWallsToUnheated accumulates the walls between the unit's dwelling
// space and its unheated space: per cohabited floor via sketch or square
// estimate, via the real inter-part wall for unheated-only floors, or the
// last-resort square estimate over the whole unit.
func (e *Estimator) unitWallsToUnheated(res *models.AnalysisResult, in Input,
	unitFloors map[string]classifier.FloorAreas, heatedFloors []string, pureLNCWall, h float64) {

	env := &res.Envelope

	cohabited := 0
	pureLNCFloors := 0
	pureLNCArea := 0
	for _, areas := range unitFloors {
		if areas.Unheated == 0 {
			continue
		}
		if areas.Heated > 0 {
			cohabited++
		} else {
			pureLNCFloors++
			pureLNCArea += areas.Unheated
		}
	}

	for _, f := range heatedFloors {
		areas := unitFloors[f]
		if areas.Unheated == 0 {
			continue
		}
		if l := e.sketchWallLength(in.Sketches, f); l > 0 {
			env.WallsToUnheated += round1(l * h)
		} else {
			side := math.Min(math.Sqrt(float64(areas.Heated)), math.Sqrt(float64(areas.Unheated)))
			env.WallsToUnheated += round1(side * h)
			res.AddFallback(models.FallbackSqrtSharedWall)
		}
	}

	switch {
	case pureLNCWall > 0:
		floors := pureLNCFloors
		if floors < 1 {
			floors = 1
		}
		env.WallsToUnheated += round1(pureLNCWall * h * float64(floors))
	case cohabited == 0 && pureLNCFloors > 0:
		nHeated := float64(len(heatedFloors))
		heatedTotal := 0
		for _, f := range heatedFloors {
			heatedTotal += unitFloors[f].Heated
		}
		side := math.Min(math.Sqrt(float64(heatedTotal)/nHeated), math.Sqrt(float64(pureLNCArea)/nHeated))
		env.WallsToUnheated += round1(side * h * nHeated)
		res.AddFallback(models.FallbackSqrtSharedWall)
	}
	env.WallsToUnheated = round1(env.WallsToUnheated)
}

// sameFloorNeighbors counts the other units with heated area on any of the
// target unit's heated floors, and the heated area the largest cohabited
// floor contributes. Each neighbor counts once.
func sameFloorNeighbors(cls classifier.Classification, target string, heatedFloors []string) (int, float64) {
	count := 0
	area := 0.0
	for _, unit := range cls.Units {
		if unit.Reference == target {
			continue
		}
		floors := cls.UnitFloors[unit.Reference]
		for _, f := range heatedFloors {
			if a := floors[f].Heated; a > 0 {
				count++
				area += float64(a)
				break
			}
		}
	}
	return count, area
}

// assignUnitFloor assigns the unit's lowest heated floor to the proper
// floor category: ground contact, unheated space below, or another
// conditioned unit below (adiabatic).
func (e *Estimator) assignUnitFloor(res *models.AnalysisResult, cls classifier.Classification,
	bld building.Building, unit *models.RealEstateUnit, unitFloors map[string]classifier.FloorAreas,
	heatedFloors []string) {

	env := &res.Envelope
	lowest := heatedFloors[0]
	lowestIdx := classifier.FloorIndex(lowest)
	lowestArea := float64(unitFloors[lowest].Heated)

	basement := bld.HasBasement() || unitBasementInRecords(unit, unitFloors)

	switch {
	case lowestIdx <= -1:
		// Semi-basement dwelling sits on the ground. Unheated space beside
		// it carries the floor of the story above.
		env.FloorOnGround = lowestArea
		if lnc := unitFloors[lowest].Unheated; lnc > 0 {
			env.FloorOnUnheated = float64(lnc)
		}
	case lowestIdx == 0 && basement:
		env.FloorOnUnheated = lowestArea
	case lowestIdx == 0:
		env.FloorOnGround = lowestArea
	default:
		below := cls.Floors[classifier.FloorCodeForIndex(lowestIdx-1)]
		switch {
		case below.Heated > 0:
			env.FloorOnHeated = lowestArea
		case below.Unheated > 0:
			env.FloorOnUnheated = lowestArea
		default:
			env.FloorOnGround = lowestArea
		}
	}
}

// unitBasementInRecords is the construction-record basement fallback scoped
// to one unit's own records.
func unitBasementInRecords(unit *models.RealEstateUnit, unitFloors map[string]classifier.FloorAreas) bool {
	for _, rec := range unit.Records {
		if rec.Heated() || rec.Common() {
			continue
		}
		switch classifier.NormalizeFloorCode(rec.FloorCode) {
		case "-1", "-2", "SO":
			return true
		case "SM":
			if unitFloors["SM"].Heated == 0 {
				return true
			}
		}
	}
	return false
}
