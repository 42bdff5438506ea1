package envelope

import (
	"fmt"

	"github.com/msoler-dev/envolvente/internal/building"
	"github.com/msoler-dev/envolvente/internal/classifier"
	"github.com/msoler-dev/envolvente/internal/models"
)

// applyAtticCheck decides whether the analyzed scope reaches the building's
// topmost occupied floor. When it does, the top heated area becomes roof,
// plus any lower stepped-part roof not shadowed by a taller part. When it
// does not, the ceiling faces another conditioned space instead and an
// advisory is recorded.
//
// heatedAt reports the scope's heated area on a floor code; topFloorCode is
// the scope's highest heated floor and topOccupiedIdx the building's highest
// occupied floor index, heated or not.
func applyAtticCheck(res *models.AnalysisResult, bld building.Building, primary *models.BuildingPart,
	heatedAt func(code string) int, topFloorCode string, topOccupiedIdx int) {

	res.AtticFloor = topOccupiedIdx
	env := &res.Envelope
	topHeatedIdx := classifier.FloorIndex(topFloorCode)
	topArea := heatedAt(topFloorCode)

	if topHeatedIdx >= topOccupiedIdx {
		res.IsTopFloor = true
		env.Roof = float64(topArea)
		env.Roof += steppedRoofArea(bld, primary, heatedAt)
		return
	}

	res.IsTopFloor = false
	env.CeilingUnderHeated += float64(topArea)
	res.AtticAdvisory = atticAdvisory(res.Kind, topHeatedIdx, topOccupiedIdx)
}

// steppedRoofArea handles buildings whose primary part is lower than the
// tallest part: the primary part's own top heated floor is roofed too,
// minus the footprint of every taller part shadowing it.
func steppedRoofArea(bld building.Building, primary *models.BuildingPart, heatedAt func(code string) int) float64 {
	if primary == nil || len(bld.Parts) < 2 {
		return 0
	}
	maxFloors := bld.MaxFloorsAbove()
	if primary.FloorsAbove >= maxFloors {
		return 0
	}

	primaryTop := classifier.FloorCodeForIndex(primary.FloorsAbove - 1)
	area := float64(heatedAt(primaryTop))
	for _, p := range bld.Parts {
		if p.FloorsAbove > primary.FloorsAbove {
			area -= p.FootprintAreaM2
		}
	}
	if area < 0 {
		return 0
	}
	return area
}

func atticAdvisory(kind models.BuildingKind, unitTop, buildingTop int) string {
	if kind == models.KindApartmentBlock {
		return fmt.Sprintf(
			"no attic to insulate: the unit's top heated floor is %02d but the building's top occupied floor is %02d; the ceiling faces another conditioned dwelling and is adiabatic",
			unitTop, buildingTop)
	}
	return fmt.Sprintf(
		"the dwelling does not reach the top floor: its top heated floor is %02d and spaces exist above up to floor %02d; check whether the ceiling faces unheated or conditioned space",
		unitTop, buildingTop)
}
