package envelope

import "github.com/msoler-dev/envolvente/internal/models"

// Spanish regulatory eras for glazing. Before 1979 there was no thermal
// regulation; NBE-CT-79 covers 1979-2006; CTE DB-HE applies from 2007.
type windowSpec struct {
	ratio   float64
	glazing string
	frame   string
}

func windowSpecForYear(year int) windowSpec {
	switch {
	case year < 1979:
		return windowSpec{ratio: 0.12, glazing: models.GlazingSingle, frame: models.FrameWood}
	case year < 2007:
		return windowSpec{ratio: 0.18, glazing: models.GlazingDouble, frame: models.FrameMetalNoThermal}
	default:
		return windowSpec{ratio: 0.22, glazing: models.GlazingDoubleLoE, frame: models.FramePVC}
	}
}

// South facades historically carry more openings for solar gain, north
// facades fewer to limit losses.
const (
	southWindowFactor = 1.3
	northWindowFactor = 0.7
)

// estimateWindows derives glazing area per orientation from the exterior
// wall areas and the construction year's regulatory era. No-op when no
// exterior wall area exists.
func estimateWindows(year int, env *models.ThermalEnvelope) {
	if env.ExteriorWalls == 0 {
		return
	}

	ws := windowSpecForYear(year)

	env.WindowsNorth = round1(env.ExteriorWallsNorth * ws.ratio * northWindowFactor)
	env.WindowsSouth = round1(env.ExteriorWallsSouth * ws.ratio * southWindowFactor)
	env.WindowsEast = round1(env.ExteriorWallsEast * ws.ratio)
	env.WindowsWest = round1(env.ExteriorWallsWest * ws.ratio)
	env.Windows = round1(env.WindowsNorth + env.WindowsSouth + env.WindowsEast + env.WindowsWest)

	env.GlazingType = ws.glazing
	env.FrameType = ws.frame
	env.WindowWallRatio = round2(ws.ratio)
}
