package models

import (
	"strings"

	"github.com/msoler-dev/envolvente/internal/geom"
)

// Use-label tokens from the Spanish cadastre. A construction record is
// conditioned living space when its free-text use label contains the
// dwelling token; common-infrastructure records are excluded from area
// totals entirely.
const (
	dwellingToken       = "VIVIENDA"
	commonElementsToken = "ELEMENTOS COMUNES"
)

// ConstructionRecord is one per-floor construction entry of a real-estate
// unit, as produced by the listing collaborator. Immutable once built.
type ConstructionRecord struct {
	Use       string `json:"use"`
	AreaM2    int    `json:"area_m2"`
	FloorCode string `json:"floor_code"`
	Door      string `json:"door,omitempty"`
	Stair     string `json:"stair,omitempty"`
	UnitRef   string `json:"unit_ref"`
}

// Heated reports whether the record describes conditioned dwelling space.
// The match is a case-insensitive substring test on the free-text use label.
func (r ConstructionRecord) Heated() bool {
	return strings.Contains(strings.ToUpper(r.Use), dwellingToken)
}

// Common reports whether the record is shared building infrastructure
// (stairwells, entrance halls), which counts toward neither heated nor
// unheated totals.
func (r ConstructionRecord) Common() bool {
	return strings.Contains(strings.ToUpper(r.Use), commonElementsToken)
}

// RealEstateUnit is one dwelling or premises inside the building, holding
// the construction records that belong to it.
type RealEstateUnit struct {
	Reference string               `json:"reference"`
	Records   []ConstructionRecord `json:"records"`
}

// HeatedAreaM2 sums the areas of the unit's dwelling-use records.
func (u RealEstateUnit) HeatedAreaM2() int {
	total := 0
	for _, r := range u.Records {
		if r.Heated() {
			total += r.AreaM2
		}
	}
	return total
}

// TotalAreaM2 sums the areas of all of the unit's records.
func (u RealEstateUnit) TotalAreaM2() int {
	total := 0
	for _, r := range u.Records {
		total += r.AreaM2
	}
	return total
}

// RawBuildingPart is a building-part description as extracted from the
// building-part collaborator, before footprint areas are derived.
type RawBuildingPart struct {
	Name              string       `json:"name,omitempty"`
	FloorsAbove       int          `json:"floors_above"`
	FloorsBelow       int          `json:"floors_below"`
	BelowGroundDepthM float64      `json:"below_ground_depth_m"`
	Footprint         geom.Polygon `json:"footprint,omitempty"`
}

// BuildingPart is a merged part of a multi-part building with its derived
// footprint area and estimated above-ground height.
type BuildingPart struct {
	Name              string       `json:"name"`
	FloorsAbove       int          `json:"floors_above"`
	FloorsBelow       int          `json:"floors_below"`
	BelowGroundDepthM float64      `json:"below_ground_depth_m"`
	Footprint         geom.Polygon `json:"footprint,omitempty"`
	FootprintAreaM2   float64      `json:"footprint_area_m2"`
	HeightM           float64      `json:"height_m"`
}

// FloorSketch carries the fine-grained per-floor sketch polygons for one
// floor, already split into heated and unheated space by the sketch
// collaborator. Coordinates are geographic (lon, lat).
type FloorSketch struct {
	FloorCode        string         `json:"floor_code"`
	HeatedPolygons   []geom.Polygon `json:"heated_polygons,omitempty"`
	UnheatedPolygons []geom.Polygon `json:"unheated_polygons,omitempty"`
}
