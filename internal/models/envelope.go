package models

// Estimated glazing types by regulatory era.
const (
	GlazingSingle    = "single"
	GlazingDouble    = "double 4/6/4"
	GlazingDoubleLoE = "double low-emissivity"
)

// Estimated frame types by regulatory era.
const (
	FrameWood           = "wood"
	FrameMetalNoThermal = "metal without thermal break"
	FramePVC            = "PVC"
)

// ThermalEnvelope is the accumulator of envelope surface quantities, in m².
// It is written to incrementally during estimation and immutable once the
// analysis result is returned. Adiabatic surfaces (shared with another
// conditioned space) are tracked separately from the true exterior envelope.
type ThermalEnvelope struct {
	ExteriorWalls      float64 `json:"exterior_walls"`
	ExteriorWallsNorth float64 `json:"exterior_walls_north"`
	ExteriorWallsSouth float64 `json:"exterior_walls_south"`
	ExteriorWallsEast  float64 `json:"exterior_walls_east"`
	ExteriorWallsWest  float64 `json:"exterior_walls_west"`

	// Walls against unheated space (storage, garage) in the same building.
	WallsToUnheated float64 `json:"walls_to_unheated"`
	// Walls against another conditioned space; adiabatic.
	WallsToHeated float64 `json:"walls_to_heated"`

	FloorOnGround   float64 `json:"floor_on_ground"`
	FloorOnUnheated float64 `json:"floor_on_unheated"`
	// Floor above another conditioned space; adiabatic.
	FloorOnHeated float64 `json:"floor_on_heated"`
	// Ceiling below another conditioned space; adiabatic.
	CeilingUnderHeated float64 `json:"ceiling_under_heated"`
	Roof               float64 `json:"roof"`

	Windows      float64 `json:"windows"`
	WindowsNorth float64 `json:"windows_north"`
	WindowsSouth float64 `json:"windows_south"`
	WindowsEast  float64 `json:"windows_east"`
	WindowsWest  float64 `json:"windows_west"`

	GlazingType     string  `json:"glazing_type,omitempty"`
	FrameType       string  `json:"frame_type,omitempty"`
	WindowWallRatio float64 `json:"window_wall_ratio,omitempty"`
}

// BuildingKind classifies the analyzed building from its unit count.
type BuildingKind string

const (
	KindHouse          BuildingKind = "house"
	KindApartmentBlock BuildingKind = "apartment_building"
	KindUnknown        BuildingKind = "unknown"
)

// Fallback annotations recorded on the result whenever a degraded-geometry
// heuristic was used, for downstream confidence reporting.
const (
	FallbackSquarePerimeter   = "square_footprint_perimeter"
	FallbackEvenOrientation   = "even_orientation_split"
	FallbackSqrtSharedWall    = "sqrt_shared_wall_estimate"
	FallbackNeighborsSkipped  = "neighbor_sharing_unavailable"
	FallbackAmbiguousPart     = "ambiguous_primary_part"
	FallbackEstimatedUnitSide = "estimated_unit_side"
)

// AnalysisResult is the terminal aggregate of one estimation run.
type AnalysisResult struct {
	Reference        string       `json:"reference"`
	Kind             BuildingKind `json:"kind"`
	ConstructionYear int          `json:"construction_year,omitempty"`

	FloorCount   int     `json:"floor_count"`
	FloorHeightM float64 `json:"floor_height_m"`
	HeatedAreaM2 int     `json:"heated_area_m2"`
	TotalAreaM2  int     `json:"total_area_m2"`

	Units []RealEstateUnit `json:"units"`
	Parts []BuildingPart   `json:"parts,omitempty"`

	Envelope ThermalEnvelope `json:"envelope"`

	// Attic access findings: whether the analyzed scope reaches the
	// building's topmost occupied floor, and an advisory when it does not.
	IsTopFloor    bool   `json:"is_top_floor"`
	AtticFloor    int    `json:"attic_floor"`
	AtticAdvisory string `json:"attic_advisory,omitempty"`

	// Degraded-geometry heuristics used during this run.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// AddFallback records a fallback annotation once.
func (r *AnalysisResult) AddFallback(name string) {
	for _, f := range r.Fallbacks {
		if f == name {
			return
		}
	}
	r.Fallbacks = append(r.Fallbacks, name)
}
