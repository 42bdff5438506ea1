// Package classifier groups raw per-floor construction records into
// real-estate units and floors, and decides which records describe
// conditioned (dwelling) space.
package classifier

import (
	"sort"
	"strconv"
	"strings"

	"github.com/msoler-dev/envolvente/internal/models"
)

// NormalizeFloorCode maps the cadastre's ground-floor aliases (B, BJ, BAJA)
// to "00" and upper-cases and trims everything else verbatim. An empty code
// defaults to the ground floor.
func NormalizeFloorCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch c {
	case "", "B", "BJ", "BAJA":
		return "00"
	}
	return c
}

// FloorIndex orders floor codes vertically: numeric codes (including
// negative basements) by value, semi-basement codes SM/SO/SS as -1, and any
// other non-numeric code as ground level.
func FloorIndex(code string) int {
	c := NormalizeFloorCode(code)
	if n, err := strconv.Atoi(c); err == nil {
		return n
	}
	switch c {
	case "SM", "SO", "SS":
		return -1
	}
	return 0
}

// FloorCodeForIndex is the inverse of FloorIndex for numeric floors:
// non-negative indices are zero-padded to two digits, basements keep their
// sign ("-1", "-2").
func FloorCodeForIndex(idx int) string {
	if idx < 0 {
		return strconv.Itoa(idx)
	}
	code := strconv.Itoa(idx)
	if len(code) < 2 {
		code = "0" + code
	}
	return code
}

// FloorAreas is the heated/unheated area breakdown of one floor, in m².
type FloorAreas struct {
	Heated   int
	Unheated int
}

// Classification is the grouped view of a building's construction records.
type Classification struct {
	// Units in first-seen order of their unit reference.
	Units []models.RealEstateUnit
	// Floors maps normalized floor code to the building-wide area breakdown.
	Floors map[string]FloorAreas
	// UnitFloors maps unit reference to its own per-floor breakdown.
	UnitFloors map[string]map[string]FloorAreas
}

// Classify groups construction records by unit and by normalized floor
// code. Common-infrastructure records stay attached to their unit but are
// excluded from every area total.
func Classify(records []models.ConstructionRecord) Classification {
	c := Classification{
		Floors:     make(map[string]FloorAreas),
		UnitFloors: make(map[string]map[string]FloorAreas),
	}

	unitIndex := make(map[string]int)
	for _, rec := range records {
		rec.FloorCode = NormalizeFloorCode(rec.FloorCode)

		idx, seen := unitIndex[rec.UnitRef]
		if !seen {
			idx = len(c.Units)
			unitIndex[rec.UnitRef] = idx
			c.Units = append(c.Units, models.RealEstateUnit{Reference: rec.UnitRef})
			c.UnitFloors[rec.UnitRef] = make(map[string]FloorAreas)
		}
		c.Units[idx].Records = append(c.Units[idx].Records, rec)

		if rec.Common() {
			continue
		}

		floor := c.Floors[rec.FloorCode]
		unitFloor := c.UnitFloors[rec.UnitRef][rec.FloorCode]
		if rec.Heated() {
			floor.Heated += rec.AreaM2
			unitFloor.Heated += rec.AreaM2
		} else {
			floor.Unheated += rec.AreaM2
			unitFloor.Unheated += rec.AreaM2
		}
		c.Floors[rec.FloorCode] = floor
		c.UnitFloors[rec.UnitRef][rec.FloorCode] = unitFloor
	}

	return c
}

// HeatedFloors returns the floor codes with heated area, ordered bottom-up.
func (c Classification) HeatedFloors() []string {
	return filterFloors(c.Floors, func(a FloorAreas) bool { return a.Heated > 0 })
}

// UnheatedOnlyFloors returns the floor codes that carry unheated area and
// no heated area at all, ordered bottom-up.
func (c Classification) UnheatedOnlyFloors() []string {
	return filterFloors(c.Floors, func(a FloorAreas) bool { return a.Heated == 0 && a.Unheated > 0 })
}

// UnitHeatedFloors returns the floor codes on which the given unit has
// heated area, ordered bottom-up.
func (c Classification) UnitHeatedFloors(ref string) []string {
	return filterFloors(c.UnitFloors[ref], func(a FloorAreas) bool { return a.Heated > 0 })
}

// Unit returns the unit with the given reference, or nil.
func (c Classification) Unit(ref string) *models.RealEstateUnit {
	for i := range c.Units {
		if c.Units[i].Reference == ref {
			return &c.Units[i]
		}
	}
	return nil
}

// TopOccupiedFloor returns the highest numeric floor index occupied by any
// record, heated or not. Non-numeric codes count as ground level.
func (c Classification) TopOccupiedFloor() int {
	top := 0
	for code := range c.Floors {
		if idx := FloorIndex(code); idx > top {
			top = idx
		}
	}
	return top
}

func filterFloors(floors map[string]FloorAreas, keep func(FloorAreas) bool) []string {
	var out []string
	for code, areas := range floors {
		if keep(areas) {
			out = append(out, code)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		fi, fj := FloorIndex(out[i]), FloorIndex(out[j])
		if fi != fj {
			return fi < fj
		}
		return out[i] < out[j]
	})
	return out
}

// SketchCodeHeated reports whether a sketch use code (before any "."
// suffix) denotes conditioned dwelling space.
func SketchCodeHeated(code string) bool {
	switch sketchBaseCode(code) {
	case "V", "VIV":
		return true
	}
	return false
}

// SketchCodeUnheated reports whether a sketch use code denotes unheated
// space such as parking or storage.
func SketchCodeUnheated(code string) bool {
	switch sketchBaseCode(code) {
	case "AAP", "ALM", "K", "TRS":
		return true
	}
	return false
}

func sketchBaseCode(code string) string {
	base, _, _ := strings.Cut(code, ".")
	return strings.ToUpper(strings.TrimSpace(base))
}
