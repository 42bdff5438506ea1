// Package building merges raw building-part descriptions into a coherent
// multi-part building model with derived footprint geometry.
package building

import (
	"fmt"
	"math"

	"github.com/msoler-dev/envolvente/internal/classifier"
	"github.com/msoler-dev/envolvente/internal/geom"
	"github.com/msoler-dev/envolvente/internal/models"
)

// EstimatedFloorHeightM is the assumed story height when part heights are
// not reported by the cadastre.
const EstimatedFloorHeightM = 3.0

// Building is a small, fixed-size ordered collection of parts. Parts are
// looked up by index; there is no object graph.
type Building struct {
	Parts []models.BuildingPart
}

// New derives a Building from the collaborator-supplied raw parts. Footprint
// areas come from the shoelace formula; part heights are estimated from the
// floor count. Missing floor counts default to a single floor.
func New(raw []models.RawBuildingPart) Building {
	parts := make([]models.BuildingPart, 0, len(raw))
	for i, rp := range raw {
		floorsAbove := rp.FloorsAbove
		if floorsAbove < 1 {
			floorsAbove = 1
		}
		name := rp.Name
		if name == "" {
			name = fmt.Sprintf("Part %d", i+1)
		}
		parts = append(parts, models.BuildingPart{
			Name:              name,
			FloorsAbove:       floorsAbove,
			FloorsBelow:       rp.FloorsBelow,
			BelowGroundDepthM: rp.BelowGroundDepthM,
			Footprint:         rp.Footprint,
			FootprintAreaM2:   round1(rp.Footprint.Area()),
			HeightM:           float64(floorsAbove) * EstimatedFloorHeightM,
		})
	}
	return Building{Parts: parts}
}

// MaxFloorsAbove returns the highest above-ground floor count among the
// parts, defaulting to 1 for a building with no part data.
func (b Building) MaxFloorsAbove() int {
	max := 1
	for _, p := range b.Parts {
		if p.FloorsAbove > max {
			max = p.FloorsAbove
		}
	}
	return max
}

// MaxHeightM returns the tallest part height, or 0 with no part data.
func (b Building) MaxHeightM() float64 {
	max := 0.0
	for _, p := range b.Parts {
		if p.HeightM > max {
			max = p.HeightM
		}
	}
	return max
}

// HasBasement reports whether any part declares below-ground floors.
func (b Building) HasBasement() bool {
	for _, p := range b.Parts {
		if p.FloorsBelow > 0 {
			return true
		}
	}
	return false
}

// LargestFootprint returns the part with the largest derived footprint
// area, used as the building outline when matching against neighbors.
// Returns nil when no part carries a polygon.
func (b Building) LargestFootprint() *models.BuildingPart {
	var best *models.BuildingPart
	for i := range b.Parts {
		p := &b.Parts[i]
		if len(p.Footprint) == 0 {
			continue
		}
		if best == nil || p.FootprintAreaM2 > best.FootprintAreaM2 {
			best = p
		}
	}
	return best
}

// FacadeLengths sums the per-orientation facade lengths over every part
// footprint, approximating the whole-building facade distribution.
func (b Building) FacadeLengths() geom.FacadeLengths {
	var total geom.FacadeLengths
	for _, p := range b.Parts {
		f := p.Footprint.FacadeLengths()
		total.North += f.North
		total.South += f.South
		total.East += f.East
		total.West += f.West
	}
	return total
}

// PrimaryPart selects the dwelling-bearing part: the one whose footprint
// area is numerically closest to the per-floor heated area observed by the
// classifier. When two candidates are equally close the one with more
// floors wins and the selection is flagged ambiguous. Returns nil when no
// part carries a footprint polygon.
func (b Building) PrimaryPart(perFloorHeatedAreaM2 float64) (part *models.BuildingPart, ambiguous bool) {
	var best *models.BuildingPart
	bestDiff := math.MaxFloat64
	for i := range b.Parts {
		p := &b.Parts[i]
		if p.FootprintAreaM2 <= 0 {
			continue
		}
		diff := math.Abs(p.FootprintAreaM2 - perFloorHeatedAreaM2)
		switch {
		case diff < bestDiff:
			best, bestDiff, ambiguous = p, diff, false
		case diff == bestDiff && best != nil:
			ambiguous = true
			if p.FloorsAbove > best.FloorsAbove {
				best = p
			}
		}
	}
	return best, ambiguous
}

// InterPartWallLength sums the shared-edge length between every pair of
// distinct parts, the wall a dwelling part shares with an adjoining
// storage or garage part.
func (b Building) InterPartWallLength(tolerance float64) float64 {
	total := 0.0
	for i := 0; i < len(b.Parts); i++ {
		for j := i + 1; j < len(b.Parts); j++ {
			if len(b.Parts[i].Footprint) == 0 || len(b.Parts[j].Footprint) == 0 {
				continue
			}
			total += geom.SharedEdgeLength(b.Parts[i].Footprint, b.Parts[j].Footprint, tolerance)
		}
	}
	return total
}

// BasementInRecords is the construction-record fallback for basement
// detection when no part declares below-ground floors: an unheated record
// at floor -1, -2 or SO indicates a basement, and SM does only when that
// floor has no heated record at all (a semi-basement with dwelling space is
// an effective ground floor).
func BasementInRecords(floors map[string]classifier.FloorAreas) bool {
	for code, areas := range floors {
		if areas.Unheated == 0 {
			continue
		}
		switch code {
		case "-1", "-2", "SO":
			return true
		case "SM":
			if areas.Heated == 0 {
				return true
			}
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
