package geom

import "math"

// Shared-edge detection tolerances in meters.
// Cadastral footprint polygons (UTM) digitize shared boundaries to roughly
// half a meter; per-floor sketch polygons are finer.
const (
	FootprintTolerance = 0.5
	SketchTolerance    = 0.3
)

// Segments shorter than these thresholds are skipped: tiny edges are
// digitization noise and would double-count at polygon closures.
const (
	minSharedSegment = 0.1
	minFacadeSegment = 0.5
)

// Approximate meters per degree at the equator, used by the local
// equirectangular projection of geographic sketch polygons.
const (
	metersPerDegreeLon = 111320.0
	metersPerDegreeLat = 110540.0
)

// Area computes the polygon area using the Shoelace formula.
// The vertex loop is implicitly closed. Degenerate input (fewer than
// 3 vertices) yields 0.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	area := 0.0
	n := len(p)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(area) / 2
}

// Perimeter computes the total Euclidean edge length around the closed loop.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	perim := 0.0
	n := len(p)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		perim += dist(p[i], p[j])
	}
	return perim
}

// SharedEdgeLength returns the total length of edges of a that are shared
// with b: an edge counts in full iff both of its endpoints lie within
// tolerance of some vertex of b. This is a vertex-matching approximation,
// not a segment intersection test; curved or jagged shared boundaries whose
// intermediate points diverge are not detected.
func SharedEdgeLength(a, b Polygon, tolerance float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	length := 0.0
	n := len(a)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		seg := dist(a[i], a[j])
		if seg < minSharedSegment {
			continue
		}
		if nearVertex(a[i], b, tolerance) && nearVertex(a[j], b, tolerance) {
			length += seg
		}
	}
	return length
}

// SharedEdgeWithNeighbors computes the total boundary length that p shares
// with any of the neighbor polygons, along with the per-orientation
// breakdown of the shared segments. The explicit closing vertex of p, if
// present, is dropped so closure edges are not matched twice.
func SharedEdgeWithNeighbors(p Polygon, neighbors []Polygon, tolerance float64) (float64, FacadeLengths) {
	var facades FacadeLengths
	if len(p) == 0 || len(neighbors) == 0 {
		return 0, facades
	}

	open := p
	if len(open) > 1 && dist(open[0], open[len(open)-1]) < tolerance {
		open = open[:len(open)-1]
	}

	total := 0.0
	n := len(open)
	for _, neighbor := range neighbors {
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			v1, v2 := open[i], open[j]

			seg := dist(v1, v2)
			if seg < minFacadeSegment {
				continue
			}
			if !nearVertex(v1, neighbor, tolerance) || !nearVertex(v2, neighbor, tolerance) {
				continue
			}

			total += seg
			facades.add(OrientationOf(v2.X-v1.X, v2.Y-v1.Y), seg)
		}
	}
	return total, facades
}

// FacadeLengths sums the facade length of each edge of p by compass
// orientation. Edges shorter than half a meter are not binned (they still
// count toward Perimeter).
func (p Polygon) FacadeLengths() FacadeLengths {
	var facades FacadeLengths
	n := len(p)
	for i := 0; i < n-1; i++ {
		dx := p[i+1].X - p[i].X
		dy := p[i+1].Y - p[i].Y
		seg := math.Hypot(dx, dy)
		if seg <= minFacadeSegment {
			continue
		}
		facades.add(OrientationOf(dx, dy), seg)
	}
	return facades
}

// ProjectToLocalMeters converts a geographic (lon, lat) polygon into a local
// planar metric frame anchored at the polygon's first vertex, using an
// equirectangular approximation at the given reference latitude. Footprint
// polygons already in a planar metric system must not pass through here.
func ProjectToLocalMeters(p Polygon, refLat float64) Polygon {
	if len(p) == 0 {
		return nil
	}
	return ProjectToFrame(p, p[0], refLat)
}

// ProjectToFrame projects a geographic polygon into the planar frame
// anchored at origin. Polygons that must be compared against each other
// (shared-edge tests) have to share the same origin.
func ProjectToFrame(p Polygon, origin Point, refLat float64) Polygon {
	cosLat := math.Cos(refLat * math.Pi / 180)
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{
			X: (pt.X - origin.X) * metersPerDegreeLon * cosLat,
			Y: (pt.Y - origin.Y) * metersPerDegreeLat,
		}
	}
	return out
}

// MeanLat returns the average latitude (Y) of a geographic polygon, used as
// the reference latitude for projection. Returns 0 for an empty polygon.
func (p Polygon) MeanLat() float64 {
	if len(p) == 0 {
		return 0
	}
	sum := 0.0
	for _, pt := range p {
		sum += pt.Y
	}
	return sum / float64(len(p))
}

// GeoArea computes the area in m² of a polygon given in geographic (lon, lat)
// coordinates by projecting it at its mean latitude first.
func GeoArea(p Polygon) float64 {
	if len(p) < 3 {
		return 0
	}
	return ProjectToLocalMeters(p, p.MeanLat()).Area()
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func nearVertex(pt Point, poly Polygon, tolerance float64) bool {
	for _, v := range poly {
		if dist(pt, v) < tolerance {
			return true
		}
	}
	return false
}
