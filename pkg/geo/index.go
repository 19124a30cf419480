package geo

import "github.com/twpayne/go-geom"

// Index answers which district a point falls in.
type Index struct {
	districts []District
	bounds    []*geom.Bounds
}

// NewIndex builds an index over ds. The slice is not copied.
func NewIndex(ds []District) *Index {
	ix := &Index{districts: ds, bounds: make([]*geom.Bounds, len(ds))}
	for i, d := range ds {
		ix.bounds[i] = d.Bounds()
	}
	return ix
}

// Locate returns the first district strictly containing the point.
// Points on a boundary or outside every district report false.
func (ix *Index) Locate(lon, lat float64) (District, bool) {
	p := geom.Coord{lon, lat}
	for i, d := range ix.districts {
		if !ix.bounds[i].OverlapsPoint(geom.XY, p) {
			continue
		}
		if d.Contains(lon, lat) {
			return d, true
		}
	}
	return District{}, false
}
