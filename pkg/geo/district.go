// Package geo loads legislative district boundaries and places points inside them.
package geo

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// NameProperty is the GeoJSON property holding a district's name.
const NameProperty = "district_name"

// District is a named boundary made of one or more polygons.
type District struct {
	// Name is the district identifier as text, e.g. "14".
	Name string
	// Geometry holds the district polygons in lon/lat order.
	Geometry *geom.MultiPolygon
}

// Bounds returns the bounding box of the district.
func (d District) Bounds() *geom.Bounds {
	return d.Geometry.Bounds()
}

// LatLngBounds returns the bounding box as [[south, west], [north, east]],
// the order Leaflet expects.
func (d District) LatLngBounds() [2][2]float64 {
	return LatLngBounds(d.Bounds())
}

// Contains reports whether the point lies strictly inside the district:
// inside the shell of some polygon and outside all of its holes.
func (d District) Contains(lon, lat float64) bool {
	p := geom.Coord{lon, lat}
	for i := 0; i < d.Geometry.NumPolygons(); i++ {
		if polygonContains(d.Geometry.Polygon(i), p) {
			return true
		}
	}
	return false
}

func polygonContains(poly *geom.Polygon, p geom.Coord) bool {
	if poly.NumLinearRings() == 0 {
		return false
	}
	if !poly.Bounds().OverlapsPoint(geom.XY, p) {
		return false
	}
	layout := poly.Layout()
	if xy.LocatePointInRing(layout, p, poly.LinearRing(0).FlatCoords()) != location.Interior {
		return false
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		if xy.LocatePointInRing(layout, p, poly.LinearRing(i).FlatCoords()) != location.Exterior {
			return false
		}
	}
	return true
}

// Feature returns the district as a GeoJSON feature carrying its name.
func (d District) Feature() (*geojson.Feature, error) {
	return &geojson.Feature{
		Geometry:   d.Geometry,
		Properties: map[string]interface{}{NameProperty: d.Name},
	}, nil
}

// FeatureJSON returns the district as encoded GeoJSON.
func (d District) FeatureJSON() (json.RawMessage, error) {
	f, err := d.Feature()
	if err != nil {
		return nil, err
	}
	return f.MarshalJSON()
}

// SortDistricts orders districts by numeric name, with non-numeric names
// after the numeric ones in lexical order.
func SortDistricts(ds []District) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, errA := strconv.Atoi(ds[i].Name)
		b, errB := strconv.Atoi(ds[j].Name)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ds[i].Name < ds[j].Name
		}
	})
}

// TotalBounds returns the box enclosing every district.
func TotalBounds(ds []District) *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, d := range ds {
		b.Extend(d.Geometry)
	}
	return b
}

// LatLngBounds converts a lon/lat box to [[south, west], [north, east]].
func LatLngBounds(b *geom.Bounds) [2][2]float64 {
	return [2][2]float64{
		{b.Min(1), b.Min(0)},
		{b.Max(1), b.Max(0)},
	}
}
