package geo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultNameField is the attribute holding the district number in the
// Texas Legislative Council plan shapefiles.
const DefaultNameField = "District"

// ErrProjectedCRS indicates the shapefile is not in geographic coordinates.
var ErrProjectedCRS = errors.New("shapefile uses a projected coordinate system")

// ErrFieldNotFound indicates the name attribute is absent from the DBF table.
var ErrFieldNotFound = errors.New("attribute field not found")

// ErrUnsupportedShape indicates a shape type other than polygon.
var ErrUnsupportedShape = errors.New("unsupported shape type")

// ErrUnknownEncoding indicates an attribute encoding that cannot be decoded.
var ErrUnknownEncoding = errors.New("unknown attribute encoding")

// LoadOptions configures LoadDistricts.
type LoadOptions struct {
	// NameField is the DBF attribute used as the district name.
	NameField string
	// Encoding is the DBF text encoding: "utf-8", "windows-1252" or
	// "iso-8859-1". Empty reads the .cpg sidecar and falls back to UTF-8.
	Encoding string
}

// LoadDistricts reads polygon districts from an ESRI shapefile. Shapes that
// share a name are merged into one district. The result is sorted by name.
func LoadDistricts(path string, opts LoadOptions) ([]District, error) {
	if opts.NameField == "" {
		opts.NameField = DefaultNameField
	}
	if err := checkProjection(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(sidecar(path, ".dbf")); err != nil {
		return nil, fmt.Errorf("attribute table: %w", err)
	}
	dec, err := attributeDecoder(path, opts.Encoding)
	if err != nil {
		return nil, err
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()

	field := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(f.String(), opts.NameField) {
			field = i
			break
		}
	}
	if field < 0 {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, opts.NameField)
	}

	var order []string
	polys := make(map[string][][][]geom.Coord)
	for r.Next() {
		n, s := r.Shape()
		parts, points, ok := polygonParts(s)
		if !ok {
			if _, null := s.(*shp.Null); null {
				continue
			}
			return nil, fmt.Errorf("%w: shape %d is %T", ErrUnsupportedShape, n, s)
		}

		name, err := dec.String(r.ReadAttribute(n, field))
		if err != nil {
			return nil, fmt.Errorf("decode shape %d name: %w", n, err)
		}
		name = normalizeName(name)
		if _, seen := polys[name]; !seen {
			order = append(order, name)
		}
		polys[name] = append(polys[name], ringsToPolygons(parts, points)...)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}

	districts := make([]District, 0, len(order))
	for _, name := range order {
		mp, err := geom.NewMultiPolygon(geom.XY).SetCoords(polys[name])
		if err != nil {
			return nil, fmt.Errorf("district %s: %w", name, err)
		}
		districts = append(districts, District{Name: name, Geometry: mp})
	}
	SortDistricts(districts)
	return districts, nil
}

func polygonParts(s shp.Shape) ([]int32, []shp.Point, bool) {
	switch p := s.(type) {
	case *shp.Polygon:
		return p.Parts, p.Points, true
	case *shp.PolygonZ:
		return p.Parts, p.Points, true
	case *shp.PolygonM:
		return p.Parts, p.Points, true
	default:
		return nil, nil, false
	}
}

// ringsToPolygons groups shapefile rings into polygons. Clockwise rings are
// shells; counter-clockwise rings are holes of the shell that contains them.
func ringsToPolygons(parts []int32, points []shp.Point) [][][]geom.Coord {
	var polys [][][]geom.Coord
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(points) {
			continue
		}

		ring := make([]geom.Coord, 0, end-start)
		flat := make([]float64, 0, 2*(end-start))
		for _, pt := range points[start:end] {
			ring = append(ring, geom.Coord{pt.X, pt.Y})
			flat = append(flat, pt.X, pt.Y)
		}
		if len(ring) < 4 {
			continue
		}

		if len(polys) == 0 || !xy.IsRingCounterClockwise(geom.XY, flat) {
			polys = append(polys, [][]geom.Coord{ring})
			continue
		}
		owner := len(polys) - 1
		for j := range polys {
			if xy.LocatePointInRing(geom.XY, ring[0], flatten(polys[j][0])) != location.Exterior {
				owner = j
				break
			}
		}
		polys[owner] = append(polys[owner], ring)
	}
	return polys
}

func flatten(ring []geom.Coord) []float64 {
	out := make([]float64, 0, 2*len(ring))
	for _, c := range ring {
		out = append(out, c[0], c[1])
	}
	return out
}

// normalizeName trims padding and renders whole numbers without decimals.
func normalizeName(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// checkProjection rejects shapefiles whose .prj declares a projected system.
func checkProjection(path string) error {
	prj, err := os.ReadFile(sidecar(path, ".prj"))
	if err != nil {
		return nil
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(string(prj))), "PROJCS") {
		return fmt.Errorf("%w: %s; reproject to EPSG:4326 first", ErrProjectedCRS, filepath.Base(path))
	}
	return nil
}

func attributeDecoder(path, name string) (*encoding.Decoder, error) {
	if name == "" {
		if cpg, err := os.ReadFile(sidecar(path, ".cpg")); err == nil {
			name = strings.TrimSpace(string(cpg))
		}
	}
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return encoding.Nop.NewDecoder(), nil
	case "windows-1252", "cp1252", "1252", "ansi 1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1", "88591":
		return charmap.ISO8859_1.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

func sidecar(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
