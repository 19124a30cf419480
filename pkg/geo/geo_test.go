package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// square returns a clockwise ring with corners (x0,y0) and (x1,y1).
func square(x0, y0, x1, y1 float64) []geom.Coord {
	return []geom.Coord{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}, {x0, y0}}
}

func district(t *testing.T, name string, rings ...[]geom.Coord) District {
	t.Helper()
	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords([][][]geom.Coord{rings})
	require.NoError(t, err)
	return District{Name: name, Geometry: mp}
}

func TestDistrictContains(t *testing.T) {
	d := district(t, "1", square(0, 0, 10, 10), square(4, 4, 6, 6))

	tests := []struct {
		lon, lat float64
		expected bool
	}{
		{1, 1, true},
		{5, 5, false},  // inside the hole
		{0, 5, false},  // on the shell boundary
		{4, 5, false},  // on the hole boundary
		{11, 5, false}, // outside
		{9.99, 9.99, true},
	}

	for _, tt := range tests {
		result := d.Contains(tt.lon, tt.lat)
		if result != tt.expected {
			t.Errorf("Contains(%v, %v) = %v, expected %v", tt.lon, tt.lat, result, tt.expected)
		}
	}
}

func TestIndexLocate(t *testing.T) {
	ds := []District{
		district(t, "1", square(-100, 30, -99, 31)),
		district(t, "2", square(-99, 30, -98, 31)),
	}
	ix := NewIndex(ds)

	d, ok := ix.Locate(-99.5, 30.5)
	require.True(t, ok)
	assert.Equal(t, "1", d.Name)

	d, ok = ix.Locate(-98.5, 30.5)
	require.True(t, ok)
	assert.Equal(t, "2", d.Name)

	_, ok = ix.Locate(-97, 30.5)
	assert.False(t, ok)

	_, ok = ix.Locate(-99, 30.5)
	assert.False(t, ok, "shared edge is not within either district")
}

func TestSortDistricts(t *testing.T) {
	ds := []District{{Name: "10"}, {Name: "2"}, {Name: "A"}, {Name: "1"}}
	SortDistricts(ds)

	var names []string
	for _, d := range ds {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"1", "2", "10", "A"}, names)
}

func TestBounds(t *testing.T) {
	ds := []District{
		district(t, "1", square(-100, 30, -99, 31)),
		district(t, "2", square(-99, 29, -98, 32)),
	}

	assert.Equal(t, [2][2]float64{{30, -100}, {31, -99}}, ds[0].LatLngBounds())
	assert.Equal(t, [2][2]float64{{29, -100}, {32, -98}}, LatLngBounds(TotalBounds(ds)))
}

func TestFeatureJSON(t *testing.T) {
	d := district(t, "14", square(0, 0, 1, 1))

	raw, err := d.FeatureJSON()
	require.NoError(t, err)

	var decoded struct {
		Type       string            `json:"type"`
		Properties map[string]string `json:"properties"`
		Geometry   struct {
			Type string `json:"type"`
		} `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Feature", decoded.Type)
	assert.Equal(t, "14", decoded.Properties[NameProperty])
	assert.Equal(t, "MultiPolygon", decoded.Geometry.Type)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"14", "14"},
		{"   14", "14"},
		{"14.000", "14"},
		{"14\x00\x00", "14"},
		{"SD 14", "SD 14"},
	}
	for _, tt := range tests {
		if got := normalizeName(tt.input); got != tt.expected {
			t.Errorf("normalizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

// writeShapefile creates a polygon shapefile with a District attribute.
func writeShapefile(t *testing.T, path string, shapes map[string][][]shp.Point, order []string) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("District", 10)}))
	for _, name := range order {
		poly := shp.Polygon(*shp.NewPolyLine(shapes[name]))
		n := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(n), 0, name))
	}
	w.Close()
	fixAttributeTable(t, path)
}

// fixAttributeTable moves the attribute table go-shp writes as "<base>dbf"
// to "<base>.dbf", where its reader looks for it.
func fixAttributeTable(t *testing.T, path string) {
	t.Helper()
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	_, err := os.Stat(base + ".dbf")
	require.NoError(t, err)
}

func ring(x0, y0, x1, y1 float64) []shp.Point {
	return []shp.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}, {X: x0, Y: y0}}
}

// counterRing is ring walked the other way, as shapefiles store holes.
func counterRing(x0, y0, x1, y1 float64) []shp.Point {
	return []shp.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
}

func TestLoadDistricts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PLANS2168.shp")
	writeShapefile(t, path, map[string][][]shp.Point{
		"10": {ring(-98, 30, -97, 31)},
		"2":  {ring(-100, 30, -99, 31), counterRing(-99.6, 30.4, -99.4, 30.6)},
	}, []string{"10", "2"})

	ds, err := LoadDistricts(path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "2", ds[0].Name)
	assert.Equal(t, "10", ds[1].Name)

	require.Equal(t, 1, ds[0].Geometry.NumPolygons())
	assert.Equal(t, 2, ds[0].Geometry.Polygon(0).NumLinearRings(), "hole attaches to its shell")
	assert.True(t, ds[0].Contains(-99.8, 30.5))
	assert.False(t, ds[0].Contains(-99.5, 30.5))
	assert.True(t, ds[1].Contains(-97.5, 30.5))
}

func TestLoadDistrictsRejectsProjected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.shp")
	writeShapefile(t, path, map[string][][]shp.Point{"1": {ring(0, 0, 1, 1)}}, []string{"1"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.prj"),
		[]byte(`PROJCS["NAD83 / Texas Centric Albers Equal Area",GEOGCS["NAD83"]]`), 0644))

	_, err := LoadDistricts(path, LoadOptions{})
	assert.ErrorIs(t, err, ErrProjectedCRS)
}

func TestLoadDistrictsMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.shp")
	writeShapefile(t, path, map[string][][]shp.Point{"1": {ring(0, 0, 1, 1)}}, []string{"1"})

	ds, err := LoadDistricts(path, LoadOptions{NameField: "district"})
	require.NoError(t, err, "field names match case-insensitively")
	require.Len(t, ds, 1)

	_, err = LoadDistricts(path, LoadOptions{NameField: "SENATE"})
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestLoadDistrictsMissingAttributeTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.shp")
	writeShapefile(t, path, map[string][][]shp.Point{"1": {ring(0, 0, 1, 1)}}, []string{"1"})
	require.NoError(t, os.Remove(filepath.Join(dir, "plan.dbf")))

	_, err := LoadDistricts(path, LoadOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrFieldNotFound)
}

func TestAttributeDecoder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.shp")

	dec, err := attributeDecoder(path, "windows-1252")
	require.NoError(t, err)
	got, err := dec.String("Ca\xf1on")
	require.NoError(t, err)
	assert.Equal(t, "Cañon", got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.cpg"), []byte("1252\n"), 0644))
	dec, err = attributeDecoder(path, "")
	require.NoError(t, err)
	got, err = dec.String("\xe9")
	require.NoError(t, err)
	assert.Equal(t, "é", got)

	_, err = attributeDecoder(path, "ebcdic")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}
