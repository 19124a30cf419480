package schools

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/txedinfo/tramap/pkg/geo"
	"github.com/txedinfo/tramap/pkg/tapr/models"
	"github.com/txedinfo/tramap/pkg/tapr/parser"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var directoryColumns = []string{
	ColSchoolNumber, ColSchoolName, ColDistrictName, ColDistrictType, ColSiteAddress,
	ColDistrictEnrollment, ColSchoolEnrollment,
	ColCensusLatitude, ColCensusLongitude, ColLatitude, ColLongitude,
}

func directoryTable() *models.Table {
	t := models.NewTable(directoryColumns...)
	t.Append(models.Row{
		models.Text("'001902001"), models.Text("CAYUGA H S"), models.Text("CAYUGA ISD"),
		models.Text("INDEPENDENT"), models.Text("17750 N US HWY 287, TENNESSEE COLONY, TX 75861"),
		models.Number(570), models.Number(190),
		models.Number(31.95), models.Number(-95.96), models.Number(31.9), models.Number(-95.9),
	})
	t.Append(models.Row{
		models.Number(57803001), models.Text("UPLIFT PEAK"), models.Text("UPLIFT EDUCATION"),
		models.Text("CHARTER"), models.Text("4600 BRYAN ST, DALLAS, TX 75204"),
		models.Number(23000), models.Number(800),
		models.Missing(), models.Missing(), models.Number(32.8), models.Number(-96.78),
	})
	t.Append(models.Row{
		models.Number(101912001), models.Text("NOWHERE EL"), models.Text("HOUSTON ISD"),
		models.Text("INDEPENDENT"), models.Text(PlaceholderAddress),
		models.Number(180000), models.Number(400),
		models.Missing(), models.Missing(), models.Missing(), models.Number(-95.3),
	})
	return t
}

func TestFromTable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	got, err := FromTable(directoryTable(), zap.New(core))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1902001", got[0].Number)
	assert.Equal(t, 31.95, got[0].Lat, "census latitude wins")
	assert.Equal(t, -95.96, got[0].Lon)
	assert.False(t, got[0].Charter())

	assert.Equal(t, "57803001", got[1].Number)
	assert.Equal(t, 32.8, got[1].Lat, "falls back to directory latitude")
	assert.True(t, got[1].Charter())
	assert.Equal(t, models.Number(23000), got[1].DistrictEnrollment)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Missing coords for NOWHERE EL – HOUSTON ISD", entries[0].Message)
}

func TestFromTableMissingColumn(t *testing.T) {
	_, err := FromTable(models.NewTable(ColSchoolName), zap.NewNop())
	assert.ErrorIs(t, err, parser.ErrColumnNotFound)
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geocoded.xlsx")
	require.NoError(t, parser.WriteTable(path, DefaultSheet, directoryTable()))

	got, err := LoadDirectory(path, DirectoryOptions{}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1902001", got[0].Number)
	assert.Equal(t, "UPLIFT PEAK", got[1].Name)

	_, err = LoadDirectory(path, DirectoryOptions{Sheet: "Other"}, zap.NewNop())
	assert.ErrorIs(t, err, parser.ErrSheetNotFound)
}

func TestKey(t *testing.T) {
	tests := []struct {
		input    models.Value
		expected string
	}{
		{models.Number(1902001), "1902001"},
		{models.Number(12.5), "12.5"},
		{models.Text("'001902001"), "1902001"},
		{models.Text(" 057803001 "), "57803001"},
		{models.Text("ABC"), "ABC"},
		{models.Missing(), ""},
	}
	for _, tt := range tests {
		if got := Key(tt.input); got != tt.expected {
			t.Errorf("Key(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func profileTable() *models.Table {
	t := models.NewTable(ColSchoolNumber, "Teacher Total Count")
	t.Append(models.Row{models.Text("001902001"), models.Number(20)})
	t.Append(models.Row{models.Number(57803001), models.Masked()})
	t.Append(models.Row{models.Number(101912001), models.Number(30)})
	t.Append(models.Row{models.Number(999999999), models.Number(5)})
	return t
}

func TestMergeProfiles(t *testing.T) {
	dir := []School{
		{Number: "1902001", Name: "CAYUGA H S", SiteAddress: "TENNESSEE COLONY, TX 75861"},
		{Number: "57803001", Name: "UPLIFT PEAK", SiteAddress: "DALLAS, TX 75204"},
		{Number: "101912001", Name: "NOWHERE EL", SiteAddress: PlaceholderAddress},
	}
	core, logs := observer.New(zapcore.WarnLevel)

	sites, err := MergeProfiles(dir, profileTable(), DefaultMergeOptions(), zap.New(core))
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.Equal(t, "CAYUGA H S", sites[0].Name)
	assert.Equal(t, models.Number(20), sites[0].Staff.Get("Teacher Total Count"))
	assert.Equal(t, "UPLIFT PEAK", sites[1].Name)
	assert.True(t, sites[1].Staff.Get("Teacher Total Count").IsMasked())
	assert.True(t, sites[1].Staff.Get("Unknown").IsMissing())

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["count"])
}

func TestMergeProfilesRequiresNumber(t *testing.T) {
	_, err := MergeProfiles(nil, models.NewTable("Other"), DefaultMergeOptions(), zap.NewNop())
	assert.ErrorIs(t, err, parser.ErrColumnNotFound)
}

func TestLocate(t *testing.T) {
	ring := []geom.Coord{{-100, 30}, {-100, 31}, {-99, 31}, {-99, 30}, {-100, 30}}
	mp, err := geom.NewMultiPolygon(geom.XY).SetCoords([][][]geom.Coord{{ring}})
	require.NoError(t, err)
	ix := geo.NewIndex([]geo.District{{Name: "24", Geometry: mp}})

	sites := DirectorySites([]School{
		{Name: "IN", Lat: 30.5, Lon: -99.5},
		{Name: "OUT", Lat: 30.5, Lon: -98},
	})
	assert.Nil(t, sites[0].Staff)

	outside := Locate(sites, ix)
	assert.Equal(t, 1, outside)
	assert.Equal(t, "24", sites[0].District)
	assert.Empty(t, sites[1].District)
}
