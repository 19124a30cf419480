// Package schools loads the geocoded school directory and joins it with the
// campus teacher profile and the senate districts.
package schools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/txedinfo/tramap/pkg/tapr/models"
	"github.com/txedinfo/tramap/pkg/tapr/parser"
	"go.uber.org/zap"
)

// DefaultSheet is the worksheet of the geocoded AskTED export.
const DefaultSheet = "School Data"

// Directory columns.
const (
	ColSchoolNumber       = "School Number"
	ColSchoolName         = "School Name"
	ColDistrictName       = "District Name"
	ColDistrictType       = "District Type"
	ColSiteAddress        = "Full_Site_Address"
	ColDistrictEnrollment = "District Enrollment as of Oct 2023"
	ColSchoolEnrollment   = "School Enrollment as of Oct 2023"
	ColCensusLatitude     = "Census_Latitude"
	ColCensusLongitude    = "Census_Longitude"
	ColLatitude           = "Latitude"
	ColLongitude          = "Longitude"
)

// CharterType is the District Type of open-enrollment charters.
const CharterType = "CHARTER"

var requiredColumns = []string{
	ColSchoolName,
	ColDistrictName,
	ColDistrictType,
	ColDistrictEnrollment,
	ColLatitude,
	ColLongitude,
}

// School is one geocoded campus from the directory.
type School struct {
	// Number is the normalized campus number, see Key.
	Number string
	// Name is the campus name.
	Name string
	// DistrictName is the name of the district or charter operating the campus.
	DistrictName string
	// DistrictType is e.g. "INDEPENDENT" or "CHARTER".
	DistrictType string
	// SiteAddress is the full street address.
	SiteAddress string
	// DistrictEnrollment is the district-wide student count.
	DistrictEnrollment models.Value
	// SchoolEnrollment is the campus student count.
	SchoolEnrollment models.Value
	// Lat and Lon locate the campus in WGS84.
	Lat float64
	Lon float64
}

// Charter reports whether the campus belongs to a charter operator.
func (s School) Charter() bool {
	return strings.EqualFold(strings.TrimSpace(s.DistrictType), CharterType)
}

// DirectoryOptions configures LoadDirectory.
type DirectoryOptions struct {
	// Sheet names the worksheet holding the schools.
	Sheet string
}

// LoadDirectory reads the geocoded school directory. Rows without usable
// coordinates are logged and skipped.
func LoadDirectory(path string, opts DirectoryOptions, logger *zap.Logger) ([]School, error) {
	if opts.Sheet == "" {
		opts.Sheet = DefaultSheet
	}
	t, err := parser.ReadTable(path, parser.ReadOptions{Sheet: opts.Sheet})
	if err != nil {
		return nil, err
	}
	return FromTable(t, logger)
}

// FromTable converts directory rows into schools. Census coordinates are
// preferred, falling back to the directory's own latitude and longitude.
func FromTable(t *models.Table, logger *zap.Logger) ([]School, error) {
	for _, c := range requiredColumns {
		if !t.Has(c) {
			return nil, fmt.Errorf("%w: %q", parser.ErrColumnNotFound, c)
		}
	}

	schools := make([]School, 0, t.Len())
	for i := range t.Rows {
		s := School{
			Number:             Key(t.Get(i, ColSchoolNumber)),
			Name:               t.Get(i, ColSchoolName).String(),
			DistrictName:       t.Get(i, ColDistrictName).String(),
			DistrictType:       t.Get(i, ColDistrictType).String(),
			SiteAddress:        t.Get(i, ColSiteAddress).String(),
			DistrictEnrollment: t.Get(i, ColDistrictEnrollment),
			SchoolEnrollment:   t.Get(i, ColSchoolEnrollment),
		}

		lat, okLat := coordinate(t.Get(i, ColCensusLatitude), t.Get(i, ColLatitude))
		lon, okLon := coordinate(t.Get(i, ColCensusLongitude), t.Get(i, ColLongitude))
		if !okLat || !okLon {
			logger.Warn(fmt.Sprintf("Missing coords for %s – %s", s.Name, s.DistrictName),
				zap.String("school_number", s.Number))
			continue
		}
		s.Lat, s.Lon = lat, lon
		schools = append(schools, s)
	}

	logger.Debug("Loaded school directory",
		zap.Int("rows", t.Len()),
		zap.Int("geocoded", len(schools)))
	return schools, nil
}

func coordinate(preferred, fallback models.Value) (float64, bool) {
	if f, ok := preferred.Float(); ok {
		return f, true
	}
	return fallback.Float()
}

// Key normalizes a campus number so directory and profile rows compare
// equal: numbers render as integers, text is trimmed of spaces and a leading
// apostrophe and then treated as a number when it parses as one.
func Key(v models.Value) string {
	switch v.Kind() {
	case models.KindNumber:
		f, _ := v.Float()
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case models.KindText:
		s, _ := v.Str()
		s = strings.TrimPrefix(strings.TrimSpace(s), "'")
		if n := models.ParseValue(s); n.Kind() == models.KindNumber {
			return Key(n)
		}
		return s
	default:
		return ""
	}
}
