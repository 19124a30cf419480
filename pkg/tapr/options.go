// Package tapr turns the state's TAPR staff-profile exports into the cleaned
// district and campus teacher profiles used by the map.
package tapr

import "github.com/txedinfo/tramap/pkg/tapr/parser"

// DefaultYear is the report year of the bundled column layout.
const DefaultYear = 2024

// Default file names, matching the names the state and the map use.
const (
	DefaultDistrictInput  = "District STAFF Profile.xlsx"
	DefaultCampusInput    = "CSTAF.xlsx"
	DefaultLabelsInput    = "Campus_Staff_Information_2024_State.xlsx"
	DefaultDistrictOutput = "District Teacher Profile.xlsx"
	DefaultCampusOutput   = "Campus Teacher Profile.xlsx"
	DefaultMissingReport  = "Missing Teacher Salary Data.xlsx"
)

// MissingSentinel is the placeholder the state uses for blank cells.
const MissingSentinel = "."

// Options configures the profile pipeline.
type Options struct {
	// Year selects the "Campus <year> Staff: " column labels.
	Year int
	// DistrictInput is the district staff profile workbook.
	DistrictInput string
	// CampusInput is the campus staff profile (CSTAF) workbook.
	CampusInput string
	// LabelsInput is the layout workbook mapping raw field names to labels.
	LabelsInput string
	// LabelsSkipRows is the number of descriptive rows above the layout header.
	LabelsSkipRows int
	// DistrictOutput receives the district teacher profile.
	DistrictOutput string
	// CampusOutput receives the campus teacher profile.
	CampusOutput string
	// MissingReport receives the rows with incomplete salary data.
	MissingReport string
	// Sheet names the worksheet written to every output.
	Sheet string
}

// DefaultOptions returns the options for the 2024 report files in the
// working directory.
func DefaultOptions() Options {
	return Options{
		Year:           DefaultYear,
		DistrictInput:  DefaultDistrictInput,
		CampusInput:    DefaultCampusInput,
		LabelsInput:    DefaultLabelsInput,
		LabelsSkipRows: parser.DefaultLabelSkipRows,
		DistrictOutput: DefaultDistrictOutput,
		CampusOutput:   DefaultCampusOutput,
		MissingReport:  DefaultMissingReport,
		Sheet:          parser.DefaultSheet,
	}
}

// year returns the configured year, falling back to DefaultYear.
func (o Options) year() int {
	if o.Year == 0 {
		return DefaultYear
	}
	return o.Year
}
