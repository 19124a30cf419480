package tapr

import "fmt"

// Band is an experience-tenure bucket in the staff profile.
type Band string

const (
	BandBeginning         Band = "Beginning"
	BandOneToFive         Band = "1-5 Years"
	BandSixToTen          Band = "6-10 Years"
	BandElevenToTwenty    Band = "11-20 Years"
	BandTwentyOneToThirty Band = "21-30 Years"
	BandOverThirty        Band = "> 30 Years"
	// BandFivePlus is derived from the four bands above five years.
	BandFivePlus Band = "5+ Years"
	// BandTotal covers every teacher on the campus or district.
	BandTotal Band = "Total"
)

// RawBands are the six buckets reported by the source, in report order.
var RawBands = []Band{
	BandBeginning,
	BandOneToFive,
	BandSixToTen,
	BandElevenToTwenty,
	BandTwentyOneToThirty,
	BandOverThirty,
}

// SeniorBands are summed into BandFivePlus.
var SeniorBands = []Band{
	BandSixToTen,
	BandElevenToTwenty,
	BandTwentyOneToThirty,
	BandOverThirty,
}

// Metric suffixes shared by every band column.
const (
	CountSuffix   = "Full Time Equiv Count"
	PercentSuffix = "Full Time Equiv Percent"
	SalarySuffix  = "Base Salary Average"
)

// TeacherMarker is the substring identifying teacher columns.
const TeacherMarker = "Teacher"

// Identifier columns in the raw TAPR exports.
const (
	ColCampus       = "CAMPUS"
	ColDistrict     = "DISTRICT"
	ColCampusName   = "CAMPNAME"
	ColDistrictName = "DISTNAME"
)

// Identifier columns after renaming.
const (
	ColSchoolNumber   = "School Number"
	ColDistrictNumber = "District Number"
)

// CountColumn names the headcount column for b.
func CountColumn(b Band) string { return fmt.Sprintf("%s %s %s", TeacherMarker, b, CountSuffix) }

// PercentColumn names the percent-of-staff column for b.
func PercentColumn(b Band) string { return fmt.Sprintf("%s %s %s", TeacherMarker, b, PercentSuffix) }

// SalaryColumn names the average base salary column for b.
func SalaryColumn(b Band) string { return fmt.Sprintf("%s %s %s", TeacherMarker, b, SalarySuffix) }

// Other teacher metrics carried through the profiles.
const (
	ColTurnoverRatio      = "Teacher Turnover Ratio"
	ColDistrictExperience = "Average Years Experience of Teachers with District"
	ColExperienceAverage  = "Teacher Experience Average"
	ColTenureAverage      = "Teacher Tenure Average"
	ColStudentRatio       = "Teacher Student Ratio"
)

// CampusPrefix returns the label prefix of campus staff columns for year.
func CampusPrefix(year int) string { return fmt.Sprintf("Campus %d Staff: ", year) }

// DistrictPrefix returns the label prefix of district staff columns for year.
func DistrictPrefix(year int) string { return fmt.Sprintf("District %d Staff: ", year) }

// DistrictColumns is the allow-list for the district teacher profile.
func DistrictColumns(year int) []string {
	p := DistrictPrefix(year)
	cols := []string{ColDistrict, ColDistrictName, p + CountColumn(BandTotal)}
	for _, b := range RawBands {
		cols = append(cols, p+CountColumn(b))
	}
	cols = append(cols,
		p+ColTurnoverRatio,
		p+ColDistrictExperience,
		p+ColExperienceAverage,
		p+ColStudentRatio,
	)
	for _, b := range RawBands {
		cols = append(cols, p+SalaryColumn(b))
	}
	return append(cols, p+SalaryColumn(BandTotal))
}

// CampusColumns is the allow-list for the campus teacher profile, using
// the prefixed labels produced by the header rename.
func CampusColumns(year int) []string {
	p := CampusPrefix(year)
	cols := []string{ColCampus, ColDistrict, ColCampusName, ColDistrictName, p + CountColumn(BandTotal)}
	for _, b := range RawBands {
		cols = append(cols, p+CountColumn(b))
	}
	cols = append(cols, p+SalaryColumn(BandTotal))
	for _, b := range RawBands {
		cols = append(cols, p+SalaryColumn(b))
	}
	for _, b := range RawBands {
		cols = append(cols, p+PercentColumn(b))
	}
	return append(cols,
		p+ColTenureAverage,
		p+ColExperienceAverage,
		p+ColStudentRatio,
	)
}

// SalaryCheckColumns are the count and salary columns inspected by the
// missing-data report and the masking policy, without prefix.
func SalaryCheckColumns() []string {
	var cols []string
	for _, b := range RawBands {
		cols = append(cols, CountColumn(b))
	}
	for _, b := range RawBands {
		cols = append(cols, SalaryColumn(b))
	}
	return append(cols, SalaryColumn(BandTotal))
}

// RoundColumns are rounded before the 5+ band is derived.
func RoundColumns() []string {
	var cols []string
	for _, b := range SeniorBands {
		cols = append(cols, CountColumn(b))
	}
	for _, b := range SeniorBands {
		cols = append(cols, PercentColumn(b))
	}
	for _, b := range SeniorBands {
		cols = append(cols, SalaryColumn(b))
	}
	return cols
}

func withPrefix(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return out
}
