package tramap

import (
	"math"
	"strconv"
	"strings"

	"github.com/txedinfo/tramap/pkg/schools"
	"github.com/txedinfo/tramap/pkg/tapr"
	"github.com/txedinfo/tramap/pkg/tapr/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for values the profile does not report.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// popupView is the data behind a school popup.
type popupView struct {
	District           string
	SchoolName         string
	DistrictName       string
	DistrictType       string
	SchoolEnrollment   string
	DistrictEnrollment string
	ThreeToFour        string
	FivePlus           string
	Staff              []staffRow
}

type staffRow struct {
	Label  string
	Count  string
	Salary string
}

func newPopupView(s schools.Site, a Allotment, withStaff bool) popupView {
	v := popupView{
		District:           s.District,
		SchoolName:         s.Name,
		DistrictName:       s.DistrictName,
		DistrictType:       s.DistrictType,
		SchoolEnrollment:   formatEnrollment(s.SchoolEnrollment),
		DistrictEnrollment: formatEnrollment(s.DistrictEnrollment),
		ThreeToFour:        formatDollars(float64(a.ThreeToFour)),
		FivePlus:           formatDollars(float64(a.FivePlus)),
	}
	if withStaff {
		v.Staff = staffRows(s.Staff)
	}
	return v
}

func staffRows(p *schools.Profile) []staffRow {
	get := func(col string) models.Value { return p.Get(col) }
	return []staffRow{
		{
			Label:  "Beginning teachers",
			Count:  countDisplay(get(tapr.CountColumn(tapr.BandBeginning)), get(tapr.PercentColumn(tapr.BandBeginning)), formatMeasure),
			Salary: salaryDisplay(get(tapr.SalaryColumn(tapr.BandBeginning)), math.Trunc),
		},
		{
			Label:  "1-5 years experience",
			Count:  countDisplay(get(tapr.CountColumn(tapr.BandOneToFive)), get(tapr.PercentColumn(tapr.BandOneToFive)), formatMeasure),
			Salary: salaryDisplay(get(tapr.SalaryColumn(tapr.BandOneToFive)), math.Trunc),
		},
		{
			Label:  "5+ years experience",
			Count:  countDisplay(get(tapr.CountColumn(tapr.BandFivePlus)), get(tapr.PercentColumn(tapr.BandFivePlus)), formatOneDecimal),
			Salary: salaryDisplay(get(tapr.SalaryColumn(tapr.BandFivePlus)), math.RoundToEven),
		},
	}
}

// countDisplay renders "<count> (<percent>%)", or MASKED when either part is.
func countDisplay(count, pct models.Value, format func(float64) string) string {
	if count.IsMasked() || pct.IsMasked() {
		return models.MaskedText
	}
	return display(count, format) + " (" + display(pct, format) + "%)"
}

// salaryDisplay renders a dollar amount rounded to whole dollars by round.
func salaryDisplay(v models.Value, round func(float64) float64) string {
	switch v.Kind() {
	case models.KindMasked:
		return models.MaskedText
	case models.KindNumber:
		f, _ := v.Float()
		return formatDollars(round(f))
	case models.KindText:
		s, _ := v.Str()
		return s
	default:
		return NotAvailable
	}
}

func display(v models.Value, format func(float64) string) string {
	switch v.Kind() {
	case models.KindNumber:
		f, _ := v.Float()
		return format(f)
	case models.KindText:
		s, _ := v.Str()
		return s
	case models.KindMasked:
		return models.MaskedText
	default:
		return NotAvailable
	}
}

// formatMeasure renders a profile measure as stored: whole numbers without
// a decimal point, fractions at their shortest exact form.
func formatMeasure(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOneDecimal renders one decimal place and drops a trailing ".0".
func formatOneDecimal(f float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(f, 'f', 1, 64), ".0")
}

func formatDollars(f float64) string {
	return "$" + printer.Sprintf("%d", int64(f))
}

// formatEnrollment renders a student count with thousands separators.
// Missing counts render empty.
func formatEnrollment(v models.Value) string {
	f, ok := v.Float()
	if !ok {
		if s, isText := v.Str(); isText {
			return s
		}
		return ""
	}
	if f == math.Trunc(f) {
		return printer.Sprintf("%d", int64(f))
	}
	return printer.Sprintf("%.1f", f)
}
