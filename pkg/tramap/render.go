// Package tramap renders the interactive Teacher Retention Allotment map.
package tramap

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/txedinfo/tramap/pkg/geo"
	"github.com/txedinfo/tramap/pkg/schools"
	"go.uber.org/zap"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html.tmpl"))

// ErrNoDistricts indicates there is nothing to draw.
var ErrNoDistricts = errors.New("no districts to render")

// Default page text.
const (
	DefaultTitle          = "CSHB 2: TRA Map - TX Senate"
	DefaultHeading        = "CSHB 2: Teacher Retention Allotment Map - TX Senate"
	DefaultDescription    = "An interactive statewide map of Texas senate districts showing per-teacher retention allotments by experience."
	DefaultURL            = "https://txedinfo.github.io/CSHB2TeacherRetentionAllotmentMap/"
	DefaultScreenshotName = "CSHB2 Teacher Retention Allotment Map - TX Senate.png"
	DefaultFooter         = `A visualization of data relevant to the Teacher Retention Allotment (Sec. 48.158) provision in CSHB 2. ` +
		`Click on a campus to see the pay raises that teachers at the campus would receive based on their years of experience ` +
		`and the district's/charter's student enrollment. This analysis uses the ` +
		`<a href='https://tealprod.tea.state.tx.us/Tea.AskTed.Web/Forms/ArchivedSchoolAndDistrictDataFiles.aspx' target="blank">Spring 2024 AskTED school data</a> ` +
		`and <a href='https://rptsvr1.tea.texas.gov/perfreport/tapr/2024/index.html' target="blank">2023-2024 TAPR staff profile.</a>`
)

// Options configures the rendered page.
type Options struct {
	// Title is the browser tab title.
	Title string
	// Heading is shown above the map and used for link previews.
	Heading string
	// Description is the link preview description.
	Description string
	// URL is the published address of the page.
	URL string
	// ScreenshotName is the file name offered by the PNG download.
	ScreenshotName string
	// Footer is trusted HTML shown beneath the map.
	Footer string
	// Staff adds the campus staff table to every popup.
	Staff bool
}

// DefaultOptions returns the Senate map page text.
func DefaultOptions() Options {
	return Options{
		Title:          DefaultTitle,
		Heading:        DefaultHeading,
		Description:    DefaultDescription,
		URL:            DefaultURL,
		ScreenshotName: DefaultScreenshotName,
		Footer:         DefaultFooter,
	}
}

type pageView struct {
	Title          string
	Heading        string
	Description    string
	URL            string
	ScreenshotName string
	Footer         template.HTML
	SmallLabel     string
	ColorSmall     string
	ColorLarge     string
	Bounds         [2][2]float64
	Districts      []districtView
}

type districtView struct {
	Name    string          `json:"name"`
	Bounds  [2][2]float64   `json:"bounds"`
	Feature json.RawMessage `json:"feature"`
	Markers []markerView    `json:"markers"`
}

type markerView struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Charter bool    `json:"charter"`
	Color   string  `json:"color"`
	Popup   string  `json:"popup"`
}

// Render writes the map page for the districts and the sites placed in them.
// Sites without a district are left off the map.
func Render(w io.Writer, districts []geo.District, sites []schools.Site, opts Options, logger *zap.Logger) error {
	if len(districts) == 0 {
		return ErrNoDistricts
	}

	view := pageView{
		Title:          opts.Title,
		Heading:        opts.Heading,
		Description:    opts.Description,
		URL:            opts.URL,
		ScreenshotName: opts.ScreenshotName,
		Footer:         template.HTML(opts.Footer),
		SmallLabel:     printer.Sprintf("%d", SmallDistrictEnrollment),
		ColorSmall:     ColorSmall,
		ColorLarge:     ColorLarge,
		Bounds:         geo.LatLngBounds(geo.TotalBounds(districts)),
	}

	byName := make(map[string]int, len(districts))
	for _, d := range districts {
		feature, err := d.FeatureJSON()
		if err != nil {
			return fmt.Errorf("district %s: %w", d.Name, err)
		}
		byName[d.Name] = len(view.Districts)
		view.Districts = append(view.Districts, districtView{
			Name:    d.Name,
			Bounds:  d.LatLngBounds(),
			Feature: feature,
			Markers: []markerView{},
		})
	}

	unplaced := 0
	for _, s := range sites {
		i, ok := byName[s.District]
		if !ok {
			unplaced++
			continue
		}
		a := AllotmentFor(s.DistrictEnrollment)
		popup, err := renderPopup(newPopupView(s, a, opts.Staff))
		if err != nil {
			return fmt.Errorf("popup for %s: %w", s.Name, err)
		}
		view.Districts[i].Markers = append(view.Districts[i].Markers, markerView{
			Lat:     s.Lat,
			Lon:     s.Lon,
			Charter: s.Charter(),
			Color:   a.Color,
			Popup:   popup,
		})
	}

	logger.Debug("Rendering map",
		zap.Int("districts", len(view.Districts)),
		zap.Int("markers", len(sites)-unplaced),
		zap.Int("unplaced", unplaced),
		zap.Bool("staff", opts.Staff))
	return templates.ExecuteTemplate(w, "map.html.tmpl", view)
}

func renderPopup(v popupView) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "popup", v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders the map page to path.
func WriteFile(path string, districts []geo.District, sites []schools.Site, opts Options, logger *zap.Logger) error {
	var buf bytes.Buffer
	if err := Render(&buf, districts, sites, opts, logger); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	logger.Info("Map saved", zap.String("path", path))
	return nil
}
