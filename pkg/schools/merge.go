package schools

import (
	"fmt"

	"github.com/txedinfo/tramap/pkg/geo"
	"github.com/txedinfo/tramap/pkg/tapr/models"
	"github.com/txedinfo/tramap/pkg/tapr/parser"
	"go.uber.org/zap"
)

// PlaceholderAddress is the address the directory gives campuses with no
// street location; such rows are left off the staff map.
const PlaceholderAddress = "TX,  "

// Profile is one campus row of the teacher profile.
type Profile struct {
	table *models.Table
	row   int
}

// Get returns the value of a profile column. Unknown columns are Missing.
func (p *Profile) Get(column string) models.Value {
	if p == nil {
		return models.Missing()
	}
	return p.table.Get(p.row, column)
}

// Site is a school placed on the map.
type Site struct {
	School
	// District is the senate district containing the school, empty if none.
	District string
	// Staff is the campus teacher profile, nil when the map carries no staff data.
	Staff *Profile
}

// MergeOptions configures MergeProfiles.
type MergeOptions struct {
	// ExcludeAddresses lists site addresses whose schools are dropped.
	ExcludeAddresses []string
}

// DefaultMergeOptions drops the directory's placeholder address.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{ExcludeAddresses: []string{PlaceholderAddress}}
}

// MergeProfiles joins every profile row to the directory schools sharing its
// School Number. Profile rows drive the join: a row yields one site per
// matching school, and rows with no geocoded school are logged and skipped.
func MergeProfiles(dir []School, profile *models.Table, opts MergeOptions, logger *zap.Logger) ([]Site, error) {
	if !profile.Has(ColSchoolNumber) {
		return nil, fmt.Errorf("%w: %q in profile", parser.ErrColumnNotFound, ColSchoolNumber)
	}

	excluded := make(map[string]bool, len(opts.ExcludeAddresses))
	for _, a := range opts.ExcludeAddresses {
		excluded[a] = true
	}
	byNumber := make(map[string][]School, len(dir))
	for _, s := range dir {
		if excluded[s.SiteAddress] {
			continue
		}
		byNumber[s.Number] = append(byNumber[s.Number], s)
	}

	var (
		sites     []Site
		unmatched int
	)
	for i := range profile.Rows {
		key := Key(profile.Get(i, ColSchoolNumber))
		matches := byNumber[key]
		if len(matches) == 0 {
			unmatched++
			logger.Debug("No geocoded school for campus", zap.String("school_number", key))
			continue
		}
		for _, s := range matches {
			sites = append(sites, Site{School: s, Staff: &Profile{table: profile, row: i}})
		}
	}

	if unmatched > 0 {
		logger.Warn("Campuses without a geocoded school were skipped", zap.Int("count", unmatched))
	}
	return sites, nil
}

// DirectorySites wraps every school as a site without staff data.
func DirectorySites(dir []School) []Site {
	sites := make([]Site, len(dir))
	for i, s := range dir {
		sites[i] = Site{School: s}
	}
	return sites
}

// Locate assigns each site the senate district containing it.
// It returns the number of sites left outside every district.
func Locate(sites []Site, ix *geo.Index) int {
	outside := 0
	for i := range sites {
		d, ok := ix.Locate(sites[i].Lon, sites[i].Lat)
		if !ok {
			sites[i].District = ""
			outside++
			continue
		}
		sites[i].District = d.Name
	}
	return outside
}
