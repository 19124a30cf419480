// Package main provides the tramap CLI, which builds the TAPR teacher
// profiles and renders the Teacher Retention Allotment map.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/txedinfo/tramap/internal/config"
	"github.com/txedinfo/tramap/internal/logging"
	"github.com/txedinfo/tramap/pkg/geo"
	"github.com/txedinfo/tramap/pkg/schools"
	"github.com/txedinfo/tramap/pkg/tapr"
	"github.com/txedinfo/tramap/pkg/tapr/parser"
	"github.com/txedinfo/tramap/pkg/tramap"
	"go.uber.org/zap"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tramap",
		Short: "Build TAPR teacher profiles and the Teacher Retention Allotment map",
		Long: `tramap cleans the TAPR district and campus staff profiles into teacher
profile workbooks, then places every geocoded school inside its Texas Senate
district on an interactive HTML map.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newProfileCmd(a), newMapCmd(a))
	return rootCmd
}

// setup loads the configuration and builds the logger unless a test has
// already supplied them.
func (a *app) setup() error {
	if a.cfg == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logger == nil {
		logger, err := logging.New(logging.Options{
			Level:       a.cfg.Logging.Level,
			Development: a.cfg.Logging.Development,
			Verbose:     a.verbose,
		})
		if err != nil {
			return err
		}
		a.logger = logger
	}
	return nil
}

func newProfileCmd(a *app) *cobra.Command {
	var (
		year       int
		skipCampus bool
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Write the district and campus teacher profiles",
		Long: `Reads the district and campus TAPR staff profiles and writes:
  - the district teacher profile
  - the campus teacher profile, cleaned, rounded, with 5+ year bands and masking
  - the report of campuses missing teacher salary data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("year") {
				a.cfg.Year = year
			}
			return a.runProfile(!skipCampus)
		},
	}
	cmd.Flags().IntVar(&year, "year", tapr.DefaultYear, "TAPR report year")
	cmd.Flags().BoolVar(&skipCampus, "district-only", false, "Skip the campus profile")
	return cmd
}

func (a *app) runProfile(campus bool) error {
	opts := profileOptions(a.cfg)

	district, err := tapr.ProcessDistrict(opts, a.logger)
	if err != nil {
		return fmt.Errorf("district profile failed: %w", err)
	}
	if !campus {
		return nil
	}

	summary, err := tapr.ProcessCampus(opts, a.logger)
	if err != nil {
		return fmt.Errorf("campus profile failed: %w", err)
	}
	a.logger.Info("Profiles complete",
		zap.Int("districts", district.Rows),
		zap.Int("campuses", summary.Rows),
		zap.Int("missing", summary.MissingRows),
		zap.Int("masked", summary.MaskedRows))
	return nil
}

func profileOptions(cfg *config.Config) tapr.Options {
	return tapr.Options{
		Year:           cfg.Year,
		DistrictInput:  cfg.Profile.DistrictInput,
		CampusInput:    cfg.Profile.CampusInput,
		LabelsInput:    cfg.Profile.LabelsInput,
		LabelsSkipRows: cfg.Profile.LabelsSkipRows,
		DistrictOutput: cfg.Profile.DistrictOutput,
		CampusOutput:   cfg.Profile.CampusOutput,
		MissingReport:  cfg.Profile.MissingReport,
		Sheet:          cfg.Profile.Sheet,
	}
}

func newMapCmd(a *app) *cobra.Command {
	var (
		output    string
		shapefile string
		directory string
		staff     bool
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render the Teacher Retention Allotment map",
		Long: `Places every geocoded school inside its Senate district and writes an
interactive Leaflet page. With --staff the campus teacher profile is merged
into each popup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("output") {
				a.cfg.Map.Output = output
			}
			if flags.Changed("shapefile") {
				a.cfg.Map.Shapefile = shapefile
			}
			if flags.Changed("directory") {
				a.cfg.Map.Directory = directory
			}
			if flags.Changed("staff") {
				a.cfg.Map.Staff = staff
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runMap()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output HTML file")
	cmd.Flags().StringVar(&shapefile, "shapefile", "", "Senate district shapefile")
	cmd.Flags().StringVar(&directory, "directory", "", "Geocoded school directory workbook")
	cmd.Flags().BoolVar(&staff, "staff", true, "Merge the campus teacher profile into popups")
	return cmd
}

func (a *app) runMap() error {
	m := a.cfg.Map

	districts, err := geo.LoadDistricts(m.Shapefile, geo.LoadOptions{
		NameField: m.NameField,
		Encoding:  m.Encoding,
	})
	if err != nil {
		return fmt.Errorf("load districts: %w", err)
	}
	a.logger.Info("Loaded districts", zap.Int("count", len(districts)))

	dir, err := schools.LoadDirectory(m.Directory, schools.DirectoryOptions{Sheet: m.Sheet}, a.logger)
	if err != nil {
		return fmt.Errorf("load school directory: %w", err)
	}

	sites := schools.DirectorySites(dir)
	if m.Staff {
		profile, err := parser.ReadTable(m.StaffProfile, parser.ReadOptions{})
		if err != nil {
			return fmt.Errorf("load staff profile: %w", err)
		}
		sites, err = schools.MergeProfiles(dir, profile, schools.DefaultMergeOptions(), a.logger)
		if err != nil {
			return fmt.Errorf("merge staff profile: %w", err)
		}
	}

	if outside := schools.Locate(sites, geo.NewIndex(districts)); outside > 0 {
		a.logger.Warn("Schools outside every district", zap.Int("count", outside))
	}

	return tramap.WriteFile(m.Output, districts, sites, mapOptions(m), a.logger)
}

func mapOptions(m config.MapConfig) tramap.Options {
	opts := tramap.DefaultOptions()
	opts.Staff = m.Staff
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&opts.Title, m.Title)
	override(&opts.Heading, m.Heading)
	override(&opts.Description, m.Description)
	override(&opts.URL, m.URL)
	override(&opts.ScreenshotName, m.ScreenshotName)
	override(&opts.Footer, m.Footer)
	return opts
}
