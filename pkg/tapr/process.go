package tapr

import (
	"errors"
	"fmt"
	"os"

	"github.com/txedinfo/tramap/pkg/tapr/models"
	"github.com/txedinfo/tramap/pkg/tapr/parser"
	"go.uber.org/zap"
)

// Summary describes a completed pipeline run.
type Summary struct {
	// Rows is the number of records written.
	Rows int
	// MissingRows is the number of rows in the missing-data report.
	MissingRows int
	// MaskedRows is the number of rows suppressed by the masking policy.
	MaskedRows int
}

// CampusResult holds the in-memory outputs of TransformCampus.
type CampusResult struct {
	// Profile is the cleaned campus teacher profile.
	Profile *models.Table
	// MissingReport holds selected rows with missing salary data, before cleaning.
	MissingReport *models.Table
	// MaskedRows counts rows suppressed by the masking policy.
	MaskedRows int
}

// ProcessDistrict reads the district staff profile, keeps the teacher columns
// and writes the district teacher profile.
func ProcessDistrict(opts Options, logger *zap.Logger) (Summary, error) {
	raw, err := readInput(opts.DistrictInput, parser.ReadOptions{})
	if err != nil {
		return Summary{}, err
	}
	logger.Debug("Read district staff profile",
		zap.String("path", opts.DistrictInput),
		zap.Int("rows", raw.Len()),
		zap.Int("columns", len(raw.Columns)))

	profile, err := Select(raw, DistrictColumns(opts.year()))
	if err != nil {
		return Summary{}, err
	}

	if err := parser.WriteTable(opts.DistrictOutput, opts.Sheet, profile); err != nil {
		return Summary{}, NewStageError("write", "", err)
	}
	logger.Info("Wrote district teacher profile",
		zap.String("path", opts.DistrictOutput),
		zap.Int("rows", profile.Len()))

	return Summary{Rows: profile.Len()}, nil
}

// ProcessCampus runs the campus pipeline end to end: it reads the campus
// staff profile and its layout labels, writes the missing-data report and
// writes the cleaned campus teacher profile.
func ProcessCampus(opts Options, logger *zap.Logger) (Summary, error) {
	raw, err := readInput(opts.CampusInput, parser.ReadOptions{})
	if err != nil {
		return Summary{}, err
	}
	logger.Debug("Read campus staff profile",
		zap.String("path", opts.CampusInput),
		zap.Int("rows", raw.Len()),
		zap.Int("columns", len(raw.Columns)))

	if _, err := os.Stat(opts.LabelsInput); err != nil {
		return Summary{}, NewStageError("labels", "", fileError(opts.LabelsInput, err))
	}
	labels, err := parser.ReadLabels(opts.LabelsInput, opts.LabelsSkipRows)
	if err != nil {
		return Summary{}, NewStageError("labels", "", err)
	}
	logger.Debug("Read column labels", zap.Int("labels", len(labels)))

	res, err := TransformCampus(raw, labels, opts.year())
	if err != nil {
		return Summary{}, err
	}
	for i := range res.Profile.Rows {
		if RowMaskState(res.Profile, i) == Masked {
			logger.Debug("Masked campus",
				zap.String("school_number", res.Profile.Get(i, ColSchoolNumber).String()),
				zap.String("campus", res.Profile.Get(i, ColCampusName).String()))
		}
	}

	if err := parser.WriteTable(opts.MissingReport, opts.Sheet, res.MissingReport); err != nil {
		return Summary{}, NewStageError("report", "", err)
	}
	logger.Info("Wrote missing salary report",
		zap.String("path", opts.MissingReport),
		zap.Int("rows", res.MissingReport.Len()))

	if err := parser.WriteTable(opts.CampusOutput, opts.Sheet, res.Profile); err != nil {
		return Summary{}, NewStageError("write", "", err)
	}
	logger.Info("Wrote campus teacher profile",
		zap.String("path", opts.CampusOutput),
		zap.Int("rows", res.Profile.Len()),
		zap.Int("masked", res.MaskedRows))

	return Summary{
		Rows:        res.Profile.Len(),
		MissingRows: res.MissingReport.Len(),
		MaskedRows:  res.MaskedRows,
	}, nil
}

// TransformCampus applies the campus stages to a raw CSTAF table in order:
// rename, select, missing report, strip prefix, sentinel, coerce, zero,
// round, aggregate and mask.
func TransformCampus(raw *models.Table, labels map[string]string, year int) (*CampusResult, error) {
	prefix := CampusPrefix(year)

	t, err := Select(Rename(raw, labels), CampusColumns(year))
	if err != nil {
		return nil, err
	}

	report, err := MissingReport(t, withPrefix(prefix, SalaryCheckColumns()))
	if err != nil {
		return nil, err
	}

	t = Rename(StripPrefix(t, prefix), map[string]string{
		ColCampus:   ColSchoolNumber,
		ColDistrict: ColDistrictNumber,
	})
	t = CoerceNumeric(ReplaceSentinel(t, MissingSentinel))
	t = ZeroEmptyBands(t)

	if t, err = Round(t, RoundColumns(), 1); err != nil {
		return nil, err
	}
	if t, err = AggregateFivePlus(t); err != nil {
		return nil, err
	}

	t, masked, err := Mask(t, SalaryCheckColumns(), TeacherMarker)
	if err != nil {
		return nil, err
	}

	return &CampusResult{
		Profile:       t,
		MissingReport: report,
		MaskedRows:    masked,
	}, nil
}

func readInput(path string, opts parser.ReadOptions) (*models.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewStageError("read", "", fileError(path, err))
	}
	t, err := parser.ReadTable(path, opts)
	if err != nil {
		return nil, NewStageError("read", "", err)
	}
	return t, nil
}

func fileError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return err
}
