package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"creditwrangle/pkg/data"
	"creditwrangle/pkg/dataprep"
	"creditwrangle/pkg/stats"
)

// ErrMissingValues is returned when the input holds missing cells. The
// cleaning steps assume a complete table.
var ErrMissingValues = errors.New("pipeline: input has missing values")

// ColumnReport is the inspection of one categorical column of the input.
type ColumnReport struct {
	Column     string
	Inspection *dataprep.Inspection[float64]
}

// Result holds everything a run produced.
type Result struct {
	Wrangled *data.Table
	Trimmed  *data.Table
	Reports  []ColumnReport
	// Summaries describe the trimmed columns before trimming.
	Summaries map[string]stats.Summary
}

// Inspect builds a report for every categorical column listed in the plan.
func Inspect(t *data.Table, cols []Categorical) ([]ColumnReport, error) {
	reports := make([]ColumnReport, 0, len(cols))
	for _, c := range cols {
		col, err := t.Float(c.Column)
		if err != nil {
			return nil, err
		}
		in, err := dataprep.Inspect(col, c.Accepted)
		if err != nil {
			return nil, &dataprep.ColumnError{Column: c.Column, Err: err}
		}
		reports = append(reports, ColumnReport{Column: c.Column, Inspection: in})
	}
	return reports, nil
}

// Wrangle runs the plan over an already loaded table. The input is not
// modified.
func Wrangle(ctx context.Context, p Plan, in *data.Table, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := p.ValidateSteps(); err != nil {
		return nil, err
	}

	missing, err := dataprep.MissingCounts(in)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		cols := make([]string, 0, len(missing))
		for c := range missing {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		return nil, fmt.Errorf("%w: columns %v", ErrMissingValues, cols)
	}

	reports, err := Inspect(in, p.Inspect)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		if !r.Inspection.Clean() {
			level.Warn(logger).Log("msg", "values outside accepted set", "column", r.Column,
				"values", fmt.Sprint(r.Inspection.Invalid()), "rows", len(r.Inspection.FlaggedRows()))
		}
	}

	res := &Result{Reports: reports, Summaries: make(map[string]stats.Summary)}

	res.Wrangled = in.Clone()
	if err := NewPipeline(logger, p.WrangleSteps()...).Run(ctx, res.Wrangled); err != nil {
		return nil, err
	}

	for _, tr := range p.Trims {
		col, err := res.Wrangled.Float(tr.Column)
		if err != nil {
			return nil, err
		}
		s, err := stats.Describe(col)
		if err != nil {
			return nil, &dataprep.ColumnError{Column: tr.Column, Err: err}
		}
		res.Summaries[tr.Column] = s
		level.Debug(logger).Log("msg", "column summary", "column", tr.Column,
			"min", s.Min, "q1", s.LowerQuartile, "median", s.Median, "mean", s.Mean,
			"q3", s.UpperQuartile, "max", s.Max, "skew", s.Skew, "kurtosis", s.Kurtosis)
	}

	res.Trimmed = res.Wrangled.Clone()
	if err := NewPipeline(logger, p.TrimSteps()...).Run(ctx, res.Trimmed); err != nil {
		return nil, err
	}
	return res, nil
}

// Run loads the plan input, wrangles it and writes both derived files.
// Nothing is written unless every step succeeded.
func Run(ctx context.Context, p Plan, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var opts []data.ReadOption
	if p.GroupHeader {
		opts = append(opts, data.WithGroupHeader())
	}
	in, err := data.Load(p.Input, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.Input, err)
	}
	level.Info(logger).Log("msg", "loaded table", "path", p.Input, "rows", in.Len(), "columns", len(in.Names()))

	res, err := Wrangle(ctx, p, in, logger)
	if err != nil {
		return nil, err
	}

	if err := res.Wrangled.Save(p.Output); err != nil {
		return nil, fmt.Errorf("save %s: %w", p.Output, err)
	}
	level.Info(logger).Log("msg", "wrote table", "path", p.Output)
	if err := res.Trimmed.Save(p.TrimmedOutput); err != nil {
		return nil, fmt.Errorf("save %s: %w", p.TrimmedOutput, err)
	}
	level.Info(logger).Log("msg", "wrote table", "path", p.TrimmedOutput)
	return res, nil
}
