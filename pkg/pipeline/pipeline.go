package pipeline

import (
	"context"
	"fmt"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"golang.org/x/sync/errgroup"

	"creditwrangle/pkg/data"
	"creditwrangle/pkg/dataprep"
	"creditwrangle/pkg/stats"
)

// Step is one cleaning operation applied to a table in place. The logger
// is the one the pipeline was built with.
type Step interface {
	Name() string
	Apply(t *data.Table, logger log.Logger) error
}

// Pipeline chains steps. The first failing step aborts the run.
type Pipeline struct {
	steps  []Step
	logger log.Logger
}

func NewPipeline(logger log.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Pipeline{steps: steps, logger: logger}
}

func (p *Pipeline) Run(ctx context.Context, t *data.Table) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Apply(t, p.logger); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
		level.Debug(p.logger).Log("msg", "step applied", "step", step.Name())
	}
	return nil
}

// RecodeStep maps codes outside Accepted to Fallback.
type RecodeStep struct {
	Column   string
	Accepted []float64
	Fallback float64
}

func (s RecodeStep) Name() string { return "recode " + s.Column }

func (s RecodeStep) Apply(t *data.Table, logger log.Logger) error {
	col, err := t.Float(s.Column)
	if err != nil {
		return err
	}
	out := dataprep.Recode(col, s.Accepted, s.Fallback)
	changed := 0
	for i := range col {
		if col[i] != out[i] {
			changed++
		}
	}
	if err := t.SetFloat(s.Column, out); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "recoded values", "column", s.Column, "fallback", s.Fallback, "rows", changed)
	return nil
}

type RenameStep struct {
	From, To string
}

func (s RenameStep) Name() string { return "rename " + s.From + " to " + s.To }

func (s RenameStep) Apply(t *data.Table, _ log.Logger) error { return t.Rename(s.From, s.To) }

// TrimStep clips each listed column to quantile bounds computed from that
// column alone. Columns are read and clipped concurrently and written back
// in plan order.
type TrimStep struct {
	Trims []Trim
}

func (s TrimStep) Name() string { return fmt.Sprintf("trim %d columns", len(s.Trims)) }

func (s TrimStep) Apply(t *data.Table, logger log.Logger) error {
	clipped := make([][]float64, len(s.Trims))
	bounds := make([]stats.Bounds, len(s.Trims))
	var g errgroup.Group
	for i, tr := range s.Trims {
		g.Go(func() error {
			col, err := t.Float(tr.Column)
			if err != nil {
				return err
			}
			out, b, err := stats.ClipOutliers(col, tr.Lower, tr.Upper)
			if err != nil {
				return &dataprep.ColumnError{Column: tr.Column, Err: err}
			}
			clipped[i], bounds[i] = out, b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, tr := range s.Trims {
		if err := t.SetFloat(tr.Column, clipped[i]); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "trimmed outliers", "column", tr.Column, "bounds", bounds[i].String())
	}
	return nil
}

// WrangleSteps returns the steps producing the wrangled table.
func (p Plan) WrangleSteps() []Step {
	var steps []Step
	for _, r := range p.Recodes {
		steps = append(steps, RecodeStep{Column: r.Column, Accepted: r.Accepted, Fallback: r.Fallback})
	}
	for _, r := range p.Renames {
		steps = append(steps, RenameStep{From: r.From, To: r.To})
	}
	return steps
}

// TrimSteps returns the steps turning a wrangled table into the trimmed one.
func (p Plan) TrimSteps() []Step {
	if len(p.Trims) == 0 {
		return nil
	}
	return []Step{TrimStep{Trims: p.Trims}}
}
