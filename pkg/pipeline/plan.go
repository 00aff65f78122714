package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// ErrInvalidPlan is returned when a plan fails validation.
var ErrInvalidPlan = errors.New("pipeline: invalid plan")

// Plan describes one wrangling run: where to read, what to clean, and
// where the two derived tables go.
type Plan struct {
	Input         string `yaml:"input" validate:"required"`
	Output        string `yaml:"output" validate:"required"`
	TrimmedOutput string `yaml:"trimmed_output" validate:"required,nefield=Output"`
	// GroupHeader is set when the file carries a header line above the
	// column names.
	GroupHeader bool `yaml:"group_header"`

	Inspect []Categorical `yaml:"inspect" validate:"dive"`
	Recodes []Categorical `yaml:"recodes" validate:"dive"`
	Renames []Rename      `yaml:"renames" validate:"dive"`
	Trims   []Trim        `yaml:"trims" validate:"dive"`
}

// Categorical names a column and its accepted codes. Fallback is used when
// recoding values outside the accepted set.
type Categorical struct {
	Column   string    `yaml:"column" validate:"required"`
	Accepted []float64 `yaml:"accepted" validate:"required,min=1"`
	Fallback float64   `yaml:"fallback"`
}

type Rename struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required,nefield=From"`
}

// Trim clips a column to its empirical quantiles. Either side may be left out.
type Trim struct {
	Column string   `yaml:"column" validate:"required"`
	Lower  *float64 `yaml:"lower,omitempty" validate:"omitempty,gte=0,lte=1"`
	Upper  *float64 `yaml:"upper,omitempty" validate:"omitempty,gte=0,lte=1"`
}

func quantile(q float64) *float64 { return &q }

func codes(from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for c := from; c <= to; c++ {
		out = append(out, float64(c))
	}
	return out
}

// DefaultPlan reproduces the credit card client wrangling run.
func DefaultPlan() Plan {
	p := Plan{
		Input:         "default of credit card clients.csv",
		Output:        "default of credit card clients - wrangled.csv",
		TrimmedOutput: "default of credit card clients - wrangled - trimmed.csv",
		GroupHeader:   true,
		Inspect: []Categorical{
			{Column: "SEX", Accepted: codes(1, 2)},
			{Column: "EDUCATION", Accepted: codes(1, 4)},
			{Column: "MARRIAGE", Accepted: codes(1, 3)},
			{Column: "default payment next month", Accepted: codes(0, 1)},
		},
		Recodes: []Categorical{
			// 4 = others
			{Column: "EDUCATION", Accepted: codes(1, 4), Fallback: 4},
		},
		Renames: []Rename{{From: "PAY_0", To: "PAY_1"}},
		Trims: []Trim{
			{Column: "LIMIT_BAL", Upper: quantile(.75)},
		},
	}
	for _, pay := range []string{"PAY_0", "PAY_2", "PAY_3", "PAY_4", "PAY_5", "PAY_6"} {
		p.Inspect = append(p.Inspect, Categorical{Column: pay, Accepted: codes(-2, 9)})
	}
	for _, prefix := range []string{"BILL_AMT", "PAY_AMT"} {
		for i := 1; i <= 6; i++ {
			p.Trims = append(p.Trims, Trim{
				Column: fmt.Sprintf("%s%d", prefix, i),
				Lower:  quantile(.25),
				Upper:  quantile(.75),
			})
		}
	}
	return p
}

// LoadPlan reads a YAML plan. Keys missing from the file keep their
// DefaultPlan values.
func LoadPlan(path string) (Plan, error) {
	p := DefaultPlan()
	b, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, err
	}
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return p, p.Validate()
}

var validate = validator.New()

// Validate checks the whole plan, file paths included.
func (p Plan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return p.checkTrims()
}

// ValidateSteps checks only the cleaning part of the plan, for runs over a
// table that is already in memory.
func (p Plan) ValidateSteps() error {
	if err := validate.StructExcept(p, "Input", "Output", "TrimmedOutput"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return p.checkTrims()
}

// checkTrims covers the cross-field rules validator tags cannot express.
func (p Plan) checkTrims() error {
	seen := make(map[string]bool, len(p.Trims))
	for _, t := range p.Trims {
		if t.Lower == nil && t.Upper == nil {
			return fmt.Errorf("%w: trim %q has no quantiles", ErrInvalidPlan, t.Column)
		}
		if t.Lower != nil && t.Upper != nil && *t.Lower > *t.Upper {
			return fmt.Errorf("%w: trim %q lower quantile %g above upper %g", ErrInvalidPlan, t.Column, *t.Lower, *t.Upper)
		}
		if seen[t.Column] {
			return fmt.Errorf("%w: column %q trimmed twice", ErrInvalidPlan, t.Column)
		}
		seen[t.Column] = true
	}
	return nil
}
