package cleaning

import (
	"fmt"

	"jailreport/adapters/datareadiness/coercer"
	"jailreport/domain/table"
	"jailreport/internal"
)

// Stage names a pipeline step for error reporting
type Stage string

const (
	StageNormalize    Stage = "normalize_columns"
	StageReportDate   Stage = "report_date"
	StageJurisdiction Stage = "jurisdiction_name"
	StageTypecast     Stage = "typecast"
)

// StageError wraps a fatal error with the stage that raised it
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result is what a successful run produces besides the mutated table
type Result struct {
	Table *table.Table
	Casts []CastReport
}

// Pipeline runs the cleaning stages in fixed order. It keeps no state between
// runs, so one Pipeline may clean several tables concurrently.
type Pipeline struct {
	rules        []CastRule
	jurisdiction JurisdictionRules
	coercer      *coercer.TypeCoercer
	logger       *internal.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithJurisdictionRules replaces the default descriptor keywords
func WithJurisdictionRules(rules JurisdictionRules) Option {
	return func(p *Pipeline) { p.jurisdiction = rules }
}

// WithCoercer replaces the default coercer
func WithCoercer(c *coercer.TypeCoercer) Option {
	return func(p *Pipeline) { p.coercer = c }
}

// WithLogger sets the logger used for warnings
func WithLogger(l *internal.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline applying rules, in order, after the fixed stages
func NewPipeline(rules []CastRule, opts ...Option) *Pipeline {
	p := &Pipeline{
		rules:        append([]CastRule(nil), rules...),
		jurisdiction: DefaultJurisdictionRules(),
		coercer:      coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		logger:       internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rules returns the cast rules in application order
func (p *Pipeline) Rules() []CastRule {
	return append([]CastRule(nil), p.rules...)
}

// Run cleans t in place. A failing stage aborts the run; t may then be
// partially transformed and should be discarded.
func (p *Pipeline) Run(t *table.Table) (*Result, error) {
	if err := NormalizeColumns(t); err != nil {
		return nil, &StageError{Stage: StageNormalize, Err: err}
	}
	p.logger.Debug("normalized columns: %v", t.Names())

	if err := SynthesizeReportDate(t); err != nil {
		return nil, &StageError{Stage: StageReportDate, Err: err}
	}

	if err := CleanJurisdictionName(t, p.jurisdiction); err != nil {
		return nil, &StageError{Stage: StageJurisdiction, Err: err}
	}

	result := &Result{Table: t}
	for _, rule := range p.rules {
		report := CastByKeyword(t, rule.Keyword, rule.Type, p.coercer)
		if err := report.Err(); err != nil {
			if report.Unsupported {
				p.logger.Warn("%v", err)
			} else {
				p.logger.Debug("%v", err)
			}
		}
		result.Casts = append(result.Casts, report)
	}
	return result, nil
}
