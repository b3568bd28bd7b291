package plan

import (
	"fmt"
	"time"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/outcome"
	"github.com/cgast/should/pkg/verify"
)

// Report is the result of running one plan against one subject.
type Report struct {
	Plan     string        `json:"plan"`
	Kind     SubjectKind   `json:"kind"`
	Mode     string        `json:"mode"`
	Checks   int           `json:"checks"`
	Passed   bool          `json:"passed"`
	Raised   bool          `json:"raised,omitempty"`
	Fault    *fault.Error  `json:"fault,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Outcome returns the report as a void outcome.
func (r Report) Outcome() outcome.Void {
	if r.Fault == nil {
		return outcome.Ok()
	}
	return outcome.Fail(r.Fault)
}

// Run validates p and applies its checks, in order, as one chain on
// subject. A failing check is a failed report, not an error; errors are
// reserved for invalid plans, subjects of the wrong shape and bad check
// arguments.
//
// In raise mode the raised fault is recovered and reported with Raised
// set, unless opts install a Raiser that does not panic.
func Run(p CheckPlan, subject any, opts ...verify.Option) (Report, error) {
	if res := Validate(p); !res.Valid() {
		return Report{}, res
	}
	mode, err := verify.ParseMode(p.Mode)
	if err != nil {
		return Report{}, err
	}

	def := kinds[p.Subject.Kind]
	c, err := def.start(subject, mode, opts)
	if err != nil {
		return Report{}, &SubjectError{Kind: p.Subject.Kind, Err: err}
	}

	report := Report{
		Plan:   p.Meta.Name,
		Kind:   p.Subject.Kind,
		Mode:   mode.String(),
		Checks: len(p.Checks),
	}

	start := time.Now()
	var applyErr error
	raised := verify.Catch(func() {
		for i, check := range p.Checks {
			if err := c.apply(check); err != nil {
				applyErr = fmt.Errorf("checks[%d]: %w", i, err)
				return
			}
		}
	})
	report.Duration = time.Since(start)
	if applyErr != nil {
		return Report{}, applyErr
	}

	switch {
	case raised != nil:
		report.Raised = true
		report.Fault = raised
	default:
		if v := c.void(); v.IsFailure() {
			report.Fault = v.Err()
		}
	}
	report.Passed = report.Fault == nil
	return report, nil
}
