package plan

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cgast/should/pkg/events"
	"github.com/cgast/should/pkg/journal"
	"github.com/cgast/should/pkg/verify"
)

// Runner loads and runs plans with shared logging, events and history.
type Runner struct {
	logger      *slog.Logger
	bus         events.Bus
	recorder    journal.Recorder
	defaultMode verify.Mode
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger handed to every engine the runner starts.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithBus publishes plan events and, through the engine, check events.
func WithBus(b events.Bus) RunnerOption {
	return func(r *Runner) { r.bus = b }
}

// WithRecorder records every finished run.
func WithRecorder(rec journal.Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithDefaultMode sets the mode used by plans that do not declare one.
func WithDefaultMode(m verify.Mode) RunnerOption {
	return func(r *Runner) { r.defaultMode = m }
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load reads and validates the plan at path.
func (r *Runner) Load(path string, params map[string]string) (CheckPlan, error) {
	p, err := Load(path, params)
	if err != nil {
		return CheckPlan{}, err
	}
	return r.loaded(p, path)
}

// Parse reads and validates an inline plan document.
func (r *Runner) Parse(data []byte, params map[string]string) (CheckPlan, error) {
	p, err := Parse(data, params)
	if err != nil {
		return CheckPlan{}, err
	}
	return r.loaded(p, "")
}

func (r *Runner) loaded(p CheckPlan, path string) (CheckPlan, error) {
	if res := Validate(p); !res.Valid() {
		return CheckPlan{}, res
	}
	r.logger.Debug("plan loaded", "plan", p.Meta.Name, "path", path, "checks", len(p.Checks))
	r.publish(events.EventPlanLoaded, p.Meta.Name, map[string]any{"path": path, "checks": len(p.Checks)})
	return p, nil
}

// Run runs p against subject and records the report.
func (r *Runner) Run(p CheckPlan, subject any) (Report, error) {
	if p.Mode == "" {
		p.Mode = r.defaultMode.String()
	}

	opts := []verify.Option{verify.WithLogger(r.logger)}
	if r.bus != nil {
		opts = append(opts, verify.WithBus(r.bus))
	}

	report, err := Run(p, subject, opts...)
	if err != nil {
		r.logger.Error("plan run failed", "plan", p.Meta.Name, "error", err)
		return Report{}, err
	}

	attrs := []any{"plan", report.Plan, "passed", report.Passed, "duration", report.Duration}
	if report.Fault != nil {
		attrs = append(attrs, "code", report.Fault.Code().String())
	}
	r.logger.Info("plan finished", attrs...)
	r.publish(events.EventPlanFinished, report.Plan, report)

	if r.recorder != nil {
		_, err := r.recorder.Record(journal.Entry{
			Plan:   report.Plan,
			Kind:   string(report.Kind),
			Mode:   report.Mode,
			Passed: report.Passed,
			Raised: report.Raised,
			Fault:  report.Fault,
		})
		if err != nil {
			r.logger.Warn("run not recorded", "plan", report.Plan, "error", err)
			return report, &RecordError{Err: err}
		}
	}
	return report, nil
}

// RecordError is returned by Runner.Run, together with a complete report,
// when the run finished but the recorder failed.
type RecordError struct {
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record run: %v", e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

func (r *Runner) publish(typ events.EventType, subject string, data any) {
	if r.bus != nil {
		r.bus.Publish(events.NewEvent(typ, subject, data))
	}
}
