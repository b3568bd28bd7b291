package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cgast/should/pkg/events"
	"github.com/cgast/should/pkg/journal"
	"github.com/cgast/should/pkg/plan"
)

type checkOptions struct {
	params    map[string]string
	mode      string
	noJournal bool
}

func newCheckCommand(a *app) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <plan.yaml> <subject.json|subject.yaml|->",
		Short: "Run a plan against a subject",
		Long: `Run the checks of a plan, in order, against a subject document.

The subject is JSON unless its file name ends in .yaml or .yml; "-" reads
JSON from stdin. Exit status is 1 when a check fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(a, opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringToStringVarP(&opts.params, "param", "p", nil, "plan parameter (name=value)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "override the plan mode (collect|raise)")
	cmd.Flags().BoolVar(&opts.noJournal, "no-journal", false, "do not record the run")

	return cmd
}

func runCheck(a *app, opts *checkOptions, cmd *cobra.Command, planPath, subjectPath string) error {
	bus := events.NewMemoryBus()
	runnerOpts := []plan.RunnerOption{plan.WithLogger(a.logger), plan.WithBus(bus)}

	mode, err := a.cfg.EngineMode()
	if err != nil {
		return usageError(err)
	}
	runnerOpts = append(runnerOpts, plan.WithDefaultMode(mode))

	if a.cfg.Journal.Persist && !opts.noJournal {
		j, err := openJournal(a)
		if err != nil {
			return err
		}
		defer j.Close()
		runnerOpts = append(runnerOpts, plan.WithRecorder(j))
	}

	runner := plan.NewRunner(runnerOpts...)
	p, err := runner.Load(planPath, opts.params)
	if err != nil {
		return usageError(err)
	}
	if opts.mode != "" {
		p.Mode = opts.mode
	}

	subject, err := readSubject(subjectPath, cmd.InOrStdin())
	if err != nil {
		return usageError(err)
	}

	report, err := runner.Run(p, subject)
	a.logger.Debug("check events", "passed", bus.Count(events.EventCheckPassed),
		"failed", bus.Count(events.EventCheckFailed), "skipped", bus.Count(events.EventCheckSkipped))
	return finishCheck(a, cmd.OutOrStdout(), report, err)
}

// finishCheck prints the report of a run and maps it to an exit status.
// A run the journal failed to record keeps the status of its checks; the
// runner has already logged the journal error.
func finishCheck(a *app, out io.Writer, report plan.Report, runErr error) error {
	var recErr *plan.RecordError
	if runErr != nil && !errors.As(runErr, &recErr) {
		return usageError(runErr)
	}

	if a.opts.Format == "json" {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		renderReport(out, report)
	}

	if !report.Passed {
		return failure("plan %s failed: %s", report.Plan, report.Fault.Code())
	}
	return nil
}

func openJournal(a *app) (*journal.Journal, error) {
	path := a.cfg.Journal.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	return journal.Open(path, a.cfg.Journal.MaxEntries)
}

// readSubject decodes the subject document. "-" reads JSON from stdin.
func readSubject(path string, stdin io.Reader) (any, error) {
	if path != "-" {
		return plan.LoadSubject(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read subject from stdin: %w", err)
	}
	return plan.DecodeSubject(data, "stdin")
}
