package main

import (
	"github.com/spf13/cobra"

	"github.com/cgast/should/pkg/events"
	"github.com/cgast/should/pkg/plan"
	"github.com/cgast/should/pkg/protocol"
)

func newServeCommand(a *app) *cobra.Command {
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer JSON-RPC requests on stdin",
		Long: `Serve reads one JSON-RPC 2.0 request per line from stdin and writes
one response per line to stdout until stdin closes.

Methods: plan.validate, plan.run, codes.list, checks.list, history.
Plan and subject files named by a request must pass the sandbox section
of the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := a.cfg.EngineMode()
			if err != nil {
				return usageError(err)
			}
			bus := events.NewMemoryBus()
			runnerOpts := []plan.RunnerOption{
				plan.WithLogger(a.logger),
				plan.WithBus(bus),
				plan.WithDefaultMode(mode),
			}

			box, err := a.cfg.NewSandbox()
			if err != nil {
				return usageError(err)
			}
			serverOpts := []protocol.ServerOption{protocol.WithFileGuard(box)}

			if a.cfg.Journal.Persist && !noJournal {
				j, err := openJournal(a)
				if err != nil {
					return err
				}
				defer j.Close()
				runnerOpts = append(runnerOpts, plan.WithRecorder(j))
				serverOpts = append(serverOpts, protocol.WithHistory(j))
			}

			h := protocol.NewServer(plan.NewRunner(runnerOpts...), serverOpts...)
			a.logger.Info("serving", "methods", h.Methods())
			err = h.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
			a.logger.Debug("serve finished", "plans", bus.Count(events.EventPlanFinished))
			return err
		},
	}

	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record or serve run history")
	return cmd
}
