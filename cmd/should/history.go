package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cgast/should/pkg/journal"
)

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [plan]",
		Short: "Show recorded plan runs",
		Long:  "Without a plan name, list the plans that have recorded runs.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal(a)
			if err != nil {
				return usageError(err)
			}
			defer j.Close()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				plans, err := j.Plans()
				if err != nil {
					return err
				}
				if a.opts.Format == "json" {
					return writeJSON(out, plans)
				}
				for _, name := range plans {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			entries, err := j.List(args[0], limit)
			if errors.Is(err, journal.ErrNoPlan) {
				return usageError(err)
			}
			if err != nil {
				return err
			}
			if a.opts.Format == "json" {
				return writeJSON(out, entries)
			}
			for _, e := range entries {
				status := "PASS"
				if !e.Passed {
					status = "FAIL"
				}
				fmt.Fprintf(out, "%4d  %s  %s", e.Seq, e.RecordedAt.Local().Format(time.DateTime), status)
				if e.Fault != nil {
					fmt.Fprintf(out, "  %s", e.Fault.Code())
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most n recent runs (0 for all)")
	return cmd
}
