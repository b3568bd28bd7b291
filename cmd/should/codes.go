package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/plan"
	"github.com/cgast/should/pkg/should"
)

func newCodesCommand(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "codes [prefix]",
		Short: "List check identities",
		Long: `List the identity of every catalog check, such as
Assertion/Collection/HaveCount. A prefix such as Assertion/Text keeps only
its descendants. With --kind, list the check names a plan subject kind
accepts instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if kind != "" {
				checks := plan.Checks(plan.SubjectKind(kind))
				if checks == nil {
					return usageError(fmt.Errorf("unknown subject kind %q (known: %v)", kind, plan.Kinds()))
				}
				if a.opts.Format == "json" {
					return writeJSON(out, checks)
				}
				for _, name := range checks {
					required, _ := plan.RequiredArgs(plan.SubjectKind(kind), name)
					if len(required) == 0 {
						fmt.Fprintln(out, name)
						continue
					}
					fmt.Fprintf(out, "%s %v\n", name, required)
				}
				return nil
			}

			var prefix fault.Code
			if len(args) == 1 {
				prefix = fault.Parse(strings.TrimSuffix(args[0], fault.Separator))
			}

			var codes []fault.Code
			for _, c := range should.Codes() {
				if c.HasPrefix(prefix) {
					codes = append(codes, c)
				}
			}
			if a.opts.Format == "json" {
				return writeJSON(out, codes)
			}
			for _, c := range codes {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "list the checks of a plan subject kind")
	return cmd
}
