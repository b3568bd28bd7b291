package main

import (
	"github.com/spf13/cobra"

	"github.com/cgast/should/pkg/plan"
)

// validationOutput is the JSON form of a validate run.
type validationOutput struct {
	Path   string                 `json:"path"`
	Valid  bool                   `json:"valid"`
	Errors []plan.ValidationError `json:"errors,omitempty"`
}

func newValidateCommand(a *app) *cobra.Command {
	var params map[string]string

	cmd := &cobra.Command{
		Use:   "validate <plan.yaml>...",
		Short: "Validate plans without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var results []validationOutput
			invalid := 0
			for _, path := range args {
				p, err := plan.Load(path, params)
				if err != nil {
					return usageError(err)
				}
				res := plan.Validate(p)
				a.logger.Debug("validated plan", "path", path, "errors", len(res.Errors))
				if !res.Valid() {
					invalid++
				}
				if a.opts.Format == "json" {
					results = append(results, validationOutput{Path: path, Valid: res.Valid(), Errors: res.Errors})
					continue
				}
				renderValidation(out, path, res)
			}
			if a.opts.Format == "json" {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return failure("%d of %d plan(s) invalid", invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&params, "param", "p", nil, "plan parameter (name=value)")
	return cmd
}
