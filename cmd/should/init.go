package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cgast/should/pkg/plan"
)

func newInitCommand(a *app) *cobra.Command {
	var (
		kind  string
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Scaffold a starter plan",
		Long: `Write a starter plan for a subject kind, listing every check the kind
accepts with placeholder arguments. Edit the file, then run:

  should check <path> <subject.json>`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := "check.plan.yaml"
			if len(args) == 1 {
				outputPath = args[0]
			}

			p, err := starterPlan(plan.SubjectKind(kind), name)
			if err != nil {
				return usageError(err)
			}
			data, err := yaml.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal plan: %w", err)
			}

			if _, err := os.Stat(outputPath); err == nil && !force {
				return usageError(fmt.Errorf("file %q already exists (use --force to overwrite)", outputPath))
			}
			if dir := filepath.Dir(outputPath); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}

			a.logger.Debug("plan scaffolded", "path", outputPath, "kind", kind)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s for %s subjects\n", outputPath, kind)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(plan.KindDocument), "subject kind")
	cmd.Flags().StringVar(&name, "name", "my-plan", "plan name")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// starterPlan lists every check of a kind, each with placeholder args.
func starterPlan(kind plan.SubjectKind, name string) (plan.CheckPlan, error) {
	checks := plan.Checks(kind)
	if checks == nil {
		return plan.CheckPlan{}, fmt.Errorf("unknown subject kind %q (known: %v)", kind, plan.Kinds())
	}

	p := plan.CheckPlan{
		APIVersion: plan.APIVersion,
		Kind:       plan.Kind,
		Meta:       plan.PlanMeta{Name: name, Description: fmt.Sprintf("Checks for a %s subject", kind)},
		Subject:    plan.SubjectSpec{Kind: kind},
		Mode:       "collect",
	}
	for _, check := range checks {
		c := plan.CheckSpec{Check: check}
		required, _ := plan.RequiredArgs(kind, check)
		for _, arg := range required {
			if c.Args == nil {
				c.Args = make(map[string]any)
			}
			c.Args[arg] = "<" + arg + ">"
		}
		p.Checks = append(p.Checks, c)
	}
	return p, nil
}
