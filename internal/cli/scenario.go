package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/artisha/internal/harness"
)

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file|dir>",
		Short: "Run storefront scenarios",
		Long: `Run YAML scenarios against a fresh in-memory store.

Each scenario gets its own database seeded with the default catalog, so
scenarios never touch --db.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  artisha scenario ./scenarios
  artisha scenario ./scenarios/checkout.yaml --format json`,
		Args: requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			paths, err := harness.FindScenarios(args[0])
			if err != nil {
				_ = out.Error("E003", err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to find scenarios", err)
			}
			out.VerboseLog("running %d scenario(s)", len(paths))

			summary := harness.RunFiles(paths)

			lines := []string{fmt.Sprintf("Results: %d passed, %d failed, %d total",
				summary.Passed, summary.Failed, summary.Total)}
			for _, f := range summary.Failures {
				lines = append(lines, fmt.Sprintf("  FAIL %s: %s", f.Path, f.Error))
			}
			if err := out.Success(summary, nil, lines...); err != nil {
				return err
			}

			if summary.Failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
			}
			return nil
		},
	}
}
