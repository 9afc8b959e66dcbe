package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/scenario"
)

// RunResult is the outcome of every scenario a run command was given.
type RunResult struct {
	Scenarios []scenario.Result `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenario files against a fresh core",
		Long: `Run each scenario file against its own empty core and print every feed it reads.

Exit codes:
  0 - All expectations held
  1 - One or more expectations failed
  2 - Command error (unreadable or invalid scenario)

Examples:
  murmur run scenarios/e2e.yaml
  murmur run scenarios/*.yaml --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, rootOpts.formatter(cmd), args)
		},
	}
}

func runScenarios(cmd *cobra.Command, out *OutputFormatter, paths []string) error {
	// Load everything first so a bad file fails before any output.
	scenarios := make([]*scenario.Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}
		scenarios = append(scenarios, sc)
	}

	result := RunResult{Scenarios: make([]scenario.Result, 0, len(scenarios))}
	for _, sc := range scenarios {
		out.VerboseLog("running %s (%d steps)", sc.Name, len(sc.Steps))

		res := scenario.Run(cmd.Context(), sc)
		result.Scenarios = append(result.Scenarios, res)
		if res.Passed() {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if out.JSON() {
		if err := out.Respond(result.Failed == 0, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		printRunText(out, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

func printRunText(out *OutputFormatter, result RunResult) {
	for _, res := range result.Scenarios {
		out.Printf("=== %s", res.Name)
		for _, obs := range res.Feeds {
			mark := ""
			switch {
			case !obs.Checked:
			case obs.Passed:
				mark = " [ok]"
			default:
				mark = " [FAIL]"
			}
			out.Printf("step %d feed %s: %s%s", obs.Step, obs.User, formatItems(obs.Items), mark)
		}
		for _, failure := range res.Failures {
			out.Printf("  %s", failure)
		}

		if res.Passed() {
			out.Printf("PASS %s", res.Name)
		} else {
			out.Printf("FAIL %s", res.Name)
		}
	}
	out.Printf("%d passed, %d failed", result.Passed, result.Failed)
}

// Items as "id#sequence", most recent first.
func formatItems(items []murmur.Item) string {
	if len(items) == 0 {
		return "(empty)"
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s#%d", it.ID, it.Sequence))
	}
	return strings.Join(parts, " ")
}
