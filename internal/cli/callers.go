package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/query"
)

var (
	callersFileFlag  string
	callersLimitFlag int
)

var callersCmd = &cobra.Command{
	Use:   "callers <symbol>",
	Short: "Find references to a symbol, excluding its own definition",
	Long: `Find every reference to a symbol across the indexed project, via its
Language Profile's callers query where available, falling back to a
literal-name regex scan otherwise. The symbol's own definition line is
suppressed.

Examples:
  coderlm callers ParseConfig --file=internal/config/config.go`,
	Args: cobra.ExactArgs(1),
	RunE: runCallers,
}

func init() {
	callersCmd.Flags().StringVar(&callersFileFlag, "file", "", "The file that defines the symbol (required)")
	callersCmd.Flags().IntVar(&callersLimitFlag, "limit", 100, "Max results to show")
	_ = callersCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(callersCmd)
}

func runCallers(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	callers, err := query.FindCallers(p.Root, p.Tree, p.Table, args[0], callersFileFlag, callersLimitFlag)
	if err != nil {
		return err
	}

	if len(callers) == 0 {
		fmt.Printf("No callers found for: %s\n", Warning(args[0]))
		return nil
	}

	fmt.Printf("%s callers of %s:\n\n", Info(formatNumber(len(callers))), Symbol(args[0]))
	for _, c := range callers {
		fmt.Printf("  %s\n", Path(fmt.Sprintf("%s:%d", c.File, c.Line)))
		fmt.Printf("    %s\n", Dim(c.Text))
	}
	return nil
}
