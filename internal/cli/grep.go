package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/query"
)

var (
	grepScopeFlag      string
	grepMaxMatchesFlag int
	grepContextFlag    int
)

var grepCmd = &cobra.Command{
	Use:   "grep <pattern>",
	Short: "Regex search across the indexed project",
	Long: `Search every indexed file in path order for pattern, a Go regular
expression.

--scope=code skips matches inside comments and string literals, for
languages with a Language Profile.

Examples:
  coderlm grep TODO
  coderlm grep 'func Handle\w+' --scope=code --context=2`,
	Args: cobra.ExactArgs(1),
	RunE: runGrep,
}

func init() {
	grepCmd.Flags().StringVar(&grepScopeFlag, "scope", "all", "Match scope: all or code")
	grepCmd.Flags().IntVar(&grepMaxMatchesFlag, "max-matches", 100, "Cap on reported matches")
	grepCmd.Flags().IntVar(&grepContextFlag, "context", 0, "Context lines before/after each match")
	rootCmd.AddCommand(grepCmd)
}

func runGrep(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	scope := query.ScopeAll
	if grepScopeFlag == string(query.ScopeCode) {
		scope = query.ScopeCode
	}

	resp, err := query.Grep(p.Root, p.Tree, args[0], scope, grepMaxMatchesFlag, grepContextFlag)
	if err != nil {
		return err
	}

	if len(resp.Matches) == 0 {
		fmt.Printf("No matches for: %s\n", Warning(resp.Pattern))
		return nil
	}

	for _, m := range resp.Matches {
		fmt.Printf("%s\n", Path(fmt.Sprintf("%s:%d", m.File, m.Line)))
		for _, l := range m.ContextBefore {
			fmt.Printf("  %s\n", Dim(l))
		}
		fmt.Printf("> %s\n", m.Text)
		for _, l := range m.ContextAfter {
			fmt.Printf("  %s\n", Dim(l))
		}
		fmt.Println()
	}

	fmt.Printf("%s matches", Info(formatNumber(resp.TotalMatches)))
	if resp.Truncated {
		fmt.Printf(" (%s shown)", Info(formatNumber(len(resp.Matches))))
	}
	fmt.Println()
	return nil
}
