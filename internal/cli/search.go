package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/model"
	"github.com/coderlm/coderlm/internal/query"
)

var (
	searchKindFlag  string
	searchFileFlag  string
	searchLimitFlag int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search symbols by substring, or list them with --file",
	Long: `Case-insensitive substring search over every indexed symbol's name.
With --file and no query, lists every symbol declared in that file instead.

Examples:
  coderlm search parseConfig
  coderlm search parse --kind=function --limit=10
  coderlm search "" --file=internal/query/content.go`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchKindFlag, "kind", "", "Filter by symbol kind (function, method, class, struct, ...)")
	searchCmd.Flags().StringVar(&searchFileFlag, "file", "", "Restrict to this file (also enables listing with no query)")
	searchCmd.Flags().IntVar(&searchLimitFlag, "limit", 20, "Max results to show")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	var q string
	if len(args) > 0 {
		q = args[0]
	}

	var results []*model.Symbol
	if q == "" {
		results = query.ListSymbols(p.Table, model.SymbolKind(searchKindFlag), searchFileFlag, searchLimitFlag)
	} else {
		results = query.SearchSymbols(p.Table, q, searchLimitFlag)
	}

	if len(results) == 0 {
		fmt.Printf("No symbols found for: %s\n", Warning(q))
		return nil
	}

	fmt.Printf("%s symbols:\n\n", Info(formatNumber(len(results))))
	for _, sym := range results {
		fmt.Printf("  %s [%s]\n", Symbol(sym.Name), Keyword(string(sym.Kind)))
		fmt.Printf("    %s\n", Path(fmt.Sprintf("%s:%d", sym.File, sym.LineRange.Start)))
		if sym.Signature != "" {
			fmt.Printf("    %s\n", Dim(sym.Signature))
		}
	}
	return nil
}
