package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/model"
)

var (
	statsJSON    bool
	statsCompact bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics for the current project",
	Long: `Display symbol counts by kind, language breakdown, and file count
for the project rooted at the current directory.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsCompact, "compact", false, "Compact output format")
}

// statsSummary is the serializable projection of a Project used by
// `stats --json`.
type statsSummary struct {
	Root      string         `json:"root"`
	FileCount int            `json:"file_count"`
	SymbolsBy map[string]int `json:"symbols_by_kind"`
	TotalSyms int            `json:"total_symbols"`
	Languages []langCount    `json:"languages"`
}

type langCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

func runStats(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	symbols := p.Table.All()
	byKind := make(map[string]int)
	for _, sym := range symbols {
		byKind[string(sym.Kind)]++
	}

	langs := p.Tree.LanguageBreakdown()
	languages := make([]langCount, len(langs))
	for i, l := range langs {
		languages[i] = langCount{Language: string(l.Language), Count: l.Count}
	}

	summary := statsSummary{
		Root:      p.Root,
		FileCount: p.Tree.Len(),
		SymbolsBy: byKind,
		TotalSyms: len(symbols),
		Languages: languages,
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	if statsCompact {
		fmt.Printf("files:%d symbols:%d functions:%d methods:%d classes:%d\n",
			summary.FileCount, summary.TotalSyms,
			byKind[string(model.KindFunction)], byKind[string(model.KindMethod)], byKind[string(model.KindClass)])
		return nil
	}

	printStats(summary)
	return nil
}

func printStats(s statsSummary) {
	fmt.Printf("coderlm status for: %s\n\n", Path(s.Root))

	fmt.Printf("%s\n", Bold("Index statistics"))
	fmt.Printf("   Files:        %s\n", Info(formatNumber(s.FileCount)))
	fmt.Printf("   Symbols:      %s\n", Info(formatNumber(s.TotalSyms)))
	for _, kind := range []model.SymbolKind{
		model.KindFunction, model.KindMethod, model.KindClass, model.KindStruct,
		model.KindInterface, model.KindType, model.KindConstant, model.KindVariable,
	} {
		if n := s.SymbolsBy[string(kind)]; n > 0 {
			fmt.Printf("   %-14s%s\n", Keyword(string(kind))+":", Info(formatNumber(n)))
		}
	}
	fmt.Println()

	if len(s.Languages) > 0 {
		fmt.Printf("%s\n", Bold("Languages"))
		for _, l := range s.Languages {
			fmt.Printf("   %-12s %s files\n", Keyword(l.Language)+":", Info(formatNumber(l.Count)))
		}
	}
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
