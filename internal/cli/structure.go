package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/query"
)

var structureDepthFlag int

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Render the project's directory tree",
	Long: `Render the File Tree as box-drawing text, with per-language file
counts beneath it.

Examples:
  coderlm structure
  coderlm structure --depth=2`,
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().IntVar(&structureDepthFlag, "depth", 0, "Max directory depth (0 = unlimited)")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	resp := query.Structure(p.Tree, structureDepthFlag)
	fmt.Print(resp.Tree)
	fmt.Printf("\n%s files\n", Info(formatNumber(resp.FileCount)))
	for _, l := range resp.LanguageBreakdown {
		fmt.Printf("  %-12s %s\n", Keyword(l.Language)+":", Info(formatNumber(l.Count)))
	}
	return nil
}
