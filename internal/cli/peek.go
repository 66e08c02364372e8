package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/query"
)

var (
	peekStartFlag int
	peekEndFlag   int
)

var peekCmd = &cobra.Command{
	Use:   "peek <file>",
	Short: "Show a line-numbered slice of a file",
	Long: `Read a file's content, clamped to [start, end), with right-aligned
line-number prefixes.

Examples:
  coderlm peek internal/query/content.go
  coderlm peek internal/query/content.go --start=10 --end=40`,
	Args: cobra.ExactArgs(1),
	RunE: runPeek,
}

func init() {
	peekCmd.Flags().IntVar(&peekStartFlag, "start", 0, "First line (0-indexed)")
	peekCmd.Flags().IntVar(&peekEndFlag, "end", 1<<30, "One past the last line")
	rootCmd.AddCommand(peekCmd)
}

func runPeek(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	resp, err := query.Peek(p.Root, p.Tree, args[0], peekStartFlag, peekEndFlag)
	if err != nil {
		return err
	}

	fmt.Printf("%s (lines %d-%d of %d)\n", Path(resp.File), resp.StartLine, resp.EndLine, resp.TotalLines)
	fmt.Println(resp.Content)
	return nil
}
