package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/annotations"
	"github.com/coderlm/coderlm/internal/project"
	"github.com/coderlm/coderlm/internal/query"
)

var (
	defineFileFlag   string
	defineSymbolFlag string
)

var defineCmd = &cobra.Command{
	Use:   "define <text>",
	Short: "Attach an agent-authored definition to a file or symbol",
	Long: `Define refuses to overwrite an existing definition; use "redefine" to
always overwrite. Targets a file with --file, or a symbol with
--file and --symbol together. Persists to .coderlm/annotations.json.

Examples:
  coderlm define "entry point" --file=cmd/coderlm/main.go
  coderlm define "indexes one directory" --file=internal/project/project.go --symbol=Project`,
	Args: cobra.ExactArgs(1),
	RunE: runDefine(false),
}

var redefineCmd = &cobra.Command{
	Use:   "redefine <text>",
	Short: "Overwrite an existing definition unconditionally",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefine(true),
}

var markFileCmd = &cobra.Command{
	Use:   "mark <mark>",
	Short: "Tag a file with a mark (documentation, ignore, test, config, generated, custom)",
	Args:  cobra.ExactArgs(1),
	RunE:  runMark,
}

func init() {
	for _, c := range []*cobra.Command{defineCmd, redefineCmd} {
		c.Flags().StringVar(&defineFileFlag, "file", "", "Target file (required)")
		c.Flags().StringVar(&defineSymbolFlag, "symbol", "", "Target symbol within --file")
		_ = c.MarkFlagRequired("file")
		rootCmd.AddCommand(c)
	}
	markFileCmd.Flags().StringVar(&defineFileFlag, "file", "", "Target file (required)")
	_ = markFileCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(markFileCmd)
}

func runDefine(redefine bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		defer persistAnnotations(p)

		text := args[0]
		if defineSymbolFlag != "" {
			if redefine {
				err = query.RedefineSymbol(p.Table, defineSymbolFlag, defineFileFlag, text)
			} else {
				err = query.DefineSymbol(p.Table, defineSymbolFlag, defineFileFlag, text)
			}
		} else {
			if redefine {
				err = query.RedefineFile(p.Tree, defineFileFlag, text)
			} else {
				err = query.DefineFile(p.Tree, defineFileFlag, text)
			}
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s definition saved\n", Success("✓"))
		return nil
	}
}

func runMark(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	defer persistAnnotations(p)

	if err := query.MarkFile(p.Tree, defineFileFlag, args[0]); err != nil {
		return err
	}
	fmt.Printf("%s marked %s as %s\n", Success("✓"), Path(defineFileFlag), Keyword(args[0]))
	return nil
}

// persistAnnotations writes the mutated annotations back to
// .coderlm/annotations.json. Errors are reported but not fatal — the
// in-process mutation already happened and the next command will just
// redo the work if the write failed.
func persistAnnotations(p *project.Project) {
	if err := annotations.Save(p.Root, p.Tree, p.Table); err != nil {
		fmt.Printf("%s save annotations: %v\n", Warning("!"), err)
	}
}
