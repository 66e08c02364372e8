package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/query"
)

var implementationFileFlag string

var implementationCmd = &cobra.Command{
	Use:   "implementation <symbol>",
	Short: "Print a symbol's source text",
	Long: `Fetch a Symbol by (file, name) and print the source slice spanning its
byte range.

Examples:
  coderlm implementation ParseConfig --file=internal/config/config.go`,
	Args: cobra.ExactArgs(1),
	RunE: runImplementation,
}

func init() {
	implementationCmd.Flags().StringVar(&implementationFileFlag, "file", "", "The file that defines the symbol (required)")
	_ = implementationCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(implementationCmd)
}

func runImplementation(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	impl, err := query.GetImplementation(p.Root, p.Table, args[0], implementationFileFlag)
	if err != nil {
		return err
	}

	fmt.Println(impl)
	return nil
}
