package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coderlm",
	Short: "Code-intelligence indexing service for agentic coding tools",
	Long:  "coderlm indexes one or more source directories and serves structural browsing, symbol lookup, grep, and caller/test/variable queries over a stateless API — as a long-running server, or one-shot from the terminal.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		printBanner(out)
		fmt.Fprintln(out)
		defaultHelp(cmd, args)
	})
}
