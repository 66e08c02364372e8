package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize coderlm in the current project",
	Long: `Initialize coderlm by:
1. Creating .coderlm/
2. Writing config.toml with defaults
3. Adding .coderlm/ to .gitignore
4. Running an initial index and reporting file/symbol counts`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Printf("%s Initializing coderlm...\n", Info("▸"))

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get current directory: %w", err)
	}

	coderlmDir := filepath.Join(cwd, config.DefaultConfigDir)
	if err := os.MkdirAll(coderlmDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", config.DefaultConfigDir, err)
	}

	cfg := config.DefaultConfig()
	if err := config.Save(cwd, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("%s Created %s\n", Success("✓"), Path(filepath.Join(config.DefaultConfigDir, "config.toml")))

	if err := updateGitignore(cwd); err != nil {
		fmt.Printf("%s Could not update .gitignore: %v\n", Warning("!"), err)
	} else {
		fmt.Printf("%s Added %s to .gitignore\n", Success("✓"), Path(config.DefaultConfigDir+"/"))
	}

	reg, err := oneShotRegistry(cfg)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	p, err := reg.GetOrCreateProject(cwd)
	if err != nil {
		return fmt.Errorf("index project: %w", err)
	}

	fmt.Printf("%s Indexed %s files, %s symbols\n",
		Success("✓"), Info(formatNumber(p.Tree.Len())), Info(formatNumber(len(p.Table.All()))))
	return nil
}

// updateGitignore adds .coderlm/ to .gitignore if not already present.
func updateGitignore(projectRoot string) error {
	gitignorePath := filepath.Join(projectRoot, ".gitignore")
	entry := config.DefaultConfigDir + "/"

	if data, err := os.ReadFile(gitignorePath); err == nil {
		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == entry {
				return nil
			}
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if info, statErr := f.Stat(); statErr == nil && info.Size() > 0 {
		f.WriteString("\n")
	}
	_, err = f.WriteString(entry + "\n")
	return err
}
