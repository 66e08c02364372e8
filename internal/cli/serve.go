package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coderlm/coderlm/internal/config"
	"github.com/coderlm/coderlm/internal/httpapi"
	"github.com/coderlm/coderlm/internal/logx"
	"github.com/coderlm/coderlm/internal/project"
)

var (
	serveBindFlag   string
	servePortFlag   int
	serveAPIKeyFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run coderlm as a long-running indexing server",
	Long: `Start the HTTP transport, backed by the bounded project registry.

Projects are indexed lazily on first request and evicted on an LRU basis
once max_projects is reached.`,
	RunE: runServe,
}

func init() {
	cfg := config.DefaultConfig()
	serveCmd.Flags().StringVar(&serveBindFlag, "bind", cfg.Server.Bind, "Address to bind")
	serveCmd.Flags().IntVar(&servePortFlag, "port", cfg.Server.Port, "Port to listen on")
	serveCmd.Flags().StringVar(&serveAPIKeyFlag, "api-key", "", "Require this key on X-API-Key/api_key for every request except /health and /version")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logx.Setup(cfg)
	defer logx.Stop()

	if cmd.Flags().Changed("bind") {
		cfg.Server.Bind = serveBindFlag
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePortFlag
	}

	debounce := time.Duration(cfg.Index.DebounceMs) * time.Millisecond
	registry, err := project.NewRegistry(cfg.Index.MaxProjects, cfg.Index.MaxFileSize, debounce)
	if err != nil {
		return fmt.Errorf("build project registry: %w", err)
	}

	server := httpapi.NewServer(registry, serveAPIKeyFlag)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port)

	fmt.Printf("%s listening on %s (max_projects=%d)\n", Success("coderlm"), Info(addr), cfg.Index.MaxProjects)
	logx.Get().Info().Str("addr", addr).Msg("starting http server")

	return http.ListenAndServe(addr, server.Handler())
}
