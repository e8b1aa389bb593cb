package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/importer"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/links"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/mcpserver"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
	pkgconfig "github.com/siliconharbour/siliconharbour.dev-sub003/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// runMCP serves the directory's MCP tools on stdio.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	engine := links.NewService(db)
	svc := directory.NewService(db, engine)
	return mcpserver.New(svc, engine).ServeStdio()
}

// runImport performs a one-shot seed sync and exits.
func runImport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed.Path == "" {
		return fmt.Errorf("seed.path is not configured")
	}
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	svc := directory.NewService(db, links.NewService(db))
	return importer.Sync(ctx, svc, cfg.Seed.Path, logger)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "siliconharbour",
		Usage:  "Community directory server with cross-entity reference graph, admin API, and RSS export",
		Action: runServe,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve directory tools over MCP on stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "import",
				Usage:  "Sync YAML seed content into the directory once and exit",
				Action: runImport,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
