// Package cli implements the dashwright command-line interface.
//
// This package provides commands for planning widget layouts, generating
// dashboards from natural language prompts, publishing them to the
// workspace, and managing the local cache and catalog. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - plan: Compute a grid layout for a widget plan file
//   - generate: Turn a prompt into a dashboard definition, optionally publishing it
//   - publish: Publish an existing dashboard definition file
//   - catalog: List, show, and remove published dashboards
//   - serve: Run the HTTP API
//   - cache: Manage the local response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dashwright/dashwright/pkg/buildinfo"
	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/config"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/integrations/assistant"
	"github.com/dashwright/dashwright/pkg/integrations/boards"
	"github.com/dashwright/dashwright/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "dashwright"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag value; empty means the default
	// location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Dashwright turns prompts into published dashboards",
		Long:         `Dashwright is a CLI tool that turns natural language requests into laid-out, published analytics dashboards, built around a deterministic 6-unit grid layout engine.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := withLogger(cmd.Context(), c.Logger)
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/dashwright/config.toml)")

	// Register all subcommands
	root.AddCommand(c.planCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configured (or default) config file.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Client and Runner Factories
// =============================================================================

// newCache builds the CLI cache: the configured backend, or a null cache
// with --no-cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "file" && cfg.Cache.Dir == "" {
		// CLI file caches live under XDG cache, not the config dir.
		if dir, err := cacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	return cfg.OpenCache(ctx)
}

// newRunner assembles a pipeline runner from the config. The publisher
// is nil unless workspace credentials are configured.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	if cfg.Assistant.Endpoint == "" {
		store.Close()
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no assistant endpoint configured: set assistant.endpoint in %s", configHint(c.configPath))
	}
	gen, err := assistant.NewClient(cfg.Assistant.Endpoint, cfg.Workspace.Token, cfg.Assistant.Model, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	var pub pipeline.Publisher
	if cfg.Workspace.Host != "" {
		client, err := boards.NewClient(cfg.Workspace.Host, cfg.Workspace.Token, store)
		if err != nil {
			store.Close()
			return nil, err
		}
		pub = client
	}

	// Scope cache keys by endpoint so two configured assistant
	// endpoints never share generation results for the same model name.
	keyer := cache.NewScopedKeyer(nil, cache.Hash([]byte(cfg.Assistant.Endpoint))[:8]+":")

	runner := pipeline.NewRunner(gen, pub, store, keyer, c.Logger)
	runner.GenerationTTL = cfg.CacheTTL()
	runner.DefinitionTTL = cfg.CacheTTL()
	return runner, nil
}

// newBoards builds a workspace client, requiring host configuration.
func (c *CLI) newBoards(cfg *config.Config) (*boards.Client, error) {
	if cfg.Workspace.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no workspace host configured: set workspace.host in %s", configHint(c.configPath))
	}
	return boards.NewClient(cfg.Workspace.Host, cfg.Workspace.Token, nil)
}

// configHint names the config file for error messages.
func configHint(path string) string {
	if path != "" {
		return path
	}
	if def, err := config.DefaultPath(); err == nil {
		return def
	}
	return "the config file"
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dashwright/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
