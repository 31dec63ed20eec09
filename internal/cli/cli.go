// Package cli implements the inkboard command-line interface.
//
// This package provides commands for turning text prompts into infographic
// scenes, rendering scenes to images, serving the HTTP API, and managing
// the local cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Turn a text prompt into a scene JSON document
//   - render: Render a scene (or prompt) to PNG, GIF, JSON, DOT, or SVG
//   - serve: Run the HTTP API server
//   - cache: Manage the local result cache
//   - themes: List the built-in themes
//
// # Example
//
//	import "github.com/mhaertel/inkboard/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mhaertel/inkboard/pkg/analyze"
	"github.com/mhaertel/inkboard/pkg/buildinfo"
	"github.com/mhaertel/inkboard/pkg/cache"
	"github.com/mhaertel/inkboard/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "inkboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the user's
// config file (missing file = defaults).
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Inkboard turns text into infographics",
		Long:         `Inkboard is a CLI tool that turns a text description into a rendered infographic: an LLM produces a structured scene, and a layout engine draws it as PNG, animated GIF, or a graphviz diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool, model string) (*pipeline.Runner, error) {
	store, err := newCache(noCache, c.Config.CacheDir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.newAnalyzer(model), c.Logger), nil
}

// newAnalyzer builds the LLM client from config. The key may be empty; the
// client reports a coded error when an analyze call actually happens.
func (c *CLI) newAnalyzer(model string) *analyze.Client {
	opts := []analyze.Option{analyze.WithLogger(c.Logger)}
	if c.Config.BaseURL != "" {
		opts = append(opts, analyze.WithBaseURL(c.Config.BaseURL))
	}
	if model == "" {
		model = c.Config.Model
	}
	opts = append(opts, analyze.WithModel(model))
	return analyze.New(c.Config.APIKey, opts...)
}

func newCache(noCache bool, configuredDir string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir := configuredDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/inkboard/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	return strings.Split(s, ",")
}
