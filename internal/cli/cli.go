// Package cli implements the flowcanvas command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/buildinfo"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
	"github.com/matzehuels/flowcanvas/pkg/render/browser"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowcanvas"

	// styleFileName is looked up in the config directory when --style is unset.
	styleFileName = "style.toml"

	// browserURLEnv points browser measurement at a running DevTools endpoint.
	browserURLEnv = "FLOWCANVAS_BROWSER_URL"
)

// Measurement backends.
const (
	measureStatic  = "static"
	measureBrowser = "browser"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
		Short:        "Flowcanvas assembles and checks marketing flow canvas nodes",
		Long:         `Flowcanvas turns node creation requests into render-ready node specs with ports aligned to their content rows, and validates that alignment.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.assembleCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.canvasCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for the given measurement backend.
// The returned close function releases the backend.
func (c *CLI) newRunner(backend string) (*pipeline.Runner, func() error, error) {
	switch backend {
	case "", measureStatic:
		return pipeline.NewRunner(nil, c.Logger), func() error { return nil }, nil
	case measureBrowser:
		m := browser.New(browser.Options{Headless: true, ControlURL: os.Getenv(browserURLEnv)})
		return pipeline.NewRunner(m, c.Logger), m.Close, nil
	}
	return nil, nil, errInvalidMeasure(backend)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/flowcanvas/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadStyle reads the style from path, or from the config directory when
// path is empty and a style file exists there, or returns the default.
func loadStyle(path string) (layout.Style, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return layout.DefaultStyle(), nil
		}
		candidate := filepath.Join(dir, styleFileName)
		if _, err := os.Stat(candidate); err != nil {
			return layout.DefaultStyle(), nil
		}
		path = candidate
	}
	return layout.LoadStyle(path)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputBase strips the flow file extension so artifacts land next to it.
func outputBase(input, output string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
