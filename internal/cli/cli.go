// Package cli implements the brandqr command-line interface.
//
// # Commands
//
//   - render: write a QR code as SVG, PNG and/or a share page
//   - share: write a standalone share page
//   - serve: run the HTTP API
//   - preview: interactive terminal preview
//   - inspect: recover the module matrix from an SVG written by render
//   - classify: report how text is classified as a link
//   - cache: manage the local render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline and cache events.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/buildinfo"
	"github.com/matzehuels/brandqr/pkg/cache"
	"github.com/matzehuels/brandqr/pkg/observability"
	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/share"
)

// appName is the application name used for directories and display.
const appName = "brandqr"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline events
// are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := logHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "brandqr renders branded QR codes",
		Long:         `brandqr turns text into styled QR codes with an optional centered logo and caption, exports them as SVG or PNG, and packages them into shareable HTML pages.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use. Remote templates are
// cached in the same cache as renders.
func (c *CLI) newRunner(noCache bool, template string) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(nil, cc, nil, c.Logger)
	r.Template = templateSource(template, cc)
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func templateSource(s string, c cache.Cache) share.Source {
	src := share.ParseSource(s)
	if h, ok := src.(*share.HTTPSource); ok {
		h.Cache = c
	}
	return src
}
