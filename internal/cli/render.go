package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	style   styleFlags
	output  string        // output file (single format) or base path
	dir     string        // directory for generated filenames
	formats []render.Kind // svg, png, html
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{dir: "."}

	cmd := &cobra.Command{
		Use:   "render [text]",
		Short: "Render text as a QR code (SVG, PNG, HTML)",
		Long: `Render text as a QR code.

The text is read from the arguments, or from stdin when none are given.
Without --output, files are named qr-code-{caption}-{timestamp}.{ext}.`,
		Example: `  brandqr render https://example.com
  brandqr render -f svg,png --caption "Acme Corp" --logo logo.png example.com
  echo "hello" | brandqr render -o hello.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats

			text, err := readText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			popts, err := opts.style.options(cmd, text)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, &opts)
		},
	}

	opts.style.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", opts.dir, "directory for generated filenames")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, html (comma-separated)")

	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) ([]render.Kind, error) {
	if s == "" {
		return []render.Kind{render.KindSVG}, nil
	}
	var kinds []render.Kind
	seen := map[render.Kind]bool{}
	for _, part := range strings.Split(s, ",") {
		k := render.Kind(strings.ToLower(strings.TrimSpace(part)))
		switch k {
		case render.KindSVG, render.KindPNG, render.KindHTML:
		default:
			return nil, fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'html')", part)
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func (c *CLI) runRender(ctx context.Context, popts pipeline.Options, opts *renderOpts) error {
	runner, err := c.newRunner(opts.style.noCache, opts.style.template)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Generate(ctx, popts)
	if err != nil {
		return err
	}
	printResult(res)

	now := time.Now()
	for _, kind := range opts.formats {
		data, err := c.artifact(ctx, runner, res, kind)
		if err != nil {
			return err
		}
		path := outputPath(opts.output, opts.dir, res.Filename(kind, now), kind, len(opts.formats) > 1)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

func (c *CLI) artifact(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, kind render.Kind) ([]byte, error) {
	switch kind {
	case render.KindPNG:
		spinner := newSpinnerWithContext(ctx, "Exporting PNG...")
		spinner.Start()
		prog := newProgress(c.Logger)
		data, err := runner.ExportPNG(ctx, res)
		spinner.Stop()
		if err != nil {
			return nil, err
		}
		prog.done(fmt.Sprintf("Exported PNG at %dx", render.Supersample))
		return data, nil
	case render.KindHTML:
		return []byte(runner.Share(ctx, res).HTML), nil
	}
	return res.Image.SVG, nil
}

// outputPath picks the file for one artifact. With several formats an
// explicit output is a base path and gets the format extension.
func outputPath(output, dir, generated string, kind render.Kind, multi bool) string {
	if output == "" {
		return filepath.Join(dir, generated)
	}
	if !multi {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + string(kind)
}
