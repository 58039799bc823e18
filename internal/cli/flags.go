package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/preset"
	"github.com/matzehuels/brandqr/pkg/render"
)

// styleFlags are the styling flags shared by render, share and preview.
type styleFlags struct {
	preset       string
	ecc          string
	scale        float64
	border       int
	fg           string
	bg           string
	logo         string
	logoSize     float64
	logoBg       string
	logoColor    string
	caption      string
	captionColor string
	captionSize  string
	clickable    bool
	noCache      bool
	template     string
}

func (f *styleFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "styling preset (.toml, .yaml)")
	fs.StringVarP(&f.ecc, "ecc", "e", "M", "error correction level: L, M, Q, H")
	fs.Float64Var(&f.scale, "scale", render.DefaultModuleScale, "pixels per module")
	fs.IntVar(&f.border, "border", render.DefaultBorder, "quiet zone in modules")
	fs.StringVar(&f.fg, "fg", render.DefaultForeground, "module color")
	fs.StringVar(&f.bg, "bg", render.DefaultBackground, "background color")
	fs.StringVar(&f.logo, "logo", "", "logo image file (png, jpeg, gif, webp, bmp, svg)")
	fs.Float64Var(&f.logoSize, "logo-size", render.DefaultLogoPercent, "logo side as percent of the code")
	fs.StringVar(&f.logoBg, "logo-bg", string(render.LogoNone), "logo backing: none, white, custom")
	fs.StringVar(&f.logoColor, "logo-color", "", "logo backing color for --logo-bg custom")
	fs.StringVar(&f.caption, "caption", "", "branding caption (share page and filenames)")
	fs.StringVar(&f.captionColor, "caption-color", "", "caption color (default: --fg)")
	fs.StringVar(&f.captionSize, "caption-size", string(render.CaptionMedium), "caption size: small, medium, large")
	fs.BoolVar(&f.clickable, "clickable", false, "report the click status and link target of URL text")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	fs.StringVar(&f.template, "template", "", "share page template file or http(s) URL")
}

// options builds pipeline options for text. Preset values apply first;
// flags override them only when set explicitly.
func (f *styleFlags) options(cmd *cobra.Command, text string) (pipeline.Options, error) {
	opts := pipeline.Options{Text: text}
	if f.preset != "" {
		p, err := preset.Load(f.preset)
		if err != nil {
			return opts, err
		}
		if opts, err = p.Options(text); err != nil {
			return opts, err
		}
	}

	changed := func(name string) bool {
		// Without a preset every flag value counts, including defaults.
		return f.preset == "" || cmd.Flags().Changed(name)
	}

	if changed("ecc") {
		opts.ECC = f.ecc
	}
	if changed("scale") {
		opts.ModuleScale = f.scale
	}
	if changed("border") {
		opts.Border = pipeline.IntPtr(f.border)
	}
	if changed("fg") {
		opts.Foreground = f.fg
	}
	if changed("bg") {
		opts.Background = f.bg
	}
	if changed("clickable") {
		opts.Clickable = f.clickable
	}

	if f.logo != "" {
		data, err := preset.LogoDataURL(f.logo)
		if err != nil {
			return opts, err
		}
		opts.Logo = &render.Logo{Data: data}
	}
	if opts.Logo != nil {
		if changed("logo-size") {
			opts.Logo.SizePercent = f.logoSize
		}
		if changed("logo-bg") {
			bg, err := render.ParseLogoBackground(f.logoBg)
			if err != nil {
				return opts, err
			}
			opts.Logo.Background = bg
		}
		if changed("logo-color") {
			opts.Logo.CustomColor = f.logoColor
		}
	}

	if f.caption != "" {
		opts.Caption = &render.Caption{Text: f.caption}
	}
	if opts.Caption != nil {
		if changed("caption-color") && f.captionColor != "" {
			opts.Caption.Color = f.captionColor
		}
		if changed("caption-size") {
			size, err := render.ParseCaptionSize(f.captionSize)
			if err != nil {
				return opts, err
			}
			opts.Caption.Size = size
		}
	}
	return opts, nil
}

// readText returns the text to encode: the joined args, or stdin for "-"
// or no args.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New(errors.ErrCodeInvalidInput, "please enter some text to generate a QR code")
		}
	}
	data, err := io.ReadAll(io.LimitReader(stdin, errors.MaxTextLength*4))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
