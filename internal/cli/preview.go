package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/render"
)

var (
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	previewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// generatedMsg carries the outcome of one regeneration.
type generatedMsg struct {
	res *pipeline.Result
	err error
}

// savedMsg reports a file written from the preview.
type savedMsg struct {
	path string
	err  error
}

// previewModel is the bubbletea model behind "brandqr preview". Every
// setting change regenerates through the session, so a failed change keeps
// the last good code on screen.
type previewModel struct {
	ctx     context.Context
	session *pipeline.Session
	opts    pipeline.Options
	dir     string
	invert  bool

	status string
	err    error
}

func newPreviewModel(ctx context.Context, session *pipeline.Session, opts pipeline.Options, dir string) previewModel {
	return previewModel{ctx: ctx, session: session, opts: opts, dir: dir, invert: true}
}

func (m previewModel) Init() tea.Cmd {
	return m.generate()
}

func (m previewModel) generate() tea.Cmd {
	ctx, session, opts := m.ctx, m.session, m.opts
	return func() tea.Msg {
		res, err := session.Generate(ctx, opts)
		return generatedMsg{res: res, err: err}
	}
}

func (m previewModel) save(kind render.Kind) tea.Cmd {
	ctx, session, dir := m.ctx, m.session, m.dir
	return func() tea.Msg {
		res := session.Current()
		if res == nil {
			return savedMsg{err: fmt.Errorf("nothing to save yet")}
		}
		var (
			data []byte
			err  error
		)
		switch kind {
		case render.KindPNG:
			data, err = session.ExportPNG(ctx)
		case render.KindHTML:
			doc, serr := session.Share(ctx)
			data, err = []byte(doc.HTML), serr
		default:
			data = res.Image.SVG
		}
		if err != nil {
			return savedMsg{err: err}
		}
		path := filepath.Join(dir, res.Filename(kind, time.Now()))
		return savedMsg{path: path, err: os.WriteFile(path, data, 0644)}
	}
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "e":
			m.opts.ECC = m.opts.Level().Next().Letter()
			return m, m.generate()
		case "+", "=":
			m.opts.Border = pipeline.IntPtr(m.border() + 1)
			return m, m.generate()
		case "-":
			if b := m.border(); b > 0 {
				m.opts.Border = pipeline.IntPtr(b - 1)
				return m, m.generate()
			}
		case "c":
			m.opts.Clickable = !m.opts.Clickable
			return m, m.generate()
		case "i":
			m.invert = !m.invert
		case "s":
			return m, m.save(render.KindSVG)
		case "p":
			m.status = "Exporting PNG..."
			return m, m.save(render.KindPNG)
		case "h":
			return m, m.save(render.KindHTML)
		}
	case generatedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = ""
		}
	case savedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Saved " + msg.path
		} else {
			m.status = ""
		}
	}
	return m, nil
}

func (m previewModel) border() int {
	if m.opts.Border == nil {
		return render.DefaultBorder
	}
	return *m.opts.Border
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("brandqr preview"))
	b.WriteString("\n\n")

	res := m.session.Current()
	if res == nil {
		if m.err == nil {
			b.WriteString(previewStatusStyle.Render("Generating..."))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(renderHalfBlocks(res.Matrix, res.Config.Border, m.invert))
		b.WriteString("\n")
		b.WriteString(previewStatusStyle.Render(fmt.Sprintf("%s · ecc %s · border %d",
			res.AriaLabel(), res.Level.Letter(), res.Config.Border)))
		b.WriteString("\n")
		if s := res.ClickStatus(); s != "" {
			b.WriteString(previewStatusStyle.Render(s))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString(previewErrorStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(StyleSuccess.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("e ecc  +/- border  c clickable  i invert  s svg  p png  h html  q quit"))
	b.WriteString("\n")
	return b.String()
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		style styleFlags
		dir   = "."
	)

	cmd := &cobra.Command{
		Use:   "preview [text]",
		Short: "Preview and tweak a QR code in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts, err := style.options(cmd, text)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(style.noCache, style.template)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			model := newPreviewModel(ctx, pipeline.NewSession(runner), opts, dir)
			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}

	style.register(cmd.Flags())
	cmd.Flags().StringVarP(&dir, "dir", "d", dir, "directory for saved files")

	return cmd
}
