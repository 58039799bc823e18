package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/render"
	"github.com/matzehuels/brandqr/pkg/share"
)

// shareCommand creates the share command, which writes a standalone HTML
// page embedding the QR code.
func (c *CLI) shareCommand() *cobra.Command {
	var (
		style  styleFlags
		output string
		dir    = "."
		link   string
	)

	cmd := &cobra.Command{
		Use:   "share [text]",
		Short: "Write a shareable HTML page for a QR code",
		Example: `  brandqr share --caption "Acme Corp" https://acme.example
  brandqr share --template brand.html --link https://qr.acme.example/s/launch example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			popts, err := style.options(cmd, text)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(style.noCache, style.template)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			res, err := runner.Generate(ctx, popts)
			if err != nil {
				return err
			}
			doc := runner.Share(ctx, res)

			path := output
			if path == "" {
				path = filepath.Join(dir, res.Filename(render.KindHTML, time.Now()))
			}
			if err := os.WriteFile(path, []byte(doc.HTML), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Share page %s", StyleHighlight.Render(doc.Title))
			printFile(path)
			if link != "" {
				printKeyValue("WhatsApp", StyleLink.Render(share.WhatsAppURL(link)))
			}
			return nil
		},
	}

	style.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&dir, "dir", "d", dir, "directory for the generated filename")
	cmd.Flags().StringVar(&link, "link", "", "public URL of the page, prints a WhatsApp share link")

	return cmd
}
