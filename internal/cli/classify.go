package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/urlclass"
)

// classification is the JSON shape printed by "classify --json".
type classification struct {
	Text       string `json:"text"`
	IsURL      bool   `json:"isUrl"`
	WebLink    bool   `json:"webLink"`
	Normalized string `json:"normalized,omitempty"`
}

func classify(text string) classification {
	c := classification{
		Text:    text,
		IsURL:   urlclass.IsURL(text),
		WebLink: urlclass.IsWebLink(text),
	}
	if c.IsURL {
		c.Normalized = urlclass.Normalize(text)
	}
	return c
}

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <text>...",
		Short: "Report whether text would be a clickable link",
		Example: `  brandqr classify example.com mailto:a@b.example "hello world"
  brandqr classify --json www.example.com/path`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]classification, len(args))
			for i, a := range args {
				results[i] = classify(a)
			}
			return writeClassifications(cmd.OutOrStdout(), results, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON lines instead of a table")
	return cmd
}

func writeClassifications(w io.Writer, results []classification, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Text, yesNo(r.IsURL), yesNo(r.WebLink), r.Normalized}
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"Text", "URL", "Web", "Opens"}, rows))
	return err
}
