package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brandqr/pkg/render"
)

// inspectCommand creates the inspect command, which reads back the module
// matrix from an SVG written by brandqr.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		scale  float64 = render.DefaultModuleScale
		border int     = render.DefaultBorder
		invert bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.svg>",
		Short: "Show the module matrix stored in a rendered SVG",
		Long: `Show the module matrix stored in a rendered SVG.

The module scale and border the file was rendered with must be given when
they differ from the defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, g, err := render.ParseVector(data, scale, border)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, renderHalfBlocks(m, 2, invert))
			fmt.Fprintln(w, renderTable([]string{"Property", "Value"}, [][]string{
				{"Modules", fmt.Sprintf("%d×%d", m.Size(), m.Size())},
				{"Dark", itoa(m.Dark())},
				{"Canvas", fmt.Sprintf("%gpx", g.TotalSize)},
				{"Logo", yesNo(g.Logo != nil)},
			}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", scale, "module scale the file was rendered with")
	cmd.Flags().IntVar(&border, "border", border, "border the file was rendered with, in modules")
	cmd.Flags().BoolVar(&invert, "invert", false, "draw dark modules as blanks")

	return cmd
}
