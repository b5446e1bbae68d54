package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/reference"
)

// referenceCommand lists the built-in molecules or prints one of them.
func (c *CLI) referenceCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "reference [NAME]",
		Aliases:           []string{"ref"},
		Short:             "List the built-in reference molecules",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeReferences,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				_, err := fmt.Fprintln(out, referenceTable(reference.All()))
				return err
			}
			m, ok := reference.Lookup(args[0])
			if !ok {
				return errors.New(errors.ErrCodeReferenceNotFound, "unknown reference molecule: %q", args[0])
			}
			if asJSON {
				return writeReferenceJSON(out, m)
			}
			printReference(m)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the structure as JSON")
	return cmd
}

// referenceTable renders the molecules as a bordered table.
func referenceTable(mols []reference.Molecule) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite)
	dimStyle := lipgloss.NewStyle().Foreground(colorDim)

	rows := make([][]string, 0, len(mols))
	for _, m := range mols {
		topo := molecule.Analyze(m.Structure)
		rows = append(rows, []string{
			m.Name,
			m.Formula,
			strconv.Itoa(len(m.Atoms)),
			strconv.Itoa(len(m.Bonds)),
			strconv.Itoa(topo.Rings),
			m.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Formula", "Atoms", "Bonds", "Rings", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return nameStyle.Padding(0, 1)
			case col == 5:
				return dimStyle.Padding(0, 1)
			default:
				return cellStyle.Padding(0, 1)
			}
		})
	return t.Render()
}

// printReference prints the metadata of one molecule.
func printReference(m reference.Molecule) {
	topo := molecule.Analyze(m.Structure)
	fmt.Println(StyleTitle.Render(m.Name))
	printKeyValue("Formula", m.Formula)
	printKeyValue("About", m.Description)
	printKeyValue("Atoms", strconv.Itoa(len(m.Atoms)))
	printKeyValue("Bonds", strconv.Itoa(len(m.Bonds)))
	printKeyValue("Rings", strconv.Itoa(topo.Rings))
	printKeyValue("Camera", fmt.Sprintf("%.1f", m.CameraDistance))
	printNewline()
	printNextStep("Render", "molview render -r "+m.Slug()+" --legend")
}

// writeReferenceJSON writes the structure in the same wire format the
// layout command and the HTTP API use.
func writeReferenceJSON(w io.Writer, m reference.Molecule) error {
	data, err := molecule.MarshalStructure(m.Structure)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
