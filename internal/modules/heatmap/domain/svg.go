package domain

import (
	"fmt"
	"strings"
)

// SVG renders the grid as a standalone SVG document, the export twin of the
// terminal view.
func SVG(grid Grid, opts Options, background string) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", grid.Width, grid.Height)
	if background != "" {
		fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", grid.Width, grid.Height, background)
	}
	for _, label := range grid.Labels {
		fmt.Fprintf(&b, `  <text x="%d" y="%d" font-size="%d" font-family="sans-serif" fill="#7a7a7a">%s</text>`+"\n",
			label.X, opts.LabelHeight-4, opts.LabelHeight-6, label.Text)
	}
	for _, cell := range grid.Cells {
		fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="%s"><title>%s: %d</title></rect>`+"\n",
			cell.X, cell.Y, opts.CellSize, opts.CellSize, cell.Color, cell.Date, cell.Count)
	}
	b.WriteString("</svg>\n")
	return b.String()
}
