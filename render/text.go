package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridpath-server/grid"
)

// Text renders frame one row per line using each symbol's printable form.
func Text(frame [][]grid.Symbol) string {
	var sb strings.Builder
	for _, row := range frame {
		for _, s := range row {
			sb.WriteString(s.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

var styles = func() map[grid.Symbol]lipgloss.Style {
	m := make(map[grid.Symbol]lipgloss.Style, len(Palette)+1)
	for s := grid.SymbolEmpty; s <= grid.SymbolPath; s++ {
		c := ColorOf(s)
		fg := "#000000"
		if s == grid.SymbolCost3 || s == grid.SymbolCost4 {
			fg = "#FFFFFF"
		}
		m[s] = lipgloss.NewStyle().
			Background(lipgloss.Color(hex(c.R, c.G, c.B))).
			Foreground(lipgloss.Color(fg))
	}
	return m
}()

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Styled renders frame like Text, with each cell coloured from the palette.
// Whether colour codes are emitted depends on lipgloss's detected profile.
func Styled(frame [][]grid.Symbol) string {
	var sb strings.Builder
	for _, row := range frame {
		for _, s := range row {
			style, ok := styles[s]
			if !ok {
				sb.WriteString(s.String())
				continue
			}
			sb.WriteString(style.Render(s.String()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
