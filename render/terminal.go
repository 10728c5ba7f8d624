package render

import (
	"github.com/gdamore/tcell/v2"

	"gridpath-server/grid"
)

// Draw paints frame onto s starting at the top-left corner, one character
// per cell. Cells past the screen edge are clipped. It does not call Show.
func Draw(s tcell.Screen, frame [][]grid.Symbol) {
	w, h := s.Size()
	for y, row := range frame {
		if y >= h {
			break
		}
		for x, sym := range row {
			if x >= w {
				break
			}
			c := ColorOf(sym)
			style := tcell.StyleDefault.
				Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
				Foreground(tcell.ColorBlack)
			s.SetContent(x, y, sym.Rune(), nil, style)
		}
	}
}

// DrawStatus writes line on the row below a frame of the given height.
func DrawStatus(s tcell.Screen, row int, line string) {
	w, _ := s.Size()
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, row, r, nil, tcell.StyleDefault)
		x++
	}
	for ; x < w; x++ {
		s.SetContent(x, row, ' ', nil, tcell.StyleDefault)
	}
}
