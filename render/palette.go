// Package render turns display frames into PNG images, text, and terminal
// cells.
package render

import (
	"image/color"

	"gridpath-server/grid"
)

// Background is the colour of cells with no palette entry: empty cells and
// unknown symbols.
var Background = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// Palette maps display symbols to colours.
var Palette = map[grid.Symbol]color.RGBA{
	grid.SymbolWall:  {R: 211, G: 33, B: 45, A: 255},
	grid.SymbolCost1: {R: 215, G: 215, B: 215, A: 255},
	grid.SymbolCost2: {R: 166, G: 166, B: 166, A: 255},
	grid.SymbolCost3: {R: 96, G: 96, B: 96, A: 255},
	grid.SymbolCost4: {R: 36, G: 36, B: 36, A: 255},
	grid.SymbolStart: {R: 255, G: 0, B: 255, A: 255},
	grid.SymbolGoal:  {R: 0, G: 128, B: 255, A: 255},
	grid.SymbolPath:  {R: 255, G: 165, B: 0, A: 255},
}

// ColorOf returns the palette colour of s, or Background.
func ColorOf(s grid.Symbol) color.RGBA {
	if c, ok := Palette[s]; ok {
		return c
	}
	return Background
}
