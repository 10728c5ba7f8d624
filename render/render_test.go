package render

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpath-server/grid"
)

var sampleFrame = [][]grid.Symbol{
	{grid.SymbolStart, grid.SymbolPath, grid.SymbolWall},
	{grid.SymbolCost2, grid.SymbolGoal, grid.SymbolEmpty},
}

func TestImage_Colors(t *testing.T) {
	img := Image(sampleFrame, 4)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	assert.Equal(t, Palette[grid.SymbolStart], img.RGBAAt(0, 0))
	assert.Equal(t, Palette[grid.SymbolPath], img.RGBAAt(7, 3))
	assert.Equal(t, Palette[grid.SymbolWall], img.RGBAAt(11, 0))
	assert.Equal(t, Palette[grid.SymbolGoal], img.RGBAAt(5, 5))
	assert.Equal(t, Background, img.RGBAAt(10, 6))
}

func TestColorOf_Background(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 165, B: 0, A: 255}, ColorOf(grid.SymbolPath))
	assert.Equal(t, Background, ColorOf(grid.SymbolEmpty))
	assert.Equal(t, Background, ColorOf(grid.Symbol(200)))
}

func TestImage_DefaultScale(t *testing.T) {
	img := Image(sampleFrame, 0)
	assert.Equal(t, 3*DefaultScale, img.Bounds().Dx())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sampleFrame, 2))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6, decoded.Bounds().Dx())
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, SavePNG(path, sampleFrame, 1))
	assert.FileExists(t, path)
}

func TestText(t *testing.T) {
	assert.Equal(t, " S  O  # \n ,  G    \n", Text(sampleFrame))
}

func TestStyled_KeepsSymbols(t *testing.T) {
	out := Styled(sampleFrame)
	assert.Equal(t, 2, strings.Count(out, "\n"))
	for _, s := range []string{"S", "O", "#", ",", "G"} {
		assert.Contains(t, out, s)
	}
}

func TestDraw(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(2, 3)

	Draw(s, sampleFrame)
	DrawStatus(s, 2, "ok!")

	r, _, style, _ := s.GetContent(0, 0)
	assert.Equal(t, 'S', r)
	_, bg, _ := style.Decompose()
	c := Palette[grid.SymbolStart]
	assert.Equal(t, tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)), bg)

	r, _, _, _ = s.GetContent(1, 1)
	assert.Equal(t, 'G', r)

	// Clipped at the screen's right edge.
	r, _, _, _ = s.GetContent(0, 2)
	assert.Equal(t, 'o', r)
	r, _, _, _ = s.GetContent(1, 2)
	assert.Equal(t, 'k', r)
}
