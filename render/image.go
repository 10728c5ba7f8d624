package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"gridpath-server/grid"
)

// DefaultScale is the pixel size of one cell.
const DefaultScale = 20

// Image paints each cell of frame as a scale x scale block.
func Image(frame [][]grid.Symbol, scale int) *image.RGBA {
	if scale <= 0 {
		scale = DefaultScale
	}
	height := len(frame)
	width := 0
	if height > 0 {
		width = len(frame[0])
	}
	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y, row := range frame {
		for x, s := range row {
			c := ColorOf(s)
			for i := 0; i < scale; i++ {
				for j := 0; j < scale; j++ {
					img.SetRGBA(x*scale+i, y*scale+j, c)
				}
			}
		}
	}
	return img
}

// WritePNG encodes the rendered frame to w.
func WritePNG(w io.Writer, frame [][]grid.Symbol, scale int) error {
	if err := png.Encode(w, Image(frame, scale)); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the rendered frame to the file at path.
func SavePNG(path string, frame [][]grid.Symbol, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WritePNG(f, frame, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
