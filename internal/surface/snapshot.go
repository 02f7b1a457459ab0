package surface

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/hammamikhairi/nowplaying/internal/animation"
)

// Cell geometry of a rendered snapshot, in pixels.
const (
	cellW   = 10
	cellH   = 18
	cellGap = 1
	margin  = 12
)

// Snapshot colours.
const (
	bezelColor = "#18181b"
	cellColor  = "#4d7c0f"
	inkColor   = "#ecfccb"
)

// Render draws frame as a width x 2 character module.
func Render(frame animation.Frame, width int) image.Image {
	return render(frame, width).Image()
}

func render(frame animation.Frame, width int) *gg.Context {
	w := 2*margin + width*cellW
	h := 2*margin + animation.Rows*cellH
	dc := gg.NewContext(w, h)

	dc.SetHexColor(bezelColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for row, line := range frame {
		for col := 0; col < width; col++ {
			x := float64(margin + col*cellW)
			y := float64(margin + row*cellH)
			cw := float64(cellW - cellGap)
			ch := float64(cellH - cellGap)

			dc.SetHexColor(cellColor)
			dc.DrawRectangle(x, y, cw, ch)
			dc.Fill()

			if col >= len(line) || line[col] == ' ' {
				continue
			}
			dc.SetHexColor(inkColor)
			dc.DrawStringAnchored(string(line[col]), x+cw/2, y+ch/2, 0.5, 0.5)
		}
	}
	return dc
}

// SavePNG writes frame to path as a PNG.
func SavePNG(path string, frame animation.Frame, width int) error {
	if err := gg.SavePNG(path, Render(frame, width)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes frame to w as a PNG.
func EncodePNG(w io.Writer, frame animation.Frame, width int) error {
	return render(frame, width).EncodePNG(w)
}
