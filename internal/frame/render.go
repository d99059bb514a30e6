package frame

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const halfBlock = "▀"

// Fit returns the largest size with the aspect ratio of src that fits
// within cols by rows*2 pixels. Each terminal cell holds two pixels
// stacked vertically.
func Fit(src image.Rectangle, cols, rows int) (int, int) {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	maxH := rows * 2
	outW, outH := cols, h*cols/w
	if outH > maxH {
		outW, outH = w*maxH/h, maxH
	}
	return max(outW, 1), max(outH, 1)
}

// Render scales img to fit cols by rows cells and draws it with upper
// half-block characters, the foreground colouring the top pixel and the
// background the bottom one.
func Render(img image.Image, cols, rows int) string {
	if img == nil {
		return ""
	}
	w, h := Fit(img.Bounds(), cols, rows)
	if w == 0 || h == 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h+h%2))
	draw.ApproxBiLinear.Scale(dst, image.Rect(0, 0, w, h), img, img.Bounds(), draw.Src, nil)
	if h%2 == 1 {
		// Repeat the last row so the final cell has a bottom pixel.
		for x := 0; x < w; x++ {
			dst.Set(x, h, dst.At(x, h-1))
		}
	}

	var b strings.Builder
	for y := 0; y < dst.Bounds().Dy(); y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			cell := lipgloss.NewStyle().
				Foreground(hex(dst.At(x, y))).
				Background(hex(dst.At(x, y+1)))
			b.WriteString(cell.Render(halfBlock))
		}
	}
	return b.String()
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
