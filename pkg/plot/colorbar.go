package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gilchrisn/localization-viewer/pkg/metric"
)

const (
	colorBarWidth = 110
	barLeft       = 14
	barThickness  = 22
	barTop        = 60
	barBottom     = 50
	colorBarTicks = 5
)

// attachColorBar decodes the chart image and places a vertical colour bar
// with tick labels on its right.
func attachColorBar(w io.Writer, chartPNG io.Reader, scale ColorScale, rng metric.Range, title string) error {
	src, err := png.Decode(chartPNG)
	if err != nil {
		return fmt.Errorf("failed to decode chart image: %w", err)
	}

	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+colorBarWidth, b.Dy()))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, b.Sub(b.Min), src, b.Min, draw.Src)

	left := b.Dx() + barLeft
	top, bottom := barTop, b.Dy()-barBottom
	if bottom-top < 20 {
		top, bottom = 10, b.Dy()-10
	}

	// top of the bar is the maximum
	for y := top; y <= bottom; y++ {
		t := 1 - float64(y-top)/float64(bottom-top)
		c := scale.At(t)
		rgba := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		for x := left; x < left+barThickness; x++ {
			out.Set(x, y, rgba)
		}
	}

	face := basicfont.Face7x13
	drawLabel(out, face, left, top-22, truncate(title, (colorBarWidth-barLeft)/7))

	for i := 0; i < colorBarTicks; i++ {
		t := float64(i) / float64(colorBarTicks-1)
		y := bottom - int(t*float64(bottom-top))
		for x := left + barThickness; x < left+barThickness+4; x++ {
			out.Set(x, y, color.Black)
		}
		v := rng.Min + t*(rng.Max-rng.Min)
		drawLabel(out, face, left+barThickness+6, y+4, formatTick(v))
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

func drawLabel(dst draw.Image, face font.Face, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
