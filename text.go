package heightmap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// A textStyle draws single-line labels with one font face.
type textStyle struct {
	face  font.Face
	color color.Color
}

// newTextStyle returns a textStyle using Go Regular at size points for a
// figure at dpi dots per inch.
func newTextStyle(f *opentype.Font, size, dpi float64, c color.Color) (*textStyle, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &textStyle{
		face:  face,
		color: c,
	}, nil
}

func parseDefaultFont() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
}

// size returns the width and height of s when drawn with t.
func (t *textStyle) size(s string) image.Point {
	metrics := t.face.Metrics()
	return image.Point{
		X: font.MeasureString(t.face, s).Ceil(),
		Y: (metrics.Ascent + metrics.Descent).Ceil(),
	}
}

// ascent returns the distance from the top of a line to its baseline.
func (t *textStyle) ascent() int {
	return t.face.Metrics().Ascent.Ceil()
}

// draw draws s on dst with the top left corner of its line box at topLeft and
// returns the rectangle it occupies.
func (t *textStyle) draw(dst draw.Image, topLeft image.Point, s string) image.Rectangle {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(t.color),
		Face: t.face,
		Dot:  fixed.P(topLeft.X, topLeft.Y+t.ascent()),
	}
	drawer.DrawString(s)
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(t.size(s))}
}

// drawRotated draws s on dst rotated 90 degrees counter-clockwise, reading
// bottom to top, with the top left corner of the rotated box at topLeft.
func (t *textStyle) drawRotated(dst draw.Image, topLeft image.Point, s string) image.Rectangle {
	size := t.size(s)
	horizontal := image.NewNRGBA(image.Rectangle{Max: size})
	t.draw(horizontal, image.Point{}, s)

	rotated := image.NewNRGBA(image.Rect(0, 0, size.Y, size.X))
	for y := range size.Y {
		for x := range size.X {
			rotated.SetNRGBA(y, size.X-1-x, horizontal.NRGBAAt(x, y))
		}
	}

	r := image.Rectangle{Min: topLeft, Max: topLeft.Add(rotated.Bounds().Size())}
	draw.Draw(dst, r, rotated, image.Point{}, draw.Over)
	return r
}
