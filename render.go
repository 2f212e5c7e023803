package heightmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Figure geometry, following the defaults of common plotting tools. Sizes
// are in points (1/72 inch), fractions are of the figure or axes size.
const (
	titleFontSize    = 12
	tickFontSize     = 10
	labelFontSize    = 10
	lineWidth        = 0.8
	tickLength       = 3.5
	tickPad          = 3.5
	titlePad         = 6
	labelPad         = 4
	subplotLeft      = 0.125
	subplotRight     = 0.9
	subplotBottom    = 0.11
	subplotTop       = 0.88
	colorbarFraction = 0.15
	colorbarPad      = 0.05
	colorbarAspect   = 20
)

const maxFigurePixels = 1 << 28

var (
	ErrInvalidFigure = errors.New("invalid figure size or resolution")
	ErrGridTooLarge  = errors.New("grid too large for figure")
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
)

// A Renderer renders Grids as color-mapped images with a colorbar and a
// title.
type Renderer struct {
	palette       *Palette
	title         string
	colorbarLabel string
	figureWidth   float64 // Inches.
	figureHeight  float64 // Inches.
	dpi           float64
	padInches     float64
	logger        *zap.Logger
	titleStyle    *textStyle
	tickStyle     *textStyle
	labelStyle    *textStyle
}

// A RendererOption sets an option on a Renderer.
type RendererOption func(*Renderer)

// NewRenderer returns a new Renderer with the given options. By default it
// renders a 10x10 inch figure at 150 DPI with the Blues palette.
func NewRenderer(options ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		title:         "Height Map",
		colorbarLabel: "Height",
		figureWidth:   10,
		figureHeight:  10,
		dpi:           150,
		padInches:     0.1,
		logger:        zap.NewNop(),
	}
	for _, option := range options {
		option(r)
	}

	if r.palette == nil {
		var err error
		if r.palette, err = NewPalette(DefaultPaletteName); err != nil {
			return nil, err
		}
	}

	if !(r.figureWidth > 0) || !(r.figureHeight > 0) || !(r.dpi > 0) || !(r.padInches >= 0) {
		return nil, ErrInvalidFigure
	}
	if r.figureWidth*r.dpi*r.figureHeight*r.dpi > maxFigurePixels {
		return nil, ErrInvalidFigure
	}
	if width, height := r.figureSize(); width < 1 || height < 1 {
		return nil, ErrInvalidFigure
	}

	f, err := parseDefaultFont()
	if err != nil {
		return nil, err
	}
	if r.titleStyle, err = newTextStyle(f, titleFontSize, r.dpi, black); err != nil {
		return nil, err
	}
	if r.tickStyle, err = newTextStyle(f, tickFontSize, r.dpi, black); err != nil {
		return nil, err
	}
	if r.labelStyle, err = newTextStyle(f, labelFontSize, r.dpi, black); err != nil {
		return nil, err
	}

	return r, nil
}

func WithColorbarLabel(colorbarLabel string) RendererOption {
	return func(r *Renderer) {
		r.colorbarLabel = colorbarLabel
	}
}

func WithDPI(dpi float64) RendererOption {
	return func(r *Renderer) {
		r.dpi = dpi
	}
}

// WithFigureSize sets the size of the figure, in inches, before cropping.
func WithFigureSize(width, height float64) RendererOption {
	return func(r *Renderer) {
		r.figureWidth = width
		r.figureHeight = height
	}
}

func WithLogger(logger *zap.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithPadInches sets the padding kept around the content when the figure is
// cropped.
func WithPadInches(padInches float64) RendererOption {
	return func(r *Renderer) {
		r.padInches = padInches
	}
}

func WithPalette(palette *Palette) RendererOption {
	return func(r *Renderer) {
		r.palette = palette
	}
}

func WithTitle(title string) RendererOption {
	return func(r *Renderer) {
		r.title = title
	}
}

// Colorize returns an image with one pixel per cell of g, colored with p over
// the range of g's finite heights.
func Colorize(g *Grid, p *Palette) *image.NRGBA {
	lo, hi := NormRange(g.Range())
	return colorize(g, p, lo, hi)
}

func colorize(g *Grid, p *Palette, lo, hi float64) *image.NRGBA {
	rows, cols := g.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for y := range rows {
		for x := range cols {
			img.SetNRGBA(x, y, p.At(Normalize(g.At(y, x), lo, hi)))
		}
	}
	return img
}

// Render renders g. The returned image is cropped to its content plus the
// configured padding and its bounds start at the origin. It returns
// ErrGridTooLarge if the figure has fewer image pixels than g has cells
// along either axis.
func (r *Renderer) Render(g *Grid) (*image.NRGBA, error) {
	if g == nil {
		return nil, ErrEmptyGrid
	}
	rows, cols := g.Dims()
	if l := r.layout(rows, cols); l.image.Dx() < cols || l.image.Dy() < rows {
		return nil, fmt.Errorf("%w: %dx%d cells, %dx%d pixels", ErrGridTooLarge, cols, rows, l.image.Dx(), l.image.Dy())
	}
	cropped, _ := r.render(g)
	img := image.NewNRGBA(image.Rectangle{Max: cropped.Bounds().Size()})
	draw.Copy(img, image.Point{}, cropped, cropped.Bounds(), draw.Src, nil)
	return img, nil
}

// A layout is the position of each part of the figure in figure pixels.
type layout struct {
	figure   image.Rectangle
	image    image.Rectangle
	colorbar image.Rectangle
	rows     int
	cols     int
}

// cellRect returns the rectangle occupied by the cell at coord.
func (l *layout) cellRect(coord CellCoord) image.Rectangle {
	return image.Rect(
		l.image.Min.X+coord.C*l.image.Dx()/l.cols,
		l.image.Min.Y+coord.R*l.image.Dy()/l.rows,
		l.image.Min.X+(coord.C+1)*l.image.Dx()/l.cols,
		l.image.Min.Y+(coord.R+1)*l.image.Dy()/l.rows,
	)
}

func (r *Renderer) figureSize() (int, int) {
	return int(math.Round(r.figureWidth * r.dpi)), int(math.Round(r.figureHeight * r.dpi))
}

// px converts points to pixels, returning at least one pixel.
func (r *Renderer) px(points float64) int {
	return max(int(math.Round(points*r.dpi/72)), 1)
}

func (r *Renderer) layout(rows, cols int) *layout {
	width, height := r.figureSize()
	axesLeft := subplotLeft * float64(width)
	axesTop := (1 - subplotTop) * float64(height)
	axesWidth := (subplotRight - subplotLeft) * float64(width)
	axesHeight := (subplotTop - subplotBottom) * float64(height)

	// The colorbar takes a fraction of the axes width, leaving the rest for
	// the image, which keeps square cells and is centered in its space.
	parentWidth := axesWidth * (1 - colorbarFraction - colorbarPad)
	cellSize := min(parentWidth/float64(cols), axesHeight/float64(rows))
	imageWidth := max(int(math.Round(cellSize*float64(cols))), 1)
	imageHeight := max(int(math.Round(cellSize*float64(rows))), 1)
	imageLeft := int(math.Round(axesLeft + (parentWidth-float64(imageWidth))/2))
	imageTop := int(math.Round(axesTop + (axesHeight-float64(imageHeight))/2))

	colorbarLeft := axesLeft + parentWidth + colorbarPad*axesWidth
	colorbarWidth := max(min(axesHeight/colorbarAspect, colorbarFraction*axesWidth), 1)

	return &layout{
		figure: image.Rect(0, 0, width, height),
		image:  image.Rect(imageLeft, imageTop, imageLeft+imageWidth, imageTop+imageHeight),
		colorbar: image.Rect(
			int(math.Round(colorbarLeft)),
			int(math.Round(axesTop)),
			int(math.Round(colorbarLeft+colorbarWidth)),
			int(math.Round(axesTop+axesHeight)),
		),
		rows: rows,
		cols: cols,
	}
}

// A canvas is an image that records the bounds of everything drawn on it.
type canvas struct {
	*image.NRGBA
	used image.Rectangle
}

func (c *canvas) mark(r image.Rectangle) {
	c.used = c.used.Union(r)
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.NRGBA, r, image.NewUniform(col), image.Point{}, draw.Src)
	c.mark(r)
}

// frame draws a frame of width lw just outside r.
func (c *canvas) frame(r image.Rectangle, lw int) {
	outer := r.Inset(-lw)
	c.fill(image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, r.Min.Y), black)
	c.fill(image.Rect(outer.Min.X, r.Max.Y, outer.Max.X, outer.Max.Y), black)
	c.fill(image.Rect(outer.Min.X, r.Min.Y, r.Min.X, r.Max.Y), black)
	c.fill(image.Rect(r.Max.X, r.Min.Y, outer.Max.X, r.Max.Y), black)
}

// render renders g on a full figure and returns the cropped sub-image, whose
// bounds are in figure coordinates, and the layout used.
func (r *Renderer) render(g *Grid) (*image.NRGBA, *layout) {
	rows, cols := g.Dims()
	lo, hi := NormRange(g.Range())
	l := r.layout(rows, cols)

	c := &canvas{NRGBA: image.NewNRGBA(l.figure)}
	draw.Draw(c.NRGBA, l.figure, image.NewUniform(white), image.Point{}, draw.Src)

	lw := r.px(lineWidth)

	cells := colorize(g, r.palette, lo, hi)
	blocks := resize.Resize(uint(l.image.Dx()), uint(l.image.Dy()), cells, resize.NearestNeighbor)
	draw.Draw(c.NRGBA, l.image, blocks, blocks.Bounds().Min, draw.Over)
	c.mark(l.image)
	c.frame(l.image, lw)
	r.drawAxisTicks(c, l, lw)

	r.drawColorbar(c, l, lo, hi, lw)

	if r.title != "" {
		size := r.titleStyle.size(r.title)
		topLeft := image.Point{
			X: l.image.Min.X + (l.image.Dx()-size.X)/2,
			Y: l.image.Min.Y - lw - r.px(titlePad) - size.Y,
		}
		c.mark(r.titleStyle.draw(c.NRGBA, topLeft, r.title))
	}

	pad := int(math.Round(r.padInches * r.dpi))
	bounds := c.used.Inset(-pad).Intersect(l.figure)
	r.logger.Debug("rendered height map",
		zap.String("title", r.title),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Float64("min", lo),
		zap.Float64("max", hi),
		zap.Stringer("bounds", bounds),
	)
	return c.SubImage(bounds).(*image.NRGBA), l
}

// drawAxisTicks draws integer cell index ticks along the bottom and left
// edges of the image.
func (r *Renderer) drawAxisTicks(c *canvas, l *layout, lw int) {
	tickLen := r.px(tickLength)
	pad := r.px(tickPad)

	for _, tick := range majorTicks(0, float64(l.cols-1), true) {
		cell := l.cellRect(CellCoord{C: int(tick.value)})
		x := (cell.Min.X + cell.Max.X) / 2
		y := l.image.Max.Y + lw
		c.fill(image.Rect(x-lw/2, y, x-lw/2+lw, y+tickLen), black)
		size := r.tickStyle.size(tick.label)
		c.mark(r.tickStyle.draw(c.NRGBA, image.Pt(x-size.X/2, y+tickLen+pad), tick.label))
	}

	for _, tick := range majorTicks(0, float64(l.rows-1), true) {
		cell := l.cellRect(CellCoord{R: int(tick.value)})
		y := (cell.Min.Y + cell.Max.Y) / 2
		x := l.image.Min.X - lw
		c.fill(image.Rect(x-tickLen, y-lw/2, x, y-lw/2+lw), black)
		size := r.tickStyle.size(tick.label)
		c.mark(r.tickStyle.draw(c.NRGBA, image.Pt(x-tickLen-pad-size.X, y-size.Y/2), tick.label))
	}
}

// drawColorbar draws the colorbar for the range lo..hi with its ticks and
// its rotated label.
func (r *Renderer) drawColorbar(c *canvas, l *layout, lo, hi float64, lw int) {
	cb := l.colorbar
	for y := cb.Min.Y; y < cb.Max.Y; y++ {
		t := (float64(cb.Max.Y-1-y) + 0.5) / float64(cb.Dy())
		c.fill(image.Rect(cb.Min.X, y, cb.Max.X, y+1), r.palette.At(t))
	}
	c.frame(cb, lw)

	tickLen := r.px(tickLength)
	pad := r.px(tickPad)
	x := cb.Max.X + lw
	labelsRight := x + tickLen
	for _, tick := range majorTicks(lo, hi, false) {
		y := cb.Max.Y - int(math.Round(Normalize(tick.value, lo, hi)*float64(cb.Dy())))
		y = min(max(y, cb.Min.Y), cb.Max.Y-1)
		c.fill(image.Rect(x, y-lw/2, x+tickLen, y-lw/2+lw), black)
		size := r.tickStyle.size(tick.label)
		rect := r.tickStyle.draw(c.NRGBA, image.Pt(x+tickLen+pad, y-size.Y/2), tick.label)
		c.mark(rect)
		labelsRight = max(labelsRight, rect.Max.X)
	}

	if r.colorbarLabel != "" {
		size := r.labelStyle.size(r.colorbarLabel)
		topLeft := image.Point{
			X: labelsRight + r.px(labelPad),
			Y: cb.Min.Y + (cb.Dy()-size.X)/2,
		}
		c.mark(r.labelStyle.drawRotated(c.NRGBA, topLeft, r.colorbarLabel))
	}
}
