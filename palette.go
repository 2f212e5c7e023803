package heightmap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultPaletteName is the name of the default palette.
const DefaultPaletteName = "Blues"

const (
	paletteSize         = 256
	reversedSuffix      = "_r"
	nonsingularExpander = 0.05
)

var ErrUnknownPalette = errors.New("unknown palette")

// Sequential ColorBrewer schemes, light to dark.
var paletteAnchors = map[string][]string{
	"Blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"Greens":  {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"Greys":   {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
	"Oranges": {"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#a63603", "#7f2704"},
	"Purples": {"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#54278f", "#3f007d"},
	"Reds":    {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
}

// A Palette maps normalized values in [0, 1] to colors.
type Palette struct {
	name   string
	colors []color.NRGBA
	bad    color.NRGBA
}

// PaletteNames returns the names of all palettes, excluding reversed
// variants.
func PaletteNames() []string {
	names := make([]string, 0, len(paletteAnchors))
	for name := range paletteAnchors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPalette returns the palette called name. Appending _r to a name returns
// the reversed palette.
func NewPalette(name string) (*Palette, error) {
	baseName, reversed := strings.CutSuffix(name, reversedSuffix)
	hexes, ok := paletteAnchors[baseName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}

	anchors := make([]colorful.Color, len(hexes))
	for i, hex := range hexes {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, err
		}
		anchors[i] = c
	}
	if reversed {
		slices.Reverse(anchors)
	}

	segments := len(anchors) - 1
	colors := make([]color.NRGBA, paletteSize)
	for i := range colors {
		s := float64(i) / float64(paletteSize-1) * float64(segments)
		k := min(int(s), segments-1)
		r, g, b := anchors[k].BlendRgb(anchors[k+1], s-float64(k)).Clamped().RGB255()
		colors[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}

	return &Palette{
		name:   name,
		colors: colors,
	}, nil
}

// MustNewPalette is like NewPalette but panics on error.
func MustNewPalette(name string) *Palette {
	p, err := NewPalette(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns p's name.
func (p *Palette) Name() string {
	return p.name
}

// At returns the color for the normalized value t. Values outside [0, 1] are
// clamped. Non-finite values return a fully transparent color.
func (p *Palette) At(t float64) color.NRGBA {
	if !isFinite(t) {
		return p.bad
	}
	index := int(min(max(t, 0), 1) * paletteSize)
	return p.colors[min(index, paletteSize-1)]
}

// NormRange returns the range used to normalize values between lo and hi. A
// singular range is widened by 5% of its magnitude on each side, and a
// non-finite range becomes -0.05..0.05.
func NormRange(lo, hi float64) (float64, float64) {
	if !isFinite(lo) || !isFinite(hi) {
		return -nonsingularExpander, nonsingularExpander
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi-lo <= max(math.Abs(lo), math.Abs(hi))*1e-15 {
		if lo == 0 && hi == 0 {
			return -nonsingularExpander, nonsingularExpander
		}
		lo -= nonsingularExpander * math.Abs(lo)
		hi += nonsingularExpander * math.Abs(hi)
	}
	return lo, hi
}

// Normalize maps v linearly from [lo, hi] to [0, 1]. Ranges wider than the
// largest float64 are handled by halving before subtracting.
func Normalize(v, lo, hi float64) float64 {
	if span := hi - lo; isFinite(span) {
		return (v - lo) / span
	}
	return (v/2 - lo/2) / (hi/2 - lo/2)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
