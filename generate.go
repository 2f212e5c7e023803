package heightmap

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultChunkSize = 16
	DefaultAmplitude = 1
)

var ErrInvalidGenerator = errors.New("invalid generator")

// A Generator generates terrain as an endless sequence of square chunks. Each
// chunk is a random walk that continues from the last column of the
// previous chunk, so consecutive chunks join without a seam.
type Generator struct {
	size      int
	amplitude float64
	seed      uint64
	edge      []float64
	noise     distuv.Uniform
}

// A GeneratorOption sets an option on a Generator.
type GeneratorOption func(*Generator)

// WithAmplitude sets the maximum height change between a cell and the mean
// of its neighbors to the left and above.
func WithAmplitude(amplitude float64) GeneratorOption {
	return func(g *Generator) {
		g.amplitude = amplitude
	}
}

// WithChunkSize sets the number of rows and columns in each chunk.
func WithChunkSize(size int) GeneratorOption {
	return func(g *Generator) {
		g.size = size
	}
}

// WithEdge sets the column that the first chunk continues from. Its length
// sets the chunk size.
func WithEdge(edge []float64) GeneratorOption {
	return func(g *Generator) {
		g.edge = edge
	}
}

func WithSeed(seed uint64) GeneratorOption {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator returns a new Generator whose first chunk continues from a
// column of height start.
func NewGenerator(start float64, options ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		size:      DefaultChunkSize,
		amplitude: DefaultAmplitude,
	}
	for _, option := range options {
		option(g)
	}

	switch {
	case g.edge != nil && len(g.edge) == 0:
		return nil, fmt.Errorf("%w: empty edge", ErrInvalidGenerator)
	case g.edge != nil:
		g.edge = append([]float64(nil), g.edge...)
		g.size = len(g.edge)
	case g.size < 1:
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidGenerator, g.size)
	case !isFinite(start):
		return nil, fmt.Errorf("%w: start %v", ErrInvalidGenerator, start)
	default:
		g.edge = make([]float64, g.size)
		for i := range g.edge {
			g.edge[i] = start
		}
	}
	if !isFinite(g.amplitude) || g.amplitude < 0 {
		return nil, fmt.Errorf("%w: amplitude %v", ErrInvalidGenerator, g.amplitude)
	}

	g.noise = distuv.Uniform{
		Min: -g.amplitude,
		Max: g.amplitude,
		Src: rand.NewPCG(g.seed, g.seed),
	}
	return g, nil
}

// ChunkSize returns the number of rows and columns in each chunk.
func (g *Generator) ChunkSize() int {
	return g.size
}

// Next returns the next chunk as a slice of columns.
func (g *Generator) Next() [][]float64 {
	chunk := make([][]float64, g.size)
	left := g.edge
	for c := range chunk {
		column := make([]float64, g.size)
		for r := range column {
			height := left[r]
			if r > 0 {
				height = (left[r] + column[r-1]) / 2
			}
			column[r] = height + g.noise.Rand()
		}
		chunk[c] = column
		left = column
	}
	g.edge = left
	return chunk
}

// Generate returns a Grid of the next chunks chunks placed side by side. The
// Grid has ChunkSize() rows and chunks*ChunkSize() columns.
func (g *Generator) Generate(chunks int) (*Grid, error) {
	if chunks < 1 {
		return nil, fmt.Errorf("%w: %d chunks", ErrInvalidGenerator, chunks)
	}
	rows := make([][]float64, g.size)
	for r := range rows {
		rows[r] = make([]float64, 0, chunks*g.size)
	}
	for range chunks {
		for _, column := range g.Next() {
			for r, height := range column {
				rows[r] = append(rows[r], height)
			}
		}
	}
	return NewGrid(rows)
}
