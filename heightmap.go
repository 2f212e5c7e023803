package heightmap

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyGrid  = errors.New("empty grid")
	ErrRaggedGrid = errors.New("rows have different lengths")
)

// A CellCoord is a cell coordinate.
type CellCoord struct {
	R int // Row.
	C int // Column.
}

// A Grid is an immutable, rectangular grid of heights. Row 0 is the first
// row of the input.
type Grid struct {
	dense *mat.Dense
}

// NewGrid returns a new Grid containing a copy of rows.
func NewGrid(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, ErrRaggedGrid
		}
		data = append(data, row...)
	}
	return &Grid{
		dense: mat.NewDense(len(rows), cols, data),
	}, nil
}

// Dims returns the number of rows and columns in g.
func (g *Grid) Dims() (int, int) {
	return g.dense.Dims()
}

// At returns the height at row r, column c.
func (g *Grid) At(r, c int) float64 {
	return g.dense.At(r, c)
}

// Cell returns the height at coord.
func (g *Grid) Cell(coord CellCoord) float64 {
	return g.dense.At(coord.R, coord.C)
}

// Range returns the minimum and maximum finite heights in g. If g contains
// no finite heights then both are NaN.
func (g *Grid) Range() (float64, float64) {
	raw := g.dense.RawMatrix()
	finite := make([]float64, 0, raw.Rows*raw.Cols)
	for r := range raw.Rows {
		for _, v := range raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				finite = append(finite, v)
			}
		}
	}
	if len(finite) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(finite), floats.Max(finite)
}
