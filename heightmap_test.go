package heightmap_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-heightmap"
)

func TestNewGrid(t *testing.T) {
	for _, tc := range []struct {
		name         string
		rows         [][]float64
		expectedErr  error
		expectedRows int
		expectedCols int
	}{
		{
			name:        "nil",
			expectedErr: heightmap.ErrEmptyGrid,
		},
		{
			name:        "empty_row",
			rows:        [][]float64{{}},
			expectedErr: heightmap.ErrEmptyGrid,
		},
		{
			name:        "ragged",
			rows:        [][]float64{{1, 2}, {3}},
			expectedErr: heightmap.ErrRaggedGrid,
		},
		{
			name:         "single_cell",
			rows:         [][]float64{{1}},
			expectedRows: 1,
			expectedCols: 1,
		},
		{
			name:         "wide",
			rows:         [][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}},
			expectedRows: 2,
			expectedCols: 4,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := heightmap.NewGrid(tc.rows)
			if tc.expectedErr != nil {
				assert.IsError(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			rows, cols := grid.Dims()
			assert.Equal(t, tc.expectedRows, rows)
			assert.Equal(t, tc.expectedCols, cols)
			assert.Equal(t, tc.rows, gridRows(grid))
		})
	}
}

func TestNewGridCopiesRows(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}}
	grid, err := heightmap.NewGrid(rows)
	assert.NoError(t, err)
	rows[0][0] = 100
	assert.Equal(t, 1.0, grid.At(0, 0))
	assert.Equal(t, 4.0, grid.Cell(heightmap.CellCoord{R: 1, C: 1}))
}

func TestGrid_Range(t *testing.T) {
	for _, tc := range []struct {
		name        string
		rows        [][]float64
		expectedMin float64
		expectedMax float64
	}{
		{
			name:        "simple",
			rows:        [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			expectedMin: 1,
			expectedMax: 9,
		},
		{
			name:        "negative",
			rows:        [][]float64{{-10, 0.5}},
			expectedMin: -10,
			expectedMax: 0.5,
		},
		{
			name:        "non_finite_ignored",
			rows:        [][]float64{{math.NaN(), 2}, {math.Inf(1), math.Inf(-1)}, {-1, 3}},
			expectedMin: -1,
			expectedMax: 3,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := heightmap.NewGrid(tc.rows)
			assert.NoError(t, err)
			actualMin, actualMax := grid.Range()
			assert.Equal(t, tc.expectedMin, actualMin)
			assert.Equal(t, tc.expectedMax, actualMax)
		})
	}
}

func TestGrid_RangeAllNaN(t *testing.T) {
	grid, err := heightmap.NewGrid([][]float64{{math.NaN(), math.NaN()}})
	assert.NoError(t, err)
	actualMin, actualMax := grid.Range()
	assert.True(t, math.IsNaN(actualMin))
	assert.True(t, math.IsNaN(actualMax))
}

func gridRows(grid *heightmap.Grid) [][]float64 {
	rows, cols := grid.Dims()
	result := make([][]float64, rows)
	for r := range rows {
		result[r] = make([]float64, cols)
		for c := range cols {
			result[r][c] = grid.At(r, c)
		}
	}
	return result
}
