package heightmap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// ErrParse is matched by every error returned when CSV data cannot be parsed
// into a Grid.
var ErrParse = errors.New("parse error")

// A ParseError is returned when CSV data cannot be parsed into a Grid.
type ParseError struct {
	Filename string
	Line     int // 1-based, zero if not applicable.
	Column   int // 1-based field index, zero if not applicable.
	Err      error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Filename != "" {
		sb.WriteString(e.Filename)
		sb.WriteString(": ")
	}
	switch {
	case e.Line != 0 && e.Column != 0:
		fmt.Fprintf(&sb, "line %d, column %d: ", e.Line, e.Column)
	case e.Line != 0:
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReadCSV reads a Grid from r. Each non-blank line is one row of
// comma-separated numbers. Lines starting with # are ignored.
func ReadCSV(r io.Reader) (*Grid, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	var rows [][]float64
	for {
		record, err := csvReader.Read()
		switch {
		case errors.Is(err, io.EOF):
			return newGridFromRows(rows)
		case err != nil:
			var csvParseErr *csv.ParseError
			if errors.As(err, &csvParseErr) {
				return nil, &ParseError{
					Line: csvParseErr.Line,
					Err:  csvParseErr.Err,
				}
			}
			return nil, err
		}

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		line, _ := csvReader.FieldPos(0)
		if len(rows) > 0 && len(record) != len(rows[0]) {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: expected %d fields, got %d", ErrRaggedGrid, len(rows[0]), len(record)),
			}
		}

		row := make([]float64, len(record))
		for i, field := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &ParseError{
					Line:   line,
					Column: i + 1,
					Err:    fmt.Errorf("invalid number %q", field),
				}
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
}

// ReadCSVFile reads a Grid from the file filename in fsys.
func ReadCSVFile(fsys fs.FS, filename string) (*Grid, error) {
	file, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readNamedCSV(file, filename)
}

// readNamedCSV reads a Grid from r, recording filename in any ParseError.
func readNamedCSV(r io.Reader, filename string) (*Grid, error) {
	grid, err := ReadCSV(r)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Filename = filename
		}
		return nil, err
	}
	return grid, nil
}

// WriteCSV writes g to w as comma-separated rows that ReadCSV reads back
// unchanged.
func WriteCSV(w io.Writer, g *Grid) error {
	csvWriter := csv.NewWriter(w)
	rows, cols := g.Dims()
	record := make([]string, cols)
	for r := range rows {
		for c := range record {
			record[c] = strconv.FormatFloat(g.At(r, c), 'g', -1, 64)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func newGridFromRows(rows [][]float64) (*Grid, error) {
	grid, err := NewGrid(rows)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return grid, nil
}
