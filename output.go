package heightmap

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	csvExt = ".csv"
	pngExt = ".png"
)

// OutputFilename returns the PNG filename for the CSV file input. A .csv
// extension, in any case, is replaced with .png. Any other filename has .png
// appended so the input is never overwritten.
func OutputFilename(input string) string {
	if ext := filepath.Ext(input); strings.EqualFold(ext, csvExt) {
		return strings.TrimSuffix(input, ext) + pngExt
	}
	return input + pngExt
}

// WritePNG writes img to filename as a PNG, replacing any existing file.
func WritePNG(filename string, img image.Image) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return png.Encode(file, img)
}

// RenderFile renders the CSV file input and writes the result as a PNG to
// output. If output is empty then OutputFilename(input) is used. It returns
// the filename written. Nothing is written if input cannot be read.
func (r *Renderer) RenderFile(input, output string) (string, error) {
	start := time.Now()
	if output == "" {
		output = OutputFilename(input)
	}

	grid, err := readGridFile(input)
	if err != nil {
		renderFailuresTotal.WithLabelValues(stageRead).Inc()
		return "", err
	}
	rows, cols := grid.Dims()
	r.logger.Debug("read grid",
		zap.String("input", input),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
	)

	img, err := r.Render(grid)
	if err != nil {
		renderFailuresTotal.WithLabelValues(stageRender).Inc()
		return "", err
	}

	if err := WritePNG(output, img); err != nil {
		renderFailuresTotal.WithLabelValues(stageWrite).Inc()
		return "", err
	}

	duration := time.Since(start)
	rendersTotal.Inc()
	cellsRenderedTotal.Add(float64(rows * cols))
	renderDurationSeconds.Observe(duration.Seconds())
	r.logger.Debug("wrote image",
		zap.String("output", output),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Duration("duration", duration),
	)

	return output, nil
}

func readGridFile(filename string) (*Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readNamedCSV(file, filename)
}
