package heightmap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-heightmap"
)

func TestLoadConfig(t *testing.T) {
	for _, tc := range []struct {
		name            string
		data            string
		expected        *heightmap.Config
		expectedOptions int
	}{
		{
			name:     "empty",
			data:     "",
			expected: &heightmap.Config{},
		},
		{
			name: "full",
			data: "" +
				"title: Terrain\n" +
				"colorbarLabel: Elevation (m)\n" +
				"palette: Greens_r\n" +
				"dpi: 72\n" +
				"figureSize: [8, 6]\n" +
				"padInches: 0\n",
			expected: &heightmap.Config{
				Title:         ptr("Terrain"),
				ColorbarLabel: ptr("Elevation (m)"),
				Palette:       "Greens_r",
				DPI:           72,
				FigureSize:    &[2]float64{8, 6},
				PadInches:     ptr(0.0),
			},
			expectedOptions: 6,
		},
		{
			name: "empty_title",
			data: "title: ''\n",
			expected: &heightmap.Config{
				Title: ptr(""),
			},
			expectedOptions: 1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "config.yaml")
			assert.NoError(t, os.WriteFile(filename, []byte(tc.data), 0o666))

			config, err := heightmap.LoadConfig(filename)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, config)

			options, err := config.RendererOptions()
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedOptions, len(options))

			_, err = heightmap.NewRenderer(options...)
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := heightmap.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknownField := filepath.Join(dir, "unknown.yaml")
	assert.NoError(t, os.WriteFile(unknownField, []byte("colour: blue\n"), 0o666))
	_, err = heightmap.LoadConfig(unknownField)
	assert.Error(t, err)

	unknownPalette := filepath.Join(dir, "palette.yaml")
	assert.NoError(t, os.WriteFile(unknownPalette, []byte("palette: Rainbow\n"), 0o666))
	config, err := heightmap.LoadConfig(unknownPalette)
	assert.NoError(t, err)
	_, err = config.RendererOptions()
	assert.IsError(t, err, heightmap.ErrUnknownPalette)
}

func ptr[T any](v T) *T {
	return &v
}
