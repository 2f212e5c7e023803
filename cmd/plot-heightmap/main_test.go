package main

import (
	"bytes"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestExecuteUsage(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{
			name: "no_args",
		},
		{
			name: "two_args",
			args: []string{"a.csv", "b.csv"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, execute(tc.args, &stdout, &stderr))
			assert.Equal(t, "Usage: plot-heightmap <csv_file>\n", stdout.String())
			assert.Equal(t, "", stderr.String())
		})
	}
}

func TestExecuteMissingFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.csv")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, execute([]string{input}, &stdout, &stderr))
	assert.Equal(t, "Error: File "+input+" not found\n", stdout.String())

	_, err := os.Stat(filepath.Join(dir, "missing.png"))
	assert.IsError(t, err, fs.ErrNotExist)
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.csv")
	assert.NoError(t, os.WriteFile(input, []byte("1,2,3\n4,5,6\n7,8,9\n"), 0o666))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, execute([]string{input}, &stdout, &stderr))
	output := filepath.Join(dir, "grid.png")
	assert.Equal(t, "Height map visualization saved to "+output+"\n", stdout.String())
	assert.Equal(t, "", stderr.String())

	file, err := os.Open(output)
	assert.NoError(t, err)
	defer file.Close()
	_, err = png.Decode(file)
	assert.NoError(t, err)
}

func TestExecuteRelativePath(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, os.WriteFile("grid.csv", []byte("1,2,3\n4,5,6\n7,8,9\n"), 0o666))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, execute([]string{"grid.csv"}, &stdout, &stderr))
	assert.Equal(t, "Height map visualization saved to grid.png\n", stdout.String())
	_, err := os.Stat("grid.png")
	assert.NoError(t, err)
}

func TestExecuteParseError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.csv")
	assert.NoError(t, os.WriteFile(input, []byte("1,2,3\n4,5\n"), 0o666))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, execute([]string{input}, &stdout, &stderr))
	assert.Equal(t, "", stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "Error: "+input+": line 2: "), stderr.String())

	_, err := os.Stat(filepath.Join(dir, "grid.png"))
	assert.IsError(t, err, fs.ErrNotExist)
}

func TestExecuteFlags(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.csv")
	assert.NoError(t, os.WriteFile(input, []byte("1,2\n3,4\n"), 0o666))
	configFile := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(configFile, []byte("title: From config\ndpi: 50\n"), 0o666))
	output := filepath.Join(dir, "out.png")
	metricsFile := filepath.Join(dir, "heightmap.prom")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, execute([]string{
		"--config", configFile,
		"--palette", "Greys",
		"--title", "From flags",
		"--output", output,
		"--metrics-textfile", metricsFile,
		"--verbose",
		input,
	}, &stdout, &stderr))
	assert.Equal(t, "Height map visualization saved to "+output+"\n", stdout.String())
	assert.True(t, strings.Contains(stderr.String(), `"msg":"wrote image"`), stderr.String())
	assert.Contains(t, stderr.String(), `"title":"From flags"`)
	assert.NotContains(t, stderr.String(), "From config")

	metrics, err := os.ReadFile(metricsFile)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(metrics), "heightmap_renders_total"))

	_, err = os.Stat(filepath.Join(dir, "grid.png"))
	assert.IsError(t, err, fs.ErrNotExist)
}

func TestExecuteFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.csv")
	assert.NoError(t, os.WriteFile(input, []byte("1,2\n3,4\n"), 0o666))
	configFile := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(configFile, []byte("title: From config\ndpi: 50\n"), 0o666))

	for _, tc := range []struct {
		name          string
		args          []string
		expectedTitle string
		expectedDPI   int
	}{
		{
			name:          "config",
			expectedTitle: "From config",
			expectedDPI:   50,
		},
		{
			name:          "title_flag",
			args:          []string{"--title", "From flags"},
			expectedTitle: "From flags",
			expectedDPI:   50,
		},
		{
			name:          "dpi_flag",
			args:          []string{"--dpi", "100"},
			expectedTitle: "From config",
			expectedDPI:   100,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "grid.png")
			args := append([]string{"--config", configFile, "--output", output, "--verbose"}, tc.args...)
			args = append(args, input)

			var stdout, stderr bytes.Buffer
			assert.Equal(t, 0, execute(args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), `"title":"`+tc.expectedTitle+`"`)

			// The 10 inch figure is cropped to its content, which is
			// between half and all of its width.
			file, err := os.Open(output)
			assert.NoError(t, err)
			defer file.Close()
			config, err := png.DecodeConfig(file)
			assert.NoError(t, err)
			assert.True(t, config.Width <= 10*tc.expectedDPI, "width %d", config.Width)
			assert.True(t, config.Width > 5*tc.expectedDPI, "width %d", config.Width)
		})
	}
}

func TestExecuteUnknownPalette(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "grid.csv")
	assert.NoError(t, os.WriteFile(input, []byte("1,2\n3,4\n"), 0o666))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, execute([]string{"--palette", "Rainbow", input}, &stdout, &stderr))
	assert.Equal(t, "Error: unknown palette: \"Rainbow\"\n", stderr.String())
}
