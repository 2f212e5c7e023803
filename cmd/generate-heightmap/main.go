package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/twpayne/go-heightmap"
)

type options struct {
	output    string
	start     float64
	size      int
	amplitude float64
	chunks    int
	seed      uint64
	plot      bool
	verbose   bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "generate-heightmap",
		Short:         "Generate random terrain as a CSV height map",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "heightmap.csv", "output CSV path")
	flags.Float64Var(&o.start, "start", 0, "initial height")
	flags.IntVar(&o.size, "size", heightmap.DefaultChunkSize, "chunk size, in rows and columns")
	flags.Float64Var(&o.amplitude, "amplitude", heightmap.DefaultAmplitude, "maximum height variation between neighboring cells")
	flags.IntVar(&o.chunks, "chunks", 1, "number of chunks, placed side by side")
	flags.Uint64Var(&o.seed, "seed", 0, "random seed (default: derived from the current time)")
	flags.BoolVar(&o.plot, "plot", false, "also render the height map as a PNG")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, o *options, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, o.verbose)
	defer func() {
		_ = logger.Sync()
	}()

	seed := o.seed
	if !cmd.Flags().Changed("seed") {
		seed = uint64(time.Now().UnixNano())
	}
	generator, err := heightmap.NewGenerator(o.start,
		heightmap.WithChunkSize(o.size),
		heightmap.WithAmplitude(o.amplitude),
		heightmap.WithSeed(seed),
	)
	if err != nil {
		return err
	}
	grid, err := generator.Generate(o.chunks)
	if err != nil {
		return err
	}
	rows, cols := grid.Dims()
	logger.Debug("generated grid",
		zap.Uint64("seed", seed),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
	)

	if err := writeCSVFile(o.output, grid); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Height map saved to %s\n", o.output)

	if !o.plot {
		return nil
	}
	renderer, err := heightmap.NewRenderer(heightmap.WithLogger(logger))
	if err != nil {
		return err
	}
	output, err := renderer.RenderFile(o.output, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Height map visualization saved to %s\n", output)
	return nil
}

func writeCSVFile(filename string, grid *heightmap.Grid) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return heightmap.WriteCSV(file, grid)
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func execute(args []string, stdout, stderr io.Writer) int {
	// cobra falls back to os.Args when args is nil.
	if args == nil {
		args = []string{}
	}
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
