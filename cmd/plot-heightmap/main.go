package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/twpayne/go-heightmap"
)

const usage = "Usage: plot-heightmap <csv_file>"

// errExit is returned after a message has already been printed for the user.
var errExit = errors.New("exit")

type options struct {
	output          string
	configFile      string
	title           string
	colorbarLabel   string
	palette         string
	dpi             float64
	metricsTextfile string
	verbose         bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "plot-heightmap <csv_file>",
		Short:         "Render a CSV height map as a PNG image",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "", "output PNG path (default: input with a .png extension)")
	flags.StringVar(&o.configFile, "config", "", "YAML render configuration file")
	flags.StringVar(&o.title, "title", "Height Map", "figure title")
	flags.StringVar(&o.colorbarLabel, "label", "Height", "colorbar label")
	flags.StringVar(&o.palette, "palette", heightmap.DefaultPaletteName, "palette name, append _r to reverse")
	flags.Float64Var(&o.dpi, "dpi", 150, "resolution in dots per inch")
	flags.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, o *options, args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(stdout, usage)
		return errExit
	}
	input := args[0]
	if _, err := os.Stat(input); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stdout, "Error: File %s not found\n", input)
		return errExit
	}

	logger := newLogger(stderr, o.verbose)
	defer func() {
		_ = logger.Sync()
	}()

	rendererOptions, err := o.rendererOptions(cmd)
	if err != nil {
		return err
	}
	rendererOptions = append(rendererOptions, heightmap.WithLogger(logger))

	renderer, err := heightmap.NewRenderer(rendererOptions...)
	if err != nil {
		return err
	}

	output, err := renderer.RenderFile(input, o.output)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Height map visualization saved to %s\n", output)

	if o.metricsTextfile != "" {
		if err := heightmap.WriteMetrics(o.metricsTextfile); err != nil {
			return err
		}
		logger.Debug("wrote metrics", zap.String("filename", o.metricsTextfile))
	}

	return nil
}

// rendererOptions returns the options from the config file, if any, followed
// by the options from flags set on the command line.
func (o *options) rendererOptions(cmd *cobra.Command) ([]heightmap.RendererOption, error) {
	var rendererOptions []heightmap.RendererOption
	if o.configFile != "" {
		config, err := heightmap.LoadConfig(o.configFile)
		if err != nil {
			return nil, err
		}
		configOptions, err := config.RendererOptions()
		if err != nil {
			return nil, err
		}
		rendererOptions = append(rendererOptions, configOptions...)
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		rendererOptions = append(rendererOptions, heightmap.WithTitle(o.title))
	}
	if flags.Changed("label") {
		rendererOptions = append(rendererOptions, heightmap.WithColorbarLabel(o.colorbarLabel))
	}
	if flags.Changed("palette") {
		palette, err := heightmap.NewPalette(o.palette)
		if err != nil {
			return nil, err
		}
		rendererOptions = append(rendererOptions, heightmap.WithPalette(palette))
	}
	if flags.Changed("dpi") {
		rendererOptions = append(rendererOptions, heightmap.WithDPI(o.dpi))
	}
	return rendererOptions, nil
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
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
