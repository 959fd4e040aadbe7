//go:build !(js && wasm)

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JadonBelair/vox-to-gmod/api"
	"github.com/JadonBelair/vox-to-gmod/ccvox"
	"github.com/JadonBelair/vox-to-gmod/config"
	"github.com/JadonBelair/vox-to-gmod/utils"
)

var errUsage = errors.New("expected exactly one input file")

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: vox2gmod [flags] <file.vox>")
	fmt.Fprintln(w, "Converts a MagicaVoxel model into a frame, or an animation of frames, for Garry's Mod.")
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

type invocation struct {
	input string
	cfg   config.Config
}

// parseArgs resolves settings from defaults, the optional config file and
// flags, in increasing priority. Flags may come before or after the file.
func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	fs := flag.NewFlagSet("vox2gmod", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	def := config.Default()
	var (
		output, codec, preview, thumbnail, configPath string
		layer, workers                                int
		animation, verbose                            bool
	)
	fs.StringVar(&output, "output", def.Output, "output file")
	fs.StringVar(&output, "o", def.Output, "shorthand for -output")
	fs.IntVar(&layer, "layer", def.Layer, "layer to convert")
	fs.IntVar(&layer, "l", def.Layer, "shorthand for -layer")
	fs.BoolVar(&animation, "animation", def.Animation, "pack every model of the layer as an animation")
	fs.BoolVar(&animation, "a", def.Animation, "shorthand for -animation")
	fs.StringVar(&codec, "codec", def.Codec, "frame compressor: deflate, zlib or zstd")
	fs.IntVar(&workers, "workers", def.Workers, "concurrent frame encoders (0 = GOMAXPROCS)")
	fs.StringVar(&preview, "preview", def.Preview, "also write a .glb preview of the first model")
	fs.StringVar(&thumbnail, "thumbnail", def.Thumbnail, "also write a top-view .png of the first model")
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.BoolVar(&verbose, "verbose", false, "debug logging")
	fs.BoolVar(&verbose, "v", false, "shorthand for -verbose")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				usage(stderr, fs)
			}
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) != 1 {
		usage(stderr, fs)
		return nil, errUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output", "o":
			cfg.Output = output
		case "layer", "l":
			cfg.Layer = layer
		case "animation", "a":
			cfg.Animation = animation
		case "codec":
			cfg.Codec = codec
		case "workers":
			cfg.Workers = workers
		case "preview":
			cfg.Preview = preview
		case "thumbnail":
			cfg.Thumbnail = thumbnail
		case "verbose", "v":
			if verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	return &invocation{input: positional[0], cfg: cfg}, nil
}

func setupLogging(level string, w io.Writer) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	ccvox.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func run(inv *invocation) error {
	cfg := inv.cfg
	opts := api.Options{
		Layer:     cfg.Layer,
		Animation: cfg.Animation,
		Codec:     cfg.Codec,
		Workers:   cfg.Workers,
	}
	outs := utils.Outputs{Frame: cfg.Output, Preview: cfg.Preview, Thumbnail: cfg.Thumbnail}
	return utils.Run(inv.input, outs, opts)
}

func main() {
	inv, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if err := setupLogging(inv.cfg.LogLevel, os.Stderr); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if err := run(inv); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
