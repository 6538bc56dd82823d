package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const usage = `Usage:
  dropmap [item name]                 start the terminal UI
  dropmap convert [flags] <item.json>
      --icon=<icon>    overlay icon (default from config)
      --color=<hex>    waypoint colour, #RRGGBB or #RRGGBBAA
  dropmap render [flags] <item.json> <out.png|out.webp>
      --width=<px> --height=<px> --map=<path> --color=<hex> --radius --labels
`

var errUsage = errors.New("invalid arguments")

// runHeadless runs a subcommand with errors reported on stderr and
// returns the process exit code.
func runHeadless(cfg *Config, run func() error) int {
	cleanup, err := initLogger(cfg.LogDirectory, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dropmap: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := run(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("Command failed", "error", err)
		return 1
	}
	return 0
}

// parseArgs accepts flags before, between and after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func readItemFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseItemJSON(string(data))
}

func runConvert(args []string, cfg *Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	icon := fs.String("icon", cfg.Icon, "overlay icon")
	color := fs.String("color", cfg.Color, "waypoint colour")

	files, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("%w: convert takes one item file", errUsage)
	}

	raw, err := readItemFile(files[0])
	if err != nil {
		return err
	}
	wps := toExportWaypoints(extractItemRecord(raw), *icon, *color)
	out, err := marshalWaypoints(wps)
	if err != nil {
		return err
	}
	slog.Info("Converted", "file", files[0], "waypoints", len(wps))
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

func runRender(args []string, cfg *Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	width := fs.Int("width", 1280, "image width in pixels")
	height := fs.Int("height", 720, "image height in pixels")
	mapPath := fs.String("map", cfg.MapPath, "map image")
	color := fs.String("color", cfg.Color, "waypoint colour")
	radius := fs.Bool("radius", cfg.ShowRadius, "draw radius rings")
	labels := fs.Bool("labels", cfg.ShowLabels, "draw labels")

	files, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(files) != 2 {
		return fmt.Errorf("%w: render takes an item file and an output image", errUsage)
	}
	if *width < 1 || *height < 1 {
		return fmt.Errorf("%w: image size must be positive", errUsage)
	}

	raw, err := readItemFile(files[0])
	if err != nil {
		return err
	}
	img, err := loadMapImage(*mapPath)
	if err != nil {
		return err
	}

	wps := toVisualizationWaypoints(extractItemRecord(raw), *color)
	vp := NewViewport(float64(*width), float64(*height))
	vp.Reset()
	if err := vp.FitToWaypoints(wps); err != nil {
		return err
	}
	frame, err := Render(img, vp.View(), wps, RenderOptions{ShowRadius: *radius, ShowLabels: *labels})
	if err != nil {
		return err
	}
	if err := writeViewportImage(files[1], frame, *width, *height); err != nil {
		return err
	}
	slog.Info("Rendered", "file", files[0], "out", files[1], "waypoints", len(wps))
	_, err = fmt.Fprintf(stdout, "%s: %s\n", files[1], frame.Status)
	return err
}
