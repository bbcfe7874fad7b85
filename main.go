package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ByLCY/drawbench/bench"
	"github.com/ByLCY/drawbench/config"
	"github.com/ByLCY/drawbench/logging"
	"github.com/ByLCY/drawbench/renderer"
	canvasrenderer "github.com/ByLCY/drawbench/renderer/canvas"
	"github.com/ByLCY/drawbench/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run is the only place that picks the exit status and prints diagnostics.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	err := execute(ctx, args, stderr)
	if err == nil {
		return 0
	}
	if errors.Is(err, config.ErrHelp) {
		config.Usage(stderr)
		return 0
	}

	var usageErr *config.UsageError
	var assetErr *renderer.AssetError
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintln(stderr, usageErr.Message)
	case errors.As(err, &assetErr):
		fmt.Fprintln(stderr, assetErr.Error())
	default:
		fmt.Fprintf(stderr, "drawbench: %v\n", err)
	}
	return 1
}

// execute chains argument parsing, scene loading and the render loop.
func execute(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer logging.SetLogger(nil)
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	output := profile.OutputName
	if cfg.Output != "" {
		output = cfg.Output
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(cfg.Dir, output)
	}
	save := cfg.Save || profile.Save

	job := renderer.Job{
		Dir:     cfg.Dir,
		Scale:   cfg.Scale,
		Steps:   cfg.Steps,
		Profile: profile,
	}

	if cfg.Debug != "" {
		plan := &scene.Plan{
			Dir:     cfg.Dir,
			Loop:    cfg.Loop,
			Scale:   cfg.Scale,
			Steps:   cfg.Steps,
			Save:    save,
			Output:  output,
			Profile: profile,
		}
		if err := writeDebug(plan, cfg.Debug); err != nil {
			return err
		}
	}

	logging.Logger().Info("run configured",
		"scene", profile.Name,
		"dir", cfg.Dir,
		"loop", cfg.Loop,
		"scale", cfg.Scale,
		"steps", fmt.Sprint(cfg.Steps),
		"save", save,
		"output", output,
	)

	return bench.Run(ctx, canvasrenderer.NewRenderer(), job, bench.Options{
		Loop:   cfg.Loop,
		Save:   save,
		Output: output,
	})
}

func loadProfile(cfg *config.RunConfig) (*scene.Profile, error) {
	if cfg.Scene != "" {
		return scene.Load(cfg.Scene)
	}
	name := cfg.Profile
	if name == "" {
		name = scene.DefaultProfile
	}
	profile, err := scene.Builtin(name)
	if err != nil {
		return nil, &config.UsageError{Message: err.Error()}
	}
	return profile, nil
}

func writeDebug(plan *scene.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}
	if err := scene.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("write debug JSON: %w", err)
	}
	return nil
}
