// Package bench repeats the compose-and-save cycle for timing runs.
package bench

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/ByLCY/drawbench/logging"
	"github.com/ByLCY/drawbench/renderer"
)

// Options controls the loop. Output is the full path of the PNG file.
type Options struct {
	Loop   int
	Save   bool
	Output string
}

// Run renders job opts.Loop times. Nothing is carried between iterations;
// when saving, every iteration overwrites the same output file.
func Run(ctx context.Context, r renderer.Renderer, job renderer.Job, opts Options) error {
	if r == nil {
		return fmt.Errorf("renderer must not be nil")
	}
	log := logging.Logger()
	for i := 1; i <= opts.Loop; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		img, err := r.Render(ctx, job)
		if err != nil {
			return err
		}
		if opts.Save {
			if _, err := WriteOutput(r, img, opts.Output); err != nil {
				return err
			}
		}
		log.Debug("iteration done", "iteration", i, "of", opts.Loop, "elapsed", time.Since(start))
	}
	return nil
}

// WriteOutput encodes img to PNG and writes it to path. An image the
// renderer cannot encode is skipped without error; written reports whether
// a file was produced.
func WriteOutput(r renderer.Renderer, img image.Image, path string) (written bool, err error) {
	data := r.Encode(img)
	if data == nil {
		logging.Logger().Warn("nothing to write, encoding produced no data", "output", path)
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write output %s: %w", path, err)
	}
	return true, nil
}
