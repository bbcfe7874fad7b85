package canvasrenderer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/drawbench/logging"
	"github.com/ByLCY/drawbench/renderer"
)

// Renderer composes scenes with github.com/tdewolff/canvas.
type Renderer struct {
	encoder png.Encoder
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a canvas-based renderer.
func NewRenderer() *Renderer {
	return &Renderer{encoder: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

// Surface is the drawing target of one iteration. Coordinates are in base
// canvas units with the origin at the top-left; the context already carries
// the uniform surface scale.
type Surface struct {
	Canvas *canvas.Canvas
	Ctx    *canvas.Context
	Dir    string
	Scale  float64
}

// NewSurface allocates a size*scale square surface filled with bg.
func NewSurface(size float64, scale int, bg color.Color, dir string) *Surface {
	side := size * float64(scale)
	c := canvas.New(side, side)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(bg)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(side, side))

	ctx.Scale(float64(scale), float64(scale))
	return &Surface{Canvas: c, Ctx: ctx, Dir: dir, Scale: float64(scale)}
}

// Asset resolves name inside the working directory and checks that it
// exists.
func (s *Surface) Asset(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", &renderer.AssetError{Path: path}
	}
	return path, nil
}

// Render draws the selected steps of job.Profile on a fresh surface and
// returns its pixels.
func (r *Renderer) Render(ctx context.Context, job renderer.Job) (image.Image, error) {
	if job.Profile == nil {
		return nil, fmt.Errorf("render job has no scene profile")
	}
	if job.Scale < 1 {
		return nil, fmt.Errorf("render scale must be at least 1, got %d", job.Scale)
	}

	steps := make([]Step, 0, len(job.Steps))
	for _, kind := range job.Steps {
		st, err := newStep(kind, job.Profile)
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}

	surface := NewSurface(job.Profile.Size, job.Scale, job.Profile.Background, job.Dir)
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := st.Apply(surface); err != nil {
			return nil, fmt.Errorf("%s step: %w", st.Kind(), err)
		}
		logging.Logger().Debug("step drawn", "step", st.Kind().String())
	}
	return rasterizer.Draw(surface.Canvas, surfaceResolution, canvas.DefaultColorSpace), nil
}

// Encode returns the PNG encoding of img, or nil if it cannot be encoded.
func (r *Renderer) Encode(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := r.encoder.Encode(&buf, img); err != nil {
		logging.Logger().Warn("png encode failed", "error", err)
		return nil
	}
	return buf.Bytes()
}
