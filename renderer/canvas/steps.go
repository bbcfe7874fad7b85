package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/tdewolff/canvas"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/drawbench/fonts"
	"github.com/ByLCY/drawbench/logging"
	"github.com/ByLCY/drawbench/scene"
)

// Step draws one scene element. Apply brackets its drawing with Push/Pop so
// steps do not see each other's transforms or styles.
type Step interface {
	Kind() scene.Step
	Apply(s *Surface) error
}

// newStep builds the step of the given kind from the profile.
func newStep(kind scene.Step, p *scene.Profile) (Step, error) {
	switch kind {
	case scene.StepPath:
		return pathStep{spec: p.Path}, nil
	case scene.StepRaster:
		return rasterStep{spec: p.Raster}, nil
	case scene.StepText:
		return textStep{spec: p.Text}, nil
	case scene.StepSVG:
		return svgStep{spec: p.SVG}, nil
	default:
		return nil, fmt.Errorf("unknown step %v", kind)
	}
}

// place applies a placement to the current context state.
func place(ctx *canvas.Context, pl scene.Placement) {
	ctx.Translate(pl.Translate.X, pl.Translate.Y)
	ctx.Scale(pl.Scale, pl.Scale)
}

type pathStep struct {
	spec scene.PathSpec
}

func (pathStep) Kind() scene.Step { return scene.StepPath }

func (st pathStep) Apply(s *Surface) error {
	data, err := st.pathData(s)
	if err != nil {
		return err
	}
	p, err := canvas.ParseSVGPath(normalizePathData(data))
	if err != nil {
		return fmt.Errorf("parse path data: %w", err)
	}

	s.Ctx.Push()
	defer s.Ctx.Pop()
	place(s.Ctx, st.spec.Placement)
	s.Ctx.SetFillColor(st.spec.Fill)
	s.Ctx.SetStrokeColor(canvas.Transparent)
	s.Ctx.DrawPath(0, 0, p)
	return nil
}

func (st pathStep) pathData(s *Surface) (string, error) {
	if name, ok := strings.CutPrefix(st.spec.Source, scene.BuiltinPrefix); ok {
		data, ok := builtinPaths[name]
		if !ok {
			return "", fmt.Errorf("no built-in path %q", name)
		}
		return data, nil
	}
	path, err := s.Asset(st.spec.Source)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read path data %s: %w", path, err)
	}
	return string(data), nil
}

// normalizePathData collapses line breaks and indentation.
func normalizePathData(data string) string {
	return strings.Join(strings.Fields(data), " ")
}

type rasterStep struct {
	spec scene.RasterSpec
}

func (rasterStep) Kind() scene.Step { return scene.StepRaster }

func (st rasterStep) Apply(s *Surface) error {
	path, err := s.Asset(st.spec.Source)
	if err != nil {
		return err
	}
	img, err := decodeImage(path)
	if err != nil {
		return err
	}

	// img is drawn at one pixel per unit inside the placement; a filtered
	// image is resampled to its final device size first.
	resolution := canvas.DPMM(1.0)
	if st.spec.Filter == scene.FilterBilinear {
		src := img.Bounds().Dx()
		img = resampleMipmapped(img, st.spec.Placement.Scale*s.Scale)
		resolution = canvas.DPMM(float64(img.Bounds().Dx()) / float64(src))
	}

	s.Ctx.Push()
	defer s.Ctx.Pop()
	place(s.Ctx, st.spec.Placement)
	s.Ctx.DrawImage(0, 0, img, resolution)
	return nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode image %s: empty image", path)
	}
	logging.Logger().Debug("image decoded", "path", path, "format", format, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// resampleMipmapped scales img by factor with a bilinear filter. Large
// reductions first walk down a chain of half-size levels so the final
// bilinear pass never skips source pixels.
func resampleMipmapped(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	tw := max(1, int(math.Round(float64(b.Dx())*factor)))
	th := max(1, int(math.Round(float64(b.Dy())*factor)))

	level := img
	for lb := level.Bounds(); lb.Dx()/2 >= tw && lb.Dy()/2 >= th; lb = level.Bounds() {
		level = scaleBilinear(level, lb.Dx()/2, lb.Dy()/2)
	}
	if lb := level.Bounds(); lb.Dx() == tw && lb.Dy() == th {
		return level
	}
	return scaleBilinear(level, tw, th)
}

func scaleBilinear(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

type textStep struct {
	spec scene.TextSpec
}

func (textStep) Kind() scene.Step { return scene.StepText }

func (st textStep) Apply(s *Surface) error {
	path, err := s.Asset(st.spec.Font)
	if err != nil {
		return err
	}
	provider := fonts.NewProvider()
	if err := provider.RegisterFile(path, st.spec.Family); err != nil {
		return err
	}

	faces := make([]*canvas.FontFace, len(loremRuns))
	for i, run := range loremRuns {
		face, err := provider.Face(st.spec.Family, pxToPt(st.spec.Size), run.Color)
		if err != nil {
			return err
		}
		faces[i] = face
	}
	lines := wrapRuns(loremRuns, st.spec.Width, func(run int, text string) float64 {
		return faces[run].TextWidth(text)
	})

	s.Ctx.Push()
	defer s.Ctx.Pop()
	metrics := faces[0].Metrics()
	cursorY := st.spec.Origin.Y
	for _, line := range lines {
		baseline := cursorY + metrics.Ascent
		for _, seg := range line.Segments {
			if strings.TrimSpace(seg.Text) == "" {
				continue
			}
			textLine := canvas.NewTextLine(faces[seg.Run], seg.Text, canvas.Left)
			s.Ctx.DrawText(st.spec.Origin.X+seg.X, baseline, textLine)
		}
		cursorY += metrics.LineHeight
	}
	return nil
}

type svgStep struct {
	spec scene.SVGSpec
}

func (svgStep) Kind() scene.Step { return scene.StepSVG }

func (st svgStep) Apply(s *Surface) error {
	path, err := s.Asset(st.spec.Source)
	if err != nil {
		return err
	}
	img, err := renderSVG(path, st.spec.Placement.Scale*s.Scale)
	if err != nil {
		return err
	}

	// img already carries the placement scale and the surface scale
	s.Ctx.Push()
	defer s.Ctx.Pop()
	place(s.Ctx, st.spec.Placement)
	s.Ctx.DrawImage(0, 0, img, canvas.DPMM(st.spec.Placement.Scale*s.Scale))
	return nil
}

// renderSVG parses the document at path and rasterizes it at factor times
// its own width and height, mapping the viewBox onto that area.
func renderSVG(path string, factor float64) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read svg %s: %w", path, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg %s: %w", path, err)
	}
	dw, dh := documentSize(data)
	sw, sh := targetSize(dw, dh, icon.ViewBox.W, icon.ViewBox.H)
	if sw <= 0 || sh <= 0 {
		return nil, fmt.Errorf("parse svg %s: document has no size", path)
	}

	tw, th := sw*factor, sh*factor
	w, h := max(1, int(math.Ceil(tw))), max(1, int(math.Ceil(th)))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, tw, th)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	logging.Logger().Debug("svg rendered", "path", path, "width", w, "height", h)
	return img, nil
}
