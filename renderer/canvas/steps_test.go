package canvasrenderer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/drawbench/renderer"
	"github.com/ByLCY/drawbench/scene"
)

func TestResampleMipmapped(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	for y := 0; y < 500; y++ {
		for x := 0; x < 1000; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	for _, tc := range []struct {
		factor float64
		w, h   int
	}{
		{0.2, 200, 100},
		{0.03, 30, 15},
		{0.5, 500, 250},
		{2, 2000, 1000},
		{0.0001, 1, 1},
	} {
		out := resampleMipmapped(src, tc.factor)
		if b := out.Bounds(); b.Dx() != tc.w || b.Dy() != tc.h {
			t.Fatalf("factor %g: got %v want %dx%d", tc.factor, b, tc.w, tc.h)
		}
		c := color.RGBAModel.Convert(out.At(out.Bounds().Dx()/2, out.Bounds().Dy()/2)).(color.RGBA)
		if c.R != 200 || c.G != 100 || c.B != 50 {
			t.Fatalf("factor %g: uniform colour changed to %+v", tc.factor, c)
		}
	}
}

func TestNormalizePathData(t *testing.T) {
	got := normalizePathData("M0,0\n\tL10,0 \r\n  z\n")
	if got != "M0,0 L10,0 z" {
		t.Fatalf("unexpected normalized data %q", got)
	}
	if _, err := canvas.ParseSVGPath(normalizePathData(globePath)); err != nil {
		t.Fatalf("built-in globe does not parse: %v", err)
	}
}

func TestPathStepUnknownBuiltin(t *testing.T) {
	st := pathStep{spec: scene.PathSpec{Source: "builtin:nope", Placement: scene.Placement{Scale: 1}}}
	s := NewSurface(10, 1, color.White, t.TempDir())
	if err := st.Apply(s); err == nil {
		t.Fatalf("expected error for unknown built-in path")
	}
}

func TestSurfaceAsset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewSurface(10, 1, color.White, dir)

	got, err := s.Asset("a.txt")
	if err != nil || got != filepath.Join(dir, "a.txt") {
		t.Fatalf("unexpected result %q, %v", got, err)
	}
	abs := filepath.Join(dir, "a.txt")
	if got, err := s.Asset(abs); err != nil || got != abs {
		t.Fatalf("absolute path: %q, %v", got, err)
	}

	_, err = s.Asset("b.txt")
	var ae *renderer.AssetError
	if !errors.As(err, &ae) || ae.Path != filepath.Join(dir, "b.txt") {
		t.Fatalf("expected AssetError for b.txt, got %v", err)
	}
}

func TestRenderSVGSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.svg")
	if err := os.WriteFile(path, []byte(testSVG), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := renderSVG(path, 0.5)
	if err != nil {
		t.Fatalf("render svg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("expected 100x100, got %v", b)
	}
	if countPixels(img, isBlue) < 90*90 {
		t.Fatalf("svg rect not rendered")
	}
}

func TestPxToPt(t *testing.T) {
	if got := pxToPt(60) * PtToMm; math.Abs(got-60) > 1e-9 {
		t.Fatalf("px→pt→px round trip: %g", got)
	}
}

func TestNewStepKinds(t *testing.T) {
	p := scene.Defaults()
	for _, kind := range scene.AllSteps {
		st, err := newStep(kind, &p)
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		if st.Kind() != kind {
			t.Fatalf("step kind mismatch: %v vs %v", st.Kind(), kind)
		}
	}
	if _, err := newStep(scene.Step(42), &p); err == nil {
		t.Fatalf("expected error for unknown step")
	}
}
