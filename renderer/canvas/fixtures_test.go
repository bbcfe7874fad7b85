package canvasrenderer

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/drawbench/scene"
)

// testScene keeps every element symmetric around the canvas centre (200,200)
// and small enough to render quickly.
const testScene = `
scene test v1 {
  canvas { size: 400; background: #FFFFFF }
  output { name: "out.png" }
  path   { source: "path.txt"; translate: [150, 150]; scale: 1; fill: #000000 }
  raster { source: "mars.jpg"; translate: [100, 100]; scale: 0.5; filter: bilinear }
  text   { font: "Adigiana_Ultra.ttf"; family: "Adigiana"; size: 20; width: 360; origin: [20, 20] }
  svg    { source: "pinocchio.svg"; translate: [150, 150]; scale: 0.5 }
}
`

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 200 200">
  <rect x="0" y="0" width="200" height="200" fill="#0000ff"/>
</svg>`

func mustScene(t testing.TB, src string) *scene.Profile {
	t.Helper()
	doc, err := scene.ParseString("test.scene", src)
	if err != nil {
		t.Fatalf("parse scene: %v", err)
	}
	p, err := scene.Compile(doc)
	if err != nil {
		t.Fatalf("compile scene: %v", err)
	}
	return p
}

// writeAssets creates every input file the test scene needs in dir.
func writeAssets(t testing.TB, dir string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "mars.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	files := map[string][]byte{
		"Adigiana_Ultra.ttf": goregular.TTF,
		"pinocchio.svg":      []byte(testSVG),
		"path.txt":           []byte("M0,0 L100,0\n\tL100,100 L0,100 z\n"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func countPixels(img image.Image, match func(r, g, b uint8) bool) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if match(c.R, c.G, c.B) {
				n++
			}
		}
	}
	return n
}

func isWhite(r, g, b uint8) bool { return r == 255 && g == 255 && b == 255 }
func isDark(r, g, b uint8) bool  { return r < 40 && g < 40 && b < 40 }
func isRed(r, g, b uint8) bool   { return r > 200 && g < 80 && b < 80 }
func isBlue(r, g, b uint8) bool  { return b > 200 && r < 80 && g < 80 }
