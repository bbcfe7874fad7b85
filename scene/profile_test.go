package scene_test

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/drawbench/scene"
)

func TestBuiltinProfiles(t *testing.T) {
	file, err := scene.Builtin("file")
	if err != nil {
		t.Fatalf("load file profile: %v", err)
	}
	if file.OutputName != "output.png" || file.Save {
		t.Fatalf("file profile should write output.png on request only, got %q save=%v", file.OutputName, file.Save)
	}
	if file.Path.Source != "path.txt" || file.Raster.Filter != scene.FilterBilinear {
		t.Fatalf("unexpected file profile sources: %+v %+v", file.Path, file.Raster)
	}

	classic, err := scene.Builtin("classic")
	if err != nil {
		t.Fatalf("load classic profile: %v", err)
	}
	if classic.OutputName != "output-java.png" || !classic.Save {
		t.Fatalf("classic profile should always write output-java.png, got %q save=%v", classic.OutputName, classic.Save)
	}
	if !strings.HasPrefix(classic.Path.Source, scene.BuiltinPrefix) {
		t.Fatalf("classic profile should use the built-in outline, got %q", classic.Path.Source)
	}
	if classic.Raster.Filter != scene.FilterNone {
		t.Fatalf("classic profile should not filter, got %q", classic.Raster.Filter)
	}
	if classic.Background != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("classic background should be opaque white, got %+v", classic.Background)
	}
	if classic.Path.Placement.Scale != 1.8 || classic.SVG.Placement.Translate != (scene.Point{X: 1400, Y: 1100}) {
		t.Fatalf("unexpected placements: %+v %+v", classic.Path.Placement, classic.SVG.Placement)
	}
}

func TestDefaultProfileSavesWithoutExtraAssets(t *testing.T) {
	p, err := scene.Builtin(scene.DefaultProfile)
	if err != nil {
		t.Fatalf("load default profile: %v", err)
	}
	if !p.Save {
		t.Fatalf("default profile must write its output without --save")
	}
	if !strings.HasPrefix(p.Path.Source, scene.BuiltinPrefix) {
		t.Fatalf("default profile should not need a path file, got %q", p.Path.Source)
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := scene.Builtin("nope")
	if err == nil {
		t.Fatalf("expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), "classic") || !strings.Contains(err.Error(), "file") {
		t.Fatalf("error should list available profiles, got %v", err)
	}
}

func TestCompileAppliesOverridesOnDefaults(t *testing.T) {
	doc, err := scene.ParseString("sample.scene", sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	p, err := scene.Compile(doc)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if p.Size != 256 {
		t.Fatalf("expected size 256, got %g", p.Size)
	}
	if p.Background != (color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}) {
		t.Fatalf("unexpected background %+v", p.Background)
	}
	want := scene.Placement{Translate: scene.Point{X: -10, Y: 20.5}, Scale: 2}
	if p.Path.Placement != want {
		t.Fatalf("path placement: got %+v want %+v", p.Path.Placement, want)
	}
	if p.Raster.Filter != scene.FilterNone {
		t.Fatalf("expected raster filter none, got %q", p.Raster.Filter)
	}
	// untouched sections keep their defaults
	if p.Text != scene.Defaults().Text {
		t.Fatalf("text section should keep defaults, got %+v", p.Text)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown section": `scene x v1 { lights { on: true } }`,
		"unknown key":     `scene x v1 { path { colour: #000 } }`,
		"wrong kind":      `scene x v1 { canvas { size: "big" } }`,
		"short point":     `scene x v1 { svg { translate: [1] } }`,
		"bad filter":      `scene x v1 { raster { filter: lanczos } }`,
		"bad bool":        `scene x v1 { output { save: maybe } }`,
		"zero scale":      `scene x v1 { svg { scale: 0 } }`,
		"empty output":    `scene x v1 { output { name: "" } }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := scene.ParseString("x.scene", src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if _, err := scene.Compile(doc); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#000":      {A: 0xff},
		"#FF0000":   {R: 0xff, A: 0xff},
		"#00ff0080": {G: 0x80, A: 0x80},
		"#FFFFFF00": {},
		"#80402080": {R: 0x40, G: 0x20, B: 0x10, A: 0x80},
	}
	for in, want := range cases {
		got, err := scene.ParseHexColor(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: got %+v want %+v", in, got, want)
		}
		if got.R > got.A || got.G > got.A || got.B > got.A {
			t.Fatalf("%s: %+v is not premultiplied", in, got)
		}
	}
	if _, err := scene.ParseHexColor("#12345"); err == nil {
		t.Fatalf("expected error for 5-digit color")
	}
}

func TestLoadAndWriteDebugJSON(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "custom.scene")
	if err := os.WriteFile(src, []byte("scene custom v1 {\n  output { name: \"custom.png\" }\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := scene.Load(src)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.OutputName != "custom.png" {
		t.Fatalf("unexpected output name %q", p.OutputName)
	}

	out := filepath.Join(dir, "plan.json")
	plan := &scene.Plan{Dir: dir, Loop: 2, Scale: 1, Steps: []scene.Step{scene.StepPath, scene.StepSVG}, Output: "custom.png", Profile: p}
	if err := scene.WriteDebugJSON(plan, out); err != nil {
		t.Fatalf("write debug: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Steps []string `json:"steps"`
		Loop  int      `json:"loop"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("plan is not valid JSON: %v", err)
	}
	if decoded.Loop != 2 || len(decoded.Steps) != 2 || decoded.Steps[0] != "path" || decoded.Steps[1] != "svg" {
		t.Fatalf("unexpected plan contents: %s", data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := scene.Load(filepath.Join(t.TempDir(), "missing.scene")); err == nil {
		t.Fatalf("expected error for missing scene file")
	}
}
