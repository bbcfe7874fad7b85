package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Step identifies one of the independent draw steps of a scene.
type Step int

const (
	StepPath Step = iota
	StepRaster
	StepText
	StepSVG
)

// AllSteps lists every step in draw order.
var AllSteps = []Step{StepPath, StepRaster, StepText, StepSVG}

func (s Step) String() string {
	switch s {
	case StepPath:
		return "path"
	case StepRaster:
		return "raster"
	case StepText:
		return "text"
	case StepSVG:
		return "svg"
	default:
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText lets steps appear by name in the debug plan.
func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Filter selects how raster images are resampled.
type Filter string

const (
	FilterNone     Filter = "none"
	FilterBilinear Filter = "bilinear"
)

// BuiltinPrefix marks a source that is compiled into the binary instead of
// being read from the working directory.
const BuiltinPrefix = "builtin:"

// Point is a position in base canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is a translate followed by a uniform scale.
type Placement struct {
	Translate Point   `json:"translate"`
	Scale     float64 `json:"scale"`
}

// Profile is a fully resolved scene description.
type Profile struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	Size       float64    `json:"size"`
	Background color.RGBA `json:"background"`

	OutputName string `json:"outputName"`
	Save       bool   `json:"save"`

	Path   PathSpec   `json:"path"`
	Raster RasterSpec `json:"raster"`
	Text   TextSpec   `json:"text"`
	SVG    SVGSpec    `json:"svg"`
}

type PathSpec struct {
	Source    string     `json:"source"`
	Placement Placement  `json:"placement"`
	Fill      color.RGBA `json:"fill"`
}

type RasterSpec struct {
	Source    string    `json:"source"`
	Placement Placement `json:"placement"`
	Filter    Filter    `json:"filter"`
}

type TextSpec struct {
	Font   string  `json:"font"`
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Width  float64 `json:"width"`
	Origin Point   `json:"origin"`
}

type SVGSpec struct {
	Source    string    `json:"source"`
	Placement Placement `json:"placement"`
}

// Defaults returns the values every scene starts from before its own
// assignments are applied.
func Defaults() Profile {
	return Profile{
		Size:       2048,
		Background: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		OutputName: "output.png",
		Path: PathSpec{
			Source:    "path.txt",
			Placement: Placement{Translate: Point{X: 50, Y: 50}, Scale: 1.8},
			Fill:      color.RGBA{A: 0xFF},
		},
		Raster: RasterSpec{
			Source:    "mars.jpg",
			Placement: Placement{Translate: Point{X: 1000, Y: 0}, Scale: 0.2},
			Filter:    FilterBilinear,
		},
		Text: TextSpec{
			Font:   "Adigiana_Ultra.ttf",
			Family: "Adigiana",
			Size:   60,
			Width:  900,
			Origin: Point{X: 100, Y: 1100},
		},
		SVG: SVGSpec{
			Source:    "pinocchio.svg",
			Placement: Placement{Translate: Point{X: 1400, Y: 1100}, Scale: 0.9},
		},
	}
}

// Compile resolves a parsed document into a Profile.
func Compile(doc *Document) (*Profile, error) {
	if doc == nil {
		return nil, fmt.Errorf("scene document is empty")
	}
	p := Defaults()
	p.Name = doc.Name
	p.Version = doc.Version

	for _, sec := range doc.Sections {
		var err error
		switch sec.Kind {
		case "canvas":
			err = applyCanvas(&p, sec)
		case "output":
			err = applyOutput(&p, sec)
		case "path":
			err = applyPath(&p.Path, sec)
		case "raster":
			err = applyRaster(&p.Raster, sec)
		case "text":
			err = applyText(&p.Text, sec)
		case "svg":
			err = applySVG(&p.SVG, sec)
		default:
			err = fmt.Errorf("%s: unknown section %q", sec.Pos, sec.Kind)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("scene %s: canvas size must be positive, got %g", p.Name, p.Size)
	}
	if strings.TrimSpace(p.OutputName) == "" {
		return fmt.Errorf("scene %s: output name is empty", p.Name)
	}
	for name, s := range map[string]float64{
		"path":   p.Path.Placement.Scale,
		"raster": p.Raster.Placement.Scale,
		"svg":    p.SVG.Placement.Scale,
	} {
		if s <= 0 {
			return fmt.Errorf("scene %s: %s scale must be positive, got %g", p.Name, name, s)
		}
	}
	if p.Text.Size <= 0 || p.Text.Width <= 0 {
		return fmt.Errorf("scene %s: text size and width must be positive", p.Name)
	}
	return nil
}

func applyCanvas(p *Profile, sec *Section) error {
	return eachEntry(sec, func(a *Assignment) error {
		switch a.Key {
		case "size":
			return numberInto(a, &p.Size)
		case "background":
			return colorInto(a, &p.Background)
		}
		return unknownKey(sec, a)
	})
}

func applyOutput(p *Profile, sec *Section) error {
	return eachEntry(sec, func(a *Assignment) error {
		switch a.Key {
		case "name":
			return stringInto(a, &p.OutputName)
		case "save":
			return boolInto(a, &p.Save)
		}
		return unknownKey(sec, a)
	})
}

func applyPath(s *PathSpec, sec *Section) error {
	return eachEntry(sec, func(a *Assignment) error {
		switch a.Key {
		case "source":
			return stringInto(a, &s.Source)
		case "fill":
			return colorInto(a, &s.Fill)
		}
		if ok, err := placementEntry(a, &s.Placement); ok {
			return err
		}
		return unknownKey(sec, a)
	})
}

func applyRaster(s *RasterSpec, sec *Section) error {
	return eachEntry(sec, func(a *Assignment) error {
		switch a.Key {
		case "source":
			return stringInto(a, &s.Source)
		case "filter":
			var name string
			if err := identInto(a, &name); err != nil {
				return err
			}
			switch Filter(name) {
			case FilterNone, FilterBilinear:
				s.Filter = Filter(name)
				return nil
			}
			return fmt.Errorf("%s: unknown raster filter %q", a.Pos, name)
		}
		if ok, err := placementEntry(a, &s.Placement); ok {
			return err
		}
		return unknownKey(sec, a)
	})
}

func applyText(s *TextSpec, sec *Section) error {
	return eachEntry(sec, func(a *Assignment) error {
		switch a.Key {
		case "font":
			return stringInto(a, &s.Font)
		case "family":
			return stringInto(a, &s.Family)
		case "size":
			return numberInto(a, &s.Size)
		case "width":
			return numberInto(a, &s.Width)
		case "origin":
			return pointInto(a, &s.Origin)
		}
		return unknownKey(sec, a)
	})
}

func applySVG(s *SVGSpec, sec *Section) error {
	return eachEntry(sec, func(a *Assignment) error {
		if a.Key == "source" {
			return stringInto(a, &s.Source)
		}
		if ok, err := placementEntry(a, &s.Placement); ok {
			return err
		}
		return unknownKey(sec, a)
	})
}

func eachEntry(sec *Section, fn func(*Assignment) error) error {
	if sec.Block == nil {
		return nil
	}
	for _, a := range sec.Block.Entries {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

// placementEntry handles the translate/scale keys shared by several sections.
func placementEntry(a *Assignment, pl *Placement) (bool, error) {
	switch a.Key {
	case "translate":
		return true, pointInto(a, &pl.Translate)
	case "scale":
		return true, numberInto(a, &pl.Scale)
	}
	return false, nil
}

func unknownKey(sec *Section, a *Assignment) error {
	return fmt.Errorf("%s: unknown key %q in %s section", a.Pos, a.Key, sec.Kind)
}

func kindError(a *Assignment, want string) error {
	return fmt.Errorf("%s: %s expects %s, got %s", a.Pos, a.Key, want, a.Value.Kind())
}

func numberValue(v *Value) (float64, bool) {
	if v == nil || v.Number == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(*v.Number, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func numberInto(a *Assignment, dst *float64) error {
	f, ok := numberValue(a.Value)
	if !ok {
		return kindError(a, "number")
	}
	*dst = f
	return nil
}

func pointInto(a *Assignment, dst *Point) error {
	if a.Value == nil || a.Value.Array == nil || len(a.Value.Array.Values) != 2 {
		return kindError(a, "[x, y]")
	}
	x, okX := numberValue(a.Value.Array.Values[0])
	y, okY := numberValue(a.Value.Array.Values[1])
	if !okX || !okY {
		return kindError(a, "[x, y]")
	}
	*dst = Point{X: x, Y: y}
	return nil
}

func stringInto(a *Assignment, dst *string) error {
	if a.Value == nil || a.Value.String == nil {
		return kindError(a, "string")
	}
	*dst = string(*a.Value.String)
	return nil
}

func identInto(a *Assignment, dst *string) error {
	if a.Value == nil || a.Value.Ident == nil {
		return kindError(a, "identifier")
	}
	*dst = *a.Value.Ident
	return nil
}

func boolInto(a *Assignment, dst *bool) error {
	var id string
	if err := identInto(a, &id); err != nil {
		return kindError(a, "true or false")
	}
	switch id {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return kindError(a, "true or false")
	}
	return nil
}

func colorInto(a *Assignment, dst *color.RGBA) error {
	if a.Value == nil || a.Value.Color == nil {
		return kindError(a, "color")
	}
	c, err := ParseHexColor(*a.Value.Color)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Pos, err)
	}
	*dst = c
	return nil
}

// ParseHexColor parses #RGB, #RRGGBB and #RRGGBBAA. The alpha digits are
// straight alpha; the result is premultiplied like every color.RGBA.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	straight := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(straight).(color.RGBA), nil
}
