// Package fonts registers typefaces under logical family names, the way a
// paragraph style refers to them.
package fonts

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/drawbench/logging"
)

// Provider maps logical family names to loaded font families.
type Provider struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
}

// NewProvider returns an empty provider.
func NewProvider() *Provider {
	return &Provider{families: map[string]*canvas.FontFamily{}}
}

// RegisterFile loads the font at path and registers it as alias.
func (p *Provider) RegisterFile(path, alias string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return p.Register(data, alias)
}

// Register loads font data (TTF/OTF/WOFF) as the regular style of alias.
// Registering the same alias again replaces the previous family.
func (p *Provider) Register(data []byte, alias string) error {
	if alias == "" {
		return fmt.Errorf("font alias is empty")
	}
	family := canvas.NewFontFamily(alias)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return fmt.Errorf("load font %s: %w", alias, err)
	}

	logging.Logger().Debug("typeface registered", "alias", alias, "family", NativeFamily(data), "bytes", len(data))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.families[alias] = family
	return nil
}

// Face returns a face of the registered family. size is in points.
func (p *Provider) Face(alias string, size float64, col color.Color) (*canvas.FontFace, error) {
	p.mu.Lock()
	family, ok := p.families[alias]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("font family %q is not registered", alias)
	}
	return family.Face(size, col, canvas.FontRegular, canvas.FontNormal), nil
}

// NativeFamily returns the family name stored in a TrueType font's name
// table, or "" when the data cannot be read as TrueType.
func NativeFamily(data []byte) string {
	f, err := truetype.Parse(data)
	if err != nil {
		return ""
	}
	return f.Name(truetype.NameIDFontFamily)
}
