package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed profiles/*.scene
var profileFS embed.FS

// DefaultProfile is the built-in profile used when neither --profile nor
// --scene is given.
const DefaultProfile = "classic"

// Builtin loads an embedded profile by name, e.g. "file" or "classic".
func Builtin(name string) (*Profile, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".scene")
	target := path.Join("profiles", name+".scene")
	data, err := profileFS.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	doc, err := ParseString(target, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse built-in profile %s: %w", name, err)
	}
	return Compile(doc)
}

// BuiltinNames lists the embedded profile names in sorted order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(profileFS, "profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".scene"))
	}
	sort.Strings(names)
	return names
}

// Load reads and compiles a scene description from disk.
func Load(filename string) (*Profile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open scene %s: %w", filename, err)
	}
	defer file.Close()

	doc, err := Parse(filename, file)
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", filename, err)
	}
	return Compile(doc)
}
