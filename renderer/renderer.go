package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/ByLCY/drawbench/scene"
)

// Job is one compose request: a fresh surface of Profile.Size*Scale pixels
// per side with the selected steps drawn on it.
type Job struct {
	Dir     string
	Scale   int
	Steps   []scene.Step
	Profile *scene.Profile
}

// Renderer composes a scene and encodes the result.
// Render returns the finished surface; Encode returns nil when the surface
// could not be encoded.
type Renderer interface {
	Render(ctx context.Context, job Job) (image.Image, error)
	Encode(img image.Image) []byte
}

// AssetError reports a required input file that does not exist.
type AssetError struct {
	Path string
}

func (e *AssetError) Error() string { return fmt.Sprintf("File not found: %s", e.Path) }
