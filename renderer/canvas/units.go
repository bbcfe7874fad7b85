package canvasrenderer

import "github.com/tdewolff/canvas"

// The surface is built in canvas millimetres and rasterized at one dot per
// millimetre, so one canvas unit is one output pixel.
var surfaceResolution = canvas.DPMM(1.0)

// Conversion constants between pt and canvas units (mm).
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// pxToPt converts a pixel size on the surface to the point size canvas font
// faces expect.
func pxToPt(px float64) float64 { return px * MmToPt }
