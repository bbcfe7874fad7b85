package canvasrenderer

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// pixels per unit at 96 dpi
var lengthUnits = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
	"in": 96,
}

// documentSize returns the width and height attributes of the root svg
// element in pixels. A missing, relative or malformed attribute is reported
// as 0.
func documentSize(data []byte) (w, h float64) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return 0, 0
		}
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				w = parseLength(attr.Value)
			case "height":
				h = parseLength(attr.Value)
			}
		}
		return w, h
	}
}

func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 && (s[i-1] >= 'a' && s[i-1] <= 'z' || s[i-1] >= 'A' && s[i-1] <= 'Z') {
		i--
	}
	unit, ok := lengthUnits[strings.ToLower(s[i:])]
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v * unit
}

// targetSize picks the drawing size of a document: its own width and height
// when present, otherwise the viewBox. One missing side follows the viewBox
// aspect ratio.
func targetSize(w, h, vw, vh float64) (float64, float64) {
	switch {
	case w > 0 && h > 0:
		return w, h
	case w > 0 && vw > 0:
		return w, w * vh / vw
	case h > 0 && vh > 0:
		return h * vw / vh, h
	}
	return vw, vh
}
