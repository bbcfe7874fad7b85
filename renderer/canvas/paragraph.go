package canvasrenderer

import (
	"image/color"
	"math"
	"strings"
	"unicode"
)

// Run is a span of paragraph text drawn in a single color.
type Run struct {
	Text  string
	Color color.RGBA
}

// loremRuns is the fixed paragraph body: one clause per color.
var loremRuns = []Run{
	{Text: "Lorem ipsum dolor sit amet, consectetur adipiscing elit, ", Color: color.RGBA{A: 255}},
	{Text: "sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. ", Color: color.RGBA{R: 255, A: 255}},
	{Text: "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut ", Color: color.RGBA{G: 255, A: 255}},
	{Text: "aliquip ex ea commodo consequat. Duis aute irure dolor in reprehenderit in ", Color: color.RGBA{B: 255, A: 255}},
	{Text: "voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint ", Color: color.RGBA{R: 255, G: 255, A: 255}},
	{Text: "occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.\n", Color: color.RGBA{G: 255, B: 255, A: 255}},
}

// Segment is the part of one run that lands on a line. X is the offset from
// the line start.
type Segment struct {
	Run   int
	Text  string
	X     float64
	Width float64
}

// Line is a laid-out paragraph line.
type Line struct {
	Segments []Segment
	Width    float64
}

// Text concatenates the segment texts.
func (l Line) Text() string {
	var sb strings.Builder
	for _, seg := range l.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// measureFunc returns the advance width of s set in the face of run.
type measureFunc func(run int, s string) float64

type token struct {
	run  int
	text string
}

// wrapRuns breaks styled runs into lines no wider than limit: greedy at
// whitespace, splitting words that are wider than a whole line, honoring
// explicit newlines. Whitespace that caused a soft wrap is dropped.
func wrapRuns(runs []Run, limit float64, measure measureFunc) []Line {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var tokens []token
	for i, r := range runs {
		for _, t := range tokenizeContent(r.Text) {
			tokens = append(tokens, token{run: i, text: t})
		}
	}

	var (
		lines       []Line
		current     Line
		softWrapped bool
	)
	emit := func(force bool) {
		softWrapped = !force
		if len(current.Segments) == 0 {
			if force {
				lines = append(lines, Line{})
			}
			return
		}
		lines = append(lines, current)
		current = Line{}
	}
	appendToken := func(tok token, width float64) {
		if n := len(current.Segments); n > 0 && current.Segments[n-1].Run == tok.run {
			current.Segments[n-1].Text += tok.text
			current.Segments[n-1].Width += width
		} else {
			current.Segments = append(current.Segments, Segment{Run: tok.run, Text: tok.text, X: current.Width, Width: width})
		}
		current.Width += width
	}

	for _, tok := range tokens {
		if tok.text == "\n" {
			emit(true)
			continue
		}
		if isSpaceToken(tok.text) && len(current.Segments) == 0 && softWrapped {
			continue
		}

		tokenWidth := measure(tok.run, tok.text)
		if current.Width > 0 && current.Width+tokenWidth > limit {
			emit(false)
			if isSpaceToken(tok.text) {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(tok, tokenWidth)
			if current.Width > limit {
				emit(false)
			}
			continue
		}

		run := tok.run
		for _, chunk := range splitTokenByWidth(tok.text, limit, func(s string) float64 { return measure(run, s) }) {
			chunkWidth := measure(run, chunk)
			if current.Width > 0 && current.Width+chunkWidth > limit {
				emit(false)
			}
			appendToken(token{run: run, text: chunk}, chunkWidth)
			if current.Width > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

func isSpaceToken(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}

// tokenizeContent splits s into alternating word and whitespace tokens, with
// every newline as its own token.
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, width func(string) float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var runes []rune
	for _, r := range token {
		runes = append(runes, r)
		if len(runes) > 1 && width(string(runes)) > limit {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = append(runes[:0], r)
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
