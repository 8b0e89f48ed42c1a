// Package cover renders the 1200x630 social preview image for an application.
package cover

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width       = 1200
	Height      = 630
	JPEGQuality = 90

	shotLeft = 720
	shotTop  = 160
	shotBox  = 420

	textLeft      = 72
	titleTop      = 200
	titleSize     = 64
	subtitleSize  = 28
	textMaxWidth  = shotLeft - textLeft - 48
	titleMaxLines = 2
)

var (
	background    = color.NRGBA{R: 0x0b, G: 0x12, B: 0x20, A: 0xff}
	titleColor    = color.NRGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	subtitleColor = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// Input is everything drawn on a cover. Screenshot may be nil.
type Input struct {
	Title      string
	Subtitle   string
	Screenshot image.Image
}

// Composer draws covers. The zero value is ready to use.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose renders in and returns JPEG bytes.
func (Composer) Compose(in Input) ([]byte, error) {
	canvas := imaging.New(Width, Height, background)

	y := titleTop
	for _, line := range wrap(in.Title, charsPerLine(titleSize), titleMaxLines) {
		text := renderText(line, titleSize, titleColor)
		canvas = imaging.Overlay(canvas, text, image.Pt(textLeft, y), 1.0)
		y += text.Bounds().Dy() + 12
	}

	if sub := strings.TrimSpace(in.Subtitle); sub != "" {
		lines := wrap(sub, charsPerLine(subtitleSize), 1)
		text := renderText(lines[0], subtitleSize, subtitleColor)
		canvas = imaging.Overlay(canvas, text, image.Pt(textLeft, y+24), 1.0)
	}

	if in.Screenshot != nil {
		shot := imaging.Fit(in.Screenshot, shotBox, shotBox, imaging.Lanczos)
		canvas = imaging.Paste(canvas, shot, image.Pt(shotLeft, shotTop))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}

// renderText draws s with the 7x13 bitmap face and scales it so that the
// line height equals size pixels.
func renderText(s string, size int, c color.Color) *image.NRGBA {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	if w == 0 {
		w = 1
	}
	src := image.NewNRGBA(image.Rect(0, 0, w, face.Height))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	scale := float64(size) / float64(face.Height)
	return imaging.Resize(src, int(float64(w)*scale), size, imaging.NearestNeighbor)
}

func charsPerLine(size int) int {
	glyph := float64(basicfont.Face7x13.Advance) * float64(size) / float64(basicfont.Face7x13.Height)
	return int(float64(textMaxWidth) / glyph)
}

// wrap splits s on spaces into at most maxLines lines of at most width
// characters. Overflow is cut and marked with "...".
func wrap(s string, width, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, w := range words {
		for len(w) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, w[:width])
			w = w[width:]
		}
		switch {
		case current == "":
			current = w
		case len(current)+1+len(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if len(last)+3 > width {
			last = last[:width-3]
		}
		lines[maxLines-1] = last + "..."
	}
	return lines
}
