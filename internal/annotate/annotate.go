// Package annotate stamps the ayah locator onto the daily picture.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// inkColor matches the template artwork.
var inkColor = color.RGBA{R: 0x02, G: 0x0a, B: 0x00, A: 0xff}

const fontSize = 40

// Stamper renders a surah:ayah locator onto the ayah template image.
type Stamper struct {
	face font.Face
}

// New loads the TTF used for stamping.
func New(fontPath string) (*Stamper, error) {
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("annotate: read font: %w", err)
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("annotate: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("annotate: build face: %w", err)
	}
	return &Stamper{face: face}, nil
}

// Stamp reads the template at basePath, draws the locator onto it and
// writes the result to outPath. A multi-verse locator like "3:7, 8" is
// reduced to its first verse; the dotted mark above hints at the rest.
func (s *Stamper) Stamp(basePath, outPath, locator string) error {
	surah, ayah, ok := strings.Cut(locator, ":")
	if !ok {
		return fmt.Errorf("annotate: malformed locator %q", locator)
	}
	ayah, _, _ = strings.Cut(strings.TrimSpace(ayah), ", ")

	in, err := os.Open(basePath)
	if err != nil {
		return fmt.Errorf("annotate: open template: %w", err)
	}
	src, err := png.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("annotate: decode template: %w", err)
	}

	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	s.drawCentered(canvas, 110, 110, []string{strings.TrimSpace(surah), ayah})
	s.drawCentered(canvas, 110, 98, []string{".."})

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("annotate: create output: %w", err)
	}
	if err := png.Encode(out, canvas); err != nil {
		out.Close()
		return fmt.Errorf("annotate: encode output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("annotate: close output: %w", err)
	}
	return nil
}

// drawCentered draws the lines as a block whose center sits at (cx, cy).
func (s *Stamper) drawCentered(dst draw.Image, cx, cy int, lines []string) {
	metrics := s.face.Metrics()
	lineHeight := metrics.Height
	blockHeight := lineHeight.Mul(fixed.I(len(lines)))

	// Baseline of the first line: block top plus ascent.
	y := fixed.I(cy) - blockHeight/2 + metrics.Ascent
	for _, line := range lines {
		width := font.MeasureString(s.face, line)
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(inkColor),
			Face: s.face,
			Dot:  fixed.Point26_6{X: fixed.I(cx) - width/2, Y: y},
		}
		d.DrawString(line)
		y += lineHeight
	}
}
