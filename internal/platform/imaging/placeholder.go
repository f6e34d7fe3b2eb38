package imaging

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	placeholderBackground = color.NRGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	placeholderBorder     = color.NRGBA{R: 0xBB, G: 0xBB, B: 0xBB, A: 0xFF}
	placeholderText       = color.NRGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xFF}
)

// Placeholders renders the grey "no image" tile used in catalogues.
type Placeholders struct {
	face font.Face
}

// NewPlaceholders uses the TTF at fontPath when given, else the built-in bitmap face.
func NewPlaceholders(fontPath string) (*Placeholders, error) {
	if strings.TrimSpace(fontPath) == "" {
		return &Placeholders{face: basicfont.Face7x13}, nil
	}
	face, err := LoadFontFace(fontPath, 28)
	if err != nil {
		return nil, err
	}
	return &Placeholders{face: face}, nil
}

func (p *Placeholders) PNG(size int, label string) ([]byte, error) {
	if size <= 0 {
		size = 300
	}
	if strings.TrimSpace(label) == "" {
		label = "No Image"
	}
	dc := gg.NewContext(size, size)

	dc.SetColor(placeholderBackground)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	dc.SetColor(placeholderBorder)
	dc.SetLineWidth(4)
	dc.DrawRectangle(2, 2, float64(size)-4, float64(size)-4)
	dc.Stroke()

	dc.SetFontFace(p.face)
	dc.SetColor(placeholderText)
	dc.DrawStringAnchored(label, float64(size)/2, float64(size)/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func LoadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
