package grid

import (
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// MonoMeasurer approximates a monospace face: every display column advances
// Advance em and a line is LineHeight em tall.
type MonoMeasurer struct {
	Advance    float64
	LineHeight float64
}

// DefaultMeasurer matches Go Mono's advance (0.6 em) with line-height 1.
var DefaultMeasurer = MonoMeasurer{Advance: 0.6, LineHeight: 1}

func (m MonoMeasurer) Overflows(text string, fontSize, box float64) bool {
	w := float64(runewidth.StringWidth(text)) * m.Advance * fontSize
	h := m.LineHeight * fontSize
	return w > box || h > box
}

// FaceMeasurer measures text with real glyph metrics of a TrueType font.
type FaceMeasurer struct {
	font       *truetype.Font
	lineHeight float64

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFaceMeasurer parses ttf, or the embedded Go Mono face when ttf is nil.
func NewFaceMeasurer(ttf []byte) (*FaceMeasurer, error) {
	if ttf == nil {
		ttf = gomono.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("grid: failed to parse font: %w", err)
	}
	return &FaceMeasurer{
		font:       f,
		lineHeight: 1,
		faces:      make(map[float64]font.Face),
	}, nil
}

// Face returns a cached face of the given pixel size (72 DPI).
func (m *FaceMeasurer) Face(size float64) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(m.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m.faces[size] = f
	return f
}

func (m *FaceMeasurer) Overflows(text string, fontSize, box float64) bool {
	if fontSize <= 0 {
		return false
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(m.Face(fontSize))
	w, _ := dc.MeasureString(text)
	return w > box || fontSize*m.lineHeight > box
}
