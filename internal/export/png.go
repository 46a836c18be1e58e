package export

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/san-kum/knapviz/internal/grid"
)

// RenderPNG draws a grid snapshot with the faces of m at the snapshot's
// fitted font size.
func RenderPNG(snap grid.Snapshot, m *grid.FaceMeasurer, p Palette) image.Image {
	width, height := Size(snap.Layout)
	dc := gg.NewContext(max(1, int(math.Ceil(width))), max(1, int(math.Ceil(height))))

	dc.SetHexColor(p.Background)
	dc.Clear()

	if snap.FontSize > 0 {
		dc.SetFontFace(m.Face(snap.FontSize))
	}
	for _, c := range snap.Cells {
		x, y := cellOrigin(snap.Layout, c.Row, c.Column)
		bg, fg := p.fills(c)
		dc.SetHexColor(bg)
		dc.DrawRectangle(x, y, snap.CellSize, snap.CellSize)
		dc.Fill()

		if c.Written && snap.FontSize > 0 {
			half := snap.CellSize / 2
			dc.SetHexColor(fg)
			dc.DrawStringAnchored(c.Text, x+half, y+half, 0.5, 0.35)
		}
	}
	return dc.Image()
}

func SavePNG(path string, snap grid.Snapshot, m *grid.FaceMeasurer, p Palette) error {
	return gg.SavePNG(path, RenderPNG(snap, m, p))
}
