package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

func boardGrid(t *testing.T, columns, lines int) *grid.Grid {
	t.Helper()
	g, err := grid.New(3, 4, "visualisation.css",
		grid.WithGap(TerminalGap), grid.WithMeasurer(TerminalMeasurer))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Attach(grid.NewViewport(ViewportSize(columns, lines))); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Detach)
	return g
}

func TestViewportSize(t *testing.T) {
	w, h := ViewportSize(80, 20)
	if w != 80 || h != 40 {
		t.Errorf("expected 80x40, got %vx%v", w, h)
	}
	w, h = ViewportSize(-3, -1)
	if w != 0 || h != 0 {
		t.Errorf("negative sizes should clamp, got %vx%v", w, h)
	}
}

func TestCellBox(t *testing.T) {
	tests := []struct {
		size float64
		w, h int
	}{
		{10.7, 10, 5},
		{1.5, 1, 1},
		{0, 1, 1},
	}
	for _, tt := range tests {
		w, h := CellBox(grid.Layout{CellSize: tt.size})
		if w != tt.w || h != tt.h {
			t.Errorf("CellBox(%v) = %dx%d, want %dx%d", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestRenderBoardShowsText(t *testing.T) {
	g := boardGrid(t, 43, 12)
	if err := g.SetText(1, 2, 42); err != nil {
		t.Fatal(err)
	}
	out := RenderBoard(g.Snapshot(), ThemeMinimal)

	if !strings.Contains(out, "42") {
		t.Error("board should contain the written value")
	}
	if !strings.Contains(out, "·") {
		t.Error("unwritten cells should render a placeholder")
	}
	w, h := CellBox(g.Snapshot().Layout)
	if got := lipgloss.Width(out); got != 4*w+3 {
		t.Errorf("expected width %d, got %d", 4*w+3, got)
	}
	if got := lipgloss.Height(out); got != 3*h {
		t.Errorf("expected height %d, got %d", 3*h, got)
	}
}

func TestRenderBoardTruncatesWideText(t *testing.T) {
	g := boardGrid(t, 15, 12)
	if err := g.SetText(0, 0, 123456789); err != nil {
		t.Fatal(err)
	}
	snap := g.Snapshot()
	if snap.FontSize >= 1 {
		t.Fatalf("text should not fit, font size %v", snap.FontSize)
	}
	out := RenderBoard(snap, ThemeMinimal)
	if strings.Contains(out, "123456789") {
		t.Error("wide text should be truncated")
	}
	if !strings.Contains(out, "…") {
		t.Error("truncation should be marked")
	}
}

func TestRenderBoardEmpty(t *testing.T) {
	if RenderBoard(grid.Snapshot{}, ThemeMinimal) != "" {
		t.Error("empty snapshot should render nothing")
	}
}

func TestCellClassesPickStyles(t *testing.T) {
	styles := ThemeCyberpunk.CellStyles()
	cell := grid.Cell{Written: true, Text: "3", Classes: []string{knapsack.ClassCurrent}}
	got := renderCell(cell, styles, 3, 1)
	want := styles.Current.Width(3).Height(1).MaxWidth(3).Render("3")
	if got != want {
		t.Errorf("current cell rendered %q, want %q", got, want)
	}
}

func TestThemeForStylesheet(t *testing.T) {
	tests := []struct {
		href, fallback, want string
	}{
		{"ocean.css", "cyberpunk", "ocean"},
		{"/static/retro.css", "cyberpunk", "retro"},
		{"visualisation.css", "sunset", "sunset"},
		{"visualisation.css", "unknown", "cyberpunk"},
	}
	for _, tt := range tests {
		if got := ThemeForStylesheet(tt.href, tt.fallback).Name; got != tt.want {
			t.Errorf("ThemeForStylesheet(%q, %q) = %s, want %s", tt.href, tt.fallback, got, tt.want)
		}
	}
}

func TestNextThemeWraps(t *testing.T) {
	last := Themes[len(Themes)-1]
	if NextTheme(last.Name).Name != Themes[0].Name {
		t.Error("expected wrap around")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func TestProfitChart(t *testing.T) {
	table, err := knapsack.Solve(5, []int{2, 3}, []int{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	row, n, ok := LatestRow(table)
	if !ok || n != 2 || row[5] != 7 {
		t.Errorf("unexpected latest row %v (n=%d)", row, n)
	}
	if chart := ProfitChart(table, 4, 20); !strings.Contains(chart, "2 items") {
		t.Errorf("chart caption missing:\n%s", chart)
	}

	if ProfitChart(knapsack.NewTable(2, 5), 4, 20) != "" {
		t.Error("empty table should have no chart")
	}
}
