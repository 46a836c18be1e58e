package web

import "github.com/san-kum/knapviz/internal/grid"

// inMessage is any message sent by the page. Numbers typed by the user
// arrive as the raw input strings.
type inMessage struct {
	Type     string  `json:"type"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Capacity string  `json:"capacity"`
	Weights  string  `json:"weights"`
	Prices   string  `json:"prices"`
	Delay    string  `json:"delay"`
}

type configMessage struct {
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Weights  []int  `json:"weights"`
	Prices   []int  `json:"prices"`
	DelayMS  int    `json:"delay_ms"`
}

type gridMessage struct {
	Type       string `json:"type"`
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	Stylesheet string `json:"stylesheet"`
}

type layoutMessage struct {
	Type     string  `json:"type"`
	Rows     int     `json:"rows"`
	Columns  int     `json:"columns"`
	Gap      float64 `json:"gap"`
	CellSize float64 `json:"cell_size"`
	FontSize float64 `json:"font_size"`
}

func newLayoutMessage(l grid.Layout) layoutMessage {
	return layoutMessage{
		Type:     "layout",
		Rows:     l.Rows,
		Columns:  l.Columns,
		Gap:      l.Gap,
		CellSize: l.CellSize,
		FontSize: l.FontSize,
	}
}

type cellMessage struct {
	Type    string   `json:"type"`
	Row     int      `json:"row"`
	Column  int      `json:"column"`
	Text    string   `json:"text"`
	Written bool     `json:"written"`
	Classes []string `json:"classes"`
}

func newCellMessage(c grid.Cell) cellMessage {
	classes := c.Classes
	if classes == nil {
		classes = []string{}
	}
	return cellMessage{
		Type:    "cell",
		Row:     c.Row,
		Column:  c.Column,
		Text:    c.Text,
		Written: c.Written,
		Classes: classes,
	}
}

type statusMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type doneMessage struct {
	Type      string `json:"type"`
	Answer    int    `json:"answer"`
	Selection []int  `json:"selection"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
