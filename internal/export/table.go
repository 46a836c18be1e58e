package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/knapviz/internal/knapsack"
)

// Result is the exported form of a solved problem.
type Result struct {
	Capacity  int     `json:"capacity"`
	Weights   []int   `json:"weights"`
	Prices    []int   `json:"prices"`
	Answer    int     `json:"answer"`
	Selection []int   `json:"selection"`
	Table     [][]int `json:"table"`
}

// NewResult captures a complete table. Unset entries are kept as -1.
func NewResult(capacity int, weights, prices []int, t *knapsack.Table) Result {
	r := Result{
		Capacity:  capacity,
		Weights:   append([]int(nil), weights...),
		Prices:    append([]int(nil), prices...),
		Answer:    t.At(t.Items, t.Capacity),
		Selection: t.Selection(weights),
		Table:     t.Rows(),
	}
	if r.Selection == nil {
		r.Selection = []int{}
	}
	return r
}

func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func ExportJSON(path string, r Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, r)
}

// WriteCSV writes one line per item count n with a header of capacities.
// Unset entries are left empty.
func WriteCSV(w io.Writer, t *knapsack.Table) error {
	return WriteRowsCSV(w, t.Rows())
}

// WriteRowsCSV is WriteCSV for table rows; negative entries count as unset.
func WriteRowsCSV(w io.Writer, rows [][]int) error {
	cw := csv.NewWriter(w)

	if len(rows) > 0 {
		header := []string{"n"}
		for c := range rows[0] {
			header = append(header, strconv.Itoa(c))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for n, row := range rows {
		record := []string{strconv.Itoa(n)}
		for _, v := range row {
			if v < 0 {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.Itoa(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV wrote. Empty fields come back as Unset.
func ReadCSV(r io.Reader) ([][]int, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export: csv has no header")
	}

	rows := make([][]int, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]int, 0, len(record)-1)
		for j, field := range record[1:] {
			if field == "" {
				row = append(row, knapsack.Unset)
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("export: line %d, column %d: %w", i+2, j+2, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
