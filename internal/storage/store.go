package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/knapviz/internal/export"
)

// Store keeps finished runs on disk, one directory per run holding
// metadata.json and table.csv.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Capacity  int       `json:"capacity"`
	Weights   []int     `json:"weights"`
	Prices    []int     `json:"prices"`
	Answer    int       `json:"answer"`
	Selection []int     `json:"selection"`
	DelayMS   int       `json:"delay_ms"`
}

func (s *Store) Save(r export.Result, delayMS int) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("knapsack_%d", ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: ts,
		Capacity:  r.Capacity,
		Weights:   r.Weights,
		Prices:    r.Prices,
		Answer:    r.Answer,
		Selection: r.Selection,
		DelayMS:   delayMS,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "table.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteRowsCSV(csvFile, r.Table); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns the stored runs, oldest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTable(runID string) ([][]int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "table.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return export.ReadCSV(file)
}
