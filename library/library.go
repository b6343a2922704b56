package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"shortreel/types"
)

// Library is the append-only index of finished videos. Records are never
// mutated in place.
type Library struct {
	path string
	mu   sync.Mutex
}

// New creates a Library stored at path
func New(path string) *Library {
	return &Library{path: path}
}

// Append adds one record to the end of the index
func (l *Library) Append(rec types.VideoRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.readAll()
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	// write-then-rename so a crash can't truncate the index
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

// All returns every record in append order
func (l *Library) All() ([]types.VideoRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll()
}

func (l *Library) readAll() ([]types.VideoRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []types.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("library index corrupt: %w", err)
	}
	return records, nil
}
