package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record is one retrievable unit of the corpus as persisted in
// metadata.json. Its position in the list is its identity: index vector i
// always belongs to record i.
type Record struct {
	Path         string `json:"path"`
	Title        string `json:"title,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// DisplayTitle picks the human label the way the corpus metadata layers it.
func (r Record) DisplayTitle() string {
	if r.SectionTitle != "" {
		return r.SectionTitle
	}
	if r.Title != "" {
		return r.Title
	}
	return ""
}

// LoadMetadata reads the ordered record list. A missing file is initialized
// empty rather than treated as an error, so a fresh deployment can start
// before any documents exist.
func LoadMetadata(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := SaveMetadata(path, []Record{}); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	return records, nil
}

// SaveMetadata rewrites the record list in place.
func SaveMetadata(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata %s: %w", path, err)
	}
	return nil
}
