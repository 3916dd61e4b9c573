package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportDocument is the read-only copy written by Export.
type ExportDocument struct {
	ID         string     `json:"id" yaml:"id"`
	ExportedAt time.Time  `json:"exported_at" yaml:"exported_at"`
	Total      int        `json:"total" yaml:"total"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// NormalizeFormat maps user input to a supported export format.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use yaml|json)", format)
	}
}

// Export writes the repository to dir as promemoria-<ULID>.<ext> and returns
// the file path. The snapshot itself is never touched.
func Export(r *Repository, dir, format string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	format, err := NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	doc := ExportDocument{
		ID:         newULID(),
		ExportedAt: timeNow().UTC(),
		Total:      r.Len(),
		Categories: r.Categories(),
	}
	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(&doc)
	}
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	path := filepath.Join(ExpandHome(dir), fmt.Sprintf("promemoria-%s.%s", doc.ID, format))
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
