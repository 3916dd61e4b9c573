package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchemaSource string

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		snapshotSchema, snapshotSchemaErr = jsonschema.CompileString("snapshot.schema.json", snapshotSchemaSource)
	})
	return snapshotSchema, snapshotSchemaErr
}

// taskRecord decodes both the current keys and the legacy Italian ones.
type taskRecord struct {
	Name            string `json:"name"`
	Date            string `json:"date"`
	Completed       bool   `json:"completed"`
	LegacyName      string `json:"nomeAttività"`
	LegacyDate      string `json:"dataAttività"`
	LegacyCompleted bool   `json:"marcaturaAttività"`
}

func (r taskRecord) task() Task {
	t := Task{Name: r.Name, Date: r.Date, Completed: r.Completed}
	if t.Name == "" && t.Date == "" {
		t = Task{Name: r.LegacyName, Date: r.LegacyDate, Completed: r.LegacyCompleted}
	}
	return t
}

// Load reads the snapshot at path. It always returns a usable repository: a
// missing file gives the default repository and no error, an unreadable or
// malformed one gives the default repository and an error wrapping
// ErrStoreUnavailable.
func Load(path string) (*Repository, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewRepository(), nil
		}
		return NewRepository(), fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, path, err)
	}
	r, err := Decode(b)
	if err != nil {
		return NewRepository(), fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, path, err)
	}
	return r, nil
}

// Save overwrites the snapshot at path with the whole repository.
func Save(path string, r *Repository) error {
	b, err := Encode(r)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, b, 0o644)
}

// Encode renders the repository as an ordered list of
// [category, [task...]] pairs.
func Encode(r *Repository) ([]byte, error) {
	pairs := make([][2]any, 0, len(r.categories))
	for _, c := range r.categories {
		tasks := c.Tasks
		if tasks == nil {
			tasks = []Task{}
		}
		pairs = append(pairs, [2]any{c.Name, tasks})
	}
	b, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses and validates a snapshot document.
func Decode(b []byte) (*Repository, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	schema, err := compiledSnapshotSchema()
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var pairs [][]json.RawMessage
	if err := json.Unmarshal(b, &pairs); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	r := &Repository{}
	seen := map[Key]string{}
	for i, pair := range pairs {
		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return nil, fmt.Errorf("entry %d: category: %w", i, err)
		}
		var records []taskRecord
		if err := json.Unmarshal(pair[1], &records); err != nil {
			return nil, fmt.Errorf("entry %d: tasks: %w", i, err)
		}
		if r.categoryIndex(name) >= 0 {
			return nil, fmt.Errorf("entry %d: category %q repeated", i, name)
		}
		c := Category{Name: name}
		for _, rec := range records {
			t := rec.task()
			if strings.TrimSpace(t.Name) == "" {
				return nil, fmt.Errorf("entry %d: task without a name", i)
			}
			if other, dup := seen[t.Key()]; dup {
				return nil, fmt.Errorf("%w: %s in %s and %s", ErrDuplicate, t.Key(), other, name)
			}
			seen[t.Key()] = name
			c.Tasks = append(c.Tasks, t)
		}
		if len(c.Tasks) == 0 && !IsDefaultCategory(name) {
			continue
		}
		r.categories = append(r.categories, c)
	}
	r.ensureDefaults()
	return r, nil
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate snapshot: %w", err)
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc == "" {
		return fmt.Errorf("validate snapshot: %s", ve.Message)
	}
	return fmt.Errorf("validate snapshot: %s: %s", loc, ve.Message)
}
