package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate")
	ErrAmbiguous        = errors.New("ambiguous")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyInput       = errors.New("empty input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrAlreadyCompleted = errors.New("already completed")
	timeNow             = time.Now
)

// MatchConflictError provides details when a selection matches multiple tasks.
// It still satisfies errors.Is(err, ErrAmbiguous).
type MatchConflictError struct {
	Reason  string
	Matches SearchResult
}

func (e *MatchConflictError) Error() string {
	if e == nil || strings.TrimSpace(e.Reason) == "" {
		return "ambiguous"
	}
	return "ambiguous: " + e.Reason
}

func (e *MatchConflictError) Is(target error) bool {
	return target == ErrAmbiguous
}

// DefaultCategories always exist in a repository, even when empty.
var DefaultCategories = []string{"Lavoro", "Personale", "Hobby"}

// IsDefaultCategory reports whether name is one of the permanent categories.
func IsDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
