package features

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptySchema     = errors.New("feature schema is empty")
	ErrDuplicateColumn = errors.New("duplicate column in feature schema")
	// ErrPickledSchema is returned for a joblib schema artifact, which only
	// Python can read.
	ErrPickledSchema = errors.New("pickled feature schema")
)

// IsPickled reports whether path names a joblib/pickle artifact.
func IsPickled(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pkl", ".pickle", ".joblib":
		return true
	}
	return false
}

// Schema is the ordered list of columns the classifier was trained on.
// It is built once and only read afterwards.
type Schema struct {
	names []string
	index map[string]int
}

func NewSchema(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, ErrEmptySchema
	}

	s := &Schema{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := s.index[n]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, n)
		}
		s.names[i] = n
		s.index[n] = i
	}
	return s, nil
}

// Names returns a copy of the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Schema) Len() int { return len(s.names) }

// Index returns the position of a column, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// LoadSchema reads the schema artifact. JSON and YAML lists are accepted
// (.json, .yaml, .yml); anything else is read as one column name per line.
func LoadSchema(path string) (*Schema, error) {
	if IsPickled(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrPickledSchema)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature schema %s: %w", path, err)
	}

	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		// yaml.v3 parses JSON arrays as flow sequences.
		if err := yaml.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("failed to parse feature schema %s: %w", path, err)
		}
	default:
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			names = append(names, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan feature schema %s: %w", path, err)
		}
	}

	s, err := NewSchema(names)
	if err != nil {
		return nil, fmt.Errorf("feature schema %s: %w", path, err)
	}
	return s, nil
}
