package presenter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ContentReader reads a named file, as embed.FS does.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// ToastTable maps semantic event keys to toast literals.
type ToastTable map[string]string

type toastFile struct {
	Toasts map[string]string `yaml:"toasts"`
}

// LoadToastTable reads and parses the toast table at name.
func LoadToastTable(reader ContentReader, name string) (ToastTable, error) {
	data, err := reader.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read toast table: %w", err)
	}
	return ParseToastTable(data)
}

// ParseToastTable parses a YAML toast table. Entries with an empty literal
// are dropped.
func ParseToastTable(data []byte) (ToastTable, error) {
	var f toastFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse toast table: %w", err)
	}
	table := make(ToastTable, len(f.Toasts))
	for key, literal := range f.Toasts {
		if literal != "" {
			table[key] = literal
		}
	}
	return table, nil
}

// Lookup returns the literal for key.
func (t ToastTable) Lookup(key string) (string, bool) {
	literal, ok := t[key]
	return literal, ok
}
