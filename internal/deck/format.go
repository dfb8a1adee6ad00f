package deck

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format reads a deck from a file.
type Format interface {
	Name() string
	Extensions() []string
	Load(filename string) (*Deck, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Load reads filename with the format registered for its extension,
// falling back to Markdown for anything unknown.
func Load(filename string) (*Deck, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var format Format = &MarkdownFormat{}
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				format = f
			}
		}
	}

	d, err := format.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("load %s deck %s: %w", format.Name(), filename, err)
	}
	d.normalize()
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return d, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
