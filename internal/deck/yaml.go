package deck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLFormat implements Format for decks written as an explicit slide list.
type YAMLFormat struct{}

func init() {
	Register(&YAMLFormat{})
}

func (f *YAMLFormat) Name() string         { return "YAML" }
func (f *YAMLFormat) Extensions() []string { return []string{".yaml", ".yml"} }

func (f *YAMLFormat) Load(filename string) (*Deck, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML decodes a deck of the form:
//
//	title: Web Foundations
//	slides:
//	  - title: Welcome
//	    kind: intro
//	    items: [HTML, CSS]
//	    note: Greet the room.
func ParseYAML(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}
	d.normalize()
	return &d, nil
}
