package deck

import (
	_ "embed"
	"fmt"
)

//go:embed builtin.md
var builtinMarkdown []byte

// Builtin returns the course deck compiled into the binary.
func Builtin() *Deck {
	d, err := ParseMarkdown(builtinMarkdown)
	if err != nil {
		panic(fmt.Sprintf("deck: builtin deck: %v", err))
	}
	d.Title = "Web Development Masterclass"
	return d
}
