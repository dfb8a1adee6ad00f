package deck

import (
	"bufio"
	"bytes"
	"os"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown decks. Slides are separated
// by lines holding only "---".
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown", ".txt"} }

func (f *MarkdownFormat) Load(filename string) (*Deck, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseMarkdown(data)
}

var (
	// headerRegex matches markdown headers (# to ######)
	headerRegex    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	directiveRegex = regexp.MustCompile(`^<!--\s*([a-z]+)\s*:\s*(.*?)\s*-->$`)
	itemRegex      = regexp.MustCompile(`^(?:[-*+]|\d+\.)\s+(.+)$`)
	optionRegex    = regexp.MustCompile(`^\[([ xX])\]\s+(.+)$`)
	fenceRegex     = regexp.MustCompile("^(```+|~~~+)\\s*(\\S*)")
	trailerRegex   = regexp.MustCompile(`^(?i)(notes?|preview):\s*(.*)$`)
)

// ParseMarkdown splits a Markdown document into slides.
//
// Within a slide the first heading is the title, top-level list items are the
// items revealed one by one, "[x]"/"[ ]" items are quiz options, a "Note:"
// trailer holds the presenter note and a "Preview:" trailer turns the first
// fenced code block into a runnable demo. A "<!-- kind: ... -->" comment sets
// the slide kind explicitly.
func ParseMarkdown(data []byte) (*Deck, error) {
	var d Deck
	var b slideBuilder

	flush := func() {
		if s, ok := b.build(); ok {
			d.Slides = append(d.Slides, s)
		}
		b = slideBuilder{}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if b.fence == "" && strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		b.add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}
	d.normalize()
	return &d, nil
}

type section int

const (
	sectionBody section = iota
	sectionNote
	sectionPreview
)

type slideBuilder struct {
	title   string
	kind    Kind
	section section

	body    []string
	items   []string
	options []Option
	note    []string
	preview []string

	fence      string
	inItem     bool
	lastOption bool
	code       []string
	lang       string
	codeStart  int
	codeEnd    int
	codeDone   bool
}

func (b *slideBuilder) add(line string) {
	trimmed := strings.TrimSpace(line)

	if b.fence != "" {
		b.appendSection(line)
		if strings.HasPrefix(trimmed, b.fence) {
			b.fence = ""
			if b.section == sectionBody && !b.codeDone {
				b.codeDone = true
				b.codeEnd = len(b.body)
			}
			return
		}
		if b.section == sectionBody && !b.codeDone {
			b.code = append(b.code, line)
		}
		return
	}

	if m := fenceRegex.FindStringSubmatch(trimmed); m != nil {
		b.fence = m[1]
		b.inItem = false
		if b.section == sectionBody && !b.codeDone && b.codeStart == 0 && b.code == nil {
			b.lang = m[2]
			b.codeStart = len(b.body) + 1
			b.code = []string{}
		}
		b.appendSection(line)
		return
	}

	if m := trailerRegex.FindStringSubmatch(line); m != nil {
		b.inItem = false
		if strings.EqualFold(m[1], "preview") {
			b.section = sectionPreview
		} else {
			b.section = sectionNote
		}
		if rest := strings.TrimSpace(m[2]); rest != "" {
			b.appendSection(rest)
		}
		return
	}

	if b.section != sectionBody {
		b.appendSection(line)
		return
	}

	if m := directiveRegex.FindStringSubmatch(trimmed); m != nil {
		if m[1] == "kind" {
			b.kind = Kind(strings.ToLower(m[2]))
		}
		return
	}

	if m := headerRegex.FindStringSubmatch(line); m != nil && b.title == "" {
		b.title = strings.TrimSpace(m[2])
		b.inItem = false
		return
	}

	if m := itemRegex.FindStringSubmatch(line); m != nil {
		text := strings.TrimSpace(m[1])
		if o := optionRegex.FindStringSubmatch(text); o != nil {
			b.options = append(b.options, Option{
				Text:    strings.TrimSpace(o[2]),
				Correct: o[1] != " ",
			})
			b.lastOption = true
		} else {
			b.items = append(b.items, text)
			b.lastOption = false
		}
		b.inItem = true
		return
	}

	// Indented lines continue the previous item.
	if b.inItem && trimmed != "" && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
		if b.lastOption {
			b.options[len(b.options)-1].Text += " " + trimmed
		} else {
			b.items[len(b.items)-1] += " " + trimmed
		}
		return
	}
	b.inItem = false
	b.body = append(b.body, line)
}

func (b *slideBuilder) appendSection(line string) {
	switch b.section {
	case sectionNote:
		b.note = append(b.note, line)
	case sectionPreview:
		b.preview = append(b.preview, line)
	default:
		b.body = append(b.body, line)
	}
}

func (b *slideBuilder) build() (Slide, bool) {
	s := Slide{
		Title: b.title,
		Kind:  b.kind,
		Items: b.items,
		Note:  joinTrimmed(b.note),
	}

	body := b.body
	preview := joinTrimmed(b.preview)
	if b.codeDone && (b.kind == KindDemo || preview != "") {
		s.Demo = &DemoSpec{
			Language: b.lang,
			Code:     strings.Join(b.code, "\n"),
			Preview:  preview,
		}
		body = append(append([]string{}, body[:b.codeStart-1]...), body[b.codeEnd:]...)
	}

	s.Body = joinTrimmed(body)
	if len(b.options) > 0 {
		question := s.Body
		if question == "" {
			question = s.Title
		}
		s.Quiz = &QuizSpec{Question: question, Options: b.options}
		s.Body = ""
	}

	empty := s.Title == "" && s.Body == "" && len(s.Items) == 0 &&
		s.Note == "" && s.Quiz == nil && s.Demo == nil
	return s, !empty
}

// joinTrimmed joins lines, dropping leading and trailing blank lines.
func joinTrimmed(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
