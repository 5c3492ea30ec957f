package transcript

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// blockMarker is the literal speaker delimiter OpenRouter writes between
// blocks in an exported markdown chat.
var blockMarker = regexp.MustCompile(`\*\*(User|Assistant) - --\*\*`)

// ShapeError reports a turn whose response count does not match the
// roster size.
type ShapeError struct {
	Turn int
	Got  int
	Want int
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("turn %d has %d responses, want %d", e.Turn, e.Got, e.Want)
}

// Parser splits raw transcript text into validated turns. The roster
// fixes both the expected response count per turn and the model
// identifier attached to each response position.
type Parser struct {
	roster []string
}

// NewParser creates a Parser for the given model roster. Roster order is
// the semantic model for the response positions within every turn.
func NewParser(roster []string) (*Parser, error) {
	if len(roster) == 0 {
		return nil, errors.New("transcript: roster must not be empty")
	}
	return &Parser{roster: slices.Clone(roster)}, nil
}

// RosterSize returns the number of responses a complete turn must hold.
func (p *Parser) RosterSize() int {
	return len(p.roster)
}

// Parse converts raw transcript text into a Conversation. Incomplete
// turns are dropped rather than emitted partially: a turn is finalized
// only when a new user block (or end of input) arrives while exactly
// one response per roster model has accumulated. Assistant blocks with
// no preceding prompt are discarded. Parse never fails; a transcript
// with no usable turns yields a Conversation with an empty turn list.
func (p *Parser) Parse(raw, source string) *Conversation {
	conv := &Conversation{
		Title:      title(raw, fallbackTitle(source)),
		SourceFile: source,
	}

	var (
		prompt    string
		active    bool
		responses []string
	)

	flush := func() {
		if !active || len(responses) != len(p.roster) {
			return
		}
		turn := Turn{
			Number:     len(conv.Turns) + 1,
			UserPrompt: prompt,
			Responses:  make([]Response, len(p.roster)),
		}
		for i, text := range responses {
			turn.Responses[i] = Response{Model: p.roster[i], Text: text, Order: i + 1}
		}
		conv.Turns = append(conv.Turns, turn)
	}

	for _, seg := range segments(raw) {
		switch seg.speaker {
		case "User":
			flush()
			prompt = seg.text
			active = true
			responses = nil
		case "Assistant":
			// A response can only belong to a turn that has a prompt.
			// Accumulation is not capped here; the count is checked at
			// finalization.
			if active {
				responses = append(responses, seg.text)
			}
		}
	}
	flush()

	return conv
}

// Validate re-checks every turn against the roster size. The parser
// already enforces the count at finalization, but callers run Validate
// independently and reject the whole conversation on any violation
// instead of storing a partial result.
func (p *Parser) Validate(conv *Conversation) error {
	for _, t := range conv.Turns {
		if len(t.Responses) != len(p.roster) {
			return ShapeError{Turn: t.Number, Got: len(t.Responses), Want: len(p.roster)}
		}
	}
	return nil
}

// segment is one delimited speaker block with surrounding whitespace
// trimmed. Blocks that are empty after trimming are not represented.
type segment struct {
	speaker string
	text    string
}

// segments scans raw text for speaker delimiters and returns the
// classified blocks in encounter order. Text before the first delimiter
// (the title line) is not a block.
func segments(raw string) []segment {
	marks := blockMarker.FindAllStringSubmatchIndex(raw, -1)
	segs := make([]segment, 0, len(marks))

	for i, m := range marks {
		end := len(raw)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}

		text := strings.TrimSpace(raw[m[1]:end])
		if text == "" {
			continue
		}

		segs = append(segs, segment{speaker: raw[m[2]:m[3]], text: text})
	}

	return segs
}

// title extracts the conversation title: the first non-empty line with
// leading heading markers stripped. Falls back when the text has no
// non-empty lines at all.
func title(raw, fallback string) string {
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	}
	return fallback
}

// fallbackTitle derives a default title from the source identifier:
// the file name without its extension.
func fallbackTitle(source string) string {
	if source == "" {
		return ""
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
