package transcript_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/gavel/pkg/transcript"
)

var testRoster = []string{
	"google/gemini-2.5-pro",
	"anthropic/claude-sonnet-4.5",
	"openai/gpt-4.1",
	"openai/gpt-5",
}

// export builds an OpenRouter-style markdown export from alternating
// speaker blocks. Each block is "User:<text>" or "Assistant:<text>".
func export(title string, blocks ...string) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n")
	for _, b := range blocks {
		speaker, text, _ := strings.Cut(b, ":")
		sb.WriteString(fmt.Sprintf("\n**%s - --**\n\n%s\n", speaker, text))
	}
	return sb.String()
}

// fullTurn returns one user block followed by four assistant blocks.
func fullTurn(prompt string, responses ...string) []string {
	blocks := []string{"User:" + prompt}
	for _, r := range responses {
		blocks = append(blocks, "Assistant:"+r)
	}
	return blocks
}

var _ = Describe("Parser", func() {
	var parser *transcript.Parser

	BeforeEach(func() {
		var err error
		parser, err = transcript.NewParser(testRoster)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewParser", func() {
		It("rejects an empty roster", func() {
			_, err := transcript.NewParser(nil)
			Expect(err).To(HaveOccurred())
		})

		It("reports the roster size", func() {
			Expect(parser.RosterSize()).To(Equal(4))
		})
	})

	Describe("Parse", func() {
		It("parses a single complete turn", func() {
			raw := export("Chat about Go",
				fullTurn("what is a goroutine?", "g", "c", "o4", "o5")...,
			)

			conv := parser.Parse(raw, "chat.md")

			Expect(conv.Title).To(Equal("Chat about Go"))
			Expect(conv.SourceFile).To(Equal("chat.md"))
			Expect(conv.Turns).To(HaveLen(1))

			turn := conv.Turns[0]
			Expect(turn.Number).To(Equal(1))
			Expect(turn.UserPrompt).To(Equal("what is a goroutine?"))
			Expect(turn.Responses).To(HaveLen(4))
			for i, resp := range turn.Responses {
				Expect(resp.Model).To(Equal(testRoster[i]))
				Expect(resp.Order).To(Equal(i + 1))
			}
			Expect(turn.Responses[0].Text).To(Equal("g"))
			Expect(turn.Responses[3].Text).To(Equal("o5"))
		})

		It("keeps multiple complete turns in encounter order", func() {
			blocks := fullTurn("first", "a1", "a2", "a3", "a4")
			blocks = append(blocks, fullTurn("second", "b1", "b2", "b3", "b4")...)
			blocks = append(blocks, fullTurn("third", "c1", "c2", "c3", "c4")...)

			conv := parser.Parse(export("t", blocks...), "t.md")

			Expect(conv.Turns).To(HaveLen(3))
			Expect(conv.Turns[0].UserPrompt).To(Equal("first"))
			Expect(conv.Turns[1].UserPrompt).To(Equal("second"))
			Expect(conv.Turns[2].UserPrompt).To(Equal("third"))
			for i, turn := range conv.Turns {
				Expect(turn.Number).To(Equal(i + 1))
				Expect(turn.Responses).To(HaveLen(4))
			}
			Expect(conv.Turns[1].Responses[2].Text).To(Equal("b3"))
		})

		It("drops a trailing turn with fewer responses than the roster", func() {
			blocks := fullTurn("complete", "a1", "a2", "a3", "a4")
			blocks = append(blocks, "User:incomplete", "Assistant:x1", "Assistant:x2")

			conv := parser.Parse(export("t", blocks...), "t.md")

			Expect(conv.Turns).To(HaveLen(1))
			Expect(conv.Turns[0].UserPrompt).To(Equal("complete"))
		})

		It("drops an interior turn with too few responses", func() {
			blocks := []string{"User:short", "Assistant:only-one"}
			blocks = append(blocks, fullTurn("complete", "a1", "a2", "a3", "a4")...)

			conv := parser.Parse(export("t", blocks...), "t.md")

			Expect(conv.Turns).To(HaveLen(1))
			Expect(conv.Turns[0].UserPrompt).To(Equal("complete"))
			Expect(conv.Turns[0].Number).To(Equal(1))
		})

		It("drops a turn that accumulated more responses than the roster", func() {
			blocks := []string{
				"User:overfull",
				"Assistant:a1", "Assistant:a2", "Assistant:a3",
				"Assistant:a4", "Assistant:a5",
			}
			blocks = append(blocks, fullTurn("ok", "b1", "b2", "b3", "b4")...)

			conv := parser.Parse(export("t", blocks...), "t.md")

			Expect(conv.Turns).To(HaveLen(1))
			Expect(conv.Turns[0].UserPrompt).To(Equal("ok"))
		})

		It("ignores an assistant block before any user block", func() {
			blocks := []string{"Assistant:orphan"}
			blocks = append(blocks, fullTurn("p1", "a1", "a2", "a3", "a4")...)

			conv := parser.Parse(export("t", blocks...), "t.md")

			Expect(conv.Turns).To(HaveLen(1))
			Expect(conv.Turns[0].Responses[0].Text).To(Equal("a1"))
		})

		It("discards blocks that are empty after trimming", func() {
			raw := "# t\n" +
				"\n**User - --**\n\n   \n" + // empty user block
				"\n**User - --**\n\nreal prompt\n" +
				"\n**Assistant - --**\n\na1\n" +
				"\n**Assistant - --**\n\na2\n" +
				"\n**Assistant - --**\n\na3\n" +
				"\n**Assistant - --**\n\na4\n"

			conv := parser.Parse(raw, "t.md")

			Expect(conv.Turns).To(HaveLen(1))
			Expect(conv.Turns[0].UserPrompt).To(Equal("real prompt"))
		})

		It("is idempotent over the same input", func() {
			raw := export("t", fullTurn("p", "a1", "a2", "a3", "a4")...)

			first := parser.Parse(raw, "t.md")
			second := parser.Parse(raw, "t.md")

			Expect(second).To(Equal(first))
		})

		It("returns zero turns for empty input without failing", func() {
			conv := parser.Parse("", "")

			Expect(conv.Title).To(BeEmpty())
			Expect(conv.Turns).To(BeEmpty())
		})

		It("falls back to the source file stem when there are no lines", func() {
			conv := parser.Parse("\n\n  \n", "exports/Chat Export.md")

			Expect(conv.Title).To(Equal("Chat Export"))
			Expect(conv.Turns).To(BeEmpty())
		})

		Describe("title extraction", func() {
			It("strips heading markers and whitespace", func() {
				conv := parser.Parse("##  My Conversation  \n", "t.md")
				Expect(conv.Title).To(Equal("My Conversation"))
			})

			It("uses the first non-empty line", func() {
				conv := parser.Parse("\n\n# Late Title\n", "t.md")
				Expect(conv.Title).To(Equal("Late Title"))
			})
		})
	})

	Describe("Validate", func() {
		It("passes every conversation the parser emits", func() {
			raw := export("t", fullTurn("p", "a1", "a2", "a3", "a4")...)
			conv := parser.Parse(raw, "t.md")

			Expect(parser.Validate(conv)).To(Succeed())
		})

		It("passes a conversation with zero turns", func() {
			Expect(parser.Validate(&transcript.Conversation{})).To(Succeed())
		})

		It("rejects a hand-built turn with too many responses", func() {
			conv := &transcript.Conversation{
				Turns: []transcript.Turn{{
					Number:     1,
					UserPrompt: "p",
					Responses:  make([]transcript.Response, 5),
				}},
			}

			err := parser.Validate(conv)

			var shapeErr transcript.ShapeError
			Expect(err).To(BeAssignableToTypeOf(shapeErr))
			Expect(err.(transcript.ShapeError).Turn).To(Equal(1))
			Expect(err.(transcript.ShapeError).Got).To(Equal(5))
			Expect(err.(transcript.ShapeError).Want).To(Equal(4))
		})

		It("rejects a hand-built turn with too few responses", func() {
			conv := &transcript.Conversation{
				Turns: []transcript.Turn{{
					Number:    1,
					Responses: make([]transcript.Response, 3),
				}},
			}

			Expect(parser.Validate(conv)).To(MatchError("turn 1 has 3 responses, want 4"))
		})
	})
})
