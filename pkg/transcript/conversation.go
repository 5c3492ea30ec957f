// Package transcript parses exported OpenRouter markdown chat logs into
// normalized conversations for blind voting. A transcript carries one
// title line followed by alternating speaker blocks; each complete turn
// pairs a user prompt with one response per roster model.
package transcript

// Response is a single model's answer within a turn.
type Response struct {
	// Model is the roster model identifier, e.g. "openai/gpt-5".
	Model string

	// Text is the full response block text.
	Text string

	// Order is the 1-based position of the model in the roster. It is
	// independent of any display position assigned later.
	Order int
}

// Turn is one user prompt plus the full set of model responses to it.
type Turn struct {
	// Number is the 1-based position of the turn within its conversation.
	Number int

	// UserPrompt is the full text of the user block.
	UserPrompt string

	// Responses holds exactly one response per roster model, in roster
	// order. The parser never emits a turn with any other count.
	Responses []Response
}

// Conversation is a fully parsed transcript. It is constructed once by
// the parser and read-only afterwards.
type Conversation struct {
	Title      string
	SourceFile string
	Turns      []Turn
}
