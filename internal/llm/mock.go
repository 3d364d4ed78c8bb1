package llm

import "context"

// Mock is a canned completer for tests and local runs.
type Mock struct {
	Reply string
	Calls int
}

// Complete returns the canned reply, or FallbackReply when none is set.
func (m *Mock) Complete(_ context.Context, _ string) string {
	m.Calls++
	if m.Reply == "" {
		return FallbackReply
	}
	return m.Reply
}
