package translate

import (
	"sync/atomic"

	"translatorgo/internal/core"
)

// Cursor is a process-wide round-robin pointer over the credential list.
// It advances on every draw, success or failure, so repeated failures do
// not pin traffic to one exhausted credential. The index is atomic; under
// concurrent calls rotation stays a best-effort load-spreading heuristic.
type Cursor struct {
	credentials []core.Credential
	index       atomic.Uint64
}

// NewCursor creates a cursor over an immutable credential sequence.
func NewCursor(credentials []core.Credential) *Cursor {
	return &Cursor{credentials: credentials}
}

// Len returns the credential count.
func (c *Cursor) Len() int {
	return len(c.credentials)
}

// Next returns the next credential and advances the cursor.
func (c *Cursor) Next() core.Credential {
	i := c.index.Add(1) - 1
	return c.credentials[i%uint64(len(c.credentials))]
}

// Position returns the current cursor offset (draws so far).
func (c *Cursor) Position() uint64 {
	return c.index.Load()
}
