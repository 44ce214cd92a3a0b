package gate

import (
	"bytes"
	"log/slog"
	"strings"
)

const redacted = "[redacted]"

// Credential holds an operator-supplied API key for the lifetime of one
// submission. It never prints its value and Wipe zeroes the backing buffer.
type Credential struct {
	secret []byte
}

// NewCredential copies s, trimming surrounding whitespace.
func NewCredential(s string) *Credential {
	return &Credential{secret: []byte(strings.TrimSpace(s))}
}

// Reveal returns the secret for handing to the completion client.
func (c *Credential) Reveal() string {
	if c == nil {
		return ""
	}
	return string(c.secret)
}

func (c *Credential) Empty() bool {
	return c == nil || len(c.secret) == 0
}

func (c *Credential) HasPrefix(prefix string) bool {
	return c != nil && bytes.HasPrefix(c.secret, []byte(prefix))
}

// Wipe zeroes the secret. Safe to call more than once and on nil.
func (c *Credential) Wipe() {
	if c == nil {
		return
	}
	for i := range c.secret {
		c.secret[i] = 0
	}
	c.secret = nil
}

func (c *Credential) String() string   { return redacted }
func (c *Credential) GoString() string { return redacted }

func (c *Credential) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
