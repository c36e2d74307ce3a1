package logging

import (
	"strings"
	"sync"
)

// Capture keeps the most recent lines written to it.
type Capture struct {
	mu    sync.RWMutex
	lines []string
	max   int
}

// NewCapture keeps up to max lines.
func NewCapture(max int) *Capture {
	if max < 1 {
		max = 1
	}
	return &Capture{max: max}
}

// GlobalLogCapture holds the tail of the server log.
var GlobalLogCapture = NewCapture(1)

// GlobalTranscriptCapture holds the tail of the keyed transcript.
var GlobalTranscriptCapture = NewCapture(20)

// Write implements io.Writer. Each newline-separated line is kept.
func (c *Capture) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		c.lines = append(c.lines, line)
	}
	if over := len(c.lines) - c.max; over > 0 {
		c.lines = append(c.lines[:0:0], c.lines[over:]...)
	}
	return len(p), nil
}

// GetLastLine returns the most recent line.
func (c *Capture) GetLastLine() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[len(c.lines)-1]
}

// Recent returns the kept lines, oldest first.
func (c *Capture) Recent() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.lines...)
}
