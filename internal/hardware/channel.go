package hardware

import (
	"fmt"
	"io"
	"sync"
)

// WriterChannel writes CRLF terminated lines to any io.Writer.
type WriterChannel struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterChannel(w io.Writer) *WriterChannel {
	return &WriterChannel{w: w}
}

func (c *WriterChannel) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "%s\r\n", line); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}
