package hardware

import (
	"fmt"
	"strings"
	"sync"
)

const (
	LcdRows = 2
	LcdCols = 16
)

// TextLCD is a character display buffer. Fields are written in place and
// clipped at the right edge. An optional Flush pushes the changed buffer to
// real hardware.
type TextLCD struct {
	mu    sync.Mutex
	rows  [LcdRows][]byte
	Flush func(lines [LcdRows]string) error
}

func NewTextLCD() *TextLCD {
	d := &TextLCD{}
	for i := range d.rows {
		d.rows[i] = []byte(strings.Repeat(" ", LcdCols))
	}
	return d
}

func (d *TextLCD) WriteField(row, col int, text string) error {
	if row < 0 || row >= LcdRows || col < 0 || col >= LcdCols {
		return fmt.Errorf("LCD position out of range: (%d,%d)", row, col)
	}

	d.mu.Lock()
	copy(d.rows[row][col:], text)
	lines := d.lines()
	flush := d.Flush
	d.mu.Unlock()

	if flush != nil {
		return flush(lines)
	}
	return nil
}

// Lines returns the current content of both rows.
func (d *TextLCD) Lines() [LcdRows]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines()
}

func (d *TextLCD) lines() [LcdRows]string {
	var out [LcdRows]string
	for i, r := range d.rows {
		out[i] = string(r)
	}
	return out
}
