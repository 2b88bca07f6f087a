// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Writer places text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System writes to the OS clipboard.
type System struct{}

// WriteText implements Writer.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Memory keeps written text in memory.
type Memory struct {
	Writes []string
	Err    error
}

// WriteText implements Writer.
func (m *Memory) WriteText(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Writes = append(m.Writes, text)
	return nil
}

// Last returns the last written text.
func (m *Memory) Last() string {
	if len(m.Writes) == 0 {
		return ""
	}
	return m.Writes[len(m.Writes)-1]
}
