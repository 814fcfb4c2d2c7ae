package format

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfRange is returned by Document.Replace for offsets outside the text.
var ErrOutOfRange = errors.New("offset out of range")

// Document is mutable text that edits are applied to in place.
type Document interface {
	Len() int
	Slice(start, end int) string
	Replace(start, end int, text string) error
}

// StringDocument is an in-memory Document safe for concurrent use.
type StringDocument struct {
	mu   sync.RWMutex
	text string
}

// NewStringDocument creates a document holding text.
func NewStringDocument(text string) *StringDocument {
	return &StringDocument{text: text}
}

// Len returns the length of the text in bytes.
func (d *StringDocument) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.text)
}

// Slice returns text[start:end], clamped to the document bounds.
func (d *StringDocument) Slice(start, end int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	start = min(max(start, 0), len(d.text))
	end = min(max(end, start), len(d.text))
	return d.text[start:end]
}

// Replace substitutes text for the bytes in [start, end).
func (d *StringDocument) Replace(start, end int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if start < 0 || end < start || end > len(d.text) {
		return fmt.Errorf("replace [%d,%d) in %d bytes: %w", start, end, len(d.text), ErrOutOfRange)
	}
	d.text = d.text[:start] + text + d.text[end:]
	return nil
}

// String returns the current text.
func (d *StringDocument) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}
