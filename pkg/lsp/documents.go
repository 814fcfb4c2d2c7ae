package lsp

import (
	"errors"
	"fmt"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrUnknownDocument is returned for requests on documents that were never
// opened (or were already closed).
var ErrUnknownDocument = errors.New("document not open")

// document is one open editor buffer.
type document struct {
	text    string
	version protocol.Integer
}

// documentStore holds the text of open documents keyed by URI. Handlers run
// on glsp's connection goroutine, but formatting may be requested while a
// change is being applied, so access is guarded.
type documentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[protocol.DocumentUri]*document)}
}

func (s *documentStore) open(uri protocol.DocumentUri, version protocol.Integer, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &document{text: text, version: version}
}

func (s *documentStore) close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// get returns a snapshot of the document.
func (s *documentStore) get(uri protocol.DocumentUri) (document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return document{}, false
	}
	return *doc, true
}

func (s *documentStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// change applies content changes in order. Whole-document changes replace
// the text; ranged changes splice it.
func (s *documentStore) change(uri protocol.DocumentUri, version protocol.Integer, changes []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		return fmt.Errorf("%s: %w", uri, ErrUnknownDocument)
	}

	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc.text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				doc.text = c.Text
				continue
			}
			start := OffsetAt(doc.text, c.Range.Start)
			end := OffsetAt(doc.text, c.Range.End)
			if end < start {
				start, end = end, start
			}
			doc.text = doc.text[:start] + c.Text + doc.text[end:]
		default:
			return fmt.Errorf("%s: unsupported content change %T", uri, change)
		}
	}
	doc.version = version
	return nil
}
