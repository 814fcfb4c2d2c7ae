package lsp

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/fix"
	"github.com/yaklabco/bladefmt/pkg/format"
)

// Client formatting option keys.
const (
	optionTabSize      = "tabSize"
	optionInsertSpaces = "insertSpaces"
)

// clientPreferences overlays the client's tabSize and insertSpaces on the
// configured preferences.
func clientPreferences(base format.Preferences, opts protocol.FormattingOptions) format.Settings {
	settings := format.Settings{
		Width:  base.IndentWidth(),
		Tabs:   base.UseTabs(),
		Indent: base.IndentEnabled(),
		Format: base.FormatEnabled(),
	}

	if size, ok := tabSize(opts[optionTabSize]); ok && size > 0 {
		settings.Width = size
	}
	if spaces, ok := opts[optionInsertSpaces].(bool); ok {
		settings.Tabs = !spaces
	}
	return settings
}

// tabSize accepts the numeric types a decoded or hand-built options map
// may carry.
func tabSize(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	default:
		return 0, false
	}
}

// service builds a format.Service for one request on uri.
func (s *Server) service(ctx context.Context, uri protocol.DocumentUri, opts protocol.FormattingOptions) (*format.Service, error) {
	prefs, err := s.opts.StoreFor(uriToPath(uri)).Preferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("preferences for %s: %w", uri, err)
	}
	return format.NewService(format.StaticStore{Prefs: clientPreferences(prefs, opts)}), nil
}

func (s *Server) formatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("%s: %w", params.TextDocument.URI, ErrUnknownDocument)
	}

	svc, err := s.service(s.ctx, params.TextDocument.URI, params.Options)
	if err != nil {
		return nil, err
	}
	res, err := svc.RangeEdits(s.ctx, doc.text, 0, len(doc.text))
	if err != nil {
		return nil, err
	}
	return s.toProtocol(params.TextDocument.URI, doc.text, res.Edits), nil
}

func (s *Server) rangeFormatting(_ *glsp.Context, params *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("%s: %w", params.TextDocument.URI, ErrUnknownDocument)
	}

	svc, err := s.service(s.ctx, params.TextDocument.URI, params.Options)
	if err != nil {
		return nil, err
	}
	start := OffsetAt(doc.text, params.Range.Start)
	end := OffsetAt(doc.text, params.Range.End)
	res, err := svc.RangeEdits(s.ctx, doc.text, start, end)
	if err != nil {
		return nil, err
	}
	return s.toProtocol(params.TextDocument.URI, doc.text, res.Edits), nil
}

// onTypeFormatting re-indents the line the cursor lands on after Enter.
func (s *Server) onTypeFormatting(_ *glsp.Context, params *protocol.DocumentOnTypeFormattingParams) ([]protocol.TextEdit, error) {
	if params.Ch != onTypeTrigger {
		return nil, nil
	}
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("%s: %w", params.TextDocument.URI, ErrUnknownDocument)
	}

	svc, err := s.service(s.ctx, params.TextDocument.URI, params.Options)
	if err != nil {
		return nil, err
	}
	lineStart := OffsetAt(doc.text, protocol.Position{Line: params.Position.Line})
	res, err := svc.LineEdits(s.ctx, doc.text, lineStart)
	if err != nil {
		return nil, err
	}
	return s.toProtocol(params.TextDocument.URI, doc.text, res.Edits), nil
}

// toProtocol converts byte-offset edits against text into LSP edits. The
// protocol applies all edits against the original document, so no delta
// tracking is needed.
func (s *Server) toProtocol(uri protocol.DocumentUri, text string, edits []fix.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		if e.StartOffset < 0 || e.EndOffset > len(text) || e.StartOffset > e.EndOffset {
			s.log().Warn("dropping out-of-range edit",
				logging.FieldURI, uri, logging.FieldLine, e.Line, logging.FieldOffset, e.StartOffset)
			continue
		}
		out = append(out, protocol.TextEdit{
			Range: protocol.Range{
				Start: PositionAt(text, e.StartOffset),
				End:   PositionAt(text, e.EndOffset),
			},
			NewText: e.NewText,
		})
	}
	s.log().Debug("formatted", logging.FieldURI, uri, logging.FieldEdits, len(out))
	return out
}
