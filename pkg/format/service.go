package format

import (
	"context"
	"fmt"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/bladeast"
	"github.com/yaklabco/bladefmt/pkg/fix"
)

// Result reports what a service call did to a document.
type Result struct {
	// Skipped is true when the request was ignored because the
	// corresponding preference is disabled.
	Skipped bool

	// Edits are the whitespace replacements computed for the request,
	// with offsets into the text as it was before any were applied.
	Edits []fix.TextEdit

	// Applied is the number of edits written to the document.
	Applied int
}

// Service formats and indents Documents using preferences loaded per call.
type Service struct {
	store PreferenceStore
}

// NewService creates a Service backed by store. A nil store uses defaults.
func NewService(store PreferenceStore) *Service {
	if store == nil {
		store = StaticStore{}
	}
	return &Service{store: store}
}

// FormatDocument re-indents every line of doc.
func (s *Service) FormatDocument(ctx context.Context, doc Document) (Result, error) {
	return s.FormatRange(ctx, doc, 0, doc.Len())
}

// FormatRange re-indents the lines whose first significant byte lies within
// [start, end].
func (s *Service) FormatRange(ctx context.Context, doc Document, start, end int) (Result, error) {
	res, err := s.RangeEdits(ctx, doc.Slice(0, doc.Len()), start, end)
	if err != nil || res.Skipped {
		return res, err
	}
	return s.apply(ctx, doc, res)
}

// IndentLine re-indents the single line containing offset, parsing in live
// mode. It backs auto-indent after a newline is typed.
func (s *Service) IndentLine(ctx context.Context, doc Document, offset int) (Result, error) {
	res, err := s.LineEdits(ctx, doc.Slice(0, doc.Len()), offset)
	if err != nil || res.Skipped {
		return res, err
	}
	return s.apply(ctx, doc, res)
}

// RangeEdits computes the edits FormatRange would apply to text without
// applying them.
func (s *Service) RangeEdits(ctx context.Context, text string, start, end int) (Result, error) {
	prefs, err := s.store.Preferences(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load preferences: %w", err)
	}
	if !prefs.FormatEnabled() {
		logging.FromContext(ctx).Debug("formatting disabled; skipping")
		return Result{Skipped: true}, nil
	}

	opts := OptionsFrom(prefs)
	opts.Region = &Region{Start: start, End: end}
	return s.compute(ctx, text, opts)
}

// LineEdits computes the edits IndentLine would apply to text without
// applying them.
func (s *Service) LineEdits(ctx context.Context, text string, offset int) (Result, error) {
	prefs, err := s.store.Preferences(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load preferences: %w", err)
	}
	if !prefs.IndentEnabled() {
		logging.FromContext(ctx).Debug("indentation disabled; skipping")
		return Result{Skipped: true}, nil
	}

	src := []byte(text)
	if len(src) == 0 {
		return Result{}, nil
	}
	tpl := &bladeast.Template{Content: src, Lines: bladeast.BuildLines(src)}
	line, ok := tpl.Line(tpl.LineAt(offset))
	if !ok {
		return Result{}, fmt.Errorf("offset %d: %w", offset, ErrInvalidRegion)
	}

	opts := OptionsFrom(prefs)
	opts.Live = true
	opts.Region = &Region{Start: line.StartOffset, End: line.NewlineStart}
	return s.compute(ctx, text, opts)
}

func (s *Service) compute(ctx context.Context, text string, opts Options) (Result, error) {
	out, err := Source(ctx, "", []byte(text), opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Edits: out.Edits}, nil
}

func (s *Service) apply(ctx context.Context, doc Document, res Result) (Result, error) {
	applied, err := Apply(ctx, doc, res.Edits)
	res.Applied = applied
	return res, err
}
