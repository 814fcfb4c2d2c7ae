package format

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
	"github.com/yaklabco/bladefmt/pkg/fix"
	"github.com/yaklabco/bladefmt/pkg/indent"
	"github.com/yaklabco/bladefmt/pkg/parser/blade"
)

// ErrInvalidRegion is returned for line or offset ranges that select nothing.
var ErrInvalidRegion = errors.New("invalid region")

// Region is an inclusive byte range. A record is formatted when its offset
// lies within [Start, End].
type Region struct {
	Start int
	End   int
}

// Contains reports whether offset is within the region.
func (r Region) Contains(offset int) bool {
	return offset >= r.Start && offset <= r.End
}

// WholeRegion returns the region covering n bytes of text.
func WholeRegion(n int) Region {
	return Region{Start: 0, End: n}
}

// LinesRegion returns the region spanning 1-based lines from..to of src.
func LinesRegion(src []byte, from, to int) (Region, error) {
	lines := bladeast.BuildLines(src)
	if from < 1 || to < from || from > len(lines) {
		return Region{}, fmt.Errorf("lines %d:%d of %d: %w", from, to, len(lines), ErrInvalidRegion)
	}
	to = min(to, len(lines))
	return Region{Start: lines[from-1].StartOffset, End: lines[to-1].NewlineStart}, nil
}

// Options control how records become whitespace edits.
type Options struct {
	// Width is the number of columns per level.
	Width int

	// UseTabs emits one tab per level.
	UseTabs bool

	// Live parses in live mode: every line start is claimable and blank
	// lines keep their whitespace.
	Live bool

	// Region limits formatting to records inside it. Nil formats everything.
	Region *Region
}

// OptionsFrom builds Options from preferences.
func OptionsFrom(prefs Preferences) Options {
	return Options{Width: prefs.IndentWidth(), UseTabs: prefs.UseTabs()}
}

// Whitespace returns the indentation for level.
func Whitespace(level, width int, tabs bool) string {
	if level <= 0 {
		return ""
	}
	if tabs {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*width)
}

// Edits converts records into whitespace-prefix replacements against
// tpl.Content. Edits that would not change the text are omitted.
func Edits(tpl *bladeast.Template, records []indent.Record, opts Options) []fix.TextEdit {
	if tpl == nil {
		return nil
	}

	region := WholeRegion(len(tpl.Content))
	if opts.Region != nil {
		region = *opts.Region
	}

	var edits []fix.TextEdit
	for _, rec := range records {
		if !region.Contains(rec.Offset) {
			continue
		}
		line, ok := tpl.Line(rec.Line)
		if !ok || line.Frozen {
			continue
		}

		want := Whitespace(rec.Level(), opts.Width, opts.UseTabs)
		if line.Blank() && !opts.Live {
			want = ""
		}

		edit := fix.TextEdit{
			StartOffset: line.StartOffset,
			EndOffset:   line.IndentEnd,
			NewText:     want,
			Line:        rec.Line,
		}
		if edit.IsNoop(tpl.Content) {
			continue
		}
		edits = append(edits, edit)
	}
	return edits
}

// Output is the outcome of formatting a byte slice.
type Output struct {
	Template  *bladeast.Template
	Records   []indent.Record
	Edits     []fix.TextEdit
	Formatted []byte
}

// Changed reports whether formatting altered the input.
func (o *Output) Changed() bool {
	return o != nil && len(o.Edits) > 0
}

// Source parses src, calculates its records and applies the resulting edits
// to a copy of src.
func Source(ctx context.Context, path string, src []byte, opts Options) (*Output, error) {
	tpl, err := blade.New(blade.Options{Live: opts.Live}).Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	records := indent.Calculate(tpl)
	edits := Edits(tpl, records, opts)

	formatted, err := fix.Apply(src, edits)
	if err != nil {
		return nil, fmt.Errorf("apply edits: %w", err)
	}

	return &Output{
		Template:  tpl,
		Records:   records,
		Edits:     edits,
		Formatted: formatted,
	}, nil
}

// Bytes formats the whole of src with prefs. When formatting is disabled
// src is returned unchanged.
func Bytes(src []byte, prefs Preferences) ([]byte, error) {
	if !prefs.FormatEnabled() {
		return src, nil
	}
	out, err := Source(context.Background(), "", src, OptionsFrom(prefs))
	if err != nil {
		return nil, err
	}
	return out.Formatted, nil
}
