package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/fix"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edits   []fix.TextEdit
		wantErr string
	}{
		{
			name:  "valid edits",
			edits: []fix.TextEdit{{StartOffset: 0, EndOffset: 2}, {StartOffset: 4, EndOffset: 4, NewText: " "}},
		},
		{
			name:    "negative start",
			edits:   []fix.TextEdit{{StartOffset: -1, EndOffset: 2}},
			wantErr: "start offset is negative",
		},
		{
			name:    "inverted range",
			edits:   []fix.TextEdit{{StartOffset: 3, EndOffset: 2}},
			wantErr: "end offset is before start offset",
		},
		{
			name:    "past end",
			edits:   []fix.TextEdit{{StartOffset: 0, EndOffset: 11}},
			wantErr: "exceeds content length 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits(tt.edits, 10)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPrepareEdits(t *testing.T) {
	t.Parallel()

	t.Run("sorts by offset", func(t *testing.T) {
		t.Parallel()

		edits := []fix.TextEdit{
			{StartOffset: 8, EndOffset: 9, Line: 3},
			{StartOffset: 0, EndOffset: 2, Line: 1},
			{StartOffset: 4, EndOffset: 4, Line: 2},
		}
		got, err := fix.PrepareEdits(edits, 10)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, []int{got[0].Line, got[1].Line, got[2].Line})
		assert.Equal(t, 3, edits[0].Line, "input must not be reordered")
	})

	t.Run("detects overlap", func(t *testing.T) {
		t.Parallel()

		_, err := fix.PrepareEdits([]fix.TextEdit{
			{StartOffset: 0, EndOffset: 4},
			{StartOffset: 2, EndOffset: 6},
		}, 10)
		var conflict *fix.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Contains(t, err.Error(), "overlapping edits: [0:4] and [2:6]")
	})

	t.Run("two insertions at one offset conflict", func(t *testing.T) {
		t.Parallel()

		_, err := fix.PrepareEdits([]fix.TextEdit{
			{StartOffset: 3, EndOffset: 3, NewText: "a"},
			{StartOffset: 3, EndOffset: 3, NewText: "b"},
		}, 10)
		var conflict *fix.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("adjacent edits are fine", func(t *testing.T) {
		t.Parallel()

		got, err := fix.PrepareEdits([]fix.TextEdit{
			{StartOffset: 2, EndOffset: 4},
			{StartOffset: 0, EndOffset: 2},
		}, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		got, err := fix.PrepareEdits(nil, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestValidateWhitespace(t *testing.T) {
	t.Parallel()

	content := []byte("  a\n\tb\n")

	tests := []struct {
		name  string
		edits []fix.TextEdit
		ok    bool
	}{
		{"reindent", []fix.TextEdit{{StartOffset: 0, EndOffset: 2, NewText: "    "}}, true},
		{"tabs to spaces", []fix.TextEdit{{StartOffset: 4, EndOffset: 5, NewText: "  "}}, true},
		{"dedent", []fix.TextEdit{{StartOffset: 0, EndOffset: 2}}, true},
		{"eats text", []fix.TextEdit{{StartOffset: 0, EndOffset: 3, NewText: "  ", Line: 1}}, false},
		{"inserts text", []fix.TextEdit{{StartOffset: 0, EndOffset: 0, NewText: "x"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateWhitespace(content, tt.edits)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, fix.ErrNotWhitespace)
		})
	}

	err := fix.ValidateWhitespace(content, []fix.TextEdit{{StartOffset: 0, EndOffset: 3, Line: 1}})
	assert.EqualError(t, err, "invalid edit on line 1 [0:3]: edit touches non-whitespace text")
}
