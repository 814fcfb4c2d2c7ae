package bladeast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []bladeast.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []bladeast.LineInfo{},
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []bladeast.LineInfo{
				{StartOffset: 0, IndentEnd: 0, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "indented line with LF",
			content: "  hi\n",
			expected: []bladeast.LineInfo{
				{StartOffset: 0, IndentEnd: 2, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, IndentEnd: 5, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "CRLF with tab indent",
			content: "a\r\n\tb\r\n",
			expected: []bladeast.LineInfo{
				{StartOffset: 0, IndentEnd: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, IndentEnd: 4, NewlineStart: 5, EndOffset: 7},
				{StartOffset: 7, IndentEnd: 7, NewlineStart: 7, EndOffset: 7},
			},
		},
		{
			name:    "whitespace only line",
			content: "a\n   \nb",
			expected: []bladeast.LineInfo{
				{StartOffset: 0, IndentEnd: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, IndentEnd: 5, NewlineStart: 5, EndOffset: 6},
				{StartOffset: 6, IndentEnd: 6, NewlineStart: 7, EndOffset: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, bladeast.BuildLines([]byte(tt.content)))
		})
	}
}

func TestLineInfo_Blank(t *testing.T) {
	t.Parallel()

	lines := bladeast.BuildLines([]byte("a\n   \n\n  b"))
	require.Len(t, lines, 4)

	assert.False(t, lines[0].Blank())
	assert.True(t, lines[1].Blank())
	assert.True(t, lines[2].Blank())
	assert.False(t, lines[3].Blank())
	assert.Equal(t, 2, lines[3].IndentLen())
}

func TestTemplate_LineAt(t *testing.T) {
	t.Parallel()

	tpl := bladeast.NewTemplate("", []byte("ab\ncd\nef"))

	tests := []struct {
		offset int
		want   int
	}{
		{offset: -1, want: 0},
		{offset: 0, want: 1},
		{offset: 2, want: 1},
		{offset: 3, want: 2},
		{offset: 5, want: 2},
		{offset: 6, want: 3},
		{offset: 100, want: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tpl.LineAt(tt.offset), "offset %d", tt.offset)
	}
}

func TestTemplate_LineContent(t *testing.T) {
	t.Parallel()

	tpl := bladeast.NewTemplate("x.blade.php", []byte("one\r\ntwo\n"))

	assert.Equal(t, "one", string(tpl.LineContent(1)))
	assert.Equal(t, "two", string(tpl.LineContent(2)))
	assert.Empty(t, tpl.LineContent(3))
	assert.Nil(t, tpl.LineContent(4))
	assert.Nil(t, tpl.LineContent(0))
	assert.Equal(t, 3, tpl.LineCount())
}
