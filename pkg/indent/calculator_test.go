package indent_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/indent"
)

func byLine(records []indent.Record) map[int]indent.Record {
	out := make(map[int]indent.Record, len(records))
	for _, rec := range records {
		out[rec.Line] = rec
	}
	return out
}

func TestCalculate_IfDivScenario(t *testing.T) {
	t.Parallel()

	src := "@if(x)\n<div>\ntext\n</div>\n@endif"
	records := byLine(indent.CalculateSource([]byte(src), false))

	want := map[int]int{1: 0, 2: 4, 3: 8, 4: 4, 5: 0}
	require.Len(t, records, len(want))
	for line, col := range want {
		assert.Equal(t, col, records[line].Column(4), "line %d", line)
	}

	assert.Equal(t, indent.ClaimBlockStart, records[1].Claim)
	assert.Equal(t, "@if", records[1].Label)
	assert.Equal(t, indent.ClaimOpen, records[2].Claim)
	assert.Equal(t, indent.ClaimContent, records[3].Claim)
	assert.Equal(t, indent.ClaimClose, records[4].Claim)
	assert.Equal(t, indent.ClaimBlockEnd, records[5].Claim)
	assert.Equal(t, "@endif", records[5].Label)
}

func TestCalculate_LoneCloseTag(t *testing.T) {
	t.Parallel()

	var records []indent.Record
	require.NotPanics(t, func() {
		records = indent.CalculateSource([]byte("</div>"), false)
	})

	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, 0, records[0].HTMLIndent)
	assert.Equal(t, 0, records[0].Indent)
}

func TestCalculate_Balance(t *testing.T) {
	t.Parallel()

	for depth := 1; depth <= 6; depth++ {
		var b strings.Builder
		for range depth {
			b.WriteString("@if($a)\n")
		}
		b.WriteString("content\n")
		for range depth {
			b.WriteString("@endif\n")
		}

		records := byLine(indent.CalculateSource([]byte(b.String()), false))
		content := records[depth+1]
		assert.Equal(t, depth, content.Indent, "depth %d", depth)
		assert.Equal(t, 0, content.HTMLIndent)
		assert.Equal(t, depth-1, records[depth].Indent, "innermost start at depth %d", depth)
		assert.Equal(t, 0, records[2*depth+1].Indent, "outermost end at depth %d", depth)
	}
}

func TestCalculate_Clamping(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"@endif\n@endif\n@endforeach\nx",
		"</div>\n</span></p>\n  x\n@if($a)\ny\n@endif\n@endif\n</ul>",
		"@if($a)\n@endif\n@endif\n@else\n@endsection\n@stop",
	}

	for _, src := range inputs {
		for _, rec := range indent.CalculateSource([]byte(src), false) {
			assert.GreaterOrEqual(t, rec.Indent, 0, "line %d of %q", rec.Line, src)
			assert.GreaterOrEqual(t, rec.HTMLIndent, 0, "line %d of %q", rec.Line, src)
		}
	}
}

func TestCalculate_EmptyBlockErasure(t *testing.T) {
	t.Parallel()

	src := "@if($a)\n  @if($b) x @endif\n@endif"
	records := byLine(indent.CalculateSource([]byte(src), false))

	_, ok := records[2]
	assert.False(t, ok, "single-line block must leave no record")
	assert.Equal(t, 0, records[1].Indent)
	assert.Equal(t, 0, records[3].Indent)
}

func TestCalculate_HTMLAndDirectiveIndependence(t *testing.T) {
	t.Parallel()

	src := "@foreach($xs as $x)\n<div>\n<span>\n{{ $x }}\n</span>\n</div>\n@endforeach"
	records := byLine(indent.CalculateSource([]byte(src), false))

	inner := records[4]
	assert.Equal(t, 1, inner.Indent)
	assert.Equal(t, 2, inner.HTMLIndent)
	assert.Equal(t, 12, inner.Column(4))
	assert.Equal(t, 6, inner.Column(2))
}

func TestCalculate_Rules(t *testing.T) {
	t.Parallel()

	type want struct {
		indent int
		html   int
		claim  indent.Claim
	}

	tests := []struct {
		name    string
		src     string
		want    map[int]want
		missing []int
	}{
		{
			name: "aligned else dedents",
			src:  "@if($a)\nx\n@else\ny\n@endif",
			want: map[int]want{
				1: {0, 0, indent.ClaimBlockStart},
				2: {1, 0, indent.ClaimContent},
				3: {0, 0, indent.ClaimAligned},
				4: {1, 0, indent.ClaimContent},
				5: {0, 0, indent.ClaimBlockEnd},
			},
		},
		{
			name:    "aligned outside a block is ignored",
			src:     "@else",
			missing: []int{1},
		},
		{
			name: "marker records at top level",
			src:  "<ul>\n<li>a</li>\n</ul>",
			want: map[int]want{
				1: {0, 0, indent.ClaimMarker},
				2: {0, 1, indent.ClaimOpen},
				3: {0, 0, indent.ClaimClose},
			},
		},
		{
			name: "top-level open tag is not recorded",
			src:  "<div>\n</div>",
			want: map[int]want{
				2: {0, 0, indent.ClaimClose},
			},
			missing: []int{1},
		},
		{
			name:    "top-level text is not recorded",
			src:     "hello\n{{ $a }}",
			missing: []int{1, 2},
		},
		{
			name: "several closes on one line lower the depth once",
			src:  "<div>\n<div>\n<p>x\n</p></div></div>",
			want: map[int]want{
				2: {0, 1, indent.ClaimOpen},
				3: {0, 2, indent.ClaimOpen},
				4: {0, 2, indent.ClaimClose},
			},
		},
		{
			name: "depth after a multi-close line",
			src:  "<section>\n<div><p>\nx\n</p></div>\n<span>\n</span>\n</section>",
			want: map[int]want{
				2: {0, 1, indent.ClaimOpen},
				3: {0, 3, indent.ClaimContent},
				4: {0, 2, indent.ClaimClose},
				5: {0, 2, indent.ClaimOpen},
				6: {0, 2, indent.ClaimClose},
				7: {0, 1, indent.ClaimClose},
			},
		},
		{
			name: "aligned directive nested only in html",
			src:  "<div>\n@else\n</div>",
			want: map[int]want{
				2: {0, 1, indent.ClaimAligned},
				3: {0, 0, indent.ClaimClose},
			},
		},
		{
			name: "several block ends on one line",
			src:  "@if($a)\n@if($b)\nx\n@endif @endif",
			want: map[int]want{
				3: {2, 0, indent.ClaimContent},
				4: {0, 0, indent.ClaimBlockEnd},
			},
		},
		{
			name: "whitespace line at top level resets to zero",
			src:  "   <div>\n</div>",
			want: map[int]want{
				1: {0, 0, indent.ClaimWhitespace},
			},
		},
		{
			name: "whitespace-only line inside element",
			src:  "<div>\n   \n</div>",
			want: map[int]want{
				2: {0, 1, indent.ClaimWhitespace},
			},
		},
		{
			name: "self-closing tag nested",
			src:  "<div>\n<br>\n<x-icon/>\n</div>",
			want: map[int]want{
				2: {0, 1, indent.ClaimSelfClose},
				3: {0, 1, indent.ClaimSelfClose},
			},
		},
		{
			name: "sections share the block balance",
			src:  "@section('content')\n@if($b)\nx\n@endif\n@endsection",
			want: map[int]want{
				1: {0, 0, indent.ClaimBlockStart},
				2: {1, 0, indent.ClaimBlockStart},
				3: {2, 0, indent.ClaimContent},
				4: {1, 0, indent.ClaimBlockEnd},
				5: {0, 0, indent.ClaimBlockEnd},
			},
		},
		{
			name: "frozen continuation lines are never recorded",
			src:  "@if($a)\n<div\n  class=\"x\">text</div>\n@endif",
			want: map[int]want{
				2: {1, 0, indent.ClaimOpen},
			},
			missing: []int{3},
		},
		{
			name: "forelse with empty branch",
			src:  "<ul>\n@forelse($xs as $x)\n<li>{{ $x }}</li>\n@empty\n<li>none</li>\n@endforelse\n</ul>",
			want: map[int]want{
				2: {0, 1, indent.ClaimBlockStart},
				3: {1, 1, indent.ClaimOpen},
				4: {0, 1, indent.ClaimAligned},
				5: {1, 1, indent.ClaimOpen},
				6: {0, 1, indent.ClaimBlockEnd},
				7: {0, 0, indent.ClaimClose},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := byLine(indent.CalculateSource([]byte(tt.src), false))
			for line, w := range tt.want {
				rec, ok := records[line]
				require.True(t, ok, "line %d has no record", line)
				assert.Equal(t, w.indent, rec.Indent, "line %d indent", line)
				assert.Equal(t, w.html, rec.HTMLIndent, "line %d html", line)
				assert.Equal(t, w.claim, rec.Claim, "line %d claim", line)
			}
			for _, line := range tt.missing {
				_, ok := records[line]
				assert.False(t, ok, "line %d should have no record", line)
			}
		})
	}
}

func TestCalculate_LiveMode(t *testing.T) {
	t.Parallel()

	src := "@if($a)\n<div>\n\n"

	full := byLine(indent.CalculateSource([]byte(src), false))
	_, ok := full[3]
	assert.False(t, ok, "empty line has no record in full mode")

	live := byLine(indent.CalculateSource([]byte(src), true))
	rec, ok := live[3]
	require.True(t, ok)
	assert.Equal(t, 1, rec.Indent)
	assert.Equal(t, 1, rec.HTMLIndent)
	assert.Equal(t, indent.ClaimWhitespace, rec.Claim)
}

func TestCalculate_RecordOffsets(t *testing.T) {
	t.Parallel()

	src := "@if($a)\n      <p>x</p>\n@endif"
	records := indent.CalculateSource([]byte(src), false)

	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].Line, records[1].Line, records[2].Line})
	assert.Equal(t, strings.Index(src, "<p>"), records[1].Offset)
}

func TestCalculate_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, indent.Calculate(nil))
	assert.Empty(t, indent.CalculateSource(nil, false))
}

func TestClaim_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "block-start", indent.ClaimBlockStart.String())
	assert.Equal(t, "claim(99)", indent.Claim(99).String())
}
