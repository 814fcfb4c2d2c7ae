package fix

import (
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff is a unified diff between the original and re-indented content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// Hunks contains the diff hunks.
	Hunks []*diff.Hunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// GenerateDiff creates a unified diff between original and modified content.
// Re-indenting keeps the line count, so lines are compared pairwise; when the
// counts differ the whole file becomes one hunk.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	origLines := splitLines(original)
	modLines := splitLines(modified)

	var hunks []*diff.Hunk
	if len(origLines) == len(modLines) {
		hunks = alignedHunks(origLines, modLines)
	} else {
		hunks = []*diff.Hunk{wholeFileHunk(origLines, modLines)}
	}
	if len(hunks) == 0 {
		return nil
	}

	result := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    hunks,
	}
	for _, hunk := range hunks {
		for _, line := range bytes.SplitAfter(hunk.Body, []byte("\n")) {
			switch {
			case bytes.HasPrefix(line, []byte("+")):
				result.Additions++
			case bytes.HasPrefix(line, []byte("-")):
				result.Deletions++
			}
		}
	}

	return result
}

// FileDiff returns the diff as a go-diff FileDiff with a/ and b/ prefixes.
func (d *Diff) FileDiff() *diff.FileDiff {
	if d == nil {
		return nil
	}
	path := strings.TrimPrefix(d.Path, "/")
	return &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
		Hunks:    d.Hunks,
	}
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	out, err := diff.PrintFileDiff(d.FileDiff())
	if err != nil {
		return ""
	}
	return string(out)
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return "diff --git a/" + path + " b/" + path
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// ChangedLines returns the number of lines that differ.
func (d *Diff) ChangedLines() int {
	if d == nil {
		return 0
	}
	return max(d.Additions, d.Deletions)
}

// alignedHunks groups pairwise line changes into hunks with context.
func alignedHunks(orig, mod []string) []*diff.Hunk {
	var changed []int
	for idx := range orig {
		if orig[idx] != mod[idx] {
			changed = append(changed, idx)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var hunks []*diff.Hunk
	for first := 0; first < len(changed); {
		last := first
		for last+1 < len(changed) && changed[last+1]-changed[last] <= contextLines*2 {
			last++
		}

		start := max(changed[first]-contextLines, 0)
		end := min(changed[last]+contextLines+1, len(orig))
		hunks = append(hunks, buildHunk(orig, mod, start, end))

		first = last + 1
	}

	return hunks
}

// buildHunk renders lines [start, end) with runs of changes printed as
// removals followed by additions.
func buildHunk(orig, mod []string, start, end int) *diff.Hunk {
	var body bytes.Buffer

	for idx := start; idx < end; {
		if orig[idx] == mod[idx] {
			body.WriteString(" " + orig[idx] + "\n")
			idx++
			continue
		}

		run := idx
		for run < end && orig[run] != mod[run] {
			run++
		}
		for k := idx; k < run; k++ {
			body.WriteString("-" + orig[k] + "\n")
		}
		for k := idx; k < run; k++ {
			body.WriteString("+" + mod[k] + "\n")
		}
		idx = run
	}

	count := int32(end - start) //nolint:gosec // line counts fit in int32
	return &diff.Hunk{
		OrigStartLine: int32(start + 1), //nolint:gosec // see above
		OrigLines:     count,
		NewStartLine:  int32(start + 1), //nolint:gosec // see above
		NewLines:      count,
		Body:          body.Bytes(),
	}
}

// wholeFileHunk replaces every original line with every modified line.
func wholeFileHunk(orig, mod []string) *diff.Hunk {
	var body bytes.Buffer
	for _, line := range orig {
		body.WriteString("-" + line + "\n")
	}
	for _, line := range mod {
		body.WriteString("+" + line + "\n")
	}

	hunk := &diff.Hunk{
		OrigLines: int32(len(orig)), //nolint:gosec // line counts fit in int32
		NewLines:  int32(len(mod)),  //nolint:gosec // see above
		Body:      body.Bytes(),
	}
	if len(orig) > 0 {
		hunk.OrigStartLine = 1
	}
	if len(mod) > 0 {
		hunk.NewStartLine = 1
	}
	return hunk
}

// splitLines splits content into lines, removing the trailing newline if present.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
