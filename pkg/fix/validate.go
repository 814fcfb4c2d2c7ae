package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrNotWhitespace is returned when an indentation edit would replace or
// insert anything other than spaces and tabs.
var ErrNotWhitespace = errors.New("edit touches non-whitespace text")

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	where := fmt.Sprintf("[%d:%d]", e.Edit.StartOffset, e.Edit.EndOffset)
	if e.Edit.Line > 0 {
		where = fmt.Sprintf("on line %d %s", e.Edit.Line, where)
	}
	return "invalid edit " + where + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits returns the first edit whose range does not fit content of
// length contentLen.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		var msg string
		switch {
		case edit.StartOffset < 0:
			msg = "start offset is negative"
		case edit.EndOffset < edit.StartOffset:
			msg = "end offset is before start offset"
		case edit.EndOffset > contentLen:
			msg = fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen)
		default:
			continue
		}
		return &ValidationError{Edit: edit, Message: msg}
	}
	return nil
}

// ValidateWhitespace checks that every edit swaps blanks for blanks. Edits
// must already fit content.
func ValidateWhitespace(content []byte, edits []TextEdit) error {
	for _, edit := range edits {
		if !blank(string(content[edit.StartOffset:edit.EndOffset])) || !blank(edit.NewText) {
			return &ValidationError{Edit: edit, Message: ErrNotWhitespace.Error(), Err: ErrNotWhitespace}
		}
	}
	return nil
}

func blank(s string) bool {
	for i := range len(s) {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// SortEdits sorts edits by start offset, then by end offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if c := cmp.Compare(a.StartOffset, b.StartOffset); c != 0 {
			return c
		}
		return cmp.Compare(a.EndOffset, b.EndOffset)
	})
}

// DetectConflicts checks a sorted slice for overlapping edits. Two
// insertions at one offset conflict because their order is ambiguous.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if curr.StartOffset < prev.EndOffset ||
			(curr.StartOffset == prev.StartOffset && prev.Len() == 0 && curr.Len() == 0) {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits validates edits and returns a sorted copy. No-op edits are
// kept.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
