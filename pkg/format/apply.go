package format

import (
	"context"
	"fmt"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/fix"
)

// Apply writes edits computed against the original text into doc, in offset
// order. Each edit is shifted by the running textDelta of the edits before
// it. If a shifted edit reaches past the end of doc the pass stops with a
// warning and the edits applied so far are kept.
func Apply(ctx context.Context, doc Document, edits []fix.TextEdit) (int, error) {
	if len(edits) == 0 {
		return 0, nil
	}

	sorted := append([]fix.TextEdit(nil), edits...)
	fix.SortEdits(sorted)

	logger := logging.FromContext(ctx)
	textDelta := 0
	applied := 0

	for _, edit := range sorted {
		if err := ctx.Err(); err != nil {
			return applied, fmt.Errorf("apply cancelled: %w", err)
		}

		shifted := edit.Shift(textDelta)
		if shifted.StartOffset < 0 || shifted.EndOffset > doc.Len() {
			logger.Warn("document changed during format; stopping",
				logging.FieldLine, edit.Line,
				logging.FieldOffset, shifted.StartOffset,
				logging.FieldLength, doc.Len(),
				logging.FieldApplied, applied,
			)
			return applied, nil
		}

		if err := doc.Replace(shifted.StartOffset, shifted.EndOffset, shifted.NewText); err != nil {
			return applied, fmt.Errorf("replace line %d: %w", edit.Line, err)
		}

		textDelta += edit.Delta()
		applied++
	}

	logger.Debug("applied edits", logging.FieldEdits, len(sorted), logging.FieldApplied, applied,
		logging.FieldTextDelta, textDelta)

	return applied, nil
}
