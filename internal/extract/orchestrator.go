package extract

import (
	"context"
	"strings"

	"loandesk-backend/internal/shared/telemetry"
)

// minTextLen is the threshold below which a direct extraction result is
// treated as evidence of a scanned document and OCR is attempted. A crude
// heuristic, kept as a tunable constant.
const minTextLen = 100

// Recognizer is the OCR fallback consumed by the orchestrator. The boolean
// result is false when OCR text is unavailable for any reason; recognition
// never errors.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte, filename string) (string, bool)
}

// Orchestrator composes direct PDF text extraction with an optional OCR
// fallback into a single "get usable text" operation.
type Orchestrator struct {
	OCR Recognizer
}

// extractText is swapped out in tests.
var extractText = Text

// Text returns the best available text for a document. Direct extraction is
// tried first; OCR only runs when the trimmed direct result is shorter than
// minTextLen. The OCR result wins when non-empty, otherwise the original
// (possibly empty) direct text is returned. Only a direct-extraction parse
// failure propagates as an error.
func (o *Orchestrator) Text(ctx context.Context, data []byte, filename string) (string, error) {
	direct, err := extractText(data)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(direct)) >= minTextLen || o.OCR == nil {
		return direct, nil
	}

	telemetry.Info("extract.ocr_fallback", map[string]any{
		"filename":   filename,
		"direct_len": len(strings.TrimSpace(direct)),
	})
	if recognized, ok := o.OCR.Recognize(ctx, data, filename); ok && strings.TrimSpace(recognized) != "" {
		return recognized, nil
	}
	return direct, nil
}
