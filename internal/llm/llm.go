package llm

import (
	"context"
	"errors"
	"fmt"
)

// Extractor turns extracted document text into normalized loan fields.
type Extractor interface {
	ExtractFields(ctx context.Context, text string) (LoanFields, error)
}

// ErrNotConfigured is returned before any network call when the LLM endpoint
// or credential is missing.
var ErrNotConfigured = errors.New("llm endpoint or api key is not configured")

// APIError reports a transport failure or contract violation from the model
// endpoint. Status is 0 when the request never completed; Body carries the
// raw response body for diagnostics.
type APIError struct {
	Status  int
	Body    string
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("llm api error (status %d): %s", e.Status, e.Message)
	}
	return "llm api error: " + e.Message
}
