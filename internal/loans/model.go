package loans

import (
	"time"

	"loandesk-backend/internal/llm"
)

// Loan is one processed document's extracted field set plus provenance
// metadata. The embedded LoanFields marshal flat, so the JSON shape is the
// wire contract: the 20 extracted fields alongside id, pdfFileName,
// extractedAt, createdAt, updatedAt.
type Loan struct {
	ID string `json:"id"`
	llm.LoanFields
	PDFFileName *string   `json:"pdfFileName"`
	ExtractedAt time.Time `json:"extractedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
