package loans

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loandesk-backend/internal/llm"
	"loandesk-backend/internal/shared/telemetry"
)

// TextSource yields usable text for a document, with whatever fallback
// policy the implementation carries.
type TextSource interface {
	Text(ctx context.Context, data []byte, filename string) (string, error)
}

// Service contains the document-to-record pipeline and loan CRUD logic.
type Service struct {
	Repo Repo
	Text TextSource
	LLM  llm.Extractor
}

// ProcessUpload runs the full pipeline for one uploaded PDF: extract text
// (with OCR fallback), extract fields via the LLM, persist. Nothing is
// persisted unless every stage succeeds.
func (s *Service) ProcessUpload(ctx context.Context, fileName string, data []byte) (Loan, error) {
	start := time.Now()

	text, err := s.Text.Text(ctx, data, fileName)
	if err != nil {
		return Loan{}, err
	}

	fields, err := s.LLM.ExtractFields(ctx, text)
	if err != nil {
		return Loan{}, err
	}

	now := time.Now().UTC()
	loan := Loan{
		ID:          uuid.NewString(),
		LoanFields:  fields,
		PDFFileName: &fileName,
		ExtractedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, loan); err != nil {
		return Loan{}, err
	}

	telemetry.Info("loan.processed", map[string]any{
		"loan_id":     loan.ID,
		"file_name":   fileName,
		"text_len":    len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return loan, nil
}

// Create persists a loan from a manually supplied field map. Values pass
// through the same normalization as LLM output.
func (s *Service) Create(ctx context.Context, raw map[string]any) (Loan, error) {
	now := time.Now().UTC()
	loan := Loan{
		ID:          uuid.NewString(),
		LoanFields:  llm.NormalizeFields(raw),
		ExtractedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if name := llm.NormalizeStringValue(raw["pdfFileName"]); name != nil {
		loan.PDFFileName = name
	}
	if err := s.Repo.Create(ctx, loan); err != nil {
		return Loan{}, err
	}
	return loan, nil
}

// Get returns a loan by ID.
func (s *Service) Get(ctx context.Context, id string) (Loan, error) {
	return s.Repo.Get(ctx, id)
}

// Update applies a partial field map to a loan. Only recognized field names
// are applied; date values are normalized and unparseable dates clear the
// field rather than failing.
func (s *Service) Update(ctx context.Context, id string, raw map[string]any) (Loan, error) {
	fields := make(map[string]*string)
	for _, name := range llm.FieldNames {
		value, ok := raw[name]
		if !ok {
			continue
		}
		if llm.IsDateField(name) {
			fields[name] = llm.NormalizeDateValue(value)
		} else {
			fields[name] = llm.NormalizeStringValue(value)
		}
	}
	return s.Repo.Update(ctx, id, fields)
}

// Delete removes a loan by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// List returns one page of loans plus the total count. Page and limit must
// be positive.
func (s *Service) List(ctx context.Context, page, limit int) ([]Loan, int, error) {
	if page < 1 || limit < 1 {
		return nil, 0, ErrInvalidInput
	}
	return s.Repo.List(ctx, page, limit)
}

// ListAll returns every loan, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Loan, error) {
	return s.Repo.ListAll(ctx)
}
