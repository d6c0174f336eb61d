package loans

import (
	"context"
	"errors"
	"testing"

	"loandesk-backend/internal/llm"
)

type stubTextSource struct {
	text string
	err  error

	gotFilename string
}

func (s *stubTextSource) Text(ctx context.Context, data []byte, filename string) (string, error) {
	s.gotFilename = filename
	return s.text, s.err
}

type stubExtractor struct {
	fields llm.LoanFields
	err    error

	called  bool
	gotText string
}

func (s *stubExtractor) ExtractFields(ctx context.Context, text string) (llm.LoanFields, error) {
	s.called = true
	s.gotText = text
	return s.fields, s.err
}

func strp(s string) *string { return &s }

func TestProcessUploadPersistsExtractedFields(t *testing.T) {
	repo := NewMemoryRepo()
	text := &stubTextSource{text: "Loan #12345 for Jane Smith, closing 2024-03-15"}
	extractor := &stubExtractor{fields: llm.LoanFields{
		LoanNumber:  strp("12345"),
		Borrower:    strp("Jane Smith"),
		ClosingDate: strp("2024-03-15"),
	}}
	svc := &Service{Repo: repo, Text: text, LLM: extractor}

	loan, err := svc.ProcessUpload(context.Background(), "closing-package.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if loan.ID == "" {
		t.Fatal("expected a generated loan ID")
	}
	if loan.PDFFileName == nil || *loan.PDFFileName != "closing-package.pdf" {
		t.Fatalf("PDFFileName = %v, want closing-package.pdf", loan.PDFFileName)
	}
	if loan.ExtractedAt.IsZero() || loan.CreatedAt.IsZero() || loan.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if extractor.gotText != text.text {
		t.Fatalf("extractor received %q, want %q", extractor.gotText, text.text)
	}

	stored, err := repo.Get(context.Background(), loan.ID)
	if err != nil {
		t.Fatalf("Get stored loan: %v", err)
	}
	if stored.LoanNumber == nil || *stored.LoanNumber != "12345" {
		t.Fatalf("stored loanNumber = %v, want 12345", stored.LoanNumber)
	}
	if stored.ClosingDate == nil || *stored.ClosingDate != "2024-03-15" {
		t.Fatalf("stored closingDate = %v, want 2024-03-15", stored.ClosingDate)
	}
}

func TestProcessUploadLLMFailureDoesNotPersist(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Repo: repo,
		Text: &stubTextSource{text: "some text"},
		LLM:  &stubExtractor{err: errors.New("model unavailable")},
	}

	if _, err := svc.ProcessUpload(context.Background(), "doc.pdf", []byte("%PDF")); err == nil {
		t.Fatal("expected error from LLM stage")
	}

	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no persisted loans, got %d", len(all))
	}
}

func TestProcessUploadExtractFailureSkipsLLM(t *testing.T) {
	extractor := &stubExtractor{}
	svc := &Service{
		Repo: NewMemoryRepo(),
		Text: &stubTextSource{err: errors.New("unreadable")},
		LLM:  extractor,
	}

	if _, err := svc.ProcessUpload(context.Background(), "doc.pdf", nil); err == nil {
		t.Fatal("expected extraction error to propagate")
	}
	if extractor.called {
		t.Fatal("LLM must not be called when extraction fails")
	}
}

func TestCreateNormalizesManualInput(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	loan, err := svc.Create(context.Background(), map[string]any{
		"loanNumber":  "  L-99  ",
		"closingDate": "03/15/2024",
		"pdfFileName": "manual.pdf",
		"bogusField":  "ignored",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if loan.LoanNumber == nil || *loan.LoanNumber != "L-99" {
		t.Fatalf("loanNumber = %v, want L-99", loan.LoanNumber)
	}
	if loan.ClosingDate == nil || *loan.ClosingDate != "2024-03-15" {
		t.Fatalf("closingDate = %v, want 2024-03-15", loan.ClosingDate)
	}
	if loan.PDFFileName == nil || *loan.PDFFileName != "manual.pdf" {
		t.Fatalf("pdfFileName = %v, want manual.pdf", loan.PDFFileName)
	}
}

func TestUpdateFiltersAndNormalizes(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}

	created, err := svc.Create(context.Background(), map[string]any{
		"lender": "First Bank",
		"status": "In Review",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, map[string]any{
		"status":       "Cleared to Close",
		"closingDate":  "April 1, 2024",
		"icdDate":      "not a date",
		"unknownField": "ignored",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status == nil || *updated.Status != "Cleared to Close" {
		t.Fatalf("status = %v, want Cleared to Close", updated.Status)
	}
	if updated.ClosingDate == nil || *updated.ClosingDate != "2024-04-01" {
		t.Fatalf("closingDate = %v, want 2024-04-01", updated.ClosingDate)
	}
	if updated.ICDDate != nil {
		t.Fatalf("unparseable date should clear the field, got %v", *updated.ICDDate)
	}
	if updated.Lender == nil || *updated.Lender != "First Bank" {
		t.Fatalf("untouched field changed: lender = %v", updated.Lender)
	}
}

func TestListRejectsInvalidPagination(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	for _, tc := range []struct{ page, limit int }{{0, 50}, {1, 0}, {-1, 10}} {
		if _, _, err := svc.List(context.Background(), tc.page, tc.limit); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("List(%d, %d) = %v, want ErrInvalidInput", tc.page, tc.limit, err)
		}
	}
}
