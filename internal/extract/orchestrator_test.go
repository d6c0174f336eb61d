package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubRecognizer struct {
	text   string
	ok     bool
	called bool
}

func (s *stubRecognizer) Recognize(ctx context.Context, data []byte, filename string) (string, bool) {
	s.called = true
	return s.text, s.ok
}

func withExtractStub(t *testing.T, text string, err error) {
	t.Helper()
	prev := extractText
	extractText = func(data []byte) (string, error) { return text, err }
	t.Cleanup(func() { extractText = prev })
}

func TestOrchestratorLongTextSkipsOCR(t *testing.T) {
	withExtractStub(t, strings.Repeat("a", minTextLen), nil)
	rec := &stubRecognizer{text: "ocr text", ok: true}
	o := &Orchestrator{OCR: rec}

	got, err := o.Text(context.Background(), []byte("pdf"), "doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != strings.Repeat("a", minTextLen) {
		t.Fatalf("expected direct text, got %q", got)
	}
	if rec.called {
		t.Fatal("OCR must not run when direct text meets the threshold")
	}
}

func TestOrchestratorShortTextInvokesOCR(t *testing.T) {
	withExtractStub(t, "short", nil)
	rec := &stubRecognizer{text: "recognized by ocr", ok: true}
	o := &Orchestrator{OCR: rec}

	got, err := o.Text(context.Background(), []byte("pdf"), "scan.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.called {
		t.Fatal("expected OCR to run for short direct text")
	}
	if got != "recognized by ocr" {
		t.Fatalf("expected OCR text to win, got %q", got)
	}
}

func TestOrchestratorWhitespaceOnlyCountsAsShort(t *testing.T) {
	// 200 raw chars but nothing after trimming.
	withExtractStub(t, strings.Repeat(" \n\t", 70), nil)
	rec := &stubRecognizer{text: "ocr", ok: true}
	o := &Orchestrator{OCR: rec}

	if _, err := o.Text(context.Background(), []byte("pdf"), "blank.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.called {
		t.Fatal("expected OCR for whitespace-only direct text")
	}
}

func TestOrchestratorOCRUnavailableReturnsDirect(t *testing.T) {
	withExtractStub(t, "tiny", nil)
	rec := &stubRecognizer{ok: false}
	o := &Orchestrator{OCR: rec}

	got, err := o.Text(context.Background(), []byte("pdf"), "scan.pdf")
	if err != nil {
		t.Fatalf("OCR degradation must not error: %v", err)
	}
	if got != "tiny" {
		t.Fatalf("expected original direct text back, got %q", got)
	}
}

func TestOrchestratorOCREmptyResultReturnsDirect(t *testing.T) {
	withExtractStub(t, "", nil)
	rec := &stubRecognizer{text: "   ", ok: true}
	o := &Orchestrator{OCR: rec}

	got, err := o.Text(context.Background(), []byte("pdf"), "scan.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty direct text back, got %q", got)
	}
}

func TestOrchestratorParseErrorPropagates(t *testing.T) {
	withExtractStub(t, "", ErrUnparseable)
	rec := &stubRecognizer{text: "ocr", ok: true}
	o := &Orchestrator{OCR: rec}

	_, err := o.Text(context.Background(), []byte("junk"), "junk.pdf")
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected parse error to propagate, got %v", err)
	}
	if rec.called {
		t.Fatal("OCR must not run when direct extraction fails")
	}
}

func TestOrchestratorNilOCR(t *testing.T) {
	withExtractStub(t, "short", nil)
	o := &Orchestrator{}

	got, err := o.Text(context.Background(), []byte("pdf"), "doc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "short" {
		t.Fatalf("expected direct text with no OCR configured, got %q", got)
	}
}
