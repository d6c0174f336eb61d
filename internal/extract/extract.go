package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ErrUnparseable indicates the payload could not be parsed as a PDF document.
// This is the only error the text extractor produces; a parseable document
// with no text layer yields an empty string instead.
var ErrUnparseable = errors.New("unparseable pdf document")

// Text extracts the text layer from an in-memory PDF.
// Library used: github.com/ledongthuc/pdf.
func Text(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return buf.String(), nil
}
