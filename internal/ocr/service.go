// Package ocr provides the text-recognition fallback used when a report PDF
// carries no usable native text layer (scanned or image-only documents).
//
// Three interchangeable providers implement OCRService:
//   - OCR.space (default): HTTP multipart API with a table-structure hint,
//     which keeps the row layout of report tables in the recognized text.
//   - Google Cloud Vision: DOCUMENT_TEXT_DETECTION over inline PDF content.
//   - Google Document AI: OCR processor returning the document's full text.
//
// Provider credentials come from the environment:
//   - OCR_SPACE_API_KEY for OCR.space
//   - GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS, plus
//     GOOGLE_CLOUD_PROJECT / DOCUMENT_AI_PROCESSOR_ID, for the Google providers
//
// Recognition is always a degraded path: the Gateway wrapper turns every
// provider failure into empty text, so extraction finishes with an empty
// result instead of aborting a batch. Callers must treat empty text as a
// terminal, non-retriable outcome for that document.
package ocr

import (
	"context"
	"io"
)

// OCRService defines the interface for text recognition providers.
type OCRService interface {
	// ProcessPDF extracts text from a PDF document.
	// Returns the concatenated text from all pages.
	ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error)
}
