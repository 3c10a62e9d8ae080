package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/studymaster-backend/internal/logger"
)

type DocumentKind string

const (
	DocumentKindPDF       DocumentKind = "pdf"
	DocumentKindImage     DocumentKind = "image"
	DocumentKindPlainText DocumentKind = "plaintext"
)

// Document is one input to the extraction pipeline. Data carries the raw
// bytes for PDF and image kinds; Text carries pasted plaintext.
type Document struct {
	Kind DocumentKind
	Name string
	Data []byte
	Text string
}

// ImageRecognizer runs OCR over a single image. Implemented by the GCP
// Vision client; faked in tests.
type ImageRecognizer interface {
	RecognizeImage(ctx context.Context, data []byte) (string, error)
}

type TextExtractService interface {
	ExtractDocument(ctx context.Context, doc Document) (string, error)
	ExtractBatch(ctx context.Context, docs []Document) (string, error)
}

type textExtractService struct {
	log *logger.Logger
	ocr ImageRecognizer
}

func NewTextExtractService(baseLog *logger.Logger, ocr ImageRecognizer) TextExtractService {
	return &textExtractService{
		log: baseLog.With("service", "TextExtractService"),
		ocr: ocr,
	}
}

// ExtractDocument normalizes one document into a plain text blob.
func (s *textExtractService) ExtractDocument(ctx context.Context, doc Document) (string, error) {
	switch doc.Kind {
	case DocumentKindPDF:
		return extractPDFText(doc.Data)
	case DocumentKindImage:
		if s.ocr == nil {
			return "", fmt.Errorf("image recognizer not configured")
		}
		return s.ocr.RecognizeImage(ctx, doc.Data)
	case DocumentKindPlainText:
		return doc.Text, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDocumentKind, doc.Kind)
	}
}

// ExtractBatch extracts every document concurrently and joins the results
// with a blank line, preserving submission order. The first failure aborts
// the whole batch; no partial result is returned.
func (s *textExtractService) ExtractBatch(ctx context.Context, docs []Document) (string, error) {
	if len(docs) == 0 {
		return "", nil
	}

	results := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range docs {
		i := i
		g.Go(func() error {
			text, err := s.ExtractDocument(gctx, docs[i])
			if err != nil {
				return &ExtractionFailedError{Index: i, Err: err}
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("batch extraction aborted", "error", err)
		return "", err
	}
	return strings.Join(results, "\n\n"), nil
}

// extractPDFText walks pages 1..N in order and joins every text fragment
// with a single space.
func extractPDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	var fragments []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		for _, txt := range content.Text {
			if txt.S == "" {
				continue
			}
			fragments = append(fragments, txt.S)
		}
	}
	return strings.Join(fragments, " "), nil
}
