package ocr

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"resultex/internal/logger"
)

// DefaultRecognitionTimeout bounds a single recognition call.
const DefaultRecognitionTimeout = 30 * time.Second

// Gateway wraps a provider with the degradation contract the extraction
// pipeline relies on: recognition never raises, it only yields empty text.
// Empty text is terminal for the call; there is no retry.
type Gateway struct {
	service OCRService
	timeout time.Duration
	log     zerolog.Logger
}

// NewGateway wraps the given provider. A nil provider is allowed and yields a
// gateway whose every call returns empty text (recognition unavailable).
func NewGateway(service OCRService, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultRecognitionTimeout
	}
	return &Gateway{
		service: service,
		timeout: timeout,
		log:     logger.WithComponent("ocr"),
	}
}

// Recognize extracts text from the document, degrading every failure to
// empty text.
func (g *Gateway) Recognize(ctx context.Context, data []byte) string {
	if g == nil || g.service == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.service.ProcessPDF(ctx, bytes.NewReader(data))
	if err != nil {
		g.log.Warn().
			Err(err).
			Int("size", len(data)).
			Msg("Recognition failed, continuing without recognized text")
		return ""
	}
	return text
}

// Close releases the underlying provider's resources, if it holds any.
func (g *Gateway) Close() error {
	if g == nil || g.service == nil {
		return nil
	}
	if closer, ok := g.service.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
