package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resultex/internal/logger"
)

// OCRSpaceConfig configures the OCR.space provider.
type OCRSpaceConfig struct {
	Endpoint   string       // parse endpoint, defaults to the public API
	APIKey     string       // account key; empty means recognition is unavailable
	Language   string       // recognition language hint, e.g. "eng"
	Engine     int          // engine selector; engine 2 reads tabular scans best
	Scale      bool         // upscale low-resolution scans before recognition
	TableHint  bool         // ask the service to preserve table line structure
	HTTPClient *http.Client // optional custom client (for testing)
}

// DefaultOCRSpaceConfig returns the settings used for institutional report
// templates: English, engine 2, scaling and table structure enabled.
func DefaultOCRSpaceConfig() OCRSpaceConfig {
	return OCRSpaceConfig{
		Endpoint:  "https://api.ocr.space/parse/image",
		Language:  "eng",
		Engine:    2,
		Scale:     true,
		TableHint: true,
	}
}

// OCRSpaceService implements OCRService using the OCR.space HTTP API.
type OCRSpaceService struct {
	config OCRSpaceConfig
	client *http.Client
	log    zerolog.Logger
}

// NewOCRSpaceService creates the provider. Endpoint, language and engine fall
// back to DefaultOCRSpaceConfig values when unset.
func NewOCRSpaceService(config OCRSpaceConfig) OCRService {
	defaults := DefaultOCRSpaceConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Language == "" {
		config.Language = defaults.Language
	}
	if config.Engine == 0 {
		config.Engine = defaults.Engine
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &OCRSpaceService{
		config: config,
		client: client,
		log:    logger.WithComponent("ocr-space"),
	}
}

// ProcessPDF sends the document to OCR.space and returns the concatenated
// per-page parsed text.
func (s *OCRSpaceService) ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error) {
	const op = "ProcessPDF"

	if s.config.APIKey == "" {
		// Short-circuit before any network traffic.
		return "", NewOCRError(op, ErrMissingCredentials, "OCR_SPACE_API_KEY is not set")
	}

	data, err := io.ReadAll(pdfData)
	if err != nil {
		return "", WrapOCRError(op, err, "failed to read document data")
	}

	requestID := uuid.NewString()
	log := s.log.With().Str("request_id", requestID).Logger()

	body, contentType, err := s.buildRequestBody(data)
	if err != nil {
		return "", WrapOCRError(op, err, "failed to build multipart request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, body)
	if err != nil {
		return "", WrapOCRError(op, err, "failed to build HTTP request")
	}
	req.Header.Set("Content-Type", contentType)

	log.Debug().
		Int("size", len(data)).
		Str("endpoint", s.config.Endpoint).
		Msg("Sending document for recognition")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", WrapOCRError(op, ErrContextCanceled, ctx.Err().Error())
		}
		return "", WrapOCRError(op, err, "request to recognition service failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", WrapOCRError(op, err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewOCRError(op, ErrOCRFailed,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	var parsed parseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", WrapOCRError(op, err, "failed to decode response JSON")
	}

	if parsed.IsErroredOnProcessing {
		return "", NewOCRError(op, ErrOCRFailed, fmt.Sprintf("service reported: %s", parsed.ErrorMessage))
	}
	if len(parsed.ParsedResults) == 0 {
		return "", NewOCRError(op, ErrEmptyDocument, "no parsed results in response")
	}

	pages := make([]string, 0, len(parsed.ParsedResults))
	for _, page := range parsed.ParsedResults {
		if strings.TrimSpace(page.ParsedText) == "" {
			continue
		}
		pages = append(pages, page.ParsedText)
	}
	if len(pages) == 0 {
		return "", NewOCRError(op, ErrEmptyDocument, "recognition produced no text")
	}

	text := strings.Join(pages, "\n")
	log.Debug().
		Int("pages", len(parsed.ParsedResults)).
		Int("chars", len(text)).
		Msg("Recognition completed")
	return text, nil
}

// buildRequestBody assembles the multipart form the OCR.space API expects:
// the file part plus apikey, language, isTable, OCREngine and scale fields.
func (s *OCRSpaceService) buildRequestBody(data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", "report.pdf")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"apikey":    s.config.APIKey,
		"language":  s.config.Language,
		"isTable":   strconv.FormatBool(s.config.TableHint),
		"OCREngine": strconv.Itoa(s.config.Engine),
		"scale":     strconv.FormatBool(s.config.Scale),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// parseResponse mirrors the OCR.space response envelope.
type parseResponse struct {
	ParsedResults         []parsedResult `json:"ParsedResults"`
	OCRExitCode           int            `json:"OCRExitCode"`
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          errorMessage   `json:"ErrorMessage"`
	ErrorDetails          string         `json:"ErrorDetails"`
}

type parsedResult struct {
	ParsedText        string `json:"ParsedText"`
	FileParseExitCode int    `json:"FileParseExitCode"`
	ErrorMessage      string `json:"ErrorMessage"`
}

// errorMessage tolerates the service returning either a single string or a
// list of strings in the ErrorMessage field.
type errorMessage []string

func (e *errorMessage) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*e = errorMessage{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = errorMessage(many)
	return nil
}

func (e errorMessage) String() string {
	return strings.Join(e, "; ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
