package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"resultex/internal/config"
	"resultex/internal/extract"
	"resultex/internal/logger"
	"resultex/internal/ocr"
	"resultex/internal/report"
	"resultex/pkg/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [pdf-file...]",
	Short: "Extract one teacher's result sections into an XLSX analysis",
	Long: `Process result report PDFs and collect every section taught by the
named teacher into a single analysis workbook.

Each file is parsed from its native text layer first; scanned documents
fall back to the configured OCR provider. Files that cannot be read or
contain no section for the teacher are skipped, and the run fails only
when no file yields a match.

Optional environment variables:
  OCR_PROVIDER          - ocrspace (default), vision, or documentai
  OCR_SPACE_API_KEY     - OCR.space account key (recognition degrades
                          to empty text when unset)
  GOOGLE_APPLICATION_CREDENTIALS / GOOGLE_CREDENTIALS
                        - credentials for the Google providers`,
	Example: `  # Analyze one teacher across a semester's reports
  resultex analyze --teacher "Dr.Kumar" reports/ft1.pdf reports/ft2.pdf

  # Shell glob over a folder, custom output path
  resultex analyze --teacher "Anand" -o kumar-analysis.xlsx reports/*.pdf

  # Longer timeout for large scanned batches
  resultex analyze --teacher "Dr.Kumar" --timeout 900 reports/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("teacher", "t", "", "Teacher name to search for [REQUIRED]")
	analyzeCmd.Flags().StringP("output", "o", "analysis.xlsx", "Output workbook path")
	analyzeCmd.Flags().Int("timeout", 300, "Processing timeout in seconds for the whole batch")

	analyzeCmd.MarkFlagRequired("teacher")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyze")

	teacherName, _ := cmd.Flags().GetString("teacher")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	// Reports are processed and rendered in filename order.
	files := append([]string(nil), args...)
	sort.Strings(files)

	log.Info().
		Str("teacher", teacherName).
		Int("files", len(files)).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting teacher analysis")

	ctx, cancel := createSignalContext(timeoutSecs, log)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gateway, err := createRecognitionGateway(ctx, cfg, cfg.OCRTimeout, log)
	if err != nil {
		return err
	}
	defer closeGateway(gateway, log)

	pipeline := extract.New(gateway, logger.WithComponent("extract"))

	entries := make([]report.Entry, 0, len(files))
	for i, path := range files {
		name := filepath.Base(path)

		data, err := readReportPDF(path, log)
		if err != nil {
			fmt.Printf("[%d/%d] %s - skipped (%v)\n", i+1, len(files), name, err)
			continue
		}

		results, err := pipeline.ExtractTeacher(ctx, data, teacherName)
		if err != nil {
			// Only the empty-query guard raises here, and it would fail
			// identically for every file in the batch.
			return err
		}
		if len(results) == 0 {
			fmt.Printf("[%d/%d] %s - no matching sections\n", i+1, len(files), name)
			continue
		}

		merged, err := mergeSections(results)
		if err != nil {
			log.Error().
				Err(err).
				Str("file", name).
				Msg("Failed to merge matched sections")
			continue
		}

		entries = append(entries, report.Entry{Filename: name, Result: merged})
		fmt.Printf("[%d/%d] %s - %d section(s), test %s, via %s\n",
			i+1, len(files), name, merged.Data.MatchCount, merged.TestName, merged.Method)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no result sections for %q found in any of the %d file(s)", teacherName, len(files))
	}

	displayName := entries[0].Result.Data.FacultyName
	if displayName == "" {
		displayName = teacherName
	}

	workbook, err := report.BuildTeacherAnalysis(report.DefaultLayout(), displayName, entries)
	if err != nil {
		return fmt.Errorf("failed to build analysis workbook: %w", err)
	}

	if err := os.WriteFile(outputPath, workbook, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write workbook")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("files_matched", len(entries)).
		Int("files_total", len(files)).
		Msg("Teacher analysis completed")

	fmt.Printf("\nAnalysis for %s written to %s (%d of %d files matched)\n",
		displayName, outputPath, len(entries), len(files))
	return nil
}

// mergeSections folds every matched section of one document into a single
// aggregated result carrying the metadata of the first match.
func mergeSections(results []models.ExtractionResult) (models.ExtractionResult, error) {
	records := make([]models.MatchRecord, 0, len(results))
	for _, r := range results {
		records = append(records, r.Data.MatchRecord)
	}

	merged, err := extract.Aggregate(records)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	result := results[0]
	result.Data = merged
	return result, nil
}

// validateReportPDF checks that the path is a readable, non-empty regular file.
func validateReportPDF(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", path).
				Msg("PDF file not found")
			return nil, fmt.Errorf("PDF file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", path).
				Msg("Permission denied accessing PDF file")
			return nil, fmt.Errorf("permission denied accessing PDF file: %s", path)
		}
		return nil, fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", path).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		log.Warn().
			Str("file", path).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", path).
			Msg("PDF file is empty")
		return nil, fmt.Errorf("PDF file is empty: %s", path)
	}

	if fileInfo.Size() > ocr.MaxFileSizeBytes {
		// Native extraction still works; only the recognition fallback is
		// limited to 20MB per document.
		log.Warn().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Int64("max_ocr_size", ocr.MaxFileSizeBytes).
			Msg("File exceeds the recognition size limit, OCR fallback unavailable")
	}

	return fileInfo, nil
}

// readReportPDF validates the path and loads the document into memory.
func readReportPDF(path string, log zerolog.Logger) ([]byte, error) {
	if _, err := validateReportPDF(path, log); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", path).
			Msg("Failed to read PDF file")
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}
	return data, nil
}

// createSignalContext creates a context with timeout and interrupt handling.
func createSignalContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// createRecognitionGateway builds the degrading recognition gateway around
// the provider named by OCR_PROVIDER. An OCR.space provider without an API
// key is still usable and yields empty text; the Google providers need
// working credentials up front.
func createRecognitionGateway(ctx context.Context, cfg *config.Config, timeout time.Duration, log zerolog.Logger) (*ocr.Gateway, error) {
	switch cfg.OCRProvider {
	case config.ProviderOCRSpace:
		spaceCfg := ocr.DefaultOCRSpaceConfig()
		spaceCfg.Endpoint = cfg.OCRSpaceEndpoint
		spaceCfg.APIKey = cfg.OCRSpaceAPIKey
		spaceCfg.Language = cfg.OCRLanguage
		spaceCfg.Engine = cfg.OCREngine
		if spaceCfg.APIKey == "" {
			log.Warn().Msg("OCR_SPACE_API_KEY not set, scanned documents will yield empty results")
		}
		return ocr.NewGateway(ocr.NewOCRSpaceService(spaceCfg), timeout), nil

	case config.ProviderVision:
		service, err := ocr.NewGoogleVisionOCRService(ctx)
		if err != nil {
			if errors.Is(err, ocr.ErrMissingCredentials) {
				log.Error().
					Err(err).
					Msg("Google Cloud credentials not configured")
				return nil, fmt.Errorf("missing Google Cloud credentials for the vision provider. Please set one of:\n"+
					"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n"+
					"  GOOGLE_CREDENTIALS='<json-credentials>'\n"+
					"Original error: %w", err)
			}
			log.Error().
				Err(err).
				Msg("Failed to create vision recognizer")
			return nil, fmt.Errorf("failed to create vision recognizer: %w", err)
		}
		return ocr.NewGateway(service, timeout), nil

	case config.ProviderDocumentAI:
		service, err := ocr.NewDocumentAIOCRService(ctx, ocr.DocumentAIConfig{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		})
		if err != nil {
			if errors.Is(err, ocr.ErrMissingCredentials) {
				log.Error().
					Err(err).
					Msg("Document AI configuration incomplete")
				return nil, fmt.Errorf("incomplete Document AI configuration. Please set:\n"+
					"  GOOGLE_CLOUD_PROJECT - your Google Cloud project ID\n"+
					"  DOCUMENT_AI_PROCESSOR_ID - your OCR processor ID\n"+
					"  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS\n"+
					"Original error: %w", err)
			}
			log.Error().
				Err(err).
				Msg("Failed to create Document AI recognizer")
			return nil, fmt.Errorf("failed to create Document AI recognizer: %w", err)
		}
		return ocr.NewGateway(service, timeout), nil

	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", cfg.OCRProvider)
	}
}

// closeGateway releases gateway resources, logging instead of failing.
func closeGateway(gateway *ocr.Gateway, log zerolog.Logger) {
	if err := gateway.Close(); err != nil {
		log.Warn().
			Err(err).
			Msg("Failed to close recognition gateway")
	}
}
