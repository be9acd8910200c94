package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"resultex/internal/config"
	"resultex/internal/extract"
	"resultex/internal/logger"
	"resultex/internal/report"
)

var overallCmd = &cobra.Command{
	Use:   "overall [pdf-file...]",
	Short: "Aggregate every class section per report into a subject-wise XLSX",
	Long: `Process result report PDFs in overall mode: every data row of each
report is aggregated into one class-level record per file, and the records
are grouped into one worksheet per subject code.

Files are processed in parallel by a worker pool; per-file failures are
reported and skipped without aborting the batch. The run fails only when
no file yields any data.

Optional environment variables:
  OCR_PROVIDER      - ocrspace (default), vision, or documentai
  OCR_SPACE_API_KEY - OCR.space account key
  BATCH_WORKERS     - Number of parallel workers (default: 4)`,
	Example: `  # Subject-wise overview of a whole results folder
  resultex overall reports/*.pdf

  # Custom output path and a larger worker pool
  BATCH_WORKERS=8 resultex overall -o semester.xlsx reports/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOverall,
}

// overallJob is one document handed to the worker pool.
type overallJob struct {
	Path  string
	Index int
}

// overallResult is the per-document outcome, kept at its input index so the
// report preserves filename order.
type overallResult struct {
	Entry report.Entry
	Err   error
}

func init() {
	rootCmd.AddCommand(overallCmd)

	overallCmd.Flags().StringP("output", "o", "overall.xlsx", "Output workbook path")
	overallCmd.Flags().Int("timeout", 600, "Processing timeout in seconds for the whole batch")
}

func runOverall(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("overall")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	files := append([]string(nil), args...)
	sort.Strings(files)

	numWorkers := getWorkerCount()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	log.Info().
		Int("files", len(files)).
		Int("workers", numWorkers).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting overall analysis")

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

	fmt.Printf("Processing %d file(s) with %d worker(s)...\n", len(files), numWorkers)
	results := extractOverallParallel(ctx, pipeline, files, numWorkers, log)

	entries := make([]report.Entry, 0, len(files))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		entries = append(entries, r.Entry)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no result tables found in any of the %d file(s)", len(files))
	}

	workbook, err := report.BuildOverallAnalysis(report.DefaultLayout(), entries)
	if err != nil {
		return fmt.Errorf("failed to build overall workbook: %w", err)
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
		Msg("Overall analysis completed")

	fmt.Printf("\nOverall analysis written to %s (%d of %d files matched)\n",
		outputPath, len(entries), len(files))
	return nil
}

// extractOverallParallel runs overall extraction across a worker pool.
// Results land at their input index so downstream grouping stays in
// filename order regardless of completion order.
func extractOverallParallel(ctx context.Context, pipeline *extract.Pipeline, files []string, numWorkers int, log zerolog.Logger) []overallResult {
	jobs := make(chan overallJob, len(files))
	results := make([]overallResult, len(files))

	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.Path).
					Msg("Worker processing PDF")

				results[job.Index] = extractOverallFile(ctx, pipeline, job.Path, log)

				mu.Lock()
				processedCount++
				current := processedCount
				name := filepath.Base(job.Path)
				if err := results[job.Index].Err; err != nil {
					fmt.Printf("[%d/%d] %s - skipped (%v)\n", current, len(files), name, err)
				} else {
					entry := results[job.Index].Entry
					fmt.Printf("[%d/%d] %s - %s, %d row(s)\n",
						current, len(files), name, entry.Result.SubjectCode, entry.Result.Data.MatchCount)
				}
				mu.Unlock()
			}
		}(w)
	}

	for i, path := range files {
		jobs <- overallJob{Path: path, Index: i}
	}
	close(jobs)

	wg.Wait()
	return results
}

// extractOverallFile processes one document and shapes it into a report entry.
func extractOverallFile(ctx context.Context, pipeline *extract.Pipeline, path string, log zerolog.Logger) overallResult {
	data, err := readReportPDF(path, log)
	if err != nil {
		return overallResult{Err: err}
	}

	result, err := pipeline.ExtractOverall(ctx, data)
	if err != nil {
		if errors.Is(err, extract.ErrNoMatches) {
			return overallResult{Err: fmt.Errorf("no result table found")}
		}
		return overallResult{Err: err}
	}

	return overallResult{Entry: report.Entry{
		Filename: filepath.Base(path),
		Result:   result,
	}}
}

// getWorkerCount returns the worker pool size from the environment or the default.
func getWorkerCount() int {
	if workersStr := os.Getenv("BATCH_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			return workers
		}
	}
	return 4
}
