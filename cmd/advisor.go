package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"resultex/internal/config"
	"resultex/internal/extract"
	"resultex/internal/logger"
	"resultex/internal/report"
)

var advisorCmd = &cobra.Command{
	Use:   "advisor [pdf-file...]",
	Short: "Build a class advisor's consolidated XLSX across a faculty roster",
	Long: `Process result report PDFs against a faculty roster: every roster
entry is searched in every file, and a match is kept only when the
report's subject code agrees with the roster entry. Matches are grouped
by test component into one worksheet per test.

The roster is a JSON array of objects with "name" and "subject_code":

  [
    {"name": "Dr.Kumar", "subject_code": "21CSC205P"},
    {"name": "Anand", "subject_code": "21MAB301T"}
  ]`,
	Example: `  # Consolidated view for a class advisor's section
  resultex advisor --faculty faculty.json reports/*.pdf

  # Custom output path
  resultex advisor --faculty faculty.json -o class-a.xlsx reports/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdvisor,
}

// FacultyEntry is one roster line pairing a teacher with the subject they
// are expected to appear under.
type FacultyEntry struct {
	Name        string `json:"name"`
	SubjectCode string `json:"subject_code"`
}

func init() {
	rootCmd.AddCommand(advisorCmd)

	advisorCmd.Flags().StringP("faculty", "f", "", "Path to the faculty roster JSON file [REQUIRED]")
	advisorCmd.Flags().StringP("output", "o", "advisor.xlsx", "Output workbook path")
	advisorCmd.Flags().Int("timeout", 600, "Processing timeout in seconds for the whole batch")

	advisorCmd.MarkFlagRequired("faculty")
}

func runAdvisor(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("advisor")

	facultyPath, _ := cmd.Flags().GetString("faculty")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	roster, err := loadFacultyRoster(facultyPath)
	if err != nil {
		return err
	}

	files := append([]string(nil), args...)
	sort.Strings(files)

	log.Info().
		Int("files", len(files)).
		Int("faculty", len(roster)).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting advisor analysis")

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

	// Worksheets appear in the order test components are first seen.
	var testOrder []string
	grouped := make(map[string][]report.Entry)
	matchCount := 0

	for i, path := range files {
		name := filepath.Base(path)

		data, err := readReportPDF(path, log)
		if err != nil {
			fmt.Printf("[%d/%d] %s - skipped (%v)\n", i+1, len(files), name, err)
			continue
		}

		fileMatches := 0
		for _, entry := range roster {
			results, err := pipeline.ExtractTeacher(ctx, data, entry.Name)
			if err != nil {
				return fmt.Errorf("faculty entry %q: %w", entry.Name, err)
			}

			kept := results[:0]
			for _, r := range results {
				if strings.EqualFold(r.SubjectCode, entry.SubjectCode) {
					kept = append(kept, r)
				}
			}
			if len(kept) == 0 {
				continue
			}

			merged, err := mergeSections(kept)
			if err != nil {
				log.Error().
					Err(err).
					Str("file", name).
					Str("teacher", entry.Name).
					Msg("Failed to merge matched sections")
				continue
			}

			testName := merged.TestName
			if _, seen := grouped[testName]; !seen {
				testOrder = append(testOrder, testName)
			}
			grouped[testName] = append(grouped[testName], report.Entry{Filename: name, Result: merged})
			fileMatches++
		}

		matchCount += fileMatches
		fmt.Printf("[%d/%d] %s - %d of %d roster entries matched\n",
			i+1, len(files), name, fileMatches, len(roster))
	}

	if matchCount == 0 {
		return fmt.Errorf("no records matched the %d roster entries in any of the %d file(s)", len(roster), len(files))
	}

	groups := make([]report.TestGroup, 0, len(testOrder))
	for _, testName := range testOrder {
		groups = append(groups, report.TestGroup{
			TestName: testName,
			Entries:  grouped[testName],
		})
	}

	workbook, err := report.BuildAdvisorAnalysis(report.DefaultLayout(), groups)
	if err != nil {
		return fmt.Errorf("failed to build advisor workbook: %w", err)
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
		Int("matches", matchCount).
		Int("tests", len(groups)).
		Msg("Advisor analysis completed")

	fmt.Printf("\nAdvisor analysis written to %s (%d matches across %d test component(s))\n",
		outputPath, matchCount, len(groups))
	return nil
}

// loadFacultyRoster reads and validates the roster JSON file.
func loadFacultyRoster(path string) ([]FacultyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read faculty roster: %w", err)
	}

	var roster []FacultyEntry
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("invalid faculty roster JSON: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("faculty roster is empty: %s", path)
	}
	for i, entry := range roster {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("faculty roster entry %d has no name", i+1)
		}
		if strings.TrimSpace(entry.SubjectCode) == "" {
			return nil, fmt.Errorf("faculty roster entry %d (%s) has no subject_code", i+1, entry.Name)
		}
	}
	return roster, nil
}
