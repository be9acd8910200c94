package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resultex/internal/attendance"
	"resultex/internal/config"
	"resultex/internal/logger"
	"resultex/internal/report"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance [pdf-file]",
	Short: "Extract attendance shortages from a report PDF into an XLSX sheet",
	Long: `Recognize a cumulative attendance report and list every student whose
attendance in any subject falls below the shortage threshold.

Attendance reports are always routed through text recognition, so the
configured OCR provider must be usable for this command. The threshold
and the subject-to-percentage association window come from the
environment (ATTENDANCE_THRESHOLD, ATTENDANCE_LOOKAHEAD).`,
	Example: `  # Shortage report for one section
  resultex attendance attendance-cse-a.pdf

  # Label the sheet with section and advisor
  resultex attendance --section "CSE-A" --advisor "Dr.Kumar" attendance.pdf

  # Custom output path
  resultex attendance -o shortages.xlsx attendance.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().String("section", "", "Section label printed on the sheet")
	attendanceCmd.Flags().String("advisor", "", "Faculty advisor label printed on the sheet")
	attendanceCmd.Flags().StringP("output", "o", "attendance.xlsx", "Output workbook path")
	attendanceCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("attendance")

	section, _ := cmd.Flags().GetString("section")
	advisor, _ := cmd.Flags().GetString("advisor")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	log.Info().
		Str("file", pdfPath).
		Str("section", section).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting attendance extraction")

	ctx, cancel := createSignalContext(timeoutSecs, log)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gateway, err := createRecognitionGateway(ctx, cfg, cfg.AttendanceOCRTimeout, log)
	if err != nil {
		return err
	}
	defer closeGateway(gateway, log)

	data, err := readReportPDF(pdfPath, log)
	if err != nil {
		return err
	}

	parser := attendance.NewParser(attendance.Config{
		LowAttendanceThreshold: cfg.AttendanceThreshold,
		LookaheadChars:         cfg.AttendanceLookahead,
	}, logger.WithComponent("attendance-parser"))

	records, err := parser.ExtractPDF(ctx, gateway, data)
	if err != nil {
		if errors.Is(err, attendance.ErrNoText) {
			return fmt.Errorf("no text could be recognized from %s. "+
				"Check the OCR provider configuration and credentials", filepath.Base(pdfPath))
		}
		return fmt.Errorf("attendance extraction failed: %w", err)
	}

	if len(records) == 0 {
		log.Info().
			Str("file", pdfPath).
			Float64("threshold", cfg.AttendanceThreshold).
			Msg("No shortages found")
		fmt.Printf("No attendance shortages below %.0f%% found in %s\n",
			cfg.AttendanceThreshold, filepath.Base(pdfPath))
		return nil
	}

	workbook, err := report.BuildAttendanceSheet(report.DefaultLayout(), section, advisor, cfg.AttendanceThreshold, records)
	if err != nil {
		return fmt.Errorf("failed to build attendance workbook: %w", err)
	}

	if err := os.WriteFile(outputPath, workbook, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write workbook")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	subjectRows := 0
	for _, r := range records {
		subjectRows += len(r.Subjects)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("students", len(records)).
		Int("subject_rows", subjectRows).
		Msg("Attendance extraction completed")

	fmt.Printf("Attendance shortage report written to %s (%d student(s), %d subject row(s))\n",
		outputPath, len(records), subjectRows)
	return nil
}
