package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"resultex/internal/ocr"
)

// Example demonstrates basic usage of the OCR.space provider.
func Example() {
	// Create context with timeout for the recognition call
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Configure the default provider from the environment
	config := ocr.DefaultOCRSpaceConfig()
	config.APIKey = os.Getenv("OCR_SPACE_API_KEY")
	service := ocr.NewOCRSpaceService(config)

	// Open the report PDF
	pdfFile, err := os.Open("report.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	text, err := service.ProcessPDF(ctx, pdfFile)
	if err != nil {
		log.Fatalf("Failed to recognize PDF: %v", err)
	}

	fmt.Printf("Recognized text (%d characters):\n%s\n", len(text), text)
}

// ExampleGateway demonstrates the degradation contract the extraction
// pipeline relies on: recognition failures yield empty text, never an error.
func ExampleGateway() {
	ctx := context.Background()

	config := ocr.DefaultOCRSpaceConfig()
	config.APIKey = os.Getenv("OCR_SPACE_API_KEY")
	gateway := ocr.NewGateway(ocr.NewOCRSpaceService(config), 30*time.Second)
	defer gateway.Close()

	data, err := os.ReadFile("scanned_report.pdf")
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	// Empty text means recognition was unavailable or failed; the caller
	// must treat the document as yielding no data.
	text := gateway.Recognize(ctx, data)
	if text == "" {
		fmt.Println("no recognized text for this document")
		return
	}
	fmt.Printf("recognized %d characters\n", len(text))
}

// Example_errorHandling demonstrates provider error handling patterns.
func Example_errorHandling() {
	ctx := context.Background()

	service := ocr.NewOCRSpaceService(ocr.OCRSpaceConfig{
		APIKey: os.Getenv("OCR_SPACE_API_KEY"),
	})

	pdfFile, err := os.Open("report.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	text, err := service.ProcessPDF(ctx, pdfFile)
	if err != nil {
		switch {
		case errors.Is(err, ocr.ErrMissingCredentials):
			log.Printf("Set OCR_SPACE_API_KEY to enable recognition.")
			return
		case errors.Is(err, ocr.ErrEmptyDocument):
			log.Printf("No readable text found in the document.")
			return
		case errors.Is(err, ocr.ErrOCRFailed):
			log.Printf("The recognition service rejected the document.")
			return
		default:
			log.Fatalf("Recognition failed: %v", err)
		}
	}

	fmt.Printf("Recognized %d characters\n", len(text))
}

// Example_alternateProviders demonstrates selecting a Google provider instead
// of OCR.space.
func Example_alternateProviders() {
	ctx := context.Background()

	// Vision: credentials from GOOGLE_APPLICATION_CREDENTIALS / GOOGLE_CREDENTIALS
	visionService, err := ocr.NewGoogleVisionOCRService(ctx)
	if err != nil {
		log.Fatalf("Failed to create Vision service: %v", err)
	}

	// Document AI: also needs a processor
	docaiService, err := ocr.NewDocumentAIOCRService(ctx, ocr.DocumentAIConfig{
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ProcessorID: os.Getenv("DOCUMENT_AI_PROCESSOR_ID"),
	})
	if err != nil {
		log.Fatalf("Failed to create Document AI service: %v", err)
	}

	// Either provider slots behind the same gateway
	_ = ocr.NewGateway(visionService, 30*time.Second)
	_ = ocr.NewGateway(docaiService, 30*time.Second)
}
