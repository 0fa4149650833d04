//go:build !windows

package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// DefaultOCRLanguage covers the Spanish and English mix of wholesaler lists
const DefaultOCRLanguage = "spa+eng"

// OCRService turns screenshots or scans of wholesaler price lists into text.
// The tesseract client is not safe for concurrent use, so calls are serialized.
type OCRService struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// OCRResult contains the OCR processing result
type OCRResult struct {
	Text string
}

// NewOCRService creates a new OCR service for the given tesseract languages
func NewOCRService(language string) (*OCRService, error) {
	if language == "" {
		language = DefaultOCRLanguage
	}

	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Price lists are columns of description and price lines
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_COLUMN); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &OCRService{
		client: client,
	}, nil
}

// ProcessImage processes an image from bytes and returns extracted text
func (s *OCRService) ProcessImage(imageBytes []byte) (*OCRResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetImageFromBytes(imageBytes); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return s.text()
}

// ProcessImageFromPath processes an image from a file path
func (s *OCRService) ProcessImageFromPath(imagePath string) (*OCRResult, error) {
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("image file not found: %s", imagePath)
	}

	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetImage(absPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return s.text()
}

func (s *OCRService) text() (*OCRResult, error) {
	text, err := s.client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	return &OCRResult{Text: text}, nil
}

// Close releases OCR resources
func (s *OCRService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
