//go:build windows

package services

import (
	"errors"
)

// DefaultOCRLanguage covers the Spanish and English mix of wholesaler lists
const DefaultOCRLanguage = "spa+eng"

var errOCRUnavailable = errors.New("OCR is not available on Windows - paste the price list as text or run in Docker")

// OCRService is a stub; tesseract is not linked on Windows builds
type OCRService struct{}

// OCRResult contains the OCR processing result
type OCRResult struct {
	Text string
}

// NewOCRService always fails on Windows
func NewOCRService(language string) (*OCRService, error) {
	return nil, errOCRUnavailable
}

// ProcessImage processes an image from bytes and returns extracted text
func (s *OCRService) ProcessImage(imageBytes []byte) (*OCRResult, error) {
	return nil, errOCRUnavailable
}

// ProcessImageFromPath processes an image from a file path
func (s *OCRService) ProcessImageFromPath(imagePath string) (*OCRResult, error) {
	return nil, errOCRUnavailable
}

// Close releases OCR resources
func (s *OCRService) Close() error {
	return nil
}
