package handlers

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/stock-sync/internal/middleware"
	"github.com/foxxcyber/stock-sync/internal/models"
	"github.com/foxxcyber/stock-sync/internal/services"
)

const maxPriceListImageSize = 10 * 1024 * 1024

// AnalyzeStock reconciles a pasted wholesaler price list against the catalog
// POST /api/admin/stock/analyze
func (h *Handler) AnalyzeStock(c *fiber.Ctx) error {
	var req models.StockAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.stock.Analyze(c.Context(), &req, currentUser(c))
	if err != nil {
		return stockError(c, err, "failed to analyze stock")
	}

	return Success(c, report)
}

// AnalyzeStockImage runs OCR on an uploaded price list image and reconciles the text
// POST /api/admin/stock/analyze-image
func (h *Handler) AnalyzeStockImage(c *fiber.Ctx) error {
	if h.ocr == nil {
		return Error(c, fiber.StatusServiceUnavailable, "image analysis is not available")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	if !isValidImageType(file.Header.Get("Content-Type")) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	if file.Size > maxPriceListImageSize {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	result, err := h.ocr.ProcessImage(imageBytes)
	if err != nil {
		log.Printf("Warning: OCR failed for %s: %v", file.Filename, err)
		return Error(c, fiber.StatusUnprocessableEntity, "could not read text from image")
	}

	req := models.StockAnalysisRequest{
		WholesalerData: result.Text,
		Category:       c.FormValue("category"),
		Subcategory:    c.FormValue("subcategory"),
	}

	report, err := h.stock.Analyze(c.Context(), &req, currentUser(c))
	if err != nil {
		return stockError(c, err, "failed to analyze stock")
	}

	return Success(c, report)
}

// UpdateBulkStock flags products in or out of stock
// POST /api/admin/stock/bulk
func (h *Handler) UpdateBulkStock(c *fiber.Ctx) error {
	var req models.BulkStockRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.stock.UpdateBulkStock(c.Context(), &req)
	if err != nil {
		return stockError(c, err, "failed to update stock")
	}

	return Success(c, result)
}

// UpdatePrices recomputes catalog prices from wholesaler prices
// POST /api/admin/stock/prices
func (h *Handler) UpdatePrices(c *fiber.Ctx) error {
	var req models.PriceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.stock.UpdatePrices(c.Context(), &req)
	if err != nil {
		return stockError(c, err, "failed to update prices")
	}

	return Success(c, result)
}

// ListStockRuns returns the reconciliation run history
// GET /api/admin/stock/runs
func (h *Handler) ListStockRuns(c *fiber.Ctx) error {
	params := &models.StockRunListParams{
		Limit:  c.QueryInt("limit", h.cfg.RunHistoryLimit),
		Offset: c.QueryInt("offset", 0),
	}

	// Validate limits
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = h.cfg.RunHistoryLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	runs, total, err := h.stock.ListRuns(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list stock runs")
	}

	return SuccessWithMeta(c, runs, total, params.Limit, params.Offset)
}

// stockError maps stock service errors to HTTP responses
func stockError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return Error(c, fiber.StatusBadRequest, strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": "))
	case errors.Is(err, services.ErrPersistence):
		return Error(c, fiber.StatusInternalServerError, services.ErrPersistence.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		return Error(c, fiber.StatusInternalServerError, fallback)
	}
}

// currentUser returns the authenticated user id, if any
func currentUser(c *fiber.Ctx) *int {
	if id := middleware.GetUserID(c); id != 0 {
		return &id
	}
	return nil
}

// isValidImageType checks if the content type is a supported image
func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}

	for _, t := range validTypes {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}
