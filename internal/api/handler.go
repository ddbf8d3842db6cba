package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "2.0.0"

// Analyzer runs the statement pipeline over an uploaded document.
type Analyzer interface {
	Process(ctx context.Context, data []byte) (*models.Report, error)
}

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success          bool                                `json:"success"`
	Error            string                              `json:"error,omitempty"`
	RunID            string                              `json:"runId,omitempty"`
	Pages            int                                 `json:"pages,omitempty"`
	TotalDebit       decimal.Decimal                     `json:"totalDebit"`
	TotalCredit      decimal.Decimal                     `json:"totalCredit"`
	DebitByCategory  map[models.Category]decimal.Decimal `json:"debitByCategory,omitempty"`
	CreditByCategory map[models.Category]decimal.Decimal `json:"creditByCategory,omitempty"`
	Transactions     []models.Transaction                `json:"transactions"`
	Repairs          []models.Repair                     `json:"repairs,omitempty"`
	Count            int                                 `json:"count"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Analyzer Analyzer
	Log      zerolog.Logger
}

// NewApp builds the fiber app with all routes registered.
func NewApp(h *Handler, maxUploadBytes int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-analyzer",
		BodyLimit:             maxUploadBytes,
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(h.requestLogger)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/analyze", h.HandleAnalyze)
	app.Post("/api/report", h.HandleReport)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
	})
}

// HandleAnalyze runs the pipeline over the uploaded statement and returns
// the summary and categorized transactions as JSON.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	report, err := h.analyzeUpload(c)
	if err != nil {
		return err
	}

	txns := report.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	return c.JSON(AnalyzeResponse{
		Success:          true,
		RunID:            report.RunID,
		Pages:            report.Pages,
		TotalDebit:       report.Summary.TotalDebit,
		TotalCredit:      report.Summary.TotalCredit,
		DebitByCategory:  report.Summary.DebitByCategory,
		CreditByCategory: report.Summary.CreditByCategory,
		Transactions:     txns,
		Repairs:          report.Repairs,
		Count:            len(txns),
	})
}

// HandleReport runs the pipeline and returns the report as a CSV or XLSX
// attachment, selected by the format query parameter (csv by default).
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "csv"))
	if format != "csv" && format != "xlsx" {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Unknown format %q. Use csv or xlsx.", format))
	}

	report, err := h.analyzeUpload(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	switch format {
	case "xlsx":
		err = (&writer.XLSXWriter{Charts: true}).Write(&buf, report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		err = (&writer.CSVWriter{IncludeSummary: true}).Write(&buf, report)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Report generation failed: %v", err))
	}

	c.Attachment("statement-report." + format)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(buf.Bytes())
}

func (h *Handler) analyzeUpload(c *fiber.Ctx) (*models.Report, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file.")
	}

	ctx := logger.WithContext(c.UserContext(), h.Log.With().Str("file", fh.Filename).Logger())
	report, err := h.Analyzer.Process(ctx, data)
	if err != nil {
		if errors.Is(err, extractor.ErrUnreadableDocument) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("Statement could not be read: %v", err))
		}
		return nil, fmt.Errorf("analyzing %s: %w", fh.Filename, err)
	}
	return report, nil
}

// handleError renders every error as the JSON error envelope.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal server error."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	} else {
		h.Log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(AnalyzeResponse{
		Success: false,
		Error:   msg,
	})
}

func (h *Handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := h.handleError(c, err); herr != nil {
			return herr
		}
	}
	h.Log.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return nil
}
