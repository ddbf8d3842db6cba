// Package pipeline runs a statement through extraction, normalization,
// classification and aggregation.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/insightdelivered/statement-analyzer/internal/aggregator"
	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/normalizer"
)

// Pipeline holds the settings shared by runs. Runs themselves keep no state
// on the Pipeline, so one value can serve concurrent callers.
type Pipeline struct {
	TableOptions extractor.TableOptions
}

// New returns a Pipeline using opts for PDF table detection.
func New(opts extractor.TableOptions) *Pipeline {
	return &Pipeline{TableOptions: opts}
}

// Process analyzes a PDF statement held in memory. Unreadable documents
// fail the whole run; no partial report is returned.
func (p *Pipeline) Process(ctx context.Context, data []byte) (*models.Report, error) {
	doc, err := extractor.OpenPDF(data, p.TableOptions)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	return p.ProcessDocument(ctx, doc)
}

// ProcessDocument analyzes any tabular document.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc extractor.Document) (*models.Report, error) {
	runID := uuid.New().String()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Logger()
	log.Debug().Int("pages", doc.NumPages()).Msg("extracting statement")

	norm := normalizer.New()
	agg := aggregator.New()
	txns := []models.Transaction{}

	index := 0
	for row, err := range extractor.Rows(ctx, doc) {
		if err != nil {
			log.Error().Err(err).Msg("statement extraction failed")
			return nil, fmt.Errorf("extracting statement: %w", err)
		}

		txn, ok := norm.Decode(row, index)
		index++
		if !ok {
			continue
		}
		aggregator.Annotate(&txn)
		agg.Add(txn)
		txns = append(txns, txn)
	}

	report := &models.Report{
		RunID:        runID,
		Pages:        doc.NumPages(),
		Summary:      agg.Summary(),
		Transactions: txns,
		Repairs:      norm.Repairs(),
	}

	if n := len(report.Repairs); n > 0 {
		log.Warn().Int("repairs", n).Msg("some fields could not be parsed and were defaulted")
	}
	log.Info().
		Int("pages", report.Pages).
		Int("transactions", len(txns)).
		Str("total_debit", report.Summary.TotalDebit.StringFixed(2)).
		Str("total_credit", report.Summary.TotalCredit.StringFixed(2)).
		Msg("statement analyzed")

	return report, nil
}
