package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

const dateLayout = "2006-01-02"

// CSVWriter writes categorized transactions to CSV format.
type CSVWriter struct {
	IncludeSummary bool
}

// Write writes the report in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, report *models.Report) error {
	writer := csv.NewWriter(out)

	// Summary rows first, prefixed so spreadsheet users can filter them out
	if w.IncludeSummary {
		rows := [][]string{
			{"# Run", report.RunID},
			{"# Total Debit", formatAmount(report.Summary.TotalDebit)},
			{"# Total Credit", formatAmount(report.Summary.TotalCredit)},
		}
		for _, cs := range SortedCategories(report.Summary.DebitByCategory) {
			rows = append(rows, []string{"# Debit " + string(cs.Category), formatAmount(cs.Amount)})
		}
		for _, cs := range SortedCategories(report.Summary.CreditByCategory) {
			rows = append(rows, []string{"# Credit " + string(cs.Category), formatAmount(cs.Amount)})
		}
		for _, row := range rows {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV summary: %w", err)
			}
		}
	}

	header := []string{"Trans Date", "Value Date", "Reference", "Debit", "Credit", "Balance", "Branch", "Remarks", "Type", "Category"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range report.Transactions {
		row := []string{
			formatDate(txn),
			txn.ValueDate,
			txn.Reference,
			formatAmount(txn.Debit),
			formatAmount(txn.Credit),
			formatAmount(txn.Balance),
			txn.Branch,
			txn.Remarks,
			string(txn.Polarity),
			string(txn.Category),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return amount.StringFixed(2)
}

func formatDate(txn models.Transaction) string {
	if !txn.HasTransDate() {
		return ""
	}
	return txn.TransDate.Format(dateLayout)
}
