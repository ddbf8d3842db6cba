package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"
)

// XLSXWriter renders a report as a workbook: a Summary sheet with bar charts
// of the totals and category breakdowns, and a Transactions sheet. Category
// blocks always list every category in rule order so chart axes are stable
// between statements.
type XLSXWriter struct {
	// Charts adds the bar charts to the Summary sheet.
	Charts bool
}

// Write renders the workbook into out.
func (w *XLSXWriter) Write(out io.Writer, report *models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := w.writeSummary(f, report.Summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return fmt.Errorf("failed to add transactions sheet: %w", err)
	}
	if err := writeTransactions(f, report.Transactions); err != nil {
		return err
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeSummary(f *excelize.File, s models.Summary) error {
	rows := [][]interface{}{
		{"Metric", "Amount"},
		{"Debit", s.TotalDebit.InexactFloat64()},
		{"Credit", s.TotalCredit.InexactFloat64()},
	}
	totalsRange := [2]int{2, 3}

	debitStart := len(rows) + 2
	rows = append(rows, nil, []interface{}{"Debit Category", "Amount"})
	for _, cs := range OrderedCategories(s.DebitByCategory, models.PolarityDebit) {
		rows = append(rows, []interface{}{string(cs.Category), cs.Amount.InexactFloat64()})
	}
	debitRange := [2]int{debitStart + 1, len(rows)}

	creditStart := len(rows) + 2
	rows = append(rows, nil, []interface{}{"Credit Category", "Amount"})
	for _, cs := range OrderedCategories(s.CreditByCategory, models.PolarityCredit) {
		rows = append(rows, []interface{}{string(cs.Category), cs.Amount.InexactFloat64()})
	}
	creditRange := [2]int{creditStart + 1, len(rows)}

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	if !w.Charts {
		return nil
	}

	charts := []struct {
		title  string
		anchor string
		rows   [2]int
	}{
		{"Debit vs Credit", "D2", totalsRange},
		{"Debit Categories", "D18", debitRange},
		{"Credit Categories", "D34", creditRange},
	}
	for _, c := range charts {
		if err := addBarChart(f, c.anchor, c.title, c.rows); err != nil {
			return err
		}
	}
	return nil
}

func addBarChart(f *excelize.File, anchor, title string, rows [2]int) error {
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       title,
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", summarySheet, rows[0], rows[1]),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", summarySheet, rows[0], rows[1]),
		}},
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if err := f.AddChart(summarySheet, anchor, chart); err != nil {
		return fmt.Errorf("failed to add %q chart: %w", title, err)
	}
	return nil
}

func writeTransactions(f *excelize.File, txns []models.Transaction) error {
	header := []interface{}{"Trans Date", "Value Date", "Reference", "Debit", "Credit", "Balance", "Branch", "Remarks", "Type", "Category"}
	if err := f.SetSheetRow(transactionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write transactions header: %w", err)
	}

	for i, txn := range txns {
		row := []interface{}{
			formatDate(txn),
			txn.ValueDate,
			txn.Reference,
			txn.Debit.InexactFloat64(),
			txn.Credit.InexactFloat64(),
			txn.Balance.InexactFloat64(),
			txn.Branch,
			txn.Remarks,
			string(txn.Polarity),
			string(txn.Category),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write transaction row %d: %w", i+1, err)
		}
	}
	return nil
}
