package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/extractor/pdftest"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

var header = []string{"Trans Date", "Value Date", "Reference", "Debit", "Credit", "Balance", "Branch", "Remarks"}

func quietContext(buf *bytes.Buffer) context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(buf, logger.Options{Format: "json"}))
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "got %s, want %s", got, want)
}

func TestProcessDocument_SalaryAndWithdrawal(t *testing.T) {
	doc := extractor.MemoryDocument{{
		header,
		{"01-Apr-2024", "01-Apr-2024", "FT001", "2,000.00", "0", "98,000.00", "Ikeja", "ATM Withdrawal Lagos"},
		{"30-Apr-2024", "30-Apr-2024", "FT002", "0", "150,000.00", "248,000.00", "Ikeja", "SALARY APR"},
	}}

	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).ProcessDocument(quietContext(&buf), doc)
	require.NoError(t, err)

	s := report.Summary
	requireDecimal(t, "2000", s.TotalDebit)
	requireDecimal(t, "150000", s.TotalCredit)
	require.Len(t, s.DebitByCategory, 1)
	require.Len(t, s.CreditByCategory, 1)
	requireDecimal(t, "2000", s.DebitByCategory[models.CategoryWithdrawal])
	requireDecimal(t, "150000", s.CreditByCategory[models.CategorySalary])

	require.Len(t, report.Transactions, 2)
	assert.Equal(t, models.PolarityDebit, report.Transactions[0].Polarity)
	assert.Equal(t, models.CategoryWithdrawal, report.Transactions[0].Category)
	assert.Equal(t, models.PolarityCredit, report.Transactions[1].Polarity)
	assert.Equal(t, models.CategorySalary, report.Transactions[1].Category)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Pages)
	assert.Empty(t, report.Repairs)
	assert.Contains(t, buf.String(), report.RunID)
}

func TestProcessDocument_MalformedRowDropped(t *testing.T) {
	table := [][]string{header}
	for i := 0; i < 10; i++ {
		if i == 6 {
			table = append(table, []string{"x", "y", "z", "1", "2"})
			continue
		}
		table = append(table, []string{"2024-04-01", "", fmt.Sprintf("R%d", i), "1", "", "", "", "pos"})
	}

	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).ProcessDocument(quietContext(&buf), extractor.MemoryDocument{table})
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 9)
	requireDecimal(t, "9", report.Summary.DebitByCategory[models.CategoryPOSPurchase])
}

func TestProcessDocument_HeaderNeverNormalized(t *testing.T) {
	doc := extractor.MemoryDocument{
		{header, {"2024-04-01", "", "KEEP1", "5", "", "", "", "atm"}},
		{
			{"2024-04-02", "", "HEADERLIKE", "999", "", "", "", "atm"},
			{"2024-04-03", "", "KEEP2", "7", "", "", "", "atm"},
		},
	}

	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).ProcessDocument(quietContext(&buf), doc)
	require.NoError(t, err)

	require.Len(t, report.Transactions, 2)
	for _, txn := range report.Transactions {
		assert.NotEqual(t, "HEADERLIKE", txn.Reference)
		assert.NotEqual(t, "Reference", txn.Reference)
	}
	requireDecimal(t, "12", report.Summary.TotalDebit)
}

func TestProcessDocument_Empty(t *testing.T) {
	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).ProcessDocument(quietContext(&buf), extractor.MemoryDocument{nil, {header}})
	require.NoError(t, err)

	assert.True(t, report.Summary.TotalDebit.IsZero())
	assert.True(t, report.Summary.TotalCredit.IsZero())
	assert.Empty(t, report.Summary.DebitByCategory)
	assert.Empty(t, report.Summary.CreditByCategory)
	assert.NotNil(t, report.Transactions)
	assert.Empty(t, report.Transactions)
}

func TestProcessDocument_CoercionsDegradeSilently(t *testing.T) {
	doc := extractor.MemoryDocument{{
		header,
		{"garbage", "", "R1", "N/A", "", "", "", "pos"},
		{"2024-04-01", "", "R2", "10", "", "", "", "pos"},
	}}

	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).ProcessDocument(quietContext(&buf), doc)
	require.NoError(t, err)

	require.Len(t, report.Transactions, 2)
	assert.False(t, report.Transactions[0].HasTransDate())
	assert.Equal(t, models.PolarityNone, report.Transactions[0].Polarity)
	requireDecimal(t, "10", report.Summary.TotalDebit)
	assert.Len(t, report.Repairs, 2)
	assert.Contains(t, buf.String(), "repairs")
}

type brokenDocument struct{}

func (brokenDocument) NumPages() int { return 2 }

func (brokenDocument) ExtractTable(page int) ([][]string, error) {
	if page == 2 {
		return nil, fmt.Errorf("%w: bad xref", extractor.ErrUnreadableDocument)
	}
	return [][]string{header, {"2024-04-01", "", "R", "1", "", "", "", "atm"}}, nil
}

func TestProcessDocument_DocumentFailureHasNoPartialReport(t *testing.T) {
	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).ProcessDocument(quietContext(&buf), brokenDocument{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, extractor.ErrUnreadableDocument)
}

func TestProcess_CorruptBytes(t *testing.T) {
	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).Process(quietContext(&buf), []byte("definitely not a pdf"))
	assert.Nil(t, report)
	assert.ErrorIs(t, err, extractor.ErrUnreadableDocument)
}

func TestProcessDocument_ConcurrentRunsAreIndependent(t *testing.T) {
	p := New(extractor.DefaultTableOptions())
	var buf bytes.Buffer
	var mu sync.Mutex
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&lockedWriter{mu: &mu, w: &buf}, logger.Options{}))

	var wg sync.WaitGroup
	reports := make([]*models.Report, 8)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := extractor.MemoryDocument{{
				header,
				{"2024-04-01", "", "R", fmt.Sprintf("%d", i+1), "", "", "", "bad-amount-free atm"},
				{"nope", "", "R", "x", "", "", "", "atm"},
			}}
			r, err := p.ProcessDocument(ctx, doc)
			if assert.NoError(t, err) {
				reports[i] = r
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, r := range reports {
		require.NotNil(t, r)
		requireDecimal(t, fmt.Sprintf("%d", i+1), r.Summary.TotalDebit)
		assert.Len(t, r.Repairs, 2)
		assert.False(t, seen[r.RunID])
		seen[r.RunID] = true
	}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func TestProcess_PDFStatement(t *testing.T) {
	cols := []float64{30, 105, 180, 255, 330, 405, 480, 555}
	page := []pdftest.Cell{
		{X: 30, Y: 760, Text: "Account: 0123456789"},
		{X: 230, Y: 760, Text: "Name: ADA OBI"},
		{X: 430, Y: 760, Text: "Period: APR 2024"},
	}
	page = append(page, pdftest.Row(700, cols, header...)...)
	page = append(page, pdftest.Row(685, cols, "01-Apr-2024", "01-Apr-2024", "FT0001", "2,000.00", "", "98,000.00", "Ikeja", "ATM Withdrawal")...)
	page = append(page, pdftest.Row(670, cols, "02-Apr-2024", "02-Apr-2024", "FT0002", "5,250.50", "", "92,749.50", "Yaba", "POS")...)
	page = append(page, pdftest.Row(655, cols, "30-Apr-2024", "30-Apr-2024", "FT0003", "", "150,000.00", "242,749.50", "Ikeja", "SALARY APR")...)

	var buf bytes.Buffer
	report, err := New(extractor.DefaultTableOptions()).Process(quietContext(&buf), pdftest.Build(page, nil))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	require.Len(t, report.Transactions, 3)
	assert.Equal(t, "FT0001", report.Transactions[0].Reference)
	assert.True(t, report.Transactions[0].HasTransDate())
	assert.Empty(t, report.Repairs)

	s := report.Summary
	requireDecimal(t, "7250.50", s.TotalDebit)
	requireDecimal(t, "150000", s.TotalCredit)
	requireDecimal(t, "2000", s.DebitByCategory[models.CategoryWithdrawal])
	requireDecimal(t, "5250.50", s.DebitByCategory[models.CategoryPOSPurchase])
	requireDecimal(t, "150000", s.CreditByCategory[models.CategorySalary])
}
