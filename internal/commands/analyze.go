package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/config"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
	"github.com/insightdelivered/statement-analyzer/internal/writer"
)

type analyzeOptions struct {
	csvPath  string
	xlsxPath string
}

func newAnalyzeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <input.pdf> [input2.pdf ...]",
		Short: "Summarize debits and credits by category",
		Example: `  # Print totals for one statement
  statement-analyzer analyze april.pdf

  # Also write the categorized rows and a workbook with charts
  statement-analyzer analyze april.pdf --csv april.csv --xlsx april.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && (opts.csvPath != "" || opts.xlsxPath != "") {
				return fmt.Errorf("--csv and --xlsx need exactly one input file")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Logs go to stderr so the summary on stdout stays clean.
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)
			ctx := logger.WithContext(cmd.Context(), log)
			p := pipeline.New(cfg.Extractor.TableOptions())

			for _, path := range args {
				if err := analyzeFile(ctx, p, cmd.OutOrStdout(), path, opts); err != nil {
					return fmt.Errorf("processing %s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "write categorized transactions to this CSV file")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write a summary workbook with charts to this XLSX file")

	return cmd
}

func analyzeFile(ctx context.Context, p *pipeline.Pipeline, out io.Writer, path string, opts analyzeOptions) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	report, err := p.Process(ctx, data)
	if err != nil {
		return err
	}

	printSummary(out, path, report)

	if opts.csvPath != "" {
		if err := writeFile(opts.csvPath, report, &writer.CSVWriter{IncludeSummary: true}); err != nil {
			return err
		}
		fmt.Fprintf(out, "  CSV: %s\n", opts.csvPath)
	}
	if opts.xlsxPath != "" {
		if err := writeFile(opts.xlsxPath, report, &writer.XLSXWriter{Charts: true}); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Workbook: %s\n", opts.xlsxPath)
	}
	return nil
}

type reportWriter interface {
	Write(out io.Writer, report *models.Report) error
}

func writeFile(path string, report *models.Report, w reportWriter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(out io.Writer, path string, report *models.Report) {
	s := report.Summary
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  Pages: %d, transactions: %d\n", report.Pages, len(report.Transactions))
	fmt.Fprintf(out, "  Total debit:  %s\n", s.TotalDebit.StringFixed(2))
	fmt.Fprintf(out, "  Total credit: %s\n", s.TotalCredit.StringFixed(2))

	if len(s.DebitByCategory) > 0 {
		fmt.Fprintln(out, "  Debit by category:")
		for _, cs := range writer.SortedCategories(s.DebitByCategory) {
			fmt.Fprintf(out, "    %-15s %s\n", cs.Category, cs.Amount.StringFixed(2))
		}
	}
	if len(s.CreditByCategory) > 0 {
		fmt.Fprintln(out, "  Credit by category:")
		for _, cs := range writer.SortedCategories(s.CreditByCategory) {
			fmt.Fprintf(out, "    %-15s %s\n", cs.Category, cs.Amount.StringFixed(2))
		}
	}

	if len(report.Transactions) == 0 {
		fmt.Fprintln(out, "  Warning: no transactions found. The statement table may not match the expected 8-column layout.")
	}
	if n := len(report.Repairs); n > 0 {
		fmt.Fprintf(out, "  Note: %d field(s) could not be parsed and were counted as zero or left undated.\n", n)
	}
}
