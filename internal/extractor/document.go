package extractor

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// ErrUnreadableDocument wraps every failure to open or read a document.
var ErrUnreadableDocument = errors.New("unreadable document")

// minRowCells is the narrowest row kept; anything shorter is a table fragment.
const minRowCells = 8

// Document is a paginated source of tables.
type Document interface {
	// NumPages returns the page count. Pages are numbered from 1.
	NumPages() int
	// ExtractTable returns the first table found on the page, or nil when the
	// page has none. Only document-level failures are returned as errors.
	ExtractTable(page int) ([][]string, error)
}

// MemoryDocument is a Document over tables that are already in memory.
// Each element is one page's table; a nil element is a page with no table.
type MemoryDocument [][][]string

func (d MemoryDocument) NumPages() int {
	return len(d)
}

func (d MemoryDocument) ExtractTable(page int) ([][]string, error) {
	if page < 1 || page > len(d) {
		return nil, fmt.Errorf("%w: page %d out of range", ErrUnreadableDocument, page)
	}
	return d[page-1], nil
}

// Rows yields the data rows of doc lazily, in page order then row order.
//
// The first row of every page's table is treated as a header and dropped,
// whatever it contains. Rows with fewer than eight cells are skipped. The
// first error, from the document or from ctx, is yielded once and ends the
// sequence.
func Rows(ctx context.Context, doc Document) iter.Seq2[models.RawRow, error] {
	return func(yield func(models.RawRow, error) bool) {
		for page := 1; page <= doc.NumPages(); page++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			table, err := doc.ExtractTable(page)
			if err != nil {
				yield(nil, fmt.Errorf("page %d: %w", page, err))
				return
			}
			if len(table) == 0 {
				continue
			}

			for _, row := range table[1:] {
				if len(row) < minRowCells {
					continue
				}
				if !yield(models.RawRow(row), nil) {
					return
				}
			}
		}
	}
}
