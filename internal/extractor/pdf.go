package extractor

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFDocument reads tables out of a PDF held in memory.
type PDFDocument struct {
	reader *pdf.Reader
	pages  int
	opts   TableOptions
}

// OpenPDF parses data as a PDF. Any failure, including a document with no
// pages, is reported as ErrUnreadableDocument.
func OpenPDF(data []byte, opts TableOptions) (doc *PDFDocument, err error) {
	// The pdf library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: PDF library crashed: %v", ErrUnreadableDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrUnreadableDocument)
	}

	return &PDFDocument{reader: r, pages: n, opts: opts}, nil
}

func (d *PDFDocument) NumPages() int {
	return d.pages
}

// ExtractTable rebuilds the first table on the page from positioned text.
func (d *PDFDocument) ExtractTable(page int) (table [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("%w: PDF library crashed on page %d: %v", ErrUnreadableDocument, page, r)
		}
	}()

	if page < 1 || page > d.pages {
		return nil, fmt.Errorf("%w: page %d out of range", ErrUnreadableDocument, page)
	}

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}

	content := p.Content()
	if len(content.Text) == 0 {
		return nil, nil
	}

	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return findTable(glyphs, d.opts), nil
}
