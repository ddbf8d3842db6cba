// Package pdftest builds small text-only PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// FontSize is the size every Cell is drawn at. Each character advances
// CharWidth points.
const (
	FontSize  = 10
	CharWidth = 5
)

// Cell is a run of text drawn with its baseline starting at X, Y.
type Cell struct {
	X, Y float64
	Text string
}

// Row lays texts out on one baseline, one per column x position. Empty
// texts are left out so the column stays blank.
func Row(y float64, columns []float64, texts ...string) []Cell {
	var out []Cell
	for i, t := range texts {
		if t == "" || i >= len(columns) {
			continue
		}
		out = append(out, Cell{X: columns[i], Y: y, Text: t})
	}
	return out
}

// Build returns a PDF with one page per element of pages. A page with no
// cells is written without a content stream.
func Build(pages ...[]Cell) []byte {
	var objs []string
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}

	catalog := add("")
	tree := add("")
	font := add(fontDict())

	var kids []string
	for _, cells := range pages {
		page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >>", tree, font)
		if len(cells) > 0 {
			stream := contentStream(cells)
			content := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
			page += fmt.Sprintf(" /Contents %d 0 R", content)
		}
		kids = append(kids, fmt.Sprintf("%d 0 R", add(page+" >>")))
	}

	objs[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", tree)
	objs[tree-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, catalog, xref)
	return buf.Bytes()
}

func fontDict() string {
	widths := make([]string, 0, 95)
	for c := 32; c <= 126; c++ {
		widths = append(widths, fmt.Sprint(CharWidth*1000/FontSize))
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " "))
}

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func contentStream(cells []Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		fmt.Fprintf(&sb, "BT /F1 %d Tf 1 0 0 1 %.2f %.2f Tm (%s) Tj ET\n", FontSize, c.X, c.Y, escaper.Replace(c.Text))
	}
	return sb.String()
}
