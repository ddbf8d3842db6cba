package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// TableOptions tunes the geometric table finder. Distances are in PDF points.
type TableOptions struct {
	// ColumnGap is the horizontal gap that separates two cells on a line.
	ColumnGap float64
	// RowTolerance is how far apart two baselines can be and still share a line.
	RowTolerance float64
	// MinColumns is the number of cells a line needs to count as a table row.
	MinColumns int
}

// DefaultTableOptions works for the single-ruled statement layouts seen so far.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		ColumnGap:    15,
		RowTolerance: 2,
		MinColumns:   3,
	}
}

func (o TableOptions) withDefaults() TableOptions {
	d := DefaultTableOptions()
	if o.ColumnGap <= 0 {
		o.ColumnGap = d.ColumnGap
	}
	if o.RowTolerance <= 0 {
		o.RowTolerance = d.RowTolerance
	}
	if o.MinColumns < 2 {
		o.MinColumns = d.MinColumns
	}
	return o
}

// glyph is a positioned run of text, as reported by the PDF content stream.
type glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

// segment is a horizontally contiguous run of glyphs on one line.
type segment struct {
	x0, x1 float64
	text   string
}

func (s segment) center() float64 {
	return (s.x0 + s.x1) / 2
}

type line struct {
	y      float64
	height float64
	segs   []segment
}

const defaultFontSize = 10

// findTable locates the first table among glyphs and returns its rows,
// header first. Every returned row has one cell per header column. It
// returns nil when no line has enough cells.
func findTable(glyphs []glyph, opts TableOptions) [][]string {
	opts = opts.withDefaults()
	lines := groupLines(glyphs, opts)

	start := headerLine(lines, opts)
	if start < 0 {
		return nil
	}

	cols := lines[start].segs
	rows := [][]string{placeCells(cols, cols)}
	prev := lines[start]

	for _, l := range lines[start+1:] {
		if len(l.segs) >= opts.MinColumns {
			rows = append(rows, placeCells(cols, l.segs))
			prev = l
			continue
		}

		// A short line tucked under the previous row is wrapped text.
		if prev.y-l.y > 2*l.height {
			break
		}
		last := rows[len(rows)-1]
		for i, cell := range placeCells(cols, l.segs) {
			last[i] = joinText(last[i], cell)
		}
		prev = l
	}
	return rows
}

// headerLine picks the line that anchors the columns. A line wide enough for
// a full statement row wins, so account details printed above the table in
// a few spaced fields are passed over. Narrower tables fall back to the
// first line with MinColumns cells.
func headerLine(lines []line, opts TableOptions) int {
	fallback := -1
	for i, l := range lines {
		if len(l.segs) >= minRowCells {
			return i
		}
		if fallback < 0 && len(l.segs) >= opts.MinColumns {
			fallback = i
		}
	}
	return fallback
}

// groupLines buckets glyphs into lines from the top of the page down and
// merges each line's glyphs into segments.
func groupLines(glyphs []glyph, opts TableOptions) []line {
	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	// PDF Y grows upwards.
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Y > sorted[b].Y
	})

	var lines []line
	var bucket []glyph
	flush := func() {
		if len(bucket) == 0 {
			return
		}
		if l, ok := buildLine(bucket, opts); ok {
			lines = append(lines, l)
		}
		bucket = bucket[:0]
	}

	for _, g := range sorted {
		if len(bucket) > 0 && math.Abs(bucket[0].Y-g.Y) > opts.RowTolerance {
			flush()
		}
		bucket = append(bucket, g)
	}
	flush()
	return lines
}

func buildLine(glyphs []glyph, opts TableOptions) (line, bool) {
	sort.SliceStable(glyphs, func(a, b int) bool {
		return glyphs[a].X < glyphs[b].X
	})

	l := line{y: glyphs[0].Y}
	var cur *segment
	pendingSpace := false

	for _, g := range glyphs {
		size := g.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		l.height = math.Max(l.height, size)

		if strings.TrimSpace(g.S) == "" {
			pendingSpace = true
			continue
		}

		w := g.W
		if w <= 0 {
			w = size * 0.5 * float64(utf8.RuneCountInString(g.S))
		}

		if cur != nil && g.X-cur.x1 > opts.ColumnGap {
			l.segs = append(l.segs, *cur)
			cur = nil
		}
		if cur == nil {
			cur = &segment{x0: g.X, x1: g.X + w, text: g.S}
			pendingSpace = false
			continue
		}

		if pendingSpace || g.X-cur.x1 > size*0.2 {
			cur.text += " "
		}
		cur.text += g.S
		cur.x1 = math.Max(cur.x1, g.X+w)
		pendingSpace = false
	}
	if cur != nil {
		l.segs = append(l.segs, *cur)
	}

	for i := range l.segs {
		l.segs[i].text = strings.TrimSpace(l.segs[i].text)
	}
	return l, len(l.segs) > 0
}

// placeCells lays segs out under the header columns. A segment goes to the
// column it overlaps most, or the nearest column when it overlaps none.
func placeCells(cols, segs []segment) []string {
	cells := make([]string, len(cols))
	for _, s := range segs {
		i := nearestColumn(cols, s)
		cells[i] = joinText(cells[i], s.text)
	}
	return cells
}

func nearestColumn(cols []segment, s segment) int {
	best, bestOverlap := -1, 0.0
	for i, c := range cols {
		overlap := math.Min(c.x1, s.x1) - math.Max(c.x0, s.x0)
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	if best >= 0 {
		return best
	}

	best, bestDist := 0, math.Inf(1)
	for i, c := range cols {
		if d := math.Abs(c.center() - s.center()); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func joinText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
