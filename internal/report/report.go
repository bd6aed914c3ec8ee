// Package report renders the weekly schedule as a printable table.
package report

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/schedule"
)

// DefaultFile is the default output name of the weekly sheet.
const DefaultFile = "agenda_semanal.pdf"

// EmptyMessage is printed instead of the table when nothing is booked.
const EmptyMessage = "Nenhum horário cadastrado."

// Column is one day of the weekly sheet.
type Column struct {
	Day   model.Day
	Lines []string
}

// Lines returns the six day columns with one line per entry, in time order.
func Lines(w *schedule.Week) []Column {
	cols := make([]Column, len(w.Days))
	for i, b := range w.Days {
		lines := make([]string, len(b.Entries))
		for j, e := range b.Entries {
			lines[j] = e.Line()
		}
		cols[i] = Column{Day: b.Day, Lines: lines}
	}
	return cols
}

// Grid pads the columns into rows of equal width. Days with fewer entries
// get blank cells.
func Grid(cols []Column) [][]string {
	height := 0
	for _, c := range cols {
		height = max(height, len(c.Lines))
	}
	rows := make([][]string, height)
	for i := range rows {
		rows[i] = make([]string, len(cols))
		for j, c := range cols {
			if i < len(c.Lines) {
				rows[i][j] = c.Lines[i]
			}
		}
	}
	return rows
}

// Page geometry in millimetres. 30pt margins as on the printed sheet.
const (
	margin     = 30 * 25.4 / 72
	titleSize  = 18
	headerSize = 12
	bodySize   = 9
	headerH    = 8.0
	lineH      = 4.5
	cellPad    = 1.0
)

// PDF writes the weekly sheet as landscape A4.
func PDF(out io.Writer, w *schedule.Week, title string) error {
	pdf := build(w, title)
	if err := pdf.Output(out); err != nil {
		return errors.NewSystemErrorWithOp("render pdf", "cannot write schedule pdf", err)
	}
	return nil
}

func build(w *schedule.Week, title string) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("studiodesk", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", titleSize)
	pageW, _ := pdf.GetPageSize()
	pdf.CellFormat(pageW-2*margin, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(12 * 25.4 / 72)

	if w.Empty() {
		pdf.SetFont("Helvetica", "", bodySize+1)
		pdf.CellFormat(0, 6, tr(EmptyMessage), "", 1, "L", false, 0, "")
		return pdf
	}

	cols := Lines(w)
	t := &table{pdf: pdf, tr: tr, colW: (pageW - 2*margin) / float64(len(cols))}
	for _, c := range cols {
		t.headers = append(t.headers, c.Day.Label())
	}

	t.header()
	for _, row := range Grid(cols) {
		t.row(row)
	}
	return pdf
}

type table struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	colW    float64
	headers []string
}

func (t *table) header() {
	t.pdf.SetFont("Helvetica", "B", headerSize)
	t.pdf.SetFillColor(211, 211, 211)
	t.pdf.SetDrawColor(0, 0, 0)
	t.pdf.SetLineWidth(0.5 * 25.4 / 72)
	for _, h := range t.headers {
		t.pdf.CellFormat(t.colW, headerH, t.tr(h), "1", 0, "C", true, 0, "")
	}
	t.pdf.Ln(-1)
}

// row draws one table row. Long cells wrap, and the row grows to the
// tallest cell. A row that does not fit starts a new page with the header
// repeated.
func (t *table) row(cells []string) {
	t.pdf.SetFont("Helvetica", "", bodySize)

	split := make([][]string, len(cells))
	lines := 1
	for i, c := range cells {
		if c == "" {
			continue
		}
		split[i] = t.wrap(c, t.colW-2*cellPad)
		lines = max(lines, len(split[i]))
	}
	h := float64(lines)*lineH + 2*cellPad

	_, pageH := t.pdf.GetPageSize()
	if t.pdf.GetY()+h > pageH-margin {
		t.pdf.AddPage()
		t.header()
		t.pdf.SetFont("Helvetica", "", bodySize)
	}

	x0, y := t.pdf.GetX(), t.pdf.GetY()
	for i, parts := range split {
		x := x0 + float64(i)*t.colW
		t.pdf.Rect(x, y, t.colW, h, "D")
		top := y + (h-float64(len(parts))*lineH)/2
		for k, p := range parts {
			t.pdf.SetXY(x, top+float64(k)*lineH)
			t.pdf.CellFormat(t.colW, lineH, p, "", 0, "C", false, 0, "")
		}
	}
	t.pdf.SetXY(x0, y+h)
}

// wrap breaks text into lines no wider than width, already translated to
// the core font's code page. Words wider than a line are cut by rune.
func (t *table) wrap(text string, width float64) []string {
	fits := func(s string) bool { return t.pdf.GetStringWidth(t.tr(s)) <= width }

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if fits(candidate) {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		for !fits(word) {
			r := []rune(word)
			n := 1
			for n < len(r) && fits(string(r[:n+1])) {
				n++
			}
			lines = append(lines, string(r[:n]))
			word = string(r[n:])
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}

	for i, l := range lines {
		lines[i] = t.tr(l)
	}
	return lines
}
