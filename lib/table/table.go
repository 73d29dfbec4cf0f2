// Package table renders fixed-width text tables for the command-line
// reports.
package table

import (
	"io"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var red = color.New(color.FgRed)

// Table is a matrix of table cells.
type Table struct {
	columns []int
	rows    []*Row
}

// New creates a new table with column groups. Columns in the same
// group share their width.
func New(groups ...int) *Table {
	var columns []int
	for groupNo, groupSize := range groups {
		for i := 0; i < groupSize; i++ {
			columns = append(columns, groupNo)
		}
	}
	return &Table{columns: columns}
}

// Width returns the width of this table.
func (t *Table) Width() int {
	return len(t.columns)
}

// AddRow adds a row.
func (t *Table) AddRow() *Row {
	row := &Row{cells: make([]cell, 0, t.Width())}
	t.rows = append(t.rows, row)
	return row
}

// AddSeparatorRow adds a separator row.
func (t *Table) AddSeparatorRow() {
	r := t.AddRow()
	for i := 0; i < t.Width(); i++ {
		r.addCell(separatorCell{})
	}
}

// Render renders this table.
func (t *Table) Render(w io.StringWriter) {
	widths := make([]int, t.Width())
	for _, r := range t.rows {
		for i, c := range r.cells {
			if widths[i] < c.length() {
				widths[i] = c.length()
			}
		}
	}
	groups := map[int]int{}
	for i, width := range widths {
		if groups[t.columns[i]] < width {
			groups[t.columns[i]] = width
		}
	}
	for i := range widths {
		widths[i] = groups[t.columns[i]]
	}
	for _, r := range t.rows {
		if r.cells[0].isSep() {
			w.WriteString("+-")
		} else {
			w.WriteString("| ")
		}
		for i, c := range r.cells {
			c.render(widths[i], w)
			if i < len(r.cells)-1 {
				w.WriteString(createSep(c, r.cells[i+1]))
			}
		}
		if r.cells[len(r.cells)-1].isSep() {
			w.WriteString("-+\n")
		} else {
			w.WriteString(" |\n")
		}
	}
	w.WriteString("\n")
}

func createSep(c1, c2 cell) string {
	switch {
	case c1.isSep() && c2.isSep():
		return "-+-"
	case c1.isSep():
		return "-+ "
	case c2.isSep():
		return " +-"
	default:
		return " | "
	}
}

// Row is a table row.
type Row struct {
	cells []cell
}

func (r *Row) addCell(c cell) {
	r.cells = append(r.cells, c)
}

// AddEmpty adds an empty cell.
func (r *Row) AddEmpty() *Row {
	r.addCell(emptyCell{})
	return r
}

// AddText adds a text cell.
func (r *Row) AddText(content string, align Alignment) *Row {
	r.addCell(textCell{content, align})
	return r
}

// AddIndented adds a left-aligned cell with an indent.
func (r *Row) AddIndented(content string, indent int) *Row {
	r.addCell(indentedCell{content, indent})
	return r
}

// AddNumber adds a right-aligned number cell. Negative numbers render
// in red.
func (r *Row) AddNumber(n decimal.Decimal) *Row {
	r.addCell(numberCell{n})
	return r
}

// FillEmpty fills the row up to the table width with empty cells.
func (r *Row) FillEmpty() *Row {
	for i := len(r.cells); i < cap(r.cells); i++ {
		r.AddEmpty()
	}
	return r
}

type cell interface {
	length() int
	render(int, io.StringWriter)
	isSep() bool
}

// Alignment is the alignment of a table cell.
type Alignment int

const (
	// Left aligns to the left.
	Left Alignment = iota
	// Right aligns to the right.
	Right
	// Center centers.
	Center
)

type indentedCell struct {
	Content string
	Indent  int
}

func (t indentedCell) length() int {
	return t.Indent + utf8.RuneCountInString(t.Content)
}

func (t indentedCell) render(l int, b io.StringWriter) {
	pad(b, t.Indent)
	b.WriteString(t.Content)
	pad(b, l-t.Indent-utf8.RuneCountInString(t.Content))
}

func (t indentedCell) isSep() bool {
	return false
}

type textCell struct {
	Content string
	Align   Alignment
}

func (t textCell) length() int {
	return utf8.RuneCountInString(t.Content)
}

func (t textCell) render(l int, s io.StringWriter) {
	var before int
	switch t.Align {
	case Left:
		before = 0
	case Right:
		before = l - utf8.RuneCountInString(t.Content)
	case Center:
		before = (l - utf8.RuneCountInString(t.Content)) / 2
	}
	pad(s, before)
	s.WriteString(t.Content)
	pad(s, l-before-utf8.RuneCountInString(t.Content))
}

func (t textCell) isSep() bool {
	return false
}

type numberCell struct {
	n decimal.Decimal
}

func (t numberCell) length() int {
	return len(t.n.String())
}

func (t numberCell) render(l int, s io.StringWriter) {
	str := t.n.String()
	pad(s, l-len(str))
	if t.n.IsNegative() {
		str = red.Sprint(str)
	}
	s.WriteString(str)
}

func (t numberCell) isSep() bool {
	return false
}

type separatorCell struct{}

func (separatorCell) length() int {
	return 0
}

func (separatorCell) render(l int, s io.StringWriter) {
	for i := 0; i < l; i++ {
		s.WriteString("-")
	}
}

func (separatorCell) isSep() bool {
	return true
}

type emptyCell struct{}

func (emptyCell) length() int {
	return 0
}

func (emptyCell) render(l int, s io.StringWriter) {
	pad(s, l)
}

func (emptyCell) isSep() bool {
	return false
}

func pad(s io.StringWriter, n int) {
	for i := 0; i < n; i++ {
		s.WriteString(" ")
	}
}
