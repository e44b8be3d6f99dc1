package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableWriter renders rows under a header.
type TableWriter interface {
	SetHeaders(headers []string)
	SetNoHeaders(noHeaders bool)
	AppendRow(row []string)
	Render()
}

// PlainTableWriter writes kubectl-style columns separated by spaces, with
// no box-drawing characters.
type PlainTableWriter struct {
	headers      []string
	rows         [][]string
	columnWidths []int
	minPadding   int
	showHeaders  bool
	output       io.Writer
}

// NewPlainTableWriter creates a PlainTableWriter writing to output.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{minPadding: 3, showHeaders: true, output: output}
}

// SetHeaders sets the column headers; they are shown uppercased.
func (w *PlainTableWriter) SetHeaders(headers []string) {
	w.headers = make([]string, len(headers))
	w.columnWidths = make([]int, len(headers))
	for i, h := range headers {
		w.headers[i] = strings.ToUpper(h)
		w.columnWidths[i] = len(w.headers[i])
	}
}

// SetNoHeaders suppresses the header row.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row. Missing cells render as "-" and extra cells are
// dropped.
func (w *PlainTableWriter) AppendRow(row []string) {
	cells := make([]string, len(w.headers))
	for i := range cells {
		cell := "-"
		if i < len(row) && row[i] != "" {
			cell = row[i]
		}
		cells[i] = cell
		if len(cell) > w.columnWidths[i] {
			w.columnWidths[i] = len(cell)
		}
	}
	w.rows = append(w.rows, cells)
}

// Render writes the table.
func (w *PlainTableWriter) Render() {
	if len(w.headers) == 0 {
		return
	}
	if w.showHeaders {
		w.printRow(w.headers)
	}
	for _, row := range w.rows {
		w.printRow(row)
	}
}

func (w *PlainTableWriter) printRow(row []string) {
	var sb strings.Builder
	last := len(row) - 1
	for i, cell := range row {
		if i == last {
			sb.WriteString(cell)
			break
		}
		fmt.Fprintf(&sb, "%-*s", w.columnWidths[i]+w.minPadding, cell)
	}
	fmt.Fprintln(w.output, strings.TrimRight(sb.String(), " "))
}

// PrettyTableWriter draws a rounded box table with go-pretty.
type PrettyTableWriter struct {
	tw          table.Writer
	showHeaders bool
	headers     table.Row
}

// NewPrettyTableWriter creates a PrettyTableWriter writing to output.
func NewPrettyTableWriter(output io.Writer) *PrettyTableWriter {
	tw := table.NewWriter()
	tw.SetOutputMirror(output)
	tw.SetStyle(table.StyleRounded)
	return &PrettyTableWriter{tw: tw, showHeaders: true}
}

// SetHeaders sets the column headers.
func (w *PrettyTableWriter) SetHeaders(headers []string) {
	w.headers = toRow(headers)
}

// SetNoHeaders suppresses the header row.
func (w *PrettyTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row.
func (w *PrettyTableWriter) AppendRow(row []string) {
	w.tw.AppendRow(toRow(row))
}

// Render writes the table.
func (w *PrettyTableWriter) Render() {
	if w.showHeaders && len(w.headers) > 0 {
		w.tw.AppendHeader(w.headers)
	}
	w.tw.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
