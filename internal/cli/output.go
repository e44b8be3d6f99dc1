package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	OutputFormatTable  OutputFormat = "table"
	OutputFormatPretty OutputFormat = "pretty"
	OutputFormatJSON   OutputFormat = "json"
	OutputFormatYAML   OutputFormat = "yaml"
)

// ValidateOutputFormat rejects unknown formats.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatPretty, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, pretty, json, yaml)", format)
	}
}

// Table is tabular command output.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row of cells.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// KeyValueTable returns an empty two-column name/value table, the layout
// used by detail views.
func KeyValueTable() *Table {
	return &Table{Headers: []string{"name", "value"}}
}

// Printer writes command results and status messages.
type Printer struct {
	Format    OutputFormat
	NoHeaders bool
	Quiet     bool
	Out       io.Writer
	ErrOut    io.Writer
}

// Print renders data. Structured formats encode data itself; table formats
// render the table produced by toTable.
func (p *Printer) Print(data interface{}, toTable func() *Table) error {
	switch p.Format {
	case OutputFormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.Out, string(out))
		return err
	case OutputFormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		_, err = p.Out.Write(out)
		return err
	case OutputFormatTable, OutputFormatPretty, "":
		p.PrintTable(toTable())
		return nil
	default:
		return ValidateOutputFormat(string(p.Format))
	}
}

// PrintTable renders t in the table style selected by Format.
func (p *Printer) PrintTable(t *Table) {
	var w TableWriter
	if p.Format == OutputFormatPretty {
		w = NewPrettyTableWriter(p.Out)
	} else {
		w = NewPlainTableWriter(p.Out)
	}
	w.SetHeaders(t.Headers)
	w.SetNoHeaders(p.NoHeaders)
	for _, row := range t.Rows {
		w.AppendRow(row)
	}
	w.Render()
}

// Success prints a confirmation line unless quiet.
func (p *Printer) Success(format string, args ...interface{}) {
	if p.Quiet {
		return
	}
	fmt.Fprintln(p.Out, text.FgGreen.Sprint(FormatSuccess(fmt.Sprintf(format, args...))))
}

// Warn prints a warning to ErrOut.
func (p *Printer) Warn(format string, args ...interface{}) {
	fmt.Fprintln(p.ErrOut, text.FgYellow.Sprint(FormatWarning(fmt.Sprintf(format, args...))))
}
