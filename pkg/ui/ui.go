// Package ui renders templative's human-facing output: status messages,
// the template table and error lines. Styling comes from pkg/ui/styles
// and is dropped entirely when color is disabled.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Serenacula/templative/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Printer writes optionally styled lines to a writer
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer. With color false every style is ignored.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Color reports whether the printer styles its output
func (p *Printer) Color() bool {
	return p.color
}

// Render applies the named style when color is enabled
func (p *Printer) Render(style, text string) string {
	if !p.color {
		return text
	}
	return styles.GetStyle(style).Render(text)
}

// Println writes text in the named style followed by a newline
func (p *Printer) Println(style, text string) {
	_, _ = fmt.Fprintln(p.out, p.Render(style, text))
}

// Printf formats and writes a plain line
func (p *Printer) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Success writes a success line
func (p *Printer) Success(format string, args ...interface{}) {
	p.Println("Success", fmt.Sprintf(format, args...))
}

// Warning writes a warning line prefixed with "warning: "
func (p *Printer) Warning(format string, args ...interface{}) {
	p.Println("Warning", "warning: "+fmt.Sprintf(format, args...))
}

// Error writes "Error: " followed by the cause chain, one cause per
// indented line after the first
func (p *Printer) Error(chain []string) {
	if len(chain) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(chain[0])
	for _, cause := range chain[1:] {
		b.WriteString("\n  caused by: ")
		b.WriteString(cause)
	}
	p.Println("Error", b.String())
}

// Row is one table row rendered in a single style
type Row struct {
	Cells []string
	Style string
}

// Table renders headers and rows as space-padded columns. The last column
// is never padded. Widths are measured in terminal cells.
func (p *Printer) Table(headers []string, rows []Row) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row.Cells {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	header := make([]string, len(headers))
	for i, h := range headers {
		header[i] = p.Render("TableHeader", h)
		if i < len(headers)-1 {
			header[i] += strings.Repeat(" ", widths[i]-lipgloss.Width(h))
		}
	}
	_, _ = fmt.Fprintln(p.out, strings.Join(header, "  "))

	for _, row := range rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell
			if i < len(row.Cells)-1 && i < len(widths) {
				cells[i] += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			}
		}
		p.Println(row.Style, strings.Join(cells, "  "))
	}
}
