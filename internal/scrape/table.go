// Package scrape locates and extracts tabular data from fetched HTML pages.
package scrape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrTableNotFound is returned when the target selector matches nothing.
var ErrTableNotFound = errors.New("table not found")

// Selector identifies the target table by tag and class.
type Selector struct {
	Tag   string
	Class string
}

// String renders the selector in goquery syntax.
func (s Selector) String() string {
	if s.Class == "" {
		return s.Tag
	}
	return s.Tag + "." + s.Class
}

// Table is one parsed HTML table: slugified header plus positional rows.
// Rows carry raw cell strings and may contain empties.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of a named column, or -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Header {
		if col == name {
			return i
		}
	}
	return -1
}

// ParseTable locates the first table matching sel in document order and
// extracts its header and rows. Header cells are slugified and must be
// unique within the table. The leading skipRows data rows are dropped
// unconditionally: the source layout puts a blank separator row and a
// placeholder row between the header and the first real row. That is a
// structural assumption about the source markup, not a data-driven
// decision, which is why the count is a parameter.
func ParseTable(doc *goquery.Document, sel Selector, skipRows int) (Table, error) {
	if skipRows < 0 {
		return Table{}, fmt.Errorf("skip rows must be >= 0, got %d", skipRows)
	}
	node := doc.Find(sel.String()).First()
	if node.Length() == 0 {
		return Table{}, fmt.Errorf("%w: selector %q", ErrTableNotFound, sel.String())
	}

	var header []string
	node.Find("th").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, SlugifyHeader(cell.Text()))
	})
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, dup := seen[name]; dup {
			return Table{}, fmt.Errorf("duplicate column %q in table %q", name, sel.String())
		}
		seen[name] = struct{}{}
	}

	var rows [][]string
	node.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			// Header-only rows carry no data cells.
			return
		}
		raw := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			raw = append(raw, cleanCell(cell.Text()))
		})
		rows = append(rows, raw)
	})

	if skipRows >= len(rows) {
		rows = nil
	} else {
		rows = rows[skipRows:]
	}
	return Table{Header: header, Rows: rows}, nil
}

// cleanCell strips embedded newlines and surrounding whitespace from a
// cell's text.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", ""))
}
