// Package normalize turns raw table rows into salary records shaped for the
// relational destination.
package normalize

import (
	"fmt"
	"strings"

	"github.com/ballpark-labs/payrollscrape/internal/scrape"
)

// Sentinel replaces player names that fail the printable-ASCII guard. The
// destination cannot reliably represent other encodings, so a flagged
// record beats an aborted load even though the identity is lost.
const Sentinel = "ERROR"

// SalaryRecord is one normalized row of the salary dataset.
type SalaryRecord struct {
	Player string
	Pos    string
	Salary string
	Team   string
}

// Columns names the slugified source columns retained by the projection;
// everything else in the table is discarded.
type Columns struct {
	Player string
	Pos    string
	Salary string
}

// DefaultColumns matches the conventional salary table layout.
func DefaultColumns() Columns {
	return Columns{Player: "player", Pos: "pos", Salary: "salary"}
}

var amountReplacer = strings.NewReplacer("$", "", ",", "")

// CleanAmount strips the currency symbol and group separators from a salary
// cell. No numeric validation happens here: a value that is still malformed
// after stripping passes through unchanged, and the storage layer owns the
// final type coercion or rejection.
func CleanAmount(raw string) string {
	return amountReplacer.Replace(strings.TrimSpace(raw))
}

// ValidName reports whether name contains only printable ASCII.
func ValidName(name string) bool {
	for _, r := range name {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

// Normalize projects, cleans, and provenance-tags every row of the table
// under the given team code. Every step applies to every row; rows are
// never filtered, so names that are empty after trimming still produce
// records. The second return value counts encoding-guard substitutions.
func Normalize(tbl scrape.Table, team string, cols Columns) ([]SalaryRecord, int, error) {
	playerIdx := tbl.ColumnIndex(cols.Player)
	posIdx := tbl.ColumnIndex(cols.Pos)
	salaryIdx := tbl.ColumnIndex(cols.Salary)
	for name, idx := range map[string]int{
		cols.Player: playerIdx,
		cols.Pos:    posIdx,
		cols.Salary: salaryIdx,
	} {
		if idx < 0 {
			return nil, 0, fmt.Errorf("column %q not found in table header %v", name, tbl.Header)
		}
	}

	violations := 0
	records := make([]SalaryRecord, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		rec := SalaryRecord{
			Player: cellAt(row, playerIdx),
			Pos:    cellAt(row, posIdx),
			Salary: CleanAmount(cellAt(row, salaryIdx)),
			Team:   team,
		}
		if !ValidName(rec.Player) {
			rec.Player = Sentinel
			violations++
		}
		records = append(records, rec)
	}
	return records, violations, nil
}

// cellAt tolerates short rows; the source table occasionally pads rows
// unevenly and a missing cell reads as empty.
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
