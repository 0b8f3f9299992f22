// Package export flattens per-team record sets and serializes the results
// into CSV artifacts matching the relational destination's column names.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ballpark-labs/payrollscrape/internal/normalize"
	"github.com/ballpark-labs/payrollscrape/internal/reference"
)

// SalaryHeader is the exported salary artifact header. The labels are the
// destination table's column names, not the internal field names.
var SalaryHeader = []string{"player_name", "pos", "salary_usd", "team"}

// TeamHeader is the exported team reference artifact header.
var TeamHeader = []string{"team_name", "abbreviation"}

// Aggregate flattens per-source record sets into one dataset, following the
// given source order. The order must be stable within a run; it carries no
// meaning downstream, where rows land in an unordered relational table.
func Aggregate(order []string, bySource map[string][]normalize.SalaryRecord) []normalize.SalaryRecord {
	total := 0
	for _, records := range bySource {
		total += len(records)
	}
	dataset := make([]normalize.SalaryRecord, 0, total)
	for _, source := range order {
		dataset = append(dataset, bySource[source]...)
	}
	return dataset
}

// WriteSalaries serializes the dataset with the fixed header row.
func WriteSalaries(w io.Writer, records []normalize.SalaryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SalaryHeader); err != nil {
		return fmt.Errorf("write salary header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Player, rec.Pos, rec.Salary, rec.Team}); err != nil {
			return fmt.Errorf("write salary row for %q: %w", rec.Player, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush salary csv: %w", err)
	}
	return nil
}

// ReadSalaries parses a CSV produced by WriteSalaries back into records.
// The header must match SalaryHeader exactly.
func ReadSalaries(r io.Reader) ([]normalize.SalaryRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read salary header: %w", err)
	}
	if len(header) != len(SalaryHeader) {
		return nil, fmt.Errorf("unexpected salary header %v", header)
	}
	for i, name := range SalaryHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected salary header %v", header)
		}
	}
	var records []normalize.SalaryRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read salary row: %w", err)
		}
		records = append(records, normalize.SalaryRecord{
			Player: row[0],
			Pos:    row[1],
			Salary: row[2],
			Team:   row[3],
		})
	}
	return records, nil
}

// WriteTeams serializes the team reference dataset with its fixed header.
func WriteTeams(w io.Writer, teams []reference.TeamEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TeamHeader); err != nil {
		return fmt.Errorf("write team header: %w", err)
	}
	for _, team := range teams {
		if err := cw.Write([]string{team.Name, team.Code}); err != nil {
			return fmt.Errorf("write team row for %q: %w", team.Code, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush team csv: %w", err)
	}
	return nil
}

// WriteSalariesFile writes the salary artifact to path, creating parent
// directories as needed.
func WriteSalariesFile(path string, records []normalize.SalaryRecord) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteSalaries(w, records)
	})
}

// WriteTeamsFile writes the team reference artifact to path.
func WriteTeamsFile(path string, teams []reference.TeamEntry) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteTeams(w, teams)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create export dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
