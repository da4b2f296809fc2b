// =============================================================================
// CSV Cleaner - Profile Report (XLSX)
// =============================================================================
//
// WriteXLSX exports profiles to a workbook.
//
// WORKBOOK LAYOUT:
//
//   Summary sheet
//   | Metric        | Before | After |
//   |---------------|--------|-------|
//   | Rows          | 3      | 2     |
//   | Columns       | 3      | 3     |
//   | Missing cells | 1      | 0     |
//   | Dropped rows  |        | 1     |
//
//   Columns sheet
//   | Column | Kind (before) | Missing (before) | Kind (after) | Missing (after) |
//
//   Sample sheet
//   The header followed by the sample rows of the last profile given.
//
// The After columns are omitted when only one profile is exported.
//
// =============================================================================

package profile

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-cleaner/pkg/utils"
)

// Sheet names.
const (
	SummarySheet = "Summary"
	ColumnsSheet = "Columns"
	SampleSheet  = "Sample"
)

// =============================================================================
// WRITING
// =============================================================================

// WriteXLSX writes the report workbook to path, replacing it atomically.
//
// PARAMETERS:
//   - path: The workbook path (usually *.xlsx).
//   - before: The profile of the source. Required.
//   - after: The profile of the cleaned table. May be nil.
//
// RETURNS:
//   - An error if the workbook cannot be built or written.
func WriteXLSX(path string, before, after *Profile) error {
	if before == nil {
		return fmt.Errorf("failed to write report: no profile given")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// The default sheet becomes the summary.
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, before, after); err != nil {
		return err
	}

	if _, err := f.NewSheet(ColumnsSheet); err != nil {
		return fmt.Errorf("failed to create columns sheet: %w", err)
	}
	if err := writeColumns(f, before, after); err != nil {
		return err
	}

	if _, err := f.NewSheet(SampleSheet); err != nil {
		return fmt.Errorf("failed to create sample sheet: %w", err)
	}
	sample := before
	if after != nil {
		sample = after
	}
	if err := writeSample(f, sample); err != nil {
		return err
	}

	for _, sheet := range []string{SummarySheet, ColumnsSheet, SampleSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}

func writeSummary(f *excelize.File, before, after *Profile) error {
	rows := [][]any{
		{"Metric", "Before"},
		{"Rows", before.Rows},
		{"Columns", len(before.Columns)},
		{"Missing cells", before.MissingCells()},
	}
	if after != nil {
		rows[0] = append(rows[0], "After")
		rows[1] = append(rows[1], after.Rows)
		rows[2] = append(rows[2], len(after.Columns))
		rows[3] = append(rows[3], after.MissingCells())
		rows = append(rows, []any{"Dropped rows", "", before.Rows - after.Rows})
	}
	return setRows(f, SummarySheet, rows)
}

func writeColumns(f *excelize.File, before, after *Profile) error {
	header := []any{"Column", "Kind (before)", "Missing (before)"}
	if after != nil {
		header = append(header, "Kind (after)", "Missing (after)")
	}

	rows := [][]any{header}
	for i, col := range before.Columns {
		row := []any{col.Name, string(col.Kind), col.Missing}
		if after != nil && i < len(after.Columns) {
			row = append(row, string(after.Columns[i].Kind), after.Columns[i].Missing)
		}
		rows = append(rows, row)
	}
	return setRows(f, ColumnsSheet, rows)
}

func writeSample(f *excelize.File, p *Profile) error {
	rows := make([][]any, 0, len(p.Sample)+1)
	rows = append(rows, toAny(p.Header))
	for _, r := range p.Sample {
		rows = append(rows, toAny(r))
	}
	return setRows(f, SampleSheet, rows)
}

// setRows writes rows starting at A1.
func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
