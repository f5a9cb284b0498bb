package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Results"

// WriteXLSX exports the table as a single-sheet workbook with a bold header.
// Numeric cells are written as numbers so spreadsheet formulas work on them.
func (t *Table) WriteXLSX(w io.Writer, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(t.columns))
	for j, name := range t.columns {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", name, err)
		}
		widths[j] = len(name)
	}

	last, _ := excelize.CoordinatesToCellName(len(t.columns), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range t.rows {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			var err error
			if v, parseErr := strconv.ParseFloat(value, 64); parseErr == nil {
				err = f.SetCellValue(sheetName, cell, v)
			} else {
				err = f.SetCellValue(sheetName, cell, value)
			}
			if err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if len(value) > widths[j] {
				widths[j] = len(value)
			}
		}
	}

	for j, width := range widths {
		col, _ := excelize.ColumnNumberToName(j + 1)
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(sheetName, col, col, float64(width+2)); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   title,
		Creator: "localization-viewer",
	})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
