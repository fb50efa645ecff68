package export

import (
	"unicode/utf8"

	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	collegesSheet = "Colleges"
	summarySheet  = "Summary"

	headerColor    = "366092"
	maxColumnWidth = 50
)

// saveXLSX writes a workbook with a Summary sheet followed by the Colleges sheet.
func saveXLSX(records []*models.CollegeRecord, summary Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummary(f, summary, len(records)); err != nil {
		return err
	}

	idx, err := f.NewSheet(collegesSheet)
	if err != nil {
		return err
	}
	if err := writeColleges(f, records); err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	return f.SaveAs(path)
}

func writeColleges(f *excelize.File, records []*models.CollegeRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, models.ExportColumns)
	for _, r := range records {
		rows = append(rows, r.Row())
	}

	widths := make([]int, len(models.ExportColumns))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
		}
		if err := f.SetSheetRow(collegesSheet, cell, &values); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(models.ExportColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(collegesSheet, "A1", last, header); err != nil {
		return err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(collegesSheet, col, col, float64(min(w+2, maxColumnWidth))); err != nil {
			return err
		}
	}

	return f.SetPanes(collegesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, summary Summary, total int) error {
	rows := [][]interface{}{
		{"College Scraper Report"},
		{""},
		{"Search Parameters:"},
		{"State", summary.State},
		{"Branch", summary.Branch},
		{"Date", summary.Generated.Format("2006-01-02 15:04:05")},
		{""},
		{"Results:"},
		{"Total Colleges Found", total},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	section, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}
	for cell, style := range map[string]int{"A1": title, "A3": section, "A8": section} {
		if err := f.SetCellStyle(summarySheet, cell, cell, style); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 40)
}
