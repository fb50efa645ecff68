package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/law-makers/collegecrawl/pkg/models"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// renderRecords prints the collected records as a summary table
func renderRecords(w io.Writer, records []*models.CollegeRecord) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "College Name", "Type", "Location", "Email", "Admin Contact", "Website"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.Name, r.CollegeType, r.Location, r.Email, r.AdminContact, r.Website})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 40},
		{Number: 4, WidthMax: 30},
	})
	t.Render()
}

// renderRecord prints every exported column of one record, one per row
func renderRecord(w io.Writer, r *models.CollegeRecord) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	for i, v := range r.Row() {
		t.AppendRow(table.Row{models.ExportColumns[i], v})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 70}})
	t.Render()
}

// renderList prints a one-column catalog table
func renderList(w io.Writer, title string, items []string) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", title})
	for i, item := range items {
		t.AppendRow(table.Row{i + 1, item})
	}
	t.Render()
}
