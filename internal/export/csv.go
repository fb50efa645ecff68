package export

import (
	"encoding/csv"
	"os"

	"github.com/law-makers/collegecrawl/pkg/models"
)

// saveCSV writes the header row and one flattened row per record.
func saveCSV(records []*models.CollegeRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(models.ExportColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write(r.Row()); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
