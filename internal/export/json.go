package export

import (
	"encoding/json"
	"os"

	"github.com/law-makers/collegecrawl/pkg/models"
)

type jsonReport struct {
	Summary
	Total    int                     `json:"total"`
	Colleges []*models.CollegeRecord `json:"colleges"`
}

// saveJSON writes an indented report with the search parameters and every record.
func saveJSON(records []*models.CollegeRecord, summary Summary, path string) error {
	content, err := json.MarshalIndent(jsonReport{
		Summary:  summary,
		Total:    len(records),
		Colleges: records,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}
