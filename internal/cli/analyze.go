// internal/cli/analyze.go
package cli

import (
	"encoding/json"
	"fmt"

	urlutil "github.com/law-makers/collegecrawl/internal/utils/url"
	"github.com/spf13/cobra"
)

var (
	analyzeState  string
	analyzeName   string
	analyzeFormat string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Extract college details from a single website",
	Long: `Fetches one college website, follows its contact page when email or phone
are missing, and prints the extracted record.`,
	Example: `  # Analyze a college homepage
  collegecrawl analyze https://www.cet.ac.in --state Kerala

  # Print the record as JSON
  collegecrawl analyze https://www.cet.ac.in --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeState, "state", "s", "", "State used as the location fallback")
	analyzeCmd.Flags().StringVarP(&analyzeName, "name", "n", "", "Name used when the page does not provide one")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "Output format: table or json")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	if err := urlutil.ValidateURL(url); err != nil {
		return err
	}
	if analyzeFormat != "table" && analyzeFormat != "json" {
		return fmt.Errorf("invalid format: %s (must be table or json)", analyzeFormat)
	}

	application := GetAppFromCmd(cmd)
	if application == nil {
		return fmt.Errorf("application not initialized")
	}

	record, err := application.Analyzer.Analyze(cmd.Context(), url, analyzeName, analyzeState)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", url, err)
	}

	out := cmd.OutOrStdout()
	if analyzeFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	renderRecord(out, record)
	if !record.Valid() {
		fmt.Fprintln(out, "⚠ Could not extract sufficient information")
	}
	return nil
}
