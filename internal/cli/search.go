// internal/cli/search.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/law-makers/collegecrawl/internal/config"
	"github.com/law-makers/collegecrawl/internal/export"
	"github.com/law-makers/collegecrawl/internal/orchestrator"
	"github.com/law-makers/collegecrawl/internal/ui"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	searchState  string
	searchBranch string
	searchType   string
	searchOutput string
	searchExport bool
	searchNoBar  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for colleges and extract their details",
	Long: `Searches the web for engineering colleges in a state, then visits every
result one at a time and extracts the college name, university, type, location,
branches, email and phone numbers.

Google is queried first; DuckDuckGo is used when Google returns nothing.
Sites are fetched sequentially with a pause after each one.`,
	Example: `  # All government engineering colleges in Kerala
  collegecrawl search --state Kerala --branch "All Branches" --type Government

  # Civil engineering colleges in Tamil Nadu, saved to Excel
  collegecrawl search -s "Tamil Nadu" -b "Civil Engineering" -o colleges.xlsx

  # Export with the default timestamped file name
  collegecrawl search -s Goa -b "All Branches" --export`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchState, "state", "s", "", "Indian state or union territory (see 'collegecrawl list states')")
	searchCmd.Flags().StringVarP(&searchBranch, "branch", "b", "", "Engineering branch, or \"All Branches\"")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", models.AllTypes, "College type: All Types, Government, Private or Autonomous")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Export results to a file (.xlsx, .csv or .json)")
	searchCmd.Flags().BoolVar(&searchExport, "export", false, "Export results to college_data_<timestamp>.xlsx")
	searchCmd.Flags().BoolVar(&searchNoBar, "no-progress", false, "Disable the progress bar")
	config.RegisterSearchFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	application := GetAppFromCmd(cmd)
	if application == nil {
		return fmt.Errorf("application not initialized")
	}
	logger := application.Logger

	if searchState != "" && !config.IsKnownState(searchState) {
		logger.Warn().Str("state", searchState).Msg("State is not in the catalog; searching anyway")
	}
	if searchBranch != "" && !config.IsKnownBranch(searchBranch) {
		logger.Warn().Str("branch", searchBranch).Msg("Branch is not in the catalog; searching anyway")
	}

	req := models.SearchRequest{
		State:       searchState,
		Branch:      searchBranch,
		CollegeType: searchType,
		MaxResults:  application.Config.MaxResults,
	}

	out := cmd.OutOrStdout()
	n := newConsoleNotifier(out, os.Stderr, !searchNoBar && application.Config.LogLevel != "debug")

	if err := application.Orchestrator.Start(cmd.Context(), req, n); err != nil {
		if errors.Is(err, orchestrator.ErrBusy) {
			fmt.Fprintln(os.Stderr, ui.Warning("⚠ "+err.Error()))
		}
		return err
	}

	done := <-n.done
	records := application.Store.List()

	if len(records) > 0 {
		fmt.Fprintln(out)
		renderRecords(out, records)
	}
	if done.Err != nil {
		return done.Err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, ui.Info("No college information could be extracted. Try different search parameters."))
		return nil
	}

	if searchOutput != "" || searchExport {
		path, err := export.Export(records, searchOutput, export.Summary{State: req.State, Branch: req.Branch})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		logger.Info().Str("file", path).Int("records", len(records)).Msg("Export complete")
		fmt.Fprintln(out, ui.Success("✓ Saved to "+path))
	}
	return nil
}

// consoleNotifier prints the run transcript and drives a progress bar on stderr.
type consoleNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	barOut  io.Writer
	showBar bool
	bar     *progressbar.ProgressBar
	done    chan models.DoneEvent
}

func newConsoleNotifier(out, barOut io.Writer, showBar bool) *consoleNotifier {
	return &consoleNotifier{
		out:     out,
		barOut:  barOut,
		showBar: showBar,
		done:    make(chan models.DoneEvent, 1),
	}
}

func (c *consoleNotifier) Progress(e models.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.showBar || e.Total == 0 {
		return
	}
	if c.bar == nil {
		c.bar = progressbar.NewOptions(e.Total,
			progressbar.OptionSetWriter(c.barOut),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetDescription("Scraping"),
		)
	}
	if e.Current > 0 {
		c.bar.Describe(e.Label)
		_ = c.bar.Set(e.Current - 1)
	}
}

func (c *consoleNotifier) Result(e models.ResultEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		_ = c.bar.Clear()
	}
	fmt.Fprintln(c.out, ui.ResultLine(e.Text))
}

func (c *consoleNotifier) Done(e models.DoneEvent) {
	c.mu.Lock()
	if c.bar != nil {
		_ = c.bar.Finish()
	}
	c.mu.Unlock()
	c.done <- e
}
