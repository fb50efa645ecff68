// internal/cli/list.go
package cli

import (
	"fmt"
	"strings"

	"github.com/law-makers/collegecrawl/internal/config"
	"github.com/spf13/cobra"
)

var catalogs = map[string]struct {
	title string
	items []string
}{
	"states":   {"State", config.States},
	"branches": {"Branch", config.Branches},
	"types":    {"College Type", config.CollegeTypes},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:       "list [states|branches|types]",
	Short:     "Show the states, branches and college types a search accepts",
	Example:   "  collegecrawl list states\n  collegecrawl list",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"states", "branches", "types"},
	Annotations: map[string]string{
		skipAppAnnotation: "true",
	},
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	names := cmd.ValidArgs
	if len(args) == 1 {
		names = []string{strings.ToLower(args[0])}
	}

	out := cmd.OutOrStdout()
	for i, name := range names {
		c, ok := catalogs[name]
		if !ok {
			return fmt.Errorf("unknown list %q", name)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		renderList(out, c.title, c.items)
	}
	return nil
}
