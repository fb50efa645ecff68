package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/law-makers/collegecrawl/internal/ui"
	"github.com/spf13/cobra"
)

const minFlagColumn = 28

// writeHelp renders colorized help for cmd
func writeHelp(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(w, "\n%s\n", ui.Heading(strings.ToUpper(cmd.Name())))

	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	writeUsageLines(w, cmd)

	if cmd.HasExample() {
		fmt.Fprintf(w, "\n%s\n", ui.Section("Examples"))
		writeExamples(w, cmd.Example)
	}

	writeCommands(w, cmd)

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%s\n", ui.Section("Flags"))
		writeFlags(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(w, "\n%s\n", ui.Section("Global Flags"))
		writeFlags(w, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%sUse \"%s %s %s\" for more information about a command.%s\n",
			ui.ColorDim,
			ui.Command(cmd.CommandPath())+ui.ColorDim,
			ui.ColorYellow+"<command>"+ui.ColorReset+ui.ColorDim,
			ui.ColorGreen+"--help"+ui.ColorReset+ui.ColorDim,
			ui.ColorReset)
	}
	fmt.Fprintln(w)
}

// writeUsage renders the short usage shown after a usage error
func writeUsage(w io.Writer, cmd *cobra.Command) {
	writeUsageLines(w, cmd)
	writeCommands(w, cmd)

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(w, "\n%s\n", ui.Section("Flags"))
		writeFlags(w, cmd.LocalFlags().FlagUsages())
	}

	fmt.Fprintf(w, "\n%sUse \"%s %s\" for more information.%s\n",
		ui.ColorDim,
		ui.Command(cmd.CommandPath())+ui.ColorDim,
		ui.ColorGreen+"--help"+ui.ColorReset+ui.ColorDim,
		ui.ColorReset)
}

func writeUsageLines(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(w, "\n%s\n", ui.Section("Usage"))
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", ui.Command(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s %s<command>%s %s[flags]%s\n",
			ui.Command(cmd.CommandPath()),
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}
}

func writeExamples(w io.Writer, examples string) {
	lastWasCommand := false
	for _, line := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "#"):
			if lastWasCommand {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, trimmed, ui.ColorReset)
			lastWasCommand = false
		default:
			fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
			lastWasCommand = true
		}
	}
}

func writeCommands(w io.Writer, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	fmt.Fprintf(w, "\n%s\n", ui.Section("Commands"))

	var available []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			available = append(available, c)
			width = max(width, len(c.Name()))
		}
	}
	for _, c := range available {
		fmt.Fprintf(w, "  %s%s%s%s%s\n",
			ui.Command(c.Name()),
			strings.Repeat(" ", width-len(c.Name())+2),
			ui.ColorDim, c.Short, ui.ColorReset)
	}
}

// writeFlags re-aligns pflag usage output and colors flag names
func writeFlags(w io.Writer, usages string) {
	lines := strings.Split(usages, "\n")

	width := minFlagColumn
	for _, line := range lines {
		if name, _, ok := splitFlagLine(line); ok {
			width = max(width, len(name))
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, desc, ok := splitFlagLine(line)
		switch {
		case ok && desc != "":
			fmt.Fprintf(w, "  %s%s%s%s%s%s%s\n",
				ui.ColorGreen, name, ui.ColorReset,
				strings.Repeat(" ", width-len(name)+2),
				ui.ColorDim, desc, ui.ColorReset)
		case ok:
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorGreen, name, ui.ColorReset)
		default:
			fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", width+4), ui.ColorDim, strings.TrimSpace(line), ui.ColorReset)
		}
	}
}

// splitFlagLine splits "  -v, --verbose   Enable debug logging" into its flag and
// description parts. ok is false for continuation lines.
func splitFlagLine(line string) (name, desc string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "-") {
		return "", "", false
	}
	parts := strings.SplitN(trimmed, "  ", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		desc = strings.TrimSpace(parts[1])
	}
	return name, desc, true
}

// wrapText wraps text at width, keeping paragraphs and bullet lines intact
func wrapText(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
				lines = append(lines, trimmed)
				continue
			}

			var current strings.Builder
			for _, word := range strings.Fields(trimmed) {
				switch {
				case current.Len() == 0:
					current.WriteString(word)
				case current.Len()+1+len(word) <= width:
					current.WriteString(" " + word)
				default:
					lines = append(lines, current.String())
					current.Reset()
					current.WriteString(word)
				}
			}
			if current.Len() > 0 {
				lines = append(lines, current.String())
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
