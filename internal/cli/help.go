package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/boardid/internal/ui"
)

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", ui.Style(title, ui.ColorBold, ui.ColorWhite))
}

func usageLines(w io.Writer, cmd *cobra.Command) {
	heading(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s\n", ui.Style(cmd.UseLine(), ui.ColorCyan))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s %s %s\n", ui.Style(cmd.CommandPath(), ui.ColorCyan), ui.Warn("<command>"), ui.Dim("[flags]"))
	}
}

func commandList(w io.Writer, cmd *cobra.Command) {
	var cmds []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			cmds = append(cmds, c)
			width = max(width, len(c.Name()))
		}
	}
	if len(cmds) == 0 {
		return
	}
	heading(w, "Commands")
	for _, c := range cmds {
		fmt.Fprintf(w, "  %s%s%s\n", ui.Style(c.Name(), ui.ColorCyan), strings.Repeat(" ", width-len(c.Name())+2), ui.Dim(c.Short))
	}
}

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, args []string) {
	w := os.Stdout
	fmt.Fprintf(w, "\n%s\n", ui.Style(strings.ToUpper(cmd.Name()), ui.ColorBold, ui.ColorCyan))
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	usageLines(w, cmd)

	if cmd.HasExample() {
		heading(w, "Examples")
		lastWasCommand := false
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
			case strings.HasPrefix(trimmed, "#"):
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s\n", ui.Dim(trimmed))
				lastWasCommand = false
			default:
				fmt.Fprintf(w, "  %s\n", ui.Success("$ "+trimmed))
				lastWasCommand = true
			}
		}
	}

	commandList(w, cmd)

	if cmd.HasAvailableLocalFlags() {
		heading(w, "Flags")
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		heading(w, "Global Flags")
		printFlags(w, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%s\n", ui.Dim(fmt.Sprintf("Use \"%s <command> --help\" for more information about a command.", cmd.CommandPath())))
	}
	fmt.Fprintln(w)
}

// customUsageFunc provides a colorized usage output
func customUsageFunc(cmd *cobra.Command) error {
	w := os.Stderr
	usageLines(w, cmd)
	commandList(w, cmd)
	if cmd.HasAvailableLocalFlags() {
		heading(w, "Flags")
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	fmt.Fprintf(w, "\n%s\n", ui.Dim(fmt.Sprintf("Use \"%s --help\" for more information.", cmd.CommandPath())))
	return nil
}

// printFlags prints flag usages with the flag names aligned
func printFlags(w io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	width := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			width = max(width, len(strings.TrimSpace(strings.SplitN(trimmed, "  ", 2)[0])))
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "-") {
			// continuation of the previous description
			fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", width+4), ui.Dim(trimmed))
			continue
		}
		parts := strings.SplitN(trimmed, "  ", 2)
		if len(parts) < 2 {
			fmt.Fprintf(w, "  %s\n", ui.Success(trimmed))
			continue
		}
		flag := strings.TrimSpace(parts[0])
		fmt.Fprintf(w, "  %s%s%s\n", ui.Success(flag), strings.Repeat(" ", width-len(flag)+2), ui.Dim(strings.TrimSpace(parts[1])))
	}
}

// wrapText wraps text at width, keeping paragraphs and list items
func wrapText(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		var cur strings.Builder
		flush := func() {
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
		}
		for _, line := range strings.Split(para, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
				flush()
				lines = append(lines, trimmed)
				continue
			}
			for _, word := range strings.Fields(trimmed) {
				switch {
				case cur.Len() == 0:
				case cur.Len()+1+len(word) <= width:
					cur.WriteByte(' ')
				default:
					flush()
				}
				cur.WriteString(word)
			}
		}
		flush()
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
