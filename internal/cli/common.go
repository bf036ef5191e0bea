package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/reqctx"
	"github.com/law-makers/boardid/internal/ui"
	"github.com/law-makers/boardid/internal/utils/output"
)

// errorLine formats err for the terminal: the user-facing message, the
// error code and the request id when there is one
func errorLine(err error) string {
	line := ui.Error("✗ " + engine.UserMessage(err))
	var extra []string
	if code := engine.CodeOf(err); code != "" {
		extra = append(extra, string(code))
	}
	var re *reqctx.RequestError
	if errors.As(err, &re) {
		extra = append(extra, "request "+re.RequestID)
	}
	if len(extra) > 0 {
		line += " " + ui.Dim("("+strings.Join(extra, ", ")+")")
	}
	return line
}

func printRecord(w io.Writer, r output.Record) {
	if !r.Success {
		fmt.Fprintln(w, ui.Error("✗ ")+ui.Value(r.URL))
		fmt.Fprintf(w, "  %s %s\n", ui.Dim("Error:"), r.Error)
		if r.Title != "" {
			fmt.Fprintf(w, "  %s %s\n", ui.Dim("Title:"), r.Title)
		}
		return
	}
	fmt.Fprintf(w, "%s %s\n", ui.Success("✓ Board ID"), ui.Bold(r.ID))
	fields := [][2]string{
		{"Name", r.Name},
		{"Method", string(r.Method)},
		{"URL", r.URL},
		{"Thumbnail", r.Thumbnail},
		{"Time", (time.Duration(r.DurationMS) * time.Millisecond).String()},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", ui.Dim(fmt.Sprintf("%-10s", f[0]+":")), ui.Value(f[1]))
	}
}

// readURLs expands args into board URLs. "-" reads stdin and an existing
// file path is read line by line; anything else is taken as a URL. Blank
// lines and lines starting with # are skipped.
func readURLs(args []string, stdin io.Reader) ([]string, error) {
	var urls []string
	add := func(r io.Reader) error {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			urls = append(urls, line)
		}
		return sc.Err()
	}

	for _, arg := range args {
		if arg == "-" {
			if err := add(stdin); err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			continue
		}
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			f, err := os.Open(arg)
			if err != nil {
				return nil, err
			}
			err = add(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", arg, err)
			}
			continue
		}
		urls = append(urls, arg)
	}
	return urls, nil
}
