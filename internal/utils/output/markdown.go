package output

import (
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// WriteMarkdown renders the HTML report and converts it to GitHub-flavoured
// Markdown
func WriteMarkdown(w io.Writer, records []Record) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// board links keep their full URL even when the text is the name
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			text := strings.TrimSpace(selec.Text())
			str := fmt.Sprintf("[%s](%s)", escapeCell(text), href)
			return &str
		},
	})

	report, err := renderHTML(records)
	if err != nil {
		return err
	}
	cleaned, err := CleanHTML(report)
	if err != nil {
		return err
	}

	mdStr, err := converter.ConvertString(cleaned)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mdStr+"\n")
	return err
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "[", `\[`, "]", `\]`).Replace(s)
}
