package output

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Board ids</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
tr.failed td { color: #a00; }
img { max-height: 48px; }
</style>
</head>
<body>
<h1>Board ids</h1>
<p>{{.OK}} found, {{.Failed}} failed</p>
<table>
<thead><tr><th>Board</th><th>ID</th><th>Method</th><th>Thumbnail</th><th>Error</th></tr></thead>
<tbody>
{{range .Records}}<tr{{if not .Success}} class="failed"{{end}}>
<td><a href="{{.URL}}" title="{{.URL}}">{{if .Name}}{{.Name}}{{else if .Title}}{{.Title}}{{else}}{{.URL}}{{end}}</a></td>
<td>{{.ID}}</td>
<td>{{.Method}}</td>
<td>{{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="{{.Name}}">{{end}}</td>
<td>{{.Error}}</td>
</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type reportData struct {
	Records []Record
	OK      int
	Failed  int
}

// WriteHTML renders a standalone HTML report
func WriteHTML(w io.Writer, records []Record) error {
	ok, failed := Summary(records)
	return reportTemplate.Execute(w, reportData{Records: records, OK: ok, Failed: failed})
}

func renderHTML(records []Record) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CleanHTML removes unwanted elements and attributes to produce a safe HTML excerpt
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas, title").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		var kept []html.Attribute
		for _, attr := range node.Attr {
			switch {
			case node.Data == "a" && (attr.Key == "href" || attr.Key == "title"):
			case node.Data == "img" && (attr.Key == "src" || attr.Key == "alt"):
			default:
				continue
			}
			kept = append(kept, attr)
		}
		node.Attr = kept
	})

	htmlStr, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlStr), nil
}
