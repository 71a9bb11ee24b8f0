package rendering

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts resume Markdown into a complete HTML document
type Renderer interface {
	Render(markdown, displayName string) (string, error)
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 16mm 14mm; }
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
  line-height: 1.5;
  color: #333;
  max-width: 800px;
  margin: 0 auto;
  padding: 40px 20px;
}
h1 { font-size: 28px; margin: 0 0 10px; color: #1a1a1a; }
h2 { font-size: 20px; margin: 28px 0 12px; color: #2563eb; border-bottom: 2px solid #e5e7eb; padding-bottom: 4px; }
h3 { font-size: 16px; margin: 14px 0 6px; color: #1a1a1a; }
p { margin: 8px 0; }
ul { margin: 8px 0; padding-left: 20px; }
li { margin: 4px 0; }
a { color: inherit; }
strong { color: #1a1a1a; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #e5e7eb; }
@media print {
  body { max-width: none; padding: 0; font-size: 11pt; }
  h2 { break-after: avoid; }
  li, tr { break-inside: avoid; }
  a { text-decoration: none; }
}
</style>
</head>
<body>
{{.Body}}</body>
</html>
`

type documentData struct {
	Title string
	Body  template.HTML
}

// MarkdownRenderer renders CommonMark with GitHub extensions. Raw HTML in the
// source is dropped, so model output cannot inject markup or scripts.
type MarkdownRenderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// NewMarkdownRenderer creates the production renderer
func NewMarkdownRenderer() (*MarkdownRenderer, error) {
	tmpl, err := template.New("resume").Parse(documentTemplate)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse document template", Cause: err}
	}

	return &MarkdownRenderer{
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		tmpl: tmpl,
	}, nil
}

// Render converts markdown to HTML and wraps it in the resume document.
// Identical input always yields identical output.
func (r *MarkdownRenderer) Render(markdown, displayName string) (string, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &body); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}

	title := strings.TrimSpace(displayName)
	if title == "" {
		title = "Resume"
	} else {
		title += " - Resume"
	}

	var out bytes.Buffer
	err := r.tmpl.Execute(&out, documentData{
		Title: title,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute document template", Cause: err}
	}

	return out.String(), nil
}
