package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
)

// StripMarkdown flattens markdown (and stray HTML) into plain text. Used
// for LLM-produced fragments that end up inside another sentence, where
// formatting artifacts would read as noise.
func StripMarkdown(md string) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	rendered := markdown.Render(p.Parse([]byte(md)), renderer)

	text, err := html2text.FromString(string(rendered), html2text.Options{
		OmitLinks: true,
	})
	if err != nil {
		return strings.TrimSpace(md)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
