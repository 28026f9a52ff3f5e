// Package conv renders the Markdown replies produced by the router for each
// transport.
package conv

import (
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

const bullet = "• "

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

// MarkdownToTelegramHTML renders md with the subset of HTML Telegram
// accepts. Lists become bullet lines since Telegram has no list tags.
func MarkdownToTelegramHTML(md []byte) string {
	unsafeHTML := render(md, telegramListHook, 0)
	return string(tgPolicy.SanitizeBytes(unsafeHTML))
}

// MarkdownToPlain renders md as terminal text. Every source line break is
// kept.
func MarkdownToPlain(md string) string {
	h := render([]byte(md), nil, parser.HardLineBreak)
	text, err := html2text.FromString(string(h), html2text.Options{
		OmitLinks:    true,
		PrettyTables: true,
	})
	if err != nil {
		return md
	}
	return text
}

func render(md []byte, hook html.RenderNodeFunc, extra parser.Extensions) []byte {
	p := parser.NewWithExtensions(extensions | extra)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          htmlFlags,
		RenderNodeHook: hook,
	})
	return markdown.Render(p.Parse(md), renderer)
}

func telegramListHook(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch node.(type) {
	case *ast.List:
		return ast.GoToNext, true
	case *ast.ListItem:
		if entering {
			_, _ = io.WriteString(w, bullet)
		} else {
			_, _ = io.WriteString(w, "\n")
		}
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}

// TrimBlankLines collapses runs of blank lines left behind by sanitizing.
func TrimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
