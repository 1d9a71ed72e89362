// Package htmlinspect extracts form diagnostics from rendered page HTML.
package htmlinspect

import (
	"fmt"
	"strings"

	"registration-agent/internal/domain/entity"

	"golang.org/x/net/html"
)

const maxValueLen = 20

// Inputs lists <input> elements in document order, up to limit (0 means no
// limit). Values are cut to 20 runes.
func Inputs(rawHTML string, limit int) ([]entity.InputSummary, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []entity.InputSummary
	walk(doc, func(n *html.Node) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "input" {
			out = append(out, summarize(n))
		}
		return true
	})
	return out, nil
}

func summarize(n *html.Node) entity.InputSummary {
	typ := attr(n, "type")
	if typ == "" {
		typ = "text"
	}
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	_, hiddenAttr := lookup(n, "hidden")

	return entity.InputSummary{
		Name:        attr(n, "name"),
		Type:        typ,
		ID:          attr(n, "id"),
		Value:       truncateRunes(attr(n, "value"), maxValueLen),
		Placeholder: attr(n, "placeholder"),
		Hidden:      typ == "hidden" || hiddenAttr || strings.Contains(style, "display:none"),
	}
}

// walk visits nodes depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	v, _ := lookup(n, key)
	return v
}

func lookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
