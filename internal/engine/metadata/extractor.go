// internal/engine/metadata/extractor.go
package metadata

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/collegecrawl/pkg/models"
	"golang.org/x/net/html"
)

// Elements whose text is never visible.
const invisibleSelector = "script, style, noscript, template, iframe, svg"

// Extract fills the structural cues of page from a parsed document: title, first heading,
// address block, anchors and the visible text.
func Extract(doc *goquery.Document, page *models.Page) {
	if doc == nil || page == nil {
		return
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	page.Heading = VisibleText(doc.Find("h1").First())

	if addr := doc.Find("address").First(); addr.Length() > 0 {
		page.Address = VisibleText(addr)
	}

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		page.Links = append(page.Links, models.Link{
			Href: strings.TrimSpace(href),
			Text: VisibleText(sel),
		})
	})

	page.Text = ExtractText(doc)
}

// ExtractText returns the visible text of the whole document. Text nodes are trimmed and
// joined with single spaces so adjacent elements never run together.
func ExtractText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return VisibleText(root)
}

// VisibleText collects the trimmed text nodes under sel, skipping script-like elements.
func VisibleText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if isInvisible(n.Data) {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func isInvisible(tag string) bool {
	for _, name := range strings.Split(invisibleSelector, ", ") {
		if tag == name {
			return true
		}
	}
	return false
}
