// Package extract turns pasted or fetched listing pages into plain text that
// the lead extractors can scan.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Document is the readable text of a listing page.
type Document struct {
	Title string
	Text  string
}

// FromHTML flattens a listing page into text. Block elements (rows, cells,
// list items, paragraphs) become line breaks so that a phone number in one
// cell never runs into a name in the next one. Scripts, styles, navigation
// and consent banners are dropped.
func FromHTML(input []byte) Document {
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil || root == nil {
		return Document{}
	}
	var b strings.Builder
	walk(&b, root)
	return Document{
		Title: strings.TrimSpace(titleOf(root)),
		Text:  tidy(b.String()),
	}
}

var htmlSniff = regexp.MustCompile(`(?i)<\s*(!doctype\s+html|html|body|div|p|table|br|span|li)[\s/>]`)

// LooksLikeHTML reports whether pasted text appears to be HTML markup rather
// than a chat log or plain listing text.
func LooksLikeHTML(s string) bool {
	head := s
	if len(head) > 4096 {
		head = head[:4096]
	}
	return htmlSniff.MatchString(head)
}

func titleOf(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil {
			return n.FirstChild.Data
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := titleOf(c); t != "" {
			return t
		}
	}
	return ""
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipElement(n) {
			return
		}
	}
	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
	if block {
		b.WriteByte('\n')
	} else if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		b.WriteByte(' ')
	}
}

func skipElement(n *html.Node) bool {
	switch strings.ToLower(n.Data) {
	case "head", "script", "style", "noscript", "nav", "footer", "iframe", "svg", "template":
		return true
	}
	for _, a := range n.Attr {
		if a.Key != "id" && a.Key != "class" && a.Key != "role" && a.Key != "aria-label" {
			continue
		}
		v := strings.ToLower(a.Val)
		if strings.Contains(v, "cookie") || strings.Contains(v, "consent") {
			return true
		}
	}
	return false
}

func isBlock(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "section", "article", "main", "header", "li", "ul", "ol",
		"tr", "table", "br", "hr", "h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "pre", "dd", "dt":
		return true
	}
	return false
}

// tidy collapses runs of spaces inside lines and keeps at most one blank line
// between paragraphs.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
