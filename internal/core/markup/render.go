package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Link is an anchor scraped from a content fragment.
type Link struct {
	Href string
	Text string
}

// ParseLinks scrapes all anchors with a non-empty href from a fragment.
func ParseLinks(fragment string) []Link {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var links []Link
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		text := strings.TrimSpace(textContent(n))
		if text == "" {
			text = href
		}
		links = append(links, Link{Href: href, Text: text})
	})

	return links
}

// ExtractTitle returns the text of the first heading in the fragment, or ""
// when there is none. The lightbox title bar shows it.
func ExtractTitle(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var title string
	walk(root, func(n *html.Node) {
		if title != "" || n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h1", "h2", "h3":
			title = strings.TrimSpace(textContent(n))
		}
	})

	return title
}

// blockTags start a new output line when rendering a fragment as text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"ul": true, "ol": true, "table": true, "form": true,
}

// Render flattens an HTML fragment into plain text for the content region.
// Block elements break lines, list items get a bullet, and blank lines are
// dropped. Inline markup is dropped.
func Render(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(StripTags(fragment))
	}

	var sb strings.Builder
	renderNode(root, &sb)
	return collapseBlank(sb.String())
}

func renderNode(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
		}
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
		if blockTags[n.Data] && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if n.Data == "li" {
			sb.WriteString("• ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(c, sb)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		sb.WriteString("\n")
	}
}

func collapseBlank(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
