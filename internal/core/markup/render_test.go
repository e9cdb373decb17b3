package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinks(t *testing.T) {
	fragment := `
<p>See <a href="/Record/123">the record</a> or
<a href="#top">jump</a> or <a href="/Help/Home"></a>.</p>`

	links := ParseLinks(fragment)

	assert.Equal(t, []Link{
		{Href: "/Record/123", Text: "the record"},
		{Href: "/Help/Home", Text: "/Help/Home"},
	}, links, "fragment-only anchors are skipped, empty text falls back to href")
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Send Feedback", ExtractTitle(`<div><h2>Send Feedback</h2><p>x</p></div>`))
	assert.Equal(t, "", ExtractTitle(`<p>no heading</p>`))
}

func TestRender(t *testing.T) {
	fragment := `
<h2>Results</h2>
<p>Found <b>two</b> items:</p>
<ul><li>first</li><li>second</li></ul>
<script>ignored()</script>`

	got := Render(fragment)

	assert.Equal(t, "Results\nFound two items:\n• first\n• second", got)
}

func TestRender_DropsBlankLines(t *testing.T) {
	// Nested and adjacent blocks each emit their own line breaks; none of
	// them may surface as blank output lines.
	fragment := `<div><div><p>one</p></div></div><br><br><p>two</p>`

	assert.Equal(t, "one\ntwo", Render(fragment))
}
