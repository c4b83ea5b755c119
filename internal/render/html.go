package render

import (
	"strings"

	"docbridge/internal/notion"
)

// EscapeHTML escapes the five HTML-special characters.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}

// htmlWrappers maps each recognized block type to its fixed wrapper tags.
var htmlWrappers = map[string][2]string{
	"paragraph":          {"<p>", "</p>"},
	"heading_1":          {"<h1>", "</h1>"},
	"heading_2":          {"<h2>", "</h2>"},
	"heading_3":          {"<h3>", "</h3>"},
	"bulleted_list_item": {"<ul><li>", "</li></ul>"},
	"numbered_list_item": {"<ol><li>", "</li></ol>"},
	"code":               {"<pre><code>", "</code></pre>"},
	"quote":              {"<blockquote>", "</blockquote>"},
}

// HTML renders blocks as an HTML fragment, depth-first. All text content
// is escaped before insertion. Unrecognized types emit nothing, but their
// children still recurse and render.
func HTML(blocks []notion.Block) string {
	var parts []string
	for i := range blocks {
		blk := &blocks[i]

		if blk.Type == "divider" {
			parts = append(parts, "<hr />")
		} else if wrap, ok := htmlWrappers[blk.Type]; ok {
			parts = append(parts, wrap[0]+EscapeHTML(blk.Text())+wrap[1])
		}

		if len(blk.Children) > 0 {
			parts = append(parts, HTML(blk.Children))
		}
	}
	return strings.Join(parts, "\n")
}
