// Package render holds the pure transforms from a fetched block tree to
// the artifact representations: plain text, HTML, condensed prompt
// records, and the page metadata line list. Renderers walk the tree in
// document order, parent lines before children, and never mutate it.
package render

import (
	"strings"

	"docbridge/internal/notion"
)

// PlainText renders blocks as plain text, depth-first. Headings are
// upper-cased, list items get literal prefix markers, quotes get "> ",
// dividers render as a horizontal rule, everything else renders its text
// verbatim. Children append immediately after the parent line.
func PlainText(blocks []notion.Block) string {
	var lines []string
	for i := range blocks {
		blk := &blocks[i]
		content := blk.Text()

		switch {
		case strings.HasPrefix(blk.Type, "heading_"):
			lines = append(lines, strings.ToUpper(content))
		case blk.Type == "bulleted_list_item":
			lines = append(lines, "- "+content)
		case blk.Type == "numbered_list_item":
			lines = append(lines, "1. "+content)
		case blk.Type == "quote":
			lines = append(lines, "> "+content)
		case blk.Type == "divider":
			lines = append(lines, "\n---\n")
		default:
			// paragraph, code, and anything else render verbatim
			lines = append(lines, content)
		}

		if len(blk.Children) > 0 {
			lines = append(lines, PlainText(blk.Children))
		}
	}
	return strings.Join(lines, "\n")
}
