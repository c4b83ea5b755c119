package render

import (
	"strings"

	"docbridge/internal/notion"
)

// documentStyle is the fixed inline stylesheet for converted documents.
const documentStyle = "body{font-family:Arial,Helvetica,sans-serif;line-height:1.6;padding:20px;max-width:800px;margin:auto;}" +
	"h1,h2,h3{font-weight:bold;}pre{background:#f0f0f0;padding:10px;}blockquote{border-left:3px solid #ccc;padding-left:15px;color:#555;}"

// Document assembles a complete HTML document from the metadata line list
// and the rendered block tree. The metadata delimiter line is dropped;
// every other line becomes an escaped paragraph above the body.
func Document(metadataLines []string, blocks []notion.Block) string {
	var meta []string
	for _, line := range metadataLines {
		if line == "---" {
			continue
		}
		meta = append(meta, "<p>"+EscapeHTML(line)+"</p>")
	}

	title := ""
	if len(metadataLines) > 0 {
		title = metadataLines[0]
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset='utf-8'><title>")
	b.WriteString(EscapeHTML(title))
	b.WriteString("</title><style>")
	b.WriteString(documentStyle)
	b.WriteString("</style></head><body><div class='metadata'>")
	b.WriteString(strings.Join(meta, "\n"))
	b.WriteString("</div>")
	b.WriteString(HTML(blocks))
	b.WriteString("</body></html>")
	return b.String()
}
