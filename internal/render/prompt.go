package render

import (
	"fmt"
	"strings"

	"docbridge/internal/notion"
)

// recordDelimiter separates condensed block records in prompt text.
const recordDelimiter = "\n---\n"

// PromptRecords renders blocks as condensed per-block records for a
// language-model prompt: id, type tag, and extracted text, in document
// order including recursive descent. Blocks without extractable text are
// skipped, but their children still render.
func PromptRecords(blocks []notion.Block) string {
	return strings.Join(collectRecords(blocks, nil), recordDelimiter)
}

func collectRecords(blocks []notion.Block, records []string) []string {
	for i := range blocks {
		blk := &blocks[i]
		if content := condensedText(blk); content != "" {
			records = append(records, fmt.Sprintf("BLOCK_ID: %s\nTYPE: %s\nCONTENT: %s\n", blk.ID, blk.Type, content))
		}
		if len(blk.Children) > 0 {
			records = collectRecords(blk.Children, records)
		}
	}
	return records
}

// condensedText extracts a single prompt-ready string from a block. Table
// rows are " | "-joined per row and newline-joined across rows; code keeps
// its language tag in a fence.
func condensedText(blk *notion.Block) string {
	switch blk.Type {
	case "table":
		if blk.Table == nil {
			return ""
		}
		rows := make([]string, 0, len(blk.Table.Rows))
		for _, row := range blk.Table.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, notion.JoinRichText(cell))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		return strings.Join(rows, "\n")
	case "code":
		if blk.Code == nil {
			return ""
		}
		return fmt.Sprintf("```%s\n%s\n```", blk.Code.Language, notion.JoinRichText(blk.Code.RichText))
	default:
		return blk.Text()
	}
}
