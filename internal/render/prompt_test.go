package render

import (
	"strings"
	"testing"

	"docbridge/internal/notion"
)

func TestPromptRecords(t *testing.T) {
	blocks := []notion.Block{
		textBlock("b1", "paragraph", "hello"),
		{
			ID:   "b2",
			Type: "code",
			Code: &notion.CodeContent{
				Language: "go",
				RichText: []notion.RichText{{PlainText: "fmt.Println(1)"}},
			},
		},
		{
			ID:   "b3",
			Type: "table",
			Table: &notion.TableContent{Rows: []notion.TableRow{
				{Cells: [][]notion.RichText{
					{{PlainText: "a"}},
					{{PlainText: "b"}},
				}},
				{Cells: [][]notion.RichText{
					{{PlainText: "c"}},
					{{PlainText: "d"}},
				}},
			}},
		},
	}

	got := PromptRecords(blocks)
	records := strings.Split(got, "\n---\n")
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d:\n%s", len(records), got)
	}

	if records[0] != "BLOCK_ID: b1\nTYPE: paragraph\nCONTENT: hello\n" {
		t.Errorf("paragraph record = %q", records[0])
	}
	if !strings.Contains(records[1], "```go\nfmt.Println(1)\n```") {
		t.Errorf("code record missing fenced body: %q", records[1])
	}
	if !strings.Contains(records[2], "a | b\nc | d") {
		t.Errorf("table record = %q", records[2])
	}
}

func TestPromptRecordsSkipsEmptyButRecursesChildren(t *testing.T) {
	blocks := []notion.Block{
		{ID: "b1", Type: "divider", Children: []notion.Block{
			textBlock("b2", "paragraph", "nested"),
		}},
	}

	got := PromptRecords(blocks)
	if strings.Contains(got, "b1") {
		t.Errorf("divider should not produce a record: %q", got)
	}
	if !strings.Contains(got, "BLOCK_ID: b2") {
		t.Errorf("child record missing: %q", got)
	}
}
