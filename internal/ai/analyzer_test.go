package ai

import (
	"strings"
	"testing"

	"docbridge/internal/slackx"
)

func TestFormatTranscriptThreadGrouping(t *testing.T) {
	messages := []slackx.Message{
		{
			ChannelID:       "C1",
			Timestamp:       "1700000000.000100",
			Text:            "deadline moved to Friday",
			Permalink:       "https://acme.slack.com/archives/C1/p1700000000000100",
			ThreadTimestamp: "1700000000.000100",
		},
		{
			ChannelID:       "C1",
			Timestamp:       "1700000060.000200",
			Text:            "confirmed with the team",
			Permalink:       "https://acme.slack.com/archives/C1/p1700000060000200",
			ThreadTimestamp: "1700000000.000100",
			ParentTimestamp: "1700000000.000100",
			IsReply:         true,
		},
		{
			ChannelID: "C1",
			Timestamp: "1700000120.000300",
			Text:      "unrelated announcement",
			Permalink: "https://acme.slack.com/archives/C1/p1700000120000300",
		},
	}

	got := FormatTranscript(messages)

	wantThread := "THREAD START - 2023-11-14T22:13:20Z\n" +
		"LINK: https://acme.slack.com/archives/C1/p1700000000000100\n" +
		"PARENT MESSAGE: deadline moved to Friday\n" +
		"\nREPLY - 2023-11-14T22:14:20Z\n" +
		"LINK: https://acme.slack.com/archives/C1/p1700000060000200\n" +
		"TEXT: confirmed with the team\n" +
		"\nTHREAD END\n"
	wantStandalone := "MESSAGE - 2023-11-14T22:15:20Z\n" +
		"LINK: https://acme.slack.com/archives/C1/p1700000120000300\n" +
		"TEXT: unrelated announcement\n"

	want := wantThread + "\n---\n" + wantStandalone
	if got != want {
		t.Errorf("transcript mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTranscriptMissingPermalink(t *testing.T) {
	messages := []slackx.Message{
		{Timestamp: "1700000000.000100", Text: "hello"},
	}

	got := FormatTranscript(messages)
	if !strings.Contains(got, "LINK: N/A") {
		t.Errorf("expected N/A permalink placeholder, got:\n%s", got)
	}
}

func TestFormatTranscriptEmpty(t *testing.T) {
	if got := FormatTranscript(nil); got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestBuildPromptContainsInputs(t *testing.T) {
	prompt := buildPrompt("BLOCK_ID: b1\nTYPE: paragraph\nCONTENT: hi\n", "MESSAGE - now\nLINK: N/A\nTEXT: hey\n")

	for _, fragment := range []string{
		"BLOCK_ID: b1",
		"TEXT: hey",
		"**REQUIRED OUTPUT FORMAT:**",
		`respond with "No suggestions found."`,
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}
