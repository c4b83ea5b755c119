// Package ai turns the rendered document records and the harvested
// conversation transcript into update suggestions via the Gemini API.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"docbridge/internal/domain"
	"docbridge/internal/slackx"
)

const (
	// systemInstruction is the fixed system role for every completion call.
	systemInstruction = "You are an expert Technical Program Manager analyzing Slack messages for potential updates to Notion documentation."

	// maxOutputTokens is the fixed completion token budget.
	maxOutputTokens = 4000
)

// Analyzer submits analysis prompts to a completion API and parses the
// fixed-format replies.
type Analyzer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer against the Gemini API.
func NewAnalyzer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Analyzer{client: client, model: model, logger: logger}, nil
}

// GenerateSuggestions builds the analysis prompt from the condensed block
// records and the harvested messages, requests a deterministic completion,
// and parses the reply into suggestions.
func (a *Analyzer) GenerateSuggestions(ctx context.Context, blockRecords string, messages []slackx.Message) ([]domain.Suggestion, error) {
	prompt := buildPrompt(blockRecords, FormatTranscript(messages))

	result, err := a.client.Models.GenerateContent(
		ctx,
		a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0),
			MaxOutputTokens:   maxOutputTokens,
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", domain.ErrUpstream, err)
	}

	var response strings.Builder
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			response.WriteString(part.Text)
		}
	}

	return a.ParseSuggestions(response.String()), nil
}

// FormatTranscript renders harvested messages for the prompt. Threads
// render as "THREAD START ... THREAD END" blocks, parent first and replies
// in harvest order; standalone messages render individually. Every entry
// carries its permalink and ISO-8601 timestamp.
func FormatTranscript(messages []slackx.Message) string {
	type thread struct {
		parent  *slackx.Message
		replies []slackx.Message
	}

	threads := make(map[string]*thread)
	var threadOrder []string
	var standalone []slackx.Message

	lookup := func(ts string) *thread {
		t, ok := threads[ts]
		if !ok {
			t = &thread{}
			threads[ts] = t
			threadOrder = append(threadOrder, ts)
		}
		return t
	}

	for i := range messages {
		msg := messages[i]
		switch {
		case msg.IsReply:
			lookup(msg.ParentTimestamp).replies = append(lookup(msg.ParentTimestamp).replies, msg)
		case msg.ThreadTimestamp != "":
			lookup(msg.Timestamp).parent = &msg
		default:
			standalone = append(standalone, msg)
		}
	}

	var sections []string
	for _, ts := range threadOrder {
		t := threads[ts]
		var b strings.Builder
		if t.parent != nil {
			fmt.Fprintf(&b, "THREAD START - %s\nLINK: %s\nPARENT MESSAGE: %s\n", slackx.ISOTimestamp(ts), permalinkOrNA(t.parent.Permalink), t.parent.Text)
		} else {
			fmt.Fprintf(&b, "THREAD START - %s\n", slackx.ISOTimestamp(ts))
		}
		for _, reply := range t.replies {
			fmt.Fprintf(&b, "\nREPLY - %s\nLINK: %s\nTEXT: %s\n", slackx.ISOTimestamp(reply.Timestamp), permalinkOrNA(reply.Permalink), reply.Text)
		}
		b.WriteString("\nTHREAD END\n")
		sections = append(sections, b.String())
	}

	for _, msg := range standalone {
		sections = append(sections, fmt.Sprintf("MESSAGE - %s\nLINK: %s\nTEXT: %s\n", slackx.ISOTimestamp(msg.Timestamp), permalinkOrNA(msg.Permalink), msg.Text))
	}

	return strings.Join(sections, "\n---\n")
}

func permalinkOrNA(link string) string {
	if link == "" {
		return "N/A"
	}
	return link
}

func buildPrompt(blockRecords, transcript string) string {
	return fmt.Sprintf(`**ROLE AND GOAL:**
You are an expert Technical Program Manager analyzing Slack messages and their thread replies to identify potential updates needed in Notion documentation. Your goal is to identify conflicts, new information, or outdated content.

**PRIMARY CONTEXT: The Source of Truth (Notion Blocks)**
%s

**INPUT DATA: Recent Slack Messages and Threads**
%s

**YOUR TASK:**
Carefully analyze each Slack message and its thread replies, comparing them against the Notion blocks. Pay special attention to threaded conversations as they often contain important clarifications, corrections, or updates. Identify messages that contain:
1. New information not present in the documentation
2. Updates to existing information
3. Direct conflicts with documented information
4. Important clarifications or corrections found in thread replies
5. Consensus or final decisions reached in thread discussions

**RULES:**
1. Focus on factual conflicts or definitive updates only
2. Each suggestion must reference a specific BLOCK_ID
3. Consider the full context of threaded conversations
4. Pay special attention to thread conclusions and consensus
5. Provide high confidence suggestions only
6. Consider context and avoid superficial changes

**REQUIRED OUTPUT FORMAT:**
For each suggestion, provide:

**Suggestion N**
* **Source Message Link:** `+"`<Link to the Slack message>`"+`
* **Thread Context:** `+"`<Brief summary of relevant thread discussion if applicable>`"+`
* **Triggering Text:** "`+"`<Quote the exact phrase from Slack.>`"+`"
* **Conflicting Block ID:** "`+"`<The exact BLOCK_ID of the outdated Notion block.>`"+`"
* **Conflicting Text in Block:** "`+"`<Quote the specific sentence from the Notion block's content.>`"+`"
* **Suggested Edit:** "`+"`<Write the new, updated text for the block.>`"+`"
* **Reasoning:** `+"`<Explain why this is a necessary update in one sentence.>`"+`
* **Confidence Score:** `+"`<High/Medium/Low>`"+`

If no valid suggestions are found, respond with "No suggestions found."`, blockRecords, transcript)
}
