package ai

import (
	"strings"

	"docbridge/internal/domain"
)

// noSuggestionsSentinel is the literal reply meaning an empty result.
const noSuggestionsSentinel = "No suggestions found."

// suggestionMarker splits the reply into individual suggestion blocks.
const suggestionMarker = "**Suggestion"

// Field markers, in reply order. Each field's value sits between its
// marker and the next one.
var fieldMarkers = []string{
	"**Source Message Link:**",
	"**Thread Context:**",
	"**Triggering Text:**",
	"**Conflicting Block ID:**",
	"**Conflicting Text in Block:**",
	"**Suggested Edit:**",
	"**Reasoning:**",
	"**Confidence Score:**",
}

// ParseSuggestions parses a completion reply into suggestions. The
// sentinel reply yields an empty list; malformed individual blocks are
// logged and skipped without aborting the batch.
func (a *Analyzer) ParseSuggestions(response string) []domain.Suggestion {
	suggestions := []domain.Suggestion{}

	if strings.Contains(response, noSuggestionsSentinel) {
		return suggestions
	}

	parts := strings.Split(response, suggestionMarker)
	for _, part := range parts[1:] {
		suggestion, ok := parseSuggestion(part)
		if !ok {
			a.logger.Warn("skipping malformed suggestion block", "block", truncate(part, 200))
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions
}

func parseSuggestion(part string) (domain.Suggestion, bool) {
	fields := make([]string, len(fieldMarkers))
	for i, marker := range fieldMarkers {
		next := ""
		if i+1 < len(fieldMarkers) {
			next = fieldMarkers[i+1]
		}
		value, ok := fieldBetween(part, marker, next)
		if !ok {
			return domain.Suggestion{}, false
		}
		fields[i] = value
	}

	return domain.Suggestion{
		SourceMessageLink: fields[0],
		ThreadContext:     fields[1],
		TriggeringText:    fields[2],
		BlockID:           fields[3],
		ConflictingText:   fields[4],
		SuggestedEdit:     fields[5],
		Reasoning:         fields[6],
		Confidence:        fields[7],
	}, true
}

// fieldBetween locates the text between two known markers by literal
// substring search. An empty end marker means the rest of the block.
func fieldBetween(part, start, end string) (string, bool) {
	idx := strings.Index(part, start)
	if idx < 0 {
		return "", false
	}
	value := part[idx+len(start):]

	if end != "" {
		endIdx := strings.Index(value, end)
		if endIdx < 0 {
			return "", false
		}
		value = value[:endIdx]
	}

	return strings.Trim(value, " \t\r\n*`\""), true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
