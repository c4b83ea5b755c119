// Package slackx wraps the Slack Web API for the two relay surfaces:
// harvesting channel conversations and posting suggestion notifications.
package slackx

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// Message is one harvested channel message or thread reply. Messages are
// re-harvested every run; nothing is persisted between runs.
type Message struct {
	ChannelID       string
	Timestamp       string
	Text            string
	Permalink       string
	ThreadTimestamp string // set on parents that carry a thread reference
	ParentTimestamp string // set on replies
	IsReply         bool
}

// api is the slice of the Slack client the package needs; *slack.Client
// satisfies it, tests substitute fakes.
type api interface {
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	GetPermalinkContext(ctx context.Context, params *slack.PermalinkParameters) (string, error)
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Harvester retrieves channel messages plus threaded replies within a
// lookback window.
type Harvester struct {
	api       api
	workspace string
	logger    *slog.Logger
}

// NewHarvester creates a harvester. workspace names the Slack workspace
// used for constructed permalink fallbacks.
func NewHarvester(client *slack.Client, workspace string, logger *slog.Logger) *Harvester {
	return &Harvester{api: client, workspace: workspace, logger: logger}
}

func newHarvesterWithAPI(a api, workspace string, logger *slog.Logger) *Harvester {
	return &Harvester{api: a, workspace: workspace, logger: logger}
}

// Messages harvests every channel's history since the lookback cutoff,
// expanding threads into tagged replies. Per-channel failures are logged
// and skipped; harvesting continues with the remaining channels.
func (h *Harvester) Messages(ctx context.Context, channelIDs []string, lookbackDays int) []Message {
	var messages []Message
	oldest := time.Now().AddDate(0, 0, -lookbackDays)
	cutoff := fmt.Sprintf("%d.000000", oldest.Unix())

	for _, channelID := range channelIDs {
		channelMessages, err := h.harvestChannel(ctx, channelID, cutoff)
		if err != nil {
			h.logger.Error("failed to harvest channel", "channel_id", channelID, "error", err)
			continue
		}
		messages = append(messages, channelMessages...)
	}
	return messages
}

func (h *Harvester) harvestChannel(ctx context.Context, channelID, oldest string) ([]Message, error) {
	history, err := h.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    oldest,
		Limit:     1000,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation history: %w", err)
	}

	var messages []Message
	for _, msg := range history.Messages {
		parent := Message{
			ChannelID:       channelID,
			Timestamp:       msg.Timestamp,
			Text:            msg.Text,
			ThreadTimestamp: msg.ThreadTimestamp,
			Permalink:       h.permalink(ctx, channelID, msg.Timestamp),
		}
		messages = append(messages, parent)

		if msg.ReplyCount == 0 && msg.ThreadTimestamp == "" {
			continue
		}
		messages = append(messages, h.harvestReplies(ctx, channelID, msg.Timestamp)...)
	}
	return messages, nil
}

// harvestReplies fetches a thread's full reply list, excluding the entry
// that duplicates the parent.
func (h *Harvester) harvestReplies(ctx context.Context, channelID, parentTS string) []Message {
	replies, _, _, err := h.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: parentTS,
		Limit:     200,
	})
	if err != nil {
		h.logger.Warn("failed to fetch thread replies", "channel_id", channelID, "thread_ts", parentTS, "error", err)
		return nil
	}

	var messages []Message
	for _, reply := range replies {
		if reply.Timestamp == parentTS {
			continue
		}
		messages = append(messages, Message{
			ChannelID:       channelID,
			Timestamp:       reply.Timestamp,
			Text:            reply.Text,
			ParentTimestamp: parentTS,
			IsReply:         true,
			Permalink:       h.permalink(ctx, channelID, reply.Timestamp),
		})
	}
	return messages
}

// permalink resolves a message permalink via the API, falling back to a
// deterministically constructed archive URL when the lookup fails.
func (h *Harvester) permalink(ctx context.Context, channelID, ts string) string {
	link, err := h.api.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: channelID,
		Ts:      ts,
	})
	if err != nil {
		h.logger.Debug("permalink lookup failed, constructing", "channel_id", channelID, "ts", ts, "error", err)
		return constructedPermalink(h.workspace, channelID, ts)
	}
	return link
}

func constructedPermalink(workspace, channelID, ts string) string {
	return fmt.Sprintf("https://%s.slack.com/archives/%s/p%s", workspace, channelID, strings.Replace(ts, ".", "", 1))
}

// ISOTimestamp renders a Slack message timestamp ("1700000000.000100") as
// an ISO-8601 time.
func ISOTimestamp(ts string) string {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return ts
	}
	return time.Unix(int64(seconds), 0).UTC().Format(time.RFC3339)
}
