package slackx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"docbridge/internal/domain"
)

// Notifier resolves recipients and posts suggestion messages.
type Notifier struct {
	api    api
	users  map[string]string // email -> Slack user id, from static config
	logger *slog.Logger
}

// NewNotifier creates a notifier. users is the static identity mapping
// consulted before the directory lookup.
func NewNotifier(client *slack.Client, users map[string]string, logger *slog.Logger) *Notifier {
	return &Notifier{api: client, users: users, logger: logger}
}

func newNotifierWithAPI(a api, users map[string]string, logger *slog.Logger) *Notifier {
	return &Notifier{api: a, users: users, logger: logger}
}

// ResolveRecipient maps an email address to a Slack user id, consulting
// the static mapping table first and falling back to a directory lookup.
func (n *Notifier) ResolveRecipient(ctx context.Context, email string) (string, error) {
	if id, ok := n.users[email]; ok {
		return id, nil
	}

	user, err := n.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: slack user for %s: %v", domain.ErrNotFound, email, err)
	}
	return user.ID, nil
}

// PostSuggestion renders a suggestion as a Block Kit message and posts it
// to the recipient. Returns whether the post succeeded; failures are
// logged, not raised.
func (n *Notifier) PostSuggestion(ctx context.Context, userID string, s domain.Suggestion) bool {
	blocks := suggestionBlocks(s)

	_, _, err := n.api.PostMessageContext(ctx, userID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText("A potential document update has been identified.", false),
		slack.MsgOptionPostMessageParameters(slack.PostMessageParameters{
			UnfurlLinks: false,
			UnfurlMedia: false,
		}),
	)
	if err != nil {
		n.logger.Error("failed to post suggestion", "user_id", userID, "block_id", s.BlockID, "error", err)
		return false
	}
	return true
}

func suggestionBlocks(s domain.Suggestion) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, "🔄 Potential Document Update Needed", true, false),
	)

	source := fmt.Sprintf("*Source:* %s\n*Triggering Text:* %s", s.SourceMessageLink, s.TriggeringText)
	if s.ThreadContext != "" {
		source += "\n*Thread Context:* " + s.ThreadContext
	}

	blocks := []slack.Block{
		header,
		section(source),
		section(fmt.Sprintf("*Current Text:* %s\n*Suggested Update:* %s", s.ConflictingText, s.SuggestedEdit)),
		section(fmt.Sprintf("*Reasoning:* %s\n*Confidence:* %s", s.Reasoning, s.Confidence)),
	}

	if s.NotionURL != "" {
		button := slack.NewButtonBlockElement("view_in_notion", s.BlockID,
			slack.NewTextBlockObject(slack.PlainTextType, "View in Notion", false, false))
		button.URL = s.NotionURL
		button.Style = slack.StylePrimary
		blocks = append(blocks, slack.NewActionBlock("", button))
	}

	return blocks
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
		nil, nil,
	)
}
