package slackx

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/slack-go/slack"
)

// fakeAPI returns canned responses keyed by channel or thread timestamp.
type fakeAPI struct {
	history    map[string][]slack.Message // channel id -> messages
	historyErr map[string]error
	replies    map[string][]slack.Message // parent ts -> thread (parent included)
	permalinks map[string]string          // ts -> link
	users      map[string]*slack.User     // email -> user
	posted     []string                   // channel ids of posted messages
	postErr    error
}

func (f *fakeAPI) GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if err := f.historyErr[params.ChannelID]; err != nil {
		return nil, err
	}
	return &slack.GetConversationHistoryResponse{Messages: f.history[params.ChannelID]}, nil
}

func (f *fakeAPI) GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	return f.replies[params.Timestamp], false, "", nil
}

func (f *fakeAPI) GetPermalinkContext(ctx context.Context, params *slack.PermalinkParameters) (string, error) {
	link, ok := f.permalinks[params.Ts]
	if !ok {
		return "", errors.New("permalink unavailable")
	}
	return link, nil
}

func (f *fakeAPI) GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, errors.New("users_not_found")
	}
	return user, nil
}

func (f *fakeAPI) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	if f.postErr != nil {
		return "", "", f.postErr
	}
	f.posted = append(f.posted, channelID)
	return channelID, "1700000000.000001", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func slackMsg(ts, text string, threadTS string, replyCount int) slack.Message {
	return slack.Message{Msg: slack.Msg{
		Timestamp:       ts,
		Text:            text,
		ThreadTimestamp: threadTS,
		ReplyCount:      replyCount,
	}}
}

func TestMessagesExpandsThreads(t *testing.T) {
	api := &fakeAPI{
		history: map[string][]slack.Message{
			"C1": {
				slackMsg("100.1", "parent", "100.1", 2),
				slackMsg("200.1", "standalone", "", 0),
			},
		},
		replies: map[string][]slack.Message{
			"100.1": {
				slackMsg("100.1", "parent", "100.1", 2),
				slackMsg("101.1", "first reply", "100.1", 0),
				slackMsg("102.1", "second reply", "100.1", 0),
			},
		},
		permalinks: map[string]string{
			"100.1": "https://acme.slack.com/archives/C1/p1001",
			"101.1": "https://acme.slack.com/archives/C1/p1011",
			"102.1": "https://acme.slack.com/archives/C1/p1021",
			"200.1": "https://acme.slack.com/archives/C1/p2001",
		},
	}

	h := newHarvesterWithAPI(api, "acme", testLogger())
	got := h.Messages(context.Background(), []string{"C1"}, 7)

	if len(got) != 4 {
		t.Fatalf("got %d messages, want 4 (parent, 2 replies, standalone)", len(got))
	}

	parent := got[0]
	if parent.IsReply || parent.ThreadTimestamp != "100.1" {
		t.Errorf("parent tagged wrong: %+v", parent)
	}
	for i, reply := range got[1:3] {
		if !reply.IsReply || reply.ParentTimestamp != "100.1" {
			t.Errorf("reply %d tagged wrong: %+v", i, reply)
		}
	}
	if got[1].Text != "first reply" || got[2].Text != "second reply" {
		t.Errorf("replies out of order: %q, %q", got[1].Text, got[2].Text)
	}
	if got[3].Text != "standalone" || got[3].IsReply {
		t.Errorf("standalone tagged wrong: %+v", got[3])
	}
}

func TestMessagesExcludesParentDuplicateFromReplies(t *testing.T) {
	api := &fakeAPI{
		history: map[string][]slack.Message{
			"C1": {slackMsg("100.1", "parent", "100.1", 1)},
		},
		replies: map[string][]slack.Message{
			"100.1": {
				slackMsg("100.1", "parent", "100.1", 1),
				slackMsg("101.1", "reply", "100.1", 0),
			},
		},
	}

	h := newHarvesterWithAPI(api, "acme", testLogger())
	got := h.Messages(context.Background(), []string{"C1"}, 7)

	count := 0
	for _, msg := range got {
		if msg.Timestamp == "100.1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("parent appeared %d times, want once", count)
	}
}

func TestMessagesConstructsPermalinkOnLookupFailure(t *testing.T) {
	api := &fakeAPI{
		history: map[string][]slack.Message{
			"C1": {slackMsg("1700000000.000100", "hello", "", 0)},
		},
	}

	h := newHarvesterWithAPI(api, "acme", testLogger())
	got := h.Messages(context.Background(), []string{"C1"}, 7)

	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	want := "https://acme.slack.com/archives/C1/p1700000000000100"
	if got[0].Permalink != want {
		t.Errorf("permalink = %q, want %q", got[0].Permalink, want)
	}
}

func TestMessagesSkipsFailedChannels(t *testing.T) {
	api := &fakeAPI{
		history: map[string][]slack.Message{
			"C2": {slackMsg("200.1", "survivor", "", 0)},
		},
		historyErr: map[string]error{"C1": errors.New("channel_not_found")},
	}

	h := newHarvesterWithAPI(api, "acme", testLogger())
	got := h.Messages(context.Background(), []string{"C1", "C2"}, 7)

	if len(got) != 1 || got[0].Text != "survivor" {
		t.Errorf("got %+v, want only the C2 message", got)
	}
}

func TestISOTimestamp(t *testing.T) {
	tests := []struct {
		ts   string
		want string
	}{
		{"1700000000.000100", "2023-11-14T22:13:20Z"},
		{"not-a-timestamp", "not-a-timestamp"},
	}
	for _, tt := range tests {
		if got := ISOTimestamp(tt.ts); got != tt.want {
			t.Errorf("ISOTimestamp(%q) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}
