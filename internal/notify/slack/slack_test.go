package slack

import (
	"context"
	"sync"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/penlog/internal/notify"
)

// postedMessage records one PostMessage call.
type postedMessage struct {
	channelID string
	options   []slackapi.MsgOption
}

// mockSlackClient implements slackClient for tests.
type mockSlackClient struct {
	mu      sync.Mutex
	posted  []postedMessage
	postErr error
}

func (m *mockSlackClient) AuthTest() (*slackapi.AuthTestResponse, error) {
	return &slackapi.AuthTestResponse{UserID: "UBOT"}, nil
}

func (m *mockSlackClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", "", m.postErr
	}
	m.posted = append(m.posted, postedMessage{channelID: channelID, options: options})
	return channelID, "1234.5678", nil
}

func (m *mockSlackClient) lastPosted() postedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posted[len(m.posted)-1]
}

func (m *mockSlackClient) postedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posted)
}

func newTestAdapter(t *testing.T) (*Adapter, *mockSlackClient) {
	t.Helper()
	client := &mockSlackClient{}
	a, err := New(AdapterOpts{Client: client, ChannelID: "C_DEFAULT"})
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	return a, client
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := New(AdapterOpts{}); err == nil {
		t.Fatal("expected error without token or client")
	}
}

func TestSend_SimpleText(t *testing.T) {
	a, client := newTestAdapter(t)

	err := a.Send(context.Background(), notify.Message{
		ChannelID: "C1",
		Text:      "hello world",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.postedCount() != 1 {
		t.Fatalf("expected 1 posted message, got %d", client.postedCount())
	}
	if last := client.lastPosted(); last.channelID != "C1" {
		t.Errorf("channel = %q, want C1", last.channelID)
	}
}

func TestSend_DefaultChannel(t *testing.T) {
	a, client := newTestAdapter(t)

	err := a.Send(context.Background(), notify.Message{Text: "hello default"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last := client.lastPosted(); last.channelID != "C_DEFAULT" {
		t.Errorf("channel = %q, want C_DEFAULT", last.channelID)
	}
}

func TestSend_NoChannel(t *testing.T) {
	client := &mockSlackClient{}
	a, err := New(AdapterOpts{Client: client})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Send(context.Background(), notify.Message{Text: "no channel"}); err == nil {
		t.Fatal("expected error for no channel")
	}
}

func TestSend_WithEvents(t *testing.T) {
	a, client := newTestAdapter(t)

	err := a.Send(context.Background(), notify.Message{
		ChannelID: "C1",
		Text:      "events",
		Events: []notify.Event{
			{
				Title:    "Pen 001 verified",
				Body:     "Verified on Deck 4",
				Severity: "success",
				Fields:   []notify.Field{{Name: "Deck", Value: "Deck 4", Short: true}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.postedCount() != 1 {
		t.Fatalf("expected 1 posted message, got %d", client.postedCount())
	}
}

func TestSend_AfterClose(t *testing.T) {
	a, _ := newTestAdapter(t)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Send(context.Background(), notify.Message{ChannelID: "C1", Text: "x"}); err == nil {
		t.Fatal("expected error after close")
	}
}

func TestEventToAttachment_SeverityFallbackColor(t *testing.T) {
	att := eventToAttachment(notify.Event{Title: "t", Severity: "warning"})
	if att.Color != notify.ColorWarning {
		t.Errorf("color = %q, want warning color", att.Color)
	}

	att = eventToAttachment(notify.Event{Title: "t", Color: "#123456"})
	if att.Color != "#123456" {
		t.Errorf("explicit color overridden: %q", att.Color)
	}
}
