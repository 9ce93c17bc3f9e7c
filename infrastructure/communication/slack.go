package communication

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// Notifier posts operational messages.
type Notifier interface {
	Info(ctx context.Context, message string) error
	Error(ctx context.Context, message string) error
}

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

func NewSlack(token string, options SlackOption) *Slack {
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

// NewNotifier returns a Slack notifier, or one that only logs when token is empty.
func NewNotifier(token string, options SlackOption) Notifier {
	if token == "" {
		return LogNotifier{}
	}
	return NewSlack(token, options)
}

func (s *Slack) postMessage(ctx context.Context, channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.InfoChannelID, message)
}

func (s *Slack) Error(ctx context.Context, message string) error {
	return s.postMessage(ctx, s.options.ErrorChannelID, message)
}

type LogNotifier struct{}

func (LogNotifier) Info(ctx context.Context, message string) error {
	slog.InfoContext(ctx, "notification", "message", message)
	return nil
}

func (LogNotifier) Error(ctx context.Context, message string) error {
	slog.ErrorContext(ctx, "notification", "message", message)
	return nil
}
