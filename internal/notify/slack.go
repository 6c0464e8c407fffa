package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/jonathan/marketing-intel/internal/report"
	"github.com/jonathan/marketing-intel/internal/types"
)

// slackAPI is the subset of slack.Client used for delivery.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts the daily brief to a channel.
type SlackNotifier struct {
	api     slackAPI
	channel string
}

// NewSlackNotifier creates a notifier for the given bot token and channel.
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(botToken),
		channel: channelID,
	}
}

// Deliver posts the run's text rendering as one message.
func (s *SlackNotifier) Deliver(ctx context.Context, daily *types.DailyBrief) error {
	text := report.Text(daily)

	_, _, err := s.api.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return fmt.Errorf("failed to post daily brief to slack channel %s: %w", s.channel, err)
	}
	log.Printf("[NOTIFY] Daily brief posted to Slack channel %s", s.channel)
	return nil
}
