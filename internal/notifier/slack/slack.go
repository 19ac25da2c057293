package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/notifier"
	"github.com/mauv0809/tournament-stats/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendSnapshot(snapshot stats.Snapshot, playerName string, dryRun bool) error {
	msg := s.formatSnapshot(snapshot, playerName)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatSnapshotResponse formats a snapshot for a slash command response.
func (s *Notifier) FormatSnapshotResponse(snapshot stats.Snapshot, playerName string) (any, error) {
	msg := s.formatSnapshot(snapshot, playerName)
	msg.ResponseType = "in_channel"
	return msg, nil
}

// FormatNoSnapshotResponse tells the caller why there is nothing to show yet.
func (s *Notifier) FormatNoSnapshotResponse(placeholder string) (any, error) {
	text := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf(":hourglass: %s", placeholder), false, false)
	msg := slack.NewBlockMessage(slack.NewSectionBlock(text, nil, nil))
	msg.ResponseType = "ephemeral"
	return msg, nil
}

// formatSnapshot renders the stat cards as a header plus two-column field sections.
func (s *Notifier) formatSnapshot(snapshot stats.Snapshot, playerName string) slack.Message {
	if playerName == "" {
		playerName = snapshot.PlayerID
	}
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s", snapshot.Tournament.DisplayName()), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("Stats for *%s* · window `%s`", playerName, snapshot.Tournament.EventWindowID), false, false),
	))
	blocks = append(blocks, slack.NewDividerBlock())

	// Slack allows at most 10 fields per section.
	var fields []*slack.TextBlockObject
	for _, card := range snapshot.Cards() {
		text := fmt.Sprintf("*%s*\n%s", card.Title, card.Value)
		if card.Subtext != "" {
			text += fmt.Sprintf("\n_%s_", card.Subtext)
		}
		fields = append(fields, slack.NewTextBlockObject("mrkdwn", text, false, false))
		if len(fields) == 10 {
			blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
			fields = nil
		}
	}
	if len(fields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
