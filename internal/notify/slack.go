package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"
)

// SlackAPI abstracts the subset of the Slack client used by SlackReporter.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackReporter posts failures to a Slack channel. Delivery problems are
// logged and otherwise ignored.
type SlackReporter struct {
	api     SlackAPI
	channel string
}

var _ Reporter = (*SlackReporter)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlackReporter creates a SlackReporter posting to channel.
func NewSlackReporter(api SlackAPI, channel string) *SlackReporter {
	return &SlackReporter{api: api, channel: channel}
}

func (r *SlackReporter) Report(ctx context.Context, f Failure) {
	_, _, err := r.api.PostMessageContext(ctx, r.channel,
		slacklib.MsgOptionText(FailureText(f), false),
		slacklib.MsgOptionBlocks(BuildFailureBlocks(f)...),
	)
	if err != nil {
		log.Warn().Err(err).Str("channel", r.channel).Msg("notify.SlackReporter.Report: post failed")
	}
}

// FailureText is the plain text fallback of a failure message.
func FailureText(f Failure) string {
	card, list := string(f.CardID), string(f.ListID)
	if card == "" {
		card = "?"
	}
	if list == "" {
		list = "?"
	}
	return fmt.Sprintf("Card move not delivered (%s): card %s -> list %s: %v", f.Stage, card, list, f.Err)
}

// BuildFailureBlocks builds Slack Block Kit blocks for a failure.
func BuildFailureBlocks(f Failure) []slacklib.Block {
	text := fmt.Sprintf("*Card move not delivered*\n*Card:* `%s`\n*List:* `%s`\n*Stage:* %s", f.CardID, f.ListID, f.Stage)
	section := slacklib.NewSectionBlock(
		slacklib.NewTextBlockObject(slacklib.MarkdownType, text, false, false),
		nil,
		nil,
	)
	if f.Err == nil {
		return []slacklib.Block{section}
	}

	detail := slacklib.NewContextBlock("",
		slacklib.NewTextBlockObject(slacklib.PlainTextType, f.Err.Error(), false, false),
	)
	return []slacklib.Block{section, detail}
}
