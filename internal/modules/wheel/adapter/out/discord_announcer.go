package out

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	hclog "github.com/hashicorp/go-hclog"

	"spinwheel/internal/modules/wheel/domain"
	wheelout "spinwheel/internal/modules/wheel/port/out"
)

const announceTimeout = 10 * time.Second

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordAnnouncer posts each revealed winner to a Discord webhook.
type DiscordAnnouncer struct {
	session   webhookExecutor
	webhookID string
	token     string
	event     string
	log       hclog.Logger
	wait      func(func())
}

// NewDiscordAnnouncer parses a webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func NewDiscordAnnouncer(webhookURL, event string, log hclog.Logger) (wheelout.Announcer, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("new discord session: %w", err)
	}
	s.Client.Timeout = announceTimeout
	return newDiscordAnnouncer(s, id, token, event, log), nil
}

func newDiscordAnnouncer(session webhookExecutor, id, token, event string, log hclog.Logger) *DiscordAnnouncer {
	return &DiscordAnnouncer{
		session:   session,
		webhookID: id,
		token:     token,
		event:     event,
		log:       log.Named("discord"),
		wait:      func(fn func()) { go fn() },
	}
}

func (a *DiscordAnnouncer) Announce(s domain.Session) {
	params := &discordgo.WebhookParams{
		Username: "spinwheel",
		Embeds:   []*discordgo.MessageEmbed{winnerEmbed(a.event, s)},
	}
	a.wait(func() {
		if _, err := a.session.WebhookExecute(a.webhookID, a.token, false, params); err != nil {
			a.log.Warn("winner announcement failed", "spin_id", s.ID, "error", err)
			return
		}
		a.log.Debug("winner announced", "spin_id", s.ID)
	})
}

func winnerEmbed(event string, s domain.Session) *discordgo.MessageEmbed {
	title := "We have a winner!"
	if event != "" {
		title = event + ": we have a winner!"
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("**%s**", s.Winner.Name),
		Color:       0xf9e2af,
		Timestamp:   s.StartedAt.Add(s.Duration).Format(time.RFC3339),
	}
	if s.Winner.Tag != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Team", Value: s.Winner.Tag, Inline: true})
	}
	if s.Prize != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Prize", Value: s.Prize, Inline: true})
	}
	return embed
}

func parseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("parse webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook url must contain /webhooks/<id>/<token>")
}

type NopAnnouncer struct{}

func NewNopAnnouncer() wheelout.Announcer { return NopAnnouncer{} }

func (NopAnnouncer) Announce(domain.Session) {}
