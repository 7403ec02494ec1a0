package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
	"github.com/varoOP/fliq/internal/render"
)

const embedColor = 0xe50914

// DiscordService posts movie cards to a Discord webhook
type DiscordService struct {
	log        zerolog.Logger
	webhookURL string
	httpClient *http.Client
	now        func() time.Time
}

// NewDiscordService creates a new Discord notification service
func NewDiscordService(log zerolog.Logger, webhookURL string) *DiscordService {
	return &DiscordService{
		log:        log.With().Str("module", "notification").Str("type", "discord").Logger(),
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Share posts the movie as an embed
func (s *DiscordService) Share(ctx context.Context, view *domain.MovieView) error {
	if view == nil || view.Details == nil {
		return errors.New("nothing to share")
	}
	d := view.Details

	label, value := d.PrimaryRating()
	fields := []discordField{
		{Name: label, Value: value, Inline: true},
	}
	if d.RottenTomatoesScore != nil {
		fields = append(fields, discordField{Name: "RT Critics", Value: *d.RottenTomatoesScore, Inline: true})
	}
	if d.Year != "" {
		fields = append(fields, discordField{Name: "Year", Value: d.Year, Inline: true})
	}
	if len(d.Genres) > 0 {
		fields = append(fields, discordField{Name: "Genres", Value: strings.Join(d.Genres, ", "), Inline: false})
	}
	if services := streamNames(view.Offers); services != "" {
		fields = append(fields, discordField{Name: "Stream on", Value: services, Inline: false})
	}

	embed := discordEmbed{
		Title:       d.Title,
		Description: render.ShareText(d),
		Color:       embedColor,
		Timestamp:   s.now().Format(time.RFC3339),
		Fields:      fields,
	}
	if view.TrailerURL != nil {
		embed.URL = *view.TrailerURL
	}
	if d.PosterURL != nil {
		embed.Thumbnail = &discordImage{URL: *d.PosterURL}
	}

	payload := discordWebhook{
		Content: render.ShareText(d),
		Embeds:  []discordEmbed{embed},
	}

	return s.sendWebhook(ctx, payload)
}

func streamNames(g domain.OfferGroups) string {
	names := make([]string, 0, len(g.Stream))
	for _, o := range g.Stream {
		names = append(names, o.Service)
	}
	return strings.Join(names, ", ")
}

// sendWebhook sends a webhook payload to Discord
func (s *DiscordService) sendWebhook(ctx context.Context, payload discordWebhook) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return errors.Wrap(err, "failed to create webhook request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send webhook request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook request failed with status %d: %w", resp.StatusCode, &domain.UpstreamError{Source: "discord", StatusCode: resp.StatusCode})
	}

	s.log.Debug().Msg("Discord share sent successfully")
	return nil
}

// discordWebhook represents a Discord webhook payload
type discordWebhook struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

// discordEmbed represents a Discord embed
type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Thumbnail   *discordImage  `json:"thumbnail,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordImage struct {
	URL string `json:"url"`
}

// discordField represents a Discord embed field
type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}
