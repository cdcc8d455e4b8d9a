package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colors for responses.
const (
	colorRed      = 0xFF0000
	colorNotSetup = 0xa62019
)

// Responder provides an abstraction for responding to Discord interactions.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Respond sends a response to an interaction.
	Respond(response *discordgo.InteractionResponse) error

	// Edit replaces the original response, typically after a deferred reply.
	Edit(edit *discordgo.WebhookEdit) error
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) Responder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Respond sends a response to the interaction via Discord API.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// Edit edits the original interaction response via Discord API.
func (r *DiscordResponder) Edit(edit *discordgo.WebhookEdit) error {
	_, err := r.session.InteractionResponseEdit(r.interaction, edit)
	return err
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	Responses []*discordgo.InteractionResponse
	LastEdit  *discordgo.WebhookEdit
	Err       error
}

// Respond records the response for testing.
func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.Responses = append(m.Responses, response)
	return m.Err
}

// Edit records the edit for testing.
func (m *MockResponder) Edit(edit *discordgo.WebhookEdit) error {
	m.LastEdit = edit
	return m.Err
}

// LastResponse returns the most recent response, or nil.
func (m *MockResponder) LastResponse() *discordgo.InteractionResponse {
	if len(m.Responses) == 0 {
		return nil
	}
	return m.Responses[len(m.Responses)-1]
}

// RespondContent replies with a plain message.
func RespondContent(r Responder, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// RespondEmbed replies with a single embed.
func RespondEmbed(r Responder, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Defer acknowledges the interaction so the handler can answer later with Edit.
func Defer(r Responder, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// EditContent replaces a deferred response with a plain message.
func EditContent(r Responder, content string) error {
	return r.Edit(&discordgo.WebhookEdit{Content: &content})
}

// EditEmbed replaces a deferred response with a single embed.
func EditEmbed(r Responder, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{embed}
	return r.Edit(&discordgo.WebhookEdit{Embeds: &embeds})
}

// Footer returns the footer used on bot embeds.
func Footer() *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: "SparrowBot"}
}

// Timestamp formats t for an embed timestamp.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
