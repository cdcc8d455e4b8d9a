// Package bottest builds Discord interaction payloads for handler tests.
package bottest

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// Option is a command option in a built interaction.
type Option struct {
	Name    string
	Type    discordgo.ApplicationCommandOptionType
	Value   any
	Focused bool
	Options []Option
}

// Interaction describes an interaction to build. Name is the command name
// for commands and the custom id for components and modals.
type Interaction struct {
	Type        discordgo.InteractionType
	Name        string
	GuildID     string
	ChannelID   string
	UserID      string
	Permissions int64
	Roles       []string
	Options     []Option
	Fields      map[string]string
}

// Command returns a slash command interaction in guildID.
func Command(name, guildID string) Interaction {
	return Interaction{Type: discordgo.InteractionApplicationCommand, Name: name, GuildID: guildID}
}

// Build decodes the interaction the same way the gateway does.
func (b Interaction) Build(t testing.TB) *discordgo.InteractionCreate {
	t.Helper()

	userID := b.UserID
	if userID == "" {
		userID = "42"
	}
	user := map[string]any{"id": userID, "username": "tester"}

	payload := map[string]any{
		"id":             "1",
		"application_id": "2",
		"type":           b.Type,
		"token":          "token",
		"channel_id":     b.ChannelID,
		"data":           b.data(),
	}
	if b.GuildID != "" {
		payload["guild_id"] = b.GuildID
		payload["member"] = map[string]any{
			"user":        user,
			"roles":       nonNil(b.Roles),
			"permissions": strconv.FormatInt(b.Permissions, 10),
		}
	} else {
		payload["user"] = user
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode interaction: %v", err)
	}
	var i discordgo.InteractionCreate
	if err := json.Unmarshal(raw, &i); err != nil {
		t.Fatalf("failed to decode interaction: %v", err)
	}
	return &i
}

func (b Interaction) data() map[string]any {
	switch b.Type {
	case discordgo.InteractionMessageComponent:
		return map[string]any{
			"custom_id":      b.Name,
			"component_type": discordgo.ButtonComponent,
		}
	case discordgo.InteractionModalSubmit:
		inputs := make([]any, 0, len(b.Fields))
		for id, value := range b.Fields {
			inputs = append(inputs, map[string]any{
				"type":       discordgo.ActionsRowComponent,
				"components": []any{map[string]any{"type": discordgo.TextInputComponent, "custom_id": id, "value": value}},
			})
		}
		return map[string]any{"custom_id": b.Name, "components": inputs}
	default:
		return map[string]any{
			"id":      "3",
			"name":    b.Name,
			"type":    discordgo.ChatApplicationCommand,
			"options": encodeOptions(b.Options),
		}
	}
}

func encodeOptions(options []Option) []any {
	result := make([]any, 0, len(options))
	for _, o := range options {
		opt := map[string]any{"name": o.Name, "type": o.Type}
		if o.Value != nil {
			opt["value"] = o.Value
		}
		if o.Focused {
			opt["focused"] = true
		}
		if len(o.Options) > 0 {
			opt["options"] = encodeOptions(o.Options)
		}
		result = append(result, opt)
	}
	return result
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
