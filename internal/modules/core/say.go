package core

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

const sayInputID = "messageToSend"

func (m *CoreModule) handleSay(
	_ context.Context,
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: sayModalID,
			Title:    "Create a say message",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID: sayInputID,
							Label:    "Message",
							Style:    discordgo.TextInputParagraph,
							Required: true,
						},
					},
				},
			},
		},
	})
}

func (m *CoreModule) handleSayModal(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	message := bot.ModalValue(i.ModalSubmitData(), sayInputID)
	if message == "" {
		return bot.RespondContent(r, "You cannot send an empty message.", true)
	}

	if _, err := m.discord.ChannelMessageSend(i.ChannelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send say message: %w", err)
	}

	return bot.RespondContent(r, "Message successfully sent.", true)
}
