package presentation

import (
	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
)

var (
	minVolume = float64(application.MinVolume)
	maxVolume = float64(application.MaxVolume)
)

// MusicCommand is the /music definition.
var MusicCommand = &discordgo.ApplicationCommand{
	Name:        "music",
	Description: "This allows you to play music through the bot.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "play",
			Description: "Play a song or playlist!",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "song",
					Description: "Specify the song or playlist that you want to play.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "skip",
			Description: "Skip the current song or amount of songs in a queue.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "stop",
			Description: "Stop the music bot, and disconnect from the channel.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "repeat",
			Description: "Replay the current track.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "volume",
			Description: "Volume you want the bot to play at (0-100%).",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Specify a volume amount (0-100%).",
					Required:    true,
					MinValue:    &minVolume,
					MaxValue:    maxVolume,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "Lists the current songs in the queue if there are any.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "pause",
			Description: "Pause the current song playing.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "resume",
			Description: "Unpause the current song and continue playing.",
		},
	},
}
