package core

import (
	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

const sayModalID = "createSayModal"

var (
	minClean = 1.0
	maxClean = 100.0
)

var setupCommand = &discordgo.ApplicationCommand{
	Name:        bot.SetupCommandName,
	Description: "Run this command to setup SparrowBot in this Discord.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "modrole",
			Description: "The mod role for moderator functions in SparrowBot.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "adminrole",
			Description: "The admin role for admin functions in SparrowBot.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "override",
			Description: "Override the setup function to allow you to re-setup the bot.",
		},
	},
}

// configCommand leaves the setting choices empty; they are filled from the
// option catalog when commands are synced.
var configCommand = &discordgo.ApplicationCommand{
	Name:        bot.ConfigCommandName,
	Description: "This allows you to modify bot config settings.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "set",
			Description: "Modify a config value.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "setting",
					Description: "The config setting you want to modify.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "New value for config setting (channel/role/user)",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "get",
			Description: "Get the current config value",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "setting",
					Description: "The config setting you want the value of.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "help",
			Description: "List all config options provided by SparrowBot",
		},
	},
}

var sayCommand = &discordgo.ApplicationCommand{
	Name:        "say",
	Description: "Allows the bot to send a message in the current channel.",
}

var deleteCommandCommand = &discordgo.ApplicationCommand{
	Name:        "deletecommand",
	Description: "This allows you to delete a global or guild based command.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "command",
			Description: "The name of the command you want to delete.",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "guild",
			Description: "The guild id the command is attached to.",
		},
	},
}

var cleanCommand = &discordgo.ApplicationCommand{
	Name:        "clean",
	Description: "Delete a certain amount of messages in the current channel.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "The amount of messages you want to delete. (Max 100)",
			Required:    true,
			MinValue:    &minClean,
			MaxValue:    maxClean,
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Specific user you want to delete the messages of.",
		},
	},
}
