package moderation

import "github.com/bwmarrin/discordgo"

var (
	minTimeout = 0.0
	minDays    = 0.0
)

const (
	// maxTimeoutMinutes keeps timeouts inside the 32-bit millisecond range.
	maxTimeoutMinutes = 35791
	maxDeleteDays     = 7
)

func memberOption(action string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "member",
		Description: "Specific member you want to " + action + ".",
		Required:    true,
	}
}

func reasonOption(action string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason you want to " + action + " the member.",
		Required:    required,
	}
}

var kickCommand = &discordgo.ApplicationCommand{
	Name:        "kick",
	Description: "Kick a member.",
	Options: []*discordgo.ApplicationCommandOption{
		memberOption("kick"),
		reasonOption("kick", false),
	},
}

var banCommand = &discordgo.ApplicationCommand{
	Name:        "ban",
	Description: "Bring out the ban hammer on a member.",
	Options: []*discordgo.ApplicationCommandOption{
		memberOption("ban"),
		reasonOption("ban", false),
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "daystodelete",
			Description: "How many days to delete the messages of the banned member.",
			MinValue:    &minDays,
			MaxValue:    maxDeleteDays,
		},
	},
}

var unbanCommand = &discordgo.ApplicationCommand{
	Name:        "unban",
	Description: "Unban a member.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "member",
			Description: "Specific member you want to unban.",
			Required:    true,
		},
		reasonOption("unban", false),
	},
}

var timeoutCommand = &discordgo.ApplicationCommand{
	Name:        "timeout",
	Description: "Timeout a member for a specified amount of time or indefinitely.",
	Options: []*discordgo.ApplicationCommandOption{
		memberOption("mute"),
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "time",
			Description: "How long you want the member to be muted for. (In minutes) (0 = Remove Timeout)",
			Required:    true,
			MinValue:    &minTimeout,
		},
		reasonOption("mute", true),
	},
}

var warnCommand = &discordgo.ApplicationCommand{
	Name:        "warn",
	Description: "Warn a member.",
	Options: []*discordgo.ApplicationCommandOption{
		memberOption("warn"),
		reasonOption("warn", false),
	},
}
