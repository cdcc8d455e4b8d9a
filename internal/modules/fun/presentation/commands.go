package presentation

import "github.com/bwmarrin/discordgo"

var minOne = 1.0

// Command definitions for the fun module.
var (
	CoinFlipCommand = &discordgo.ApplicationCommand{
		Name:        "coinflip",
		Description: "A game to decide fates. Heads or Tails?",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "selection",
				Description: "Heads or Tails?",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Heads", Value: "Heads"},
					{Name: "Tails", Value: "Tails"},
				},
			},
		},
	}

	DiceCommand = &discordgo.ApplicationCommand{
		Name:        "dice",
		Description: "Roll the dice with specified rolls and sides. (Default is 1 roll, 6 sides)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "rolls",
				Description: "How many rolls.",
				MinValue:    &minOne,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "sides",
				Description: "How many sides.",
				MinValue:    &minOne,
			},
		},
	}

	EightBallCommand = &discordgo.ApplicationCommand{
		Name:        "eightball",
		Description: "Guess your fate.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "question",
				Description: "Ask the eightball the magical question.",
				Required:    true,
			},
		},
	}

	RockPaperScissorsCommand = &discordgo.ApplicationCommand{
		Name:        "rps",
		Description: "The classic minigame. Rock. Paper. Scissors.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "choice",
				Description: "Rock, Paper or Scissors?",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Rock", Value: "Rock"},
					{Name: "Paper", Value: "Paper"},
					{Name: "Scissors", Value: "Scissors"},
				},
			},
		},
	}
)
