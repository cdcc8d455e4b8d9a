package bot

import "github.com/bwmarrin/discordgo"

// OptionMap indexes command options by name.
type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// Options indexes opts by name.
func Options(opts []*discordgo.ApplicationCommandInteractionDataOption) OptionMap {
	m := make(OptionMap, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// String returns the string value of name, or "".
func (m OptionMap) String(name string) string {
	if opt, ok := m[name]; ok {
		if s, ok := opt.Value.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the integer value of name and whether it was given.
func (m OptionMap) Int(name string) (int64, bool) {
	opt, ok := m[name]
	if !ok {
		return 0, false
	}
	if f, ok := opt.Value.(float64); ok {
		return int64(f), true
	}
	return 0, false
}

// Bool returns the boolean value of name, or false.
func (m OptionMap) Bool(name string) bool {
	if opt, ok := m[name]; ok {
		if b, ok := opt.Value.(bool); ok {
			return b
		}
	}
	return false
}

// ID returns the snowflake held by a user, role, channel or mentionable option.
func (m OptionMap) ID(name string) string {
	return m.String(name)
}

// Focused returns the option the user is typing into during autocomplete.
func (m OptionMap) Focused() *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range m {
		if opt.Focused {
			return opt
		}
	}
	return nil
}

// Subcommand returns the invoked subcommand and its options. It returns
// an empty name when the command has no subcommands.
func Subcommand(i *discordgo.InteractionCreate) (string, OptionMap) {
	opts := i.ApplicationCommandData().Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return opts[0].Name, Options(opts[0].Options)
	}
	return "", Options(opts)
}

// InvokerID returns the id of the user that triggered the interaction.
func InvokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ModalValue returns the value of the text input id in a submitted modal.
func ModalValue(data discordgo.ModalSubmitInteractionData, id string) string {
	for _, c := range data.Components {
		var inner []discordgo.MessageComponent
		switch row := c.(type) {
		case *discordgo.ActionsRow:
			inner = row.Components
		case discordgo.ActionsRow:
			inner = row.Components
		}
		for _, ic := range inner {
			switch input := ic.(type) {
			case *discordgo.TextInput:
				if input.CustomID == id {
					return input.Value
				}
			case discordgo.TextInput:
				if input.CustomID == id {
					return input.Value
				}
			}
		}
	}
	return ""
}
