package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
)

// VoiceStates reads member voice channels from the session state cache.
type VoiceStates struct {
	state *discordgo.State
}

// NewVoiceStates creates a VoiceStates reading from state.
func NewVoiceStates(state *discordgo.State) *VoiceStates {
	return &VoiceStates{state: state}
}

// UserVoiceChannel returns 0 when the member is not in voice.
func (v *VoiceStates) UserVoiceChannel(guildID, userID snowflake.ID) snowflake.ID {
	vs, err := v.state.VoiceState(guildID.String(), userID.String())
	if err != nil || vs.ChannelID == "" {
		return 0
	}
	id, err := snowflake.Parse(vs.ChannelID)
	if err != nil {
		return 0
	}
	return id
}

// SettingSource reads guild settings.
type SettingSource interface {
	GetValue(key guildconfig.Key, guildID string) (guildconfig.Value, bool)
}

// ConfiguredChannel reads the music.channel guild option.
type ConfiguredChannel struct {
	settings SettingSource
}

// NewConfiguredChannel creates a ConfiguredChannel.
func NewConfiguredChannel(settings SettingSource) *ConfiguredChannel {
	return &ConfiguredChannel{settings: settings}
}

// DefaultVoiceChannel returns the first configured channel, or 0.
func (c *ConfiguredChannel) DefaultVoiceChannel(guildID snowflake.ID) snowflake.ID {
	if c.settings == nil {
		return 0
	}
	value, ok := c.settings.GetValue(guildconfig.KeyMusicChannel, guildID.String())
	if !ok {
		return 0
	}
	ids, _ := value.AsIDs()
	if len(ids) == 0 {
		return 0
	}
	id, err := snowflake.Parse(ids[0])
	if err != nil {
		return 0
	}
	return id
}

var (
	_ application.VoiceStateProvider = (*VoiceStates)(nil)
	_ application.ChannelSettings    = (*ConfiguredChannel)(nil)
)
