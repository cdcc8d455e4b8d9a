package guildconfig

// Key identifies a configurable guild option.
type Key string

// Recognized option keys.
const (
	KeyLogChannel          Key = "discord.logchannel"
	KeyAdminRole           Key = "discord.adminrole"
	KeyModRole             Key = "discord.modrole"
	KeyMemberGateRole      Key = "discord.membergaterole"
	KeyPunishChannel       Key = "discord.punishchannel"
	KeyMaxWarnings         Key = "discord.maxwarnings"
	KeyLinkFiltering       Key = "discord.linkfiltering"
	KeyLinkFilterChannelWL Key = "discord.linkfiltering.channelwl"
	KeyLinkFilterRoleWL    Key = "discord.linkfiltering.rolewl"
	KeySuggestionChannel   Key = "discord.suggestion.channel"
	KeyMusicChannel        Key = "music.channel"
	KeyOsuTrackChannel     Key = "osu.trackchannel"
	KeyOsuTrackedPlayers   Key = "osu.trackedplayers"
	KeyMangaDexFollowList  Key = "mangadex.followlist"
)

// ValueType is the kind of input an option accepts.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInteger
	TypeBoolean
	TypeRole
	TypeChannel
)

// String returns a human-readable representation of the value type.
func (t ValueType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeBoolean:
		return "boolean"
	case TypeRole:
		return "role"
	case TypeChannel:
		return "channel"
	default:
		return "string"
	}
}

// Entry describes one option in the catalog.
type Entry struct {
	Key         Key
	Name        string
	Description string
	Type        ValueType
	Default     Value
	// Disabled entries are hidden from users but remain settable from code.
	Disabled bool
}

// catalog lists every recognized option in display order.
var catalog = []Entry{
	{
		Key:         KeyLogChannel,
		Name:        "Log channel",
		Description: "Set the text channel that you want logs to be stored in. (This enables Discord logging)",
		Type:        TypeChannel,
	},
	{
		Key:         KeyAdminRole,
		Name:        "Admin role",
		Description: "This is the admin role that controls all Admin related bot functions.",
		Type:        TypeRole,
	},
	{
		Key:         KeyModRole,
		Name:        "Mod role",
		Description: "This is the mod role that controls all Moderator related bot functions.",
		Type:        TypeRole,
	},
	{
		Key:         KeyMemberGateRole,
		Name:        "Membergate role",
		Description: "This will enable role giving when a user accepts the Rules to the Discord. (Requires Membership Gating)",
		Type:        TypeRole,
	},
	{
		Key:         KeyPunishChannel,
		Name:        "Punishment channel",
		Description: "Set the text channel that you want all punishments to be logged in. (This enable punishment logging)",
		Type:        TypeChannel,
	},
	{
		Key:         KeyMaxWarnings,
		Name:        "Maximum warning amount",
		Description: "This allows you to set the maximum number of warnings a member can obtain before being muted. Off is 0",
		Type:        TypeInteger,
		Default:     Number(0),
	},
	{
		Key:         KeyLinkFiltering,
		Name:        "Link filtering",
		Description: "This will enable/disable link filtering. (Provide true/false)",
		Type:        TypeBoolean,
		Default:     Bool(false),
	},
	{
		Key:         KeyLinkFilterChannelWL,
		Name:        "Link filtering channel whitelist",
		Description: "Channels that are immune to Link Filtering. Requires Link filtering to be enabled.",
		Type:        TypeChannel,
	},
	{
		Key:         KeyLinkFilterRoleWL,
		Name:        "Link filtering role whitelist",
		Description: "Roles that are immune to Link Filtering. Requires Link filtering to be enabled.",
		Type:        TypeRole,
	},
	{
		Key:         KeySuggestionChannel,
		Name:        "Suggestion forum channel",
		Description: "Enables suggestion like reactions on messages sent in the provided forum channel. ( Approve, Deny, Repeat )",
		Type:        TypeChannel,
	},
	{
		Key:         KeyMusicChannel,
		Name:        "Music channel",
		Description: "Set the voice channel that you want the MusicBot to join if the member is not in a voice channel.",
		Type:        TypeChannel,
	},
	{
		Key:         KeyOsuTrackChannel,
		Name:        "Track channel",
		Description: "Set the channel to display a player's new Top 50 play every 3 minutes.",
		Type:        TypeChannel,
	},
	{
		Key:         KeyOsuTrackedPlayers,
		Name:        "Tracked players",
		Description: "Set tracked users for osu! integration.",
		Type:        TypeString,
		Default:     Text("[]"),
		Disabled:    true,
	},
	{
		Key:         KeyMangaDexFollowList,
		Name:        "Follow list",
		Description: "This contains the current follow list of the entire Discord and the manga's they are following.",
		Type:        TypeString,
		Default:     Text("[]"),
		Disabled:    true,
	},
}

var catalogIndex = func() map[Key]int {
	index := make(map[Key]int, len(catalog))
	for i, e := range catalog {
		index[e.Key] = i
	}
	return index
}()

// LookupOption returns the catalog entry for key.
func LookupOption(key Key) (Entry, bool) {
	i, ok := catalogIndex[key]
	if !ok {
		return Entry{}, false
	}
	return catalog[i], true
}

// Entries returns every catalog entry, including disabled ones.
func Entries() []Entry {
	result := make([]Entry, len(catalog))
	copy(result, catalog)
	return result
}

// ListedEntries returns the entries that are exposed to users.
func ListedEntries() []Entry {
	result := make([]Entry, 0, len(catalog))
	for _, e := range catalog {
		if e.Disabled {
			continue
		}
		result = append(result, e)
	}
	return result
}
