package storage

import "time"

// GuildConfigRow stores the option blob of one guild.
type GuildConfigRow struct {
	GuildID string `gorm:"column:guild_id;primaryKey;size:32"`
	Data    string `gorm:"column:data;type:longtext;not null"`
	Setup   bool   `gorm:"column:setup;not null"`
	Premium bool   `gorm:"column:premium;not null"`
}

func (GuildConfigRow) TableName() string { return "guild_config" }

// GuildRow records a guild the bot has joined.
type GuildRow struct {
	GuildID    string `gorm:"column:guild_id;primaryKey;size:32"`
	GuildOwner string `gorm:"column:guild_owner;size:32;not null"`
	Name       string `gorm:"column:name;size:100;not null"`
}

func (GuildRow) TableName() string { return "guilds" }

// MemberWarning is a warning issued to a guild member.
type MemberWarning struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	MemberID  string    `gorm:"column:member_id;size:32;index:idx_member_guild"`
	Member    string    `gorm:"column:member;size:64"`
	Warning   string    `gorm:"column:warning;type:text"`
	Inflictor string    `gorm:"column:inflictor;size:64"`
	GuildID   string    `gorm:"column:guild_id;size:32;index:idx_member_guild"`
	Punished  bool      `gorm:"column:punished;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (MemberWarning) TableName() string { return "member_warnings" }

// Media is a searchable AniList title.
type Media struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string `gorm:"column:name;size:255;index"`
	AltName string `gorm:"column:alt_name;size:255;index"`
	Type    string `gorm:"column:type;size:16"`
}

// AnimeMedia is a row of anilist_anime.
type AnimeMedia struct{ Media }

func (AnimeMedia) TableName() string { return "anilist_anime" }

// MangaMedia is a row of anilist_manga.
type MangaMedia struct{ Media }

func (MangaMedia) TableName() string { return "anilist_manga" }

// OsuConnection links a Discord user to an osu! account.
type OsuConnection struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerID     string    `gorm:"column:player_id;size:32;not null"`
	Token        string    `gorm:"column:token;type:text"`
	RefreshToken string    `gorm:"column:refresh_token;type:text"`
	DiscordID    string    `gorm:"column:discord_id;size:32;uniqueIndex"`
	LastAccess   time.Time `gorm:"column:last_access"`
}

func (OsuConnection) TableName() string { return "osu_connections" }
