package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GuildConfigRepository persists guild configurations in guild_config.
type GuildConfigRepository struct {
	db *gorm.DB
}

// NewGuildConfigRepository creates a GuildConfigRepository.
func NewGuildConfigRepository(db *gorm.DB) *GuildConfigRepository {
	return &GuildConfigRepository{db: db}
}

// LoadAll returns every stored guild configuration.
func (r *GuildConfigRepository) LoadAll(ctx context.Context) ([]guildconfig.Record, error) {
	var rows []GuildConfigRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query guild_config: %w", err)
	}

	records := make([]guildconfig.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, guildconfig.Record{
			GuildID: row.GuildID,
			Data:    []byte(row.Data),
			Setup:   row.Setup,
			Premium: row.Premium,
		})
	}
	return records, nil
}

// Save inserts or replaces the row for rec.GuildID.
func (r *GuildConfigRepository) Save(ctx context.Context, rec guildconfig.Record) error {
	row := GuildConfigRow{
		GuildID: rec.GuildID,
		Data:    string(rec.Data),
		Setup:   rec.Setup,
		Premium: rec.Premium,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert guild_config: %w", err)
	}
	return nil
}

// Delete removes the row for guildID.
func (r *GuildConfigRepository) Delete(ctx context.Context, guildID string) error {
	err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Delete(&GuildConfigRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete guild_config: %w", err)
	}
	return nil
}

// GuildRepository persists joined guilds.
type GuildRepository struct {
	db *gorm.DB
}

// NewGuildRepository creates a GuildRepository.
func NewGuildRepository(db *gorm.DB) *GuildRepository {
	return &GuildRepository{db: db}
}

// Exists reports whether a row exists for guildID.
func (r *GuildRepository) Exists(ctx context.Context, guildID string) (bool, error) {
	var row GuildRow
	err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query guilds: %w", err)
	}
	return true, nil
}

// Create stores a joined guild.
func (r *GuildRepository) Create(ctx context.Context, guildID, ownerID, name string) error {
	row := GuildRow{GuildID: guildID, GuildOwner: ownerID, Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to insert guild: %w", err)
	}
	return nil
}

// Delete removes a guild row.
func (r *GuildRepository) Delete(ctx context.Context, guildID string) error {
	err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Delete(&GuildRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete guild: %w", err)
	}
	return nil
}
