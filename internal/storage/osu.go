package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// OsuRepository persists osu! account links.
type OsuRepository struct {
	db *gorm.DB
}

// NewOsuRepository creates an OsuRepository.
func NewOsuRepository(db *gorm.DB) *OsuRepository {
	return &OsuRepository{db: db}
}

// Save stores or replaces the link for conn.DiscordID.
func (r *OsuRepository) Save(ctx context.Context, conn *OsuConnection) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"player_id", "token", "refresh_token", "last_access"}),
		}).
		Create(conn).Error
	if err != nil {
		return fmt.Errorf("failed to save osu connection: %w", err)
	}
	return nil
}

// FindByDiscordID returns the link of a Discord user.
func (r *OsuRepository) FindByDiscordID(ctx context.Context, discordID string) (*OsuConnection, error) {
	var conn OsuConnection
	err := r.db.WithContext(ctx).Where("discord_id = ?", discordID).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query osu connection: %w", err)
	}
	return &conn, nil
}

// Delete removes the link of a Discord user. It returns ErrNotFound when
// the user has no link.
func (r *OsuRepository) Delete(ctx context.Context, discordID string) error {
	result := r.db.WithContext(ctx).Where("discord_id = ?", discordID).Delete(&OsuConnection{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete osu connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
