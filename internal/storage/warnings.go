package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WarningRepository persists member warnings.
type WarningRepository struct {
	db *gorm.DB
}

// NewWarningRepository creates a WarningRepository.
func NewWarningRepository(db *gorm.DB) *WarningRepository {
	return &WarningRepository{db: db}
}

// Add stores a warning.
func (r *WarningRepository) Add(ctx context.Context, w *MemberWarning) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("failed to insert warning: %w", err)
	}
	return nil
}

// CountActive returns how many unpunished warnings a member has in a guild.
func (r *WarningRepository) CountActive(ctx context.Context, memberID, guildID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&MemberWarning{}).
		Where("member_id = ? AND guild_id = ? AND punished = ?", memberID, guildID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings: %w", err)
	}
	return count, nil
}

// MarkPunished flags every active warning of a member as punished.
func (r *WarningRepository) MarkPunished(ctx context.Context, memberID, guildID string) error {
	err := r.db.WithContext(ctx).
		Model(&MemberWarning{}).
		Where("member_id = ? AND guild_id = ? AND punished = ?", memberID, guildID, false).
		Update("punished", true).Error
	if err != nil {
		return fmt.Errorf("failed to update warnings: %w", err)
	}
	return nil
}
