package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Media types stored for AniList autocomplete.
const (
	MediaAnime = "ANIME"
	MediaManga = "MANGA"
)

// MediaRepository searches the AniList title tables.
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a MediaRepository.
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Search returns up to limit titles of mediaType whose name contains query,
// falling back to alternative names when no primary name matches.
func (r *MediaRepository) Search(ctx context.Context, mediaType, query string, limit int) ([]Media, error) {
	table, err := mediaTable(mediaType)
	if err != nil {
		return nil, err
	}

	pattern := "%" + escapeLike(query) + "%"
	var rows []Media
	err = r.db.WithContext(ctx).Table(table).
		Where("name LIKE ?", pattern).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", table, err)
	}
	if len(rows) > 0 {
		return rows, nil
	}

	err = r.db.WithContext(ctx).Table(table).
		Where("alt_name LIKE ?", pattern).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", table, err)
	}
	return rows, nil
}

func mediaTable(mediaType string) (string, error) {
	switch mediaType {
	case MediaAnime:
		return AnimeMedia{}.TableName(), nil
	case MediaManga:
		return MangaMedia{}.TableName(), nil
	default:
		return "", fmt.Errorf("unknown media type %q", mediaType)
	}
}
