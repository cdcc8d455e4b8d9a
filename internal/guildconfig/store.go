package guildconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Record is the persisted form of a guild configuration.
type Record struct {
	GuildID string
	Data    []byte
	Setup   bool
	Premium bool
}

// Repository persists guild configuration rows.
type Repository interface {
	// LoadAll returns every stored guild configuration.
	LoadAll(ctx context.Context) ([]Record, error)

	// Save inserts or replaces the row for rec.GuildID.
	Save(ctx context.Context, rec Record) error

	// Delete removes the row for guildID.
	Delete(ctx context.Context, guildID string) error
}

// Guild is the in-memory configuration of one guild.
type Guild struct {
	GuildID string
	Options map[Key]Value
	Setup   bool
	Premium bool
}

// Store holds every guild configuration in memory and writes each
// mutation through to the repository before applying it.
type Store struct {
	mu     sync.RWMutex
	repo   Repository
	guilds map[string]*Guild
}

// NewStore creates an empty Store backed by repo.
func NewStore(repo Repository) *Store {
	return &Store{
		repo:   repo,
		guilds: make(map[string]*Guild),
	}
}

// Load replaces the in-memory state with every row from the repository.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load guild configs: %w", err)
	}

	guilds := make(map[string]*Guild, len(records))
	for _, rec := range records {
		options, err := decodeOptions(rec.GuildID, rec.Data)
		if err != nil {
			slog.Warn("failed to decode guild config, using empty options",
				"guild_id", rec.GuildID,
				"error", err,
			)
			options = make(map[Key]Value)
		}
		guilds[rec.GuildID] = &Guild{
			GuildID: rec.GuildID,
			Options: options,
			Setup:   rec.Setup,
			Premium: rec.Premium,
		}
	}

	s.mu.Lock()
	s.guilds = guilds
	s.mu.Unlock()

	slog.Info("loaded guild configs", "count", len(guilds))
	return nil
}

// AddGuild creates an empty configuration for guildID.
func (s *Store) AddGuild(ctx context.Context, guildID string, setup, premium bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := &Guild{
		GuildID: guildID,
		Options: make(map[Key]Value),
		Setup:   setup,
		Premium: premium,
	}
	if err := s.persist(ctx, guild); err != nil {
		return err
	}
	s.guilds[guildID] = guild
	return nil
}

// RemoveGuild deletes the configuration of guildID.
func (s *Store) RemoveGuild(ctx context.Context, guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete guild config %s: %w", guildID, err)
	}
	delete(s.guilds, guildID)
	return nil
}

// HasGuild reports whether guildID has a loaded configuration.
func (s *Store) HasGuild(guildID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.guilds[guildID]
	return ok
}

// GuildIDs returns the ids of every loaded guild in ascending order.
func (s *Store) GuildIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.guilds))
}

// Guild returns a copy of the configuration of guildID.
func (s *Store) Guild(guildID string) (Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		return Guild{}, false
	}
	copied := *guild
	copied.Options = maps.Clone(guild.Options)
	return copied, true
}

// IsGuildSetup reports whether /setup has completed for guildID.
func (s *Store) IsGuildSetup(guildID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guild, ok := s.guilds[guildID]
	return ok && guild.Setup
}

// IsPremium reports whether guildID has the premium flag.
func (s *Store) IsPremium(guildID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guild, ok := s.guilds[guildID]
	return ok && guild.Premium
}

// GetValue returns the stored value of key for guildID. It returns false
// when the key is not in the catalog or the guild has no value for it.
func (s *Store) GetValue(key Key, guildID string) (Value, bool) {
	if _, ok := LookupOption(key); !ok {
		return Value{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		return Value{}, false
	}
	value, ok := guild.Options[key]
	return value, ok
}

// SetValue coerces raw into the option type and stores it.
func (s *Store) SetValue(ctx context.Context, key Key, raw string, guildID string) (Value, error) {
	entry, ok := LookupOption(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	value, err := Coerce(entry, raw)
	if err != nil {
		return Value{}, err
	}

	if err := s.Set(ctx, key, value, guildID); err != nil {
		return Value{}, err
	}
	return value, nil
}

// Set stores an already typed value. Disabled options are accepted.
func (s *Store) Set(ctx context.Context, key Key, value Value, guildID string) error {
	if _, ok := LookupOption(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGuildNotFound, guildID)
	}

	next := *guild
	next.Options = maps.Clone(guild.Options)
	next.Options[key] = value

	if err := s.persist(ctx, &next); err != nil {
		return err
	}
	s.guilds[guildID] = &next
	return nil
}

// Update replaces the value of key with the result of fn while holding the
// write lock. fn receives the current value and whether one is stored. An
// error from fn aborts the update and is returned unchanged.
func (s *Store) Update(ctx context.Context, key Key, guildID string, fn func(Value, bool) (Value, error)) error {
	if _, ok := LookupOption(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGuildNotFound, guildID)
	}

	current, ok := guild.Options[key]
	value, err := fn(current, ok)
	if err != nil {
		return err
	}

	next := *guild
	next.Options = maps.Clone(guild.Options)
	next.Options[key] = value

	if err := s.persist(ctx, &next); err != nil {
		return err
	}
	s.guilds[guildID] = &next
	return nil
}

// CreateDefaultConfig fills every option with its default, assigns the
// mod and admin roles, and marks the guild as set up.
func (s *Store) CreateDefaultConfig(ctx context.Context, guildID, modRole, adminRole string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGuildNotFound, guildID)
	}

	next := *guild
	next.Options = make(map[Key]Value, len(catalog))
	for _, entry := range catalog {
		switch entry.Key {
		case KeyModRole:
			next.Options[entry.Key] = IDs(modRole)
		case KeyAdminRole:
			next.Options[entry.Key] = IDs(adminRole)
		default:
			next.Options[entry.Key] = entry.Default
		}
	}
	next.Setup = true

	if err := s.persist(ctx, &next); err != nil {
		return err
	}
	s.guilds[guildID] = &next
	return nil
}

// persist writes guild to the repository. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, guild *Guild) error {
	data, err := encodeOptions(guild.Options)
	if err != nil {
		return err
	}

	err = s.repo.Save(ctx, Record{
		GuildID: guild.GuildID,
		Data:    data,
		Setup:   guild.Setup,
		Premium: guild.Premium,
	})
	if err != nil {
		return fmt.Errorf("failed to save guild config %s: %w", guild.GuildID, err)
	}
	return nil
}

func encodeOptions(options map[Key]Value) ([]byte, error) {
	if len(options) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode guild options: %w", err)
	}
	return data, nil
}

// decodeOptions parses a stored blob. Keys outside the catalog and fields
// that do not decode are dropped; the remaining fields are kept.
func decodeOptions(guildID string, data []byte) (map[Key]Value, error) {
	options := make(map[Key]Value)
	if len(data) == 0 {
		return options, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode guild options: %w", err)
	}

	for name, field := range raw {
		entry, ok := LookupOption(Key(name))
		if !ok {
			continue
		}
		value, err := decodeValue(entry, field)
		if err != nil {
			slog.Warn("skipping undecodable guild option",
				"guild_id", guildID,
				"key", name,
				"error", err,
			)
			continue
		}
		options[entry.Key] = value
	}
	return options, nil
}
