package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/modules/music/domain"
)

// MemoryRepository keeps player states in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	states map[snowflake.ID]*domain.PlayerState
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		states: make(map[snowflake.ID]*domain.PlayerState),
	}
}

func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[guildID]
}

func (r *MemoryRepository) Save(state *domain.PlayerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.GuildID] = state
}

func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, guildID)
}

// Guilds returns the ids of every guild with a player.
func (r *MemoryRepository) Guilds() []snowflake.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]snowflake.ID, 0, len(r.states))
	for id := range r.states {
		ids = append(ids, id)
	}
	return ids
}

var _ domain.PlayerStateRepository = (*MemoryRepository)(nil)
