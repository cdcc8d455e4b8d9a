package auditlog

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// roleNames remembers role names per guild. Role update and delete events
// do not carry the previous name.
type roleNames struct {
	mu     sync.Mutex
	guilds map[string]map[string]string
}

func newRoleNames() *roleNames {
	return &roleNames{guilds: make(map[string]map[string]string)}
}

func (r *roleNames) seed(guildID string, roles []*discordgo.Role) {
	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.guilds[guildID] = names
}

func (r *roleNames) drop(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.guilds, guildID)
}

// set stores the name of role and returns the name it replaced.
func (r *roleNames) set(guildID string, role *discordgo.Role) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, ok := r.guilds[guildID]
	if !ok {
		names = make(map[string]string)
		r.guilds[guildID] = names
	}
	previous, ok := names[role.ID]
	names[role.ID] = role.Name
	return previous, ok
}

func (r *roleNames) remove(guildID, roleID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.guilds[guildID][roleID]
	delete(r.guilds[guildID], roleID)
	return name, ok
}
