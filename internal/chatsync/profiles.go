package chatsync

import (
	"context"
	"sync"

	"github.com/trousseauhq/trousseau/internal/types"
)

// ProfileSource resolves a user's display profile.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (types.Profile, error)
}

// ProfileCache maps user ids to display attributes. Entries are populated
// lazily from message payloads and from the member directory, overwritten
// whenever a fresher payload is observed, and never evicted.
type ProfileCache struct {
	source ProfileSource

	mu       sync.Mutex
	profiles map[string]types.Profile
	inflight map[string]struct{}
}

// NewProfileCache creates a cache backed by the given source. A nil source
// disables lazy lookups; Observe and Put still work.
func NewProfileCache(source ProfileSource) *ProfileCache {
	return &ProfileCache{
		source:   source,
		profiles: make(map[string]types.Profile),
		inflight: make(map[string]struct{}),
	}
}

// Get returns the cached profile for a user, if known.
func (c *ProfileCache) Get(userID string) (types.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[userID]
	return p, ok
}

// Put stores a profile, overwriting any prior entry.
func (c *ProfileCache) Put(p types.Profile) {
	if p.UserID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.UserID] = p
}

// PutAll stores a batch of profiles, e.g. from a member directory fetch.
func (c *ProfileCache) PutAll(profiles []types.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range profiles {
		if p.UserID != "" {
			c.profiles[p.UserID] = p
		}
	}
}

// Observe harvests the author snapshot embedded in a message payload.
func (c *ProfileCache) Observe(msg types.Message) {
	if msg.Author == nil {
		return
	}
	p := *msg.Author
	if p.UserID == "" {
		p.UserID = msg.AuthorID
	}
	c.Put(p)
}

// Ensure issues an asynchronous lookup for an unknown user. Message display
// never blocks on this; done (if non-nil) fires after the cache is updated
// so the caller can re-render. Lookups are deduplicated while in flight and
// failures are silent — the user renders with a placeholder identity until
// a later payload resolves them.
func (c *ProfileCache) Ensure(ctx context.Context, userID string, done func()) {
	if userID == "" || c.source == nil {
		return
	}
	c.mu.Lock()
	if _, known := c.profiles[userID]; known {
		c.mu.Unlock()
		return
	}
	if _, pending := c.inflight[userID]; pending {
		c.mu.Unlock()
		return
	}
	c.inflight[userID] = struct{}{}
	c.mu.Unlock()

	go func() {
		profile, err := c.source.Profile(ctx, userID)

		c.mu.Lock()
		delete(c.inflight, userID)
		if err == nil && profile.UserID != "" {
			c.profiles[profile.UserID] = profile
		}
		c.mu.Unlock()

		if err == nil && done != nil {
			done()
		}
	}()
}

// DisplayName returns the best known label for a user: cached name, then
// handle, then the raw id as placeholder.
func (c *ProfileCache) DisplayName(userID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.profiles[userID]; ok {
		if p.Name != "" {
			return p.Name
		}
		if p.Handle != "" {
			return p.Handle
		}
	}
	return userID
}
