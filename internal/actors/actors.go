// Package actors resolves actor identifiers appearing in the audit trail to
// display identities via an external directory, with read-through caching
// scoped to the viewing operator.
package actors

import (
	"context"
)

// ResolvedActor is the display identity for one actor key. When resolution
// degrades, only the raw identifiers are populated.
type ResolvedActor struct {
	ProfileID   string `json:"profileId,omitempty"`
	Provider    string `json:"provider,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Resolution is the outcome of resolving a set of actor keys. Degraded is
// explicit so callers cannot mistake a raw-identifier fallback for a fully
// resolved identity map.
type Resolution struct {
	Actors   map[string]ResolvedActor
	Degraded bool
}

// Profile is one directory record.
type Profile struct {
	ProfileID   string `json:"profileId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl"`
}

// Directory is the external identity-provider contract: batched lookups for
// page/universe resolution plus a direct lookup for the viewing operator.
type Directory interface {
	BatchLookup(ctx context.Context, provider string, profileIDs []string) ([]Profile, error)
	Lookup(ctx context.Context, provider, profileID string) (Profile, error)
}

// Cache is the read-through store for resolved identities. Implementations
// must be safe for concurrent use. Keys are already scoped by the caller.
type Cache interface {
	Get(ctx context.Context, key string) (ResolvedActor, bool, error)
	Set(ctx context.Context, key string, actor ResolvedActor) error
}

// Scope binds a resolution pass to the viewing operator. Cache keys are
// prefixed with the operator identity so one operator's view never leaks
// into another's.
type Scope struct {
	OperatorID string
}

// CacheKey derives the scoped cache key for an actor key.
func (s Scope) CacheKey(actorKey string) string {
	return s.OperatorID + "|" + actorKey
}
