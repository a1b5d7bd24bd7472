// Package memory provides an in-memory audit event store for local
// development and tests. Semantics mirror the PostgreSQL store.
package memory

import (
	"context"
	"sort"
	"sync"

	"vigil/internal/auditlog/models"
)

// Store is an in-memory implementation of service.EventStore.
type Store struct {
	mu      sync.RWMutex
	entries []*models.AuditLogEntry
}

// New creates an empty in-memory audit event store.
func New() *Store {
	return &Store{}
}

// Append seeds the store with entries. Entries are immutable once appended.
func (s *Store) Append(entries ...*models.AuditLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// ListEntries returns filtered entries newest-first with limit/offset.
func (s *Store) ListEntries(_ context.Context, filter models.Filter, limit, offset int) ([]*models.AuditLogEntry, error) {
	s.mu.RLock()
	matched := s.filtered(filter)
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	return window(matched, limit, offset), nil
}

// ListCorrelationKeys returns the correlation IDs of matching entries ordered
// by each chain's earliest occurrence, newest chain first.
func (s *Store) ListCorrelationKeys(_ context.Context, filter models.Filter, limit, offset int) ([]string, error) {
	s.mu.RLock()
	matched := s.filtered(filter)
	s.mu.RUnlock()

	type chain struct {
		id    string
		first int
	}
	firstSeen := make(map[string]int)
	var order []string
	for i, e := range matched {
		if prev, ok := firstSeen[e.CorrelationID]; !ok || matched[i].OccurredAt.Before(matched[prev].OccurredAt) {
			if !ok {
				order = append(order, e.CorrelationID)
			}
			firstSeen[e.CorrelationID] = i
		}
	}

	chains := make([]chain, 0, len(order))
	for _, id := range order {
		chains = append(chains, chain{id: id, first: firstSeen[id]})
	}
	sort.SliceStable(chains, func(i, j int) bool {
		ti, tj := matched[chains[i].first].OccurredAt, matched[chains[j].first].OccurredAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return chains[i].id > chains[j].id
	})

	keys := make([]string, len(chains))
	for i, c := range chains {
		keys[i] = c.id
	}
	return window(keys, limit, offset), nil
}

// ListEntriesByCorrelation returns matching entries belonging to the given
// chains, oldest first.
func (s *Store) ListEntriesByCorrelation(_ context.Context, filter models.Filter, correlationIDs []string) ([]*models.AuditLogEntry, error) {
	if len(correlationIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[string]struct{}, len(correlationIDs))
	for _, id := range correlationIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	matched := s.filtered(filter)
	s.mu.RUnlock()

	var out []*models.AuditLogEntry
	for _, e := range matched {
		if _, ok := wanted[e.CorrelationID]; ok {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

// BulkListEntries returns up to cap matching entries grouped by actor key,
// oldest first within an actor.
func (s *Store) BulkListEntries(_ context.Context, filter models.Filter, cap int) ([]*models.AuditLogEntry, error) {
	s.mu.RLock()
	matched := s.filtered(filter)
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		ki, kj := matched[i].ActorKey(), matched[j].ActorKey()
		if ki != kj {
			return ki < kj
		}
		return matched[i].OccurredAt.Before(matched[j].OccurredAt)
	})

	if cap > 0 && len(matched) > cap {
		matched = matched[:cap]
	}
	return matched, nil
}

// ListActorKeys returns the distinct actor keys of matching entries.
func (s *Store) ListActorKeys(_ context.Context, filter models.Filter) ([]string, error) {
	s.mu.RLock()
	matched := s.filtered(filter)
	s.mu.RUnlock()

	seen := make(map[string]struct{})
	var keys []string
	for _, e := range matched {
		key := e.ActorKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// filtered returns the entries matching the filter. Callers hold the lock.
func (s *Store) filtered(f models.Filter) []*models.AuditLogEntry {
	var out []*models.AuditLogEntry
	for _, e := range s.entries {
		if matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e *models.AuditLogEntry, f models.Filter) bool {
	if len(f.ActionTypes) > 0 && !containsActionType(f.ActionTypes, e.ActionType) {
		return false
	}
	if len(f.Outcomes) > 0 && !containsOutcome(f.Outcomes, e.Outcome) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, e.Severity) {
		return false
	}
	if len(f.TargetResourceTypes) > 0 && !containsString(f.TargetResourceTypes, e.TargetResourceType) {
		return false
	}
	if len(f.ActorKeys) > 0 && !containsString(f.ActorKeys, e.ActorKey()) {
		return false
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	return true
}

func containsActionType(haystack []models.ActionType, needle models.ActionType) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsOutcome(haystack []models.Outcome, needle models.Outcome) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsSeverity(haystack []models.Severity, needle models.Severity) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

// window applies limit/offset to an already-sorted slice.
func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
