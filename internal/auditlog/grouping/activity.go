package grouping

import (
	"fmt"
	"sort"
	"time"

	"vigil/internal/auditlog/models"
	dErrors "vigil/pkg/domain-errors"
)

// ByActivity reconstructs session-like bursts of activity per actor. Within
// one actor's chronological entries, an event joins an existing session when
// it continues a correlation chain already seen in that session, or joins
// the most recently touched session when the gap since the previous event is
// within threshold. Otherwise it opens a new session.
//
// Correlation continuity overrides the time threshold: an event sharing a
// session's correlation chain merges into that session after an arbitrarily
// long gap, even when newer sessions have opened since, because it is a
// continuation of the same causal chain (a delayed callback, for example).
// A request chain is therefore never split across sessions, and a session
// has no maximum span; the threshold is the only knob.
//
// The returned sessions are sorted newest-first by primary event across all
// actors, with the group key as tie-break so equal timestamps still order
// deterministically.
func ByActivity(entries []*models.AuditLogEntry, threshold time.Duration) ([]*models.ActivityAuditLogGroup, error) {
	partitions := make(map[string][]*models.AuditLogEntry)
	for _, e := range entries {
		if e.CorrelationID == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("audit entry %s has no correlation id", e.ID))
		}
		key := e.ActorKey()
		partitions[key] = append(partitions[key], e)
	}

	var sessions []*models.ActivityAuditLogGroup
	for actorKey, partition := range partitions {
		sort.SliceStable(partition, func(i, j int) bool {
			return partition[i].OccurredAt.Before(partition[j].OccurredAt)
		})
		sessions = append(sessions, scanSessions(actorKey, partition, threshold)...)
	}

	sort.Slice(sessions, func(i, j int) bool {
		ti, tj := sessions[i].PrimaryEvent.OccurredAt, sessions[j].PrimaryEvent.OccurredAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return sessions[i].GroupKey < sessions[j].GroupKey
	})
	return sessions, nil
}

// sessionAccum accumulates one session during the forward pass. The
// correlation set lives as long as the scan so a chain can resurrect the
// session later.
type sessionAccum struct {
	events []*models.AuditLogEntry
	active *correlationSet
}

// scanSessions runs the single forward pass over one actor's chronological
// entries, splitting them into sessions.
func scanSessions(actorKey string, partition []*models.AuditLogEntry, threshold time.Duration) []*models.ActivityAuditLogGroup {
	var (
		open          []*sessionAccum
		current       *sessionAccum
		lastEventTime time.Time
	)

	for _, e := range partition {
		target := sessionSharingChain(open, e.CorrelationID)
		if target == nil {
			withinGap := current != nil && e.OccurredAt.Sub(lastEventTime) <= threshold
			if withinGap {
				target = current
			} else {
				target = &sessionAccum{active: newCorrelationSet()}
				open = append(open, target)
			}
		}

		target.events = append(target.events, e)
		target.active.add(e.CorrelationID)
		current = target
		lastEventTime = e.OccurredAt
	}

	groups := make([]*models.ActivityAuditLogGroup, 0, len(open))
	for _, s := range open {
		groups = append(groups, finalizeSession(actorKey, s))
	}
	return groups
}

// sessionSharingChain finds the session whose active-correlation set already
// contains the chain, if any. At most one session can match: a chain only
// ever joins a single session.
func sessionSharingChain(open []*sessionAccum, correlationID string) *sessionAccum {
	for _, s := range open {
		if s.active.contains(correlationID) {
			return s
		}
	}
	return nil
}

// finalizeSession derives an activity group from the accumulated session
// members, using the same chain-order/derivation rules as the correlation
// view.
func finalizeSession(actorKey string, s *sessionAccum) *models.ActivityAuditLogGroup {
	members := s.events
	sortChainOrder(members)
	primary := members[0]

	group := &models.ActivityAuditLogGroup{
		GroupKey:        actorKey + "@" + primary.OccurredAt.UTC().Format(time.RFC3339Nano),
		CorrelationIDs:  s.active.ordered(),
		PrimaryEvent:    primary,
		EventCount:      len(members),
		Events:          members,
		HasFailure:      anyFailure(members),
		HighestSeverity: models.MaxSeverity(members),
		TimeRange:       timeRange(members),
	}
	if actorKey != models.AnonymousActorKey {
		group.ActorProvider = primary.ActorProvider
		group.ActorProfileID = primary.ActorProfileID
	}
	return group
}

// correlationSet tracks the correlation chains seen in one session,
// preserving first-appearance order for the finalized group.
type correlationSet struct {
	seen  map[string]struct{}
	order []string
}

func newCorrelationSet() *correlationSet {
	return &correlationSet{seen: make(map[string]struct{})}
}

func (s *correlationSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *correlationSet) contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// ordered returns the distinct correlation IDs in first-appearance order.
func (s *correlationSet) ordered() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
