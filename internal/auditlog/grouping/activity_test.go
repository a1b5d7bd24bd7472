package grouping

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/auditlog/models"
	dErrors "vigil/pkg/domain-errors"
)

const threshold = time.Second

// Threshold 1000ms, one actor: A(corr X, t=0), B(corr X, t=500),
// C(corr Y, t=2000). Gap B to C is 1500 with a different chain, so C opens
// a new session.
func TestByActivity_GapBeyondThresholdOpensNewSession(t *testing.T) {
	a := entry("X", 0, withSeverity(models.SeverityInfo))
	b := entry("X", 500*time.Millisecond, withSeverity(models.SeverityError))
	c := entry("Y", 2000*time.Millisecond, withSeverity(models.SeverityInfo))

	sessions, err := ByActivity([]*models.AuditLogEntry{a, b, c}, threshold)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Newest-first: C's session precedes [A, B].
	assert.Equal(t, []*models.AuditLogEntry{c}, sessions[0].Events)
	assert.Equal(t, models.SeverityInfo, sessions[0].HighestSeverity)

	assert.Equal(t, []*models.AuditLogEntry{a, b}, sessions[1].Events)
	assert.Equal(t, models.SeverityError, sessions[1].HighestSeverity)
	assert.False(t, sessions[1].HasFailure)
}

// A long-delayed continuation of a chain merges back into the session that
// owns the chain, even though a newer session has opened since.
func TestByActivity_CorrelationContinuityOverridesThreshold(t *testing.T) {
	d := entry("Z", 0)
	e := entry("W", 5000*time.Millisecond)
	f := entry("Z", 6000*time.Millisecond)

	sessions, err := ByActivity([]*models.AuditLogEntry{d, e, f}, threshold)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	var zSession, wSession *models.ActivityAuditLogGroup
	for _, s := range sessions {
		switch s.Events[0] {
		case d:
			zSession = s
		case e:
			wSession = s
		}
	}
	require.NotNil(t, zSession)
	require.NotNil(t, wSession)

	assert.Equal(t, []*models.AuditLogEntry{d, f}, zSession.Events)
	assert.Equal(t, []string{"Z"}, zSession.CorrelationIDs)
	assert.Equal(t, []*models.AuditLogEntry{e}, wSession.Events)

	// F at t=6000 makes the resurrected session the newest.
	assert.Equal(t, baseTime.Add(6000*time.Millisecond), zSession.TimeRange.End)
}

func TestByActivity_WithinGapMergesIntoCurrentSession(t *testing.T) {
	a := entry("X", 0)
	b := entry("Y", 800*time.Millisecond)
	c := entry("Z", 1600*time.Millisecond)

	sessions, err := ByActivity([]*models.AuditLogEntry{a, b, c}, threshold)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	assert.Equal(t, 3, sessions[0].EventCount)
	assert.Equal(t, []string{"X", "Y", "Z"}, sessions[0].CorrelationIDs)
	assert.Equal(t, baseTime, sessions[0].TimeRange.Start)
	assert.Equal(t, baseTime.Add(1600*time.Millisecond), sessions[0].TimeRange.End)
}

func TestByActivity_GapExactlyAtThresholdMerges(t *testing.T) {
	a := entry("X", 0)
	b := entry("Y", threshold)

	sessions, err := ByActivity([]*models.AuditLogEntry{a, b}, threshold)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestByActivity_ActorsNeverShareSessions(t *testing.T) {
	alice := entry("X", 0)
	bob := entry("Y", 100*time.Millisecond, withActor("github", "bob"))

	sessions, err := ByActivity([]*models.AuditLogEntry{alice, bob}, threshold)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	for _, s := range sessions {
		assert.Equal(t, 1, s.EventCount)
	}
}

// An event with no actor attribution lands in the anonymous bucket and never
// merges with a named actor's session regardless of timing.
func TestByActivity_AnonymousBucketStaysSeparate(t *testing.T) {
	named := entry("X", 0)
	anonymous := entry("X", 100*time.Millisecond, withActor("", ""))

	sessions, err := ByActivity([]*models.AuditLogEntry{named, anonymous}, threshold)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	var anonSession *models.ActivityAuditLogGroup
	for _, s := range sessions {
		if s.ActorProfileID == "" {
			anonSession = s
		}
	}
	require.NotNil(t, anonSession)
	assert.Empty(t, anonSession.ActorProvider)
	assert.Contains(t, anonSession.GroupKey, models.AnonymousActorKey+"@")
	assert.Equal(t, []*models.AuditLogEntry{anonymous}, anonSession.Events)
}

func TestByActivity_ChainNeverSplitsAcrossSessions(t *testing.T) {
	entries := []*models.AuditLogEntry{
		entry("X", 0),
		entry("Y", 3*time.Second),
		entry("X", 6*time.Second),
		entry("Y", 9*time.Second),
		entry("X", 12*time.Second),
	}

	sessions, err := ByActivity(entries, threshold)
	require.NoError(t, err)

	chainOwner := make(map[string]string)
	for _, s := range sessions {
		for _, e := range s.Events {
			if owner, ok := chainOwner[e.CorrelationID]; ok {
				assert.Equal(t, owner, s.GroupKey,
					"chain %s split across sessions", e.CorrelationID)
				continue
			}
			chainOwner[e.CorrelationID] = s.GroupKey
		}
	}
}

func TestByActivity_EveryEntryInExactlyOneSession(t *testing.T) {
	entries := []*models.AuditLogEntry{
		entry("X", 0),
		entry("Y", 2*time.Second),
		entry("X", 10*time.Second),
		entry("Z", 10500*time.Millisecond),
		entry("W", 30*time.Second, withActor("oidc", "carol")),
	}

	sessions, err := ByActivity(entries, threshold)
	require.NoError(t, err)

	seen := make(map[uuid.UUID]bool)
	total := 0
	for _, s := range sessions {
		assert.Equal(t, len(s.Events), s.EventCount)
		for _, e := range s.Events {
			assert.False(t, seen[e.ID])
			seen[e.ID] = true
		}
		total += len(s.Events)
	}
	assert.Equal(t, len(entries), total)
}

func TestByActivity_SessionSeverityNeverBelowMemberMax(t *testing.T) {
	sessions, err := ByActivity([]*models.AuditLogEntry{
		entry("X", 0, withSeverity(models.SeverityDebug)),
		entry("X", 100*time.Millisecond, withSeverity(models.SeverityCritical)),
		entry("Y", 300*time.Millisecond, withSeverity(models.SeverityWarning)),
	}, threshold)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	for _, e := range sessions[0].Events {
		assert.LessOrEqual(t, e.Severity.Rank(), sessions[0].HighestSeverity.Rank())
	}
	assert.Equal(t, models.SeverityCritical, sessions[0].HighestSeverity)
}

func TestByActivity_DeterministicAcrossRuns(t *testing.T) {
	entries := []*models.AuditLogEntry{
		entry("X", 0),
		entry("Y", 0, withActor("github", "bob")),
		entry("Z", 0, withActor("oidc", "carol")),
		entry("W", 5*time.Second),
	}

	first, err := ByActivity(entries, threshold)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := ByActivity(entries, threshold)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].GroupKey, again[j].GroupKey)
		}
	}
}

func TestByActivity_MissingCorrelationIDFailsRequest(t *testing.T) {
	_, err := ByActivity([]*models.AuditLogEntry{entry("", 0)}, threshold)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestByActivity_EmptyInput(t *testing.T) {
	sessions, err := ByActivity(nil, threshold)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
