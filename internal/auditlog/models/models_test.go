package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank_TotalOrder(t *testing.T) {
	ordered := []Severity{SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
	}
}

func TestSeverityRank_UnknownRanksBelowDebug(t *testing.T) {
	assert.Equal(t, -1, Severity("bogus").Rank())
	assert.Less(t, Severity("bogus").Rank(), SeverityDebug.Rank())
	assert.False(t, Severity("bogus").Valid())
}

func TestMaxSeverity(t *testing.T) {
	entries := []*AuditLogEntry{
		{Severity: SeverityInfo},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
	}
	assert.Equal(t, SeverityError, MaxSeverity(entries))
}

func TestMaxSeverity_UnknownNeverWins(t *testing.T) {
	entries := []*AuditLogEntry{
		{Severity: Severity("bogus")},
		{Severity: SeverityDebug},
	}
	assert.Equal(t, SeverityDebug, MaxSeverity(entries))
}

func TestActorKey(t *testing.T) {
	attributed := &AuditLogEntry{ActorProvider: "github", ActorProfileID: "alice"}
	assert.Equal(t, "github:alice", attributed.ActorKey())

	anonymous := &AuditLogEntry{}
	assert.Equal(t, AnonymousActorKey, anonymous.ActorKey())

	partial := &AuditLogEntry{ActorProvider: "github"}
	assert.Equal(t, AnonymousActorKey, partial.ActorKey())
}

func TestSequence_AbsentDefaultsToZero(t *testing.T) {
	e := &AuditLogEntry{}
	assert.Equal(t, int64(0), e.Sequence())

	n := int64(7)
	e.SequenceNumber = &n
	assert.Equal(t, int64(7), e.Sequence())
}

func TestSplitActorKey(t *testing.T) {
	provider, profileID, ok := SplitActorKey("github:alice")
	assert.True(t, ok)
	assert.Equal(t, "github", provider)
	assert.Equal(t, "alice", profileID)

	_, _, ok = SplitActorKey(AnonymousActorKey)
	assert.False(t, ok)

	_, _, ok = SplitActorKey("noseparator")
	assert.False(t, ok)

	_, _, ok = SplitActorKey(":missing-provider")
	assert.False(t, ok)
}

func TestFilterActorHelpers(t *testing.T) {
	f := Filter{ActorKeys: []string{"github:alice", AnonymousActorKey, "oidc:bob"}}
	assert.True(t, f.WantsAnonymous())
	assert.Equal(t, []string{"github:alice", "oidc:bob"}, f.NamedActorKeys())

	empty := Filter{}
	assert.False(t, empty.WantsAnonymous())
	assert.Empty(t, empty.NamedActorKeys())
}
