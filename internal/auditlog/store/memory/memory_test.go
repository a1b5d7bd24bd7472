package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/auditlog/models"
)

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func seed(s *Store) (oldest, middle, newest *models.AuditLogEntry) {
	oldest = &models.AuditLogEntry{
		ID:             uuid.New(),
		ActorProvider:  "github",
		ActorProfileID: "alice",
		ActionType:     models.ActionAuthentication,
		Severity:       models.SeverityInfo,
		Outcome:        models.OutcomeSuccess,
		OccurredAt:     baseTime,
		CorrelationID:  "chain-1",
	}
	middle = &models.AuditLogEntry{
		ID:            uuid.New(),
		ActionType:    models.ActionDataMutation,
		Severity:      models.SeverityError,
		Outcome:       models.OutcomeFailure,
		OccurredAt:    baseTime.Add(time.Minute),
		CorrelationID: "chain-1",
	}
	newest = &models.AuditLogEntry{
		ID:             uuid.New(),
		ActorProvider:  "oidc",
		ActorProfileID: "bob",
		ActionType:     models.ActionConfiguration,
		Severity:       models.SeverityWarning,
		Outcome:        models.OutcomeSuccess,
		OccurredAt:     baseTime.Add(2 * time.Minute),
		CorrelationID:  "chain-2",
	}
	s.Append(oldest, middle, newest)
	return oldest, middle, newest
}

func TestListEntries_NewestFirst(t *testing.T) {
	s := New()
	oldest, middle, newest := seed(s)

	got, err := s.ListEntries(context.Background(), models.Filter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []*models.AuditLogEntry{newest, middle, oldest}, got)
}

func TestListEntries_LimitOffset(t *testing.T) {
	s := New()
	oldest, middle, _ := seed(s)

	got, err := s.ListEntries(context.Background(), models.Filter{}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []*models.AuditLogEntry{middle, oldest}, got)
}

func TestListEntries_Filters(t *testing.T) {
	s := New()
	oldest, middle, newest := seed(s)

	tests := []struct {
		name   string
		filter models.Filter
		want   []*models.AuditLogEntry
	}{
		{
			name:   "by action type",
			filter: models.Filter{ActionTypes: []models.ActionType{models.ActionAuthentication}},
			want:   []*models.AuditLogEntry{oldest},
		},
		{
			name:   "by outcome",
			filter: models.Filter{Outcomes: []models.Outcome{models.OutcomeFailure}},
			want:   []*models.AuditLogEntry{middle},
		},
		{
			name:   "by severity",
			filter: models.Filter{Severities: []models.Severity{models.SeverityWarning}},
			want:   []*models.AuditLogEntry{newest},
		},
		{
			name:   "by named actor",
			filter: models.Filter{ActorKeys: []string{"github:alice"}},
			want:   []*models.AuditLogEntry{oldest},
		},
		{
			name:   "by anonymous bucket",
			filter: models.Filter{ActorKeys: []string{models.AnonymousActorKey}},
			want:   []*models.AuditLogEntry{middle},
		},
		{
			name: "by time window",
			filter: models.Filter{
				From: timePtr(baseTime.Add(30 * time.Second)),
				To:   timePtr(baseTime.Add(90 * time.Second)),
			},
			want: []*models.AuditLogEntry{middle},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListEntries(context.Background(), tt.filter, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListCorrelationKeys_OrderedByEarliestDescending(t *testing.T) {
	s := New()
	seed(s)

	keys, err := s.ListCorrelationKeys(context.Background(), models.Filter{}, 10, 0)
	require.NoError(t, err)
	// chain-2 starts at t+2m, chain-1 at t.
	assert.Equal(t, []string{"chain-2", "chain-1"}, keys)
}

func TestListEntriesByCorrelation_OldestFirstWithinSelection(t *testing.T) {
	s := New()
	oldest, middle, _ := seed(s)

	got, err := s.ListEntriesByCorrelation(context.Background(), models.Filter{}, []string{"chain-1"})
	require.NoError(t, err)
	assert.Equal(t, []*models.AuditLogEntry{oldest, middle}, got)
}

func TestListEntriesByCorrelation_EmptySelection(t *testing.T) {
	s := New()
	seed(s)

	got, err := s.ListEntriesByCorrelation(context.Background(), models.Filter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBulkListEntries_GroupedByActorAndCapped(t *testing.T) {
	s := New()
	oldest, middle, newest := seed(s)

	got, err := s.BulkListEntries(context.Background(), models.Filter{}, 10)
	require.NoError(t, err)
	// Actor keys sort "anonymous" < "github:alice" < "oidc:bob".
	assert.Equal(t, []*models.AuditLogEntry{middle, oldest, newest}, got)

	capped, err := s.BulkListEntries(context.Background(), models.Filter{}, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestListActorKeys_DistinctSorted(t *testing.T) {
	s := New()
	seed(s)

	keys, err := s.ListActorKeys(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{models.AnonymousActorKey, "github:alice", "oidc:bob"}, keys)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
