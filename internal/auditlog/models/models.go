// Package models defines the audit trail read model: immutable log entries
// as stored, and the derived group shapes the viewer computes per request.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies how serious an audit event is. Severities form a fixed
// total order (Debug < Info < Warning < Error < Critical) used to compute the
// highest severity within a group.
type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// severityRanks fixes the total order. Unknown severities rank below Debug so
// a malformed value can never win a highest-severity scan.
var severityRanks = map[Severity]int{
	SeverityDebug:    0,
	SeverityInfo:     1,
	SeverityWarning:  2,
	SeverityError:    3,
	SeverityCritical: 4,
}

// Rank returns the position of the severity in the total order, or -1 for
// unknown values.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether the severity is one of the five known levels.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// MaxSeverity returns the highest severity across entries via linear max-scan.
// Equal severities are indistinguishable; no tie is broken.
func MaxSeverity(entries []*AuditLogEntry) Severity {
	highest := SeverityDebug
	for _, e := range entries {
		if e.Severity.Rank() > highest.Rank() {
			highest = e.Severity
		}
	}
	return highest
}

// Outcome records whether the audited action succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomePending Outcome = "pending"
)

// Valid reports whether the outcome is a known value.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomePending:
		return true
	}
	return false
}

// ActionType buckets audit events by the kind of action they record.
type ActionType string

const (
	ActionAuthentication ActionType = "authentication"
	ActionAuthorization  ActionType = "authorization"
	ActionDataMutation   ActionType = "data_mutation"
	ActionConfiguration  ActionType = "configuration"
	ActionIntegration    ActionType = "integration"
	ActionAdministration ActionType = "administration"
)

// Valid reports whether the action type is a known value.
func (a ActionType) Valid() bool {
	switch a {
	case ActionAuthentication, ActionAuthorization, ActionDataMutation,
		ActionConfiguration, ActionIntegration, ActionAdministration:
		return true
	}
	return false
}

// AnonymousActorKey buckets events with no attributed actor. Anonymous events
// never merge with a named actor's activity sessions.
const AnonymousActorKey = "anonymous"

// AuditLogEntry is one immutable audit fact as stored. It is created at
// emission time (outside this service) and never mutated; the viewer only
// reads it.
type AuditLogEntry struct {
	ID uuid.UUID

	// Actor attribution. Both fields are empty for anonymous or
	// failed-authentication events.
	ActorProfileID string
	ActorProvider  string

	ActionType        ActionType
	ActionDescription string
	Severity          Severity

	TargetResourceType string
	TargetResourceID   string

	Outcome    Outcome
	OccurredAt time.Time

	// CorrelationID identifies the causal request chain the event belongs
	// to. The schema requires it non-empty; an empty value on a stored row
	// is a defect, not an ignorable condition.
	CorrelationID string

	SessionID string
	RequestID string

	// SequenceNumber orders events within one correlation chain when the
	// emitter provides it. Absent values sort as zero.
	SequenceNumber *int64

	RequestPath   string
	RequestMethod string
	IPAddress     string
	UserAgent     string

	DurationMs    *int64
	ParentEventID *uuid.UUID

	Metadata map[string]string
}

// ActorKey returns "provider:profileId" for attributed events and
// AnonymousActorKey otherwise.
func (e *AuditLogEntry) ActorKey() string {
	if e.ActorProfileID == "" || e.ActorProvider == "" {
		return AnonymousActorKey
	}
	return e.ActorProvider + ":" + e.ActorProfileID
}

// Sequence returns the entry's sequence number, defaulting absent values to
// zero for ordering.
func (e *AuditLogEntry) Sequence() int64 {
	if e.SequenceNumber == nil {
		return 0
	}
	return *e.SequenceNumber
}

// TimeRange is the closed interval covered by a group's member events.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AuditLogGroup clusters the events of one correlation chain. Derived per
// request; it lives only for the duration of a response.
type AuditLogGroup struct {
	CorrelationID   string
	PrimaryEvent    *AuditLogEntry
	EventCount      int
	Events          []*AuditLogEntry
	HasFailure      bool
	HighestSeverity Severity
	TimeRange       TimeRange
}

// ActivityAuditLogGroup clusters one actor's events into a session-like burst
// of activity. A session may span several correlation chains; one chain is
// never split across sessions.
type ActivityAuditLogGroup struct {
	// GroupKey is actor key plus the primary event timestamp, unique among
	// the sessions of one response.
	GroupKey string

	// Actor attribution; empty for the anonymous bucket.
	ActorProfileID string
	ActorProvider  string

	// CorrelationIDs lists the distinct chains merged into this session,
	// in order of first appearance.
	CorrelationIDs []string

	PrimaryEvent    *AuditLogEntry
	EventCount      int
	Events          []*AuditLogEntry
	HasFailure      bool
	HighestSeverity Severity
	TimeRange       TimeRange
}
