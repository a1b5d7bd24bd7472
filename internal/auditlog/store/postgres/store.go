// Package postgres implements the audit event store over PostgreSQL.
// The table is append-only from the viewer's perspective: every query here
// is a read.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vigil/internal/auditlog/models"
)

// Store implements service.EventStore using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit event store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const entryColumns = `id, actor_profile_id, actor_provider, action_type, action_description,
	severity, target_resource_type, target_resource_id, outcome, occurred_at,
	correlation_id, session_id, request_id, sequence_number, request_path,
	request_method, ip_address, user_agent, duration_ms, parent_event_id, metadata`

// ListEntries returns filtered entries newest-first with limit/offset.
// The id tie-break keeps pagination stable across equal timestamps.
func (s *Store) ListEntries(ctx context.Context, filter models.Filter, limit, offset int) ([]*models.AuditLogEntry, error) {
	var args []any
	where := buildPredicate(filter, &args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_log_entries
		%s
		ORDER BY occurred_at DESC, id DESC
		LIMIT %s OFFSET %s`,
		entryColumns, where, placeholder(&args, limit), placeholder(&args, offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListCorrelationKeys runs the aggregate phase of correlation-mode
// pagination: the page's correlation IDs ordered by earliest occurrence
// descending, without loading event bodies.
func (s *Store) ListCorrelationKeys(ctx context.Context, filter models.Filter, limit, offset int) ([]string, error) {
	var args []any
	where := buildPredicate(filter, &args)

	query := fmt.Sprintf(`
		SELECT correlation_id, MIN(occurred_at) AS first_occurred
		FROM audit_log_entries
		%s
		GROUP BY correlation_id
		ORDER BY first_occurred DESC, correlation_id DESC
		LIMIT %s OFFSET %s`,
		where, placeholder(&args, limit), placeholder(&args, offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query correlation keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		var firstOccurred sql.NullTime
		if err := rows.Scan(&key, &firstOccurred); err != nil {
			return nil, fmt.Errorf("scan correlation key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate correlation keys: %w", err)
	}
	return keys, nil
}

// ListEntriesByCorrelation returns the full entries of the given chains,
// still restricted by the filter predicate.
func (s *Store) ListEntriesByCorrelation(ctx context.Context, filter models.Filter, correlationIDs []string) ([]*models.AuditLogEntry, error) {
	if len(correlationIDs) == 0 {
		return nil, nil
	}

	var args []any
	where := buildPredicate(filter, &args)
	connector := "WHERE"
	if where != "" {
		connector = where + " AND"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_log_entries
		%s correlation_id IN (%s)
		ORDER BY occurred_at ASC, id ASC`,
		entryColumns, connector, placeholderList(&args, correlationIDs))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries by correlation: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// BulkListEntries returns up to cap filtered entries ordered by actor key
// then occurrence time, feeding the in-memory activity grouping pass.
func (s *Store) BulkListEntries(ctx context.Context, filter models.Filter, cap int) ([]*models.AuditLogEntry, error) {
	var args []any
	where := buildPredicate(filter, &args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_log_entries
		%s
		ORDER BY COALESCE(actor_provider || ':' || actor_profile_id, 'anonymous'), occurred_at ASC, id ASC
		LIMIT %s`,
		entryColumns, where, placeholder(&args, cap))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bulk query audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListActorKeys returns every distinct actor key matching the filter.
// Anonymous rows surface as the sentinel key.
func (s *Store) ListActorKeys(ctx context.Context, filter models.Filter) ([]string, error) {
	var args []any
	where := buildPredicate(filter, &args)

	query := fmt.Sprintf(`
		SELECT DISTINCT actor_provider, actor_profile_id
		FROM audit_log_entries
		%s`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit actors: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var provider, profileID sql.NullString
		if err := rows.Scan(&provider, &profileID); err != nil {
			return nil, fmt.Errorf("scan audit actor: %w", err)
		}
		if provider.Valid && profileID.Valid {
			keys = append(keys, provider.String+":"+profileID.String)
		} else {
			keys = append(keys, models.AnonymousActorKey)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit actors: %w", err)
	}
	return keys, nil
}

// buildPredicate translates the filter into a WHERE clause, appending bind
// arguments as it goes. Returns "" when the filter is empty.
func buildPredicate(f models.Filter, args *[]any) string {
	var conditions []string

	if len(f.ActionTypes) > 0 {
		values := make([]string, len(f.ActionTypes))
		for i, v := range f.ActionTypes {
			values[i] = string(v)
		}
		conditions = append(conditions, fmt.Sprintf("action_type IN (%s)", placeholderList(args, values)))
	}
	if len(f.Outcomes) > 0 {
		values := make([]string, len(f.Outcomes))
		for i, v := range f.Outcomes {
			values[i] = string(v)
		}
		conditions = append(conditions, fmt.Sprintf("outcome IN (%s)", placeholderList(args, values)))
	}
	if len(f.Severities) > 0 {
		values := make([]string, len(f.Severities))
		for i, v := range f.Severities {
			values[i] = string(v)
		}
		conditions = append(conditions, fmt.Sprintf("severity IN (%s)", placeholderList(args, values)))
	}
	if len(f.TargetResourceTypes) > 0 {
		conditions = append(conditions, fmt.Sprintf("target_resource_type IN (%s)", placeholderList(args, f.TargetResourceTypes)))
	}

	if len(f.ActorKeys) > 0 {
		var actorClauses []string
		for _, key := range f.NamedActorKeys() {
			provider, profileID, ok := models.SplitActorKey(key)
			if !ok {
				continue
			}
			actorClauses = append(actorClauses, fmt.Sprintf("(actor_provider = %s AND actor_profile_id = %s)",
				placeholder(args, provider), placeholder(args, profileID)))
		}
		if f.WantsAnonymous() {
			// Anonymous events carry no actor columns at all; matching is
			// a null predicate, never a join.
			actorClauses = append(actorClauses, "actor_profile_id IS NULL")
		}
		if len(actorClauses) > 0 {
			conditions = append(conditions, "("+strings.Join(actorClauses, " OR ")+")")
		}
	}

	if f.From != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= %s", placeholder(args, *f.From)))
	}
	if f.To != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at <= %s", placeholder(args, *f.To)))
	}

	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

// placeholder appends one bind argument and returns its positional marker.
func placeholder(args *[]any, value any) string {
	*args = append(*args, value)
	return fmt.Sprintf("$%d", len(*args))
}

// placeholderList appends a slice of bind arguments and returns their
// comma-joined positional markers.
func placeholderList(args *[]any, values []string) string {
	markers := make([]string, len(values))
	for i, v := range values {
		markers[i] = placeholder(args, v)
	}
	return strings.Join(markers, ", ")
}

// scanEntries scans query rows into entries, translating nullable columns.
func scanEntries(rows *sql.Rows) ([]*models.AuditLogEntry, error) {
	var entries []*models.AuditLogEntry

	for rows.Next() {
		var (
			e              models.AuditLogEntry
			actorProfileID sql.NullString
			actorProvider  sql.NullString
			sessionID      sql.NullString
			requestID      sql.NullString
			sequenceNumber sql.NullInt64
			requestPath    sql.NullString
			requestMethod  sql.NullString
			ipAddress      sql.NullString
			userAgent      sql.NullString
			durationMs     sql.NullInt64
			parentEventID  *uuid.UUID
			metadata       []byte
		)

		err := rows.Scan(
			&e.ID,
			&actorProfileID,
			&actorProvider,
			&e.ActionType,
			&e.ActionDescription,
			&e.Severity,
			&e.TargetResourceType,
			&e.TargetResourceID,
			&e.Outcome,
			&e.OccurredAt,
			&e.CorrelationID,
			&sessionID,
			&requestID,
			&sequenceNumber,
			&requestPath,
			&requestMethod,
			&ipAddress,
			&userAgent,
			&durationMs,
			&parentEventID,
			&metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		e.ActorProfileID = actorProfileID.String
		e.ActorProvider = actorProvider.String
		e.SessionID = sessionID.String
		e.RequestID = requestID.String
		e.RequestPath = requestPath.String
		e.RequestMethod = requestMethod.String
		e.IPAddress = ipAddress.String
		e.UserAgent = userAgent.String
		if sequenceNumber.Valid {
			seq := sequenceNumber.Int64
			e.SequenceNumber = &seq
		}
		if durationMs.Valid {
			d := durationMs.Int64
			e.DurationMs = &d
		}
		e.ParentEventID = parentEventID
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode audit entry metadata: %w", err)
			}
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}
