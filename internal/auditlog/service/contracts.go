package service

import (
	"context"

	"vigil/internal/actors"
	"vigil/internal/auditlog/models"
)

// EventStore is the read contract over the audit event table. Three access
// patterns back the three view modes; ListActorKeys feeds the filter-menu
// actor universe.
type EventStore interface {
	// ListEntries returns filtered entries newest-first with limit/offset.
	ListEntries(ctx context.Context, filter models.Filter, limit, offset int) ([]*models.AuditLogEntry, error)

	// ListCorrelationKeys returns the correlation IDs matching the filter,
	// ordered by earliest occurrence descending, with limit/offset. This is
	// the aggregate phase of correlation-mode pagination: no event bodies
	// are loaded.
	ListCorrelationKeys(ctx context.Context, filter models.Filter, limit, offset int) ([]string, error)

	// ListEntriesByCorrelation returns the full entries of the given
	// correlation chains, still restricted by the filter.
	ListEntriesByCorrelation(ctx context.Context, filter models.Filter, correlationIDs []string) ([]*models.AuditLogEntry, error)

	// BulkListEntries returns up to cap filtered entries ordered by actor
	// key then occurrence time, for the in-memory activity grouping pass.
	BulkListEntries(ctx context.Context, filter models.Filter, cap int) ([]*models.AuditLogEntry, error)

	// ListActorKeys returns every distinct actor key matching the filter.
	ListActorKeys(ctx context.Context, filter models.Filter) ([]string, error)
}

// ActorResolver resolves actor keys to display identities within the viewing
// operator's cache scope.
type ActorResolver interface {
	Resolve(ctx context.Context, scope actors.Scope, actorKeys []string) actors.Resolution
}
