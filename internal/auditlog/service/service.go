// Package service orchestrates the audit trail view pipeline: validated
// query, store read for the requested view mode, grouping, pagination, and
// actor resolution, assembled into one response.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vigil/internal/actors"
	"vigil/internal/auditlog/grouping"
	auditmetrics "vigil/internal/auditlog/metrics"
	"vigil/internal/auditlog/models"
	"vigil/internal/auditlog/paging"
	dErrors "vigil/pkg/domain-errors"
	"vigil/pkg/platform/tracer"
)

// DefaultActivityScanCap bounds the bulk fetch feeding activity grouping
// when no cap is configured. The cap is a deliberate scalability ceiling:
// correct for bounded windows, and the seam for a future incremental
// per-actor cursor scan.
const DefaultActivityScanCap = 10000

// View is the assembled result of one audit trail request. Exactly one of
// Entries, Groups, or ActivityGroups is populated, matching ViewMode.
type View struct {
	Entries        []*models.AuditLogEntry
	Groups         []*models.AuditLogGroup
	ActivityGroups []*models.ActivityAuditLogGroup

	Page      paging.Page
	Actors    actors.Resolution
	AllActors actors.Resolution
	ViewMode  models.ViewMode
	Threshold time.Duration
}

// Service runs the view pipeline over an event store and actor resolver.
type Service struct {
	store    EventStore
	resolver ActorResolver
	logger   *slog.Logger
	metrics  *auditmetrics.Metrics
	tracer   tracer.Tracer
	scanCap  int
}

// Option configures the service.
type Option func(*Service)

// WithLogger injects a logger; defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics injects prometheus metrics; optional.
func WithMetrics(m *auditmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer injects a tracer; defaults to no-op.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithActivityScanCap overrides the activity-mode bulk fetch cap.
func WithActivityScanCap(cap int) Option {
	return func(s *Service) {
		if cap > 0 {
			s.scanCap = cap
		}
	}
}

// New creates the audit view service.
func New(store EventStore, resolver ActorResolver, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("event store is required")
	}
	if resolver == nil {
		return nil, errors.New("actor resolver is required")
	}
	s := &Service{
		store:    store,
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:   tracer.NewNoop(),
		scanCap:  DefaultActivityScanCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// View executes one audit trail request. The store read for the requested
// mode and the actor-universe resolution run concurrently; the response is
// assembled only once both complete. Page actors resolve afterwards and
// mostly hit the cache the universe pass just filled.
func (s *Service) View(ctx context.Context, scope actors.Scope, q models.Query) (*View, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.incrementViewRequests(q.ViewMode)

	view := &View{
		ViewMode:  q.ViewMode,
		Threshold: q.Threshold,
		Page:      paging.Page{Number: q.Page, Size: q.PageSize},
	}

	var allActors actors.Resolution
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetchUnits(gctx, q, view)
	})
	g.Go(func() error {
		universe, err := s.store.ListActorKeys(gctx, q.Filter)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit actors")
		}
		allActors = s.resolver.Resolve(gctx, scope, universe)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.AllActors = allActors
	view.Actors = s.resolver.Resolve(ctx, scope, s.pageActorKeys(view))

	if view.Actors.Degraded || view.AllActors.Degraded {
		s.incrementResolutionDegraded()
	}
	return view, nil
}

// fetchUnits loads and groups the page's units for the requested view mode.
func (s *Service) fetchUnits(ctx context.Context, q models.Query, view *View) error {
	switch q.ViewMode {
	case models.ViewFlat:
		return s.fetchFlat(ctx, q, view)
	case models.ViewGrouped:
		return s.fetchGrouped(ctx, q, view)
	case models.ViewActivity:
		return s.fetchActivity(ctx, q, view)
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown view mode")
	}
}

// fetchFlat pages raw entries directly at the store layer.
func (s *Service) fetchFlat(ctx context.Context, q models.Query, view *View) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanListEntries,
		tracer.Int(tracer.AttrPage, q.Page),
		tracer.Int(tracer.AttrPageSize, q.PageSize))

	entries, err := s.store.ListEntries(ctx, q.Filter, paging.Limit(q.PageSize), q.Offset())
	if err != nil {
		span.End(err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}

	view.Entries, view.Page.HasMore = paging.TrimOverfetch(entries, q.PageSize)
	span.SetAttributes(tracer.Int(tracer.AttrEntryCount, len(view.Entries)))
	span.End(nil)
	return nil
}

// fetchGrouped pages correlation chains in two phases: an aggregate query
// yields the page's correlation keys without loading event bodies, then only
// those chains' entries are fetched and grouped. Memory stays bounded to one
// page of chains regardless of table size.
func (s *Service) fetchGrouped(ctx context.Context, q models.Query, view *View) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCorrelationKeys,
		tracer.Int(tracer.AttrPage, q.Page),
		tracer.Int(tracer.AttrPageSize, q.PageSize))

	keys, err := s.store.ListCorrelationKeys(ctx, q.Filter, paging.Limit(q.PageSize), q.Offset())
	if err != nil {
		span.End(err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list correlation chains")
	}
	keys, hasMore := paging.TrimOverfetch(keys, q.PageSize)
	view.Page.HasMore = hasMore

	if len(keys) == 0 {
		view.Groups = []*models.AuditLogGroup{}
		span.End(nil)
		return nil
	}

	entries, err := s.store.ListEntriesByCorrelation(ctx, q.Filter, keys)
	if err != nil {
		span.End(err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load correlation chain entries")
	}

	start := time.Now()
	groups, err := grouping.ByCorrelation(entries)
	if err != nil {
		span.End(err)
		return err
	}
	s.observeGrouping(models.ViewGrouped, start)

	view.Groups = groups
	span.SetAttributes(tracer.Int(tracer.AttrGroupCount, len(groups)))
	span.End(nil)
	return nil
}

// fetchActivity loads a bounded bulk window, reconstructs sessions in
// memory, and pages the session list by slicing.
func (s *Service) fetchActivity(ctx context.Context, q models.Query, view *View) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanBulkScan,
		tracer.Int(tracer.AttrPage, q.Page),
		tracer.Int(tracer.AttrPageSize, q.PageSize),
		tracer.Duration(tracer.AttrThresholdMs, q.Threshold))

	entries, err := s.store.BulkListEntries(ctx, q.Filter, s.scanCap)
	if err != nil {
		span.End(err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to bulk load audit entries")
	}
	if len(entries) >= s.scanCap {
		s.logger.WarnContext(ctx, "activity bulk fetch hit scan cap, sessions may be incomplete",
			"cap", s.scanCap)
		s.incrementBulkScanTruncated()
	}

	start := time.Now()
	sessions, err := grouping.ByActivity(entries, q.Threshold)
	if err != nil {
		span.End(err)
		return err
	}
	s.observeGrouping(models.ViewActivity, start)
	s.observeSessions(len(sessions))

	view.ActivityGroups, view.Page.HasMore = paging.SliceInMemory(sessions, q.Page, q.PageSize)
	span.SetAttributes(tracer.Int(tracer.AttrGroupCount, len(view.ActivityGroups)))
	span.End(nil)
	return nil
}

// pageActorKeys collects the distinct actor keys appearing on the returned
// page, for the inline display map.
func (s *Service) pageActorKeys(view *View) []string {
	seen := make(map[string]struct{})
	var keys []string
	collect := func(e *models.AuditLogEntry) {
		key := e.ActorKey()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	for _, e := range view.Entries {
		collect(e)
	}
	for _, group := range view.Groups {
		for _, e := range group.Events {
			collect(e)
		}
	}
	for _, session := range view.ActivityGroups {
		for _, e := range session.Events {
			collect(e)
		}
	}
	return keys
}

// ActorUniverse resolves the full filtered actor universe without loading
// any entries, for populating filter menus on their own endpoint.
func (s *Service) ActorUniverse(ctx context.Context, scope actors.Scope, filter models.Filter) (actors.Resolution, error) {
	universe, err := s.store.ListActorKeys(ctx, filter)
	if err != nil {
		return actors.Resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit actors")
	}
	resolution := s.resolver.Resolve(ctx, scope, universe)
	if resolution.Degraded {
		s.incrementResolutionDegraded()
	}
	return resolution, nil
}

func (s *Service) incrementViewRequests(mode models.ViewMode) {
	if s.metrics != nil {
		s.metrics.IncrementViewRequests(string(mode))
	}
}

func (s *Service) incrementResolutionDegraded() {
	if s.metrics != nil {
		s.metrics.ResolutionDegraded.Inc()
	}
}

func (s *Service) incrementBulkScanTruncated() {
	if s.metrics != nil {
		s.metrics.BulkScanTruncated.Inc()
	}
}

func (s *Service) observeGrouping(mode models.ViewMode, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveGrouping(string(mode), start)
	}
}

func (s *Service) observeSessions(count int) {
	if s.metrics != nil {
		s.metrics.SessionsPerRequest.Observe(float64(count))
	}
}
