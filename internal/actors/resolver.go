package actors

import (
	"context"
	"log/slog"

	"vigil/internal/auditlog/models"
	"vigil/pkg/platform/tracer"
)

// Resolver turns actor keys into display identities. Lookups go through the
// scoped cache first; misses are batched per provider against the directory.
// Directory failure is non-fatal: the resolution degrades to raw identifiers
// and the request still succeeds.
type Resolver struct {
	directory Directory
	cache     Cache
	logger    *slog.Logger
	tracer    tracer.Tracer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTracer injects a tracer; defaults to no-op.
func WithTracer(t tracer.Tracer) ResolverOption {
	return func(r *Resolver) { r.tracer = t }
}

// NewResolver creates a resolver over the given directory and cache.
func NewResolver(directory Directory, cache Cache, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		directory: directory,
		cache:     cache,
		logger:    logger,
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps every given actor key to a display identity within the
// operator's cache scope. The viewing operator's own identity is resolved
// directly, never batched, and inserted before anything else. The anonymous
// bucket is filled in place rather than sent to the directory.
func (r *Resolver) Resolve(ctx context.Context, scope Scope, actorKeys []string) Resolution {
	ctx, span := r.tracer.Start(ctx, tracer.SpanResolveActors,
		tracer.Int(tracer.AttrActorCount, len(actorKeys)))

	resolution := Resolution{Actors: make(map[string]ResolvedActor, len(actorKeys))}

	r.resolveOperator(ctx, scope, &resolution)

	// Partition the remaining keys: cache hits resolve immediately, misses
	// accumulate per provider for one batched directory call each.
	misses := make(map[string][]string)
	for _, key := range dedupe(actorKeys) {
		if _, done := resolution.Actors[key]; done {
			continue
		}
		if key == models.AnonymousActorKey {
			resolution.Actors[key] = ResolvedActor{}
			continue
		}
		provider, _, ok := models.SplitActorKey(key)
		if !ok {
			// Malformed keys degrade to themselves rather than failing
			// the whole page.
			resolution.Actors[key] = ResolvedActor{ProfileID: key}
			continue
		}

		cached, hit, err := r.cache.Get(ctx, scope.CacheKey(key))
		if err != nil {
			r.logger.WarnContext(ctx, "actor cache read failed", "error", err, "actor_key", key)
		}
		if hit {
			resolution.Actors[key] = cached
			continue
		}
		misses[provider] = append(misses[provider], key)
	}

	for provider, keys := range misses {
		r.resolveBatch(ctx, scope, provider, keys, &resolution)
	}

	span.SetAttributes(tracer.Bool(tracer.AttrDegraded, resolution.Degraded))
	span.End(nil)
	return resolution
}

// resolveOperator performs the direct (non-batched) lookup of the viewing
// operator when their identity is a well-formed actor key.
func (r *Resolver) resolveOperator(ctx context.Context, scope Scope, resolution *Resolution) {
	provider, profileID, ok := models.SplitActorKey(scope.OperatorID)
	if !ok {
		return
	}

	key := scope.OperatorID
	if cached, hit, err := r.cache.Get(ctx, scope.CacheKey(key)); err == nil && hit {
		resolution.Actors[key] = cached
		return
	}

	profile, err := r.directory.Lookup(ctx, provider, profileID)
	if err != nil {
		r.logger.WarnContext(ctx, "operator identity lookup failed",
			"error", err, "operator", scope.OperatorID)
		resolution.Degraded = true
		resolution.Actors[key] = ResolvedActor{ProfileID: profileID, Provider: provider}
		return
	}

	actor := toResolvedActor(provider, profile)
	resolution.Actors[key] = actor
	r.cacheSet(ctx, scope, key, actor)
}

// resolveBatch issues one batched directory lookup for a provider's cache
// misses, falling back to raw identifiers on failure.
func (r *Resolver) resolveBatch(ctx context.Context, scope Scope, provider string, keys []string, resolution *Resolution) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanDirectoryLookup,
		tracer.String("provider", provider),
		tracer.Int(tracer.AttrActorCount, len(keys)))

	profileIDs := make([]string, 0, len(keys))
	for _, key := range keys {
		_, profileID, _ := models.SplitActorKey(key)
		profileIDs = append(profileIDs, profileID)
	}

	profiles, err := r.directory.BatchLookup(ctx, provider, profileIDs)
	if err != nil {
		r.logger.WarnContext(ctx, "actor directory lookup failed, degrading to raw identifiers",
			"error", err, "provider", provider, "actors", len(keys))
		resolution.Degraded = true
		for _, key := range keys {
			_, profileID, _ := models.SplitActorKey(key)
			resolution.Actors[key] = ResolvedActor{ProfileID: profileID, Provider: provider}
		}
		span.End(err)
		return
	}

	byProfileID := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		byProfileID[p.ProfileID] = p
	}

	for _, key := range keys {
		_, profileID, _ := models.SplitActorKey(key)
		profile, found := byProfileID[profileID]
		if !found {
			// Unknown to the directory: keep the raw identifiers so the
			// event remains attributable.
			resolution.Actors[key] = ResolvedActor{ProfileID: profileID, Provider: provider}
			continue
		}
		actor := toResolvedActor(provider, profile)
		resolution.Actors[key] = actor
		r.cacheSet(ctx, scope, key, actor)
	}
	span.End(nil)
}

func (r *Resolver) cacheSet(ctx context.Context, scope Scope, actorKey string, actor ResolvedActor) {
	if err := r.cache.Set(ctx, scope.CacheKey(actorKey), actor); err != nil {
		r.logger.WarnContext(ctx, "actor cache write failed", "error", err, "actor_key", actorKey)
	}
}

func toResolvedActor(provider string, p Profile) ResolvedActor {
	return ResolvedActor{
		ProfileID:   p.ProfileID,
		Provider:    provider,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		AvatarURL:   p.AvatarURL,
	}
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
