package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "vigil/pkg/domain-errors"
)

// ViewMode selects which shape of the audit trail a request wants back.
type ViewMode string

const (
	// ViewFlat returns raw entries in reverse chronological order.
	ViewFlat ViewMode = "flat"
	// ViewGrouped clusters entries by correlation chain.
	ViewGrouped ViewMode = "grouped"
	// ViewActivity clusters one actor's entries into activity sessions.
	ViewActivity ViewMode = "activity"
)

// Valid reports whether the view mode is a known value.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewFlat, ViewGrouped, ViewActivity:
		return true
	}
	return false
}

// Pagination and threshold bounds.
const (
	PageSizeMin     = 1
	PageSizeMax     = 100
	PageSizeDefault = 20

	ThresholdMin     = time.Millisecond
	ThresholdMax     = 60 * time.Second
	ThresholdDefault = time.Second
)

// Filter narrows the set of entries a query considers. Empty slices mean
// "no restriction" on that dimension.
type Filter struct {
	ActionTypes         []ActionType
	Outcomes            []Outcome
	Severities          []Severity
	TargetResourceTypes []string
	// ActorKeys holds "provider:profileId" values or AnonymousActorKey.
	ActorKeys []string
	From      *time.Time
	To        *time.Time
}

// WantsAnonymous reports whether the actor filter includes the anonymous
// bucket. Anonymous entries are matched by a null predicate at the store,
// not joined against the directory.
func (f *Filter) WantsAnonymous() bool {
	for _, k := range f.ActorKeys {
		if k == AnonymousActorKey {
			return true
		}
	}
	return false
}

// NamedActorKeys returns the actor filter minus the anonymous bucket.
func (f *Filter) NamedActorKeys() []string {
	named := make([]string, 0, len(f.ActorKeys))
	for _, k := range f.ActorKeys {
		if k != AnonymousActorKey {
			named = append(named, k)
		}
	}
	return named
}

// SplitActorKey breaks "provider:profileId" into its parts. The second
// return is false for the anonymous sentinel or malformed keys.
func SplitActorKey(key string) (provider, profileID string, ok bool) {
	if key == AnonymousActorKey {
		return "", "", false
	}
	provider, profileID, found := strings.Cut(key, ":")
	if !found || provider == "" || profileID == "" {
		return "", "", false
	}
	return provider, profileID, true
}

// Query is a fully validated audit trail request.
type Query struct {
	Filter    Filter
	Page      int
	PageSize  int
	ViewMode  ViewMode
	Threshold time.Duration
}

// DefaultQuery returns a query with every parameter at its default.
func DefaultQuery() Query {
	return Query{
		Page:      1,
		PageSize:  PageSizeDefault,
		ViewMode:  ViewFlat,
		Threshold: ThresholdDefault,
	}
}

// Offset returns the row/unit offset implied by the page parameters.
func (q *Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Validate checks every parameter against its allowed range. Filters must
// contain known enum values; the time window must be ordered.
func (q *Query) Validate() error {
	if q.Page < 1 {
		return dErrors.New(dErrors.CodeValidation, "page number must be at least 1")
	}
	if q.PageSize < PageSizeMin || q.PageSize > PageSizeMax {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("page size must be between %d and %d", PageSizeMin, PageSizeMax))
	}
	if !q.ViewMode.Valid() {
		return dErrors.New(dErrors.CodeValidation, "view mode must be flat, grouped, or activity")
	}
	if q.Threshold < ThresholdMin || q.Threshold > ThresholdMax {
		return dErrors.New(dErrors.CodeValidation, "threshold must be between 1 and 60000 milliseconds")
	}
	for _, a := range q.Filter.ActionTypes {
		if !a.Valid() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown action type %q", a))
		}
	}
	for _, o := range q.Filter.Outcomes {
		if !o.Valid() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown outcome %q", o))
		}
	}
	for _, s := range q.Filter.Severities {
		if !s.Valid() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown severity %q", s))
		}
	}
	for _, k := range q.Filter.ActorKeys {
		if k == AnonymousActorKey {
			continue
		}
		if _, _, ok := SplitActorKey(k); !ok {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("malformed actor key %q", k))
		}
	}
	if q.Filter.From != nil && q.Filter.To != nil && q.Filter.To.Before(*q.Filter.From) {
		return dErrors.New(dErrors.CodeValidation, "filter[to] must not precede filter[from]")
	}
	return nil
}
