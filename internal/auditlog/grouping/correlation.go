// Package grouping contains the pure grouping passes behind the correlation
// and activity views. Nothing here performs I/O; both passes are
// deterministic functions of their input slice.
package grouping

import (
	"fmt"
	"sort"

	"vigil/internal/auditlog/models"
	dErrors "vigil/pkg/domain-errors"
)

// ByCorrelation partitions a bounded set of entries by correlation ID and
// derives one group per causal request chain. Every input entry lands in
// exactly one group. Groups come back sorted newest-first by their primary
// event, with the correlation ID as tie-break so equal timestamps still
// order deterministically.
func ByCorrelation(entries []*models.AuditLogEntry) ([]*models.AuditLogGroup, error) {
	partitions := make(map[string][]*models.AuditLogEntry)
	for _, e := range entries {
		if e.CorrelationID == "" {
			// Storage guarantees a correlation ID on every row. Dropping
			// the row instead would corrupt audit completeness, so the
			// whole request fails.
			return nil, dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("audit entry %s has no correlation id", e.ID))
		}
		partitions[e.CorrelationID] = append(partitions[e.CorrelationID], e)
	}

	groups := make([]*models.AuditLogGroup, 0, len(partitions))
	for correlationID, members := range partitions {
		sortChainOrder(members)
		groups = append(groups, &models.AuditLogGroup{
			CorrelationID:   correlationID,
			PrimaryEvent:    members[0],
			EventCount:      len(members),
			Events:          members,
			HasFailure:      anyFailure(members),
			HighestSeverity: models.MaxSeverity(members),
			TimeRange:       timeRange(members),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		ti, tj := groups[i].PrimaryEvent.OccurredAt, groups[j].PrimaryEvent.OccurredAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return groups[i].CorrelationID < groups[j].CorrelationID
	})
	return groups, nil
}

// sortChainOrder orders the members of one chain by sequence number (absent
// sorts as zero) then occurrence time.
func sortChainOrder(members []*models.AuditLogEntry) {
	sort.SliceStable(members, func(i, j int) bool {
		si, sj := members[i].Sequence(), members[j].Sequence()
		if si != sj {
			return si < sj
		}
		return members[i].OccurredAt.Before(members[j].OccurredAt)
	})
}

func anyFailure(members []*models.AuditLogEntry) bool {
	for _, e := range members {
		if e.Outcome == models.OutcomeFailure {
			return true
		}
	}
	return false
}

// timeRange computes the min/max occurrence times over the members, which
// are not necessarily in chronological order after chain-order sorting.
func timeRange(members []*models.AuditLogEntry) models.TimeRange {
	tr := models.TimeRange{Start: members[0].OccurredAt, End: members[0].OccurredAt}
	for _, e := range members[1:] {
		if e.OccurredAt.Before(tr.Start) {
			tr.Start = e.OccurredAt
		}
		if e.OccurredAt.After(tr.End) {
			tr.End = e.OccurredAt
		}
	}
	return tr
}
