package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dErrors "vigil/pkg/domain-errors"
)

func TestDefaultQuery(t *testing.T) {
	q := DefaultQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, PageSizeDefault, q.PageSize)
	assert.Equal(t, ViewFlat, q.ViewMode)
	assert.Equal(t, ThresholdDefault, q.Threshold)
	assert.NoError(t, q.Validate())
}

func TestQueryOffset(t *testing.T) {
	q := Query{Page: 3, PageSize: 20}
	assert.Equal(t, 40, q.Offset())

	q = Query{Page: 1, PageSize: 20}
	assert.Equal(t, 0, q.Offset())
}

func TestQueryValidate(t *testing.T) {
	from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*Query)
	}{
		{"zero page", func(q *Query) { q.Page = 0 }},
		{"negative page", func(q *Query) { q.Page = -1 }},
		{"page size below minimum", func(q *Query) { q.PageSize = 0 }},
		{"page size above maximum", func(q *Query) { q.PageSize = PageSizeMax + 1 }},
		{"unknown view mode", func(q *Query) { q.ViewMode = "nested" }},
		{"threshold below minimum", func(q *Query) { q.Threshold = 0 }},
		{"threshold above maximum", func(q *Query) { q.Threshold = ThresholdMax + time.Millisecond }},
		{"unknown action type", func(q *Query) { q.Filter.ActionTypes = []ActionType{"sabotage"} }},
		{"unknown outcome", func(q *Query) { q.Filter.Outcomes = []Outcome{"maybe"} }},
		{"unknown severity", func(q *Query) { q.Filter.Severities = []Severity{"fatal"} }},
		{"malformed actor key", func(q *Query) { q.Filter.ActorKeys = []string{"no-separator"} }},
		{"inverted time window", func(q *Query) { q.Filter.From, q.Filter.To = &from, &to }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := DefaultQuery()
			tt.mutate(&q)
			err := q.Validate()
			assert.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestQueryValidate_AcceptsFullValidQuery(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	q := Query{
		Filter: Filter{
			ActionTypes:         []ActionType{ActionAuthentication, ActionDataMutation},
			Outcomes:            []Outcome{OutcomeFailure},
			Severities:          []Severity{SeverityError, SeverityCritical},
			TargetResourceTypes: []string{"client"},
			ActorKeys:           []string{"github:alice", AnonymousActorKey},
			From:                &from,
			To:                  &to,
		},
		Page:      2,
		PageSize:  50,
		ViewMode:  ViewActivity,
		Threshold: 30 * time.Second,
	}
	assert.NoError(t, q.Validate())
}

func TestQueryValidate_BoundsAreInclusive(t *testing.T) {
	q := DefaultQuery()
	q.PageSize = PageSizeMin
	q.Threshold = ThresholdMin
	assert.NoError(t, q.Validate())

	q.PageSize = PageSizeMax
	q.Threshold = ThresholdMax
	assert.NoError(t, q.Validate())
}
