package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"vigil/internal/auditlog/models"
	dErrors "vigil/pkg/domain-errors"
	platformstrings "vigil/pkg/platform/strings"
)

// parseQuery translates URL query parameters into a validated audit query.
// Bracketed list parameters accept both filter[x] and filter[x][] spellings.
func parseQuery(values url.Values) (models.Query, error) {
	q := models.DefaultQuery()

	if raw := values.Get("page[number]"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, dErrors.New(dErrors.CodeValidation, "page[number] must be an integer")
		}
		q.Page = page
	}
	if raw := values.Get("page[size]"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return q, dErrors.New(dErrors.CodeValidation, "page[size] must be an integer")
		}
		q.PageSize = size
	}
	if raw := values.Get("view[mode]"); raw != "" {
		q.ViewMode = models.ViewMode(raw)
	}
	if raw := values.Get("view[threshold]"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, dErrors.New(dErrors.CodeValidation, "view[threshold] must be an integer number of milliseconds")
		}
		q.Threshold = time.Duration(ms) * time.Millisecond
	}

	for _, v := range listParam(values, "filter[action-type]") {
		q.Filter.ActionTypes = append(q.Filter.ActionTypes, models.ActionType(v))
	}
	for _, v := range listParam(values, "filter[outcome]") {
		q.Filter.Outcomes = append(q.Filter.Outcomes, models.Outcome(v))
	}
	for _, v := range listParam(values, "filter[severity]") {
		q.Filter.Severities = append(q.Filter.Severities, models.Severity(v))
	}
	q.Filter.TargetResourceTypes = listParam(values, "filter[target-resource-type]")
	q.Filter.ActorKeys = listParam(values, "filter[actor]")

	var err error
	if q.Filter.From, err = timeParam(values, "filter[from]"); err != nil {
		return q, err
	}
	if q.Filter.To, err = timeParam(values, "filter[to]"); err != nil {
		return q, err
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// parseFilter parses only the filter portion, for the actors endpoint.
func parseFilter(values url.Values) (models.Filter, error) {
	q, err := parseQuery(values)
	if err != nil {
		return models.Filter{}, err
	}
	return q.Filter, nil
}

// listParam collects a repeatable parameter under both its plain and
// array-suffixed names, deduplicated with order preserved.
func listParam(values url.Values, name string) []string {
	raw := append(values[name], values[name+"[]"]...)
	if len(raw) == 0 {
		return nil
	}
	return platformstrings.DedupeAndTrim(raw)
}

func timeParam(values url.Values, name string) (*time.Time, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s must be an RFC 3339 timestamp", name))
	}
	return &t, nil
}
