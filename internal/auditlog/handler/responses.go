package handler

import (
	"time"

	"vigil/internal/actors"
	"vigil/internal/auditlog/models"
	"vigil/internal/auditlog/paging"
	"vigil/internal/auditlog/service"
	"vigil/pkg/platform/device"
)

// viewResponse is the envelope for the audit trail endpoint. Exactly one of
// entries, groups, or activityGroups is present, matching viewMode.
type viewResponse struct {
	ViewMode    models.ViewMode `json:"viewMode"`
	ThresholdMs int64           `json:"thresholdMs,omitempty"`

	Entries        []entryResponse         `json:"entries,omitempty"`
	Groups         []groupResponse         `json:"groups,omitempty"`
	ActivityGroups []activityGroupResponse `json:"activityGroups,omitempty"`

	Pagination paging.Page `json:"pagination"`

	Actors    actorsResponse `json:"actors"`
	AllActors actorsResponse `json:"allActors"`
}

type entryResponse struct {
	ID                 string            `json:"id"`
	ActorProfileID     string            `json:"actorProfileId,omitempty"`
	ActorProvider      string            `json:"actorProvider,omitempty"`
	ActionType         models.ActionType `json:"actionType"`
	ActionDescription  string            `json:"actionDescription"`
	Severity           models.Severity   `json:"severity"`
	TargetResourceType string            `json:"targetResourceType,omitempty"`
	TargetResourceID   string            `json:"targetResourceId,omitempty"`
	Outcome            models.Outcome    `json:"outcome"`
	OccurredAt         time.Time         `json:"occurredAt"`
	CorrelationID      string            `json:"correlationId"`
	SessionID          string            `json:"sessionId,omitempty"`
	RequestID          string            `json:"requestId,omitempty"`
	SequenceNumber     *int64            `json:"sequenceNumber,omitempty"`
	RequestPath        string            `json:"requestPath,omitempty"`
	RequestMethod      string            `json:"requestMethod,omitempty"`
	IPAddress          string            `json:"ipAddress,omitempty"`
	UserAgent          string            `json:"userAgent,omitempty"`
	DeviceSummary      string            `json:"deviceSummary,omitempty"`
	DurationMs         *int64            `json:"durationMs,omitempty"`
	ParentEventID      string            `json:"parentEventId,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type groupResponse struct {
	CorrelationID   string           `json:"correlationId"`
	PrimaryEvent    entryResponse    `json:"primaryEvent"`
	EventCount      int              `json:"eventCount"`
	Events          []entryResponse  `json:"events"`
	HasFailure      bool             `json:"hasFailure"`
	HighestSeverity models.Severity  `json:"highestSeverity"`
	TimeRange       models.TimeRange `json:"timeRange"`
}

type activityGroupResponse struct {
	GroupKey        string           `json:"groupKey"`
	ActorProfileID  string           `json:"actorProfileId,omitempty"`
	ActorProvider   string           `json:"actorProvider,omitempty"`
	CorrelationIDs  []string         `json:"correlationIds"`
	PrimaryEvent    entryResponse    `json:"primaryEvent"`
	EventCount      int              `json:"eventCount"`
	Events          []entryResponse  `json:"events"`
	HasFailure      bool             `json:"hasFailure"`
	HighestSeverity models.Severity  `json:"highestSeverity"`
	TimeRange       models.TimeRange `json:"timeRange"`
}

// actorsResponse carries a resolved identity map plus the explicit degraded
// flag, so clients can distinguish fallback identifiers from real profiles.
type actorsResponse struct {
	Actors   map[string]actors.ResolvedActor `json:"actors"`
	Degraded bool                            `json:"degraded"`
}

func toViewResponse(view *service.View) viewResponse {
	resp := viewResponse{
		ViewMode:   view.ViewMode,
		Pagination: view.Page,
		Actors:     toActorsResponse(view.Actors),
		AllActors:  toActorsResponse(view.AllActors),
	}
	if view.ViewMode == models.ViewActivity {
		resp.ThresholdMs = view.Threshold.Milliseconds()
	}

	switch view.ViewMode {
	case models.ViewFlat:
		resp.Entries = toEntryResponses(view.Entries)
		if resp.Entries == nil {
			resp.Entries = []entryResponse{}
		}
	case models.ViewGrouped:
		resp.Groups = make([]groupResponse, 0, len(view.Groups))
		for _, g := range view.Groups {
			resp.Groups = append(resp.Groups, groupResponse{
				CorrelationID:   g.CorrelationID,
				PrimaryEvent:    toEntryResponse(g.PrimaryEvent),
				EventCount:      g.EventCount,
				Events:          toEntryResponses(g.Events),
				HasFailure:      g.HasFailure,
				HighestSeverity: g.HighestSeverity,
				TimeRange:       g.TimeRange,
			})
		}
	case models.ViewActivity:
		resp.ActivityGroups = make([]activityGroupResponse, 0, len(view.ActivityGroups))
		for _, g := range view.ActivityGroups {
			resp.ActivityGroups = append(resp.ActivityGroups, activityGroupResponse{
				GroupKey:        g.GroupKey,
				ActorProfileID:  g.ActorProfileID,
				ActorProvider:   g.ActorProvider,
				CorrelationIDs:  g.CorrelationIDs,
				PrimaryEvent:    toEntryResponse(g.PrimaryEvent),
				EventCount:      g.EventCount,
				Events:          toEntryResponses(g.Events),
				HasFailure:      g.HasFailure,
				HighestSeverity: g.HighestSeverity,
				TimeRange:       g.TimeRange,
			})
		}
	}
	return resp
}

func toEntryResponses(entries []*models.AuditLogEntry) []entryResponse {
	if entries == nil {
		return nil
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func toEntryResponse(e *models.AuditLogEntry) entryResponse {
	resp := entryResponse{
		ID:                 e.ID.String(),
		ActorProfileID:     e.ActorProfileID,
		ActorProvider:      e.ActorProvider,
		ActionType:         e.ActionType,
		ActionDescription:  e.ActionDescription,
		Severity:           e.Severity,
		TargetResourceType: e.TargetResourceType,
		TargetResourceID:   e.TargetResourceID,
		Outcome:            e.Outcome,
		OccurredAt:         e.OccurredAt,
		CorrelationID:      e.CorrelationID,
		SessionID:          e.SessionID,
		RequestID:          e.RequestID,
		SequenceNumber:     e.SequenceNumber,
		RequestPath:        e.RequestPath,
		RequestMethod:      e.RequestMethod,
		IPAddress:          e.IPAddress,
		UserAgent:          e.UserAgent,
		DurationMs:         e.DurationMs,
		Metadata:           e.Metadata,
	}
	if e.UserAgent != "" {
		resp.DeviceSummary = device.Summarize(e.UserAgent)
	}
	if e.ParentEventID != nil {
		resp.ParentEventID = e.ParentEventID.String()
	}
	return resp
}

func toActorsResponse(r actors.Resolution) actorsResponse {
	resp := actorsResponse{Actors: r.Actors, Degraded: r.Degraded}
	if resp.Actors == nil {
		resp.Actors = map[string]actors.ResolvedActor{}
	}
	return resp
}
