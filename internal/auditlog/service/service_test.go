package service

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks EventStore,ActorResolver

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vigil/internal/actors"
	"vigil/internal/auditlog/models"
	"vigil/internal/auditlog/service/mocks"
	dErrors "vigil/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockStore    *mocks.MockEventStore
	mockResolver *mocks.MockActorResolver
	service      *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockEventStore(s.ctrl)
	s.mockResolver = mocks.NewMockActorResolver(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service, _ = New(s.mockStore, s.mockResolver, WithLogger(logger))
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

var (
	testScope = actors.Scope{OperatorID: "github:op"}
	testTime  = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
)

func (s *ServiceSuite) newEntry(correlationID string, offset time.Duration) *models.AuditLogEntry {
	return &models.AuditLogEntry{
		ID:             uuid.New(),
		ActorProvider:  "github",
		ActorProfileID: "alice",
		ActionType:     models.ActionDataMutation,
		Severity:       models.SeverityInfo,
		Outcome:        models.OutcomeSuccess,
		OccurredAt:     testTime.Add(offset),
		CorrelationID:  correlationID,
	}
}

func (s *ServiceSuite) expectUniverse(keys []string) {
	s.mockStore.EXPECT().ListActorKeys(gomock.Any(), gomock.Any()).Return(keys, nil)
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, keys).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{}})
}

func (s *ServiceSuite) TestView_FlatOverfetchSignalsMore() {
	q := models.DefaultQuery()
	q.PageSize = 2

	overfetched := []*models.AuditLogEntry{
		s.newEntry("c1", 2*time.Second),
		s.newEntry("c2", time.Second),
		s.newEntry("c3", 0),
	}
	s.mockStore.EXPECT().ListEntries(gomock.Any(), q.Filter, 3, 0).Return(overfetched, nil)
	s.expectUniverse([]string{"github:alice"})
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string{"github:alice"}).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{}})

	view, err := s.service.View(context.Background(), testScope, q)
	s.Require().NoError(err)

	s.Len(view.Entries, 2)
	s.True(view.Page.HasMore)
	s.Equal(models.ViewFlat, view.ViewMode)
	s.Empty(view.Groups)
	s.Empty(view.ActivityGroups)
}

func (s *ServiceSuite) TestView_FlatLastPage() {
	q := models.DefaultQuery()
	q.PageSize = 5

	s.mockStore.EXPECT().ListEntries(gomock.Any(), q.Filter, 6, 0).
		Return([]*models.AuditLogEntry{s.newEntry("c1", 0)}, nil)
	s.expectUniverse([]string{"github:alice"})
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string{"github:alice"}).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{}})

	view, err := s.service.View(context.Background(), testScope, q)
	s.Require().NoError(err)
	s.Len(view.Entries, 1)
	s.False(view.Page.HasMore)
}

func (s *ServiceSuite) TestView_GroupedTwoPhaseFetch() {
	q := models.DefaultQuery()
	q.ViewMode = models.ViewGrouped
	q.PageSize = 2
	q.Page = 1

	s.mockStore.EXPECT().ListCorrelationKeys(gomock.Any(), q.Filter, 3, 0).
		Return([]string{"c2", "c1", "c0"}, nil)
	s.mockStore.EXPECT().ListEntriesByCorrelation(gomock.Any(), q.Filter, []string{"c2", "c1"}).
		Return([]*models.AuditLogEntry{
			s.newEntry("c1", 0),
			s.newEntry("c2", time.Second),
		}, nil)
	s.expectUniverse([]string{"github:alice"})
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string{"github:alice"}).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{}})

	view, err := s.service.View(context.Background(), testScope, q)
	s.Require().NoError(err)

	s.Require().Len(view.Groups, 2)
	s.True(view.Page.HasMore)
	s.Equal("c2", view.Groups[0].CorrelationID)
	s.Equal("c1", view.Groups[1].CorrelationID)
}

func (s *ServiceSuite) TestView_GroupedEmptyPage() {
	q := models.DefaultQuery()
	q.ViewMode = models.ViewGrouped
	q.Page = 7

	s.mockStore.EXPECT().ListCorrelationKeys(gomock.Any(), q.Filter, 21, 120).
		Return(nil, nil)
	s.expectUniverse(nil)
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string(nil)).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{}})

	view, err := s.service.View(context.Background(), testScope, q)
	s.Require().NoError(err)

	s.Empty(view.Groups)
	s.NotNil(view.Groups)
	s.False(view.Page.HasMore)
}

func (s *ServiceSuite) TestView_ActivityGroupsAndSlices() {
	q := models.DefaultQuery()
	q.ViewMode = models.ViewActivity
	q.PageSize = 1
	q.Threshold = time.Second

	// Two entries beyond the threshold gap yield two sessions.
	s.mockStore.EXPECT().BulkListEntries(gomock.Any(), q.Filter, DefaultActivityScanCap).
		Return([]*models.AuditLogEntry{
			s.newEntry("c1", 0),
			s.newEntry("c2", 10*time.Second),
		}, nil)
	s.expectUniverse([]string{"github:alice"})
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string{"github:alice"}).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{}})

	view, err := s.service.View(context.Background(), testScope, q)
	s.Require().NoError(err)

	s.Require().Len(view.ActivityGroups, 1)
	s.True(view.Page.HasMore)
	s.Equal(q.Threshold, view.Threshold)
	// Newest session first.
	s.Equal("c2", view.ActivityGroups[0].CorrelationIDs[0])
}

func (s *ServiceSuite) TestView_ValidationRejectedBeforeAnyFetch() {
	q := models.DefaultQuery()
	q.PageSize = 0

	_, err := s.service.View(context.Background(), testScope, q)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestView_StoreErrorWrappedAsInternal() {
	q := models.DefaultQuery()

	s.mockStore.EXPECT().ListEntries(gomock.Any(), q.Filter, 21, 0).
		Return(nil, context.DeadlineExceeded)
	s.mockStore.EXPECT().ListActorKeys(gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	s.mockResolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(actors.Resolution{}).AnyTimes()

	_, err := s.service.View(context.Background(), testScope, q)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestView_PageActorsResolvedFromPageEntriesOnly() {
	q := models.DefaultQuery()

	bob := s.newEntry("c1", 0)
	bob.ActorProfileID = "bob"
	s.mockStore.EXPECT().ListEntries(gomock.Any(), q.Filter, 21, 0).
		Return([]*models.AuditLogEntry{bob}, nil)

	// The universe holds more actors than the page shows.
	s.expectUniverse([]string{"github:alice", "github:bob", models.AnonymousActorKey})
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string{"github:bob"}).
		Return(actors.Resolution{Actors: map[string]actors.ResolvedActor{
			"github:bob": {ProfileID: "bob", Provider: "github", DisplayName: "Bob B"},
		}})

	view, err := s.service.View(context.Background(), testScope, q)
	s.Require().NoError(err)
	s.Equal("Bob B", view.Actors.Actors["github:bob"].DisplayName)
}

func (s *ServiceSuite) TestActorUniverse() {
	filter := models.Filter{Severities: []models.Severity{models.SeverityError}}

	s.mockStore.EXPECT().ListActorKeys(gomock.Any(), filter).
		Return([]string{"github:alice"}, nil)
	s.mockResolver.EXPECT().Resolve(gomock.Any(), testScope, []string{"github:alice"}).
		Return(actors.Resolution{
			Actors:   map[string]actors.ResolvedActor{"github:alice": {DisplayName: "Alice A"}},
			Degraded: true,
		})

	res, err := s.service.ActorUniverse(context.Background(), testScope, filter)
	s.Require().NoError(err)
	s.True(res.Degraded)
	s.Equal("Alice A", res.Actors["github:alice"].DisplayName)
}

func (s *ServiceSuite) TestActorUniverse_StoreError() {
	s.mockStore.EXPECT().ListActorKeys(gomock.Any(), gomock.Any()).
		Return(nil, context.DeadlineExceeded)

	_, err := s.service.ActorUniverse(context.Background(), testScope, models.Filter{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestNew_NilGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	if _, err := New(nil, mocks.NewMockActorResolver(ctrl)); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(mocks.NewMockEventStore(ctrl), nil); err == nil {
		t.Fatal("expected error for nil resolver")
	}
}
