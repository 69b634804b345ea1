package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/event"
	"github.com/lumocms/lumo-backend/internal/fieldkind"
	"github.com/lumocms/lumo-backend/internal/query"
	"github.com/lumocms/lumo-backend/internal/repository"
	"github.com/lumocms/lumo-backend/internal/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Mock ContentRepository ---

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) FindByID(schemaID uint64, id string) (*domain.ContentRecord, error) {
	args := m.Called(schemaID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentRecord), args.Error(1)
}

func (m *mockContentRepo) FindFirstBySchema(schemaID uint64) (*domain.ContentRecord, error) {
	args := m.Called(schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentRecord), args.Error(1)
}

func (m *mockContentRepo) List(params repository.ContentListParams) ([]*domain.ContentRecord, int64, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.ContentRecord), args.Get(1).(int64), args.Error(2)
}

func (m *mockContentRepo) CreateWithVersion(rec *domain.ContentRecord, snapshot domain.FieldValues) error {
	return m.Called(rec, snapshot).Error(0)
}

func (m *mockContentRepo) SaveWithVersion(rec *domain.ContentRecord, snapshot domain.FieldValues) error {
	return m.Called(rec, snapshot).Error(0)
}

func (m *mockContentRepo) Save(rec *domain.ContentRecord) error {
	return m.Called(rec).Error(0)
}

func (m *mockContentRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockContentRepo) FindVersions(contentID string) ([]*domain.ContentVersion, error) {
	args := m.Called(contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentVersion), args.Error(1)
}

func (m *mockContentRepo) FindVersion(contentID string, versionID uint64) (*domain.ContentVersion, error) {
	args := m.Called(contentID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

// --- Mock SchemaService ---

type mockSchemaService struct {
	mock.Mock
}

func (m *mockSchemaService) GetSchema(tenantID, endpoint string) (*domain.Schema, error) {
	args := m.Called(tenantID, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schema), args.Error(1)
}

// --- Recording event subscriber ---

type recordingSubscriber struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingSubscriber) Notify(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSubscriber) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		out = append(out, ev.Name)
	}
	return out
}

// --- Helpers ---

var testSchema = &domain.Schema{
	ID:       7,
	TenantID: "acme",
	Endpoint: "articles",
	Shape:    domain.SchemaShapeList,
	Fields: []domain.SchemaField{
		{FieldID: "title", Kind: "text"},
		{FieldID: "tags", Kind: "select"},
	},
}

func newService(repo *mockContentRepo, schemas *mockSchemaService, events *event.Dispatcher) ContentService {
	return NewContentService(repo, schemas, serializer.New(fieldkind.NewRegistry()), events, nil)
}

func fixedNow(t time.Time) func() {
	timeNow = func() time.Time { return t }
	return func() { timeNow = time.Now }
}

// --- Create ---

func TestCreate_PublishedSetsPublishedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	defer fixedNow(now)()

	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)
	repo.On("CreateWithVersion", mock.AnythingOfType("*domain.ContentRecord"), mock.Anything).Return(nil)

	svc := newService(repo, schemas, nil)
	out, err := svc.Create("acme", "articles", &domain.CreateContentRequest{
		Fields: domain.FieldValues{"title": "Hello"},
		Status: domain.StatusPublished,
	})

	assert.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", out["publishedAt"])
	assert.Nil(t, out["revisedAt"])
	assert.Equal(t, "Hello", out["title"])

	rec := repo.Calls[0].Arguments.Get(0).(*domain.ContentRecord)
	assert.Equal(t, domain.StatusPublished, rec.Status)
	assert.NotNil(t, rec.PublishedSnapshot)
	assert.Nil(t, rec.DraftSnapshot)
	assert.NotEmpty(t, rec.ID)
}

func TestCreate_DraftHasNoPublishedAt(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)
	repo.On("CreateWithVersion", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, schemas, nil)
	out, err := svc.Create("acme", "articles", &domain.CreateContentRequest{
		Fields: domain.FieldValues{"title": "WIP"},
		Status: domain.StatusDraft,
	})

	assert.NoError(t, err)
	assert.Nil(t, out["publishedAt"])
	assert.Equal(t, "WIP", out["title"])

	rec := repo.Calls[0].Arguments.Get(0).(*domain.ContentRecord)
	assert.Equal(t, domain.StatusDraft, rec.Status)
	assert.Nil(t, rec.PublishedSnapshot)
	assert.NotNil(t, rec.DraftSnapshot)
}

func TestCreate_DefaultStatusIsPublished(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)
	repo.On("CreateWithVersion", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Create("acme", "articles", &domain.CreateContentRequest{
		Fields: domain.FieldValues{"title": "x"},
	})

	assert.NoError(t, err)
	rec := repo.Calls[0].Arguments.Get(0).(*domain.ContentRecord)
	assert.Equal(t, domain.StatusPublished, rec.Status)
}

func TestCreate_PublishedRaisesCreatedAndPublished(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)
	repo.On("CreateWithVersion", mock.Anything, mock.Anything).Return(nil)

	sub := &recordingSubscriber{}
	events := event.NewDispatcher(16, sub)

	svc := newService(repo, schemas, events)
	_, err := svc.Create("acme", "articles", &domain.CreateContentRequest{
		Fields: domain.FieldValues{"title": "x"},
		Status: domain.StatusPublished,
	})
	events.Close()

	assert.NoError(t, err)
	assert.Equal(t, []string{event.ContentCreated, event.ContentPublished}, sub.names())
}

func TestCreate_SchemaNotFound(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "nope").Return(nil, common.ErrSchemaNotFound)

	svc := newService(repo, schemas, nil)
	_, err := svc.Create("acme", "nope", &domain.CreateContentRequest{Fields: domain.FieldValues{}})

	assert.ErrorIs(t, err, common.ErrSchemaNotFound)
}

// --- Update ---

func TestUpdate_DraftEditKeepsPublishedUntouched(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	pub := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.ContentRecord{
		ID:                "rec-1",
		SchemaID:          7,
		Status:            domain.StatusPublished,
		PublishedSnapshot: domain.FieldValues{"title": "Live"},
		PublishedAt:       &pub,
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("SaveWithVersion", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, schemas, nil)
	out, err := svc.Update("acme", "articles", "rec-1", &domain.UpdateContentRequest{
		Fields: domain.FieldValues{"title": "Edited"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Live", existing.PublishedSnapshot["title"])
	assert.Equal(t, "Edited", existing.DraftSnapshot["title"])
	assert.Equal(t, domain.StatusPublished, existing.Status)
	assert.Nil(t, existing.RevisedAt)
	// write response shows the pending edit
	assert.Equal(t, "Edited", out["title"])
}

func TestUpdate_RepublishSetsRevisedAtKeepsPublishedAt(t *testing.T) {
	later := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	defer fixedNow(later)()

	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	pub := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.ContentRecord{
		ID:                "rec-1",
		SchemaID:          7,
		Status:            domain.StatusPublished,
		PublishedSnapshot: domain.FieldValues{"title": "v1"},
		PublishedAt:       &pub,
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("SaveWithVersion", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Update("acme", "articles", "rec-1", &domain.UpdateContentRequest{
		Fields: domain.FieldValues{"title": "v2"},
		Status: domain.StatusPublished,
	})

	assert.NoError(t, err)
	assert.Equal(t, pub, *existing.PublishedAt)
	assert.Equal(t, later, *existing.RevisedAt)
	assert.Equal(t, "v2", existing.PublishedSnapshot["title"])
	assert.Nil(t, existing.DraftSnapshot)
}

func TestUpdate_FirstPublishSetsPublishedAtOnly(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	defer fixedNow(now)()

	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{
		ID:            "rec-1",
		SchemaID:      7,
		Status:        domain.StatusDraft,
		DraftSnapshot: domain.FieldValues{"title": "draft"},
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("SaveWithVersion", mock.Anything, mock.Anything).Return(nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Update("acme", "articles", "rec-1", &domain.UpdateContentRequest{
		Fields: domain.FieldValues{"title": "live"},
		Status: domain.StatusPublished,
	})

	assert.NoError(t, err)
	assert.Equal(t, now, *existing.PublishedAt)
	assert.Nil(t, existing.RevisedAt)
}

func TestUpdate_PublishRaisesUpdatedAndPublished(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{
		ID:            "rec-1",
		SchemaID:      7,
		Status:        domain.StatusDraft,
		DraftSnapshot: domain.FieldValues{"title": "draft"},
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("SaveWithVersion", mock.Anything, mock.Anything).Return(nil)

	sub := &recordingSubscriber{}
	events := event.NewDispatcher(16, sub)

	svc := newService(repo, schemas, events)
	_, err := svc.Update("acme", "articles", "rec-1", &domain.UpdateContentRequest{
		Fields: domain.FieldValues{"title": "live"},
		Status: domain.StatusPublished,
	})
	events.Close()

	assert.NoError(t, err)
	assert.Equal(t, []string{event.ContentUpdated, event.ContentPublished}, sub.names())
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)
	repo.On("FindByID", uint64(7), "missing").Return(nil, gorm.ErrRecordNotFound)

	svc := newService(repo, schemas, nil)
	_, err := svc.Update("acme", "articles", "missing", &domain.UpdateContentRequest{
		Fields: domain.FieldValues{},
	})

	assert.ErrorIs(t, err, common.ErrContentNotFound)
}

// --- Publish / Unpublish ---

func TestPublish_PromotesDraft(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	defer fixedNow(now)()

	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{
		ID:            "rec-1",
		SchemaID:      7,
		Status:        domain.StatusDraft,
		DraftSnapshot: domain.FieldValues{"title": "pending"},
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("Save", existing).Return(nil)

	svc := newService(repo, schemas, nil)
	out, err := svc.Publish("acme", "articles", "rec-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, existing.Status)
	assert.Equal(t, "pending", existing.PublishedSnapshot["title"])
	assert.Nil(t, existing.DraftSnapshot)
	assert.Equal(t, now, *existing.PublishedAt)
	assert.Equal(t, "pending", out["title"])
}

func TestPublish_WithoutDraftRepromotesPublished(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	pub := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.ContentRecord{
		ID:                "rec-1",
		SchemaID:          7,
		Status:            domain.StatusPublished,
		PublishedSnapshot: domain.FieldValues{"title": "live"},
		PublishedAt:       &pub,
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("Save", existing).Return(nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Publish("acme", "articles", "rec-1")

	assert.NoError(t, err)
	assert.Equal(t, "live", existing.PublishedSnapshot["title"])
	assert.Equal(t, pub, *existing.PublishedAt)
	assert.NotNil(t, existing.RevisedAt)
}

func TestPublish_NoPublishableData(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{ID: "rec-1", SchemaID: 7, Status: domain.StatusDraft}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Publish("acme", "articles", "rec-1")

	assert.ErrorIs(t, err, common.ErrNoPublishableData)
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUnpublish_KeepsPublishedContentAsDraftBaseline(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	pub := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rev := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.ContentRecord{
		ID:                "rec-1",
		SchemaID:          7,
		Status:            domain.StatusPublished,
		PublishedSnapshot: domain.FieldValues{"title": "live"},
		PublishedAt:       &pub,
		RevisedAt:         &rev,
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("Save", existing).Return(nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Unpublish("acme", "articles", "rec-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, existing.Status)
	assert.Nil(t, existing.PublishedSnapshot)
	assert.Equal(t, "live", existing.DraftSnapshot["title"])
	assert.Nil(t, existing.PublishedAt)
	// history is not erased
	assert.Equal(t, rev, *existing.RevisedAt)
}

func TestUnpublish_NothingPublished(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{
		ID:            "rec-1",
		SchemaID:      7,
		Status:        domain.StatusDraft,
		DraftSnapshot: domain.FieldValues{"title": "wip"},
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.Unpublish("acme", "articles", "rec-1")

	assert.ErrorIs(t, err, common.ErrNoPublishableData)
}

// --- Revert ---

func TestRevert_WritesDraftOnly(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	pub := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.ContentRecord{
		ID:                "rec-1",
		SchemaID:          7,
		Status:            domain.StatusPublished,
		PublishedSnapshot: domain.FieldValues{"title": "live"},
		PublishedAt:       &pub,
	}
	version := &domain.ContentVersion{
		ID:             42,
		ContentID:      "rec-1",
		Snapshot:       domain.FieldValues{"title": "old"},
		SequenceNumber: 3,
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("FindVersion", "rec-1", uint64(42)).Return(version, nil)
	repo.On("Save", existing).Return(nil)

	svc := newService(repo, schemas, nil)
	_, err := svc.RevertToVersion("acme", "articles", "rec-1", 42)

	assert.NoError(t, err)
	assert.Equal(t, "old", existing.DraftSnapshot["title"])
	// published surface untouched until an explicit publish
	assert.Equal(t, "live", existing.PublishedSnapshot["title"])
	assert.Equal(t, domain.StatusPublished, existing.Status)
	repo.AssertNotCalled(t, "SaveWithVersion", mock.Anything, mock.Anything)
}

func TestRevert_VersionNotFound(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{ID: "rec-1", SchemaID: 7}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("FindVersion", "rec-1", uint64(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := newService(repo, schemas, nil)
	_, err := svc.RevertToVersion("acme", "articles", "rec-1", 99)

	assert.ErrorIs(t, err, common.ErrVersionNotFound)
}

// --- Get / List ---

func TestGet_DraftHiddenWithoutDraftKey(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{
		ID:            "rec-1",
		SchemaID:      7,
		Status:        domain.StatusDraft,
		DraftSnapshot: domain.FieldValues{"title": "wip"},
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)

	svc := newService(repo, schemas, nil)

	_, err := svc.Get("acme", "articles", "rec-1", &query.Options{})
	assert.ErrorIs(t, err, common.ErrContentNotFound)

	out, err := svc.Get("acme", "articles", "rec-1", &query.Options{DraftKey: "secret"})
	assert.NoError(t, err)
	assert.Equal(t, "wip", out["title"])
}

func TestGet_ObjectShapeResolvesSoleRecord(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	objectSchema := &domain.Schema{ID: 9, Endpoint: "settings", Shape: domain.SchemaShapeObject}
	schemas.On("GetSchema", "acme", "settings").Return(objectSchema, nil)

	existing := &domain.ContentRecord{
		ID:                "rec-solo",
		SchemaID:          9,
		Status:            domain.StatusPublished,
		PublishedSnapshot: domain.FieldValues{"siteName": "Lumo"},
	}
	repo.On("FindFirstBySchema", uint64(9)).Return(existing, nil)

	svc := newService(repo, schemas, nil)
	out, err := svc.Get("acme", "settings", "", &query.Options{})

	assert.NoError(t, err)
	assert.Equal(t, "rec-solo", out["id"])
	assert.Equal(t, "Lumo", out["siteName"])
}

func TestList_PublishedOnlyForPublicView(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	records := []*domain.ContentRecord{
		{ID: "a", SchemaID: 7, Status: domain.StatusPublished, PublishedSnapshot: domain.FieldValues{"title": "A"}},
	}
	repo.On("List", mock.MatchedBy(func(p repository.ContentListParams) bool {
		return p.SchemaID == 7 && p.PublishedOnly && p.Limit == 10
	})).Return(records, int64(1), nil)

	svc := newService(repo, schemas, nil)
	items, total, err := svc.List("acme", "articles", &query.Options{Limit: 10}, false)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
	assert.Equal(t, "A", items[0]["title"])
}

func TestList_DraftViewSeesEverything(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	records := []*domain.ContentRecord{
		{ID: "a", SchemaID: 7, Status: domain.StatusDraft, DraftSnapshot: domain.FieldValues{"title": "Draft A"}},
	}
	repo.On("List", mock.MatchedBy(func(p repository.ContentListParams) bool {
		return !p.PublishedOnly
	})).Return(records, int64(1), nil)

	svc := newService(repo, schemas, nil)
	items, _, err := svc.List("acme", "articles", &query.Options{Limit: 10}, true)

	assert.NoError(t, err)
	assert.Equal(t, "Draft A", items[0]["title"])
}

func TestList_StorageErrorWrapped(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)
	repo.On("List", mock.Anything).Return(nil, int64(0), errors.New("connection refused"))

	svc := newService(repo, schemas, nil)
	_, _, err := svc.List("acme", "articles", &query.Options{Limit: 10}, false)

	assert.ErrorIs(t, err, common.ErrStorageFailure)
}

// --- Delete / Versions ---

func TestDelete_RaisesDeletedEvent(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{ID: "rec-1", SchemaID: 7, Status: domain.StatusPublished}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("Delete", "rec-1").Return(nil)

	sub := &recordingSubscriber{}
	events := event.NewDispatcher(16, sub)

	svc := newService(repo, schemas, events)
	err := svc.Delete("acme", "articles", "rec-1")
	events.Close()

	assert.NoError(t, err)
	assert.Equal(t, []string{event.ContentDeleted}, sub.names())
	repo.AssertExpectations(t)
}

func TestListVersions_NewestFirstWithoutSnapshots(t *testing.T) {
	repo := new(mockContentRepo)
	schemas := new(mockSchemaService)
	schemas.On("GetSchema", "acme", "articles").Return(testSchema, nil)

	existing := &domain.ContentRecord{ID: "rec-1", SchemaID: 7}
	versions := []*domain.ContentVersion{
		{ID: 3, ContentID: "rec-1", SequenceNumber: 3, Snapshot: domain.FieldValues{"title": "v3"}},
		{ID: 2, ContentID: "rec-1", SequenceNumber: 2, Snapshot: domain.FieldValues{"title": "v2"}},
	}
	repo.On("FindByID", uint64(7), "rec-1").Return(existing, nil)
	repo.On("FindVersions", "rec-1").Return(versions, nil)

	svc := newService(repo, schemas, nil)
	summaries, err := svc.ListVersions("acme", "articles", "rec-1")

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, uint(3), summaries[0].SequenceNumber)
	assert.Equal(t, uint(2), summaries[1].SequenceNumber)
}
