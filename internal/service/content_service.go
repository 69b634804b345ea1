package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/event"
	"github.com/lumocms/lumo-backend/internal/filter"
	"github.com/lumocms/lumo-backend/internal/query"
	"github.com/lumocms/lumo-backend/internal/repository"
	"github.com/lumocms/lumo-backend/internal/serializer"
	"github.com/lumocms/lumo-backend/pkg/cache"
	"gorm.io/gorm"
)

// overridable in tests
var timeNow = time.Now

// ContentService owns the content record lifecycle: list/get reads and
// the draft/published state machine for writes
type ContentService interface {
	List(tenantID, endpoint string, opts *query.Options, draftView bool) ([]serializer.SerializedRecord, int64, error)
	Get(tenantID, endpoint, id string, opts *query.Options) (serializer.SerializedRecord, error)
	Create(tenantID, endpoint string, req *domain.CreateContentRequest) (serializer.SerializedRecord, error)
	Update(tenantID, endpoint, id string, req *domain.UpdateContentRequest) (serializer.SerializedRecord, error)
	Publish(tenantID, endpoint, id string) (serializer.SerializedRecord, error)
	Unpublish(tenantID, endpoint, id string) (serializer.SerializedRecord, error)
	Delete(tenantID, endpoint, id string) error
	RevertToVersion(tenantID, endpoint, id string, versionID uint64) (serializer.SerializedRecord, error)
	ListVersions(tenantID, endpoint, id string) ([]*domain.VersionSummary, error)
	GetVersion(tenantID, endpoint, id string, versionID uint64) (*domain.ContentVersion, error)
}

type contentService struct {
	repo    repository.ContentRepository
	schemas SchemaService
	ser     *serializer.Serializer
	events  *event.Dispatcher
	cache   cache.Service
}

// NewContentService creates a new ContentService
func NewContentService(
	repo repository.ContentRepository,
	schemas SchemaService,
	ser *serializer.Serializer,
	events *event.Dispatcher,
	cacheSvc cache.Service,
) ContentService {
	return &contentService{
		repo:    repo,
		schemas: schemas,
		ser:     ser,
		events:  events,
		cache:   cacheSvc,
	}
}

// cachedList is the cache representation of one list page
type cachedList struct {
	Items []serializer.SerializedRecord `json:"items"`
	Total int64                         `json:"total"`
}

// List returns one page of serialized records plus the total count.
// The public view is restricted to published records; the draft view
// (management path) sees everything with pending edits preferred.
func (s *contentService) List(tenantID, endpoint string, opts *query.Options, draftView bool) ([]serializer.SerializedRecord, int64, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, 0, err
	}

	cacheable := !draftView && s.cache != nil && s.cache.IsAvailable()
	scope := cacheScope(tenantID, endpoint)
	queryHash := hashOptions(opts)
	if cacheable {
		if data, err := s.cache.GetList(context.Background(), scope, queryHash); err == nil {
			var cached cachedList
			if jsonErr := decodeCached(data, &cached); jsonErr == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	cond := filter.NewCompiler(draftView).Compile(opts.FilterGroups)
	records, total, err := s.repo.List(repository.ContentListParams{
		SchemaID:      schema.ID,
		Condition:     cond,
		PublishedOnly: !draftView,
		IDs:           opts.IDs,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
		Orders:        opts.Orders,
	})
	if err != nil {
		return nil, 0, common.WrapStorage(err)
	}

	items := make([]serializer.SerializedRecord, len(records))
	for i, rec := range records {
		items[i] = s.ser.Serialize(rec, schema.Fields, opts.Fields, draftView)
	}

	if cacheable {
		_ = s.cache.SetList(context.Background(), scope, queryHash, cachedList{Items: items, Total: total})
	}
	return items, total, nil
}

// Get returns a single serialized record. An empty id on an
// object-shaped schema resolves to the sole record. A draftKey selects
// the draft view; without it only published content is visible.
func (s *contentService) Get(tenantID, endpoint, id string, opts *query.Options) (serializer.SerializedRecord, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	draftView := opts != nil && opts.DraftKey != ""
	var selection []string
	if opts != nil {
		selection = opts.Fields
	}

	// the full published projection is cached per tenant; draft views
	// and field-selected responses always hit storage
	cacheable := !draftView && id != "" && len(selection) == 0 &&
		s.cache != nil && s.cache.IsAvailable()
	scope := cacheScope(tenantID, endpoint)
	if cacheable {
		if data, err := s.cache.GetContent(context.Background(), scope, id); err == nil {
			var cached serializer.SerializedRecord
			if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
				return cached, nil
			}
		}
	}

	var rec *domain.ContentRecord
	if id == "" && schema.Shape == domain.SchemaShapeObject {
		rec, err = s.repo.FindFirstBySchema(schema.ID)
	} else {
		rec, err = s.repo.FindByID(schema.ID, id)
	}
	if err != nil {
		return nil, mapContentErr(err)
	}

	if !draftView && rec.Status != domain.StatusPublished {
		return nil, common.ErrContentNotFound
	}

	out := s.ser.Serialize(rec, schema.Fields, selection, draftView)
	if cacheable {
		_ = s.cache.SetContent(context.Background(), scope, id, out)
	}
	return out, nil
}

// Create initializes a record in the requested status (published when
// unspecified) and appends version 1 with the submitted payload
func (s *contentService) Create(tenantID, endpoint string, req *domain.CreateContentRequest) (serializer.SerializedRecord, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPublished
	}

	now := timeNow().UTC()
	rec := &domain.ContentRecord{
		ID:       uuid.NewString(),
		SchemaID: schema.ID,
		Status:   status,
	}
	if status == domain.StatusPublished {
		rec.PublishedSnapshot = req.Fields
		rec.PublishedAt = &now
	} else {
		rec.DraftSnapshot = req.Fields
	}

	if err := s.repo.CreateWithVersion(rec, req.Fields); err != nil {
		return nil, common.WrapStorage(err)
	}

	s.dispatch(event.ContentCreated, rec)
	if status == domain.StatusPublished {
		s.dispatch(event.ContentPublished, rec)
	}
	s.invalidate(tenantID, endpoint, rec.ID)

	return s.ser.Serialize(rec, schema.Fields, nil, true), nil
}

// Update applies a new payload. With status "published" this is a
// publish transition; otherwise the edit lands in the draft snapshot
// and the published one stays untouched. A version is always appended.
func (s *contentService) Update(tenantID, endpoint, id string, req *domain.UpdateContentRequest) (serializer.SerializedRecord, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return nil, mapContentErr(err)
	}

	publishing := req.Status == domain.StatusPublished
	if publishing {
		rec.PublishedSnapshot = req.Fields
		rec.DraftSnapshot = nil
		rec.Status = domain.StatusPublished
		s.stampPublish(rec)
	} else {
		rec.DraftSnapshot = req.Fields
		if req.Status != "" {
			rec.Status = req.Status
		}
	}

	if err := s.repo.SaveWithVersion(rec, req.Fields); err != nil {
		return nil, common.WrapStorage(err)
	}

	s.dispatch(event.ContentUpdated, rec)
	if publishing {
		s.dispatch(event.ContentPublished, rec)
	}
	s.invalidate(tenantID, endpoint, rec.ID)

	return s.ser.Serialize(rec, schema.Fields, nil, true), nil
}

// Publish promotes the pending draft (or re-promotes the published
// snapshot when no draft is pending). Fails when there is nothing to
// publish.
func (s *contentService) Publish(tenantID, endpoint, id string) (serializer.SerializedRecord, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return nil, mapContentErr(err)
	}

	source := rec.DraftSnapshot
	if source == nil {
		source = rec.PublishedSnapshot
	}
	if source == nil {
		return nil, common.ErrNoPublishableData
	}

	rec.PublishedSnapshot = source
	rec.DraftSnapshot = nil
	rec.Status = domain.StatusPublished
	s.stampPublish(rec)

	if err := s.repo.Save(rec); err != nil {
		return nil, common.WrapStorage(err)
	}

	s.dispatch(event.ContentPublished, rec)
	s.invalidate(tenantID, endpoint, rec.ID)

	return s.ser.Serialize(rec, schema.Fields, nil, false), nil
}

// Unpublish takes the record off the public surface. The last
// published content becomes the new draft baseline; revision history
// is not erased.
func (s *contentService) Unpublish(tenantID, endpoint, id string) (serializer.SerializedRecord, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return nil, mapContentErr(err)
	}
	if rec.PublishedSnapshot == nil {
		return nil, common.ErrNoPublishableData
	}

	rec.DraftSnapshot = rec.PublishedSnapshot
	rec.PublishedSnapshot = nil
	rec.Status = domain.StatusDraft
	rec.PublishedAt = nil

	if err := s.repo.Save(rec); err != nil {
		return nil, common.WrapStorage(err)
	}

	s.dispatch(event.ContentUnpublished, rec)
	s.invalidate(tenantID, endpoint, rec.ID)

	return s.ser.Serialize(rec, schema.Fields, nil, true), nil
}

// Delete removes the record and all of its versions
func (s *contentService) Delete(tenantID, endpoint, id string) error {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return mapContentErr(err)
	}

	if err := s.repo.Delete(rec.ID); err != nil {
		return common.WrapStorage(err)
	}

	s.dispatch(event.ContentDeleted, rec)
	s.invalidate(tenantID, endpoint, rec.ID)
	return nil
}

// RevertToVersion copies a historical snapshot into the draft snapshot
// only; making it public again requires an explicit publish
func (s *contentService) RevertToVersion(tenantID, endpoint, id string, versionID uint64) (serializer.SerializedRecord, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return nil, mapContentErr(err)
	}

	version, err := s.repo.FindVersion(rec.ID, versionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrVersionNotFound
	}
	if err != nil {
		return nil, common.WrapStorage(err)
	}

	rec.DraftSnapshot = version.Snapshot
	if err := s.repo.Save(rec); err != nil {
		return nil, common.WrapStorage(err)
	}

	return s.ser.Serialize(rec, schema.Fields, nil, true), nil
}

// ListVersions returns the record's version history, newest first,
// without snapshot bodies
func (s *contentService) ListVersions(tenantID, endpoint, id string) ([]*domain.VersionSummary, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return nil, mapContentErr(err)
	}

	versions, err := s.repo.FindVersions(rec.ID)
	if err != nil {
		return nil, common.WrapStorage(err)
	}

	summaries := make([]*domain.VersionSummary, len(versions))
	for i, v := range versions {
		summaries[i] = v.Summary()
	}
	return summaries, nil
}

// GetVersion returns one historical version with its snapshot
func (s *contentService) GetVersion(tenantID, endpoint, id string, versionID uint64) (*domain.ContentVersion, error) {
	schema, err := s.schemas.GetSchema(tenantID, endpoint)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.FindByID(schema.ID, id)
	if err != nil {
		return nil, mapContentErr(err)
	}

	version, err := s.repo.FindVersion(rec.ID, versionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrVersionNotFound
	}
	if err != nil {
		return nil, common.WrapStorage(err)
	}
	return version, nil
}

// stampPublish applies the publishedAt/revisedAt rule: first publish
// sets publishedAt, a republish keeps it and stamps revisedAt
func (s *contentService) stampPublish(rec *domain.ContentRecord) {
	now := timeNow().UTC()
	if rec.PublishedAt == nil {
		rec.PublishedAt = &now
	} else {
		rec.RevisedAt = &now
	}
}

func (s *contentService) dispatch(name string, rec *domain.ContentRecord) {
	if s.events == nil {
		return
	}
	s.events.Dispatch(name, rec.ID, rec.SchemaID, rec.Status)
}

func (s *contentService) invalidate(tenantID, endpoint, contentID string) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	scope := cacheScope(tenantID, endpoint)
	_ = s.cache.InvalidateContent(ctx, scope, contentID)
	_ = s.cache.InvalidateLists(ctx, scope)
}

// cacheScope qualifies cache keys by tenant. Endpoint slugs are only
// unique per tenant, so a bare endpoint key would let one tenant read
// another's cached responses.
func cacheScope(tenantID, endpoint string) string {
	return tenantID + ":" + endpoint
}

func mapContentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrContentNotFound
	}
	return common.WrapStorage(err)
}

// hashOptions builds a stable cache key suffix from list options
func hashOptions(opts *query.Options) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%v|%v|%v|%v", opts.Limit, opts.Offset, opts.Orders, opts.Fields, opts.IDs, opts.FilterGroups)
	return fmt.Sprintf("%x", h.Sum64())
}

func decodeCached(data []byte, dest *cachedList) error {
	return json.Unmarshal(data, dest)
}
