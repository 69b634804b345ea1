package repository

import (
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/filter"
	"github.com/lumocms/lumo-backend/internal/query"
	"gorm.io/gorm"
)

// ContentListParams bound parameters for a list query
type ContentListParams struct {
	SchemaID      uint64
	Condition     *filter.Condition
	PublishedOnly bool
	IDs           []string
	Limit         int
	Offset        int
	Orders        []query.Order
}

// ContentRepository content record and version data access
type ContentRepository interface {
	FindByID(schemaID uint64, id string) (*domain.ContentRecord, error)
	FindFirstBySchema(schemaID uint64) (*domain.ContentRecord, error)
	List(params ContentListParams) ([]*domain.ContentRecord, int64, error)
	CreateWithVersion(rec *domain.ContentRecord, snapshot domain.FieldValues) error
	SaveWithVersion(rec *domain.ContentRecord, snapshot domain.FieldValues) error
	Save(rec *domain.ContentRecord) error
	Delete(id string) error
	FindVersions(contentID string) ([]*domain.ContentVersion, error)
	FindVersion(contentID string, versionID uint64) (*domain.ContentVersion, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) FindByID(schemaID uint64, id string) (*domain.ContentRecord, error) {
	var rec domain.ContentRecord
	err := r.db.Where("schema_id = ? AND id = ?", schemaID, id).First(&rec).Error
	return &rec, err
}

func (r *contentRepository) FindFirstBySchema(schemaID uint64) (*domain.ContentRecord, error) {
	var rec domain.ContentRecord
	err := r.db.Where("schema_id = ?", schemaID).Order("created_at ASC").First(&rec).Error
	return &rec, err
}

func (r *contentRepository) List(p ContentListParams) ([]*domain.ContentRecord, int64, error) {
	q := r.db.Model(&domain.ContentRecord{}).Where("schema_id = ?", p.SchemaID)
	if p.PublishedOnly {
		q = q.Where("status = ?", domain.StatusPublished)
	}
	if len(p.IDs) > 0 {
		q = q.Where("id IN ?", p.IDs)
	}
	if p.Condition != nil {
		q = q.Where(p.Condition.Query, p.Condition.Args...)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, o := range p.Orders {
		// column names come from the resolver's fixed map, never from input
		if o.Desc {
			q = q.Order(o.Column + " DESC")
		} else {
			q = q.Order(o.Column + " ASC")
		}
	}

	var records []*domain.ContentRecord
	if err := q.Offset(p.Offset).Limit(p.Limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CreateWithVersion inserts the record and its first version atomically
func (r *contentRepository) CreateWithVersion(rec *domain.ContentRecord, snapshot domain.FieldValues) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return appendVersion(tx, rec.ID, snapshot)
	})
}

// SaveWithVersion persists the record state and appends a version in
// one transaction so a crash can never leave the pair half-written
func (r *contentRepository) SaveWithVersion(rec *domain.ContentRecord, snapshot domain.FieldValues) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		return appendVersion(tx, rec.ID, snapshot)
	})
}

func (r *contentRepository) Save(rec *domain.ContentRecord) error {
	return r.db.Save(rec).Error
}

// Delete removes the record and cascades to its versions
func (r *contentRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&domain.ContentVersion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.ContentRecord{}).Error
	})
}

func (r *contentRepository) FindVersions(contentID string) ([]*domain.ContentVersion, error) {
	var versions []*domain.ContentVersion
	err := r.db.Where("content_id = ?", contentID).Order("sequence_number DESC").Find(&versions).Error
	return versions, err
}

func (r *contentRepository) FindVersion(contentID string, versionID uint64) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	err := r.db.Where("content_id = ? AND id = ?", contentID, versionID).First(&version).Error
	return &version, err
}

// appendVersion assigns MAX(sequence_number)+1 inside the caller's
// transaction, so numbers stay strictly increasing under races
func appendVersion(tx *gorm.DB, contentID string, snapshot domain.FieldValues) error {
	seq, err := nextSequence(tx, contentID)
	if err != nil {
		return err
	}
	return tx.Create(&domain.ContentVersion{
		ContentID:      contentID,
		Snapshot:       snapshot,
		SequenceNumber: seq,
	}).Error
}

func nextSequence(tx *gorm.DB, contentID string) (uint, error) {
	var maxSeq *uint
	err := tx.Model(&domain.ContentVersion{}).
		Where("content_id = ?", contentID).
		Select("MAX(sequence_number)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	if maxSeq == nil {
		return 1, nil
	}
	return *maxSeq + 1, nil
}
