package domain

import "time"

// Content statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ContentRecord is one item of structured data conforming to a schema.
// Draft and published snapshots are independent; both may be populated
// at once (published content with pending unpublished edits).
// After creation at least one snapshot is non-nil.
type ContentRecord struct {
	ID                string      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SchemaID          uint64      `gorm:"column:schema_id;index" json:"schema_id"`
	OwnerID           string      `gorm:"column:owner_id;type:varchar(64)" json:"owner_id"`
	PublishedSnapshot FieldValues `gorm:"column:published_snapshot;type:json" json:"published_snapshot,omitempty"`
	DraftSnapshot     FieldValues `gorm:"column:draft_snapshot;type:json" json:"draft_snapshot,omitempty"`
	Status            string      `gorm:"column:status;type:enum('draft','published');default:'draft'" json:"status"`
	PublishedAt       *time.Time  `gorm:"column:published_at" json:"published_at,omitempty"`
	RevisedAt         *time.Time  `gorm:"column:revised_at" json:"revised_at,omitempty"`
	CreatedAt         time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentRecord) TableName() string { return "content_records" }

// CreateContentRequest create payload
type CreateContentRequest struct {
	Fields FieldValues `json:"fields" binding:"required"`
	Status string      `json:"status" binding:"omitempty,oneof=draft published"`
}

// UpdateContentRequest update payload. Status is optional; "published"
// triggers a publish transition, "draft" keeps the edit unpublished.
type UpdateContentRequest struct {
	Fields FieldValues `json:"fields" binding:"required"`
	Status string      `json:"status" binding:"omitempty,oneof=draft published"`
}
