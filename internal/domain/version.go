package domain

import "time"

// ContentVersion is an immutable historical snapshot of a content record.
// SequenceNumber is strictly increasing per record, assigned as
// MAX(existing)+1 inside the transaction that appends it.
type ContentVersion struct {
	ID             uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentID      string      `gorm:"column:content_id;type:varchar(36);index" json:"content_id"`
	Snapshot       FieldValues `gorm:"column:snapshot;type:json" json:"snapshot"`
	SequenceNumber uint        `gorm:"column:sequence_number" json:"sequence_number"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_versions" }

// VersionSummary is the list representation of a version (no snapshot body)
type VersionSummary struct {
	ID             uint64    `json:"id"`
	SequenceNumber uint      `json:"sequence_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary strips the snapshot for list responses
func (v *ContentVersion) Summary() *VersionSummary {
	return &VersionSummary{
		ID:             v.ID,
		SequenceNumber: v.SequenceNumber,
		CreatedAt:      v.CreatedAt,
	}
}
