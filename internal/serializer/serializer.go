package serializer

import (
	"time"

	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/fieldkind"
)

// SerializedRecord is the client-facing shape of a content record:
// system fields plus the normalized user fields.
type SerializedRecord map[string]interface{}

// System field keys, always present in serialized output
const (
	keyID          = "id"
	keyCreatedAt   = "createdAt"
	keyUpdatedAt   = "updatedAt"
	keyPublishedAt = "publishedAt"
	keyRevisedAt   = "revisedAt"
)

// Serializer projects stored snapshots into the public representation
// using field kind metadata. It never mutates the record.
type Serializer struct {
	kinds *fieldkind.Registry
}

// New creates a serializer over the given kind registry
func New(kinds *fieldkind.Registry) *Serializer {
	return &Serializer{kinds: kinds}
}

// Serialize shapes one record. With useDraft the draft snapshot is
// preferred, falling back to the published one. An absent snapshot
// serializes to an empty field set. When schemaFields is non-nil,
// snapshot keys without a matching field are dropped (orphans from
// deleted fields) and values are normalized per kind. A non-empty
// selection restricts output to system fields plus the requested
// fields that are present; unknown requested names are ignored.
func (s *Serializer) Serialize(rec *domain.ContentRecord, schemaFields []domain.SchemaField, selection []string, useDraft bool) SerializedRecord {
	snapshot := rec.PublishedSnapshot
	if useDraft && rec.DraftSnapshot != nil {
		snapshot = rec.DraftSnapshot
	}

	out := SerializedRecord{
		keyID:          rec.ID,
		keyCreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
		keyUpdatedAt:   rec.UpdatedAt.UTC().Format(time.RFC3339),
		keyPublishedAt: formatNullable(rec.PublishedAt),
		keyRevisedAt:   formatNullable(rec.RevisedAt),
	}

	var kindByField map[string]fieldkind.Kind
	if schemaFields != nil {
		kindByField = make(map[string]fieldkind.Kind, len(schemaFields))
		for _, f := range schemaFields {
			kindByField[f.FieldID] = fieldkind.Kind(f.Kind)
		}
	}

	var selected map[string]bool
	if len(selection) > 0 {
		selected = make(map[string]bool, len(selection))
		for _, name := range selection {
			selected[name] = true
		}
	}

	for key, value := range snapshot {
		if selected != nil && !selected[key] {
			continue
		}
		if kindByField != nil {
			kind, ok := kindByField[key]
			if !ok {
				continue
			}
			out[key] = s.kinds.Normalize(kind, value)
			continue
		}
		out[key] = value
	}

	return out
}

func formatNullable(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
