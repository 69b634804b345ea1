package domain

import "time"

// Schema shapes
const (
	SchemaShapeList   = "list"   // collection endpoint, many records
	SchemaShapeObject = "object" // singleton endpoint, one record
)

// Schema defines a content structure exposed under an endpoint slug
type Schema struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  string    `gorm:"column:tenant_id;type:varchar(64);index:idx_tenant_endpoint,unique" json:"tenant_id"`
	Endpoint  string    `gorm:"column:endpoint;type:varchar(64);index:idx_tenant_endpoint,unique" json:"endpoint"`
	Name      string    `gorm:"column:name;type:varchar(100)" json:"name"`
	Shape     string    `gorm:"column:shape;type:enum('list','object');default:'list'" json:"shape"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Fields []SchemaField `gorm:"foreignKey:SchemaID" json:"fields,omitempty"`
}

func (Schema) TableName() string { return "schemas" }

// SchemaField is one named, typed slot of a schema.
// FieldID is the stable slug content snapshots are keyed by; deleting a
// field leaves orphaned snapshot keys in place, the serializer ignores them.
type SchemaField struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SchemaID        uint64    `gorm:"column:schema_id;index:idx_schema_field,unique" json:"schema_id"`
	FieldID         string    `gorm:"column:field_id;type:varchar(64);index:idx_schema_field,unique" json:"field_id"`
	Name            string    `gorm:"column:name;type:varchar(100)" json:"name"`
	Kind            string    `gorm:"column:kind;type:varchar(20)" json:"kind"`
	Required        bool      `gorm:"column:required;default:false" json:"required"`
	Position        uint      `gorm:"column:position;default:0" json:"position"`
	ValidationRules *string   `gorm:"column:validation_rules;type:json" json:"validation_rules,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SchemaField) TableName() string { return "schema_fields" }
