package repository

import (
	"github.com/lumocms/lumo-backend/internal/domain"
	"gorm.io/gorm"
)

// SchemaRepository schema definition data access
type SchemaRepository interface {
	FindByEndpoint(tenantID, endpoint string) (*domain.Schema, error)
}

type schemaRepository struct {
	db *gorm.DB
}

// NewSchemaRepository creates a new SchemaRepository
func NewSchemaRepository(db *gorm.DB) SchemaRepository {
	return &schemaRepository{db: db}
}

func (r *schemaRepository) FindByEndpoint(tenantID, endpoint string) (*domain.Schema, error) {
	var schema domain.Schema
	err := r.db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("tenant_id = ? AND endpoint = ?", tenantID, endpoint).
		First(&schema).Error
	return &schema, err
}
