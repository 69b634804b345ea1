package repository

import (
	"github.com/lumocms/lumo-backend/internal/domain"
	"gorm.io/gorm"
)

// APIKeyRepository API key data access
type APIKeyRepository interface {
	FindByKey(key string) (*domain.APIKey, error)
}

type apiKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) FindByKey(key string) (*domain.APIKey, error) {
	var apiKey domain.APIKey
	err := r.db.Where("api_key = ?", key).First(&apiKey).Error
	return &apiKey, err
}
