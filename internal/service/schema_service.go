package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/repository"
	"github.com/lumocms/lumo-backend/pkg/cache"
	"gorm.io/gorm"
)

// SchemaService resolves endpoint slugs to schema definitions
type SchemaService interface {
	GetSchema(tenantID, endpoint string) (*domain.Schema, error)
}

type schemaService struct {
	repo  repository.SchemaRepository
	cache cache.Service
}

// NewSchemaService creates a new SchemaService
func NewSchemaService(repo repository.SchemaRepository, cacheSvc cache.Service) SchemaService {
	return &schemaService{repo: repo, cache: cacheSvc}
}

// GetSchema returns the schema with its ordered field definitions
func (s *schemaService) GetSchema(tenantID, endpoint string) (*domain.Schema, error) {
	cacheKey := tenantID + ":" + endpoint

	if s.cache != nil && s.cache.IsAvailable() {
		if data, err := s.cache.GetSchema(context.Background(), cacheKey); err == nil {
			var schema domain.Schema
			if err := json.Unmarshal(data, &schema); err == nil {
				return &schema, nil
			}
		}
	}

	schema, err := s.repo.FindByEndpoint(tenantID, endpoint)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrSchemaNotFound
	}
	if err != nil {
		return nil, common.WrapStorage(err)
	}

	if s.cache != nil {
		_ = s.cache.SetSchema(context.Background(), cacheKey, schema)
	}
	return schema, nil
}
