package service

import (
	"context"
	"errors"
	"time"

	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/repository"
	"gorm.io/gorm"
)

// APIKeyService validates client API keys
type APIKeyService interface {
	ValidateAPIKey(ctx context.Context, key string) (*domain.APIKey, error)
}

type apiKeyService struct {
	repo repository.APIKeyRepository
}

// NewAPIKeyService creates a new APIKeyService
func NewAPIKeyService(repo repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{repo: repo}
}

// ValidateAPIKey looks up a key and checks expiry. Unknown and expired
// keys both come back as ErrForbidden.
func (s *apiKeyService) ValidateAPIKey(_ context.Context, key string) (*domain.APIKey, error) {
	apiKey, err := s.repo.FindByKey(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrForbidden
	}
	if err != nil {
		return nil, common.WrapStorage(err)
	}
	if apiKey.ExpiresAt != nil && apiKey.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrForbidden
	}
	return apiKey, nil
}
