package domain

import "time"

// API key scopes
const (
	ScopeRead       = "read"
	ScopeWrite      = "write"
	ScopeManagement = "management"
)

// APIKey authenticates external clients of the content API
type APIKey struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  string     `gorm:"column:tenant_id;type:varchar(64);index" json:"tenant_id"`
	Key       string     `gorm:"column:api_key;type:varchar(64);uniqueIndex" json:"-"`
	Name      string     `gorm:"column:name;type:varchar(100)" json:"name"`
	Scopes    string     `gorm:"column:scopes;type:varchar(255)" json:"scopes"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (APIKey) TableName() string { return "api_keys" }
