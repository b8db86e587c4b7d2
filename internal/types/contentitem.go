package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentItem is a persisted catalog row for a piece of external content that at
// least one user has reviewed. The (APISource, ExternalID) pair identifies the
// item across searches.
type ContentItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExternalID     string         `gorm:"not null;column:external_id;uniqueIndex:idx_content_source_external" json:"external_id"`
	APISource      string         `gorm:"not null;column:api_source;uniqueIndex:idx_content_source_external" json:"api_source"`
	CategoryID     uuid.UUID      `gorm:"index;not null;column:category_id" json:"category_id"`
	Category       *Category      `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Title          string         `gorm:"not null;column:title" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	ImageURL       string         `gorm:"column:image_url" json:"image_url"`
	AdditionalData datatypes.JSON `gorm:"column:additional_data" json:"additional_data,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentItem) TableName() string {
	return "content_item"
}
