package homes

import (
	"github.com/google/uuid"

	"github.com/OpenHomes/homestead/internal/model"
)

// Home is a registered property listing. Images holds the public URLs of the
// uploaded photos.
type Home struct {
	model.BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;column:owner_id;not null" json:"ownerId"`
	Address string    `gorm:"type:varchar(512);column:address;not null" json:"address"`
	Images  []string  `gorm:"type:jsonb;column:images;serializer:json" json:"images"`
}

func (h *Home) TableName() string {
	return "homes"
}
