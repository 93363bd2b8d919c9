package users

import (
	"github.com/OpenHomes/homestead/internal/model"
)

// Person is a registered user. ProfileImage holds the public URL of the
// uploaded profile picture, when one was provided.
type Person struct {
	model.BaseModel
	Name         string  `gorm:"type:varchar(256);column:name;not null" json:"name"`
	ProfileImage *string `gorm:"type:text;column:profile_image" json:"profileImage,omitempty"`
}

func (p *Person) TableName() string {
	return "people"
}
