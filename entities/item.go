package entities

import (
	"time"

	"github.com/google/uuid"
	"video-subtitles/constant"
)

type Item struct {
	ID           uuid.UUID           `json:"id" gorm:"type:uuid;primary_key"`
	Title        string              `json:"title" gorm:"type:varchar(255);not null"`
	Status       constant.ItemStatus `json:"status" gorm:"type:varchar(20);not null"`
	Subtitles    string              `json:"subtitles,omitempty" gorm:"type:text"`
	Transcript   string              `json:"transcript,omitempty" gorm:"type:text"`
	ErrorMessage string              `json:"error,omitempty" gorm:"type:text"`
	CreatedAt    time.Time           `json:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time           `json:"updated_at" gorm:"type:timestamptz;not null"`
}

func (Item) TableName() string {
	return "items"
}
