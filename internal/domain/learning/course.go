package learning

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

type Course struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Slug        string  `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Level       string  `gorm:"column:level;not null;index" json:"level"`
	Icon        *string `gorm:"column:icon" json:"icon"`
	// Benefits is a JSON array of short benefit strings.
	Benefits    datatypes.JSON `gorm:"column:benefits" json:"benefits"`
	IsPublished bool           `gorm:"column:is_published;not null;default:false" json:"isPublished"`

	Modules []Module `gorm:"foreignKey:CourseID;references:ID" json:"modules,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Course) TableName() string { return "courses" }
