package learning

import "time"

type Lesson struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Slug        string  `gorm:"column:slug;index" json:"slug"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Content     *string `gorm:"column:content;type:text" json:"content"`
	Order       int     `gorm:"column:sort_order;not null;default:0" json:"order"`

	ModuleID string  `gorm:"column:module_id;type:varchar(36);not null;index" json:"moduleId"`
	Module   *Module `gorm:"foreignKey:ModuleID;references:ID" json:"module,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Lesson) TableName() string { return "lessons" }
