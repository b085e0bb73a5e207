package learning

import "time"

type Module struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Order       int     `gorm:"column:sort_order;not null;default:0" json:"order"`

	CourseID string  `gorm:"column:course_id;type:varchar(36);not null;index" json:"courseId"`
	Course   *Course `gorm:"foreignKey:CourseID;references:ID" json:"course,omitempty"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID;references:ID" json:"lessons,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Module) TableName() string { return "modules" }
