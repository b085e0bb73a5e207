package learning

import (
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/domain/user"
)

type LessonProgress struct {
	ID     string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string     `gorm:"column:user_id;type:varchar(36);not null;index" json:"userId"`
	User   *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	LessonID string  `gorm:"column:lesson_id;type:varchar(36);not null;index" json:"lessonId"`
	Lesson   *Lesson `gorm:"foreignKey:LessonID;references:ID" json:"lesson,omitempty"`

	IsCompleted      bool       `gorm:"column:is_completed;not null;default:false" json:"isCompleted"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completedAt"`
	TimeSpentSeconds int        `gorm:"column:time_spent_seconds;not null;default:0" json:"timeSpentSeconds"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
