package learning

import (
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/domain/user"
)

const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"

	MinRating = 1
	MaxRating = 5
)

var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// LessonFeedback holds at most one row per (user_id, lesson_id).
type LessonFeedback struct {
	ID     string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string     `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_lesson_feedback_user_lesson" json:"userId"`
	User   *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	LessonID string  `gorm:"column:lesson_id;type:varchar(36);not null;uniqueIndex:idx_lesson_feedback_user_lesson;index" json:"lessonId"`
	Lesson   *Lesson `gorm:"foreignKey:LessonID;references:ID" json:"lesson,omitempty"`

	Rating     int     `gorm:"column:rating;not null" json:"rating"`
	Comment    *string `gorm:"column:comment;type:text" json:"comment"`
	IsHelpful  bool    `gorm:"column:is_helpful;not null;default:false" json:"isHelpful"`
	Difficulty *string `gorm:"column:difficulty" json:"difficulty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (LessonFeedback) TableName() string { return "lesson_feedback" }
