package billing

import (
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/domain/learning"
	"github.com/yungbote/codewitheasy-admin/internal/domain/user"
)

const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentCancelled = "CANCELLED"
)

var EnrollmentStatuses = []string{EnrollmentActive, EnrollmentCompleted, EnrollmentCancelled}

type Enrollment struct {
	ID     string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string     `gorm:"column:user_id;type:varchar(36);not null;index" json:"userId"`
	User   *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	CourseID string           `gorm:"column:course_id;type:varchar(36);not null;index" json:"courseId"`
	Course   *learning.Course `gorm:"foreignKey:CourseID;references:ID" json:"course,omitempty"`

	Status      string     `gorm:"column:status;not null;default:'ACTIVE';index" json:"status"`
	Progress    int        `gorm:"column:progress;not null;default:0" json:"progress"`
	EnrolledAt  *time.Time `gorm:"column:enrolled_at" json:"enrolledAt"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Enrollment) TableName() string { return "enrollments" }
