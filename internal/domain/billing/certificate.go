package billing

import (
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/domain/learning"
	"github.com/yungbote/codewitheasy-admin/internal/domain/user"
)

type Certificate struct {
	ID     string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string     `gorm:"column:user_id;type:varchar(36);not null;index" json:"userId"`
	User   *user.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	CourseID string           `gorm:"column:course_id;type:varchar(36);not null;index" json:"courseId"`
	Course   *learning.Course `gorm:"foreignKey:CourseID;references:ID" json:"course,omitempty"`

	// EnrollmentID is a logical reference only; there is no foreign key.
	EnrollmentID      *string    `gorm:"column:enrollment_id;type:varchar(36);index" json:"enrollmentId"`
	CertificateNumber string     `gorm:"column:certificate_number;uniqueIndex;not null" json:"certificateNumber"`
	CertificateURL    *string    `gorm:"column:certificate_url" json:"certificateUrl"`
	IssuedAt          *time.Time `gorm:"column:issued_at" json:"issuedAt"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Certificate) TableName() string { return "certificates" }
