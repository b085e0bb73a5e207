package domain

import (
	"github.com/yungbote/codewitheasy-admin/internal/domain/billing"
	"github.com/yungbote/codewitheasy-admin/internal/domain/learning"
	"github.com/yungbote/codewitheasy-admin/internal/domain/user"
)

type (
	User = user.User

	Course         = learning.Course
	Module         = learning.Module
	Lesson         = learning.Lesson
	LessonProgress = learning.LessonProgress
	LessonFeedback = learning.LessonFeedback

	Enrollment   = billing.Enrollment
	Subscription = billing.Subscription
	Certificate  = billing.Certificate
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&User{},
		&Course{},
		&Module{},
		&Lesson{},
		&Enrollment{},
		&Subscription{},
		&Certificate{},
		&LessonProgress{},
		&LessonFeedback{},
	}
}
