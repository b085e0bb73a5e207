package resource

import (
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/domain"
	"github.com/yungbote/codewitheasy-admin/internal/domain/billing"
	"github.com/yungbote/codewitheasy-admin/internal/domain/learning"
)

const (
	Courses        = "courses"
	Modules        = "modules"
	Lessons        = "lessons"
	Users          = "users"
	Enrollments    = "enrollments"
	Subscriptions  = "subscriptions"
	Certificates   = "certificates"
	LessonProgress = "lesson-progress"
	LessonFeedback = "lesson-feedback"
)

type Catalog struct {
	ordered []*Resource
	byName  map[string]*Resource
}

func NewCatalog(resources ...*Resource) *Catalog {
	c := &Catalog{byName: make(map[string]*Resource, len(resources))}
	for _, r := range resources {
		c.ordered = append(c.ordered, r)
		c.byName[r.Name] = r
	}
	return c
}

// Default returns the catalog of every entity the admin API exposes.
func Default() *Catalog {
	return NewCatalog(
		courseResource(),
		moduleResource(),
		lessonResource(),
		userResource(),
		enrollmentResource(),
		subscriptionResource(),
		certificateResource(),
		lessonProgressResource(),
		lessonFeedbackResource(),
	)
}

func (c *Catalog) Lookup(name string) (*Resource, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// MustLookup panics on unknown names; only for resources declared in Default.
func (c *Catalog) MustLookup(name string) *Resource {
	r, ok := c.byName[name]
	if !ok {
		panic("resource: unknown resource " + name)
	}
	return r
}

func (c *Catalog) All() []*Resource { return c.ordered }

func baseFields(fields ...Field) []Field {
	out := []Field{{Name: "id", Column: "id", Kind: String, ReadOnly: true}}
	out = append(out, fields...)
	return append(out,
		Field{Name: "createdAt", Column: "created_at", Kind: Time, ReadOnly: true},
		Field{Name: "updatedAt", Column: "updated_at", Kind: Time, ReadOnly: true},
	)
}

var (
	userRelation = Relation{Name: "user", Field: "User", Target: Users, Kind: BelongsTo, ForeignKey: "user_id"}
	courseRel    = Relation{Name: "course", Field: "Course", Target: Courses, Kind: BelongsTo, ForeignKey: "course_id"}
	lessonRel    = Relation{Name: "lesson", Field: "Lesson", Target: Lessons, Kind: BelongsTo, ForeignKey: "lesson_id"}
)

func courseResource() *Resource {
	return Define[domain.Course](Resource{
		Name:  Courses,
		Table: "courses",
		Label: "Course",
		Fields: baseFields(
			Field{Name: "title", Column: "title", Kind: String},
			Field{Name: "description", Column: "description", Kind: String, Nullable: true},
			Field{Name: "slug", Column: "slug", Kind: String},
			Field{Name: "level", Column: "level", Kind: Enum, Enum: learning.Levels},
			Field{Name: "icon", Column: "icon", Kind: String, Nullable: true},
			Field{Name: "benefits", Column: "benefits", Kind: JSON, Nullable: true},
			Field{Name: "isPublished", Column: "is_published", Kind: Bool},
		),
		Search:  []string{"title", "description", "slug"},
		Filters: []string{"level", "isPublished"},
		Relations: []Relation{
			{Name: "modules", Field: "Modules", Target: Modules, Kind: HasMany, ForeignKey: "course_id", OrderBy: []string{"sort_order", "id"}},
		},
		Includes:   []query.Include{{Relation: "modules", Children: []query.Include{{Relation: "lessons"}}}},
		Required:   []string{"title", "level", "slug"},
		Hooks:      []Hook{DeriveSlug},
		Validators: []Validator{StringArray("benefits", "benefits")},
	})
}

func moduleResource() *Resource {
	course := courseRel
	course.MustExist = true
	return Define[domain.Module](Resource{
		Name:  Modules,
		Table: "modules",
		Label: "Module",
		Fields: baseFields(
			Field{Name: "title", Column: "title", Kind: String},
			Field{Name: "description", Column: "description", Kind: String, Nullable: true},
			Field{Name: "order", Column: "sort_order", Kind: Int},
			Field{Name: "courseId", Column: "course_id", Kind: String},
		),
		Search:  []string{"title", "description"},
		Filters: []string{"courseId"},
		Relations: []Relation{
			course,
			{Name: "lessons", Field: "Lessons", Target: Lessons, Kind: HasMany, ForeignKey: "module_id", OrderBy: []string{"sort_order", "id"}},
		},
		RelationSorts: []query.RelationSort{{Relation: "course", Field: "title", Column: "title"}},
		Includes:      []query.Include{{Relation: "course"}},
		Required:      []string{"title", "courseId"},
	})
}

func lessonResource() *Resource {
	return Define[domain.Lesson](Resource{
		Name:  Lessons,
		Table: "lessons",
		Label: "Lesson",
		Fields: baseFields(
			Field{Name: "title", Column: "title", Kind: String},
			Field{Name: "slug", Column: "slug", Kind: String},
			Field{Name: "description", Column: "description", Kind: String, Nullable: true},
			Field{Name: "content", Column: "content", Kind: String, Nullable: true},
			Field{Name: "order", Column: "sort_order", Kind: Int},
			Field{Name: "moduleId", Column: "module_id", Kind: String},
		),
		Search:  []string{"title", "description"},
		Filters: []string{"moduleId"},
		Relations: []Relation{
			{Name: "module", Field: "Module", Target: Modules, Kind: BelongsTo, ForeignKey: "module_id", MustExist: true},
		},
		RelationSorts: []query.RelationSort{{Relation: "module", Field: "title", Column: "title"}},
		Includes:      []query.Include{{Relation: "module"}},
		Required:      []string{"title", "moduleId"},
		Hooks:         []Hook{DeriveSlug},
	})
}

func userResource() *Resource {
	return Define[domain.User](Resource{
		Name:  Users,
		Table: "users",
		Label: "User",
		Fields: baseFields(
			Field{Name: "email", Column: "email", Kind: String},
			Field{Name: "firstName", Column: "first_name", Kind: String, Nullable: true},
			Field{Name: "lastName", Column: "last_name", Kind: String, Nullable: true},
			Field{Name: "clerkId", Column: "clerk_id", Kind: String, Nullable: true},
			Field{Name: "imageUrl", Column: "image_url", Kind: String, Nullable: true},
		),
		Search:   []string{"email", "firstName", "lastName", "clerkId"},
		Filters:  []string{"clerkId"},
		Required: []string{"email"},
	})
}

func enrollmentResource() *Resource {
	return Define[domain.Enrollment](Resource{
		Name:  Enrollments,
		Table: "enrollments",
		Label: "Enrollment",
		Fields: baseFields(
			Field{Name: "userId", Column: "user_id", Kind: String},
			Field{Name: "courseId", Column: "course_id", Kind: String},
			Field{Name: "status", Column: "status", Kind: Enum, Enum: billing.EnrollmentStatuses},
			Field{Name: "progress", Column: "progress", Kind: Int},
			Field{Name: "enrolledAt", Column: "enrolled_at", Kind: Time, Nullable: true},
			Field{Name: "completedAt", Column: "completed_at", Kind: Time, Nullable: true},
		),
		Search:    []string{"userId", "courseId"},
		Filters:   []string{"userId", "courseId", "status"},
		Relations: []Relation{userRelation, courseRel},
		RelationSorts: []query.RelationSort{
			{Relation: "user", Field: "email", Column: "email"},
			{Relation: "user", Field: "firstName", Column: "first_name"},
			{Relation: "course", Field: "title", Column: "title"},
		},
		Includes:   []query.Include{{Relation: "user"}, {Relation: "course"}},
		Required:   []string{"userId", "courseId"},
		Validators: []Validator{IntRange("progress", "progress", 0, 100)},
	})
}

func subscriptionResource() *Resource {
	return Define[domain.Subscription](Resource{
		Name:  Subscriptions,
		Table: "subscriptions",
		Label: "Subscription",
		Fields: baseFields(
			Field{Name: "userId", Column: "user_id", Kind: String},
			Field{Name: "plan", Column: "plan", Kind: Enum, Enum: billing.Plans},
			Field{Name: "status", Column: "status", Kind: Enum, Enum: billing.SubscriptionStatuses},
			Field{Name: "currentPeriodStart", Column: "current_period_start", Kind: Time, Nullable: true},
			Field{Name: "currentPeriodEnd", Column: "current_period_end", Kind: Time, Nullable: true},
			Field{Name: "cancelAtPeriodEnd", Column: "cancel_at_period_end", Kind: Bool},
		),
		Search:        []string{"plan", "status"},
		Filters:       []string{"userId", "status"},
		Relations:     []Relation{userRelation},
		RelationSorts: []query.RelationSort{{Relation: "user", Field: "email", Column: "email"}},
		Includes:      []query.Include{{Relation: "user"}},
		Required:      []string{"userId", "plan"},
	})
}

func certificateResource() *Resource {
	return Define[domain.Certificate](Resource{
		Name:  Certificates,
		Table: "certificates",
		Label: "Certificate",
		Fields: baseFields(
			Field{Name: "userId", Column: "user_id", Kind: String},
			Field{Name: "courseId", Column: "course_id", Kind: String},
			Field{Name: "enrollmentId", Column: "enrollment_id", Kind: String, Nullable: true},
			Field{Name: "certificateNumber", Column: "certificate_number", Kind: String},
			Field{Name: "certificateUrl", Column: "certificate_url", Kind: String, Nullable: true},
			Field{Name: "issuedAt", Column: "issued_at", Kind: Time, Nullable: true},
		),
		Search:    []string{"certificateNumber"},
		Filters:   []string{"userId", "courseId"},
		Relations: []Relation{userRelation, courseRel},
		RelationSorts: []query.RelationSort{
			{Relation: "user", Field: "email", Column: "email"},
			{Relation: "course", Field: "title", Column: "title"},
		},
		Includes: []query.Include{{Relation: "user"}, {Relation: "course"}},
		Required: []string{"userId", "courseId", "certificateNumber"},
	})
}

func lessonProgressResource() *Resource {
	return Define[domain.LessonProgress](Resource{
		Name:  LessonProgress,
		Table: "lesson_progress",
		Label: "LessonProgress",
		Fields: baseFields(
			Field{Name: "userId", Column: "user_id", Kind: String},
			Field{Name: "lessonId", Column: "lesson_id", Kind: String},
			Field{Name: "isCompleted", Column: "is_completed", Kind: Bool},
			Field{Name: "completedAt", Column: "completed_at", Kind: Time, Nullable: true},
			Field{Name: "timeSpentSeconds", Column: "time_spent_seconds", Kind: Int},
		),
		Filters:   []string{"userId", "lessonId", "isCompleted"},
		Relations: []Relation{userRelation, lessonRel},
		RelationSorts: []query.RelationSort{
			{Relation: "user", Field: "email", Column: "email"},
			{Relation: "lesson", Field: "title", Column: "title"},
		},
		Includes:   []query.Include{{Relation: "user"}, {Relation: "lesson"}},
		Required:   []string{"userId", "lessonId"},
		Validators: []Validator{IntRange("timeSpentSeconds", "time_spent_seconds", 0, 1<<31-1)},
	})
}

func lessonFeedbackResource() *Resource {
	return Define[domain.LessonFeedback](Resource{
		Name:  LessonFeedback,
		Table: "lesson_feedback",
		Label: "LessonFeedback",
		Fields: baseFields(
			Field{Name: "userId", Column: "user_id", Kind: String},
			Field{Name: "lessonId", Column: "lesson_id", Kind: String},
			Field{Name: "rating", Column: "rating", Kind: Int},
			Field{Name: "comment", Column: "comment", Kind: String, Nullable: true},
			Field{Name: "isHelpful", Column: "is_helpful", Kind: Bool},
			Field{Name: "difficulty", Column: "difficulty", Kind: Enum, Enum: learning.Difficulties, Nullable: true},
		),
		Search:    []string{"comment"},
		Filters:   []string{"userId", "lessonId", "difficulty", "isHelpful"},
		Relations: []Relation{userRelation, lessonRel},
		RelationSorts: []query.RelationSort{
			{Relation: "user", Field: "firstName", Column: "first_name"},
			{Relation: "lesson", Field: "title", Column: "title"},
		},
		Includes:   []query.Include{{Relation: "user"}, {Relation: "lesson"}},
		Required:   []string{"userId", "lessonId", "rating"},
		Key:        []string{"user_id", "lesson_id"},
		Validators: []Validator{IntRange("rating", "rating", learning.MinRating, learning.MaxRating)},
	})
}
