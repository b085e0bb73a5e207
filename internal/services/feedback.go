package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/domain"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

// FeedbackInput is a learner's submission for one lesson. Optional fields
// left out of the JSON body are not touched on resubmission.
type FeedbackInput struct {
	UserID     string  `json:"userId" validate:"required"`
	Rating     *int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment"`
	IsHelpful  *bool   `json:"isHelpful"`
	Difficulty *string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`

	present map[string]bool
}

func (in *FeedbackInput) UnmarshalJSON(data []byte) error {
	type plain FeedbackInput
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*in = FeedbackInput(p)
	in.present = make(map[string]bool, len(raw))
	for k := range raw {
		in.present[k] = true
	}
	return nil
}

// Has reports whether name was sent. Inputs built in code count every
// non-nil optional field as sent.
func (in FeedbackInput) Has(name string) bool {
	if in.present != nil {
		return in.present[name]
	}
	switch name {
	case "comment":
		return in.Comment != nil
	case "isHelpful":
		return in.IsHelpful != nil
	case "difficulty":
		return in.Difficulty != nil
	default:
		return false
	}
}

type FeedbackService interface {
	Submit(ctx context.Context, lessonID string, in FeedbackInput) (*domain.LessonFeedback, bool, error)
	ListForLesson(ctx context.Context, lessonID string) ([]domain.LessonFeedback, error)
	LessonStats(ctx context.Context, lessonID string) (Stats, error)
	GlobalStats(ctx context.Context) (Stats, error)
}

type feedbackService struct {
	log     *logger.Logger
	backend backend.Backend
	res     *resource.Resource
}

func NewFeedbackService(log *logger.Logger, b backend.Backend, cat *resource.Catalog) FeedbackService {
	return &feedbackService{
		log:     log.With("service", "FeedbackService"),
		backend: b,
		res:     cat.MustLookup(resource.LessonFeedback),
	}
}

func (s *feedbackService) Submit(ctx context.Context, lessonID string, in FeedbackInput) (*domain.LessonFeedback, bool, error) {
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return nil, false, apierr.Validation("lessonId is required")
	}
	in.UserID = strings.TrimSpace(in.UserID)
	if in.Difficulty != nil {
		d := strings.ToUpper(strings.TrimSpace(*in.Difficulty))
		if d == "" {
			in.Difficulty = nil
		} else {
			in.Difficulty = &d
		}
	}
	if err := validateStruct(in); err != nil {
		return nil, false, err
	}

	body := map[string]any{
		"userId":   in.UserID,
		"lessonId": lessonID,
		"rating":   *in.Rating,
	}
	if in.Has("comment") {
		body["comment"] = nullable(in.Comment)
	}
	if in.Has("isHelpful") && in.IsHelpful != nil {
		body["isHelpful"] = *in.IsHelpful
	}
	if in.Has("difficulty") {
		body["difficulty"] = nullable(in.Difficulty)
	}
	cols, err := s.res.Decode(body, resource.OpCreate)
	if err != nil {
		return nil, false, err
	}

	key := make(map[string]any, len(s.res.Key))
	for _, col := range s.res.Key {
		key[col] = cols[col]
		delete(cols, col)
	}

	item, created, err := s.backend.UpsertByKey(ctx, s.res, key, cols)
	if err != nil {
		return nil, false, err
	}
	fb, ok := item.(*domain.LessonFeedback)
	if !ok {
		return nil, false, fmt.Errorf("feedback upsert returned %T", item)
	}
	s.log.Info("Lesson feedback saved", "lesson_id", lessonID, "user_id", in.UserID, "created", created)
	return fb, created, nil
}

func (s *feedbackService) ListForLesson(ctx context.Context, lessonID string) ([]domain.LessonFeedback, error) {
	return s.list(ctx, lessonID, s.res.Includes)
}

func (s *feedbackService) LessonStats(ctx context.Context, lessonID string) (Stats, error) {
	rows, err := s.list(ctx, lessonID, nil)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(rows), nil
}

func (s *feedbackService) GlobalStats(ctx context.Context) (Stats, error) {
	rows, err := s.list(ctx, "", nil)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(rows), nil
}

// list returns every row, newest first. An empty lessonID lists all lessons.
func (s *feedbackService) list(ctx context.Context, lessonID string, includes []query.Include) ([]domain.LessonFeedback, error) {
	d := query.Descriptor{
		Sort: query.Sort{
			Key:  query.SortKey{Kind: query.SortField, Field: "createdAt", Column: s.res.Column("createdAt")},
			Desc: true,
		},
		Includes: includes,
	}
	if lessonID != "" {
		d.Filters = []query.Condition{{Column: s.res.Column("lessonId"), Value: lessonID}}
	}
	items, _, err := s.backend.List(ctx, s.res, d)
	if err != nil {
		return nil, err
	}
	rows, ok := items.(*[]domain.LessonFeedback)
	if !ok {
		return nil, fmt.Errorf("feedback list returned %T", items)
	}
	return *rows, nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
