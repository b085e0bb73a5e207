package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/gemini"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

var (
	ErrCopyGeneratorDisabled = errors.New("gemini is not configured")

	firstJSONArray = regexp.MustCompile(`(?s)\[.*?\]`)
)

type DescriptionInput struct {
	Title string `json:"title" validate:"required"`
	Level string `json:"level" validate:"required"`
	Icon  string `json:"icon"`
}

type BenefitsInput struct {
	Title       string `json:"title" validate:"required"`
	Level       string `json:"level" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CourseCopyService drafts marketing copy for the course editor.
type CourseCopyService interface {
	GenerateDescription(ctx context.Context, in DescriptionInput) (string, error)
	GenerateBenefits(ctx context.Context, in BenefitsInput) ([]string, error)
}

type courseCopyService struct {
	log *logger.Logger
	llm gemini.Client
}

// NewCourseCopyService accepts a nil client; calls then fail with
// ErrCopyGeneratorDisabled.
func NewCourseCopyService(log *logger.Logger, llm gemini.Client) CourseCopyService {
	return &courseCopyService{log: log.With("service", "CourseCopyService"), llm: llm}
}

func (s *courseCopyService) GenerateDescription(ctx context.Context, in DescriptionInput) (string, error) {
	in.Title, in.Level, in.Icon = strings.TrimSpace(in.Title), strings.TrimSpace(in.Level), strings.TrimSpace(in.Icon)
	if err := validateStruct(in); err != nil {
		return "", err
	}
	if s.llm == nil {
		return "", apierr.Backend(ErrCopyGeneratorDisabled)
	}
	text, err := s.llm.GenerateText(ctx, courseDescriptionPrompt(in.Title, in.Level, in.Icon))
	if err != nil {
		s.log.Error("Generate description failed", "title", in.Title, "error", err)
		return "", apierr.Backend(fmt.Errorf("generate description: %w", err))
	}
	return strings.TrimSpace(text), nil
}

func (s *courseCopyService) GenerateBenefits(ctx context.Context, in BenefitsInput) ([]string, error) {
	in.Title, in.Level = strings.TrimSpace(in.Title), strings.TrimSpace(in.Level)
	in.Description, in.Icon = strings.TrimSpace(in.Description), strings.TrimSpace(in.Icon)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, apierr.Backend(ErrCopyGeneratorDisabled)
	}
	text, err := s.llm.GenerateText(ctx, courseBenefitsPrompt(in.Title, in.Level, in.Description, in.Icon))
	if err != nil {
		s.log.Error("Generate benefits failed", "title", in.Title, "error", err)
		return nil, apierr.Backend(fmt.Errorf("generate benefits: %w", err))
	}
	benefits, err := ParseBenefits(text)
	if err != nil {
		s.log.Warn("Unparseable benefits response", "title", in.Title, "chars", len(text))
		return nil, apierr.Backend(err)
	}
	return benefits, nil
}

// ParseBenefits reads a JSON string array, falling back to the first
// bracketed block when the model wraps it in prose or code fences.
func ParseBenefits(text string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err == nil {
		return out, nil
	}
	block := firstJSONArray.FindString(text)
	if block == "" {
		return nil, errors.New("invalid JSON response from Gemini")
	}
	if err := json.Unmarshal([]byte(block), &out); err != nil {
		return nil, fmt.Errorf("invalid JSON response from Gemini: %w", err)
	}
	return out, nil
}
