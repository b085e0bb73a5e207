package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestParseBenefits(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", `["Build APIs", "Ship faster"]`, []string{"Build APIs", "Ship faster"}},
		{"fenced", "```json\n[\"Build APIs\",\n \"Ship faster\"]\n```", []string{"Build APIs", "Ship faster"}},
		{"prose", `Here you go: ["One"] and more text`, []string{"One"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBenefits(tc.in)
			if err != nil {
				t.Fatalf("ParseBenefits: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("got=%v want=%v", got, tc.want)
			}
		})
	}
	if _, err := ParseBenefits("no array here"); err == nil {
		t.Fatalf("expected error without an array")
	}
}

func TestGenerateDescription(t *testing.T) {
	llm := &stubLLM{reply: "  Learn Go.\n"}
	svc := NewCourseCopyService(logger.Nop(), llm)

	got, err := svc.GenerateDescription(context.Background(), DescriptionInput{Title: "Go", Level: "BEGINNER", Icon: "gopher"})
	if err != nil {
		t.Fatalf("GenerateDescription: %v", err)
	}
	if got != "Learn Go." {
		t.Fatalf("description not trimmed: %q", got)
	}
	if !strings.Contains(llm.prompt, "Title: Go\nLevel: BEGINNER\nIcon/Theme: gopher") {
		t.Fatalf("prompt missing details:\n%s", llm.prompt)
	}

	_, err = svc.GenerateDescription(context.Background(), DescriptionInput{Title: "Go"})
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing level, got %v", err)
	}
}

func TestGenerateBenefitsErrors(t *testing.T) {
	in := BenefitsInput{Title: "Go", Level: "BEGINNER"}

	svc := NewCourseCopyService(logger.Nop(), nil)
	if _, err := svc.GenerateBenefits(context.Background(), in); !errors.Is(err, ErrCopyGeneratorDisabled) {
		t.Fatalf("expected ErrCopyGeneratorDisabled, got %v", err)
	}

	svc = NewCourseCopyService(logger.Nop(), &stubLLM{err: errors.New("quota exceeded")})
	_, err := svc.GenerateBenefits(context.Background(), in)
	ae, ok := apierr.As(err)
	if !ok || ae.Status != http.StatusInternalServerError || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected 500 carrying upstream message, got %v", err)
	}

	llm := &stubLLM{reply: `["A", "B"]`}
	got, err := NewCourseCopyService(logger.Nop(), llm).GenerateBenefits(context.Background(), in)
	if err != nil || len(got) != 2 {
		t.Fatalf("GenerateBenefits: got=%v err=%v", got, err)
	}
	if strings.Contains(llm.prompt, "Description:") {
		t.Fatalf("empty description should be omitted from the prompt")
	}
}
