package services

import "github.com/yungbote/codewitheasy-admin/internal/domain"

// UnknownDifficulty counts feedback submitted without a difficulty.
const UnknownDifficulty = "unknown"

type Stats struct {
	TotalFeedback          int            `json:"totalFeedback"`
	AverageRating          float64        `json:"averageRating"`
	HelpfulCount           int            `json:"helpfulCount"`
	DifficultyDistribution map[string]int `json:"difficultyDistribution"`
}

// Summarize aggregates a feedback set. The distribution always carries the
// unknown bucket and only the difficulties that occur.
func Summarize(rows []domain.LessonFeedback) Stats {
	st := Stats{
		TotalFeedback:          len(rows),
		DifficultyDistribution: map[string]int{UnknownDifficulty: 0},
	}
	if len(rows) == 0 {
		return st
	}
	sum := 0
	for _, fb := range rows {
		sum += fb.Rating
		if fb.IsHelpful {
			st.HelpfulCount++
		}
		bucket := UnknownDifficulty
		if fb.Difficulty != nil && *fb.Difficulty != "" {
			bucket = *fb.Difficulty
		}
		st.DifficultyDistribution[bucket]++
	}
	st.AverageRating = float64(sum) / float64(len(rows))
	return st
}
