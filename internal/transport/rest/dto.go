package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/backend/internal/domain"
	"github.com/fluentdeck/backend/internal/service/study"
)

type wordResponse struct {
	ID              string `json:"id"`
	CategoryID      string `json:"categoryId"`
	Text            string `json:"text"`
	Romanization    string `json:"romanization,omitempty"`
	Translation     string `json:"translation"`
	DifficultyLevel int    `json:"difficultyLevel"`
	FrequencyRank   *int   `json:"frequencyRank,omitempty"`
}

type progressResponse struct {
	WordID          string     `json:"wordId"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	CorrectAttempts int        `json:"correctAttempts"`
	Accuracy        float64    `json:"accuracy"`
	IntervalDays    int        `json:"intervalDays"`
	LastStudiedAt   *time.Time `json:"lastStudiedAt,omitempty"`
	NextReviewAt    *time.Time `json:"nextReviewAt,omitempty"`
}

type studyItemResponse struct {
	Word     wordResponse      `json:"word"`
	Progress *progressResponse `json:"progress,omitempty"`
	IsNew    bool              `json:"isNew"`
}

type batchResponse struct {
	Items    []studyItemResponse `json:"items"`
	DueCount int                 `json:"dueCount"`
	NewCount int                 `json:"newCount"`
}

type countersPayload struct {
	WordsStudied   int `json:"wordsStudied"`
	WordsLearned   int `json:"wordsLearned"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalAnswers   int `json:"totalAnswers"`
}

type sessionResponse struct {
	ID              string          `json:"id"`
	CategoryID      *string         `json:"categoryId,omitempty"`
	Mode            string          `json:"mode"`
	Status          string          `json:"status"`
	Counters        countersPayload `json:"counters"`
	Accuracy        float64         `json:"accuracy"`
	StartedAt       time.Time       `json:"startedAt"`
	EndedAt         *time.Time      `json:"endedAt,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
}

type sessionPageResponse struct {
	Sessions []sessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

type submitResponseResult struct {
	Progress progressResponse `json:"progress"`
	Session  sessionResponse  `json:"session"`
}

type statisticsResponse struct {
	TotalWordsLearned   int     `json:"totalWordsLearned"`
	TotalWordsMastered  int     `json:"totalWordsMastered"`
	TotalStudyMinutes   int     `json:"totalStudyMinutes"`
	TotalSessions       int     `json:"totalSessions"`
	TotalActiveDays     int     `json:"totalActiveDays"`
	CurrentStreakDays   int     `json:"currentStreakDays"`
	LongestStreakDays   int     `json:"longestStreakDays"`
	WordsLearnedToday   int     `json:"wordsLearnedToday"`
	MinutesStudiedToday int     `json:"minutesStudiedToday"`
	OverallAccuracy     float64 `json:"overallAccuracy"`
}

type dashboardResponse struct {
	Statistics       statisticsResponse `json:"statistics"`
	WordsViewedToday int                `json:"wordsViewedToday"`
	TotalWordsViewed int                `json:"totalWordsViewed"`
	ActiveSessionID  *string            `json:"activeSessionId,omitempty"`
}

func toWordResponse(w domain.Word) wordResponse {
	return wordResponse{
		ID:              w.ID.String(),
		CategoryID:      w.CategoryID.String(),
		Text:            w.Text,
		Romanization:    w.Romanization,
		Translation:     w.Translation,
		DifficultyLevel: w.DifficultyLevel,
		FrequencyRank:   w.FrequencyRank,
	}
}

func toProgressResponse(p *domain.WordProgress) progressResponse {
	return progressResponse{
		WordID:          p.WordID.String(),
		Status:          string(p.Status),
		Attempts:        p.Attempts,
		CorrectAttempts: p.CorrectAttempts,
		Accuracy:        p.Accuracy(),
		IntervalDays:    p.IntervalDays,
		LastStudiedAt:   p.LastStudiedAt,
		NextReviewAt:    p.NextReviewAt,
	}
}

func toBatchResponse(batch *study.StudyBatch) batchResponse {
	items := make([]studyItemResponse, 0, len(batch.Items))
	for _, item := range batch.Items {
		ir := studyItemResponse{
			Word:  toWordResponse(item.Word),
			IsNew: item.IsNew(),
		}
		if item.Progress != nil {
			pr := toProgressResponse(item.Progress)
			ir.Progress = &pr
		}
		items = append(items, ir)
	}
	return batchResponse{
		Items:    items,
		DueCount: batch.DueCount,
		NewCount: batch.NewCount,
	}
}

func toSessionResponse(s *domain.StudySession) sessionResponse {
	resp := sessionResponse{
		ID:     s.ID.String(),
		Mode:   string(s.Mode),
		Status: string(s.Status),
		Counters: countersPayload{
			WordsStudied:   s.Counters.WordsStudied,
			WordsLearned:   s.Counters.WordsLearned,
			CorrectAnswers: s.Counters.CorrectAnswers,
			TotalAnswers:   s.Counters.TotalAnswers,
		},
		Accuracy:        s.Counters.Accuracy(),
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationMinutes: s.DurationMinutes,
	}
	if s.CategoryID != nil {
		id := s.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}

func toDashboardResponse(d *domain.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Statistics: statisticsResponse{
			TotalWordsLearned:   d.Statistics.TotalWordsLearned,
			TotalWordsMastered:  d.Statistics.TotalWordsMastered,
			TotalStudyMinutes:   d.Statistics.TotalStudyMinutes,
			TotalSessions:       d.Statistics.TotalSessions,
			TotalActiveDays:     d.Statistics.TotalActiveDays,
			CurrentStreakDays:   d.Statistics.CurrentStreakDays,
			LongestStreakDays:   d.Statistics.LongestStreakDays,
			WordsLearnedToday:   d.Statistics.WordsLearnedToday,
			MinutesStudiedToday: d.Statistics.MinutesStudiedToday,
			OverallAccuracy:     d.OverallAccuracy,
		},
		WordsViewedToday: d.Activity.WordsViewedToday,
		TotalWordsViewed: d.Activity.TotalWordsViewed,
	}
	if d.ActiveSessionID != nil {
		id := d.ActiveSessionID.String()
		resp.ActiveSessionID = &id
	}
	return resp
}

// parseOptionalUUID returns nil for an empty string.
func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
