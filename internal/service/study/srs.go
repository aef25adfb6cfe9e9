package study

import (
	"time"

	"github.com/fluentdeck/backend/internal/config"
	"github.com/fluentdeck/backend/internal/domain"
)

// SRSInput holds all data needed for a scheduling transition. Pure value, no side effects.
type SRSInput struct {
	CurrentStatus   domain.LearningStatus
	CurrentInterval int
	Rating          domain.DifficultyRating
	Now             time.Time
	Config          config.SRSConfig
}

// SRSOutput is the result of a scheduling transition.
type SRSOutput struct {
	NewStatus    domain.LearningStatus
	NewInterval  int
	NextReviewAt time.Time
}

// CalculateSRS is a pure function. No DB, no context, no logger.
// All decisions are deterministic based on input parameters.
//
// Status moves forward on EASY (NEW fast-tracks to LEARNED, LEARNED
// promotes to MASTERED), holds or demotes on HARD, and always lands on
// LEARNING after FORGOT. The interval resets to its shortest value on
// FORGOT, stays short on HARD, and grows multiplicatively on EASY.
func CalculateSRS(input SRSInput) SRSOutput {
	switch input.Rating {
	case domain.RatingForgot:
		return calculateForgot(input)
	case domain.RatingHard:
		return calculateHard(input)
	case domain.RatingEasy:
		return calculateEasy(input)
	default:
		// Callers validate the rating; treat anything else as a miss.
		return calculateForgot(input)
	}
}

func calculateForgot(input SRSInput) SRSOutput {
	return SRSOutput{
		NewStatus:    domain.LearningStatusLearning,
		NewInterval:  input.Config.InitialIntervalDays,
		NextReviewAt: input.Now.Add(input.Config.RelearnDelay),
	}
}

func calculateHard(input SRSInput) SRSOutput {
	if input.CurrentStatus == domain.LearningStatusMastered {
		// Mastered survives a HARD answer. The interval is kept rather
		// than reset so the word does not flood the review queue.
		interval := max(input.CurrentInterval, input.Config.HardIntervalDays)
		return SRSOutput{
			NewStatus:    domain.LearningStatusMastered,
			NewInterval:  interval,
			NextReviewAt: addDays(input.Now, interval),
		}
	}

	// NEW enters LEARNING, LEARNING stays, LEARNED demotes.
	interval := input.Config.HardIntervalDays
	return SRSOutput{
		NewStatus:    domain.LearningStatusLearning,
		NewInterval:  interval,
		NextReviewAt: addDays(input.Now, interval),
	}
}

func calculateEasy(input SRSInput) SRSOutput {
	var status domain.LearningStatus
	switch input.CurrentStatus {
	case domain.LearningStatusNew:
		// Fast-track: short-circuits LEARNING.
		status = domain.LearningStatusLearned
	case domain.LearningStatusLearning:
		status = domain.LearningStatusLearned
	case domain.LearningStatusLearned:
		status = domain.LearningStatusMastered
	case domain.LearningStatusMastered:
		status = domain.LearningStatusMastered
	default:
		status = domain.LearningStatusLearned
	}

	interval := growInterval(input.CurrentInterval, input.Config)

	return SRSOutput{
		NewStatus:    status,
		NewInterval:  interval,
		NextReviewAt: addDays(input.Now, interval),
	}
}

// growInterval lengthens the interval multiplicatively, clamped between
// the initial interval and the configured cap.
func growInterval(current int, cfg config.SRSConfig) int {
	if current < cfg.InitialIntervalDays {
		return cfg.InitialIntervalDays
	}
	grown := int(float64(current) * cfg.EasyGrowthFactor)
	if grown <= current {
		grown = current + 1
	}
	return min(grown, cfg.MaxIntervalDays)
}

func addDays(t time.Time, days int) time.Time {
	return t.Add(time.Duration(days) * 24 * time.Hour)
}
