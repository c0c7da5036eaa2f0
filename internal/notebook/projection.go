package notebook

import (
	"sort"
	"studyhub/internal/model"
)

// Tally folds a notebook's answers into per-user {correct, total} entries,
// ordered by correct descending. Ties keep first-appearance order.
func Tally(answers []model.UserQuestionAnswer) []model.LeaderboardEntry {
	index := make(map[string]int)
	entries := []model.LeaderboardEntry{}
	for _, a := range answers {
		i, ok := index[a.UserID]
		if !ok {
			i = len(entries)
			index[a.UserID] = i
			entries = append(entries, model.LeaderboardEntry{UserID: a.UserID})
		}
		entries[i].Total++
		if a.IsCorrectFirstTry {
			entries[i].Correct++
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Correct > entries[b].Correct
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Progress is answered/total as a percentage; an empty notebook is 0%
func Progress(answered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(answered) / float64(total) * 100
}

// Accuracy is the first-try-correct share of answered questions as a percentage
func Accuracy(correctFirstTry, answered int) float64 {
	if answered <= 0 {
		return 0
	}
	return float64(correctFirstTry) / float64(answered) * 100
}

// UserProgress summarizes one user's answers in a notebook of total questions
func UserProgress(userID string, answers []model.UserQuestionAnswer, total int) (answered, correctFirstTry int, progress float64) {
	for _, a := range answers {
		if a.UserID != userID {
			continue
		}
		answered++
		if a.IsCorrectFirstTry {
			correctFirstTry++
		}
	}
	return answered, correctFirstTry, Progress(answered, total)
}

// QuestionStats summarizes the first tries recorded for q. Answers to other
// questions are ignored. The distribution covers every option of q, most
// picked first; equal counts keep option order.
func QuestionStats(q model.Question, answers []model.UserQuestionAnswer) model.QuestionStats {
	stats := model.QuestionStats{
		QuestionID:   q.ID,
		QuestionText: q.QuestionText,
		Distribution: make([]model.OptionCount, len(q.Options)),
	}
	picks := make(map[string]int, len(q.Options))
	for _, a := range answers {
		if a.QuestionID != q.ID || len(a.Attempts) == 0 {
			continue
		}
		stats.Total++
		if a.IsCorrectFirstTry {
			stats.Correct++
		}
		picks[a.Attempts[0]]++
	}
	stats.Incorrect = stats.Total - stats.Correct

	for i, o := range q.Options {
		stats.Distribution[i] = model.OptionCount{
			Option:     o,
			Count:      picks[o],
			Percentage: Progress(picks[o], stats.Total),
		}
	}
	sort.SliceStable(stats.Distribution, func(a, b int) bool {
		return stats.Distribution[a].Count > stats.Distribution[b].Count
	})
	return stats
}
