package profile

import (
	"sort"
	"studyhub/internal/model"
)

// Family names an achievement metric
type Family string

const (
	FamilyFlashcardsFlipped Family = "FLASHCARDS_FLIPPED"
	FamilyQuestionsCorrect  Family = "QUESTIONS_CORRECT"
	FamilyStreak            Family = "STREAK"
	FamilySummariesRead     Family = "SUMMARIES_READ"
	FamilyMindMapsRead      Family = "MIND_MAPS_READ"
)

// Tier unlocks Title once the family's metric reaches Count
type Tier struct {
	Count int    `json:"count"`
	Title string `json:"title"`
}

// Tiers lists every family's thresholds in ascending order
var Tiers = map[Family][]Tier{
	FamilyFlashcardsFlipped: {
		{1, "Primeira Virada"},
		{10, "Memória Afiada"},
		{50, "Mestre dos Flashcards"},
	},
	FamilyQuestionsCorrect: {
		{1, "Primeiro Acerto"},
		{10, "Estudante Dedicado"},
		{50, "Sabe-Tudo"},
		{100, "Enciclopédia Viva"},
	},
	FamilyStreak: {
		{3, "Em Chamas"},
		{5, "Imparável"},
		{10, "Lenda da Sequência"},
	},
	FamilySummariesRead: {
		{1, "Leitor Iniciante"},
		{10, "Leitor Voraz"},
		{50, "Bibliotecário"},
	},
	FamilyMindMapsRead: {
		{1, "Explorador de Mapas"},
		{10, "Cartógrafo do Saber"},
	},
}

// InteractionCounts holds the metrics that come from content interactions
// rather than from the user record itself
type InteractionCounts struct {
	FlashcardsFlipped int `json:"flashcardsFlipped"`
	SummariesRead     int `json:"summariesRead"`
	MindMapsRead      int `json:"mindMapsRead"`
}

func metrics(u model.User, c InteractionCounts) map[Family]int {
	return map[Family]int{
		FamilyFlashcardsFlipped: c.FlashcardsFlipped,
		FamilyQuestionsCorrect:  u.Stats.CorrectAnswers,
		FamilyStreak:            u.Stats.Streak,
		FamilySummariesRead:     c.SummariesRead,
		FamilyMindMapsRead:      c.MindMapsRead,
	}
}

// EvaluateAchievements returns a copy of u holding the union of its titles
// and every tier its metrics now reach, sorted. newly lists the titles that
// were not held before, also sorted.
func EvaluateAchievements(u model.User, c InteractionCounts) (model.User, []string) {
	held := make(map[string]bool, len(u.Achievements))
	for _, a := range u.Achievements {
		held[a] = true
	}

	var newly []string
	for family, value := range metrics(u, c) {
		for _, tier := range Tiers[family] {
			if tier.Count <= value && !held[tier.Title] {
				held[tier.Title] = true
				newly = append(newly, tier.Title)
			}
		}
	}

	out := u.Clone()
	out.Achievements = make([]string, 0, len(held))
	for title := range held {
		out.Achievements = append(out.Achievements, title)
	}
	sort.Strings(out.Achievements)
	sort.Strings(newly)
	return out, newly
}
