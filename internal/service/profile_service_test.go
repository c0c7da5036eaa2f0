package service

import (
	"context"
	"errors"
	"fmt"
	"studyhub/internal/model"
	"studyhub/internal/repository"
	"sync"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestRecordInteractionFirstFlashcardFlip(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	req := func() *model.InteractionRequest {
		return &model.InteractionRequest{ContentID: "f1", ContentType: model.ContentFlashcard, IsRead: boolPtr(true)}
	}

	res, err := h.profiles.RecordInteraction(ctx, "ana", req())
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if res.XPAwarded != 1 || len(res.NewAchievements) != 1 || res.NewAchievements[0] != "Primeira Virada" {
		t.Fatalf("result=%+v", res)
	}

	res, err = h.profiles.RecordInteraction(ctx, "ana", req())
	if err != nil || res.XPAwarded != 0 || len(res.NewAchievements) != 0 {
		t.Fatalf("second flip result=%+v err=%v", res, err)
	}

	u, _ := h.users.GetByID(ctx, "ana")
	if u.XP != 1 {
		t.Fatalf("xp=%d", u.XP)
	}
	if h.leaderboard.xp["ana"] != 1 {
		t.Fatalf("xp leaderboard=%v", h.leaderboard.xp)
	}
}

func TestRecordInteractionSummaryReadUnlocksWithoutXP(t *testing.T) {
	h := newHarness()
	res, err := h.profiles.RecordInteraction(context.Background(), "ana",
		&model.InteractionRequest{ContentID: "s1", ContentType: model.ContentSummary, IsRead: boolPtr(true)})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if res.XPAwarded != 0 || len(res.NewAchievements) != 1 || res.NewAchievements[0] != "Leitor Iniciante" {
		t.Fatalf("result=%+v", res)
	}
}

func TestRecordInteractionValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	cases := []*model.InteractionRequest{
		{ContentID: "", ContentType: model.ContentSummary, IsRead: boolPtr(true)},
		{ContentID: "x", ContentType: "podcast", IsRead: boolPtr(true)},
		{ContentID: "x", ContentType: model.ContentSummary},
	}
	for i, req := range cases {
		if _, err := h.profiles.RecordInteraction(ctx, "ana", req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d err=%v", i, err)
		}
	}
}

func TestApplyAnswerUnknownUser(t *testing.T) {
	h := newHarness()
	if _, _, err := h.profiles.ApplyAnswer(context.Background(), "ghost", model.StatsDelta{XP: 10}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestGlobalLeaderboardAndProfile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.profiles.ApplyAnswer(ctx, "ana", model.StatsDelta{CorrectFirstTry: true, XP: 10})
	h.profiles.ApplyAnswer(ctx, "bia", model.StatsDelta{CorrectFirstTry: true, XP: 10})
	h.profiles.ApplyAnswer(ctx, "bia", model.StatsDelta{XP: 100})

	top, err := h.profiles.GlobalLeaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("GlobalLeaderboard: %v", err)
	}
	if len(top) != 2 || top[0].Pseudonym != "bia" || top[0].XP != 110 || top[0].Level != 2 {
		t.Fatalf("top=%+v", top)
	}

	p, err := h.profiles.Get(ctx, "bia")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Rank != 1 || p.LevelProgress != 10 || p.User.Level != 2 {
		t.Fatalf("profile=%+v", p)
	}
}

func TestConcurrentAnswersAllReachTheProfile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	const n = 20
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i)
		h.notebooks.rows[id] = model.QuestionNotebook{ID: id, UserID: "ana", QuestionIDs: []string{"q1"}}
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := h.notebooksSvc.Submit(ctx, "ana", fmt.Sprintf("p%d", i), "A"); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Submit: %v", err)
	}

	if len(h.answers.rows) != n {
		t.Fatalf("answers=%d", len(h.answers.rows))
	}
	u, _ := h.users.GetByID(ctx, "ana")
	if u.Stats.QuestionsAnswered != n || u.Stats.CorrectAnswers != n || u.XP != n*10 {
		t.Fatalf("stats=%+v xp=%d", u.Stats, u.XP)
	}
	if u.Stats.TopicPerformance["Biologia"].Total != n {
		t.Fatalf("topics=%v", u.Stats.TopicPerformance)
	}
	if h.leaderboard.xp["ana"] != n*10 {
		t.Fatalf("xp leaderboard=%d", h.leaderboard.xp["ana"])
	}
}

func TestApplyAnswerRereadsAfterVersionConflict(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	stale, _ := h.users.GetByID(ctx, "ana")
	if _, _, err := h.profiles.ApplyAnswer(ctx, "ana", model.StatsDelta{CorrectFirstTry: true, Topic: "Física", XP: 10}); err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	stale.XP = 999
	if err := h.users.Update(ctx, stale); !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("stale update err=%v", err)
	}

	u, _, err := h.profiles.ApplyAnswer(ctx, "ana", model.StatsDelta{Topic: "Física", XP: 2})
	if err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	if u.XP != 12 || u.Stats.QuestionsAnswered != 2 || u.Stats.Streak != 0 {
		t.Fatalf("user=%+v", u)
	}
}
