package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"studyhub/internal/cache"
	"studyhub/internal/logger"
	"studyhub/internal/model"
	"studyhub/internal/profile"
	"studyhub/internal/repository"

	"golang.org/x/sync/errgroup"
)

// XP for the first flip of each flashcard
const flashcardFlipXP = 1

// Bounds re-reads when many requests update one user at once
const maxProfileWriteAttempts = 32

// ProfileService owns user stats, XP and achievements. Every mutation runs
// the same pipeline: reduce, evaluate achievements, persist, rank.
type ProfileService struct {
	userRepo        repository.UserRepo
	interactionRepo repository.InteractionRepo
	leaderboard     cache.LeaderboardCache
	broadcaster     Broadcaster
	log             *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo repository.UserRepo,
	interactionRepo repository.InteractionRepo,
	leaderboard cache.LeaderboardCache,
	log *logger.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		leaderboard:     leaderboard,
		log:             log,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ProfileService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ApplyAnswer folds one recorded answer into the user's profile and returns
// the updated user with any newly unlocked achievements
func (s *ProfileService) ApplyAnswer(ctx context.Context, userID string, delta model.StatsDelta) (*model.User, []string, error) {
	return s.commit(ctx, userID, func(u model.User) model.User {
		return profile.ApplyStatsDelta(u, delta)
	})
}

// RecordInteraction stores read/favorite flags. The first time a flashcard
// is flipped it is worth XP; any read may unlock an achievement.
func (s *ProfileService) RecordInteraction(ctx context.Context, userID string, req *model.InteractionRequest) (*model.InteractionResult, error) {
	req.ContentID = strings.TrimSpace(req.ContentID)
	if req.ContentID == "" || !req.ContentType.Valid() {
		return nil, fmt.Errorf("%w: contentId and a known contentType are required", ErrInvalidInput)
	}
	if req.IsRead == nil && req.IsFavorite == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	previous, err := s.interactionRepo.Upsert(ctx, userID, *req)
	if err != nil {
		return nil, fmt.Errorf("save interaction: %w", err)
	}

	result := &model.InteractionResult{Interaction: mergeInteraction(userID, previous, req)}
	nowRead := req.IsRead != nil && *req.IsRead
	wasRead := previous != nil && previous.IsRead
	if !nowRead || wasRead {
		return result, nil
	}

	reduce := func(u model.User) model.User { return u }
	if req.ContentType == model.ContentFlashcard {
		reduce = func(u model.User) model.User { return profile.AddXP(u, flashcardFlipXP) }
		result.XPAwarded = flashcardFlipXP
	}
	_, newly, err := s.commit(ctx, userID, reduce)
	if err != nil {
		return nil, err
	}
	result.NewAchievements = newly
	return result, nil
}

func mergeInteraction(userID string, previous *model.UserContentInteraction, req *model.InteractionRequest) model.UserContentInteraction {
	out := model.UserContentInteraction{UserID: userID, ContentID: req.ContentID, ContentType: req.ContentType}
	if previous != nil {
		out = *previous
	}
	if req.IsRead != nil {
		out.IsRead = *req.IsRead
	}
	if req.IsFavorite != nil {
		out.IsFavorite = *req.IsFavorite
	}
	return out
}

// commit applies reduce to the stored user, evaluates achievements and
// persists the result. A write that lost a race re-reads the user and runs
// reduce again, so each call lands exactly once.
func (s *ProfileService) commit(ctx context.Context, userID string, reduce func(model.User) model.User) (*model.User, []string, error) {
	counts, err := s.interactionCounts(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 1; ; attempt++ {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return nil, nil, ErrNotFound
		}

		u, newly := profile.EvaluateAchievements(reduce(*user), counts)
		err = s.userRepo.Update(ctx, &u)
		if errors.Is(err, repository.ErrVersionConflict) && attempt < maxProfileWriteAttempts {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("save user: %w", err)
		}
		s.publish(ctx, u, newly)
		return &u, newly, nil
	}
}

// publish updates the XP ranking and announces unlocks for a committed user
func (s *ProfileService) publish(ctx context.Context, u model.User, newly []string) {
	if err := s.leaderboard.UpdateXP(ctx, u.ID, u.XP); err != nil {
		s.log.Warn("xp leaderboard update failed", "userId", u.ID, "error", err)
	}

	if len(newly) > 0 {
		s.log.Info("achievements unlocked", "userId", u.ID, "titles", newly)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToUser(u.ID, EventAchievementsUnlocked, map[string]interface{}{
				"achievements": newly,
				"xp":           u.XP,
				"level":        u.Level,
			})
		}
	}
}

func (s *ProfileService) interactionCounts(ctx context.Context, userID string) (profile.InteractionCounts, error) {
	var flashcards, summaries, mindMaps int64
	g, gctx := errgroup.WithContext(ctx)
	count := func(t model.ContentType, dst *int64) {
		g.Go(func() error {
			n, err := s.interactionRepo.CountRead(gctx, userID, t)
			*dst = n
			return err
		})
	}
	count(model.ContentFlashcard, &flashcards)
	count(model.ContentSummary, &summaries)
	count(model.ContentMindMap, &mindMaps)
	if err := g.Wait(); err != nil {
		return profile.InteractionCounts{}, fmt.Errorf("count interactions: %w", err)
	}
	return profile.InteractionCounts{
		FlashcardsFlipped: int(flashcards),
		SummariesRead:     int(summaries),
		MindMapsRead:      int(mindMaps),
	}, nil
}

// Get returns the user's profile with level progress and global rank
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	rank, err := s.leaderboard.GetRank(ctx, userID)
	if err != nil {
		s.log.Warn("xp rank lookup failed", "userId", userID, "error", err)
		rank = -1
	}
	return &model.ProfileView{
		User:          user,
		LevelProgress: profile.LevelProgress(user.XP),
		Rank:          rank,
	}, nil
}

// GlobalLeaderboard returns the top users by XP
func (s *ProfileService) GlobalLeaderboard(ctx context.Context, limit int) ([]model.XPEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.leaderboard.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read xp leaderboard: %w", err)
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Pseudonym
	}
	for i := range entries {
		entries[i].Pseudonym = names[entries[i].UserID]
		entries[i].Level = profile.Level(entries[i].XP)
	}
	return entries, nil
}
