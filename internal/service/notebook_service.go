package service

import (
	"context"
	"fmt"
	"strings"
	"studyhub/internal/cache"
	"studyhub/internal/logger"
	"studyhub/internal/model"
	"studyhub/internal/notebook"
	"studyhub/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Shown when an answer was graded but could not be stored
const persistFailedNotice = "Your answer could not be saved. Open this question again to retry."

// Direction moves the cursor one step
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// NotebookService drives answering sessions. The answering rules live in
// the notebook package; this service loads state, executes the commands
// they emit and keeps the cursor in the session cache.
type NotebookService struct {
	questionRepo    repository.QuestionRepo
	notebookRepo    repository.NotebookRepo
	answerRepo      repository.AnswerRepo
	interactionRepo repository.InteractionRepo
	userRepo        repository.UserRepo
	sessions        cache.SessionCache
	leaderboard     cache.LeaderboardCache
	profileSvc      *ProfileService
	broadcaster     Broadcaster
	log             *logger.Logger
}

// NewNotebookService creates a new notebook service
func NewNotebookService(
	questionRepo repository.QuestionRepo,
	notebookRepo repository.NotebookRepo,
	answerRepo repository.AnswerRepo,
	interactionRepo repository.InteractionRepo,
	userRepo repository.UserRepo,
	sessions cache.SessionCache,
	leaderboard cache.LeaderboardCache,
	profileSvc *ProfileService,
	log *logger.Logger,
) *NotebookService {
	return &NotebookService{
		questionRepo:    questionRepo,
		notebookRepo:    notebookRepo,
		answerRepo:      answerRepo,
		interactionRepo: interactionRepo,
		userRepo:        userRepo,
		sessions:        sessions,
		leaderboard:     leaderboard,
		profileSvc:      profileSvc,
		log:             log,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *NotebookService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// session is everything one request needs about a user inside a notebook
type session struct {
	name      string
	questions []model.Question
	answers   map[string]*model.UserQuestionAnswer
	snap      *model.SessionSnapshot
}

func (ss *session) cursor() notebook.Cursor {
	return notebook.Cursor{Index: ss.snap.CurrentIndex, Len: len(ss.questions)}.Clamp()
}

func (ss *session) answeredSet() map[string]bool {
	set := make(map[string]bool, len(ss.answers))
	for id := range ss.answers {
		set[id] = true
	}
	return set
}

// resolve materializes a notebook's questions, including the two pseudo
// notebooks
func (s *NotebookService) resolve(ctx context.Context, userID, notebookID string) (string, []model.Question, error) {
	switch notebookID {
	case model.AllQuestionsNotebookID:
		questions, err := s.questionRepo.GetAll(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("load questions: %w", err)
		}
		return "All questions", questions, nil

	case model.FavoritesNotebookID:
		ids, err := s.interactionRepo.FavoriteQuestionIDs(ctx, userID)
		if err != nil {
			return "", nil, fmt.Errorf("load favorites: %w", err)
		}
		questions, err := s.questionRepo.GetByIDs(ctx, ids)
		if err != nil {
			return "", nil, fmt.Errorf("load questions: %w", err)
		}
		return "Favorites", notebook.Materialize(ids, questions), nil
	}

	nb, err := s.notebookRepo.GetByID(ctx, notebookID)
	if err != nil {
		return "", nil, fmt.Errorf("load notebook: %w", err)
	}
	if nb == nil {
		return "", nil, ErrNotFound
	}
	questions, err := s.questionRepo.GetByIDs(ctx, nb.QuestionIDs)
	if err != nil {
		return "", nil, fmt.Errorf("load questions: %w", err)
	}
	return nb.Name, notebook.Materialize(nb.QuestionIDs, questions), nil
}

// load fetches questions, the user's answers and the cached cursor in
// parallel. A cursor cached for a different question list starts over.
func (s *NotebookService) load(ctx context.Context, userID, notebookID string) (*session, error) {
	ss := &session{}
	var answers []model.UserQuestionAnswer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ss.name, ss.questions, err = s.resolve(gctx, userID, notebookID)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.answerRepo.ListByUserNotebook(gctx, userID, notebookID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ss.snap, err = s.sessions.Get(gctx, userID, notebookID)
		if err != nil {
			// cache loss only costs the cursor position
			s.log.Warn("session cache read failed", "userId", userID, "notebookId", notebookID, "error", err)
			ss.snap = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, len(ss.questions))
	present := make(map[string]bool, len(ss.questions))
	for i, q := range ss.questions {
		ids[i] = q.ID
		present[q.ID] = true
	}

	// answers to questions removed from the notebook do not count
	ss.answers = make(map[string]*model.UserQuestionAnswer, len(answers))
	for i := range answers {
		if present[answers[i].QuestionID] {
			ss.answers[answers[i].QuestionID] = &answers[i]
		}
	}
	if ss.snap == nil || !sameIDs(ss.snap.QuestionIDs, ids) {
		ss.snap = &model.SessionSnapshot{UserID: userID, NotebookID: notebookID}
	}
	ss.snap.QuestionIDs = ids
	ss.snap.CurrentIndex = ss.cursor().Index
	return ss, nil
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// state rebuilds the answering state of the question under the cursor
func (s *NotebookService) state(userID, notebookID string, ss *session) (notebook.State, bool) {
	if len(ss.questions) == 0 {
		return notebook.State{}, false
	}
	q := ss.questions[ss.cursor().Index]
	if existing := ss.answers[q.ID]; existing != nil {
		return notebook.Load(userID, notebookID, q, existing), true
	}
	return notebook.Restore(userID, notebookID, q, ss.snap.Attempt), true
}

func (s *NotebookService) save(ctx context.Context, ss *session) {
	if err := s.sessions.Set(ctx, ss.snap); err != nil {
		s.log.Warn("session cache write failed", "userId", ss.snap.UserID, "notebookId", ss.snap.NotebookID, "error", err)
	}
}

func (s *NotebookService) view(ss *session, st notebook.State, ok bool) *model.SessionView {
	v := &model.SessionView{
		NotebookID:   ss.snap.NotebookID,
		NotebookName: ss.name,
		CurrentIndex: ss.cursor().Index,
		Total:        len(ss.questions),
		Status:       model.AttemptUnanswered,
		WrongAnswers: []string{},
		Answered:     len(ss.answers),
	}
	v.Progress = notebook.Progress(v.Answered, v.Total)
	if !ok {
		return v
	}

	q := st.Question
	v.Question = &model.QuestionView{
		ID:           q.ID,
		Topic:        q.TopicOrDefault(),
		Difficulty:   q.Difficulty,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		Hints:        st.RevealedHints(),
		TotalHints:   len(q.Hints),
	}
	if st.Completed() {
		v.Question.CorrectAnswer = q.CorrectAnswer
		v.Question.Explanation = q.Explanation
	}
	v.Status = st.Status
	v.Outcome = st.Outcome
	v.SelectedOption = st.SelectedOption
	v.WrongAnswers = append(v.WrongAnswers, st.WrongAnswers...)
	return v
}

// Open starts or resumes a session and returns the current question
func (s *NotebookService) Open(ctx context.Context, userID, notebookID string) (*model.SessionView, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	s.save(ctx, ss)
	st, ok := s.state(userID, notebookID, ss)
	return s.view(ss, st, ok), nil
}

// Current returns the question under the cursor without changing anything
func (s *NotebookService) Current(ctx context.Context, userID, notebookID string) (*model.SessionView, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	st, ok := s.state(userID, notebookID, ss)
	return s.view(ss, st, ok), nil
}

// Navigate moves to the next or previous question, staying put at the ends
func (s *NotebookService) Navigate(ctx context.Context, userID, notebookID string, dir Direction) (*model.SessionView, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	c := ss.cursor()
	switch dir {
	case DirectionNext:
		c = c.Next()
	case DirectionPrevious:
		c = c.Previous()
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, dir)
	}
	return s.moveTo(ctx, userID, notebookID, ss, c.Index, false), nil
}

// Jump moves the cursor to index
func (s *NotebookService) Jump(ctx context.Context, userID, notebookID string, index int) (*model.SessionView, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(ss.questions) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidInput, index)
	}
	return s.moveTo(ctx, userID, notebookID, ss, index, false), nil
}

// NextUnanswered moves to the next question without an answer, wrapping
// around. AllAnswered is set when there is none.
func (s *NotebookService) NextUnanswered(ctx context.Context, userID, notebookID string) (*model.SessionView, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	index, ok := notebook.NextUnanswered(ss.questions, ss.cursor().Index, ss.answeredSet())
	return s.moveTo(ctx, userID, notebookID, ss, index, !ok), nil
}

func (s *NotebookService) moveTo(ctx context.Context, userID, notebookID string, ss *session, index int, allAnswered bool) *model.SessionView {
	if index != ss.snap.CurrentIndex {
		// in-progress attempts do not survive leaving the question
		ss.snap.Attempt = nil
	}
	ss.snap.CurrentIndex = index
	s.save(ctx, ss)
	st, ok := s.state(userID, notebookID, ss)
	v := s.view(ss, st, ok)
	v.AllAnswered = allAnswered
	return v
}

// Submit answers the question under the cursor. Stats and XP are applied
// only after the answer row was created. If the write fails the graded
// result is still returned, with a notice, and the question can be replayed.
func (s *NotebookService) Submit(ctx context.Context, userID, notebookID, option string) (*model.SessionView, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	st, ok := s.state(userID, notebookID, ss)
	if !ok {
		return nil, ErrEmptyNotebook
	}

	next, cmd, err := notebook.Submit(st, option)
	if err != nil {
		return nil, err
	}

	var (
		notice string
		xp     int
		newly  []string
	)
	if cmd != nil {
		created, err := s.answerRepo.InsertOnce(ctx, &cmd.Answer)
		switch {
		case err != nil:
			s.log.Error("answer persistence failed",
				"userId", userID, "notebookId", notebookID, "questionId", cmd.Answer.QuestionID, "error", err)
			notice = persistFailedNotice
		case created:
			next.Recorded = true
			ss.answers[cmd.Answer.QuestionID] = &cmd.Answer
			xp = cmd.Delta.XP
			newly = s.recordAnswer(ctx, userID, notebookID, cmd)
		default:
			// an earlier answer won; show it instead of this attempt
			next.Recorded = true
			winner, err := s.answerRepo.Find(ctx, userID, notebookID, cmd.Answer.QuestionID)
			if err != nil {
				s.log.Warn("answer reload failed", "userId", userID, "questionId", cmd.Answer.QuestionID, "error", err)
			} else if winner != nil {
				ss.answers[winner.QuestionID] = winner
				next = notebook.Load(userID, notebookID, st.Question, winner)
			}
		}
	}

	if next.Completed() {
		ss.snap.Attempt = nil
	} else {
		ss.snap.Attempt = next.Attempt()
	}
	s.save(ctx, ss)

	v := s.view(ss, next, true)
	v.XPAwarded = xp
	v.Achievements = newly
	v.Notice = notice
	return v, nil
}

// recordAnswer runs the post-persistence pipeline for a created answer
func (s *NotebookService) recordAnswer(ctx context.Context, userID, notebookID string, cmd *notebook.PersistAnswerCommand) []string {
	var newly []string
	if s.profileSvc != nil {
		var err error
		_, newly, err = s.profileSvc.ApplyAnswer(ctx, userID, cmd.Delta)
		if err != nil {
			s.log.Error("profile update failed", "userId", userID, "questionId", cmd.Answer.QuestionID, "error", err)
		}
	}
	if err := s.leaderboard.InvalidateNotebook(ctx, notebookID); err != nil {
		s.log.Warn("leaderboard invalidation failed", "notebookId", notebookID, "error", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToNotebook(notebookID, EventAnswerRecorded, map[string]interface{}{
			"userId":            userID,
			"questionId":        cmd.Answer.QuestionID,
			"isCorrectFirstTry": cmd.Answer.IsCorrectFirstTry,
			"xpAwarded":         cmd.Answer.XPAwarded,
		})
		if board, err := s.Leaderboard(ctx, notebookID); err == nil {
			s.broadcaster.BroadcastToNotebook(notebookID, EventLeaderboardUpdate, map[string]interface{}{
				"leaderboard": board,
			})
		}
	}
	return newly
}

// Reset deletes the user's answers in the notebook and drops the cached
// session so every question starts unanswered again
func (s *NotebookService) Reset(ctx context.Context, userID, notebookID string) (int64, error) {
	deleted, err := s.answerRepo.DeleteByUserNotebook(ctx, userID, notebookID)
	if err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}
	if err := s.sessions.Clear(ctx, userID, notebookID); err != nil {
		s.log.Warn("session cache clear failed", "userId", userID, "notebookId", notebookID, "error", err)
	}
	if err := s.leaderboard.InvalidateNotebook(ctx, notebookID); err != nil {
		s.log.Warn("leaderboard invalidation failed", "notebookId", notebookID, "error", err)
	}
	s.log.Info("notebook answers cleared", "userId", userID, "notebookId", notebookID, "deleted", deleted)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToUser(userID, EventProgressReset, map[string]interface{}{
			"notebookId": notebookID,
		})
		if board, err := s.Leaderboard(ctx, notebookID); err == nil {
			s.broadcaster.BroadcastToNotebook(notebookID, EventLeaderboardUpdate, map[string]interface{}{
				"leaderboard": board,
			})
		}
	}
	return deleted, nil
}

// Leaderboard returns the notebook's per-user tally, served from cache
// when a fresh snapshot exists. The generation is read before the answers
// so a concurrent invalidation orphans the snapshot built here.
func (s *NotebookService) Leaderboard(ctx context.Context, notebookID string) ([]model.LeaderboardEntry, error) {
	gen, genErr := s.leaderboard.NotebookGeneration(ctx, notebookID)
	if genErr != nil {
		s.log.Warn("leaderboard generation read failed", "notebookId", notebookID, "error", genErr)
	} else if cached, err := s.leaderboard.GetNotebook(ctx, notebookID, gen); err == nil && cached != nil {
		return cached, nil
	}

	answers, err := s.answerRepo.ListByNotebook(ctx, notebookID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	entries := notebook.Tally(answers)

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
	}

	if genErr == nil {
		if err := s.leaderboard.SetNotebook(ctx, notebookID, gen, entries); err != nil {
			s.log.Warn("leaderboard snapshot write failed", "notebookId", notebookID, "error", err)
		}
	}
	return entries, nil
}

// Stats returns the user's progress in the notebook and its leaderboard
func (s *NotebookService) Stats(ctx context.Context, userID, notebookID string) (*model.NotebookStats, error) {
	ss, err := s.load(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	board, err := s.Leaderboard(ctx, notebookID)
	if err != nil {
		return nil, err
	}

	mine := make([]model.UserQuestionAnswer, 0, len(ss.answers))
	for _, a := range ss.answers {
		mine = append(mine, *a)
	}
	answered, correct, progress := notebook.UserProgress(userID, mine, len(ss.questions))
	return &model.NotebookStats{
		NotebookID:      notebookID,
		Name:            ss.name,
		TotalQuestions:  len(ss.questions),
		Answered:        answered,
		CorrectFirstTry: correct,
		Accuracy:        notebook.Accuracy(correct, answered),
		Progress:        progress,
		Leaderboard:     board,
	}, nil
}

// QuestionStats returns how every user did on their first try at a question,
// across all notebooks
func (s *NotebookService) QuestionStats(ctx context.Context, questionID string) (*model.QuestionStats, error) {
	var (
		questions []model.Question
		answers   []model.UserQuestionAnswer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.questionRepo.GetByIDs(gctx, []string{questionID})
		if err != nil {
			return fmt.Errorf("load question: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		answers, err = s.answerRepo.ListByQuestion(gctx, questionID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}

	stats := notebook.QuestionStats(questions[0], answers)
	return &stats, nil
}

// CreateNotebook stores a new notebook owned by userID
func (s *NotebookService) CreateNotebook(ctx context.Context, userID string, req *model.CreateNotebookRequest) (*model.QuestionNotebook, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	nb := &model.QuestionNotebook{
		UserID:      userID,
		Name:        name,
		QuestionIDs: req.QuestionIDs,
	}
	if err := s.notebookRepo.Create(ctx, nb); err != nil {
		return nil, fmt.Errorf("create notebook: %w", err)
	}
	return nb, nil
}

// ListNotebooks returns the notebooks owned by userID
func (s *NotebookService) ListNotebooks(ctx context.Context, userID string) ([]model.QuestionNotebook, error) {
	return s.notebookRepo.ListByUser(ctx, userID)
}

// UpdateNotebook renames a notebook and replaces its question list
func (s *NotebookService) UpdateNotebook(ctx context.Context, userID, notebookID string, req *model.UpdateNotebookRequest) (*model.QuestionNotebook, error) {
	nb, err := s.owned(ctx, userID, notebookID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		nb.Name = name
	}
	if req.QuestionIDs != nil {
		nb.QuestionIDs = req.QuestionIDs
	}
	if err := s.notebookRepo.Update(ctx, nb); err != nil {
		return nil, fmt.Errorf("update notebook: %w", err)
	}
	return nb, nil
}

// DeleteNotebook removes a notebook and every answer recorded in it
func (s *NotebookService) DeleteNotebook(ctx context.Context, userID, notebookID string) error {
	if _, err := s.owned(ctx, userID, notebookID); err != nil {
		return err
	}
	if err := s.notebookRepo.Delete(ctx, notebookID); err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	if _, err := s.answerRepo.DeleteByNotebook(ctx, notebookID); err != nil {
		return fmt.Errorf("delete answers: %w", err)
	}
	if err := s.leaderboard.InvalidateNotebook(ctx, notebookID); err != nil {
		s.log.Warn("leaderboard invalidation failed", "notebookId", notebookID, "error", err)
	}
	return nil
}

func (s *NotebookService) owned(ctx context.Context, userID, notebookID string) (*model.QuestionNotebook, error) {
	if model.IsPseudoNotebook(notebookID) {
		return nil, ErrForbidden
	}
	nb, err := s.notebookRepo.GetByID(ctx, notebookID)
	if err != nil {
		return nil, fmt.Errorf("load notebook: %w", err)
	}
	if nb == nil {
		return nil, ErrNotFound
	}
	if nb.UserID != userID {
		return nil, ErrForbidden
	}
	return nb, nil
}
