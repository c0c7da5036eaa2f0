package notebook

import (
	"studyhub/internal/model"
	"time"
)

// State is the answering state of one question for one user inside one
// notebook. It is a value: Submit returns a new State and leaves its input
// untouched.
type State struct {
	UserID         string
	NotebookID     string
	Question       model.Question
	Status         model.AttemptStatus
	Outcome        model.AttemptOutcome
	SelectedOption string
	WrongAnswers   []string // Rejected options in rejection order
	Recorded       bool     // An answer row already existed when the state was loaded
}

// PersistAnswerCommand is emitted on the transition into COMPLETED. The
// driver writes Answer and, only if the write created it, applies Delta.
type PersistAnswerCommand struct {
	Answer model.UserQuestionAnswer
	Delta  model.StatsDelta
}

// Load derives the initial state for q from the persisted answer, if any
func Load(userID, notebookID string, q model.Question, existing *model.UserQuestionAnswer) State {
	s := State{
		UserID:     userID,
		NotebookID: notebookID,
		Question:   q,
		Status:     model.AttemptUnanswered,
	}
	if existing == nil {
		return s
	}

	s.Status = model.AttemptCompleted
	s.Recorded = true
	correct := false
	for _, a := range existing.Attempts {
		if a == q.CorrectAnswer {
			correct = true
			continue
		}
		if !contains(s.WrongAnswers, a) {
			s.WrongAnswers = append(s.WrongAnswers, a)
		}
	}
	if correct {
		s.Outcome = model.OutcomeCorrect
		s.SelectedOption = q.CorrectAnswer
	} else {
		s.Outcome = model.OutcomeExhausted
		if n := len(existing.Attempts); n > 0 {
			s.SelectedOption = existing.Attempts[n-1]
		}
	}
	return s
}

// Restore rebuilds an in-progress state from a cached attempt. A cached
// attempt for a different question is ignored.
func Restore(userID, notebookID string, q model.Question, cached *model.AttemptState) State {
	s := Load(userID, notebookID, q, nil)
	if cached == nil || cached.QuestionID != q.ID {
		return s
	}
	s.Status = cached.Status
	s.Outcome = cached.Outcome
	s.SelectedOption = cached.SelectedOption
	s.WrongAnswers = append([]string(nil), cached.WrongAnswers...)
	s.Recorded = cached.Recorded
	return s
}

// Attempt converts the state into its cacheable form
func (s State) Attempt() *model.AttemptState {
	return &model.AttemptState{
		QuestionID:     s.Question.ID,
		Status:         s.Status,
		Outcome:        s.Outcome,
		SelectedOption: s.SelectedOption,
		WrongAnswers:   append([]string{}, s.WrongAnswers...),
		Recorded:       s.Recorded,
		UpdatedAt:      time.Now(),
	}
}

// Completed reports whether the question reached a terminal state
func (s State) Completed() bool {
	return s.Status == model.AttemptCompleted
}

// IsRejected reports whether option was already tried and rejected
func (s State) IsRejected(option string) bool {
	return contains(s.WrongAnswers, option)
}

// HintCount is the number of hints visible in this state
func (s State) HintCount() int {
	n := len(s.Question.Hints)
	if s.Outcome == model.OutcomeCorrect {
		return n
	}
	if w := len(s.WrongAnswers); w < n {
		return w
	}
	return n
}

// RevealedHints returns the visible prefix of the question's hints
func (s State) RevealedHints() []string {
	return append([]string{}, s.Question.Hints[:s.HintCount()]...)
}

// Submit applies one option selection. Rejected submissions return the
// input state unchanged together with an error wrapping ErrValidation.
func Submit(s State, option string) (State, *PersistAnswerCommand, error) {
	if s.Completed() {
		return s, nil, ErrAlreadyCompleted
	}
	if !s.Question.HasOption(option) {
		return s, nil, ErrUnknownOption
	}
	if s.IsRejected(option) {
		return s, nil, ErrOptionRejected
	}

	priorWrong := len(s.WrongAnswers)
	next := s
	next.WrongAnswers = append([]string(nil), s.WrongAnswers...)
	next.SelectedOption = option

	if option == s.Question.CorrectAnswer {
		next.Status = model.AttemptCompleted
		next.Outcome = model.OutcomeCorrect
	} else {
		next.WrongAnswers = append(next.WrongAnswers, option)
		if len(next.WrongAnswers) >= MaxWrongAttempts {
			next.Status = model.AttemptCompleted
			next.Outcome = model.OutcomeExhausted
		} else {
			next.Status = model.AttemptAttempting
		}
	}

	if !next.Completed() || s.Recorded {
		return next, nil, nil
	}

	attempts := append(append([]string(nil), s.WrongAnswers...), option)
	firstTry := len(attempts) == 1 && attempts[0] == s.Question.CorrectAnswer
	xp := 0
	if next.Outcome == model.OutcomeCorrect {
		xp = XPForWrongCount(priorWrong)
	}

	cmd := &PersistAnswerCommand{
		Answer: model.UserQuestionAnswer{
			UserID:            s.UserID,
			NotebookID:        s.NotebookID,
			QuestionID:        s.Question.ID,
			Attempts:          attempts,
			IsCorrectFirstTry: firstTry,
			XPAwarded:         xp,
		},
		Delta: model.StatsDelta{
			CorrectFirstTry: firstTry,
			Topic:           s.Question.TopicOrDefault(),
			XP:              xp,
		},
	}
	return next, cmd, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
