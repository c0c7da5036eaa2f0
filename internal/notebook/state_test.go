package notebook

import (
	"errors"
	"reflect"
	"studyhub/internal/model"
	"testing"
)

func testQuestion() model.Question {
	return model.Question{
		ID:            "q1",
		Topic:         "Biologia",
		QuestionText:  "Qual organela produz ATP?",
		Options:       []string{"A", "B", "C", "D", "E"},
		CorrectAnswer: "C",
		Hints:         []string{"h1", "h2", "h3"},
	}
}

func mustSubmit(t *testing.T, s State, option string) (State, *PersistAnswerCommand) {
	t.Helper()
	next, cmd, err := Submit(s, option)
	if err != nil {
		t.Fatalf("Submit(%q): %v", option, err)
	}
	return next, cmd
}

func TestSubmitCorrectFirstTry(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	next, cmd := mustSubmit(t, s, "C")

	if next.Status != model.AttemptCompleted || next.Outcome != model.OutcomeCorrect {
		t.Fatalf("status=%s outcome=%s", next.Status, next.Outcome)
	}
	if cmd == nil {
		t.Fatalf("expected persist command")
	}
	if !reflect.DeepEqual(cmd.Answer.Attempts, []string{"C"}) {
		t.Fatalf("attempts=%v", cmd.Answer.Attempts)
	}
	if !cmd.Answer.IsCorrectFirstTry || cmd.Answer.XPAwarded != 10 {
		t.Fatalf("firstTry=%v xp=%d", cmd.Answer.IsCorrectFirstTry, cmd.Answer.XPAwarded)
	}
	if cmd.Delta.Topic != "Biologia" || !cmd.Delta.CorrectFirstTry || cmd.Delta.XP != 10 {
		t.Fatalf("delta=%+v", cmd.Delta)
	}
	if got := next.HintCount(); got != 3 {
		t.Fatalf("hints after correct=%d, want all", got)
	}
}

func TestSubmitWrongThenCorrect(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	s, cmd := mustSubmit(t, s, "A")
	if cmd != nil {
		t.Fatalf("no command expected while attempting")
	}
	if s.Status != model.AttemptAttempting || s.HintCount() != 1 {
		t.Fatalf("status=%s hints=%d", s.Status, s.HintCount())
	}
	s, cmd = mustSubmit(t, s, "C")
	if cmd == nil {
		t.Fatalf("expected persist command")
	}
	if !reflect.DeepEqual(cmd.Answer.Attempts, []string{"A", "C"}) {
		t.Fatalf("attempts=%v", cmd.Answer.Attempts)
	}
	if cmd.Answer.IsCorrectFirstTry || cmd.Answer.XPAwarded != 5 {
		t.Fatalf("firstTry=%v xp=%d", cmd.Answer.IsCorrectFirstTry, cmd.Answer.XPAwarded)
	}
	if s.Outcome != model.OutcomeCorrect {
		t.Fatalf("outcome=%s", s.Outcome)
	}
}

func TestSubmitThreeStrikes(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	s, _ = mustSubmit(t, s, "A")
	s, _ = mustSubmit(t, s, "B")
	if s.HintCount() != 2 {
		t.Fatalf("hints=%d", s.HintCount())
	}
	s, cmd := mustSubmit(t, s, "D")

	if s.Status != model.AttemptCompleted || s.Outcome != model.OutcomeExhausted {
		t.Fatalf("status=%s outcome=%s", s.Status, s.Outcome)
	}
	if cmd == nil {
		t.Fatalf("expected persist command")
	}
	if !reflect.DeepEqual(cmd.Answer.Attempts, []string{"A", "B", "D"}) {
		t.Fatalf("attempts=%v", cmd.Answer.Attempts)
	}
	if cmd.Answer.XPAwarded != 0 || cmd.Delta.CorrectFirstTry {
		t.Fatalf("xp=%d firstTry=%v", cmd.Answer.XPAwarded, cmd.Delta.CorrectFirstTry)
	}
	if s.HintCount() != 3 {
		t.Fatalf("hints after exhaustion=%d", s.HintCount())
	}
}

func TestSubmitRejectsRepeatedWrongOption(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	s, _ = mustSubmit(t, s, "A")

	next, cmd, err := Submit(s, "A")
	if !errors.Is(err, ErrOptionRejected) || !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v", err)
	}
	if cmd != nil || !reflect.DeepEqual(next, s) {
		t.Fatalf("rejected submit changed state")
	}
}

func TestSubmitAfterCompletedIsRejected(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	s, _ = mustSubmit(t, s, "C")

	for _, opt := range []string{"A", "C"} {
		next, cmd, err := Submit(s, opt)
		if !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("Submit(%q) err=%v", opt, err)
		}
		if cmd != nil || !reflect.DeepEqual(next, s) {
			t.Fatalf("Submit(%q) changed completed state", opt)
		}
	}
}

func TestSubmitUnknownOption(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	if _, _, err := Submit(s, "Z"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err=%v", err)
	}
}

func TestSubmitDoesNotMutateInput(t *testing.T) {
	s := Load("u1", "nb1", testQuestion(), nil)
	s, _ = mustSubmit(t, s, "A")
	before := append([]string(nil), s.WrongAnswers...)

	mustSubmit(t, s, "B")
	if !reflect.DeepEqual(s.WrongAnswers, before) {
		t.Fatalf("input wrong answers mutated: %v", s.WrongAnswers)
	}
}

func TestXPForWrongCount(t *testing.T) {
	want := map[int]int{-1: 0, 0: 10, 1: 5, 2: 2, 3: 0, 4: 0}
	for n, xp := range want {
		if got := XPForWrongCount(n); got != xp {
			t.Fatalf("XPForWrongCount(%d)=%d want %d", n, got, xp)
		}
	}
}

func TestLoadReconstructsFromAnswer(t *testing.T) {
	q := testQuestion()

	correct := Load("u1", "nb1", q, &model.UserQuestionAnswer{Attempts: []string{"A", "C"}})
	if !correct.Completed() || !correct.Recorded || correct.Outcome != model.OutcomeCorrect {
		t.Fatalf("correct state=%+v", correct)
	}
	if correct.SelectedOption != "C" || !reflect.DeepEqual(correct.WrongAnswers, []string{"A"}) {
		t.Fatalf("selected=%q wrong=%v", correct.SelectedOption, correct.WrongAnswers)
	}
	if correct.HintCount() != 3 {
		t.Fatalf("hints=%d", correct.HintCount())
	}

	exhausted := Load("u1", "nb1", q, &model.UserQuestionAnswer{Attempts: []string{"A", "B", "D"}})
	if exhausted.Outcome != model.OutcomeExhausted || exhausted.SelectedOption != "D" {
		t.Fatalf("exhausted state=%+v", exhausted)
	}
	if _, cmd, err := Submit(exhausted, "C"); !errors.Is(err, ErrAlreadyCompleted) || cmd != nil {
		t.Fatalf("recorded state accepted submit: err=%v", err)
	}
}

func TestRestoredRecordedStateEmitsNoCommand(t *testing.T) {
	q := testQuestion()
	cached := &model.AttemptState{
		QuestionID:   q.ID,
		Status:       model.AttemptAttempting,
		WrongAnswers: []string{"A"},
		Recorded:     true,
	}
	s := Restore("u1", "nb1", q, cached)
	next, cmd := mustSubmit(t, s, "C")
	if cmd != nil {
		t.Fatalf("recorded state emitted a command")
	}
	if next.Outcome != model.OutcomeCorrect {
		t.Fatalf("outcome=%s", next.Outcome)
	}
}

func TestRestoreIgnoresOtherQuestion(t *testing.T) {
	s := Restore("u1", "nb1", testQuestion(), &model.AttemptState{QuestionID: "other", Status: model.AttemptAttempting})
	if s.Status != model.AttemptUnanswered {
		t.Fatalf("status=%s", s.Status)
	}
}

func TestRevealedHintsNeverExceedHints(t *testing.T) {
	q := testQuestion()
	q.Hints = []string{"only"}
	s := Load("u1", "nb1", q, nil)
	s, _ = mustSubmit(t, s, "A")
	s, _ = mustSubmit(t, s, "B")
	if got := s.RevealedHints(); !reflect.DeepEqual(got, []string{"only"}) {
		t.Fatalf("hints=%v", got)
	}
}

func TestDefaultTopic(t *testing.T) {
	q := testQuestion()
	q.Topic = ""
	_, cmd := mustSubmit(t, Load("u1", "nb1", q, nil), "C")
	if cmd.Delta.Topic != model.DefaultTopic {
		t.Fatalf("topic=%q", cmd.Delta.Topic)
	}
}
