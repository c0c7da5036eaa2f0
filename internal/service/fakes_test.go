package service

import (
	"context"
	"errors"
	"sort"
	"studyhub/internal/logger"
	"studyhub/internal/model"
	"studyhub/internal/repository"
	"sync"
)

type fakeQuestions struct {
	all []model.Question
}

func (f *fakeQuestions) Create(ctx context.Context, q *model.Question) error {
	f.all = append(f.all, *q)
	return nil
}

func (f *fakeQuestions) GetAll(ctx context.Context) ([]model.Question, error) {
	return append([]model.Question{}, f.all...), nil
}

func (f *fakeQuestions) GetByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Question
	for _, q := range f.all {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeNotebooks struct {
	mu   sync.Mutex
	rows map[string]model.QuestionNotebook
	seq  int
}

func newFakeNotebooks() *fakeNotebooks {
	return &fakeNotebooks{rows: map[string]model.QuestionNotebook{}}
}

func (f *fakeNotebooks) Create(ctx context.Context, nb *model.QuestionNotebook) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if nb.ID == "" {
		f.seq++
		nb.ID = "nb" + string(rune('0'+f.seq))
	}
	f.rows[nb.ID] = *nb
	return nil
}

func (f *fakeNotebooks) GetByID(ctx context.Context, id string) (*model.QuestionNotebook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nb, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &nb, nil
}

func (f *fakeNotebooks) ListByUser(ctx context.Context, userID string) ([]model.QuestionNotebook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.QuestionNotebook{}
	for _, nb := range f.rows {
		if nb.UserID == userID {
			out = append(out, nb)
		}
	}
	return out, nil
}

func (f *fakeNotebooks) Update(ctx context.Context, nb *model.QuestionNotebook) error {
	return f.Create(ctx, nb)
}

func (f *fakeNotebooks) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeAnswers struct {
	mu           sync.Mutex
	rows         []model.UserQuestionAnswer
	failErr      error
	beforeInsert func()
	onList       func() // runs inside ListByNotebook, after the read
}

func (f *fakeAnswers) Find(ctx context.Context, userID, notebookID, questionID string) (*model.UserQuestionAnswer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.UserID == userID && a.NotebookID == notebookID && a.QuestionID == questionID {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAnswers) filter(keep func(model.UserQuestionAnswer) bool) []model.UserQuestionAnswer {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.UserQuestionAnswer{}
	for _, a := range f.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeAnswers) ListByUserNotebook(ctx context.Context, userID, notebookID string) ([]model.UserQuestionAnswer, error) {
	return f.filter(func(a model.UserQuestionAnswer) bool { return a.UserID == userID && a.NotebookID == notebookID }), nil
}

func (f *fakeAnswers) ListByNotebook(ctx context.Context, notebookID string) ([]model.UserQuestionAnswer, error) {
	out := f.filter(func(a model.UserQuestionAnswer) bool { return a.NotebookID == notebookID })
	if f.onList != nil {
		f.onList()
	}
	return out, nil
}

func (f *fakeAnswers) ListByQuestion(ctx context.Context, questionID string) ([]model.UserQuestionAnswer, error) {
	return f.filter(func(a model.UserQuestionAnswer) bool { return a.QuestionID == questionID }), nil
}

func (f *fakeAnswers) InsertOnce(ctx context.Context, answer *model.UserQuestionAnswer) (bool, error) {
	if f.failErr != nil {
		return false, f.failErr
	}
	if f.beforeInsert != nil {
		f.beforeInsert()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.rows {
		if a.UserID == answer.UserID && a.NotebookID == answer.NotebookID && a.QuestionID == answer.QuestionID {
			return false, nil
		}
	}
	f.rows = append(f.rows, *answer)
	return true, nil
}

func (f *fakeAnswers) deleteWhere(match func(model.UserQuestionAnswer) bool) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	var n int64
	for _, a := range f.rows {
		if match(a) {
			n++
			continue
		}
		kept = append(kept, a)
	}
	f.rows = kept
	return n
}

func (f *fakeAnswers) DeleteByUserNotebook(ctx context.Context, userID, notebookID string) (int64, error) {
	return f.deleteWhere(func(a model.UserQuestionAnswer) bool { return a.UserID == userID && a.NotebookID == notebookID }), nil
}

func (f *fakeAnswers) DeleteByNotebook(ctx context.Context, notebookID string) (int64, error) {
	return f.deleteWhere(func(a model.UserQuestionAnswer) bool { return a.NotebookID == notebookID }), nil
}

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]model.User
}

func newFakeUsers(users ...model.User) *fakeUsers {
	f := &fakeUsers{rows: map[string]model.User{}}
	for _, u := range users {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Pseudonym == u.Pseudonym {
			return repository.ErrDuplicateUser
		}
	}
	if u.ID == "" {
		u.ID = "user-" + u.Pseudonym
	}
	f.rows[u.ID] = u.Clone()
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	u = u.Clone()
	return &u, nil
}

func (f *fakeUsers) GetByPseudonym(ctx context.Context, pseudonym string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Pseudonym == pseudonym {
			u = u.Clone()
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(ctx context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.rows[u.ID]
	if !ok || stored.Version != u.Version {
		return repository.ErrVersionConflict
	}
	u.Version++
	f.rows[u.ID] = u.Clone()
	return nil
}

func (f *fakeUsers) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.User{}
	for _, id := range ids {
		if u, ok := f.rows[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type interactionKey struct {
	userID, contentID string
	contentType       model.ContentType
}

type fakeInteractions struct {
	mu   sync.Mutex
	rows map[interactionKey]model.UserContentInteraction
	seq  int
}

func newFakeInteractions() *fakeInteractions {
	return &fakeInteractions{rows: map[interactionKey]model.UserContentInteraction{}}
}

func (f *fakeInteractions) Upsert(ctx context.Context, userID string, req model.InteractionRequest) (*model.UserContentInteraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := interactionKey{userID, req.ContentID, req.ContentType}
	prev, existed := f.rows[key]
	next := prev
	if !existed {
		next = model.UserContentInteraction{UserID: userID, ContentID: req.ContentID, ContentType: req.ContentType}
	}
	if req.IsRead != nil {
		next.IsRead = *req.IsRead
	}
	if req.IsFavorite != nil {
		next.IsFavorite = *req.IsFavorite
	}
	f.seq++
	next.ID = string(rune('a' + f.seq))
	f.rows[key] = next
	if !existed {
		return nil, nil
	}
	return &prev, nil
}

func (f *fakeInteractions) CountRead(ctx context.Context, userID string, t model.ContentType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, v := range f.rows {
		if k.userID == userID && k.contentType == t && v.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeInteractions) FavoriteQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for k, v := range f.rows {
		if k.userID == userID && k.contentType == model.ContentQuestion && v.IsFavorite {
			ids = append(ids, k.contentID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeSessions struct {
	mu   sync.Mutex
	rows map[string]model.SessionSnapshot
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: map[string]model.SessionSnapshot{}}
}

func (f *fakeSessions) Get(ctx context.Context, userID, notebookID string) (*model.SessionSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.rows[userID+"/"+notebookID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (f *fakeSessions) Set(ctx context.Context, snap *model.SessionSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[snap.UserID+"/"+snap.NotebookID] = *snap
	return nil
}

func (f *fakeSessions) Clear(ctx context.Context, userID, notebookID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, userID+"/"+notebookID)
	return nil
}

type snapshotKey struct {
	notebookID string
	gen        int64
}

type fakeLeaderboard struct {
	mu        sync.Mutex
	gens      map[string]int64
	snapshots map[snapshotKey][]model.LeaderboardEntry
	xp        map[string]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{
		gens:      map[string]int64{},
		snapshots: map[snapshotKey][]model.LeaderboardEntry{},
		xp:        map[string]int{},
	}
}

func (f *fakeLeaderboard) NotebookGeneration(ctx context.Context, notebookID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gens[notebookID], nil
}

func (f *fakeLeaderboard) GetNotebook(ctx context.Context, notebookID string, gen int64) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[snapshotKey{notebookID, gen}], nil
}

// current is the snapshot a reader would be served right now
func (f *fakeLeaderboard) current(notebookID string) []model.LeaderboardEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[snapshotKey{notebookID, f.gens[notebookID]}]
}

func (f *fakeLeaderboard) SetNotebook(ctx context.Context, notebookID string, gen int64, entries []model.LeaderboardEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[snapshotKey{notebookID, gen}] = entries
	return nil
}

func (f *fakeLeaderboard) InvalidateNotebook(ctx context.Context, notebookID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gens[notebookID]++
	return nil
}

func (f *fakeLeaderboard) UpdateXP(ctx context.Context, userID string, xp int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if xp > f.xp[userID] {
		f.xp[userID] = xp
	}
	return nil
}

func (f *fakeLeaderboard) GetTop(ctx context.Context, limit int) ([]model.XPEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.XPEntry{}
	for id, xp := range f.xp {
		out = append(out, model.XPEntry{UserID: id, XP: xp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *fakeLeaderboard) GetRank(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	n := len(f.xp)
	f.mu.Unlock()
	top, _ := f.GetTop(ctx, n)
	for _, e := range top {
		if e.UserID == userID {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

type sentEvent struct {
	target  string
	msgType string
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeBroadcaster) BroadcastToNotebook(notebookID string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{"notebook:" + notebookID, msgType})
}

func (f *fakeBroadcaster) BroadcastToUser(userID string, msgType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{"user:" + userID, msgType})
}

func (f *fakeBroadcaster) count(msgType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.msgType == msgType {
			n++
		}
	}
	return n
}

var errStoreDown = errors.New("store unavailable")

// harness wires a NotebookService and ProfileService over fakes
type harness struct {
	questions    *fakeQuestions
	notebooks    *fakeNotebooks
	answers      *fakeAnswers
	users        *fakeUsers
	interactions *fakeInteractions
	sessions     *fakeSessions
	leaderboard  *fakeLeaderboard
	broadcaster  *fakeBroadcaster
	profiles     *ProfileService
	notebooksSvc *NotebookService
}

func newHarness() *harness {
	h := &harness{
		questions: &fakeQuestions{all: []model.Question{
			{ID: "q1", Topic: "Biologia", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A", Hints: []string{"h1", "h2"}},
			{ID: "q2", Topic: "Física", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B", Hints: []string{"h1"}},
			{ID: "q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
		}},
		notebooks:    newFakeNotebooks(),
		answers:      &fakeAnswers{},
		users:        newFakeUsers(model.User{ID: "ana", Pseudonym: "ana", Level: 1}, model.User{ID: "bia", Pseudonym: "bia", Level: 1}),
		interactions: newFakeInteractions(),
		sessions:     newFakeSessions(),
		leaderboard:  newFakeLeaderboard(),
		broadcaster:  &fakeBroadcaster{},
	}
	log := logger.Nop()
	h.profiles = NewProfileService(h.users, h.interactions, h.leaderboard, log)
	h.profiles.SetBroadcaster(h.broadcaster)
	h.notebooksSvc = NewNotebookService(h.questions, h.notebooks, h.answers, h.interactions, h.users,
		h.sessions, h.leaderboard, h.profiles, log)
	h.notebooksSvc.SetBroadcaster(h.broadcaster)
	h.notebooks.rows["nb"] = model.QuestionNotebook{ID: "nb", UserID: "ana", Name: "Revisão", QuestionIDs: []string{"q1", "q2", "q3"}}
	return h
}
