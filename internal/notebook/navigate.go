package notebook

import "studyhub/internal/model"

// Materialize resolves a notebook's question ids against the global question
// set, keeping notebook order. Duplicate ids collapse to their first
// occurrence and ids with no matching question are skipped.
func Materialize(ids []string, all []model.Question) []model.Question {
	byID := make(map[string]model.Question, len(all))
	for _, q := range all {
		byID[q.ID] = q
	}
	seen := make(map[string]bool, len(ids))
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		q, ok := byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		out = append(out, q)
	}
	return out
}

// Cursor is a position inside a materialized question list
type Cursor struct {
	Index int
	Len   int
}

// Clamp returns the cursor moved to the nearest valid index
func (c Cursor) Clamp() Cursor {
	switch {
	case c.Len <= 0:
		c.Index = 0
	case c.Index < 0:
		c.Index = 0
	case c.Index >= c.Len:
		c.Index = c.Len - 1
	}
	return c
}

// Next moves forward one question, staying on the last one
func (c Cursor) Next() Cursor {
	c.Index++
	return c.Clamp()
}

// Previous moves back one question, staying on the first one
func (c Cursor) Previous() Cursor {
	c.Index--
	return c.Clamp()
}

// NextUnanswered scans forward from current+1, wrapping around, for the first
// question without an answer. The current question is checked last. ok is
// false when every question is answered.
func NextUnanswered(questions []model.Question, current int, answered map[string]bool) (index int, ok bool) {
	n := len(questions)
	for step := 1; step <= n; step++ {
		i := ((current+step)%n + n) % n
		if !answered[questions[i].ID] {
			return i, true
		}
	}
	return current, false
}
