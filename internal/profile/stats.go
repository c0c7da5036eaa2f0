package profile

import "studyhub/internal/model"

// XPPerLevel is the XP needed to advance one level
const XPPerLevel = 100

// ApplyStatsDelta returns a copy of u with one terminal answer folded into its
// stats and XP. u is not modified.
func ApplyStatsDelta(u model.User, d model.StatsDelta) model.User {
	out := u.Clone()
	if out.Stats.TopicPerformance == nil {
		out.Stats.TopicPerformance = make(map[string]model.TopicStat)
	}

	out.Stats.QuestionsAnswered++
	if d.CorrectFirstTry {
		out.Stats.CorrectAnswers++
		out.Stats.Streak++
	} else {
		out.Stats.Streak = 0
	}

	topic := d.Topic
	if topic == "" {
		topic = model.DefaultTopic
	}
	ts := out.Stats.TopicPerformance[topic]
	ts.Total++
	if d.CorrectFirstTry {
		ts.Correct++
	}
	out.Stats.TopicPerformance[topic] = ts

	return AddXP(out, d.XP)
}

// AddXP returns a copy of u with xp added and its level recomputed
func AddXP(u model.User, xp int) model.User {
	out := u.Clone()
	out.XP += xp
	out.Level = Level(out.XP)
	return out
}

// Level is the 1-based level reached with xp
func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// LevelProgress is the XP earned inside the current level
func LevelProgress(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % XPPerLevel
}
