package models

import "fmt"

type Mood string

const (
	MoodNone    Mood = ""
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodSad     Mood = "sad"
	MoodExcited Mood = "excited"
	MoodLove    Mood = "love"
)

var moodEmoji = map[Mood]string{
	MoodHappy:   "😊",
	MoodCalm:    "😌",
	MoodSad:     "😔",
	MoodExcited: "🤩",
	MoodLove:    "🥰",
}

// Moods lists the selectable moods in display order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodCalm, MoodSad, MoodExcited, MoodLove}
}

func (m Mood) Valid() bool {
	if m == MoodNone {
		return true
	}
	_, ok := moodEmoji[m]
	return ok
}

// Emoji falls back to a notebook for entries without a known mood.
func (m Mood) Emoji() string {
	if e, ok := moodEmoji[m]; ok {
		return e
	}
	return "📝"
}

func ParseMood(s string) (Mood, error) {
	m := Mood(s)
	if !m.Valid() {
		return MoodNone, fmt.Errorf("unknown mood %q: %w", s, ErrValidation)
	}
	return m, nil
}
