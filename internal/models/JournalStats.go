package models

type JournalStats struct {
	Year           int `json:"year"`
	CompletedCount int `json:"completed_count"`
	CurrentStreak  int `json:"current_streak"`
	TotalWordCount int `json:"total_word_count"`
}
