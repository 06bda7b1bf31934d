package models

import "time"

// TestResult is the immutable record of a completed test session
type TestResult struct {
	ID             string `json:"id" db:"id"`
	CorrectAnswers int    `json:"correct_answers" db:"correct_answers"`
	TotalQuestions int    `json:"total_questions" db:"total_questions"`
	Timestamp      int64  `json:"timestamp" db:"created_at"` // Unix milliseconds
	IncorrectWords []Word `json:"incorrect_words" db:"-"`
}

// Score returns correct answers over total questions, 0 for an empty test
func (r TestResult) Score() float64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return ratio(r.CorrectAnswers, r.TotalQuestions)
}

// Time returns the completion time
func (r TestResult) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
