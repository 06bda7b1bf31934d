package models

// DefaultUserID is the id of the single profile kept per installation
const DefaultUserID = "user_1"

// User represents the learner profile with aggregate counters
type User struct {
	ID             string `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Level          Level  `json:"level" db:"level"`
	WordsLearned   int    `json:"words_learned" db:"words_learned"`
	CorrectAnswers int    `json:"correct_answers" db:"correct_answers"`
	TotalAnswers   int    `json:"total_answers" db:"total_answers"`
}

// ProgressPercentage returns the share of correct answers in [0, 1]
func (u User) ProgressPercentage() float64 {
	if u.TotalAnswers <= 0 {
		return 0
	}
	return ratio(u.CorrectAnswers, u.TotalAnswers)
}

func ratio(part, total int) float64 {
	r := float64(part) / float64(total)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
