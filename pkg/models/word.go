package models

import "strings"

// Level is both a word difficulty tag and a user profile attribute
type Level string

const (
	Beginner     Level = "BEGINNER"
	Intermediate Level = "INTERMEDIATE"
	Advanced     Level = "ADVANCED"
)

// Levels lists every level in ascending difficulty
var Levels = []Level{Beginner, Intermediate, Advanced}

// ParseLevel converts a stored or user supplied level name. Unknown values fall
// back to Beginner.
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case Intermediate:
		return Intermediate
	case Advanced:
		return Advanced
	default:
		return Beginner
	}
}

// IsValid reports whether l is one of the known levels
func (l Level) IsValid() bool {
	return l == Beginner || l == Intermediate || l == Advanced
}

// Title returns the human readable level name
func (l Level) Title() string {
	switch l {
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return "Beginner"
	}
}

// Word represents a vocabulary entry: the prompt in the learner's language and the
// English answer
type Word struct {
	ID              string `json:"id" db:"id"`
	SourceText      string `json:"source_text" db:"source_text"` // Native-language prompt
	TargetText      string `json:"target_text" db:"target_text"` // English answer shown among options
	Level           Level  `json:"level" db:"level"`
	IsLearned       bool   `json:"is_learned" db:"is_learned"`
	NeedsRepetition bool   `json:"needs_repetition" db:"needs_repetition"`
}
