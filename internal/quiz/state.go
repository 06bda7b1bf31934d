package quiz

import "github.com/mastermind6482/WordWise/pkg/models"

// State is the phase of a test session
type State int

const (
	Idle State = iota
	Loading
	AwaitingSelection
	Graded
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case AwaitingSelection:
		return "awaiting_selection"
	case Graded:
		return "graded"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// InProgress reports whether a question is on screen
func (s State) InProgress() bool {
	return s == AwaitingSelection || s == Graded
}

// Snapshot is a copy of the session state at one moment
type Snapshot struct {
	State      State
	Level      models.Level
	Word       *models.Word
	Index      int
	Total      int
	Options    []string
	Selected   int // -1 when nothing is selected
	LastResult *bool

	CorrectCount   int
	IncorrectWords []models.Word

	// Set once the session is Completed
	Result *models.TestResult
	// Failure reason in Failed, or a *PersistenceError in Completed
	Err error
}

// Answered is the number of words graded so far
func (s Snapshot) Answered() int {
	return s.CorrectCount + len(s.IncorrectWords)
}
