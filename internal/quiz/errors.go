package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWordsAvailable is returned when a session cannot get a single word
	ErrNoWordsAvailable = errors.New("no words available")
	// ErrNoSelection is returned when grading without a selected option
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadyGraded is returned when the current word has been graded
	ErrAlreadyGraded = errors.New("answer already graded")
	// ErrNotGraded is returned when advancing past an ungraded word
	ErrNotGraded = errors.New("answer not graded yet")
	// ErrNotInProgress is returned for question operations outside a running session
	ErrNotInProgress = errors.New("session not in progress")
	// ErrInvalidOption is returned for an option index outside the option set
	ErrInvalidOption = errors.New("invalid option index")
	// ErrSuperseded is returned by a start whose words arrived after a newer start
	ErrSuperseded = errors.New("session superseded by a newer start")
)

// PersistenceError reports a failed step while recording a completed session.
// Steps that ran before the failure are not rolled back.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist session results (step: %s): %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
