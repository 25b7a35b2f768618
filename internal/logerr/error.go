package logerr

import (
	"fmt"
	"runtime"
)

// StepError records which teardown step failed along with the stack of the
// goroutine that noticed it.
type StepError struct {
	Step  string
	Err   error
	Stack string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stack() string {
	buf := make([]byte, 1024)

	n := runtime.Stack(buf, false)

	return string(buf[:n])
}

func Step(step string, err error) error {
	if err == nil {
		return nil
	}

	return &StepError{Step: step, Err: err, Stack: stack()}
}
