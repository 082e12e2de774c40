package lifecycle

import "fmt"

// NotFoundError indicates the referenced entity does not exist.
type NotFoundError struct {
	Kind string // "report", "department", "worker", "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ValidationError indicates a malformed or incomplete command.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InvalidTransitionError indicates the report is not in a state that
// permits the requested transition.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move report from %q to %q", e.From, e.To)
}

// UnauthorizedError indicates the actor is not allowed to issue this
// command, for example a worker starting a task assigned to someone else.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string { return e.Msg }
