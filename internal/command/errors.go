package command

import (
	"fmt"
	"time"
)

// UserError is an error whose message is meant for the person who typed the
// command.
type UserError interface {
	error
	UserMessage() string
	ExpireIn() time.Duration
}

// CommandError is a generic failure of a command.
type CommandError struct {
	Message string
	Expire  time.Duration
}

func NewCommandError(msg string, expire time.Duration) *CommandError {
	return &CommandError{Message: msg, Expire: expire}
}

func (e *CommandError) Error() string           { return e.Message }
func (e *CommandError) UserMessage() string     { return e.Message }
func (e *CommandError) ExpireIn() time.Duration { return e.Expire }

// PermissionsError is raised when the author may not run a command.
type PermissionsError struct {
	Message string
	Expire  time.Duration
}

func NewPermissionsError(msg string, expire time.Duration) *PermissionsError {
	return &PermissionsError{Message: msg, Expire: expire}
}

func (e *PermissionsError) Error() string           { return "permissions: " + e.Message }
func (e *PermissionsError) UserMessage() string     { return e.Message }
func (e *PermissionsError) ExpireIn() time.Duration { return e.Expire }

// HelpfulError explains a problem and what to do about it.
type HelpfulError struct {
	Issue      string
	Suggestion string
	Expire     time.Duration
}

func NewHelpfulError(issue, suggestion string, expire time.Duration) *HelpfulError {
	return &HelpfulError{Issue: issue, Suggestion: suggestion, Expire: expire}
}

func (e *HelpfulError) Error() string { return e.Issue }

func (e *HelpfulError) UserMessage() string {
	if e.Suggestion == "" {
		return "An error has occurred:\n" + e.Issue
	}
	return fmt.Sprintf("An error has occurred:\n%s\n\n%s", e.Issue, e.Suggestion)
}

func (e *HelpfulError) ExpireIn() time.Duration { return e.Expire }

// ExtractionError is raised when remote content could not be fetched or
// parsed.
type ExtractionError struct {
	Message string
	Err     error
	Expire  time.Duration
}

func NewExtractionError(msg string, err error, expire time.Duration) *ExtractionError {
	return &ExtractionError{Message: msg, Err: err, Expire: expire}
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error           { return e.Err }
func (e *ExtractionError) UserMessage() string     { return e.Message }
func (e *ExtractionError) ExpireIn() time.Duration { return e.Expire }

// Signal asks the bot runtime to restart or stop. Signals travel as errors
// out of the router.
type Signal string

func (s Signal) Error() string { return "signal: " + string(s) }

const (
	ErrRestart   Signal = "restart"
	ErrTerminate Signal = "terminate"
)
