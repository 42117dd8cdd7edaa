package usecases

import (
	"errors"
	"fmt"
)

// Errors shown to users as guidance. Their text is phrased for chat.
var (
	ErrUserNotInVoice  = errors.New("you must be in a voice channel")
	ErrNotPlaying      = errors.New("nothing is currently playing")
	ErrAlreadyPaused   = errors.New("playback is already paused")
	ErrNotPaused       = errors.New("playback is not paused")
	ErrSkipWhilePaused = errors.New("playback is paused, resume it before skipping")
	ErrEmptyQuery      = errors.New("query must not be empty")
	ErrQueueEmpty      = errors.New("the queue is empty")
	ErrLyricsNotFound  = errors.New("lyrics not found")
)

// Kinds of ResolutionError and PositionError, for errors.Is.
var (
	ErrNoResults       = errors.New("no results found")
	ErrLoadFailed      = errors.New("failed to load track")
	ErrInvalidPosition = errors.New("invalid queue position")
)

// ResolutionError reports why a query could not be turned into a playable track.
// It unwraps to ErrNoResults or ErrLoadFailed.
type ResolutionError struct {
	Query   string
	Kind    error
	Message string // Detail reported by the source, if any
}

func (e *ResolutionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s for %q: %s", e.Kind, e.Query, e.Message)
	}
	return fmt.Sprintf("%s for %q", e.Kind, e.Query)
}

func (e *ResolutionError) Unwrap() error {
	return e.Kind
}

// PositionError reports a queue position outside 1..Max. It unwraps to ErrInvalidPosition.
type PositionError struct {
	Position int
	Max      int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %d (must be between 1 and %d)", ErrInvalidPosition, e.Position, e.Max)
}

func (e *PositionError) Unwrap() error {
	return ErrInvalidPosition
}
