package orchestration

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnavailable is absorbed: without a service there is nothing
	// to fade, so the run succeeds.
	ErrServiceUnavailable = errors.New("audio service unavailable")
	// ErrFocusDenied is absorbed: stop detection falls back to the coarse
	// activity flag.
	ErrFocusDenied = errors.New("audio focus denied")
	// ErrDetectionTimeout is absorbed: stop detection falls back to the
	// coarse activity flag.
	ErrDetectionTimeout = errors.New("timed out waiting for playback to stop")

	ErrCancelled  = errors.New("fade out cancelled")
	ErrUnexpected = errors.New("unexpected fade out failure")
)

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}

func unexpected(operation string, err error) error {
	if errors.Is(err, ErrUnexpected) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnexpected, operation, err)
}
