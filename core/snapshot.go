package orchestration

import (
	"fmt"

	"github.com/d4rk/musicsleeptimer/core/audio"
)

// SessionSnapshot is captured once when a run starts and never refreshed.
// Final decisions re-read the live service state instead of trusting it.
type SessionSnapshot struct {
	InitialVolume int
	// CanAdjustVolume is false when volume is fixed by hardware or already
	// zero.
	CanAdjustVolume       bool
	HasControllableOutput bool
}

// restoreVolume writes initial back to the music stream unless it already
// has that value, so a repeated call performs no write. It returns the
// volume found before restoring.
func restoreVolume(volume audio.VolumeController, initial int) (int, bool, error) {
	current, err := volume.StreamVolume(audio.StreamMusic)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read music volume: %w", err)
	}
	if current == initial {
		return current, false, nil
	}

	if err := volume.SetStreamVolume(audio.StreamMusic, initial, 0); err != nil {
		return current, false, fmt.Errorf("failed to set music volume to %d: %w", initial, err)
	}
	return current, true, nil
}
