package orchestration

import (
	"context"
	"fmt"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/jonboulle/clockwork"
)

// fadeController lowers the music stream one unit per FadeStepDelay until it
// reaches zero, MaxFadeSteps is hit or ctx is done. Volume may be changed
// externally while fading, so it is re-read before every step.
type fadeController struct {
	volume audio.VolumeController
	clock  clockwork.Clock
	// onStep is called after each adjustment with the step number and the
	// volume read before it.
	onStep func(step, volume int)
}

func (f *fadeController) fadeOut(ctx context.Context) (int, error) {
	if f.volume.IsVolumeFixed() {
		return 0, nil
	}

	steps := 0
	for steps < MaxFadeSteps {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		volume, err := f.volume.StreamVolume(audio.StreamMusic)
		if err != nil {
			return steps, fmt.Errorf("failed to read music volume: %w", err)
		}
		if volume <= 0 {
			return steps, nil
		}

		if err := f.volume.AdjustStreamVolume(audio.StreamMusic, audio.AdjustLower, 0); err != nil {
			return steps, fmt.Errorf("failed to lower music volume: %w", err)
		}
		steps++
		if f.onStep != nil {
			f.onStep(steps, volume)
		}

		if err := sleepFor(ctx, f.clock, FadeStepDelay); err != nil {
			return steps, err
		}
	}

	return steps, nil
}
