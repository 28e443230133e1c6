package orchestration

import (
	"context"
	"errors"
	"time"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/d4rk/musicsleeptimer/core/events"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	FadeStepDelay   = time.Second
	MaxFadeSteps    = 20
	StopWaitTimeout = 4 * time.Second
	SettleDelay     = 2 * time.Second
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// SkipReason explains a run that succeeded without doing anything.
type SkipReason string

const (
	SkipNone                 SkipReason = ""
	SkipServiceUnavailable   SkipReason = "service_unavailable"
	SkipNoControllableOutput SkipReason = "no_controllable_output"
	SkipMusicInactive        SkipReason = "music_inactive"
)

type Result struct {
	RunID   string
	Outcome Outcome
	Skipped SkipReason

	Snapshot     SessionSnapshot
	FocusGranted bool
	FadeSteps    int
	// PlaybackStopped decides whether volume is restored.
	PlaybackStopped bool
	StopSource      StopSource
	VolumeRestored  bool

	// Degraded joins conditions that were absorbed by a fallback:
	// ErrServiceUnavailable, ErrFocusDenied, ErrDetectionTimeout.
	Degraded error
	// Err is set exactly when Outcome is OutcomeFailure.
	Err error
}

// Orchestrator fades out and stops music playback once per Run, then puts the
// user's volume back. It holds no state between runs.
type Orchestrator struct {
	service       audio.Service
	clock         clockwork.Clock
	deviceProbe   audio.DeviceProbe
	activityProbe audio.ActivityProbe
	emit          eventEmitter
}

// NewOrchestrator builds an orchestrator over service. A nil service is
// accepted: runs then succeed immediately with SkipServiceUnavailable.
func NewOrchestrator(service audio.Service, opts ...OrchestratorOption) *Orchestrator {
	if isNilService(service) {
		service = nil
	}

	o := &Orchestrator{
		service:       service,
		clock:         clockwork.NewRealClock(),
		activityProbe: audio.CompatActivityProbe{},
		emit:          noopEventEmitter,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.deviceProbe == nil && o.service != nil {
		o.deviceProbe = audio.NewDeviceProbe(o.service)
	}

	return o
}

// Run performs one fade out. It blocks for at most the fade steps plus the
// stop wait and the settle delay, and returns early with OutcomeFailure when
// ctx is cancelled. Acquired resources are released on every path.
func (o *Orchestrator) Run(ctx context.Context) Result {
	runID := uuid.NewString()
	startedAt := o.clock.Now()

	ctx, span := tracer.Start(ctx, "fade out", trace.WithAttributes(attribute.String("sleeptimer.run_id", runID)))
	defer span.End()

	run := &fadeOutRun{orchestrator: o, id: runID, result: Result{RunID: runID}}
	run.emit(events.NewRunStarted(runID))
	run.enter(ctx, events.PhaseStarted)

	err := panicSafeNamedWorker("fade out", run.execute)(ctx)
	if err != nil {
		run.result.Outcome = OutcomeFailure
		run.result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "fade out failed", "run_id", runID, "error", err)
	} else {
		run.result.Outcome = OutcomeSuccess
		logger.InfoContext(ctx, "fade out finished",
			"run_id", runID,
			"skipped", string(run.result.Skipped),
			"playback_stopped", run.stopped,
			"volume_restored", run.result.VolumeRestored)
	}

	run.result.PlaybackStopped = run.stopped
	run.result.StopSource = run.stopSource
	span.SetAttributes(
		attribute.String("sleeptimer.outcome", run.result.Outcome.String()),
		attribute.Bool("sleeptimer.playback_stopped", run.stopped),
	)

	run.enter(ctx, events.PhaseDone)
	runCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", run.result.Outcome.String())))
	runDuration.Record(ctx, o.clock.Since(startedAt).Seconds())
	run.emit(events.NewRunFinished(runID, run.result.Outcome == OutcomeSuccess, run.stopped, run.result.Err))

	return run.result
}

// fadeOutRun is the per-invocation state. Nothing in it outlives Run.
type fadeOutRun struct {
	orchestrator *Orchestrator
	id           string
	result       Result

	snapshot   SessionSnapshot
	signal     *stopSignal
	detector   *playbackStopDetector
	negotiator *focusNegotiator

	// stopped and stopSource are only set through markStopped.
	stopped    bool
	stopSource StopSource
}

func (r *fadeOutRun) execute(ctx context.Context) error {
	proceed, err := r.start(ctx)
	if err != nil || !proceed {
		return err
	}

	return r.session(ctx)
}

// start captures the snapshot. It returns false when there is nothing to do,
// which is a success rather than an error.
func (r *fadeOutRun) start(ctx context.Context) (bool, error) {
	service := r.orchestrator.service
	if service == nil {
		r.degrade(ErrServiceUnavailable)
		r.skip(ctx, SkipServiceUnavailable)
		return false, nil
	}

	if !r.orchestrator.deviceProbe.HasControllableOutput(ctx) {
		r.skip(ctx, SkipNoControllableOutput)
		return false, nil
	}

	if !service.IsMusicActive() {
		r.skip(ctx, SkipMusicInactive)
		return false, nil
	}

	volume, err := service.StreamVolume(audio.StreamMusic)
	if err != nil {
		return false, unexpected("read initial music volume", err)
	}

	r.snapshot = SessionSnapshot{
		InitialVolume:         volume,
		CanAdjustVolume:       !service.IsVolumeFixed() && volume > 0,
		HasControllableOutput: true,
	}
	r.result.Snapshot = r.snapshot
	return true, nil
}

func (r *fadeOutRun) session(ctx context.Context) (err error) {
	o := r.orchestrator
	r.signal = newStopSignal(r.onStopSignalled(ctx))
	r.detector = newPlaybackStopDetector(o.service, o.activityProbe, r.signal)
	r.negotiator = newFocusNegotiator(o.service, r.signal, r.onFocusLost(ctx))

	defer func() {
		if cleanupErr := r.cleanup(ctx); cleanupErr != nil {
			err = errors.Join(err, cleanupErr)
		}
	}()

	r.enter(ctx, events.PhaseFocusRequested)
	if err := r.detector.subscribe(); err != nil {
		return unexpected("register playback callback", err)
	}

	granted, err := r.negotiator.acquire()
	if err != nil {
		return unexpected("request audio focus", err)
	}
	r.result.FocusGranted = granted
	r.emit(events.NewFocusRequested(r.id, granted))
	if !granted {
		r.degrade(ErrFocusDenied)
		logger.InfoContext(ctx, "audio focus denied, falling back to coarse activity", "run_id", r.id)
	}

	fadeCtx, stopFade := context.WithCancel(ctx)
	defer stopFade()
	fading := r.startFade(fadeCtx)

	var faded fadeResult
	if granted {
		faded, err = r.awaitStop(ctx, fading, stopFade)
		if err != nil {
			return err
		}
	} else {
		// Without focus only the coarse flag decides, after the settle delay.
		faded = <-fading
	}
	r.result.FadeSteps = faded.steps
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}
	if faded.err != nil && !errors.Is(faded.err, context.Canceled) {
		return unexpected("fade out volume", faded.err)
	}

	r.enter(ctx, events.PhaseRestoringVolume)
	if err := sleepFor(ctx, o.clock, SettleDelay); err != nil {
		return cancelled(err)
	}
	if !r.stopped {
		r.checkCoarseStopped(ctx)
	}

	return nil
}

// awaitStop waits for the stop signal. A signal cuts the fade short; on
// timeout the fade runs out and the coarse flag is checked once.
func (r *fadeOutRun) awaitStop(ctx context.Context, fading <-chan fadeResult, stopFade context.CancelFunc) (fadeResult, error) {
	r.enter(ctx, events.PhaseWaiting)
	r.detector.shortCircuit()

	stopped, err := r.signal.wait(ctx, r.orchestrator.clock, StopWaitTimeout)
	if err != nil {
		stopFade()
		<-fading
		return fadeResult{}, cancelled(err)
	}

	if stopped {
		r.markStopped(ctx, r.signal.firedBy())
		stopFade()
		return <-fading, nil
	}

	r.degrade(ErrDetectionTimeout)
	logger.InfoContext(ctx, "playback stop not signalled in time", "run_id", r.id, "timeout", StopWaitTimeout)
	faded := <-fading
	if ctx.Err() == nil {
		r.checkCoarseStopped(ctx)
	}
	return faded, nil
}

type fadeResult struct {
	steps int
	err   error
}

// startFade runs the fade controller next to the stop wait. The returned
// channel always yields exactly one result.
func (r *fadeOutRun) startFade(ctx context.Context) <-chan fadeResult {
	fading := make(chan fadeResult, 1)
	if !r.snapshot.CanAdjustVolume {
		fading <- fadeResult{}
		return fading
	}

	r.enter(ctx, events.PhaseFading)
	fader := &fadeController{
		volume: r.orchestrator.service,
		clock:  r.orchestrator.clock,
		onStep: func(step, volume int) {
			fadeStepCounter.Add(ctx, 1)
			r.emit(events.NewVolumeStepped(r.id, step, volume))
		},
	}

	go func() {
		var steps int
		err := panicSafeNamedWorker("fade", func(ctx context.Context) (err error) {
			steps, err = fader.fadeOut(ctx)
			return err
		})(ctx)
		fading <- fadeResult{steps: steps, err: err}
	}()

	return fading
}

func (r *fadeOutRun) checkCoarseStopped(ctx context.Context) {
	if !r.orchestrator.service.IsMusicActive() {
		r.markStopped(ctx, StopSourceCoarseCheck)
	}
}

// markStopped records the decision that playback stopped and what made it.
func (r *fadeOutRun) markStopped(ctx context.Context, source StopSource) {
	r.stopped = true
	r.stopSource = source
	trace.SpanFromContext(ctx).AddEvent("playback stopped",
		trace.WithAttributes(attribute.String("sleeptimer.stop_source", string(source))))
	logger.DebugContext(ctx, "playback judged stopped", "run_id", r.id, "source", string(source))
	r.emit(events.NewPlaybackStopDetected(r.id, string(source)))
}

// cleanup releases in a fixed order: playback callback, volume, focus. Every
// step is attempted even if an earlier one failed.
func (r *fadeOutRun) cleanup(ctx context.Context) error {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "fade out cleanup")
	defer span.End()

	var errs error
	if err := r.detector.unsubscribe(); err != nil {
		errs = errors.Join(errs, unexpected("unregister playback callback", err))
	}

	if r.snapshot.CanAdjustVolume && r.stopped {
		from, restored, err := restoreVolume(r.orchestrator.service, r.snapshot.InitialVolume)
		switch {
		case err != nil:
			errs = errors.Join(errs, unexpected("restore music volume", err))
		case restored:
			r.result.VolumeRestored = true
			restoreCounter.Add(ctx, 1)
			r.emit(events.NewVolumeRestored(r.id, from, r.snapshot.InitialVolume))
			logger.DebugContext(ctx, "music volume restored", "run_id", r.id, "from", from, "to", r.snapshot.InitialVolume)
		}
	}

	if err := r.negotiator.release(); err != nil {
		errs = errors.Join(errs, unexpected("abandon audio focus", err))
	}

	if errs != nil {
		span.RecordError(errs)
		span.SetStatus(codes.Error, errs.Error())
	}
	return errs
}

func (r *fadeOutRun) onStopSignalled(ctx context.Context) func(StopSource) {
	return func(source StopSource) {
		logger.DebugContext(ctx, "stop signal fired", "run_id", r.id, "source", string(source))
	}
}

func (r *fadeOutRun) onFocusLost(ctx context.Context) func(audio.FocusChange) {
	return func(change audio.FocusChange) {
		logger.DebugContext(ctx, "audio focus lost", "run_id", r.id, "change", int(change))
		r.emit(events.NewFocusLost(r.id, change == audio.FocusChangeLossTransient))
	}
}

func (r *fadeOutRun) enter(ctx context.Context, phase events.Phase) {
	trace.SpanFromContext(ctx).AddEvent(string(phase))
	logger.DebugContext(ctx, "fade out phase", "run_id", r.id, "phase", string(phase))
	r.emit(events.NewRunPhaseChanged(r.id, phase))
}

func (r *fadeOutRun) skip(ctx context.Context, reason SkipReason) {
	r.result.Skipped = reason
	logger.InfoContext(ctx, "nothing to fade out", "run_id", r.id, "reason", string(reason))
}

func (r *fadeOutRun) degrade(err error) {
	r.result.Degraded = errors.Join(r.result.Degraded, err)
}

func (r *fadeOutRun) emit(event events.Event) {
	r.orchestrator.emit(event)
}
