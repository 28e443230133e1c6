// Package events defines the typed events a fade out run emits.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - run.*
//   - focus.*
//   - volume.*
//   - playback.*
//
// run events
//
//   - RunStarted (run.started): a run was invoked.
//   - RunPhaseChanged (run.phase_changed): the run entered a new phase of
//     Started, FocusRequested, Fading, Waiting, RestoringVolume, Done.
//   - RunFinished (run.finished): terminal outcome, emitted exactly once per
//     run after cleanup.
//
// focus events
//
//   - FocusRequested (focus.requested): result of the exclusive transient
//     focus request.
//   - FocusLost (focus.lost): the grant was taken by another player.
//
// volume events
//
//   - VolumeStepped (volume.stepped): one fade step lowered the music volume.
//   - VolumeRestored (volume.restored): the initial volume was written back.
//
// playback events
//
//   - PlaybackStopDetected (playback.stop_detected): the first source that
//     judged playback stopped.
//
// Handlers may be called from more than one goroutine: fade steps are
// emitted while the run waits for playback to stop.
package events
