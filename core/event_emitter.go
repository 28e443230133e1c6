package orchestration

import "github.com/d4rk/musicsleeptimer/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}
