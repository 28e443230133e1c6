package audio

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/d4rk/musicsleeptimer/core/audio"

var logger = otelslog.NewLogger(scopeName)
