package events

import "github.com/atomicstack/git-popup/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Continue(popup string) {
	logging.Trace("app.continue", map[string]interface{}{"popup": popup})
}
