package events

import "github.com/atomicstack/git-popup/internal/logging"

type PopupTracer struct{}

type KeymapTracer struct{}

var (
	Popup  = PopupTracer{}
	Keymap = KeymapTracer{}
)

func (PopupTracer) Show(popup, instance string, bindings int) {
	logging.Trace("popup.show", map[string]interface{}{"popup": popup, "instance": instance, "bindings": bindings})
}

func (PopupTracer) Toggle(popup, flag string, enabled bool) {
	logging.Trace("popup.toggle", map[string]interface{}{"popup": popup, "flag": flag, "enabled": enabled})
}

func (PopupTracer) Incompatible(popup, flag, disabled string) {
	logging.Trace("popup.incompatible", map[string]interface{}{"popup": popup, "flag": flag, "disabled": disabled})
}

func (PopupTracer) Option(popup, flag, value string) {
	logging.Trace("popup.option", map[string]interface{}{"popup": popup, "flag": flag, "value": value})
}

func (PopupTracer) Config(popup, name, value string) {
	logging.Trace("popup.config", map[string]interface{}{"popup": popup, "name": name, "value": value})
}

func (PopupTracer) Passive(popup, name, value string) {
	logging.Trace("popup.passive", map[string]interface{}{"popup": popup, "name": name, "value": value})
}

func (PopupTracer) Close(popup, reason string) {
	logging.Trace("popup.close", map[string]interface{}{"popup": popup, "reason": reason})
}

func (KeymapTracer) Pending(prefix string) {
	logging.Trace("keymap.pending", map[string]interface{}{"prefix": prefix})
}

func (KeymapTracer) Dispatch(key, target string) {
	logging.Trace("keymap.dispatch", map[string]interface{}{"key": key, "target": target})
}

func (KeymapTracer) Unbound(key string) {
	logging.Trace("keymap.unbound", map[string]interface{}{"key": key})
}
