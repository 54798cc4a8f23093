package events

import "github.com/atomicstack/git-popup/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

type PromptTracer struct{}

type StoreTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
	Prompt  = PromptTracer{}
	Store   = StoreTracer{}
)

func (UITracer) Cursor(popup string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"popup": popup, "cursor": cursor})
}

func (UITracer) Redraw(popup string, lines int) {
	logging.Trace("ui.redraw", map[string]interface{}{"popup": popup, "lines": lines})
}

func (ActionTracer) Invoke(popup, key, description string) {
	logging.Trace("action.invoke", map[string]interface{}{"popup": popup, "key": key, "description": description})
}

func (ActionTracer) Placeholder(popup, key string) {
	logging.Trace("action.placeholder", map[string]interface{}{"popup": popup, "key": key})
}

func (ActionTracer) Continue(popup, key string) {
	logging.Trace("action.continue", map[string]interface{}{"popup": popup, "key": key})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared(levelID string) {
	logging.Trace("filter.clear", map[string]interface{}{"level": levelID})
}

func (FilterTracer) Append(levelID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Backspace(levelID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

func (PromptTracer) Request(kind, prompt string) {
	logging.Trace("prompt.request", map[string]interface{}{"kind": kind, "prompt": prompt})
}

func (PromptTracer) Submit(kind, value string) {
	logging.Trace("prompt.submit", map[string]interface{}{"kind": kind, "value": value})
}

func (PromptTracer) Cancel(kind string) {
	logging.Trace("prompt.cancel", map[string]interface{}{"kind": kind})
}

func (StoreTracer) Error(scope, key string, err error) {
	if err == nil {
		return
	}
	logging.Trace("store.error", map[string]interface{}{"scope": scope, "key": key, "error": err.Error()})
}
