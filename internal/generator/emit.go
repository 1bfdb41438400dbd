package generator

import "context"

// Line is one emitted status line with an optional display color.
type Line struct {
	Text  string
	Color string
}

// Emitter receives status lines while a pipeline runs.
type Emitter interface {
	Log(text, color string)
}

type emitterKey struct{}

// WithEmitter attaches an emitter to the context.
func WithEmitter(ctx context.Context, e Emitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, e)
}

// EmitterFrom retrieves the emitter from context, or a no-op emitter.
func EmitterFrom(ctx context.Context) Emitter {
	if e, ok := ctx.Value(emitterKey{}).(Emitter); ok {
		return e
	}
	return noopEmitter{}
}

type noopEmitter struct{}

func (noopEmitter) Log(string, string) {}

// ChannelEmitter forwards lines to a channel, dropping when full so a
// stalled consumer never blocks a stage.
type ChannelEmitter struct {
	Ch chan<- Line
}

func (e *ChannelEmitter) Log(text, color string) {
	select {
	case e.Ch <- Line{Text: text, Color: color}:
	default:
	}
}

// CollectEmitter records lines in order; used by tests and the run log.
type CollectEmitter struct {
	Lines []Line
}

func (e *CollectEmitter) Log(text, color string) {
	e.Lines = append(e.Lines, Line{Text: text, Color: color})
}
