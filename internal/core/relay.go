package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrPanic marks a pipeline run that panicked and was recovered.
var ErrPanic = errors.New("relay pipeline panicked")

// Outcome is what happened to one chat event.
type Outcome string

const (
	OutcomeDelivered      Outcome = "delivered"
	OutcomeNoPayload      Outcome = "no_payload"
	OutcomeNoMessage      Outcome = "no_message"
	OutcomeFiltered       Outcome = "filtered"
	OutcomeEmpty          Outcome = "empty"
	OutcomeDeliveryFailed Outcome = "delivery_failed"
	OutcomeInternal       Outcome = "internal_error"
)

// Spoken reports whether the outcome sent a line to the TTS engine.
func (o Outcome) Spoken() bool {
	return o == OutcomeDelivered
}

// Deliverer sends one outbound line to the TTS engine.
type Deliverer interface {
	Deliver(ctx context.Context, line string) error
}

// Options is the static part of the pipeline, fixed at startup.
type Options struct {
	Prefix    string
	MaxLen    int
	AllowList AllowList
}

// Result describes a handled event for logging and metrics.
type Result struct {
	Outcome Outcome
	Name    string
	Source  string
	Line    string
	Err     error
}

// Relay turns decoded chat events into outbound TTS lines.
// It holds no mutable state and is safe for concurrent use.
type Relay struct {
	opts      Options
	deliverer Deliverer
}

// NewRelay builds a relay that sends through d.
func NewRelay(opts Options, d Deliverer) *Relay {
	return &Relay{opts: opts, deliverer: d}
}

// Handle runs one decoded event through locate, filter, sanitize and deliver.
// It never panics; a recovered panic is reported as OutcomeInternal.
func (r *Relay) Handle(ctx context.Context, event any) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Outcome: OutcomeInternal, Err: fmt.Errorf("%w: %v", ErrPanic, p)}
		}
	}()

	obj, ok := Locate(event)
	if !ok {
		return Result{Outcome: OutcomeNoPayload}
	}
	payload := NewPayload(obj)
	res = Result{Name: payload.Name(), Source: payload.Source()}

	msg := payload.Message()
	if msg == "" {
		res.Outcome = OutcomeNoMessage
		return res
	}

	if !r.opts.AllowList.Permits(res.Name) {
		res.Outcome = OutcomeFiltered
		return res
	}

	text := Sanitize(msg, r.opts.MaxLen)
	if text == "" {
		res.Outcome = OutcomeEmpty
		return res
	}

	res.Line = r.opts.Prefix + text
	if err := r.deliverer.Deliver(ctx, res.Line); err != nil {
		res.Outcome = OutcomeDeliveryFailed
		res.Err = err
		return res
	}
	res.Outcome = OutcomeDelivered
	return res
}
