// Package bridge runs the controller loop: it feeds hardware, network and
// timer events through the state machine and performs the resulting effects.
package bridge

import (
	"context"
	"time"

	"github.com/lumipad/lumipad/internal/pkg/controller"
	"github.com/lumipad/lumipad/internal/pkg/launchpad"
	"github.com/lumipad/lumipad/internal/pkg/logger"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// Bridge owns the controller state. All transitions happen on the Run
// goroutine, so the state machine never sees concurrent events.
type Bridge struct {
	state    controller.State
	executor *Executor

	learnButton pad.ButtonID
	tickRate    time.Duration

	external      chan controller.Event
	learnRequests chan []pad.Command
}

func New(initial controller.State, executor *Executor, learnButton pad.ButtonID, tickRate time.Duration) *Bridge {
	return &Bridge{
		state:         initial,
		executor:      executor,
		learnButton:   learnButton,
		tickRate:      tickRate,
		external:      make(chan controller.Event, 8),
		learnRequests: make(chan []pad.Command, 1),
	}
}

// Submit injects an event from outside the gateways, like a wizard answer or
// a mapping reload.
func (b *Bridge) Submit(ev controller.Event) {
	b.external <- ev
}

// LearnRequests signals that a learn recording finished: the received
// candidates await a LearnCandidateChosen or LearnCancelled submission.
func (b *Bridge) LearnRequests() <-chan []pad.Command {
	return b.learnRequests
}

// Run processes events until the context is cancelled.
func (b *Bridge) Run(ctx context.Context, oscEvents <-chan controller.Event, padEvents <-chan launchpad.PadEvent) {
	// push the configured idle picture to the device before the first event
	b.executor.Execute(b.state, controller.RenderAll(b.state))

	ticker := time.NewTicker(b.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("controller loop done", logger.Debug)
			return
		case now := <-ticker.C:
			b.apply(controller.Tick{Now: now})
		case ev, ok := <-oscEvents:
			if !ok {
				oscEvents = nil
				continue
			}
			b.apply(ev)
		case pe, ok := <-padEvents:
			if !ok {
				padEvents = nil
				continue
			}
			b.apply(translatePadEvent(pe, b.learnButton))
		case ev := <-b.external:
			b.apply(ev)
		}
	}
}

func (b *Bridge) apply(ev controller.Event) {
	if ev == nil {
		return
	}

	before := b.state.Learn.Phase

	state, effects := controller.Transition(b.state, ev)
	b.state = state
	b.executor.Execute(state, effects)

	if state.Learn.Phase == controller.LearnSelect && before != controller.LearnSelect {
		candidates := make([]pad.Command, len(state.Learn.Candidates))
		copy(candidates, state.Learn.Candidates)
		select {
		case b.learnRequests <- candidates:
		default:
		}
	}
}

// translatePadEvent maps hardware pad activity to controller events, routing
// the dedicated learn button to its own event.
func translatePadEvent(pe launchpad.PadEvent, learnButton pad.ButtonID) controller.Event {
	if pe.Button == learnButton {
		if pe.Pressed {
			return controller.LearnButtonPressed{}
		}
		return nil
	}
	if pe.Pressed {
		return controller.PadPressed{Button: pe.Button, At: pe.At}
	}
	return controller.PadReleased{Button: pe.Button, At: pe.At}
}
