package controller

import (
	"time"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// Event is the input of Transition. Events are produced by the gateways and
// the tick source; timestamps are assigned there, the transition function
// never consults the wall clock.
type Event interface {
	event()
}

// PadPressed reports a hardware pad press.
type PadPressed struct {
	Button pad.ButtonID
	At     time.Time
}

// PadReleased reports a hardware pad release.
type PadReleased struct {
	Button pad.ButtonID
	At     time.Time
}

// MessageReceived carries an inbound protocol message. Beat and tempo
// telemetry is decoded by the gateway into BeatPulse/TempoChanged and never
// shows up here.
type MessageReceived struct {
	Message pad.Command
	At      time.Time
}

// Tick fires at a fixed rate and drives blink rendering and the Learn Mode
// recording deadline.
type Tick struct {
	Now time.Time
}

// BeatPulse marks a beat detected by the remote application.
type BeatPulse struct {
	At time.Time
}

// TempoChanged updates the tempo used for beat phase decay.
type TempoChanged struct {
	BPM float64
}

// LearnButtonPressed enters Learn Mode, or leaves it when already engaged.
type LearnButtonPressed struct{}

// LearnChoice carries the final decisions of the Learn Mode wizard.
type LearnChoice struct {
	Mode        pad.Mode
	Group       pad.GroupID
	IdleColor   pad.Color
	ActiveColor pad.Color
	Label       string

	// Off is only meaningful for toggle pads and may stay nil.
	Off *pad.Command
}

// LearnCandidateChosen finalizes Learn Mode with the selected candidate.
type LearnCandidateChosen struct {
	Index  int
	Choice LearnChoice
}

// LearnCancelled aborts Learn Mode from any phase.
type LearnCancelled struct{}

// ConfigReloaded replaces the pad mapping, typically after an external edit
// of the mapping file was detected.
type ConfigReloaded struct {
	Pads   map[pad.ButtonID]pad.Behavior
	Groups pad.Groups
}

func (PadPressed) event()           {}
func (PadReleased) event()          {}
func (MessageReceived) event()      {}
func (Tick) event()                 {}
func (BeatPulse) event()            {}
func (TempoChanged) event()         {}
func (LearnButtonPressed) event()   {}
func (LearnCandidateChosen) event() {}
func (LearnCancelled) event()       {}
func (ConfigReloaded) event()       {}
