package controller

import (
	"sort"
	"strings"
	"time"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

const (
	LearnIdle LearnPhase = iota
	LearnWaitPad
	LearnRecord
	LearnSelect
)

type LearnPhase int

func (p LearnPhase) String() string {
	switch p {
	case LearnIdle:
		return "idle"
	case LearnWaitPad:
		return "wait_pad"
	case LearnRecord:
		return "record"
	case LearnSelect:
		return "select"
	default:
		return "unknown"
	}
}

// LearnState is the ephemeral state of the Learn Mode workflow. It resets to
// the zero value on completion, cancellation or failure.
type LearnState struct {
	Phase  LearnPhase
	Target *pad.ButtonID

	// EnteredAt is set when the record phase starts; RecordStart stays nil
	// until the first controllable message arrives, so background silence
	// does not burn the window.
	EnteredAt   time.Time
	RecordStart *time.Time

	Candidates []pad.Command
}

// RuntimeState is the derived, non-persisted state of one configured pad.
type RuntimeState struct {
	Active bool // selector currently holds its group's selection
	On     bool // toggle currently on

	Color   pad.Color // steady color currently shown
	Blink   bool      // pad takes part in beat-synchronized blinking
	BlinkOn bool      // last rendered blink frame

	// FlashUntil keeps a one-shot pad lit briefly after firing.
	FlashUntil time.Time
}

// Params are the fixed knobs of the transition function, loaded once from
// the application config.
type Params struct {
	RecordWindow         time.Duration
	ControllablePrefixes []string
	BlinkThreshold       float64
	FlashDuration        time.Duration
	WaitColor            pad.Color
	DefaultBPM           float64
}

func DefaultParams() Params {
	return Params{
		RecordWindow:         5 * time.Second,
		ControllablePrefixes: []string{"/scenes", "/presets", "/controls"},
		BlinkThreshold:       0.5,
		FlashDuration:        150 * time.Millisecond,
		WaitColor:            13, // palette yellow
		DefaultBPM:           120,
	}
}

// Controllable reports whether an address represents a discrete user action
// eligible for Learn Mode capture, as opposed to continuous telemetry.
func (p Params) Controllable(address string) bool {
	for _, prefix := range p.ControllablePrefixes {
		prefix = strings.TrimSuffix(prefix, "/")
		if address == prefix || strings.HasPrefix(address, prefix+"/") {
			return true
		}
	}
	return false
}

// State is the complete controller snapshot. Transitions never mutate it,
// they return a fresh value; the event loop replaces its copy wholesale.
type State struct {
	Pads    map[pad.ButtonID]pad.Behavior
	Runtime map[pad.ButtonID]RuntimeState
	Groups  pad.Groups
	Active  map[pad.GroupID]pad.ButtonID

	BeatPhase float64
	BeatPulse bool
	BPM       float64
	LastBeat  time.Time

	Learn  LearnState
	Params Params
}

// NewState builds the initial snapshot from a loaded mapping.
func NewState(pads map[pad.ButtonID]pad.Behavior, groups pad.Groups, params Params) State {
	s := State{
		Pads:    make(map[pad.ButtonID]pad.Behavior, len(pads)),
		Runtime: make(map[pad.ButtonID]RuntimeState, len(pads)),
		Groups:  make(pad.Groups, len(groups)),
		Active:  make(map[pad.GroupID]pad.ButtonID),
		BPM:     params.DefaultBPM,
		Params:  params,
	}
	for btn, b := range pads {
		s.Pads[btn] = b
		s.Runtime[btn] = RuntimeState{Color: b.IdleColor}
	}
	for g, parent := range groups {
		s.Groups[g] = parent
	}
	return s
}

func (s State) clone() State {
	next := s

	next.Pads = make(map[pad.ButtonID]pad.Behavior, len(s.Pads))
	for k, v := range s.Pads {
		next.Pads[k] = v
	}
	next.Runtime = make(map[pad.ButtonID]RuntimeState, len(s.Runtime))
	for k, v := range s.Runtime {
		next.Runtime[k] = v
	}
	next.Active = make(map[pad.GroupID]pad.ButtonID, len(s.Active))
	for k, v := range s.Active {
		next.Active[k] = v
	}
	next.Groups = make(pad.Groups, len(s.Groups))
	for k, v := range s.Groups {
		next.Groups[k] = v
	}

	if s.Learn.Target != nil {
		t := *s.Learn.Target
		next.Learn.Target = &t
	}
	if s.Learn.RecordStart != nil {
		t := *s.Learn.RecordStart
		next.Learn.RecordStart = &t
	}
	next.Learn.Candidates = append([]pad.Command(nil), s.Learn.Candidates...)

	return next
}

// AllButtons lists every grid coordinate, side column included, in a stable
// order (top-left to bottom-right).
func AllButtons() []pad.ButtonID {
	buttons := make([]pad.ButtonID, 0, (pad.MaxX+1)*(pad.MaxY+1))
	for y := 0; y <= pad.MaxY; y++ {
		for x := 0; x <= pad.MaxX; x++ {
			buttons = append(buttons, pad.ButtonID{X: x, Y: y})
		}
	}
	return buttons
}

func sortedButtons(m map[pad.ButtonID]RuntimeState) []pad.ButtonID {
	buttons := make([]pad.ButtonID, 0, len(m))
	for btn := range m {
		buttons = append(buttons, btn)
	}
	sort.Slice(buttons, func(i, j int) bool {
		if buttons[i].Y != buttons[j].Y {
			return buttons[i].Y < buttons[j].Y
		}
		return buttons[i].X < buttons[j].X
	})
	return buttons
}

// RenderAll produces the LED effects that bring the hardware in line with
// the snapshot: configured pads show their current runtime color, everything
// else goes dark. Used for startup sync, Learn Mode exits and mapping
// reloads.
func RenderAll(s State) []Effect {
	var effects []Effect
	for _, btn := range AllButtons() {
		rt, ok := s.Runtime[btn]
		if !ok {
			effects = append(effects, SetLed{Button: btn, Color: pad.ColorOff})
			continue
		}
		effects = append(effects, SetLed{Button: btn, Color: rt.Color})
	}
	return effects
}
