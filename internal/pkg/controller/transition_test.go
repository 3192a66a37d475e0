package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

func cmd(address string, args ...interface{}) pad.Command {
	return pad.NewCommand(address, args...)
}

func cmdPtr(address string, args ...interface{}) *pad.Command {
	c := pad.NewCommand(address, args...)
	return &c
}

func selectorBehavior(group pad.GroupID, action pad.Command) pad.Behavior {
	b, err := pad.NewBehavior(pad.Behavior{
		Mode:        pad.ModeSelector,
		Group:       group,
		IdleColor:   5,
		ActiveColor: 21,
		Action:      &action,
	})
	if err != nil {
		panic(err)
	}
	return b
}

func testState() State {
	pads := map[pad.ButtonID]pad.Behavior{
		{X: 0, Y: 0}: selectorBehavior("scenes", cmd("/scenes/intro")),
		{X: 1, Y: 0}: selectorBehavior("scenes", cmd("/scenes/drop")),
		{X: 0, Y: 1}: selectorBehavior("presets", cmd("/presets/strobe")),
		{X: 2, Y: 0}: {
			Mode:        pad.ModeToggle,
			IdleColor:   5,
			ActiveColor: 21,
			On:          cmdPtr("/controls/blur", int32(1)),
			Off:         cmdPtr("/controls/blur", int32(0)),
		},
		{X: 3, Y: 0}: {
			Mode:        pad.ModeToggle,
			IdleColor:   5,
			ActiveColor: 21,
			On:          cmdPtr("/controls/invert"),
		},
		{X: 4, Y: 0}: {
			Mode:        pad.ModeOneShot,
			IdleColor:   5,
			ActiveColor: 21,
			Action:      cmdPtr("/controls/flash"),
		},
		{X: 5, Y: 0}: {
			Mode:        pad.ModePush,
			IdleColor:   5,
			ActiveColor: 21,
			Action:      cmdPtr("/controls/hold"),
		},
	}
	groups := pad.Groups{
		"scenes":  "",
		"presets": "scenes",
	}
	return NewState(pads, groups, DefaultParams())
}

func sentCommands(effects []Effect) []pad.Command {
	var out []pad.Command
	for _, e := range effects {
		if s, ok := e.(SendCommand); ok {
			out = append(out, s.Command)
		}
	}
	return out
}

func ledChanges(effects []Effect) []SetLed {
	var out []SetLed
	for _, e := range effects {
		if l, ok := e.(SetLed); ok {
			out = append(out, l)
		}
	}
	return out
}

func TestSelectorPress(t *testing.T) {
	s := testState()
	now := time.Now()

	next, effects := Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})

	assert.Equal(t, []pad.Command{cmd("/scenes/intro")}, sentCommands(effects))
	assert.Equal(t, []SetLed{
		{Button: pad.ButtonID{X: 0, Y: 0}, Color: 21, Blink: false},
	}, ledChanges(effects))
	assert.Equal(t, pad.ButtonID{X: 0, Y: 0}, next.Active["scenes"])
	assert.True(t, next.Runtime[pad.ButtonID{X: 0, Y: 0}].Active)

	// original snapshot untouched
	assert.Empty(t, s.Active)
}

func TestSelectorSwitchWithinGroup(t *testing.T) {
	s := testState()
	now := time.Now()

	s, _ = Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})
	next, effects := Transition(s, PadPressed{Button: pad.ButtonID{X: 1, Y: 0}, At: now})

	assert.Equal(t, []pad.Command{cmd("/scenes/drop")}, sentCommands(effects))
	assert.Equal(t, []SetLed{
		{Button: pad.ButtonID{X: 0, Y: 0}, Color: 5},
		{Button: pad.ButtonID{X: 1, Y: 0}, Color: 21},
	}, ledChanges(effects))
	assert.Equal(t, pad.ButtonID{X: 1, Y: 0}, next.Active["scenes"])
	assert.False(t, next.Runtime[pad.ButtonID{X: 0, Y: 0}].Active)
	assert.True(t, next.Runtime[pad.ButtonID{X: 1, Y: 0}].Active)
}

func TestSelectorRepressIsIdempotent(t *testing.T) {
	s := testState()
	now := time.Now()

	s, _ = Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})
	next, effects := Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})

	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestParentSelectorClearsChildGroups(t *testing.T) {
	s := testState()
	now := time.Now()

	s, _ = Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})
	s, _ = Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 1}, At: now})
	require.Equal(t, pad.ButtonID{X: 0, Y: 1}, s.Active["presets"])

	next, effects := Transition(s, PadPressed{Button: pad.ButtonID{X: 1, Y: 0}, At: now})

	_, stillActive := next.Active["presets"]
	assert.False(t, stillActive)
	assert.False(t, next.Runtime[pad.ButtonID{X: 0, Y: 1}].Active)
	assert.Contains(t, ledChanges(effects), SetLed{Button: pad.ButtonID{X: 0, Y: 1}, Color: 5})
}

func TestUnmappedPadIsIgnored(t *testing.T) {
	s := testState()

	next, effects := Transition(s, PadPressed{Button: pad.ButtonID{X: 7, Y: 7}, At: time.Now()})

	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestTogglePress(t *testing.T) {
	s := testState()
	btn := pad.ButtonID{X: 2, Y: 0}
	now := time.Now()

	next, effects := Transition(s, PadPressed{Button: btn, At: now})
	assert.Equal(t, []pad.Command{cmd("/controls/blur", int32(1))}, sentCommands(effects))
	assert.True(t, next.Runtime[btn].On)

	next, effects = Transition(next, PadPressed{Button: btn, At: now})
	assert.Equal(t, []pad.Command{cmd("/controls/blur", int32(0))}, sentCommands(effects))
	assert.False(t, next.Runtime[btn].On)
}

func TestToggleWithoutOffResendsOn(t *testing.T) {
	s := testState()
	btn := pad.ButtonID{X: 3, Y: 0}
	now := time.Now()

	s, _ = Transition(s, PadPressed{Button: btn, At: now})
	next, effects := Transition(s, PadPressed{Button: btn, At: now})

	assert.Equal(t, []pad.Command{cmd("/controls/invert")}, sentCommands(effects))
	assert.False(t, next.Runtime[btn].On)
	assert.Contains(t, ledChanges(effects), SetLed{Button: btn, Color: 5})
}

func TestOneShotFlash(t *testing.T) {
	s := testState()
	btn := pad.ButtonID{X: 4, Y: 0}
	now := time.Now()

	next, effects := Transition(s, PadPressed{Button: btn, At: now})

	assert.Equal(t, []pad.Command{cmd("/controls/flash")}, sentCommands(effects))
	assert.Contains(t, ledChanges(effects), SetLed{Button: btn, Color: 21})
	assert.Equal(t, now.Add(s.Params.FlashDuration), next.Runtime[btn].FlashUntil)

	// flash expires on the next tick past the deadline
	next, effects = Transition(next, Tick{Now: now.Add(s.Params.FlashDuration)})
	assert.Contains(t, ledChanges(effects), SetLed{Button: btn, Color: 5})
	assert.True(t, next.Runtime[btn].FlashUntil.IsZero())
}

func TestPushPressAndRelease(t *testing.T) {
	s := testState()
	btn := pad.ButtonID{X: 5, Y: 0}
	now := time.Now()

	next, effects := Transition(s, PadPressed{Button: btn, At: now})
	assert.Equal(t, []pad.Command{cmd("/controls/hold", int32(1))}, sentCommands(effects))
	assert.Contains(t, ledChanges(effects), SetLed{Button: btn, Color: 21})

	next, effects = Transition(next, PadReleased{Button: btn, At: now})
	assert.Equal(t, []pad.Command{cmd("/controls/hold", int32(0))}, sentCommands(effects))
	assert.Contains(t, ledChanges(effects), SetLed{Button: btn, Color: 5})
}

func TestMirrorInboundSelector(t *testing.T) {
	s := testState()
	now := time.Now()

	s, _ = Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})

	next, effects := Transition(s, MessageReceived{Message: cmd("/scenes/drop"), At: now})

	// mirrored activation must not echo the command back out
	assert.Empty(t, sentCommands(effects))
	assert.Equal(t, pad.ButtonID{X: 1, Y: 0}, next.Active["scenes"])
	assert.Equal(t, []SetLed{
		{Button: pad.ButtonID{X: 0, Y: 0}, Color: 5},
		{Button: pad.ButtonID{X: 1, Y: 0}, Color: 21},
	}, ledChanges(effects))
}

func TestMirrorInboundToggle(t *testing.T) {
	s := testState()
	btn := pad.ButtonID{X: 2, Y: 0}
	now := time.Now()

	next, effects := Transition(s, MessageReceived{Message: cmd("/controls/blur", int32(1)), At: now})
	assert.Empty(t, sentCommands(effects))
	assert.True(t, next.Runtime[btn].On)
	assert.Equal(t, []SetLed{{Button: btn, Color: 21}}, ledChanges(effects))

	// repeated remote "on" changes nothing
	again, effects := Transition(next, MessageReceived{Message: cmd("/controls/blur", int32(1)), At: now})
	assert.Empty(t, effects)
	assert.Equal(t, next, again)

	next, effects = Transition(next, MessageReceived{Message: cmd("/controls/blur", int32(0)), At: now})
	assert.False(t, next.Runtime[btn].On)
	assert.Equal(t, []SetLed{{Button: btn, Color: 5}}, ledChanges(effects))
}

func TestMirrorInboundUnknownMessage(t *testing.T) {
	s := testState()

	next, effects := Transition(s, MessageReceived{Message: cmd("/scenes/unknown"), At: time.Now()})

	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestBeatPulseAndTickBlink(t *testing.T) {
	s := testState()
	btn := pad.ButtonID{X: 0, Y: 0}
	beat := time.Now()

	s, _ = Transition(s, PadPressed{Button: btn, At: beat})
	s, _ = Transition(s, BeatPulse{At: beat})
	require.InDelta(t, 1.0, s.BeatPhase, 0.001)

	// early in the beat the LED stays lit
	s, effects := Transition(s, Tick{Now: beat.Add(100 * time.Millisecond)})
	assert.Empty(t, ledChanges(effects))
	assert.True(t, s.Runtime[btn].BlinkOn)

	// past the half-beat threshold at 120 BPM the LED turns off
	s, effects = Transition(s, Tick{Now: beat.Add(300 * time.Millisecond)})
	assert.Equal(t, []SetLed{{Button: btn, Color: pad.ColorOff}}, ledChanges(effects))
	assert.False(t, s.Runtime[btn].BlinkOn)

	// the next beat switches it back on
	s, _ = Transition(s, BeatPulse{At: beat.Add(500 * time.Millisecond)})
	s, effects = Transition(s, Tick{Now: beat.Add(510 * time.Millisecond)})
	assert.Equal(t, []SetLed{{Button: btn, Color: pad.Color(21)}}, ledChanges(effects))
	assert.True(t, s.Runtime[btn].BlinkOn)
}

func TestTempoChanged(t *testing.T) {
	s := testState()

	next, effects := Transition(s, TempoChanged{BPM: 174})
	assert.Empty(t, effects)
	assert.Equal(t, 174.0, next.BPM)

	next, effects = Transition(next, TempoChanged{BPM: -10})
	assert.Equal(t, 174.0, next.BPM)
	require.Len(t, effects, 1)
	assert.IsType(t, Log{}, effects[0])
}

func TestConfigReloaded(t *testing.T) {
	s := testState()
	now := time.Now()
	s, _ = Transition(s, PadPressed{Button: pad.ButtonID{X: 0, Y: 0}, At: now})
	s, _ = Transition(s, TempoChanged{BPM: 140})

	btn := pad.ButtonID{X: 6, Y: 6}
	pads := map[pad.ButtonID]pad.Behavior{
		btn: selectorBehavior("scenes", cmd("/scenes/outro")),
	}

	next, effects := Transition(s, ConfigReloaded{Pads: pads, Groups: pad.Groups{"scenes": ""}})

	assert.Empty(t, next.Active)
	assert.Equal(t, 140.0, next.BPM)
	assert.Equal(t, pads, next.Pads)
	assert.Contains(t, ledChanges(effects), SetLed{Button: btn, Color: 5})
	assert.Contains(t, ledChanges(effects), SetLed{Button: pad.ButtonID{X: 0, Y: 0}, Color: pad.ColorOff})
}
