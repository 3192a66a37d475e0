// Package launchpad drives a Novation Launchpad X in programmer mode: pad
// press events in, LED state out. The 8x8 grid maps to x 0-7, the right-hand
// scene column to x 8, y counts rows from the bottom.
package launchpad

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

const (
	channelSteady = 0
	channelBlink  = 1
)

// PadEvent is one press or release of a grid pad.
type PadEvent struct {
	Button  pad.ButtonID
	Pressed bool
	At      time.Time
}

// Controller owns the MIDI connection to one device.
type Controller struct {
	in   drivers.In
	out  drivers.Out
	send func(msg gomidi.Message) error
	stop func()

	events chan PadEvent
}

// New opens both ports and switches the device into programmer mode.
func New(in drivers.In, out drivers.Out) (*Controller, error) {
	c := &Controller{
		in:     in,
		out:    out,
		events: make(chan PadEvent, 32),
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("opening output failed: %w", err)
	}
	c.send = send

	// programmer mode, full brightness
	if err = c.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F})); err != nil {
		return nil, fmt.Errorf("entering programmer mode failed: %w", err)
	}
	if err = c.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F})); err != nil {
		return nil, fmt.Errorf("setting brightness failed: %w", err)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		now := time.Now()
		var channel, note, velocity uint8

		switch {
		case msg.GetNoteOn(&channel, &note, &velocity):
			if button, ok := noteToButton(note); ok {
				c.emit(PadEvent{Button: button, Pressed: velocity > 0, At: now})
			}
		case msg.GetNoteOff(&channel, &note, &velocity):
			if button, ok := noteToButton(note); ok {
				c.emit(PadEvent{Button: button, Pressed: false, At: now})
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("opening input failed: %w", err)
	}
	c.stop = stop

	return c, nil
}

func (c *Controller) emit(ev PadEvent) {
	select {
	case c.events <- ev:
	default:
	}
}

// Events returns the stream of pad presses and releases.
func (c *Controller) Events() <-chan PadEvent {
	return c.events
}

// SetLed lights one pad. Blink engages the device's own flashing, used for
// the learn waiting pattern.
func (c *Controller) SetLed(button pad.ButtonID, color pad.Color, blink bool) error {
	channel := uint8(channelSteady)
	if blink {
		channel = channelBlink
	}
	return c.send(gomidi.NoteOn(channel, buttonToNote(button), uint8(color)))
}

// Clear switches every pad LED off.
func (c *Controller) Clear() error {
	for y := 0; y <= pad.MaxY; y++ {
		for x := 0; x <= pad.MaxX; x++ {
			b := pad.ButtonID{X: x, Y: y}
			if err := c.SetLed(b, pad.ColorOff, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close clears the grid and shuts the MIDI connection down.
func (c *Controller) Close() error {
	err := c.Clear()
	if c.stop != nil {
		c.stop()
	}
	close(c.events)
	return err
}

// buttonToNote translates a grid coordinate into the programmer mode note
// layout: the grid spans notes 11-88, the scene column 19-89.
func buttonToNote(b pad.ButtonID) uint8 {
	return uint8((b.Y+1)*10 + b.X + 1)
}

func noteToButton(note uint8) (pad.ButtonID, bool) {
	x := int(note%10) - 1
	y := int(note/10) - 1
	if x < 0 || x > pad.MaxX || y < 0 || y > pad.MaxY {
		return pad.ButtonID{}, false
	}
	return pad.ButtonID{X: x, Y: y}, true
}

// FindPorts picks the first in/out port pair whose name contains the given
// substring, case-insensitively.
func FindPorts(name string) (drivers.In, drivers.Out, error) {
	var in drivers.In
	var out drivers.Out

	for _, port := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(port.String()), strings.ToLower(name)) {
			in = port
			break
		}
	}
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), strings.ToLower(name)) {
			out = port
			break
		}
	}

	if in == nil || out == nil {
		return nil, nil, fmt.Errorf("no MIDI device matching \"%s\" found", name)
	}
	return in, out, nil
}
