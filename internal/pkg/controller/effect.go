package controller

import (
	"fmt"

	"github.com/lumipad/lumipad/internal/pkg/logg"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// Effect describes one side effect decided by Transition. Effects are
// executed afterwards, in order, by the bridge executor; the transition
// function itself performs none of them.
type Effect interface {
	effect()
}

// SendCommand sends one outbound protocol message, exactly once.
type SendCommand struct {
	Command pad.Command
}

// SetLed sets a physical pad LED. Blink engages the hardware blink used for
// the Learn Mode waiting pattern; beat-synchronized blinking is rendered in
// software by Tick transitions instead.
type SetLed struct {
	Button pad.ButtonID
	Color  pad.Color
	Blink  bool
}

// PersistConfig saves the complete current pad mapping.
type PersistConfig struct{}

// Log emits one log entry.
type Log struct {
	Entry logg.Entry
}

func (SendCommand) effect()   {}
func (SetLed) effect()        {}
func (PersistConfig) effect() {}
func (Log) effect()           {}

func (e SendCommand) String() string {
	return fmt.Sprintf("send %s", e.Command)
}

func (e SetLed) String() string {
	if e.Blink {
		return fmt.Sprintf("led %s = %d (blink)", e.Button, e.Color)
	}
	return fmt.Sprintf("led %s = %d", e.Button, e.Color)
}

func (e Log) String() string {
	return e.Entry.String()
}
