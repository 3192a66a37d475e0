package controller

import (
	"time"

	"github.com/lumipad/lumipad/internal/pkg/logg"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// Transition is the pure pad-behavior state machine: it maps the current
// snapshot and one event to the next snapshot plus the side effects to
// perform. It does no I/O and never consults the wall clock; every timestamp
// it needs arrives inside the event.
func Transition(s State, e Event) (State, []Effect) {
	switch ev := e.(type) {
	case PadPressed:
		return handlePadPressed(s, ev)
	case PadReleased:
		return handlePadReleased(s, ev)
	case MessageReceived:
		if s.Learn.Phase == LearnRecord {
			return learnRecordMessage(s, ev)
		}
		if s.Learn.Phase != LearnIdle {
			return s, nil
		}
		return mirrorInbound(s, ev)
	case Tick:
		return handleTick(s, ev)
	case BeatPulse:
		next := s.clone()
		next.LastBeat = ev.At
		next.BeatPhase = 1.0
		next.BeatPulse = true
		return next, nil
	case TempoChanged:
		if ev.BPM <= 0 {
			return s, []Effect{Log{logg.Warningf("ignoring non-positive tempo %.2f", ev.BPM)}}
		}
		next := s.clone()
		next.BPM = ev.BPM
		return next, nil
	case LearnButtonPressed:
		return learnButtonPressed(s)
	case LearnCandidateChosen:
		return learnCandidateChosen(s, ev)
	case LearnCancelled:
		if s.Learn.Phase == LearnIdle {
			return s, nil
		}
		return cancelLearn(s)
	case ConfigReloaded:
		return reloadConfig(s, ev)
	}
	return s, nil
}

func handlePadPressed(s State, ev PadPressed) (State, []Effect) {
	switch s.Learn.Phase {
	case LearnWaitPad:
		return learnTargetSelected(s, ev)
	case LearnRecord, LearnSelect:
		// grid input is reserved while a capture or selection is pending
		return s, nil
	}

	b, ok := s.Pads[ev.Button]
	if !ok {
		return s, nil
	}

	switch b.Mode {
	case pad.ModeSelector:
		return pressSelector(s, ev.Button, b, true)
	case pad.ModeToggle:
		return pressToggle(s, ev.Button, b)
	case pad.ModeOneShot:
		return pressOneShot(s, ev, b)
	case pad.ModePush:
		next := s.clone()
		rt := next.Runtime[ev.Button]
		rt.Color = b.ActiveColor
		next.Runtime[ev.Button] = rt
		return next, []Effect{
			SendCommand{Command: b.Action.WithArg(1)},
			SetLed{Button: ev.Button, Color: b.ActiveColor},
		}
	}
	return s, nil
}

func handlePadReleased(s State, ev PadReleased) (State, []Effect) {
	if s.Learn.Phase != LearnIdle {
		return s, nil
	}
	b, ok := s.Pads[ev.Button]
	if !ok || b.Mode != pad.ModePush {
		return s, nil
	}
	next := s.clone()
	rt := next.Runtime[ev.Button]
	rt.Color = b.IdleColor
	next.Runtime[ev.Button] = rt
	return next, []Effect{
		SendCommand{Command: b.Action.WithArg(0)},
		SetLed{Button: ev.Button, Color: b.IdleColor},
	}
}

// pressSelector activates a radio-group pad. With emitSend false the same
// activation is used to mirror a remote change, so no command goes back out.
func pressSelector(s State, btn pad.ButtonID, b pad.Behavior, emitSend bool) (State, []Effect) {
	if cur, ok := s.Active[b.Group]; ok && cur == btn {
		// idempotent re-press, nothing to do
		return s, nil
	}

	next := s.clone()
	var effects []Effect
	if emitSend {
		effects = append(effects, SendCommand{Command: *b.Action})
	}

	if prev, ok := next.Active[b.Group]; ok {
		prevBehavior := next.Pads[prev]
		rt := next.Runtime[prev]
		rt.Active = false
		rt.Blink = false
		rt.BlinkOn = false
		rt.Color = prevBehavior.IdleColor
		next.Runtime[prev] = rt
		effects = append(effects, SetLed{Button: prev, Color: prevBehavior.IdleColor})
	}

	rt := next.Runtime[btn]
	rt.Active = true
	rt.Blink = true
	rt.BlinkOn = true
	rt.Color = b.ActiveColor
	next.Runtime[btn] = rt
	next.Active[b.Group] = btn
	effects = append(effects, SetLed{Button: btn, Color: b.ActiveColor})

	effects = append(effects, clearChildGroups(&next, b.Group)...)

	return next, effects
}

// clearChildGroups drops the active selection of every group below the given
// one, recursively, resetting the affected LEDs to idle.
func clearChildGroups(next *State, group pad.GroupID) []Effect {
	var effects []Effect
	for _, child := range next.Groups.Children(group) {
		if active, ok := next.Active[child]; ok {
			b := next.Pads[active]
			rt := next.Runtime[active]
			rt.Active = false
			rt.Blink = false
			rt.BlinkOn = false
			rt.Color = b.IdleColor
			next.Runtime[active] = rt
			delete(next.Active, child)
			effects = append(effects, SetLed{Button: active, Color: b.IdleColor})
		}
		effects = append(effects, clearChildGroups(next, child)...)
	}
	return effects
}

func pressToggle(s State, btn pad.ButtonID, b pad.Behavior) (State, []Effect) {
	next := s.clone()
	rt := next.Runtime[btn]

	var effects []Effect
	if !rt.On {
		rt.On = true
		rt.Color = b.ActiveColor
		effects = append(effects,
			SendCommand{Command: *b.On},
			SetLed{Button: btn, Color: b.ActiveColor},
		)
	} else {
		rt.On = false
		rt.Color = b.IdleColor
		cmd := b.On
		if b.Off != nil {
			cmd = b.Off
		}
		effects = append(effects,
			SendCommand{Command: *cmd},
			SetLed{Button: btn, Color: b.IdleColor},
		)
	}
	next.Runtime[btn] = rt
	return next, effects
}

func pressOneShot(s State, ev PadPressed, b pad.Behavior) (State, []Effect) {
	next := s.clone()
	rt := next.Runtime[ev.Button]
	rt.FlashUntil = ev.At.Add(s.Params.FlashDuration)
	next.Runtime[ev.Button] = rt
	return next, []Effect{
		SendCommand{Command: *b.Action},
		SetLed{Button: ev.Button, Color: b.ActiveColor},
	}
}

// mirrorInbound reflects a remote state change onto the grid: a controllable
// message matching a configured pad's command updates that pad as if it had
// been activated remotely, without echoing the command back.
func mirrorInbound(s State, ev MessageReceived) (State, []Effect) {
	for btn, b := range s.Pads {
		switch b.Mode {
		case pad.ModeSelector:
			if b.Action.Equal(ev.Message) {
				return pressSelector(s, btn, b, false)
			}
		case pad.ModeToggle:
			if b.On.Equal(ev.Message) {
				if rt := s.Runtime[btn]; !rt.On {
					next := s.clone()
					rt.On = true
					rt.Color = b.ActiveColor
					next.Runtime[btn] = rt
					return next, []Effect{SetLed{Button: btn, Color: b.ActiveColor}}
				}
				return s, nil
			}
			if b.Off != nil && b.Off.Equal(ev.Message) {
				if rt := s.Runtime[btn]; rt.On {
					next := s.clone()
					rt.On = false
					rt.Color = b.IdleColor
					next.Runtime[btn] = rt
					return next, []Effect{SetLed{Button: btn, Color: b.IdleColor}}
				}
				return s, nil
			}
		}
	}
	return s, nil
}

func handleTick(s State, ev Tick) (State, []Effect) {
	next := s.clone()
	var effects []Effect

	bpm := next.BPM
	if bpm <= 0 {
		bpm = next.Params.DefaultBPM
	}
	next.BeatPhase = PhaseAt(next.LastBeat, bpm, ev.Now)
	next.BeatPulse = next.BeatPhase > next.Params.BlinkThreshold

	for _, btn := range sortedButtons(next.Runtime) {
		rt := next.Runtime[btn]

		if rt.Blink && rt.Active {
			on := ComputeBlink(next.BeatPhase, true, next.Params.BlinkThreshold)
			if on != rt.BlinkOn {
				rt.BlinkOn = on
				color := pad.ColorOff
				if on {
					color = next.Pads[btn].ActiveColor
				}
				next.Runtime[btn] = rt
				effects = append(effects, SetLed{Button: btn, Color: color})
			}
		}

		if !rt.FlashUntil.IsZero() && !ev.Now.Before(rt.FlashUntil) {
			rt.FlashUntil = time.Time{}
			next.Runtime[btn] = rt
			effects = append(effects, SetLed{Button: btn, Color: next.Pads[btn].IdleColor})
		}
	}

	if next.Learn.Phase == LearnRecord {
		var learnEffects []Effect
		next, learnEffects = learnDeadline(next, ev.Now)
		effects = append(effects, learnEffects...)
	}

	return next, effects
}

func reloadConfig(s State, ev ConfigReloaded) (State, []Effect) {
	var effects []Effect
	if s.Learn.Phase != LearnIdle {
		effects = append(effects, Log{logg.Warning("pad mapping reloaded, learn mode aborted")})
	}

	next := NewState(ev.Pads, ev.Groups, s.Params)
	next.BPM = s.BPM
	next.LastBeat = s.LastBeat
	next.BeatPhase = s.BeatPhase
	next.BeatPulse = s.BeatPulse

	effects = append(effects, RenderAll(next)...)
	effects = append(effects, Log{logg.Infof("pad mapping reloaded: %d pads", len(next.Pads))})
	return next, effects
}
