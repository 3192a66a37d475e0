package controller

import (
	"time"

	"github.com/lumipad/lumipad/internal/pkg/logg"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// learnButtonPressed toggles learn mode. Outside of IDLE the dedicated button
// acts as an escape hatch and aborts whatever phase is in progress.
func learnButtonPressed(s State) (State, []Effect) {
	if s.Learn.Phase != LearnIdle {
		return cancelLearn(s)
	}

	next := s.clone()
	next.Learn = LearnState{Phase: LearnWaitPad}

	effects := []Effect{Log{logg.Info("learn mode: waiting for target pad")}}
	for _, btn := range AllButtons() {
		effects = append(effects, SetLed{Button: btn, Color: next.Params.WaitColor, Blink: true})
	}
	return next, effects
}

// learnTargetSelected arms the recording window on the chosen pad.
func learnTargetSelected(s State, ev PadPressed) (State, []Effect) {
	next := s.clone()
	target := ev.Button
	next.Learn = LearnState{
		Phase:     LearnRecord,
		Target:    &target,
		EnteredAt: ev.At,
	}

	effects := RenderAll(next)
	effects = append(effects,
		SetLed{Button: target, Color: next.Params.WaitColor, Blink: true},
		Log{logg.Infof("learn mode: recording messages for pad %s", target)},
	)
	return next, effects
}

// learnRecordMessage captures one inbound message as a candidate. Messages
// outside the controllable address space are ignored, duplicates collapse to
// the first occurrence, and the first accepted message starts the window.
func learnRecordMessage(s State, ev MessageReceived) (State, []Effect) {
	if !s.Params.Controllable(ev.Message.Address) {
		return s, nil
	}

	key := ev.Message.Key()
	for _, c := range s.Learn.Candidates {
		if c.Key() == key {
			return s, nil
		}
	}

	next := s.clone()
	if next.Learn.RecordStart == nil {
		at := ev.At
		next.Learn.RecordStart = &at
	}
	next.Learn.Candidates = append(next.Learn.Candidates, ev.Message)

	return next, []Effect{
		Log{logg.Infof("learn mode: captured candidate %d: %s", len(next.Learn.Candidates), ev.Message)},
	}
}

// learnDeadline closes the recording window. Measured from the first captured
// message when one arrived, otherwise from entering the phase, so an idle
// visual host cannot park the controller in RECORD forever.
func learnDeadline(s State, now time.Time) (State, []Effect) {
	start := s.Learn.EnteredAt
	if s.Learn.RecordStart != nil {
		start = *s.Learn.RecordStart
	}
	if now.Before(start.Add(s.Params.RecordWindow)) {
		return s, nil
	}

	if len(s.Learn.Candidates) == 0 {
		next, effects := cancelLearn(s)
		effects = append(effects, Log{logg.Warning("learn mode: no controllable messages captured")})
		return next, effects
	}

	next := s.clone()
	next.Learn.Phase = LearnSelect
	return next, []Effect{
		Log{logg.Infof("learn mode: %d candidate(s) captured, awaiting selection", len(next.Learn.Candidates))},
	}
}

// learnCandidateChosen finishes the wizard: the indexed candidate plus the
// operator's mode choice become the target pad's behavior, persisted to disk.
func learnCandidateChosen(s State, ev LearnCandidateChosen) (State, []Effect) {
	if s.Learn.Phase != LearnSelect || s.Learn.Target == nil {
		return s, nil
	}
	if ev.Index < 0 || ev.Index >= len(s.Learn.Candidates) {
		return s, []Effect{Log{logg.Warningf("learn mode: candidate index %d out of range", ev.Index)}}
	}

	target := *s.Learn.Target
	command := s.Learn.Candidates[ev.Index]
	choice := ev.Choice

	proto := pad.Behavior{
		Mode:        choice.Mode,
		Group:       choice.Group,
		IdleColor:   choice.IdleColor,
		ActiveColor: choice.ActiveColor,
		Label:       choice.Label,
	}
	if choice.Mode == pad.ModeToggle {
		proto.On = &command
		proto.Off = choice.Off
	} else {
		proto.Action = &command
	}
	behavior, err := pad.NewBehavior(proto)
	if err != nil {
		next, effects := cancelLearn(s)
		effects = append(effects, Log{logg.Warningf("learn mode: invalid behavior: %s", err)})
		return next, effects
	}

	var effects []Effect
	if _, mapped := s.Pads[target]; mapped {
		effects = append(effects, Log{logg.Warningf("learn mode: overwriting existing mapping for pad %s", target)})
	}

	next := s.clone()
	next.Pads[target] = behavior
	next.Runtime[target] = RuntimeState{Color: behavior.IdleColor}
	for group, active := range next.Active {
		if active == target {
			delete(next.Active, group)
		}
	}
	next.Learn = LearnState{}

	effects = append(effects, PersistConfig{})
	effects = append(effects, RenderAll(next)...)
	effects = append(effects, Log{logg.Infof("learn mode: pad %s mapped to %s (%s)", target, command, behavior.Mode)})
	return next, effects
}

// cancelLearn drops any learn progress and restores the normal LED picture.
func cancelLearn(s State) (State, []Effect) {
	next := s.clone()
	next.Learn = LearnState{}

	effects := RenderAll(next)
	effects = append(effects, Log{logg.Info("learn mode: cancelled")})
	return next, effects
}
