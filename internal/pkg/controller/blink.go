package controller

import "time"

// ComputeBlink decides whether a beat-reactive LED renders on for the
// current beat phase. Phase decays from 1.0 at a pulse toward 0.0, so the
// LED lights on the pulse and goes dark halfway to the next one.
func ComputeBlink(beatPhase float64, blinkEnabled bool, threshold float64) bool {
	if !blinkEnabled {
		return false
	}
	return beatPhase > threshold
}

// PhaseAt returns the linearly decayed beat phase at a point in time, given
// the last observed pulse and the tempo. One full decay spans one beat
// interval; with no pulse seen yet the phase is 0.
func PhaseAt(lastBeat time.Time, bpm float64, now time.Time) float64 {
	if lastBeat.IsZero() || bpm <= 0 {
		return 0
	}
	interval := time.Duration(float64(time.Minute) / bpm)
	elapsed := now.Sub(lastBeat)
	if elapsed <= 0 {
		return 1
	}
	phase := 1 - float64(elapsed)/float64(interval)
	if phase < 0 {
		return 0
	}
	return phase
}
