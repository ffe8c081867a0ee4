// Package beep plays short audio cues for sequence progress and matches.
package beep

import "math"

var disabled bool

func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Step: short high tick while a sequence advances
	stepFreq   = 1400
	stepVolume = 0.4
	stepDecay  = 80
	stepDur    = 0.04

	// Match: two rising ticks
	matchLowFreq  = 880
	matchHighFreq = 1320
	matchVolume   = 0.5
	matchDecay    = 50
	matchDur      = 0.06
	matchGap      = 0.02

	// Reset: low pitch double-beep when a sequence times out
	resetFreq   = 350
	resetVolume = 0.6
	resetDecay  = 30
	resetDur    = 0.08
	resetGap    = 0.05
)

// tick renders a decaying sine as mono 16-bit samples.
func tick(freq, duration, volume, decay float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

func silence(duration float64) []int16 {
	return make([]int16, int(float64(sampleRate)*duration))
}

func concat(parts ...[]int16) []int16 {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]int16, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func stepSound() []int16 {
	return tick(stepFreq, stepDur, stepVolume, stepDecay)
}

func matchSound() []int16 {
	return concat(
		tick(matchLowFreq, matchDur, matchVolume, matchDecay),
		silence(matchGap),
		tick(matchHighFreq, matchDur, matchVolume, matchDecay),
	)
}

func resetSound() []int16 {
	beep := tick(resetFreq, resetDur, resetVolume, resetDecay)
	return concat(beep, silence(resetGap), beep)
}
