package audio

import (
	"math"
	"sync/atomic"

	"crazycars/internal/mathx"
)

func generateSound(kind SoundKind) []byte {
	switch kind {
	case SoundStart:
		return genStart()
	case SoundBounce:
		return genBounce()
	case SoundFinishBounce:
		return genFinishBounce()
	case SoundLevelUp:
		return genLevelUp()
	case SoundLost:
		return genLost()
	case SoundWon:
		return genWon()
	}
	return nil
}

// genStart: two short beeps and a higher go tone.
func genStart() []byte {
	beeps := []struct{ freq, onset, dur float64 }{
		{440, 0.00, 0.08},
		{440, 0.16, 0.08},
		{880, 0.32, 0.22},
	}
	n := int(0.6 * SampleRate)
	mix := make([]float64, n)
	for _, b := range beeps {
		start := int(b.onset * SampleRate)
		dur := int(b.dur * SampleRate)
		for j := 0; j < dur && start+j < n; j++ {
			t := float64(start+j) / SampleRate
			p := float64(j) / float64(dur)
			env := adsr(p, 0.02, 0.2, 0.7, 0.2)
			mix[start+j] += fm(t, b.freq, 1.0, 0.8*env) * env * 0.4
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genBounce: dull thud with a noise scrape on top.
func genBounce() []byte {
	n := int(0.18 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0xb0b)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.01, 0.4, 0.15, 0.4)
		freq := 140 - 80*p
		s := fm(t, freq, 1.5, 2.2*(1-p)) * env * 0.5
		s += lcg(&seed) * env * env * 0.18
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genFinishBounce: buzzer for crossing the line the wrong way.
func genFinishBounce() []byte {
	n := int(0.3 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.01, 0.1, 0.8, 0.2)
		s := fm(t, 110, 2.0, 4.0) * env * 0.35
		s += fm(t, 116.5, 2.0, 3.0) * env * 0.2
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genLevelUp: ascending FM bell staircase, each note rings over the next.
func genLevelUp() []byte {
	notes := []float64{440, 554.37, 659.25, 880, 1108.73}
	noteStep := int(0.09 * SampleRate)
	total := len(notes)*noteStep + int(0.25*SampleRate)
	mix := make([]float64, total)

	for fi, freq := range notes {
		start := fi * noteStep
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.003, 0.65, 0.04, 0.28)
			s := fm(t, freq, 3.5, 5.5*env) * env * 0.28
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.07
			mix[start+j] += s
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genLost: slow descending minor chord, staggered.
func genLost() []byte {
	n := int(0.75 * SampleRate)
	notes := []struct{ freq, onset float64 }{
		{329.63, 0.00}, // E4
		{261.63, 0.14}, // C4
		{220.00, 0.28}, // A3
	}
	mix := make([]float64, n)
	for _, note := range notes {
		start := int(note.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.008, 0.25, 0.3, 0.45)
			freq := note.freq * (1 - np*0.025)
			s := fm(t, freq, 2.0, 2.0*env) * env * 0.32
			s += math.Sin(2*math.Pi*freq*0.5*t) * env * 0.1
			mix[i] += s
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genWon: major arpeggio resolving on a held chord.
func genWon() []byte {
	notes := []float64{523.25, 659.25, 783.99, 1046.5}
	noteStep := int(0.12 * SampleRate)
	total := len(notes)*noteStep + int(0.9*SampleRate)
	mix := make([]float64, total)
	for fi, freq := range notes {
		start := fi * noteStep
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.005, 0.3, 0.35, 0.4)
			mix[start+j] += fm(t, freq, 2.0, 1.6*env) * env * 0.22
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// engineReader streams an endless engine drone whose pitch follows the
// throttle. Phase is carried across reads so the tone never clicks.
type engineReader struct {
	throttle atomic.Uint64 // float64 bits, 0..1
	phase    float64
	freq     float64
	seed     uint64
}

func newEngineReader() *engineReader {
	return &engineReader{freq: engineIdleHz, seed: 0xe1}
}

const (
	engineIdleHz = 38.0
	engineMaxHz  = 120.0
	engineGlide  = 240.0 // Hz per second
)

func (e *engineReader) SetThrottle(v float64) {
	v = math.Max(0, math.Min(math.Abs(v), 1))
	e.throttle.Store(math.Float64bits(v))
}

func (e *engineReader) Throttle() float64 {
	return math.Float64frombits(e.throttle.Load())
}

func (e *engineReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	target := engineIdleHz + (engineMaxHz-engineIdleHz)*e.Throttle()
	for i := 0; i < frames; i++ {
		e.freq = mathx.Approach(e.freq, target, engineGlide/SampleRate)
		e.phase += e.freq / SampleRate
		if e.phase >= 1 {
			e.phase--
		}
		a := 2 * math.Pi * e.phase
		s := math.Sin(a)*0.5 + math.Sin(2*a)*0.25 + math.Sin(3*a)*0.12
		s += lcg(&e.seed) * 0.04
		putStereoF32(p, i, softSat(s*0.8))
	}
	return frames * 8, nil
}
