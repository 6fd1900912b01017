// Package notify plays a short earcon when the wake phrase is detected, so
// the user knows the assistant is capturing a command.
package notify

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 880
	toneLen    = 120 * time.Millisecond
)

// Chime plays a brief tone on the default output device and blocks until it
// has finished. Errors are swallowed — a missing output device must never
// stall the listen loop.
func Chime() {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(
		beep.Take(sampleRate.N(toneLen), tone(toneHz)),
		beep.Callback(func() { close(done) }),
	))
	<-done
}

// tone generates a sine wave at the given frequency.
func tone(hz float64) beep.Streamer {
	var phase float64
	step := hz / float64(sampleRate)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.3 * math.Sin(2*math.Pi*phase)
			samples[i][0] = v
			samples[i][1] = v
			phase += step
			if phase >= 1 {
				phase -= 1
			}
		}
		return len(samples), true
	})
}
