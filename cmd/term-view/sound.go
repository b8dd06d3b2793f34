package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// tonePlayer plays the end-of-battle chime. A nil player is silent.
type tonePlayer struct {
	initialized bool
}

func newTonePlayer() *tonePlayer {
	return &tonePlayer{}
}

func (p *tonePlayer) init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

func (p *tonePlayer) close() {
	if p == nil || !p.initialized {
		return
	}
	speaker.Close()
	p.initialized = false
}

// playDecision plays two rising notes.
func (p *tonePlayer) playDecision() {
	if p == nil || !p.initialized {
		return
	}
	speaker.Play(beep.Seq(
		beep.Take(sampleRate.N(time.Millisecond*180), newToneGenerator(sampleRate, 660)),
		beep.Take(sampleRate.N(time.Millisecond*320), newToneGenerator(sampleRate, 880)),
	))
}

// toneGenerator is a sine tone with a short fade-in.
type toneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newToneGenerator(sr beep.SampleRate, freq float64) *toneGenerator {
	return &toneGenerator{sr: sr, freq: freq}
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Min(t/0.01, 1.0)
		sample := 0.2 * envelope * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error {
	return nil
}
