package main

import (
	"github.com/protracker-go/modplayer"
	"github.com/protracker-go/modplayer/internal/reverb"
)

// reverbSink decorates a Sink with an optional post-mix comb-filter
// reverb (spec.md's mandatory per-channel delay line lives inside the
// engine; this is the separate, opt-in -reverb flag layered on the final
// mix, same split the reference player keeps between its engine and its
// cmd/modplay front end).
type reverbSink struct {
	inner  modplayer.Sink
	rvb    reverb.Reverber
	stereo bool
	out    []int16
}

func newReverbSink(inner modplayer.Sink, rvb reverb.Reverber, stereo bool) *reverbSink {
	return &reverbSink{inner: inner, rvb: rvb, stereo: stereo, out: make([]int16, 256)}
}

func (s *reverbSink) Begin(sampleRate, channels int) error {
	return s.inner.Begin(sampleRate, channels)
}

func (s *reverbSink) WriteFrame(frame []int16) error {
	if !s.stereo || s.rvb == nil {
		return s.inner.WriteFrame(frame)
	}
	s.rvb.InputSamples(frame)
	for {
		n := s.rvb.GetAudio(s.out)
		if n == 0 {
			break
		}
		for i := 0; i+1 < n; i += 2 {
			if err := s.inner.WriteFrame(s.out[i : i+2]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *reverbSink) End() error {
	return s.inner.End()
}
