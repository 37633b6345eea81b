package modplayer

import "github.com/protracker-go/modplayer/internal/dsp"

// mixer composes one PCM frame at a time from the live channel state a
// Player exposes (spec.md section 4.6). It owns every per-channel and
// global post-DSP filter, since those need persistent state across frames
// that the channel struct itself has no business holding.
type mixer struct {
	mode       PlayMode
	amplify    float64
	interp     bool
	sampleRate int
	numChans   int

	globalFilterL *dsp.OnePole
	globalFilterR *dsp.OnePole

	bass  []*dsp.OnePole
	delay []*dsp.DelayLine
}

func newMixer(cfg Config, numChans int) *mixer {
	m := &mixer{
		mode:       cfg.PlayMode,
		amplify:    cfg.Amplify,
		interp:     cfg.Interpolate,
		sampleRate: cfg.SampleRate,
		numChans:   numChans,
		bass:       make([]*dsp.OnePole, numChans),
		delay:      make([]*dsp.DelayLine, numChans),
	}
	if m.mode.Filtered() {
		m.globalFilterL = dsp.NewOnePole(2)
		m.globalFilterR = dsp.NewOnePole(2)
	}
	bassN := dsp.BassWindowSamples(cfg.SampleRate)
	delayN := dsp.DelayLineSamples(cfg.SampleRate)
	for i := 0; i < numChans; i++ {
		m.bass[i] = dsp.NewOnePole(bassN)
		m.delay[i] = dsp.NewDelayLine(delayN, 0.5)
	}
	return m
}

// sampleAt reads sample s's waveform at fractional position pos, linearly
// interpolating with the next byte when interpolation is enabled.
func (m *mixer) sampleAt(smp *Sample, pos float64) float64 {
	if len(smp.Data) == 0 {
		return 0
	}
	i := int(pos)
	if i < 0 {
		i = 0
	}
	if i >= len(smp.Data) {
		i = len(smp.Data) - 1
	}
	cur := float64(smp.Data[i])
	if !m.interp {
		return cur
	}
	j := i + 1
	if j >= len(smp.Data) {
		if smp.Looping() && j >= smp.LoopStart+smp.LoopLen {
			j = smp.LoopStart
		} else {
			j = i
		}
	}
	next := float64(smp.Data[j])
	frac := pos - float64(int(pos))
	return cur + (next-cur)*frac
}

// panFor returns the effective [-1,+1] pan for a channel, scaling hard
// panning down to +-0.5 in stereo_soft modes.
func (m *mixer) panFor(c *channel) float64 {
	if m.mode.SoftPan() {
		return c.pan * 0.5
	}
	return c.pan
}

// mixFrame sums every channel's contribution for the current tick into a
// left/right pair (mono renders use left as the sole channel), applies
// per-channel bass/delay post-DSP, then the global Amiga filter if this
// mode engages it.
func (m *mixer) mixFrame(p *Player) (left, right float64) {
	channels := p.Channels()
	headroom := m.amplify / float64(m.numChans)

	for i := range channels {
		c := &channels[i]
		if !c.playing || c.sample == noSample {
			continue
		}
		freq := c.currentFrequency(p.tick, p.kind, p.legacy)
		vol := c.currentVolume(p.tick, p.legacy)

		smp := &p.mod.Samples[c.sample]
		raw := m.sampleAt(smp, c.samplePos) / 128.0
		v := raw * (float64(vol) / 64.0) * headroom

		if c.bassFilterOn {
			v = m.bass[i].Apply(v)
		}

		c.advanceSample(freq, m.sampleRate, p.mod)

		if !m.mode.Stereo() {
			left += v
			if c.delayLineOn {
				m.delay[i].SetFeedback(delayFeedback(c.delayFast))
				left += m.delay[i].Process(v)
			}
			continue
		}

		pan := m.panFor(c)
		left += v * (1 - pan) / 2
		right += v * (1 + pan) / 2

		if c.delayLineOn {
			m.delay[i].SetFeedback(delayFeedback(c.delayFast))
			// The delay line is added predominantly to the right channel
			// per spec.md section 4.6.
			right += m.delay[i].Process(v)
		}
	}

	if m.mode.Filtered() {
		left = m.globalFilterL.Apply(left)
		if m.mode.Stereo() {
			right = m.globalFilterR.Apply(right)
		}
	}
	if !m.mode.Stereo() {
		right = left
	}
	return left, right
}

func delayFeedback(fast bool) float64 {
	if fast {
		return 0.5
	}
	return 0.8
}

// clamp16 saturates a normalized (roughly +-1) float sample into the
// signed 16-bit PCM range spec.md section 4.6 requires every emitted frame
// to respect.
func clamp16(v float64) int16 {
	s := v * 32768
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
