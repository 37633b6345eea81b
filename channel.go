package modplayer

// noSample is the sentinel for "no sample assigned" on a channel.
const noSample = -1

// channel holds all per-channel playback state. It is deliberately one
// large contiguous struct rather than parallel arrays: a single channel's
// fields are touched together every tick, so this gives better cache
// locality than a struct-of-arrays layout would.
type channel struct {
	sample         int // index into Module.Samples, noSample if none
	samplePos      float64
	playing        bool
	reverse        bool
	fullSampleThenLoop bool
	cuedSample     int // noSample, or the sample last assigned with a note; only read by advanceSample's full-sample-then-loop check, never switched to

	volume   int
	pan      float64
	fineTune int

	period    int // current effective period (pre-vibrato/arpeggio)
	rawPeriod int // last non-zero row period, pre-finetune

	// Portamento (1xy/2xy/3xy/5xy)
	portaSpeed int
	toneTarget int
	toneMemory int
	toneSliding bool

	// Arpeggio (0xy)
	arpTriad [3]int
	arpOn    bool

	vibrato oscillator
	tremolo oscillator

	glissando bool

	retrigEvery int // E9y, 0 = off

	noteCutAt  int // tick countdown, -1 = inactive
	noteDelayAt int // tick countdown, -1 = inactive
	noteDelaySkip bool // ED with n >= ticksPerRow: note never triggers
	delayedSample int // sample queued to trigger when note delay expires
	delayedPeriod int // period queued similarly

	patLoopRow     int // row bookmarked by the last E60 on this channel, -1 = none
	patLoopCount   int // remaining repeats of an in-progress E6x loop, 0 = idle
	loopRequested  bool // set by rowEntry when this row requests a loop jump; cleared by the sequencer once consumed

	funkSpeed int
	funkAccum int
	funkPos   int // byte offset within the loop region

	bassFilterOn bool
	delayLineOn  bool
	delayFast    bool // feedback 0.5 (fast) vs 0.8 (slow)

	lastOffsetParam int // 9xx memory

	effect byte
	param  byte
}

func newChannel(pan float64) channel {
	return channel{
		sample:        noSample,
		cuedSample:    noSample,
		delayedSample: noSample,
		pan:           pan,
		noteCutAt:     -1,
		noteDelayAt:   -1,
		patLoopRow:    -1,
	}
}

// rowEntry applies the row-time behavior of spec.md section 4.4 for a
// freshly decoded cell. ticksPerRow is the speed in effect for this row
// (needed to evaluate the EC/ED "n >= ticksPerRow" sentinels).
func (c *channel) rowEntry(cl cell, mod *Module, kind periodTableKind, legacy bool, ticksPerRow, row int, patternDelayActive bool) {
	c.noteCutAt = -1
	c.noteDelayAt = -1
	c.noteDelaySkip = false
	c.loopRequested = false

	period, sampleNum, effect, param := cl.Period, cl.Sample, cl.Effect, cl.Param
	if patternDelayActive {
		period, sampleNum, effect, param = 0, 0, 0, 0
	}
	c.effect = effect
	c.param = param

	// Effect memory: re-use the last non-zero parameter.
	if hasMemory(effect) && param == 0 {
		switch effect {
		case fxTonePorta:
			param = byte(c.toneMemory)
		case fxVibrato:
			hi, lo := byte(c.vibrato.speed), byte(c.vibrato.depth)
			param = hi<<4 | lo
		case fxTremolo:
			hi, lo := byte(c.tremolo.speed), byte(c.tremolo.depth)
			param = hi<<4 | lo
		case fxSampleOffset:
			param = byte(c.lastOffsetParam)
		}
	} else {
		switch effect {
		case fxVibrato:
			if hi := param >> 4; hi != 0 {
				c.vibrato.speed = int(hi)
			}
			if lo := param & 0xF; lo != 0 {
				c.vibrato.depth = int(lo)
			}
		case fxTremolo:
			if hi := param >> 4; hi != 0 {
				c.tremolo.speed = int(hi)
			}
			if lo := param & 0xF; lo != 0 {
				c.tremolo.depth = int(lo)
			}
		case fxSampleOffset:
			if param != 0 {
				c.lastOffsetParam = int(param)
			}
		}
	}

	// Portamento prep.
	switch effect {
	case fxPortaUp, fxPortaDown:
		if param != 0 {
			c.portaSpeed = int(param)
		}
	case fxTonePorta, fxTonePortaVol:
		if period > 0 {
			c.toneTarget = finetunedPeriod(kind, period, c.fineTune)
		} else if c.toneTarget == 0 {
			c.toneTarget = c.period
		}
		if effect == fxTonePorta && param != 0 {
			c.toneMemory = int(param)
			c.portaSpeed = int(param)
		} else if effect == fxTonePorta {
			c.portaSpeed = c.toneMemory
		}
		c.toneSliding = true
	}

	// Exy extended effects.
	if effect == fxExtended {
		sub := param >> 4
		arg := param & 0xF
		switch sub {
		case exFinePortaUp:
			c.period -= int(arg)
			if c.period < 1 {
				c.period = 1
			}
		case exFinePortaDown:
			c.period += int(arg)
		case exGlissando:
			c.glissando = arg != 0
		case exVibratoWaveform:
			c.vibrato.wave = waveform(arg & 3)
			c.vibrato.retriggerOnNote = arg&4 == 0
		case exSetFineTune:
			if arg == 0 && !legacy {
				c.fineTune = 0
			} else if arg != 0 {
				ft := int(arg)
				if ft > 7 {
					ft -= 16
				}
				c.fineTune = ft
			}
		case exPatternLoop:
			// The sequencer reads loopRequested/patLoopRow after rowEntry
			// returns to decide whether to jump the whole song position.
			if arg == 0 {
				c.patLoopRow = row
			} else if c.patLoopCount == 0 {
				c.patLoopCount = int(arg)
				c.loopRequested = true
			} else {
				c.patLoopCount--
				c.loopRequested = c.patLoopCount > 0
			}
		case exTremoloWaveform:
			c.tremolo.wave = waveform(arg & 3)
			c.tremolo.retriggerOnNote = arg&4 == 0
		case exSetPanning:
			if !legacy {
				v := int(arg)
				if v >= 15 {
					c.pan = 1
				} else {
					c.pan = float64(v)/7.5 - 1
				}
			}
		case exRetrigger:
			c.retrigEvery = int(arg)
		case exFineVolumeUp:
			c.volume = clampVolume(c.volume + int(arg))
		case exFineVolumeDown:
			c.volume = clampVolume(c.volume - int(arg))
		case exNoteCut:
			if int(arg) < ticksPerRow {
				c.noteCutAt = int(arg)
			}
		case exNoteDelay:
			if int(arg) >= ticksPerRow {
				c.noteDelaySkip = true
			} else if arg > 0 {
				c.noteDelayAt = int(arg)
			}
		case exPatternDelay:
			// Handled by the sequencer (it owns row-repeat bookkeeping).
		case exInvertLoop:
			c.funkSpeed = funkTable[arg]
		case exPrivate:
			if !legacy {
				switch arg {
				case exPrivateBassOn:
					c.bassFilterOn = true
				case exPrivateBassOff:
					c.bassFilterOn = false
				case exPrivateDelayOff:
					c.delayLineOn = false
				case exPrivateDelayFast:
					c.delayLineOn, c.delayFast = true, true
				case exPrivateDelaySlow:
					c.delayLineOn, c.delayFast = true, false
				case exPrivateReverseOn:
					c.reverse = true
				case exPrivateReverseOff:
					c.reverse = false
				}
			}
		}
	}

	if c.noteDelaySkip {
		return
	}

	// Sample-number / period trigger semantics (spec.md section 4.4 point 4).
	tonePortaActive := effect == fxTonePorta || effect == fxTonePortaVol
	noteDelayPending := c.noteDelayAt > 0

	if sampleNum > 0 && sampleNum <= numSampleSlots {
		smp := &mod.Samples[sampleNum-1]
		if !noteDelayPending {
			c.volume = clampVolume(smp.Volume)
			c.fineTune = smp.FineTune
		}
		if period > 0 && !tonePortaActive {
			c.cuedSample = sampleNum - 1
		}
	}

	if period > 0 {
		c.rawPeriod = period
		if !tonePortaActive {
			if noteDelayPending {
				c.delayedPeriod = period
				if sampleNum > 0 {
					c.delayedSample = sampleNum - 1
				}
			} else {
				c.triggerSample(sampleNum, mod)
				c.period = finetunedPeriod(kind, period, c.fineTune)
			}
		}
	}

	// Arpeggio triad (0xy).
	c.arpOn = effect == fxArpeggio && param != 0
	if c.arpOn {
		base := noteOf(kind, c.fineTune, c.period)
		row := tables.row(kind, c.fineTune)
		at := func(delta int) int {
			n := base + delta
			if n < 0 || n >= len(row) || row[n] == 0 {
				return 0
			}
			return row[n]
		}
		c.arpTriad = [3]int{c.period, at(int(param >> 4)), at(int(param & 0xF))}
	}

	// Sample offset (9xy).
	if effect == fxSampleOffset && period > 0 {
		off := float64(c.lastOffsetParam) * 256
		if c.sample != noSample {
			if ln := float64(mod.Samples[c.sample].Length); off > ln {
				off = ln
			}
		}
		if !tonePortaActive {
			c.samplePos = off
		}
	}

	switch effect {
	case fxSetVolume:
		c.volume = clampVolume(int(param))
	}

	c.vibrato.retrigger()
	c.tremolo.retrigger()
}

// triggerSample starts (or re-starts) playback of the current or a newly
// assigned sample at offset 0 (or length-1 when reverse play is armed).
func (c *channel) triggerSample(sampleNum int, mod *Module) {
	if sampleNum > 0 && sampleNum <= numSampleSlots {
		c.sample = sampleNum - 1
	}
	if c.reverse && c.sample != noSample {
		c.samplePos = float64(mod.Samples[c.sample].Length - 1)
	} else {
		c.samplePos = 0
	}
	c.playing = c.sample != noSample
	c.fullSampleThenLoop = false
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 64 {
		return 64
	}
	return v
}

// tick applies the per-tick work of spec.md section 4.4 for tick t of the
// current row (t == 0 is the row's first tick, already processed by
// rowEntry).
func (c *channel) tick(t int, kind periodTableKind, legacy bool, mod *Module) {
	fine := t == 0

	switch c.effect {
	case fxVolumeSlide:
		if !fine {
			c.volumeSlide(c.param)
		}
	case fxPortaUp:
		if !fine {
			c.period -= int(c.param)
			if c.period < 1 {
				c.period = 1
			}
		}
	case fxPortaDown:
		if !fine {
			c.period += int(c.param)
		}
	case fxTonePorta:
		if !fine {
			c.slideToneTowards()
		}
	case fxTonePortaVol:
		if !fine {
			c.slideToneTowards()
			c.volumeSlide(c.param)
		}
	case fxTremolo:
		// handled below via oscillator advance + volume offset
	case fxExtended:
		switch c.param >> 4 {
		case exFineVolumeUp, exFineVolumeDown:
			// fine variants only apply on tick 0, already applied in rowEntry
		case exRetrigger:
			// handled below
		}
	}

	if legacy && t == 0 {
		// legacy resets to base period on tick 0, vibrato offset excluded
	}

	if t > 0 {
		if c.vibrato.depth > 0 && (c.effect == fxVibrato || c.effect == fxVibratoVol) {
			c.vibrato.advance()
		}
		if c.tremolo.depth > 0 && c.effect == fxTremolo {
			c.tremolo.advance()
		}
	}
	if c.effect == fxVibratoVol && !fine {
		c.volumeSlide(c.param)
	}

	// Note cut.
	if c.noteCutAt >= 0 {
		if c.noteCutAt == t {
			c.volume = 0
		}
	}

	// Note delay.
	if c.noteDelayAt == t && t > 0 {
		if c.delayedSample != noSample || c.delayedPeriod > 0 {
			c.triggerSample(c.delayedSample+1, mod)
			if c.delayedPeriod > 0 {
				c.period = finetunedPeriod(kind, c.delayedPeriod, c.fineTune)
			}
		}
	}

	// Retrigger (E9y).
	if c.retrigEvery > 0 && t%c.retrigEvery == 0 {
		skipFirst := legacy && t == 0 && c.rawPeriod > 0
		if !skipFirst {
			c.samplePos = 0
		}
	}

	// Invert-loop funk.
	if c.funkSpeed > 0 && c.sample != noSample {
		smp := &mod.Samples[c.sample]
		if smp.Looping() {
			c.funkAccum += c.funkSpeed
			for c.funkAccum >= 128 {
				c.funkAccum -= 128
				c.funkPos++
				if c.funkPos >= smp.LoopLen {
					c.funkPos = 0
				}
				idx := smp.LoopStart + c.funkPos
				if idx >= 0 && idx < len(smp.Data) {
					smp.Data[idx] = int8(^uint8(smp.Data[idx]))
				}
			}
		}
	}
}

func (c *channel) volumeSlide(param byte) {
	up, down := int(param>>4), int(param&0xF)
	if up > 0 {
		c.volume = clampVolume(c.volume + up)
	} else if down > 0 {
		c.volume = clampVolume(c.volume - down)
	}
}

func (c *channel) slideToneTowards() {
	if c.period < c.toneTarget {
		c.period += c.portaSpeed
		if c.period > c.toneTarget {
			c.period = c.toneTarget
		}
	} else if c.period > c.toneTarget {
		c.period -= c.portaSpeed
		if c.period < c.toneTarget {
			c.period = c.toneTarget
		}
	}
}

// currentFrequency computes the frequency this channel should play at for
// the current tick, folding in glissando, arpeggio, and vibrato per
// spec.md section 4.4's tick-progression rules.
func (c *channel) currentFrequency(t int, kind periodTableKind, legacy bool) float64 {
	period := c.period

	switch {
	case c.glissando && c.effect == fxTonePorta:
		period = nearestPeriod(kind, period, c.fineTune)
	case c.arpOn:
		period = c.arpTriad[t%3]
	default:
		if c.effect == fxVibrato || c.effect == fxVibratoVol {
			if t > 0 || !legacy {
				period += c.vibrato.value(legacy)
			}
		}
	}

	if legacy && period > 0 {
		lo, hi := legacyPeriodBounds(c.fineTune)
		if period < hi {
			period = hi
		}
		if period > lo {
			period = lo
		}
	}

	return frequency(period)
}

// currentVolume folds in the tremolo offset for this tick.
func (c *channel) currentVolume(t int, legacy bool) int {
	v := c.volume
	if c.effect == fxTremolo && (t > 0 || !legacy) {
		v = clampVolume(v + c.tremolo.value(legacy))
	}
	return v
}

// advanceSample moves the sample read position forward (or backward in
// reverse mode) by freq/sampleRate, handling loop wraparound and
// "full-sample-then-loop" semantics. Returns false if the channel should
// stop (non-looping sample ran off the end).
func (c *channel) advanceSample(freq float64, sampleRate int, mod *Module) bool {
	if !c.playing || c.sample == noSample || freq <= 0 {
		return c.playing
	}
	smp := &mod.Samples[c.sample]
	step := freq / float64(sampleRate)

	if c.reverse {
		c.samplePos -= step
		if c.samplePos < 0 {
			if smp.Looping() {
				c.samplePos += float64(smp.LoopLen)
			} else {
				c.playing = false
			}
		}
		return c.playing
	}

	c.samplePos += step
	loopEnd := float64(smp.LoopStart + smp.LoopLen)
	if smp.Looping() {
		if c.samplePos >= loopEnd {
			if smp.LoopStart == 0 && c.cuedSample != noSample && c.cuedSample != c.sample {
				c.fullSampleThenLoop = true
			}
			if c.fullSampleThenLoop && c.samplePos < float64(smp.Length) {
				// keep playing the tail of the sample before looping
			} else {
				c.samplePos -= float64(smp.LoopLen)
				c.fullSampleThenLoop = false
			}
		}
	} else if c.samplePos >= float64(smp.Length) {
		c.playing = false
	}

	return c.playing
}
