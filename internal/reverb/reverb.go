// Package reverb implements an optional comb-filter echo that cmd/modplay
// layers on top of the engine's final stereo mix, independent of the
// mandatory per-channel delay line the engine itself applies as a
// pattern effect. It is adapted from the reference player's incremental
// comb filter (a ring buffer fed with InputSamples/GetAudio rather than
// one that requires the whole track up front).
package reverb

// Reverber is the capability shared by every post-mix reverb
// implementation: feed it interleaved stereo int16 frames, read back
// however much of the processed signal is ready.
type Reverber interface {
	InputSamples(in []int16) int
	GetAudio(out []int16) int
}

// Comb is a feedback comb filter that can be fed audio incrementally. It
// keeps the entire accumulated signal (no upper bound on memory), which
// is fine for the short interactive sessions cmd/modplay runs.
type Comb struct {
	audio      []int16
	readPos    int
	writePos   int
	delayPairs int // delay expressed in L/R sample pairs
	decay      float32
}

var _ Reverber = (*Comb)(nil)

// NewComb creates a comb filter with the given decay (feedback gain) and
// delay in milliseconds at the given sample rate.
func NewComb(initialCapacityFrames int, decay float32, delayMs, sampleRate int) *Comb {
	return &Comb{
		audio:      make([]int16, 0, initialCapacityFrames*2),
		delayPairs: (delayMs * sampleRate) / 1000,
		decay:      decay,
	}
}

// InputSamples appends interleaved stereo frames and applies the
// feedback comb to newly-eligible samples. It returns how many more
// samples must accumulate before the delay offset is reached and the
// feedback starts to apply (0 once it has been reached).
func (c *Comb) InputSamples(in []int16) int {
	c.audio = append(c.audio, in...)

	delayOffset := c.delayPairs * 2
	if len(c.audio) > delayOffset {
		n := len(c.audio) - (delayOffset + c.writePos)
		for i := 0; i < n; i++ {
			c.audio[i+delayOffset+c.writePos] += int16(float32(c.audio[i+c.writePos]) * c.decay)
		}
		c.writePos += n
	}

	rem := delayOffset - len(c.audio)
	if rem < 0 {
		rem = 0
	}
	return rem
}

// GetAudio copies as much processed audio as is available into out,
// returning the number of int16 values written.
func (c *Comb) GetAudio(out []int16) int {
	have := len(c.audio) - c.readPos
	n := len(out)
	if n > have {
		n = have
	}
	if n > 0 {
		copy(out, c.audio[c.readPos:c.readPos+n])
		c.readPos += n
	}
	return n
}

// PassThrough is a Reverber that performs no processing, used when a
// session is started with reverb disabled so callers don't need a nil
// check in the hot path.
type PassThrough struct {
	audio             []int16
	readPos, writePos int
	n                 int
}

var _ Reverber = (*PassThrough)(nil)

// NewPassThrough creates a fixed-capacity ring buffer that hands audio
// straight through.
func NewPassThrough(bufferSize int) *PassThrough {
	return &PassThrough{audio: make([]int16, bufferSize)}
}

func (p *PassThrough) InputSamples(in []int16) int {
	free := len(p.audio) - p.n
	n := len(in)
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}
	if p.writePos+n > len(p.audio) {
		n1 := len(p.audio) - p.writePos
		n2 := n - n1
		copy(p.audio[p.writePos:], in[:n1])
		copy(p.audio[:n2], in[n1:n1+n2])
		p.writePos = n2
	} else {
		copy(p.audio[p.writePos:p.writePos+n], in[:n])
		p.writePos += n
	}
	p.n += n
	return n
}

func (p *PassThrough) GetAudio(out []int16) int {
	n := len(out)
	if n > p.n {
		n = p.n
	}
	if n == 0 {
		return 0
	}
	if p.readPos+n > len(p.audio) {
		n1 := len(p.audio) - p.readPos
		n2 := n - n1
		copy(out[:n1], p.audio[p.readPos:])
		copy(out[n1:n], p.audio[:n2])
		p.readPos = n2
	} else {
		copy(out[:n], p.audio[p.readPos:p.readPos+n])
		p.readPos += n
	}
	p.n -= n
	return n
}

// FromName builds a Reverber from one of cmd/modplay's -reverb flag
// values: "none", "light", "medium", "silly".
func FromName(name string, sampleRate int) (Reverber, error) {
	decay, delayMs := float32(0.2), 150
	switch name {
	case "none":
		return NewPassThrough(10 * 1024), nil
	case "light":
	case "medium":
		decay, delayMs = 0.3, 250
	case "silly":
		decay, delayMs = 0.5, 2500
	default:
		return nil, errUnknownReverb(name)
	}
	return NewComb(10*1024, decay, delayMs, sampleRate), nil
}

type errUnknownReverb string

func (e errUnknownReverb) Error() string { return "reverb: unrecognized setting " + string(e) }
