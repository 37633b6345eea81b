// Package dsp holds the small one-pole filter and delay-line building
// blocks the mixer's post-processing stages are built from. The delay
// line is a direct descendant of the reference player's CombAdd ring
// buffer (github.com/chriskillpack/modplayer/internal/comb), generalized
// from a fixed reverb tail into a feedback delay line driven per channel.
package dsp

// OnePole is a running-mean low-pass filter over the last N samples,
// used both for the global "Amiga filter" (N=2, current+previous frame)
// and the per-channel bass filter (N scaled to sample rate).
type OnePole struct {
	window []float64
	pos    int
	filled bool
	sum    float64
}

// NewOnePole creates a filter averaging over n samples. n must be >= 1.
func NewOnePole(n int) *OnePole {
	if n < 1 {
		n = 1
	}
	return &OnePole{window: make([]float64, n)}
}

// Apply pushes in, returns the running mean of the last N pushed values
// (including this one).
func (f *OnePole) Apply(in float64) float64 {
	f.sum -= f.window[f.pos]
	f.window[f.pos] = in
	f.sum += in
	f.pos++
	if f.pos == len(f.window) {
		f.pos = 0
		f.filled = true
	}
	n := len(f.window)
	if !f.filled {
		n = f.pos
		if n == 0 {
			n = 1
		}
	}
	return f.sum / float64(n)
}

// BassWindowSamples returns N = round(64 * sampleRate / 44100), the
// window size spec.md's per-channel bass filter (E02/E03) uses.
func BassWindowSamples(sampleRate int) int {
	n := (64*sampleRate + 22050) / 44100
	if n < 1 {
		n = 1
	}
	return n
}

// DelayLine is a circular-buffer feedback delay, the per-channel
// E04/E05/E06 delay effect. Feedback is 0.5 for the "fast" decay variant
// and 0.8 for "slow". Reads blend two taps for declick.
type DelayLine struct {
	buf      []float64
	writePos int
	feedback float64
}

// DelayLineSamples returns round(2000 * sampleRate / 44100), the
// circular buffer length spec.md's delay line effect uses.
func DelayLineSamples(sampleRate int) int {
	n := (2000*sampleRate + 22050) / 44100
	if n < 1 {
		n = 1
	}
	return n
}

// NewDelayLine creates a delay line of the given length (in samples) and
// feedback gain.
func NewDelayLine(length int, feedback float64) *DelayLine {
	if length < 1 {
		length = 1
	}
	return &DelayLine{buf: make([]float64, length), feedback: feedback}
}

// SetFeedback updates feedback gain in place (used when E05/E06 switches
// fast/slow decay without reallocating the buffer).
func (d *DelayLine) SetFeedback(fb float64) { d.feedback = fb }

// Process writes in into the delay line and returns a declicked 2-tap
// read of the delayed, fed-back signal to be added to the output.
func (d *DelayLine) Process(in float64) float64 {
	n := len(d.buf)
	readPos := d.writePos
	tap0 := d.buf[readPos]
	tap1 := d.buf[(readPos+1)%n]
	out := (tap0 + tap1) / 2

	d.buf[d.writePos] = in + out*d.feedback
	d.writePos = (d.writePos + 1) % n

	return out
}
