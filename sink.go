package modplayer

// Sink is the capability every output target shares (spec.md section 9's
// "polymorphism over sinks" note): begin with stream parameters, accept
// interleaved signed-16 frames, and finish. Implemented as a tagged
// variant (WAVSink, RealtimeSink) rather than an inheritance hierarchy.
type Sink interface {
	Begin(sampleRate, channels int) error
	WriteFrame(frame []int16) error
	End() error
}

// frameCountingSink discards audio and only counts frames, backing the
// length-estimation pre-pass (spec.md section 9: "no duplicate state
// machine" - it is driven by the same engine, just with this sink).
type frameCountingSink struct {
	frames int
}

func (s *frameCountingSink) Begin(sampleRate, channels int) error { return nil }
func (s *frameCountingSink) WriteFrame(frame []int16) error       { s.frames++; return nil }
func (s *frameCountingSink) End() error                           { return nil }
