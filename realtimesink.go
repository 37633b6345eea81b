package modplayer

import "github.com/gordonklaus/portaudio"

// RealtimeSink streams frames to the default portaudio output device,
// grounded on the reference player's cmd/modplay audio stream setup. It
// fills a fixed-size buffer (registered once with portaudio, per the
// library's convention of reflecting a caller-owned slice rather than
// being handed a new one per Write) and flushes it with stream.Write
// whenever it's full.
type RealtimeSink struct {
	stream   *portaudio.Stream
	buf      []int16
	fill     int
	channels int
}

// NewRealtimeSink opens the default output device. bufferFrames is the
// realtime sink buffer size from Config.BufferSize (0 picks a 2048-frame
// default).
func NewRealtimeSink(bufferFrames int) *RealtimeSink {
	if bufferFrames <= 0 {
		bufferFrames = 2048
	}
	return &RealtimeSink{buf: make([]int16, 0, bufferFrames)} // capacity set below once channels is known
}

func (s *RealtimeSink) Begin(sampleRate, channels int) error {
	if err := portaudio.Initialize(); err != nil {
		return &RuntimeError{Stage: "portaudio init", Err: err}
	}
	s.channels = channels
	bufferFrames := cap(s.buf)
	s.buf = make([]int16, bufferFrames*channels)
	s.fill = 0

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), bufferFrames, &s.buf)
	if err != nil {
		portaudio.Terminate()
		return &RuntimeError{Stage: "portaudio open", Err: err}
	}
	s.stream = stream
	if err := s.stream.Start(); err != nil {
		return &RuntimeError{Stage: "portaudio start", Err: err}
	}
	return nil
}

func (s *RealtimeSink) WriteFrame(frame []int16) error {
	copy(s.buf[s.fill:], frame)
	s.fill += len(frame)
	if s.fill < len(s.buf) {
		return nil
	}
	if err := s.stream.Write(); err != nil {
		return &RuntimeError{Stage: "sink write", Err: err}
	}
	s.fill = 0
	return nil
}

func (s *RealtimeSink) End() error {
	var writeErr error
	if s.fill > 0 {
		for i := s.fill; i < len(s.buf); i++ {
			s.buf[i] = 0
		}
		writeErr = s.stream.Write()
	}
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	portaudio.Terminate()
	if writeErr != nil {
		return &RuntimeError{Stage: "sink write", Err: writeErr}
	}
	return nil
}
