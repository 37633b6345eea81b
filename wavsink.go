package modplayer

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// WAVSink accumulates PCM frames in memory and writes a standard RIFF/WAVE
// header once the stream ends (spec.md section 4.7). Unlike the reference
// player's file-only writer, this accumulates into a bytes.Buffer and only
// touches an io.Writer at End(), so the same sink backs both real file
// output and in-memory render targets used by tests.
type WAVSink struct {
	dst        io.Writer
	closer     io.Closer // non-nil when dst was opened by NewWAVFileSink
	sampleRate int
	channels   int
	data       bytes.Buffer
}

// NewWAVSink wraps an already-open io.Writer (e.g. a bytes.Buffer for
// tests, or an *os.File the caller owns).
func NewWAVSink(dst io.Writer) *WAVSink {
	return &WAVSink{dst: dst}
}

// NewWAVFileSink opens path for writing and returns a sink that closes it
// on End(). If the stream never begins or errors out, the caller should
// remove the partially-written file per spec.md section 7.
func NewWAVFileSink(path string) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &WAVSink{dst: f, closer: f}, nil
}

func (w *WAVSink) Begin(sampleRate, channels int) error {
	w.sampleRate = sampleRate
	w.channels = channels
	return nil
}

func (w *WAVSink) WriteFrame(frame []int16) error {
	for _, s := range frame {
		if err := binary.Write(&w.data, binary.LittleEndian, s); err != nil {
			return &RuntimeError{Stage: "wav write", Err: err}
		}
	}
	return nil
}

func (w *WAVSink) End() error {
	header := wavHeader(w.sampleRate, w.channels, w.data.Len())
	if _, err := w.dst.Write(header); err != nil {
		return &RuntimeError{Stage: "wav write", Err: err}
	}
	if _, err := w.dst.Write(w.data.Bytes()); err != nil {
		return &RuntimeError{Stage: "wav write", Err: err}
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// wavHeader builds a 44-byte canonical PCM WAV header for 16-bit audio.
// dataLen is the size in bytes of the sample data that follows. Offsets 4
// and 40 (the two size fields that depend on total length) are the ones
// that can only be known once the stream ends, mirroring the reference
// writer's seek-and-patch approach generalized to compute-then-prepend.
func wavHeader(sampleRate, channels, dataLen int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	h := make([]byte, 44)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+dataLen))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataLen))
	return h
}

func deleteIfExists(path string) {
	if path == "" {
		return
	}
	os.Remove(path)
}
