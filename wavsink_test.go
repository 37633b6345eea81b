package modplayer

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWAVSinkHeaderFields(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWAVSink(&buf)
	if err := sink.Begin(22050, 2); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	frames := [][]int16{{100, -100}, {200, -200}, {0, 0}}
	for _, f := range frames {
		if err := sink.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := sink.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	got := buf.Bytes()
	if len(got) != 44+len(frames)*2*2 {
		t.Fatalf("total length = %d, want %d", len(got), 44+len(frames)*2*2)
	}
	if string(got[0:4]) != "RIFF" || string(got[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers: %q", got[0:12])
	}
	if ch := binary.LittleEndian.Uint16(got[22:24]); ch != 2 {
		t.Fatalf("channel count = %d, want 2", ch)
	}
	if sr := binary.LittleEndian.Uint32(got[24:28]); sr != 22050 {
		t.Fatalf("sample rate = %d, want 22050", sr)
	}
	dataLen := binary.LittleEndian.Uint32(got[40:44])
	if int(dataLen) != len(frames)*2*2 {
		t.Fatalf("data chunk size = %d, want %d", dataLen, len(frames)*2*2)
	}

	firstSample := int16(binary.LittleEndian.Uint16(got[44:46]))
	if firstSample != 100 {
		t.Fatalf("first sample = %d, want 100", firstSample)
	}
}
