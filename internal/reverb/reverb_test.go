package reverb

import "testing"

func TestPassThroughRoundTrips(t *testing.T) {
	p := NewPassThrough(16)
	in := []int16{1, 2, 3, 4}
	if n := p.InputSamples(in); n != 4 {
		t.Fatalf("InputSamples = %d, want 4", n)
	}
	out := make([]int16, 4)
	if n := p.GetAudio(out); n != 4 {
		t.Fatalf("GetAudio = %d, want 4", n)
	}
	for i, v := range in {
		if out[i] != v {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], v)
		}
	}
}

func TestPassThroughWrapsRingBuffer(t *testing.T) {
	p := NewPassThrough(4)
	p.InputSamples([]int16{1, 2, 3})
	drained := make([]int16, 2)
	p.GetAudio(drained) // free up 2 slots: {1,2}
	p.InputSamples([]int16{4, 5})
	out := make([]int16, 3)
	n := p.GetAudio(out)
	if n != 3 {
		t.Fatalf("GetAudio = %d, want 3", n)
	}
	want := []int16{3, 4, 5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestCombDelaysBeforeFeedback(t *testing.T) {
	c := NewComb(64, 0.5, 10, 1000) // 10ms at 1000Hz = 10 stereo pairs = 20 samples
	in := make([]int16, 8)
	in[0], in[1] = 1000, -1000
	remaining := c.InputSamples(in)
	if remaining <= 0 {
		t.Fatalf("remaining = %d, want > 0 before the delay offset is reached", remaining)
	}
	out := make([]int16, 8)
	n := c.GetAudio(out)
	if n != 8 {
		t.Fatalf("GetAudio = %d, want 8 (unmodified input echoed back before the delay kicks in)", n)
	}
	if out[0] != 1000 || out[1] != -1000 {
		t.Fatalf("out = %v, want the original impulse untouched so early", out)
	}
}

func TestFromNameRejectsUnknown(t *testing.T) {
	if _, err := FromName("bogus", 44100); err == nil {
		t.Fatal("expected an error for an unrecognized reverb name")
	}
}

func TestFromNameNoneIsPassThrough(t *testing.T) {
	r, err := FromName("none", 44100)
	if err != nil {
		t.Fatalf("FromName(none): %v", err)
	}
	if _, ok := r.(*PassThrough); !ok {
		t.Fatalf("FromName(none) = %T, want *PassThrough", r)
	}
}
