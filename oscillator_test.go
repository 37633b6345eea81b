package modplayer

import "testing"

func TestOscillatorSineSymmetric(t *testing.T) {
	o := oscillator{wave: waveSine, depth: 128, speed: 16}
	first := o.value(false)
	o.pos = 32
	second := o.value(false)
	if first != -second {
		t.Fatalf("sine wave should be sign-symmetric across half period: %d vs %d", first, second)
	}
}

func TestOscillatorLegacySubstitutesSquareForRandom(t *testing.T) {
	o := oscillator{wave: waveRandom, depth: 128, speed: 16}
	v := o.value(true)
	if v != 255 {
		t.Fatalf("legacy random substitute = %d, want 255 (full-scale square)", v)
	}
}

func TestOscillatorAdvanceWraps(t *testing.T) {
	o := oscillator{speed: 40}
	o.pos = 40
	o.advance()
	if o.pos != 80&63 {
		t.Fatalf("pos = %d, want %d", o.pos, 80&63)
	}
}

func TestOscillatorRetriggerResetsPosition(t *testing.T) {
	o := oscillator{pos: 30, retriggerOnNote: true}
	o.retrigger()
	if o.pos != 0 {
		t.Fatalf("pos = %d, want 0 after retrigger", o.pos)
	}

	o2 := oscillator{pos: 30, retriggerOnNote: false}
	o2.retrigger()
	if o2.pos != 30 {
		t.Fatalf("pos = %d, want unchanged at 30 when retriggerOnNote is false", o2.pos)
	}
}
