package modplayer

import "testing"

func TestConfigValidateDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig should validate cleanly: %v", err)
	}
}

func TestConfigValidateSampleRateBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 500
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sample_rate below 1000")
	}
	cfg.SampleRate = 400_000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sample_rate above 380000")
	}
}

func TestConfigValidateBufferSizeBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferSize = 9000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for buffer_size above 8192")
	}
}

func TestConfigValidatePerChannelRenderRequiresTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PerChannelRender = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when channel render has no output path")
	}
	cfg.OutputPath = "song.wav"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when channel render target doesn't end in _1.wav")
	}
	cfg.OutputPath = "song_1.wav"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid per-channel target rejected: %v", err)
	}
}

func TestConfigValidateNonWavTargetRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPath = "song.mp3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-.wav render target")
	}
}

func TestParsePlayModeRoundTrip(t *testing.T) {
	cases := map[string]PlayMode{
		"mono":        PlayModeMono,
		"stereo_soft": PlayModeStereoSoft,
		"stereo_hard": PlayModeStereoHard,
		"info":        PlayModeInfo,
		"text":        PlayModeText,
	}
	for s, want := range cases {
		got, err := ParsePlayMode(s)
		if err != nil {
			t.Errorf("ParsePlayMode(%q): %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePlayMode(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParsePlayModeRejectsUnknown(t *testing.T) {
	if _, err := ParsePlayMode("surround"); err == nil {
		t.Fatal("expected error for unknown play_mode")
	}
}
