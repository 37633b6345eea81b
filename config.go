package modplayer

import "strings"

// PlayMode selects mixing, panning, and post-DSP behavior (spec.md section
// 6's play_mode configuration option).
type PlayMode int

const (
	PlayModeMono PlayMode = iota
	PlayModeStereoSoft
	PlayModeStereoHard
	PlayModeMonoFilter
	PlayModeStereoSoftFilter
	PlayModeStereoHardFilter
	PlayModeInfo // no audio, song metadata only
	PlayModeText // no audio, textual pattern dump
)

// ParsePlayMode maps the cmd/* front ends' -mode flag strings onto a
// PlayMode.
func ParsePlayMode(s string) (PlayMode, error) {
	switch strings.ToLower(s) {
	case "mono":
		return PlayModeMono, nil
	case "stereo_soft", "stereosoft":
		return PlayModeStereoSoft, nil
	case "stereo_hard", "stereohard":
		return PlayModeStereoHard, nil
	case "mono_filter", "monofilter":
		return PlayModeMonoFilter, nil
	case "stereo_soft_filter", "stereosoftfilter":
		return PlayModeStereoSoftFilter, nil
	case "stereo_hard_filter", "stereohardfilter":
		return PlayModeStereoHardFilter, nil
	case "info":
		return PlayModeInfo, nil
	case "text":
		return PlayModeText, nil
	default:
		return 0, ErrInvalidConfig("unknown play_mode " + s)
	}
}

// Stereo reports whether this mode emits two channels.
func (m PlayMode) Stereo() bool {
	switch m {
	case PlayModeStereoSoft, PlayModeStereoHard, PlayModeStereoSoftFilter, PlayModeStereoHardFilter:
		return true
	}
	return false
}

// Filtered reports whether the global one-pole Amiga filter is engaged.
func (m PlayMode) Filtered() bool {
	switch m {
	case PlayModeMonoFilter, PlayModeStereoSoftFilter, PlayModeStereoHardFilter:
		return true
	}
	return false
}

// SoftPan reports whether stereo panning should be scaled to +-0.5
// (stereo_soft) rather than full +-1 (stereo_hard).
func (m PlayMode) SoftPan() bool {
	return m == PlayModeStereoSoft || m == PlayModeStereoSoftFilter
}

// SkipsAudio reports whether this mode produces no PCM at all.
func (m PlayMode) SkipsAudio() bool {
	return m == PlayModeInfo || m == PlayModeText
}

// Config carries every engine input named in spec.md section 6.
type Config struct {
	SampleRate    int
	PlayMode      PlayMode
	Loops         int
	BufferSize    int
	Legacy        bool
	Amplify       float64
	Interpolate   bool
	StartPos      int
	PatternsCount int

	// OutputPath is the render target (ignored for the realtime sink).
	// When PerChannelRender is set it must end in "_1.wav"; the engine
	// substitutes the trailing digit per channel.
	OutputPath       string
	PerChannelRender bool
}

// DefaultConfig returns the engine's defaults: 44100 Hz, stereo_hard, one
// loop, a 4096-frame realtime buffer, interpolation on, no amplification
// beyond unity.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		PlayMode:    PlayModeStereoHard,
		Loops:       1,
		BufferSize:  4096,
		Amplify:     1.0,
		Interpolate: true,
	}
}

// Validate checks every invariant spec.md section 7 requires to be caught
// before the engine starts, rather than discovered mid-playback.
func (c Config) Validate() error {
	if c.SampleRate < 1000 || c.SampleRate > 380_000 {
		return ErrInvalidConfig("sample_rate out of range")
	}
	if c.BufferSize < 0 || c.BufferSize > 8192 {
		return ErrInvalidConfig("buffer_size out of range")
	}
	if c.Loops < 1 {
		return ErrInvalidConfig("loops must be >= 1")
	}
	if c.PerChannelRender {
		if c.OutputPath == "" {
			return ErrInvalidConfig("channel render requires a render target")
		}
		if !strings.HasSuffix(c.OutputPath, "_1.wav") {
			return ErrInvalidConfig("channel render target must end in _1.wav")
		}
	}
	if c.OutputPath != "" && !c.PlayMode.SkipsAudio() && !strings.HasSuffix(strings.ToLower(c.OutputPath), ".wav") {
		return ErrInvalidConfig("render target must be a .wav file")
	}
	return nil
}
