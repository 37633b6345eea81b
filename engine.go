package modplayer

import (
	"fmt"
	"os"
	"strings"
)

// Engine ties a loaded Module, a Config, and an output Sink together and
// drives the sample-by-sample pipeline spec.md section 5 describes: load,
// optionally estimate length, stream frames, close sinks on every exit
// path. It holds no goroutines of its own — everything runs on the
// caller's goroutine, cooperatively.
type Engine struct {
	Module *Module
	Config Config
}

// LoadModuleFile reads path and parses it as a ProTracker-family module.
func LoadModuleFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadModule(data)
}

// NewEngine validates cfg and wraps mod for playback.
func NewEngine(mod *Module, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{Module: mod, Config: cfg}, nil
}

// soloMixer is a mixer wrapper that only lets one channel's contribution
// through, backing per-channel render mode.
type soloMixer struct {
	*mixer
	solo int // -1 = all channels
}

func (m *soloMixer) mixFrame(p *Player) (left, right float64) {
	if m.solo < 0 {
		return m.mixer.mixFrame(p)
	}
	channels := p.Channels()
	for i := range channels {
		if i != m.solo {
			channels[i].playing = false
		}
	}
	return m.mixer.mixFrame(p)
}

// run streams the module to sink using the engine's config, stopping once
// the player reports the song has ended. cancel, if non-nil, is polled
// between ticks for cooperative shutdown (spec.md section 5).
func (e *Engine) run(sink Sink, solo int, cancel <-chan struct{}) error {
	player, err := NewPlayer(e.Module, e.Config)
	if err != nil {
		sink.End()
		return err
	}
	chanCount := 1
	if e.Config.PlayMode.Stereo() {
		chanCount = 2
	}
	mx := &soloMixer{mixer: newMixer(e.Config, e.Module.Channels), solo: solo}

	if err := sink.Begin(e.Config.SampleRate, chanCount); err != nil {
		sink.End()
		return err
	}

	frame := make([]int16, chanCount)
	for {
		select {
		case <-cancel:
			sink.End()
			return ErrCancelled
		default:
		}

		frames, ok := player.NextTick()
		if !ok {
			break
		}
		for i := 0; i < frames; i++ {
			left, right := mx.mixFrame(player)
			frame[0] = clamp16(left)
			if chanCount == 2 {
				frame[1] = clamp16(right)
			}
			if err := sink.WriteFrame(frame); err != nil {
				sink.End()
				return err
			}
		}
	}
	return sink.End()
}

// Play streams the module to sink until it ends or cancel fires.
func (e *Engine) Play(sink Sink, cancel <-chan struct{}) error {
	if e.Config.PlayMode.SkipsAudio() {
		return ErrInvalidConfig("info/text play_mode produces no audio")
	}
	if err := e.run(sink, -1, cancel); err != nil {
		deleteIfExists(e.Config.OutputPath)
		return err
	}
	return nil
}

// RenderPerChannel runs the song once per channel, each time emitting only
// that channel's contribution to "<base>_<n>.wav". Config.OutputPath must
// end in "_1.wav" (enforced by Config.Validate).
func (e *Engine) RenderPerChannel() error {
	base := strings.TrimSuffix(e.Config.OutputPath, "_1.wav")
	for c := 0; c < e.Module.Channels; c++ {
		path := fmt.Sprintf("%s_%d.wav", base, c+1)
		sink, err := NewWAVFileSink(path)
		if err != nil {
			return err
		}
		if err := e.run(sink, c, nil); err != nil {
			deleteIfExists(path)
			return err
		}
	}
	return nil
}

// EstimateLength runs the engine at a low sample rate with the global
// Amiga filter stripped from the play mode and counts frames, per spec.md
// section 9's note that length estimation reuses the playback state
// machine rather than duplicating it. Per-channel bass-filter and
// delay-line effects still run during the probe. The result is scaled
// back up to the configured sample rate.
func (e *Engine) EstimateLength() (int, error) {
	const probeRate = 1000

	probeCfg := e.Config
	probeCfg.SampleRate = probeRate
	probeCfg.PlayMode = stripFilter(probeCfg.PlayMode)
	probeCfg.OutputPath = ""
	probeCfg.PerChannelRender = false

	probe := &Engine{Module: e.Module, Config: probeCfg}
	counter := &frameCountingSink{}
	if err := probe.run(counter, -1, nil); err != nil {
		return 0, err
	}
	return counter.frames * e.Config.SampleRate / probeRate, nil
}

func stripFilter(m PlayMode) PlayMode {
	switch m {
	case PlayModeMonoFilter:
		return PlayModeMono
	case PlayModeStereoSoftFilter:
		return PlayModeStereoSoft
	case PlayModeStereoHardFilter:
		return PlayModeStereoHard
	}
	return m
}
