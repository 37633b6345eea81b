// Command modwav renders a ProTracker-family module file to a WAV file,
// optionally one file per channel.
package main

import (
	"flag"
	"log"

	"github.com/protracker-go/modplayer"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("modwav: ")

	rate := flag.Int("rate", 44100, "sample rate in Hz")
	mode := flag.String("mode", "stereo_hard", "mono|stereo_soft|stereo_hard(_filter)")
	loops := flag.Int("loops", 1, "max loop iterations before exit")
	legacy := flag.Bool("legacy", false, "restrict effects to ProTracker 2.3 quirks")
	amplify := flag.Float64("amplify", 1.0, "global gain multiplier")
	interp := flag.Bool("interpolate", true, "enable linear sample interpolation")
	start := flag.Int("start", 0, "initial order index")
	patterns := flag.Int("patterns", 0, "limit of orders to play, 0 = unlimited")
	perChannel := flag.Bool("per-channel", false, "render one file per channel")
	out := flag.String("o", "", "output .wav path (per-channel mode must end in _1.wav)")
	flag.Parse()

	if flag.NArg() != 1 || *out == "" {
		log.Fatal("usage: modwav -o out.wav [flags] module.mod")
	}

	mod, err := modplayer.LoadModuleFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	playMode, err := modplayer.ParsePlayMode(*mode)
	if err != nil {
		log.Fatal(err)
	}

	cfg := modplayer.DefaultConfig()
	cfg.SampleRate = *rate
	cfg.PlayMode = playMode
	cfg.Loops = *loops
	cfg.Legacy = *legacy
	cfg.Amplify = *amplify
	cfg.Interpolate = *interp
	cfg.StartPos = *start
	cfg.PatternsCount = *patterns
	cfg.OutputPath = *out
	cfg.PerChannelRender = *perChannel

	engine, err := modplayer.NewEngine(mod, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *perChannel {
		if err := engine.RenderPerChannel(); err != nil {
			log.Fatal(err)
		}
		return
	}

	sink, err := modplayer.NewWAVFileSink(*out)
	if err != nil {
		log.Fatal(err)
	}
	if err := engine.Play(sink, nil); err != nil {
		log.Fatal(err)
	}
}
