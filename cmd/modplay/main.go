// Command modplay plays a ProTracker-family module file through the
// default audio device.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"

	"github.com/protracker-go/modplayer"
	"github.com/protracker-go/modplayer/internal/reverb"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("modplay: ")

	rate := flag.Int("rate", 44100, "sample rate in Hz")
	mode := flag.String("mode", "stereo_hard", "mono|stereo_soft|stereo_hard(_filter)")
	loops := flag.Int("loops", 1, "max loop iterations before exit")
	buffer := flag.Int("buffer", 4096, "realtime output buffer size in frames")
	legacy := flag.Bool("legacy", false, "restrict effects to ProTracker 2.3 quirks")
	amplify := flag.Float64("amplify", 1.0, "global gain multiplier")
	interp := flag.Bool("interpolate", true, "enable linear sample interpolation")
	start := flag.Int("start", 0, "initial order index")
	reverbName := flag.String("reverb", "none", "none|light|medium|silly")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: modplay [flags] module.mod")
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
	cfg.BufferSize = *buffer
	cfg.Legacy = *legacy
	cfg.Amplify = *amplify
	cfg.Interpolate = *interp
	cfg.StartPos = *start

	engine, err := modplayer.NewEngine(mod, cfg)
	if err != nil {
		log.Fatal(err)
	}

	rvb, err := reverb.FromName(*reverbName, cfg.SampleRate)
	if err != nil {
		log.Fatal(err)
	}

	sink := newReverbSink(modplayer.NewRealtimeSink(cfg.BufferSize), rvb, cfg.PlayMode.Stereo())

	cancel := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		close(cancel)
	}()
	go watchQuitKey(cancel)

	color.Green("playing %s (%d channels, %s)", mod.Title, mod.Channels, *mode)
	if err := engine.Play(sink, cancel); err != nil && err != modplayer.ErrCancelled {
		log.Fatal(err)
	}
}

// watchQuitKey listens for 'q' or Ctrl+C on the keyboard and closes cancel
// once, mirroring the reference player's interactive key handling.
func watchQuitKey(cancel chan struct{}) {
	keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		if key.Code == keys.RuneKey && key.String() == "q" || key.Code == keys.CtrlC {
			select {
			case <-cancel:
			default:
				close(cancel)
			}
			return true, nil
		}
		return false, nil
	})
}
