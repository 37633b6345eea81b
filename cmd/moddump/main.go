// Command moddump prints a ProTracker-family module's metadata, and
// optionally a full pattern dump, without producing any audio.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/protracker-go/modplayer"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("moddump: ")

	text := flag.Bool("text", false, "dump full pattern data, not just the header summary")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: moddump [-text] module.mod")
	}

	mod, err := modplayer.LoadModuleFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("title:    %q\n", mod.Title)
	fmt.Printf("tag:      %s\n", mod.Tag)
	fmt.Printf("channels: %d\n", mod.Channels)
	fmt.Printf("orders:   %d\n", len(mod.Orders))
	fmt.Printf("patterns: %d\n", len(mod.Patterns))
	fmt.Println("samples:")
	for i, s := range mod.Samples {
		if s.Name == "" && s.Length == 0 {
			continue
		}
		loop := "none"
		if s.Looping() {
			loop = fmt.Sprintf("%d+%d", s.LoopStart, s.LoopLen)
		}
		fmt.Printf("  %2d %-22q len=%-6d vol=%-3d finetune=%-3d loop=%s\n",
			i+1, s.Name, s.Length, s.Volume, s.FineTune, loop)
	}

	if !*text {
		return
	}
	for _, order := range mod.Orders {
		fmt.Printf("-- pattern %d --\n", order)
		cells := mod.Patterns[order]
		for row := 0; (row+1)*mod.Channels <= len(cells); row++ {
			fmt.Printf("%02d", row)
			for _, c := range cells[row*mod.Channels : (row+1)*mod.Channels] {
				fmt.Printf(" | %03X %02d %X%02X", c.Period, c.Sample, c.Effect, c.Param)
			}
			fmt.Println()
		}
	}
}
