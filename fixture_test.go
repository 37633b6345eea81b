package modplayer

import clone "github.com/huandu/go-clone/generic"

// templateSong is a small shared fixture multiple tests clone rather than
// rebuild from scratch, the same trick the reference player's test suite
// uses to avoid duplicating pattern-construction boilerplate per case.
var templateSong = &Module{
	Channels: 4,
	Samples: []Sample{
		{Name: "kick", Length: 200, Volume: 64, LoopStart: 0, LoopLen: 0, Data: make([]int8, 200)},
		{Name: "snare", Length: 150, Volume: 50, LoopStart: 50, LoopLen: 80, Data: make([]int8, 150)},
		{},
	},
	Orders:   []byte{0, 1, 0},
	Patterns: [][]cell{blankPattern(4), blankPattern(4)},
}

// cloneTemplateSong returns a deep copy of templateSong so a test can
// mutate cells/samples without affecting other tests sharing the fixture.
func cloneTemplateSong() *Module {
	return clone.Clone(templateSong)
}
