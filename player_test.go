package modplayer

import "testing"

// buildSongWithPatterns assembles a Module with the given patterns (each a
// flat, row-major, per-channel cell slice) and an order table that plays
// them in sequence. Useful for sequencer tests that need precise control
// over row contents without going through the binary loader.
func buildSongWithPatterns(channels int, patterns [][]cell, orders []byte) *Module {
	data := make([]int8, 10)
	return &Module{
		Channels: channels,
		Samples:  []Sample{{Name: "s", Length: 10, Volume: 64, Data: data}, {}},
		Orders:   orders,
		Patterns: patterns,
	}
}

func blankPattern(channels int) []cell {
	return make([]cell, rowsPerPattern*channels)
}

func TestPlayerAdvancesRowsWithinPattern(t *testing.T) {
	mod := buildSongWithPatterns(1, [][]cell{blankPattern(1)}, []byte{0})
	p, err := NewPlayer(mod, DefaultConfig())
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	for i := 0; i < p.ticksPerRow; i++ {
		if _, ok := p.NextTick(); !ok {
			t.Fatal("player ended prematurely")
		}
	}
	_, row, _ := p.Position()
	if row != 1 {
		t.Fatalf("row = %d, want 1 after one full row's ticks", row)
	}
}

func TestPlayerPositionBreakJumpsOrder(t *testing.T) {
	pat0 := blankPattern(1)
	pat0[0] = cell{Effect: fxPositionJump, Param: 1}
	mod := buildSongWithPatterns(1, [][]cell{pat0, blankPattern(1)}, []byte{0, 1})

	cfg := DefaultConfig()
	cfg.Loops = 2
	p, err := NewPlayer(mod, cfg)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	for i := 0; i < p.ticksPerRow; i++ {
		p.NextTick()
	}
	order, row, _ := p.Position()
	if order != 1 || row != 0 {
		t.Fatalf("position = (%d,%d), want (1,0) after Bxx", order, row)
	}
}

func TestPlayerRowBreakJumpsRowAndAdvancesOrder(t *testing.T) {
	pat0 := blankPattern(1)
	pat0[0] = cell{Effect: fxPatternBreak, Param: 0x05} // row 5
	mod := buildSongWithPatterns(1, [][]cell{pat0, blankPattern(1)}, []byte{0, 1})

	cfg := DefaultConfig()
	cfg.Loops = 2
	p, _ := NewPlayer(mod, cfg)
	for i := 0; i < p.ticksPerRow; i++ {
		p.NextTick()
	}
	order, row, _ := p.Position()
	if order != 1 || row != 5 {
		t.Fatalf("position = (%d,%d), want (1,5) after Dxx", order, row)
	}
}

func TestPlayerLegacyRowBreakWithPatternDelayAddsRow(t *testing.T) {
	// Dxx (row 5) and EEn on the same row, legacy mode: the documented
	// quirk bumps the effective target row by one (spec.md section 4.4
	// point 8). Legacy mode requires a 4-channel module.
	pat0 := blankPattern(4)
	pat0[0] = cell{Effect: fxPatternBreak, Param: 0x05}
	pat0[1] = cell{Effect: fxExtended, Param: byte(exPatternDelay<<4 | 1)}
	mod := buildSongWithPatterns(4, [][]cell{pat0, blankPattern(4)}, []byte{0, 1})

	cfg := DefaultConfig()
	cfg.Loops = 2
	cfg.Legacy = true
	p, err := NewPlayer(mod, cfg)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	ticksPerRow := p.ticksPerRow
	for i := 0; i < ticksPerRow*2; i++ { // one row, plus EE1's one extra repeat block
		p.NextTick()
	}
	order, row, _ := p.Position()
	if order != 1 || row != 6 {
		t.Fatalf("position = (%d,%d), want (1,6): legacy Dxx+EEn on the same row must add one to the target row", order, row)
	}
}

func TestPlayerNonLegacyRowBreakWithPatternDelayDoesNotAddRow(t *testing.T) {
	pat0 := blankPattern(4)
	pat0[0] = cell{Effect: fxPatternBreak, Param: 0x05}
	pat0[1] = cell{Effect: fxExtended, Param: byte(exPatternDelay<<4 | 1)}
	mod := buildSongWithPatterns(4, [][]cell{pat0, blankPattern(4)}, []byte{0, 1})

	cfg := DefaultConfig()
	cfg.Loops = 2
	p, err := NewPlayer(mod, cfg)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	ticksPerRow := p.ticksPerRow
	for i := 0; i < ticksPerRow*2; i++ {
		p.NextTick()
	}
	order, row, _ := p.Position()
	if order != 1 || row != 5 {
		t.Fatalf("position = (%d,%d), want (1,5): the +1 quirk is legacy-only", order, row)
	}
}

func TestPlayerPatternDelayRepeatsRow(t *testing.T) {
	pat := blankPattern(1)
	pat[0] = cell{Effect: fxExtended, Param: byte(exPatternDelay<<4 | 2)} // EE2: 2 extra blocks
	mod := buildSongWithPatterns(1, [][]cell{pat}, []byte{0})

	cfg := DefaultConfig()
	cfg.Loops = 5
	p, _ := NewPlayer(mod, cfg)

	ticksPerRow := p.ticksPerRow
	for i := 0; i < ticksPerRow*2; i++ { // still within the 2 repeats
		p.NextTick()
		_, row, _ := p.Position()
		if row != 0 {
			t.Fatalf("row advanced early at tick %d: row=%d", i, row)
		}
	}
}

func TestPlayerFxxSetsSpeed(t *testing.T) {
	pat := blankPattern(1)
	pat[0] = cell{Effect: fxSetSpeedOrTempo, Param: 3}
	mod := buildSongWithPatterns(1, [][]cell{pat}, []byte{0})
	p, _ := NewPlayer(mod, DefaultConfig())
	if p.ticksPerRow != 3 {
		t.Fatalf("ticksPerRow = %d, want 3 after Fxx with xx<32", p.ticksPerRow)
	}
}

func TestPlayerFxxSetsTempo(t *testing.T) {
	pat := blankPattern(1)
	pat[0] = cell{Effect: fxSetSpeedOrTempo, Param: 200}
	mod := buildSongWithPatterns(1, [][]cell{pat}, []byte{0})
	p, _ := NewPlayer(mod, DefaultConfig())
	if p.tempo != 200 {
		t.Fatalf("tempo = %d, want 200 after Fxx with xx>=32", p.tempo)
	}
}

func TestPlayerLoopPointDetectionEndsOnRevisit(t *testing.T) {
	mod := buildSongWithPatterns(1, [][]cell{blankPattern(1)}, []byte{0})
	cfg := DefaultConfig()
	cfg.Loops = 1
	p, _ := NewPlayer(mod, cfg)

	ticksPerRow := p.ticksPerRow
	total := ticksPerRow * rowsPerPattern * 2 // two full passes through the single pattern
	ended := false
	for i := 0; i < total; i++ {
		if _, ok := p.NextTick(); !ok {
			ended = true
			break
		}
	}
	if !ended {
		t.Fatal("expected single-loop playback to end once the only order repeats")
	}
}

func TestPlayerPatternLoopJumpsBackToBookmark(t *testing.T) {
	mod := cloneTemplateSong()
	mod.Orders = []byte{0}
	pat := mod.Patterns[0]
	row := func(n int) []cell { return pat[n*mod.Channels : n*mod.Channels+mod.Channels] }
	row(2)[0] = cell{Effect: fxExtended, Param: byte(exPatternLoop << 4)} // E60 at row 2
	row(4)[0] = cell{Effect: fxExtended, Param: byte(exPatternLoop<<4 | 1)} // E61 at row 4

	cfg := DefaultConfig()
	cfg.Loops = 3
	p, err := NewPlayer(mod, cfg)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	seenRow4, seenRow2Again := false, false
	for i := 0; i < p.ticksPerRow*8; i++ {
		if _, ok := p.NextTick(); !ok {
			break
		}
		_, row, _ := p.Position()
		if row == 4 {
			seenRow4 = true
		}
		if row == 2 && seenRow4 {
			seenRow2Again = true
		}
	}
	if !seenRow2Again {
		t.Fatal("expected E61 to jump the sequencer back to the E60 bookmark at row 2")
	}
}

func TestPlayerPerChannelAmigaPanConvention(t *testing.T) {
	mod := buildSongWithPatterns(4, [][]cell{blankPattern(4)}, []byte{0})
	p, _ := NewPlayer(mod, DefaultConfig())
	want := []float64{-1, 1, 1, -1}
	for i, w := range want {
		if p.channels[i].pan != w {
			t.Errorf("channel %d pan = %v, want %v", i, p.channels[i].pan, w)
		}
	}
}
