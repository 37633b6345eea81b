package modplayer

// Player is the per-tick row scheduler (spec.md section 4.5) that drives a
// Module's channels and hands the mixer one PCM frame at a time. It owns
// song position (order/row/tick), tempo, and pattern-loop/break/delay
// resolution; channel holds everything below "which row are we on".
type Player struct {
	mod    *Module
	kind   periodTableKind
	legacy bool

	sampleRate int
	channels   []channel

	startPos      int
	patternsCount int // 0 = unlimited

	order int
	row   int
	tick  int

	ticksPerRow int
	tempo       int // BPM

	samplesPerTick float64
	tickAccum      float64 // fractional-sample carry between ticks

	patternDelayRemaining int // ticks-blocks of the current row still to repeat

	visited     map[[2]int]bool
	loopsDone   int
	maxLoops    int

	ended bool
}

// NewPlayer builds a Player ready to emit frames starting at cfg.StartPos.
func NewPlayer(mod *Module, cfg Config) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Legacy && mod.Channels != 4 {
		return nil, ErrInvalidConfig("legacy mode requires a 4-channel module")
	}
	if cfg.StartPos < 0 || cfg.StartPos >= len(mod.Orders) {
		return nil, ErrInvalidConfig("start_pos out of range")
	}

	kind := periodTableExtended
	if cfg.Legacy {
		kind = periodTableLegacy
	}

	channels := make([]channel, mod.Channels)
	for i := range channels {
		channels[i] = newChannel(amigaPan(i))
	}

	p := &Player{
		mod:            mod,
		kind:           kind,
		legacy:         cfg.Legacy,
		sampleRate:     cfg.SampleRate,
		channels:       channels,
		startPos:       cfg.StartPos,
		patternsCount:  cfg.PatternsCount,
		order:          cfg.StartPos,
		row:            0,
		tick:           0,
		ticksPerRow:    6,
		tempo:          125,
		visited:        map[[2]int]bool{},
		maxLoops:       cfg.Loops,
	}
	p.recomputeSamplesPerTick()
	p.visited[[2]int{p.order, p.row}] = true
	p.enterRow(false)
	return p, nil
}

// amigaPan returns the default hard-panned Amiga position for channel
// index i, the classic L-R-R-L repeating-per-4 convention.
func amigaPan(i int) float64 {
	switch i % 4 {
	case 0, 3:
		return -1
	default:
		return 1
	}
}

func (p *Player) recomputeSamplesPerTick() {
	p.samplesPerTick = (2500.0 / float64(p.tempo)) * (float64(p.sampleRate) / 1000.0)
}

// Channels exposes read access to channel state for the mixer.
func (p *Player) Channels() []channel { return p.channels }

// Ended reports whether the song has terminated (max loops reached).
func (p *Player) Ended() bool { return p.ended }

// Position returns the current song position for status reporting.
func (p *Player) Position() (order, row, tick int) { return p.order, p.row, p.tick }

// applyRowWidePrePass scans every channel's raw cell for the row-wide
// effects the decoder must see across all channels before any per-channel
// tick math runs (spec.md section 4.3): Fxx tempo/speed changes.
func (p *Player) applyRowWidePrePass(cells []cell) {
	for _, cl := range cells {
		if cl.Effect != fxSetSpeedOrTempo {
			continue
		}
		xx := int(cl.Param)
		switch {
		case xx == 0:
			// no-op
		case xx < 32:
			p.ticksPerRow = xx
		default:
			p.tempo = xx
			p.recomputeSamplesPerTick()
		}
	}
}

// patternDelayAmount scans the row for EEn, returning n (0 if absent). The
// last channel carrying it wins, matching Fxx's last-writer-wins pre-pass.
func patternDelayAmount(cells []cell) int {
	n := 0
	for _, cl := range cells {
		if cl.Effect == fxExtended && cl.Param>>4 == exPatternDelay {
			n = int(cl.Param & 0xF)
		}
	}
	return n
}

// breakTargets scans the row for Bxx/Dxx, returning -1 for either value
// when absent.
func breakTargets(cells []cell) (posBreak, rowBreak int) {
	posBreak, rowBreak = -1, -1
	for _, cl := range cells {
		switch cl.Effect {
		case fxPositionJump:
			posBreak = int(cl.Param)
		case fxPatternBreak:
			rb := int(cl.Param>>4)*10 + int(cl.Param&0xF)
			if rb > 63 {
				rb = 0
			}
			rowBreak = rb
		}
	}
	return posBreak, rowBreak
}

// currentCells returns the decoded row cells for the song's current order
// and row.
func (p *Player) currentCells() []cell {
	pattern := p.mod.Patterns[p.mod.Orders[p.order]]
	start := p.row * p.mod.Channels
	return pattern[start : start+p.mod.Channels]
}

// enterRow runs row-entry for every channel on the current row. repeat is
// true when this is a pattern-delay repeat of an already-entered row.
func (p *Player) enterRow(repeat bool) {
	cells := p.currentCells()
	p.applyRowWidePrePass(cells)

	if !repeat {
		p.patternDelayRemaining = patternDelayAmount(cells)
	}

	for i := range p.channels {
		p.channels[i].rowEntry(cells[i], p.mod, p.kind, p.legacy, p.ticksPerRow, p.row, repeat)
	}
	p.tick = 0
}

// advanceTick runs one tick's worth of per-channel work, then either stays
// on the current row (more ticks left), repeats it (pattern delay), or
// resolves the next position (row/position break, pattern loop, or plain
// row advance).
func (p *Player) advanceTick() {
	for i := range p.channels {
		p.channels[i].tick(p.tick, p.kind, p.legacy, p.mod)
	}
	p.tick++
	if p.tick < p.ticksPerRow {
		return
	}

	if p.patternDelayRemaining > 0 {
		p.patternDelayRemaining--
		p.enterRow(true)
		return
	}

	p.resolveNextPosition()
}

// resolveNextPosition implements spec.md section 4.5: pattern-loop jumps
// take priority over row/position breaks; a plain row advance wraps into
// the next order at the pattern boundary. Loop-point detection counts a
// loop whenever the destination (order,row) pair has already been visited
// in the current iteration.
func (p *Player) resolveNextPosition() {
	cells := p.currentCells()
	posBreak, rowBreak := breakTargets(cells)

	// Legacy ProTracker quirk (spec.md section 4.4 point 8): a Dxx row
	// break landing on a row that also carries an EEn pattern delay
	// advances the effective target row by one.
	if p.legacy && rowBreak >= 0 && patternDelayAmount(cells) > 0 {
		rowBreak++
	}

	loopRow := -1
	for i := range p.channels {
		c := &p.channels[i]
		if c.loopRequested {
			loopRow = c.patLoopRow
			c.loopRequested = false
			break
		}
	}
	// Clear every channel's pending request; only the first winner jumps,
	// matching a single shared song position.
	for i := range p.channels {
		p.channels[i].loopRequested = false
	}

	if loopRow >= 0 {
		p.row = loopRow
		p.enterRow(false)
		return
	}

	nextOrder, nextRow := p.order, p.row+1
	switch {
	case posBreak >= 0 && rowBreak >= 0:
		nextOrder, nextRow = posBreak, rowBreak
	case posBreak >= 0:
		nextOrder, nextRow = posBreak, 0
	case rowBreak >= 0:
		nextOrder, nextRow = p.order+1, rowBreak
	case nextRow >= rowsPerPattern:
		nextOrder, nextRow = p.order+1, 0
	}

	limit := len(p.mod.Orders)
	if p.patternsCount > 0 && p.patternsCount < limit {
		limit = p.patternsCount
	}
	if nextOrder < 0 || nextOrder >= limit {
		nextOrder = p.startPos
	}
	if nextRow < 0 || nextRow >= rowsPerPattern {
		nextRow = 0
	}

	key := [2]int{nextOrder, nextRow}
	if p.visited[key] {
		p.loopsDone++
		if p.loopsDone >= p.maxLoops {
			p.ended = true
		}
		p.visited = map[[2]int]bool{}
	}
	p.visited[key] = true

	p.order, p.row = nextOrder, nextRow
	p.enterRow(false)
}

// NextTick advances exactly one tick and reports how many PCM frames the
// caller should request from the mixer for it (the fractional-accumulator
// split that keeps long-run frame counts within +-1 of the ideal, per
// spec.md's testable properties). Returns 0 frames and ok=false once the
// song has ended.
func (p *Player) NextTick() (frames int, ok bool) {
	if p.ended {
		return 0, false
	}
	p.tickAccum += p.samplesPerTick
	frames = int(p.tickAccum)
	p.tickAccum -= float64(frames)
	p.advanceTick()
	return frames, true
}
