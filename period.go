package modplayer

// Amiga period tables and pitch/tuning math. Two table sets are kept: the
// legacy ProTracker 2.3 table (3 octaves, 16 finetunes) and an extended
// table (5 octaves) used for TakeTracker and other N-channel formats.
//
// Both tables are derived from the classic ProTracker period row for
// finetune 0 (periodRow0) and the micromod-derived finetuning scale
// factors (fineTuning), the same two tables the reference Go player keeps,
// rather than hand-transcribing 16 separate octave tables.

const (
	notesPerOctaveTable = 12
	legacyOctaves       = 3
	extendedOctaves     = 5

	legacyNotes   = legacyOctaves * notesPerOctaveTable   // 36
	extendedNotes = extendedOctaves * notesPerOctaveTable // 60

	// paulaClock is the constant used to convert an Amiga period into a
	// playback frequency: frequency = paulaClock / (2 * period).
	paulaClock = 7_093_789
)

// periodRow0 is the Amiga period for C-1..B-1 at finetune 0. Every other
// octave is this row halved (up) or doubled (down) per octave; every other
// finetune is this row scaled by fineTuning.
var periodRow0 = [notesPerOctaveTable]int{
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
}

// fineTuning holds the 16 finetune scale factors as .12 fixed point,
// finetune -8..+7 stored at indices 0..15 (8 = no tuning). Lifted from
// Micromod; a finetune of -8 is equal to the next lower note.
var fineTuning = [16]int{
	4340, 4308, 4277, 4247, 4216, 4186, 4156, 4126,
	4096, 4067, 4037, 4008, 3979, 3951, 3922, 3894,
}

// periodTableKind selects which table a channel's pitch math is resolved
// against.
type periodTableKind int

const (
	periodTableLegacy periodTableKind = iota
	periodTableExtended
)

// periodTables holds both precomputed finetune x note period grids plus
// the metadata needed to clamp and search them.
type periodTables struct {
	legacy   [16][legacyNotes]int
	extended [16][extendedNotes + 1]int // +1 for the terminating 0 sentinel
}

var tables = buildPeriodTables()

func buildPeriodTables() *periodTables {
	pt := &periodTables{}

	periodAt := func(note int) int {
		octave := note / notesPerOctaveTable
		within := note % notesPerOctaveTable
		p := periodRow0[within]
		// Each higher octave halves the period; we only ever go up from
		// octave 0 in both tables (octave 0 is the lowest octave each
		// table represents).
		for o := 0; o < octave; o++ {
			p /= 2
		}
		return p
	}

	for ft := 0; ft < 16; ft++ {
		for n := 0; n < legacyNotes; n++ {
			pt.legacy[ft][n] = (periodAt(n) * fineTuning[ft]) >> 12
		}
		for n := 0; n < extendedNotes; n++ {
			pt.extended[ft][n] = (periodAt(n) * fineTuning[ft]) >> 12
		}
		pt.extended[ft][extendedNotes] = 0 // terminating sentinel
	}

	return pt
}

// row returns the note-indexed period row of the given kind for a signed
// finetune (-8..7). Rows are laid out like fineTuning: finetune f is
// stored at index f+8.
func (pt *periodTables) row(kind periodTableKind, finetune int) []int {
	idx := (finetune + 8) & 0xF
	if kind == periodTableLegacy {
		return pt.legacy[idx][:]
	}
	return pt.extended[idx][:]
}

// frequency converts an Amiga period to a playback frequency in Hz. A
// period of 0 (no note) yields 0.
func frequency(period int) float64 {
	if period <= 0 {
		return 0
	}
	return float64(paulaClock) / (2 * float64(period))
}

// noteOf returns the table index whose period is closest to the given
// period. In extended mode a +-1 fuzz is tolerated so pitch-slid periods
// that fall between table entries still resolve to a sensible note.
func noteOf(kind periodTableKind, finetune, period int) int {
	row := tables.row(kind, finetune)
	best, bestDist := -1, 1<<30
	for i, p := range row {
		if p == 0 {
			continue
		}
		d := p - period
		if d < 0 {
			d = -d
		}
		if kind == periodTableExtended && d <= 1 {
			return i
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best == -1 {
		return 0
	}
	return best
}

// finetunedPeriod resolves a raw row period to the period at the given
// finetune, honoring the note found in the table. In legacy mode the
// result is clamped upward to the highest note in the table (the 3
// octave ceiling ProTracker 2.3 enforces).
func finetunedPeriod(kind periodTableKind, period, finetune int) int {
	if period <= 0 {
		return 0
	}
	row := tables.row(kind, finetune)
	idx := noteOf(kind, finetune, period)
	p := row[idx]
	if kind == periodTableLegacy {
		highest := row[len(row)-1]
		if p < highest {
			p = highest
		}
	}
	return p
}

// nearestPeriod snaps a (possibly slid) period to the nearest table entry,
// used to implement glissando.
func nearestPeriod(kind periodTableKind, period, finetune int) int {
	row := tables.row(kind, finetune)
	best, bestDist := row[0], 1<<30
	for _, p := range row {
		if p == 0 {
			continue
		}
		d := p - period
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// legacyPeriodBounds returns the periods of the lowest and highest notes
// in the legacy table (the largest and the smallest legal period), used
// to clamp slid periods every tick in legacy mode.
func legacyPeriodBounds(finetune int) (lowest, highest int) {
	row := tables.row(periodTableLegacy, finetune)
	return row[0], row[len(row)-1]
}

// funkTable maps the EFx "invert loop" parameter x (0..15) to the amount
// added to the channel's funk accumulator every tick; each time the
// accumulator reaches 128, one byte of the sample's loop region is
// flipped. Lifted from the reference tracker's funk table.
var funkTable = [16]int{
	0, 5, 6, 7, 8, 10, 11, 13, 16, 19, 22, 26, 32, 43, 64, 128,
}
