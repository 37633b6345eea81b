package modplayer

// Effect numbers (the 4-bit "effect" nibble of a cell).
const (
	fxArpeggio       = 0x0
	fxPortaUp        = 0x1
	fxPortaDown      = 0x2
	fxTonePorta      = 0x3
	fxVibrato        = 0x4
	fxTonePortaVol   = 0x5
	fxVibratoVol     = 0x6
	fxTremolo        = 0x7
	fxSetPanning     = 0x8
	fxSampleOffset   = 0x9
	fxVolumeSlide    = 0xA
	fxPositionJump   = 0xB
	fxSetVolume      = 0xC
	fxPatternBreak   = 0xD
	fxExtended       = 0xE
	fxSetSpeedOrTempo = 0xF
)

// Extended (Exy) subcodes, keyed by the high nibble x of the parameter.
const (
	exFinePortaUp     = 0x1
	exFinePortaDown   = 0x2
	exGlissando       = 0x3
	exVibratoWaveform = 0x4
	exSetFineTune     = 0x5
	exPatternLoop     = 0x6
	exTremoloWaveform = 0x7
	exSetPanning      = 0x8
	exRetrigger       = 0x9
	exFineVolumeUp    = 0xA
	exFineVolumeDown  = 0xB
	exNoteCut         = 0xC
	exNoteDelay       = 0xD
	exPatternDelay    = 0xE
	exInvertLoop      = 0xF

	// exPrivate (E0x) is a private, non-legacy-only subset not present on
	// real Amiga hardware: bass filter (E02/E03), channel delay
	// (E04/E05/E06), and reverse-play (E07/E08) toggles. E00 and E01 are
	// not handled. Never enabled when legacy is set.
	exPrivate          = 0x0
	exPrivateBassOff   = 0x2
	exPrivateBassOn    = 0x3
	exPrivateDelayOff  = 0x4
	exPrivateDelayFast = 0x5
	exPrivateDelaySlow = 0x6
	exPrivateReverseOn = 0x7
	exPrivateReverseOff = 0x8
)

// hasMemory reports whether the effect re-uses the last non-zero
// parameter when the current row's parameter is zero.
func hasMemory(effect byte) bool {
	switch effect {
	case fxTonePorta, fxVibrato, fxTremolo, fxSampleOffset:
		return true
	}
	return false
}

// isTickTimeEffect reports whether the effect has per-tick work beyond
// its row-entry application (slides, arpeggio, oscillators, cut/delay,
// retrigger).
func isTickTimeEffect(effect byte) bool {
	switch effect {
	case fxArpeggio, fxPortaUp, fxPortaDown, fxTonePorta, fxVibrato,
		fxTonePortaVol, fxVibratoVol, fxTremolo, fxVolumeSlide, fxExtended:
		return true
	}
	return false
}
