package animation

import "github.com/hammamikhairi/nowplaying/internal/domain"

// Policy tells the engine how a mode's content behaves.
type Policy struct {
	Family domain.Family
	Entry  domain.Entry

	// Delimiter splits line 1 for FamilyTicking: only the part before
	// it is compared. Empty compares the whole line.
	Delimiter string
	// CutLast cuts at the last occurrence of Delimiter instead of the
	// first, so "12:00:59" and "12:01:00" differ but seconds do not.
	CutLast bool
}

// Table maps application modes to policies.
type Table map[domain.Mode]Policy

// DefaultTable is the mapping used by the player.
func DefaultTable() Table {
	return Table{
		domain.ModeWelcome:    {Family: domain.FamilyBanner, Entry: domain.EntryWave},
		domain.ModeNowPlaying: {Family: domain.FamilyDefault, Entry: domain.EntrySlide},
		domain.ModeClock:      {Family: domain.FamilyTicking, Entry: domain.EntryWave, Delimiter: ":", CutLast: true},
		domain.ModeDebug:      {Family: domain.FamilyTicking, Entry: domain.EntryWave, Delimiter: ":"},
	}
}

// Lookup returns the policy for m. Modes missing from the table get the
// default family with a wave entry.
func (t Table) Lookup(m domain.Mode) Policy {
	if p, ok := t[m]; ok {
		return p
	}
	return Policy{Family: domain.FamilyDefault, Entry: domain.EntryWave}
}
