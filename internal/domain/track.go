package domain

// Track is what a player reports as currently loaded.
type Track struct {
	ID      string // player-specific id, empty when unknown
	Title   string
	Artist  string
	Playing bool
}

// ChangedFrom reports whether t is a different track from prev. IDs win
// when both sides have one; otherwise title and artist are compared.
// A nil prev always counts as a change.
func (t Track) ChangedFrom(prev *Track) bool {
	if prev == nil {
		return true
	}
	if t.ID != prev.ID {
		return true
	}
	return t.Title != prev.Title || t.Artist != prev.Artist
}

// Empty reports whether t carries no track at all.
func (t Track) Empty() bool {
	return t.ID == "" && t.Title == "" && t.Artist == ""
}
