package animation

import (
	"testing"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

func seeded(line1, line2 string) State {
	st := NewState()
	st.Commit(line1, line2)
	return st
}

func TestClassify(t *testing.T) {
	table := DefaultTable()
	clock := table.Lookup(domain.ModeClock)
	music := table.Lookup(domain.ModeNowPlaying)
	debug := table.Lookup(domain.ModeDebug)
	firstCut := Policy{Family: domain.FamilyTicking, Entry: domain.EntryWave, Delimiter: ":"}

	tests := []struct {
		name   string
		policy Policy
		st     State
		l1, l2 string
		want   Change
	}{
		{"first content", music, NewState(), "", "", Significant},
		{"clock second tick", clock, seeded("12:00:01", "Fri Mar 01"), "12:00:02", "Fri Mar 01", Minor},
		{"clock minute tick", clock, seeded("12:00:59", "Fri Mar 01"), "12:01:00", "Fri Mar 01", Significant},
		{"first cut ignores minutes", firstCut, seeded("12:00:59", "Fri Mar 01"), "12:01:00", "Fri Mar 01", Minor},
		{"clock hour rollover", clock, seeded("12:59:59", "Fri Mar 01"), "13:00:00", "Fri Mar 01", Significant},
		{"clock date rollover", clock, seeded("23:59:59", "Fri Mar 01"), "23:00:00", "Sat Mar 02", Significant},
		{"debug counter", debug, seeded("API: 3 | Ready", "Mode: debug"), "API: 4 | Playing", "Mode: debug", Minor},
		{"ticking without delimiter", clock, seeded("offline", "x"), "online", "x", Significant},
		{"same track", music, seeded("Song", "Artist"), "Song", "Artist", Minor},
		{"new title", music, seeded("Song", "Artist"), "Song 2", "Artist", Significant},
		{"new artist", music, seeded("Song", "Artist"), "Song", "Band", Significant},
		{"trailing space counts", music, seeded("Song", "Artist"), "Song ", "Artist", Significant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.policy, tt.st, tt.l1, tt.l2); got != tt.want {
				t.Fatalf("Classify(%q, %q) = %s, want %s", tt.l1, tt.l2, got, tt.want)
			}
		})
	}
}

func TestClassifyBannerOnModeEntry(t *testing.T) {
	banner := DefaultTable().Lookup(domain.ModeWelcome)
	st := seeded("Welcome :)", "Starting up...")

	if got := Classify(banner, st, "Welcome :)", "Starting up..."); got != Minor {
		t.Fatalf("unchanged banner after commit = %s, want minor", got)
	}

	st.SoftReset(t0)
	if got := Classify(banner, st, "Welcome :)", "Starting up..."); got != Significant {
		t.Fatalf("banner after mode entry = %s, want significant", got)
	}

	m := newTestMachine(t)
	m.Begin(domain.ModeWelcome, &st, "Welcome :)", "Starting up...", t0.Add(time.Second))
	if got := Classify(banner, st, "Welcome :)", "Starting up..."); got != Minor {
		t.Fatalf("banner re-triggered after being shown = %s, want minor", got)
	}
}

func TestClassifyEmptyContentSettles(t *testing.T) {
	music := DefaultTable().Lookup(domain.ModeNowPlaying)
	st := NewState()
	if got := Classify(music, st, "", ""); got != Significant {
		t.Fatalf("first empty content = %s, want significant", got)
	}
	st.Commit("", "")
	if got := Classify(music, st, "", ""); got != Minor {
		t.Fatalf("repeated empty content = %s, want minor", got)
	}
}

func TestLookupUnknownMode(t *testing.T) {
	p := DefaultTable().Lookup(domain.Mode(42))
	if p.Family != domain.FamilyDefault || p.Entry != domain.EntryWave {
		t.Fatalf("unknown mode policy = %+v", p)
	}
}
