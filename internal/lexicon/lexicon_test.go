package lexicon

import "testing"

func TestInitEmbeddedDefaults(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	p, v, c := Stats()
	if p == 0 || v == 0 || c == 0 {
		t.Fatalf("stats = %d, %d, %d", p, v, c)
	}
	if got := RandomPlayer(); !isName(got) {
		t.Errorf("random player %q", got)
	}
	if got := RandomVenue(); !isWords(got) {
		t.Errorf("random venue %q", got)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		in          string
		name, words bool
	}{
		{"Anthony Volpe", true, true},
		{"Ryan O'Hearn", true, false},
		{"Bobby Witt Jr.", true, false},
		{"José Ramírez", true, true},
		{"Oriole Park at Camden Yards", true, true},
		{"T-Mobile Park", false, false},
		{"Area 51", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		if got := isName(tt.in); got != tt.name {
			t.Errorf("isName(%q) = %v", tt.in, got)
		}
		if got := isWords(tt.in); got != tt.words {
			t.Errorf("isWords(%q) = %v", tt.in, got)
		}
	}
}
