package keys

import "testing"

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Fire Bolt":       "fire_bolt",
		"  Tidal   Wave ": "tidal_wave",
		"":                "",
		"ROAR":            "roar",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRosterKey_OrderAndDuplicates(t *testing.T) {
	a := RosterKey([]string{"Embercub", "Tidefin", "embercub", " "})
	b := RosterKey([]string{"tidefin", "EMBERCUB"})
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if a != "embercub,tidefin" {
		t.Fatalf("unexpected key %q", a)
	}
}
