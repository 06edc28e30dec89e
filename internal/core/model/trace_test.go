package model

import "testing"

func TestTraceSetting_SanitizeFillsZeroDefaults(t *testing.T) {
	got := TraceSetting{}.Sanitize()
	if got.MaxHops != 30 {
		t.Fatalf("MaxHops = %d, want 30", got.MaxHops)
	}
	if got.TriesPerHop != 1 {
		t.Fatalf("TriesPerHop = %d, want 1", got.TriesPerHop)
	}
}

func TestTraceSetting_SanitizePreservesNonZero(t *testing.T) {
	got := TraceSetting{MaxHops: 5, TriesPerHop: 3}.Sanitize()
	if got.MaxHops != 5 || got.TriesPerHop != 3 {
		t.Fatalf("got %+v, want MaxHops=5 TriesPerHop=3", got)
	}
}

func TestTimeoutHop(t *testing.T) {
	hop := TimeoutHop(7)
	if hop.Hop != 7 || hop.Note != "timeout" || hop.Reached {
		t.Fatalf("got %+v, want Hop=7 Note=timeout Reached=false", hop)
	}
}
