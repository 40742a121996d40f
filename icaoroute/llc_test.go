package icaoroute

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestMatchLLCWholeDegree(t *testing.T) {
	p, id, ok := matchLLC("N46W066")
	if !ok {
		t.Fatalf("expected match")
	}
	if id != "N46W066" {
		t.Fatalf("id = %q", id)
	}
	if !almostEqual(p.LatDeg(), 46, 1e-6) || !almostEqual(p.LonDeg(), -66, 1e-6) {
		t.Fatalf("pos = %v", p)
	}
}

func TestMatchLLCWholeDegreeSlash(t *testing.T) {
	p, _, ok := matchLLC("N46/W066")
	if !ok {
		t.Fatalf("expected match")
	}
	if !almostEqual(p.LatDeg(), 46, 1e-6) || !almostEqual(p.LonDeg(), -66, 1e-6) {
		t.Fatalf("pos = %v", p)
	}
}

func TestMatchLLCDegMin(t *testing.T) {
	p, _, ok := matchLLC("N4411W06622")
	if !ok {
		t.Fatalf("expected match")
	}
	wantLat := 44 + 11.0/60
	wantLon := -(66 + 22.0/60)
	if !almostEqual(p.LatDeg(), wantLat, 1e-4) || !almostEqual(p.LonDeg(), wantLon, 1e-4) {
		t.Fatalf("pos = %v, want %v/%v", p, wantLat, wantLon)
	}
}

func TestMatchLLCDegMinSec(t *testing.T) {
	p, _, ok := matchLLC("N441154W0662206")
	if !ok {
		t.Fatalf("expected match")
	}
	wantLat := 44 + 11.0/60 + 54.0/3600
	wantLon := -(66 + 22.0/60 + 6.0/3600)
	if !almostEqual(p.LatDeg(), wantLat, 1e-4) || !almostEqual(p.LonDeg(), wantLon, 1e-4) {
		t.Fatalf("pos = %v, want %v/%v", p, wantLat, wantLon)
	}
}

func TestMatchLLCDecimalMinutes(t *testing.T) {
	p, _, ok := matchLLC("N4411.9W06622.1")
	if !ok {
		t.Fatalf("expected match")
	}
	wantLat := 44 + 11.9/60
	wantLon := -(66 + 22.1/60)
	if !almostEqual(p.LatDeg(), wantLat, 1e-4) || !almostEqual(p.LonDeg(), wantLon, 1e-4) {
		t.Fatalf("pos = %v, want %v/%v", p, wantLat, wantLon)
	}
}

func TestMatchLLCCompactOceanic(t *testing.T) {
	p1, _, ok := matchLLC("4466N")
	if !ok {
		t.Fatalf("expected match on trailing-letter form")
	}
	p2, _, ok := matchLLC("44N66")
	if !ok {
		t.Fatalf("expected match on interior-letter form")
	}
	if p1 != p2 {
		t.Fatalf("the two compact spellings disagree: %v vs %v", p1, p2)
	}
	if !almostEqual(p1.LatDeg(), 44, 1e-6) || !almostEqual(p1.LonDeg(), -166, 1e-6) {
		t.Fatalf("pos = %v", p1)
	}
}

func TestMatchLLCVariableDecimal(t *testing.T) {
	p, _, ok := matchLLC("-44.4/-111.1")
	if !ok {
		t.Fatalf("expected match")
	}
	if !almostEqual(p.LatDeg(), -44.4, 1e-3) || !almostEqual(p.LonDeg(), -111.1, 1e-3) {
		t.Fatalf("pos = %v", p)
	}
}

func TestMatchLLCRejectsOrdinaryIdentifier(t *testing.T) {
	if _, _, ok := matchLLC("BERSU"); ok {
		t.Fatalf("expected no match on an ordinary 5-letter fix id")
	}
}
