package geo

import (
	"math"
	"testing"

	golanggeo "github.com/kellydunn/golang-geo"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestDistanceAgreesWithReference(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
	}{
		{"JFK-LAX", NewPointDeg(40.6413, -73.7781), NewPointDeg(33.9416, -118.4085)},
		{"LHR-CDG", NewPointDeg(51.4700, -0.4543), NewPointDeg(49.0097, 2.5479)},
		{"short hop", NewPointDeg(47.4502, -122.3088), NewPointDeg(47.6062, -122.3321)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)

			ref := golanggeo.NewPoint(tt.a.LatDeg(), tt.a.LonDeg())
			other := golanggeo.NewPoint(tt.b.LatDeg(), tt.b.LonDeg())
			wantKm := ref.GreatCircleDistance(other)
			wantNM := wantKm * 0.539957

			if !almostEqual(got, wantNM, wantNM*0.01+0.5) {
				t.Errorf("Distance() = %v nm, reference = %v nm", got, wantNM)
			}
		})
	}
}

func TestTrueBearingCardinal(t *testing.T) {
	origin := NewPointDeg(0, 0)
	north := NewPointDeg(1, 0)
	east := NewPointDeg(0, 1)

	if b := TrueBearing(origin, north); !almostEqual(b, 0, 0.5) {
		t.Errorf("bearing to due north = %v, want ~0", b)
	}
	if b := TrueBearing(origin, east); !almostEqual(b, 90, 0.5) {
		t.Errorf("bearing to due east = %v, want ~90", b)
	}
}

func TestPlaceBearingDistanceRoundTrips(t *testing.T) {
	origin := NewPointDeg(47.45, -122.31)
	for _, brg := range []float64{0, 45, 90, 180, 270, 359} {
		dest := PlaceBearingDistance(origin, brg, 50)
		gotBrg := TrueBearing(origin, dest)
		if d := math.Abs(BearingAngle(brg, gotBrg)); d > 0.5 {
			t.Errorf("brg=%v: recovered bearing %v differs by %v", brg, gotBrg, d)
		}
		gotDist := Distance(origin, dest)
		if !almostEqual(gotDist, 50, 0.5) {
			t.Errorf("brg=%v: recovered distance %v, want ~50", brg, gotDist)
		}
	}
}

func TestBearingAngleAndReverse(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 90, 90},
		{0, 270, -90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
	}
	for _, tt := range tests {
		if got := BearingAngle(tt.a, tt.b); !almostEqual(got, tt.want, 1e-6) {
			t.Errorf("BearingAngle(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	if got := AngleReverse(90); !almostEqual(got, -270, 1e-9) {
		t.Errorf("AngleReverse(90) = %v, want -270", got)
	}
	if got := AngleReverse(-90); !almostEqual(got, 270, 1e-9) {
		t.Errorf("AngleReverse(-90) = %v, want 270", got)
	}
}

func TestIntersectRadialsBasic(t *testing.T) {
	// Two points on the equator, bearing due north from each, should
	// never meet (parallel great circles through antipodal poles would
	// actually coincide for meridians, so pick two non-meridian radials
	// that cross at a known point).
	p1 := NewPointDeg(0, -10)
	p2 := NewPointDeg(0, 10)

	got, err := IntersectRadials(p1, 45, p2, 315)
	if err != nil {
		t.Fatalf("IntersectRadials: %v", err)
	}
	// By symmetry the intersection should sit on the prime meridian.
	if !almostEqual(got.LonDeg(), 0, 0.5) {
		t.Errorf("intersection lon = %v, want ~0", got.LonDeg())
	}
	if got.LatDeg() <= 0 {
		t.Errorf("intersection lat = %v, want > 0 (north of both radials)", got.LatDeg())
	}
}

func TestIntersectRadialsCoincident(t *testing.T) {
	p1 := NewPointDeg(10, 10)
	p2 := NewPointDeg(20, 20)
	// The radial at p2 continues the p1->p2 great circle, so it is the
	// reverse of p2's bearing back to p1, not p1's initial bearing.
	brg1 := TrueBearing(p1, p2)
	brg2 := NormalizeBearing(TrueBearing(p2, p1) + 180)
	_, err := IntersectRadials(p1, brg1, p2, brg2)
	if err != ErrCoincidentGreatCircles {
		t.Errorf("expected ErrCoincidentGreatCircles, got %v", err)
	}
}

func TestIntersectRadialCircle(t *testing.T) {
	p1 := NewPointDeg(0, 0)
	center := NewPointDeg(0, 2)

	got, err := IntersectRadialCircle(p1, 90, center, 60)
	if err != nil {
		t.Fatalf("IntersectRadialCircle: %v", err)
	}
	d := Distance(got, center)
	if !almostEqual(d, 60, 1) {
		t.Errorf("distance from center = %v, want ~60", d)
	}
}

func TestIntersectRadialCircleNoIntersection(t *testing.T) {
	p1 := NewPointDeg(0, 0)
	center := NewPointDeg(50, 50)
	_, err := IntersectRadialCircle(p1, 90, center, 1)
	if err != ErrNoIntersection {
		t.Errorf("expected ErrNoIntersection, got %v", err)
	}
}
