package navdata

import (
	"bytes"
	"testing"

	"github.com/skynav/navdconv/geo"
)

func sampleDB() *MemDatabase {
	db := NewMemDatabase(nil, nil)
	db.AddWaypoint(&Waypoint{Id: "ALPHA", Position: geo.NewPointDeg(47.0, -122.0), Kind: KindFIX})
	db.AddWaypoint(&Waypoint{Id: "ALPHA", Position: geo.NewPointDeg(48.0, -122.0), Kind: KindVOR})
	db.AddWaypoint(&Waypoint{Id: "BETA", Position: geo.NewPointDeg(47.5, -122.5), Kind: KindFIX})
	db.AddAirway(&Airway{
		Name: "V1",
		Legs: []AirwayLeg{
			{InId: "ALPHA", InPos: geo.NewPointDeg(47.0, -122.0), OutId: "BETA", OutPos: geo.NewPointDeg(47.5, -122.5)},
		},
	})
	return db
}

func TestAddWaypointOrdersByIdThenKind(t *testing.T) {
	db := sampleDB()
	wp, idx, ok := db.GetWaypoint("ALPHA", 0)
	if !ok {
		t.Fatal("expected ALPHA")
	}
	if wp.Kind != KindFIX {
		t.Errorf("first ALPHA should be FIX (higher priority), got %v", wp.Kind)
	}
	wp2, _, ok := db.GetWaypoint("ALPHA", idx)
	if !ok || wp2.Kind != KindVOR {
		t.Errorf("second ALPHA should be VOR, got %v, ok=%v", wp2, ok)
	}
}

func TestGetWptNear2(t *testing.T) {
	db := sampleDB()
	near := geo.NewPointDeg(47.9, -122.0)
	wp, _, ok := db.GetWptNear2("ALPHA", near)
	if !ok {
		t.Fatal("expected a match")
	}
	if wp.Kind != KindVOR {
		t.Errorf("expected the closer (48.0) VOR fix, got %v", wp.Kind)
	}
}

func TestGetWpt4Pos(t *testing.T) {
	db := sampleDB()
	pos := geo.NewPointDeg(47.0, -122.0)
	wp, _, ok := db.GetWpt4Pos("ALPHA", pos)
	if !ok || wp.Position != pos {
		t.Fatalf("expected exact-position match, got %v ok=%v", wp, ok)
	}
}

func TestGetWpt4Awy(t *testing.T) {
	db := sampleDB()
	src, _, ok := db.GetWaypoint("ALPHA", 0)
	if !ok {
		t.Fatal("missing ALPHA")
	}
	dst, leg, ok := db.GetWpt4Awy(src, "", "V1")
	if !ok {
		t.Fatal("expected to traverse V1 to BETA")
	}
	if dst.Id != "BETA" {
		t.Errorf("expected BETA, got %s", dst.Id)
	}
	if leg.InId != "ALPHA" || leg.OutId != "BETA" {
		t.Errorf("unexpected leg %+v", leg)
	}
}

func TestInitAirportIdempotent(t *testing.T) {
	db := NewMemDatabase(nil, nil)
	a := NewAirport("KSEA", "Seattle-Tacoma Intl", geo.NewPointDeg(47.4502, -122.3088), "PROC FOO SID1\nRWY 16L\n")
	a.Runways = append(a.Runways,
		&Runway{Id: "16L", Threshold: geo.NewPointDeg(47.46, -122.31)},
		&Runway{Id: "34R", Threshold: geo.NewPointDeg(47.44, -122.31)},
	)
	db.AddAirport(a)

	if _, err := db.InitAirport("KSEA"); err != nil {
		t.Fatalf("InitAirport: %v", err)
	}
	if !a.initialized {
		t.Fatal("expected airport marked initialized")
	}
	if _, ok := a.SIDs["FOO"]; !ok {
		t.Errorf("expected procedure FOO parsed into SIDs, got %+v", a.SIDs)
	}

	if _, err := db.InitAirport("KSEA"); err != ErrAlreadyInitialized {
		t.Errorf("expected ErrAlreadyInitialized on second call, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := sampleDB()
	var buf bytes.Buffer
	if err := db.WriteSnapshot(&buf); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(&buf)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(loaded.fixes) != len(db.fixes) {
		t.Fatalf("expected %d fixes, got %d", len(db.fixes), len(loaded.fixes))
	}
	wp, _, ok := loaded.GetWaypoint("BETA", 0)
	if !ok || wp.Position != geo.NewPointDeg(47.5, -122.5) {
		t.Errorf("unexpected BETA after round-trip: %+v ok=%v", wp, ok)
	}
}

func TestReciprocalId(t *testing.T) {
	tests := []struct{ in, want string }{
		{"16L", "34R"},
		{"34R", "16L"},
		{"09", "27"},
		{"27", "09"},
	}
	for _, tt := range tests {
		got, ok := ReciprocalId(tt.in)
		if !ok || got != tt.want {
			t.Errorf("ReciprocalId(%q) = %q, %v; want %q", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := ReciprocalId("09C"); ok {
		t.Error("expected no reciprocal for a center runway")
	}
}
