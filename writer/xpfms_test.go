package writer_test

import (
	"strings"
	"testing"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/navdata"
	"github.com/skynav/navdconv/writer"
)

func buildPlan(t *testing.T) *flightplan.FlightPlan {
	t.Helper()
	db := navdata.NewMemDatabase(nil, nil)
	db.AddAirport(navdata.NewAirport("AAAA", "Alpha", geo.NewPointDeg(40.0, -80.0), ""))
	db.AddAirport(navdata.NewAirport("BBBB", "Bravo", geo.NewPointDeg(42.0, -70.0), ""))
	db.AddWaypoint(&navdata.Waypoint{Id: "WPA", Position: geo.NewPointDeg(41.0, -75.0), Kind: navdata.KindFIX})

	fp := flightplan.New(db, nil, nil)
	if err := fp.SetDeparture("AAAA", ""); err != nil {
		t.Fatalf("SetDeparture: %v", err)
	}
	if err := fp.SetArrival("BBBB", ""); err != nil {
		t.Fatalf("SetArrival: %v", err)
	}
	wpa, _, ok := db.GetWaypoint("WPA", 0)
	if !ok {
		t.Fatal("WPA not found")
	}
	if err := fp.InsertDirect(*wpa, -1, true); err != nil {
		t.Fatalf("InsertDirect: %v", err)
	}
	return fp
}

func TestWriteXPFMSHeaderAndFooter(t *testing.T) {
	fp := buildPlan(t)

	var buf strings.Builder
	if err := writer.WriteXPFMS(&buf, fp); err != nil {
		t.Fatalf("WriteXPFMS: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 6 {
		t.Fatalf("expected at least a header, some fixes, and a 2-line footer, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "I" {
		t.Fatalf("line 0 = %q, want \"I\"", lines[0])
	}
	if lines[1] != "3 version" {
		t.Fatalf("line 1 = %q, want \"3 version\"", lines[1])
	}
	if lines[2] != "1" {
		t.Fatalf("line 2 = %q, want \"1\"", lines[2])
	}
	last, secondLast := lines[len(lines)-1], lines[len(lines)-2]
	if !strings.HasPrefix(last, "0 DISCONTINUITY") || !strings.HasPrefix(secondLast, "0 DISCONTINUITY") {
		t.Fatalf("expected a two-line discontinuity footer, got %q / %q", secondLast, last)
	}
}

func TestWriteXPFMSEmitsWaypointLines(t *testing.T) {
	fp := buildPlan(t)

	var buf strings.Builder
	if err := writer.WriteXPFMS(&buf, fp); err != nil {
		t.Fatalf("WriteXPFMS: %v", err)
	}

	if !strings.Contains(buf.String(), " WPA ") {
		t.Fatalf("expected a WPA waypoint line, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), " BBBB ") {
		t.Fatalf("expected a BBBB waypoint line, got:\n%s", buf.String())
	}
}
