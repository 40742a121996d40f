package icaoroute_test

import (
	"testing"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/icaoroute"
	"github.com/skynav/navdconv/navdata"
)

func buildDB() *navdata.MemDatabase {
	db := navdata.NewMemDatabase(nil, nil)
	db.AddAirport(navdata.NewAirport("AAAA", "Alpha", geo.NewPointDeg(40.0, -80.0), ""))
	db.AddAirport(navdata.NewAirport("BBBB", "Bravo", geo.NewPointDeg(42.0, -70.0), ""))

	db.AddWaypoint(&navdata.Waypoint{Id: "WPA", Position: geo.NewPointDeg(40.5, -79.0), Kind: navdata.KindFIX})
	db.AddWaypoint(&navdata.Waypoint{Id: "WPB", Position: geo.NewPointDeg(41.0, -75.0), Kind: navdata.KindFIX})
	db.AddWaypoint(&navdata.Waypoint{Id: "WPC", Position: geo.NewPointDeg(41.5, -71.0), Kind: navdata.KindFIX})
	db.AddWaypoint(&navdata.Waypoint{Id: "ABCDE", Position: geo.NewPointDeg(41.0, -73.0), Kind: navdata.KindFIX})

	db.AddAirway(&navdata.Airway{
		Name: "AW1",
		Legs: []navdata.AirwayLeg{
			{InId: "WPA", InPos: geo.NewPointDeg(40.5, -79.0), OutId: "WPB", OutPos: geo.NewPointDeg(41.0, -75.0)},
			{InId: "WPB", InPos: geo.NewPointDeg(41.0, -75.0), OutId: "WPC", OutPos: geo.NewPointDeg(41.5, -71.0)},
		},
	})
	db.AddAirway(&navdata.Airway{
		Name: "AW2",
		Legs: []navdata.AirwayLeg{
			{InId: "WPB", InPos: geo.NewPointDeg(41.0, -75.0), OutId: "WPC", OutPos: geo.NewPointDeg(41.5, -71.0)},
		},
	})
	return db
}

func TestParseTwoAirwaysResolveAtSharedJunction(t *testing.T) {
	db := buildDB()
	fp := flightplan.New(db, nil, nil)

	if err := icaoroute.Parse(fp, db, "AAAA WPA AW1 AW2 WPC BBBB"); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	foundWPB := false
	for _, l := range fp.Legs() {
		if l.Identifier == "WPB" {
			foundWPB = true
		}
	}
	if !foundWPB {
		t.Fatalf("expected AW1/AW2 junction at WPB, legs=%+v", fp.Legs())
	}
}

func TestParseDirectAndAirwayTrimsBoundaryDirects(t *testing.T) {
	db := buildDB()
	fp := flightplan.New(db, nil, nil)

	if err := icaoroute.Parse(fp, db, "AAAA WPA AW1 WPC BBBB"); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if fp.DepartureAirport() == nil || fp.DepartureAirport().Id != "AAAA" {
		t.Fatalf("departure not set to AAAA: %+v", fp.DepartureAirport())
	}
	if fp.ArrivalAirport() == nil || fp.ArrivalAirport().Id != "BBBB" {
		t.Fatalf("arrival not set to BBBB: %+v", fp.ArrivalAirport())
	}

	legs := fp.Legs()
	if len(legs) == 0 {
		t.Fatal("expected a non-empty leg list")
	}

	bbbbPos := fp.ArrivalAirport().Waypoint().Position
	count := 0
	for _, l := range legs {
		if l.Dst.Position == bbbbPos {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one leg terminating at the arrival waypoint (the reconciled tail), got %d", count)
	}

	foundWPB := false
	for _, l := range legs {
		if l.Identifier == "WPB" {
			foundWPB = true
		}
	}
	if !foundWPB {
		t.Fatalf("expected the airway traversal to pass through WPB, legs=%+v", legs)
	}
}

func TestParsePBDTokenSynthesizesWaypoint(t *testing.T) {
	db := buildDB()
	fp := flightplan.New(db, nil, nil)

	if err := icaoroute.Parse(fp, db, "AAAA ABCDE045010 BBBB"); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var found *navdata.Waypoint
	for _, w := range fp.SynthesizedWaypoints() {
		if w.Kind == navdata.KindPBD {
			w := w
			found = &w
		}
	}
	if found == nil {
		t.Fatalf("expected a synthesized PBD waypoint, got %+v", fp.SynthesizedWaypoints())
	}
}

func TestParseLLCTokenSynthesizesWaypoint(t *testing.T) {
	db := buildDB()
	fp := flightplan.New(db, nil, nil)

	if err := icaoroute.Parse(fp, db, "AAAA N41W073 BBBB"); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var found *navdata.Waypoint
	for _, w := range fp.SynthesizedWaypoints() {
		if w.Kind == navdata.KindLLC {
			w := w
			found = &w
		}
	}
	if found == nil {
		t.Fatalf("expected a synthesized LLC waypoint, got %+v", fp.SynthesizedWaypoints())
	}
	if !almostEqualDeg(found.Position.LatDeg(), 41) || !almostEqualDeg(found.Position.LonDeg(), -73) {
		t.Fatalf("unexpected LLC position %v", found.Position)
	}
}

func TestParseSkipsSIDStarDctAndNatTrack(t *testing.T) {
	db := buildDB()
	fp := flightplan.New(db, nil, nil)

	if err := icaoroute.Parse(fp, db, "AAAA DCT WPA STAR NATA AW1 WPC BBBB"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if fp.ArrivalAirport() == nil || fp.ArrivalAirport().Id != "BBBB" {
		t.Fatalf("expected arrival BBBB despite interleaved keywords")
	}
}

func almostEqualDeg(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-3
}
