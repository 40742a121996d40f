package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/navlog"
)

const sampleSnapshot = `{
  "airports": [
    {"id": "AAAA", "name": "Alpha", "lat": 40.0, "lon": -80.0},
    {"id": "BBBB", "name": "Bravo", "lat": 42.0, "lon": -70.0}
  ],
  "waypoints": [
    {"id": "WPA", "lat": 41.0, "lon": -75.0, "kind": "FIX"}
  ],
  "airways": [
    {"name": "AW1", "legs": [{"in_id": "AAAA", "in_lat": 40.0, "in_lon": -80.0, "out_id": "WPA", "out_lat": 41.0, "out_lon": -75.0}]}
  ]
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	if err := os.WriteFile(path, []byte(sampleSnapshot), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDatabasePopulatesAirportsWaypointsAirways(t *testing.T) {
	path := writeSnapshot(t)

	db, err := loadDatabase(path, navlog.Default())
	if err != nil {
		t.Fatalf("loadDatabase: %v", err)
	}

	if _, ok := db.GetAirport("AAAA"); !ok {
		t.Fatal("expected airport AAAA")
	}
	if _, _, ok := db.GetWaypoint("WPA", 0); !ok {
		t.Fatal("expected waypoint WPA")
	}
	if _, _, ok := db.GetAirway("AW1", 0); !ok {
		t.Fatal("expected airway AW1")
	}
}

func TestConfigurePlanWiresDepartureArrivalAndRoute(t *testing.T) {
	path := writeSnapshot(t)
	db, err := loadDatabase(path, navlog.Default())
	if err != nil {
		t.Fatalf("loadDatabase: %v", err)
	}

	fp := flightplan.New(db, nil, navlog.Default())
	if err := configurePlan(fp, db, "AAAA", "BBBB", "", "", "", "AAAA WPA BBBB"); err != nil {
		t.Fatalf("configurePlan: %v", err)
	}

	if fp.DepartureAirport() == nil || fp.DepartureAirport().Id != "AAAA" {
		t.Fatalf("departure not set: %+v", fp.DepartureAirport())
	}
	if fp.ArrivalAirport() == nil || fp.ArrivalAirport().Id != "BBBB" {
		t.Fatalf("arrival not set: %+v", fp.ArrivalAirport())
	}

	found := false
	for _, l := range fp.Legs() {
		if strings.Contains(l.Identifier, "WPA") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the route string to route through WPA, legs=%+v", fp.Legs())
	}
}
