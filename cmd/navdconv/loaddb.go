package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/navdata"
	"github.com/skynav/navdconv/navlog"
)

// dbSnapshot is the on-disk shape of a --db file: a pre-digested JSON
// rendering of exactly the fields navdata's types need. Parsing the raw
// ARINC-424/CIFP navdatabase files themselves is out of scope (spec.md
// §1 treats those parsers as external collaborators); this loader's job
// is limited to turning an already-digested snapshot into a
// navdata.MemDatabase.
type dbSnapshot struct {
	Airports  []dbAirport  `json:"airports"`
	Waypoints []dbWaypoint `json:"waypoints"`
	Airways   []dbAirway   `json:"airways"`
}

type dbAirport struct {
	Id              string  `json:"id"`
	Name            string  `json:"name"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	TransitionAlt   *int    `json:"transition_alt,omitempty"`
	TransitionLevel *int    `json:"transition_level,omitempty"`
	ProcedureText   string  `json:"procedure_text,omitempty"`
}

type dbWaypoint struct {
	Id     string  `json:"id"`
	Region string  `json:"region,omitempty"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Kind   string  `json:"kind"`
}

type dbAirwayLeg struct {
	InId    string  `json:"in_id"`
	InLat   float64 `json:"in_lat"`
	InLon   float64 `json:"in_lon"`
	OutId   string  `json:"out_id"`
	OutLat  float64 `json:"out_lat"`
	OutLon  float64 `json:"out_lon"`
	Direction string `json:"direction,omitempty"`
}

type dbAirway struct {
	Name string        `json:"name"`
	Legs []dbAirwayLeg `json:"legs"`
}

var waypointKinds = map[string]navdata.Kind{
	"APT": navdata.KindAPT,
	"NDB": navdata.KindNDB,
	"VOR": navdata.KindVOR,
	"LOC": navdata.KindLOC,
	"FIX": navdata.KindFIX,
	"DME": navdata.KindDME,
	"RWY": navdata.KindRWY,
}

func airwayDirection(s string) navdata.AirwayDirection {
	switch s {
	case "forward":
		return navdata.AirwayDirectionForward
	case "backward":
		return navdata.AirwayDirectionBackward
	default:
		return navdata.AirwayDirectionAny
	}
}

// loadDatabase reads path's JSON snapshot and populates a fresh
// navdata.MemDatabase from it.
func loadDatabase(path string, log *navlog.Logger) (*navdata.MemDatabase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("navdconv: open db: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("navdconv: read db: %w", err)
	}

	var snap dbSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("navdconv: parse db: %w", err)
	}

	db := navdata.NewMemDatabase(log, navdata.NewSimpleWMM())

	for _, a := range snap.Airports {
		apt := navdata.NewAirport(a.Id, a.Name, geo.NewPointDeg(a.Lat, a.Lon), a.ProcedureText)
		if a.TransitionAlt != nil {
			alt := navdata.FeetAlt(*a.TransitionAlt)
			apt.TransitionAlt = &alt
		}
		if a.TransitionLevel != nil {
			alt := navdata.FeetAlt(*a.TransitionLevel)
			apt.TransitionLevel = &alt
		}
		db.AddAirport(apt)
	}

	for _, w := range snap.Waypoints {
		kind, ok := waypointKinds[w.Kind]
		if !ok {
			kind = navdata.KindFIX
		}
		db.AddWaypoint(&navdata.Waypoint{
			Id:       w.Id,
			Region:   w.Region,
			Position: geo.NewPointDeg(w.Lat, w.Lon),
			Kind:     kind,
		})
	}

	for _, a := range snap.Airways {
		legs := make([]navdata.AirwayLeg, 0, len(a.Legs))
		for _, l := range a.Legs {
			legs = append(legs, navdata.AirwayLeg{
				InId:      l.InId,
				InPos:     geo.NewPointDeg(l.InLat, l.InLon),
				OutId:     l.OutId,
				OutPos:    geo.NewPointDeg(l.OutLat, l.OutLon),
				Direction: airwayDirection(l.Direction),
			})
		}
		db.AddAirway(&navdata.Airway{Name: a.Name, Legs: legs})
	}

	return db, nil
}
