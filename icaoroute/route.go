// Package icaoroute implements spec.md §4.F's ICAO route parser: it
// tokenizes a free-form route string, resolves each token against the
// navdatabase and the flight plan's own rolling startpoint, and appends
// the resulting direct/airway segments to a flightplan.FlightPlan.
package icaoroute

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/navdata"
)

var natTrackRe = regexp.MustCompile(`^NAT[A-Z]$`)

// Parse implements spec.md §4.F. Tokens are whitespace-separated; SID,
// STAR and DCT are skipped, as are NAT-track identifiers. Each remaining
// token is split at its first '/' into prefix/suffix and disambiguated per
// resolveToken's five-step order, building up direct or airway segments on
// fp as it goes. The first token, if it names an airport, configures the
// departure (with runway from its suffix) and contributes no segment of
// its own; every later token that names an airport is instead resolved
// like any other waypoint (remembered as the arrival candidate, and
// joined to the route by an ordinary direct) — which is exactly the
// redundant boundary direct the final trim below removes once
// SetArrival's own rolling-start reconciliation would reproduce it anyway.
func Parse(fp *flightplan.FlightPlan, db navdata.Database, route string) error {
	toks := mergeAdjacentPBD(strings.Fields(route))

	var cur *navdata.Waypoint
	pendingAirway := ""
	depSet := false
	arrID, arrRwy := "", ""
	sawFirst := false

	for _, raw := range toks {
		up := strings.ToUpper(raw)
		if up == "SID" || up == "STAR" || up == "DCT" {
			continue
		}
		if natTrackRe.MatchString(up) {
			continue
		}
		prefix, suffix := splitFirstSlash(up)

		if apt, ok := db.GetAirport(prefix); ok {
			if !sawFirst && !depSet {
				if err := fp.SetDeparture(apt.Id, suffix); err != nil {
					return err
				}
				depSet = true
				w := apt.Waypoint()
				cur = &w
				sawFirst = true
				continue
			}
			sawFirst = true
			arrID, arrRwy = apt.Id, suffix
			if err := appendSegment(fp, db, &cur, pendingAirway, apt.Waypoint()); err != nil {
				return err
			}
			pendingAirway = ""
			continue
		}
		sawFirst = true

		wpt, isAirway, err := resolveToken(fp, db, cur, up, prefix, suffix)
		if err != nil {
			return err
		}
		if isAirway {
			if pendingAirway != "" {
				junction, ok := intersectAirways(db, pendingAirway, prefix)
				if !ok {
					return fmt.Errorf("icaoroute: %s/%s: %w", pendingAirway, prefix, ErrNoAirwayJunction)
				}
				if err := appendSegment(fp, db, &cur, pendingAirway, junction); err != nil {
					return err
				}
			}
			pendingAirway = prefix
			continue
		}

		if err := appendSegment(fp, db, &cur, pendingAirway, wpt); err != nil {
			return err
		}
		pendingAirway = ""
	}

	if pendingAirway != "" {
		return ErrDanglingAirway
	}

	if apt := fp.DepartureAirport(); apt != nil {
		pos := boundaryPosition(apt, fp.DepartureRunway())
		for fp.TrimBoundaryDirect(pos, true) {
		}
	}

	if arrID != "" {
		apt, ok := db.GetAirport(arrID)
		if ok {
			pos := boundaryPosition(apt, nil)
			if arrRwy != "" {
				if rwy, ok := apt.RunwayByID(arrRwy); ok {
					pos = rwy.Waypoint().Position
				}
			}
			for fp.TrimBoundaryDirect(pos, false) {
			}
		}
		if err := fp.SetArrival(arrID, arrRwy); err != nil {
			return err
		}
	}

	return nil
}

func boundaryPosition(apt *navdata.Airport, rwy *navdata.Runway) geo.Point {
	if rwy != nil {
		return rwy.Waypoint().Position
	}
	return apt.Waypoint().Position
}

func splitFirstSlash(tok string) (string, string) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		return tok[:i], tok[i+1:]
	}
	return tok, ""
}

// mergeAdjacentPBD folds spec.md §4.F step 1's "PLACE + BRG/DIST" two-token
// form into a single "PLACE/BRG/DIST" token so the rest of the pipeline
// only ever has to recognize one shape.
func mergeAdjacentPBD(toks []string) []string {
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		if i+1 < len(toks) && pbdSplitRe.MatchString(toks[i+1]) && !strings.Contains(toks[i], "/") {
			out = append(out, toks[i]+"/"+toks[i+1])
			i++
			continue
		}
		out = append(out, toks[i])
	}
	return out
}

// appendSegment builds the route segment reaching wpt — an airway run when
// pendingAirway is set, otherwise a direct — and appends it at the plan's
// enroute tail. A segment whose endpoint coincides with the current
// rolling startpoint is a pointless direct (src==dst) and is dropped per
// spec.md §4.F.
func appendSegment(fp *flightplan.FlightPlan, db navdata.Database, cur **navdata.Waypoint, pendingAirway string, wpt navdata.Waypoint) error {
	if *cur != nil && (*cur).SameFix(wpt) {
		w := wpt
		*cur = &w
		return nil
	}

	if pendingAirway != "" && *cur != nil {
		if err := fp.InsertAirway(**cur, wpt, pendingAirway, -1); err != nil {
			if alt, ok := retryAirwayStart(db, **cur, pendingAirway); ok {
				if err2 := fp.InsertAirway(alt, wpt, pendingAirway, -1); err2 == nil {
					w := wpt
					*cur = &w
					return nil
				}
			}
			return err
		}
	} else {
		if err := fp.InsertDirect(wpt, -1, true); err != nil {
			return err
		}
	}
	w := wpt
	*cur = &w
	return nil
}

// retryAirwayStart implements spec.md §4.F step 2's fallback: when the
// rolling startpoint is not a valid entry onto awy, look for another
// waypoint sharing its identifier that is.
func retryAirwayStart(db navdata.Database, src navdata.Waypoint, awy string) (navdata.Waypoint, bool) {
	for idx := 0; ; {
		w, next, ok := db.GetWaypoint(src.Id, idx)
		if !ok {
			return navdata.Waypoint{}, false
		}
		if w.Position != src.Position {
			if _, _, ok := db.GetWpt4Awy(w, "", awy); ok {
				return *w, true
			}
		}
		idx = next
	}
}
