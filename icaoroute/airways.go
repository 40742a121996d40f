package icaoroute

import "github.com/skynav/navdconv/navdata"

// intersectAirways implements spec.md §4.F's get_wpt4aws: when a route
// names two airways back to back with no waypoint token between them, the
// junction is the fix common to both. It returns the first common
// identifier shared by awy1's and awy2's legs, in awy1's leg order.
func intersectAirways(db navdata.Database, awy1, awy2 string) (navdata.Waypoint, bool) {
	a2, _, ok := db.GetAirway(awy2, 0)
	if !ok {
		return navdata.Waypoint{}, false
	}
	in2 := make(map[string]bool, len(a2.Legs)*2)
	for _, l := range a2.Legs {
		in2[l.InId] = true
		in2[l.OutId] = true
	}

	a1, _, ok := db.GetAirway(awy1, 0)
	if !ok {
		return navdata.Waypoint{}, false
	}
	for _, l := range a1.Legs {
		if in2[l.InId] {
			if w, _, ok := db.GetWaypoint(l.InId, 0); ok {
				return *w, true
			}
		}
		if in2[l.OutId] {
			if w, _, ok := db.GetWaypoint(l.OutId, 0); ok {
				return *w, true
			}
		}
	}
	return navdata.Waypoint{}, false
}
