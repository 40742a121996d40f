package icaoroute

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/navdata"
)

var (
	pbdCompactRe = regexp.MustCompile(`^([A-Z0-9]{5})(\d{3})(\d{3})$`)
	pbdSplitRe   = regexp.MustCompile(`^(\d{3})/(\d{3})$`)
)

// resolveToken implements spec.md §4.F's five-step disambiguation order.
// A nil error with isAirway true means prefix names an airway whose
// endpoint is deferred to the next token; otherwise the returned waypoint
// is the token's resolved endpoint.
func resolveToken(fp *flightplan.FlightPlan, db navdata.Database, cur *navdata.Waypoint, raw, prefix, suffix string) (navdata.Waypoint, bool, error) {
	if place, brg, dist, ok := matchPBD(prefix, suffix); ok {
		if anchor, ok := anchorWaypoint(fp, db, place, cur); ok {
			pbd := navdata.Waypoint{
				Id:       fmt.Sprintf("%s%03d%03d", place, int(brg), int(dist)),
				Position: geo.PlaceBearingDistance(anchor.Position, brg, dist),
				Kind:     navdata.KindPBD,
			}
			return fp.Synthesize(pbd), false, nil
		}
	}

	if _, _, ok := db.GetAirway(prefix, 0); ok {
		return navdata.Waypoint{}, true, nil
	}

	if w, ok := anchorWaypoint(fp, db, prefix, cur); ok {
		return w, false, nil
	}

	if pos, id, ok := parseLLC(raw, prefix); ok {
		llc := navdata.Waypoint{Id: id, Position: pos, Kind: navdata.KindLLC}
		return fp.Synthesize(llc), false, nil
	}

	return navdata.Waypoint{}, false, fmt.Errorf("icaoroute: %q: %w", raw, ErrUnresolvedToken)
}

// matchPBD recognizes spec.md §4.F step 1's lexical shapes: a single glued
// token (5-char place id + 3-digit bearing + 3-digit distance) or a
// place/bearing/distance token already split at its first slash into
// prefix="PLACE" and suffix="BRG/DIST" (mergeAdjacentPBD folds the
// whitespace-separated "PLACE + BRG/DIST" form into this same shape before
// tokens reach here).
func matchPBD(prefix, suffix string) (place string, brgDeg, distNM float64, ok bool) {
	if suffix != "" {
		if m := pbdSplitRe.FindStringSubmatch(suffix); m != nil {
			b, _ := strconv.Atoi(m[1])
			d, _ := strconv.Atoi(m[2])
			return prefix, float64(b), float64(d), true
		}
		return "", 0, 0, false
	}
	if m := pbdCompactRe.FindStringSubmatch(prefix); m != nil {
		b, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return m[1], float64(b), float64(d), true
	}
	return "", 0, 0, false
}

// anchorWaypoint implements the "known waypoint id" resolution spec.md
// §4.F steps 1 and 3 share: prefer a same-id waypoint the plan has already
// placed (a synthesized fix, or a leg destination), falling back to the
// navdatabase match nearest the rolling startpoint.
func anchorWaypoint(fp *flightplan.FlightPlan, db navdata.Database, id string, cur *navdata.Waypoint) (navdata.Waypoint, bool) {
	for _, w := range fp.SynthesizedWaypoints() {
		if w.Id == id {
			return w, true
		}
	}
	for _, l := range fp.Legs() {
		if l.Dst.Id == id {
			return l.Dst, true
		}
	}
	var near geo.Point
	if cur != nil {
		near = cur.Position
	}
	if w, _, ok := db.GetWptNear2(id, near); ok {
		return *w, true
	}
	return navdata.Waypoint{}, false
}
