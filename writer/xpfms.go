// Package writer implements spec.md §6's XP-FMS external writer, the
// only textual output format carrying semantic information (altitude
// constraint kind, overfly, FAF/NPA) beyond what is common to all
// formats. It walks a compiled flightplan.FlightPlan's leg list, each
// leg's dummy ("xpfms") waypoints, and the predicted altitude profile,
// emitting one line per fix.
package writer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// dummyProximityNM is how close a leg's synthesized dummy fix may sit to
// the next real fix before it's skipped as redundant, per spec.md §6.
const dummyProximityNM = 1.0

// WriteXPFMS writes fp's compiled route to w in XP-FMS form: a fixed
// header, one line per emitted waypoint (dummies preceding each leg's
// terminal fix, closer-than-1nmi dummies dropped), and a two-line
// discontinuity footer.
func WriteXPFMS(w io.Writer, fp *flightplan.FlightPlan) error {
	bw := bufio.NewWriter(w)

	legs := fp.Legs()
	lines := make([]string, 0, len(legs)*2)

	apchType, haveApch := fp.ArrivalApproachType()
	pastFAF := false

	for _, l := range legs {
		if l.Type == leg.ZZ {
			lines = append(lines, discontinuityLine())
			continue
		}

		for _, d := range l.Xpfms {
			if ep, ok := l.EndPoint(); ok && geo.Distance(d.Position, ep) < dummyProximityNM {
				continue
			}
			lines = append(lines, waypointLine(d, 0))
		}

		isFAF := l.Restriction.Waypoint == leg.WaypointConstraintFAF
		altcode := altcodeFor(l, isFAF, pastFAF, apchType, haveApch)
		if isFAF {
			pastFAF = true
		}
		lines = append(lines, waypointLine(l.Dst, altcode))
	}

	fmt.Fprintf(bw, "I\n3 version\n1\n%d\n", len(lines)+2)
	for _, line := range lines {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw, discontinuityLine())
	fmt.Fprintln(bw, discontinuityLine())

	return bw.Flush()
}

// altcodeFor implements spec.md §6's altcode table. A FAF of an
// RNAV-family approach gets …8; any leg after the FAF of a non-RNAV
// approach (the FAF leg itself excluded), or a leg of an RNAV approach
// flagged as missed-approach point, gets …9 (NPA); otherwise the ordinary
// AB/overfly combination applies. The arrival runway fix is not detected
// by itself: an RNAV approach's runway leg gets …9 only when it carries
// the MAP flag.
func altcodeFor(l leg.Leg, isFAF, pastFAF bool, apchType navdata.ApproachType, haveApch bool) int {
	rnav := haveApch && apchType.IsRNAVFamily()

	if isFAF && rnav {
		return composeAltcode(l, 8)
	}
	if haveApch && ((pastFAF && !rnav) || (rnav && l.Restriction.Waypoint == leg.WaypointConstraintMAP)) {
		return composeAltcode(l, 9)
	}

	switch {
	case l.Restriction.Altitude.Kind == leg.AltitudeAtOrAbove && l.Overfly:
		return composeAltcode(l, 2)
	case l.Restriction.Altitude.Kind == leg.AltitudeAtOrAbove:
		return composeAltcode(l, 1)
	case l.Overfly:
		return composeAltcode(l, 3)
	default:
		return composeAltcode(l, 0)
	}
}

// composeAltcode folds the predicted altitude (in feet) and the
// constraint digit into one value per spec.md §6: "…3 overfly (no alt if
// round number)" implies the altitude is dropped from a round-thousand
// overfly code, leaving just the bare digit.
func composeAltcode(l leg.Leg, digit int) int {
	alt := l.PredictedAltitude.Feet()
	if digit == 3 && alt%1000 == 0 {
		alt = 0
	}
	return alt*10 + digit
}

func waypointLine(w navdata.Waypoint, altcode int) string {
	return fmt.Sprintf("%d %s %d %.6f %.6f", fmsType(w.Kind), w.Id, altcode, w.Position.LatDeg(), w.Position.LonDeg())
}

func discontinuityLine() string {
	return "0 DISCONTINUITY 0 0.000000 0.000000"
}

// fmsType maps a waypoint's Kind to spec.md §6's XP-FMS type code:
// 1 airport, 2 NDB, 3 VOR, 11 fix, 28 lat/lon, 0 discontinuity. Kinds the
// table doesn't name (DME, runway threshold, localizer, and the
// synthesized PBD/PBX/INT/TOC/TOD variants) are written as plain fixes,
// the closest fit the format offers.
func fmsType(k navdata.Kind) int {
	switch k {
	case navdata.KindAPT, navdata.KindXPA:
		return 1
	case navdata.KindNDB:
		return 2
	case navdata.KindVOR:
		return 3
	case navdata.KindLLC:
		return 28
	default:
		return 11
	}
}
