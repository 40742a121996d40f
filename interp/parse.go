package interp

import (
	"fmt"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// DecodeLegs parses a procedure's (or transition's) raw leg text into a
// list of validated legs. This is the record->leg mapping of spec.md
// §4.D.1: the 22-way type dispatch, restriction assembly via leg.Restrict,
// and the identifier/description derivation of §6's representative
// examples.
func DecodeLegs(raw string) ([]leg.Leg, error) {
	recs, err := parseRecords(raw)
	if err != nil {
		return nil, err
	}
	legs := make([]leg.Leg, 0, len(recs))
	for i, rec := range recs {
		l, err := decodeLeg(rec)
		if err != nil {
			return nil, fmt.Errorf("interp: leg %d: %w", i, err)
		}
		legs = append(legs, l)
	}
	return legs, nil
}

func decodeLeg(rec record) (leg.Leg, error) {
	t := legTypeByName[rec.typ]

	l := leg.Leg{
		Type:    t,
		Overfly: rec.overfly == 1,
	}

	restr := leg.Restriction{
		Altitude: rec.altitudeConstraint(),
		Airspeed: rec.airspeedConstraint(),
		Waypoint: rec.waypointConstraint(),
		Turn:     rec.turnDirection(),
	}

	switch t {
	case leg.IF, leg.TF, leg.DF:
		l.Dst = rec.waypoint()
		l.Identifier = l.Dst.Id
		l.Description = descFor(t, l.Dst.Id)

	case leg.CF:
		l.Dst = rec.waypoint()
		l.Course = rec.magCourse
		l.Distance = navdata.NM(rec.legDist)
		l.Identifier = l.Dst.Id
		l.Description = fmt.Sprintf("TRK %03.0f", rec.magCourse)

	case leg.FA:
		l.Dst = rec.waypoint()
		l.Course = rec.magCourse
		l.Altitude = navdata.FeetAlt(int(rec.alt1))
		l.Identifier = l.Dst.Id
		l.Description = fmt.Sprintf("CRS %03.0f TO %s", rec.magCourse, l.Altitude)

	case leg.FM:
		l.Dst = rec.waypoint()
		l.Course = rec.magCourse
		l.Identifier = "(VECTOR)"
		l.Description = fmt.Sprintf("FROM %s MANUAL", l.Dst.Id)

	case leg.FC:
		l.Dst = rec.waypoint()
		l.Course = rec.magCourse
		l.Distance = navdata.NM(rec.legDist)
		l.Identifier = l.Dst.Id
		l.Description = fmt.Sprintf("CRS %03.0f D%.1f", rec.magCourse, rec.legDist)

	case leg.FD:
		l.Dst = rec.waypoint()
		l.RecFix = rec.navaid()
		l.Course = rec.magCourse
		l.Distance = navdata.NM(rec.dmeDist)
		l.Identifier = l.Dst.Id
		l.Description = fmt.Sprintf("CRS %03.0f DME %.1f", rec.magCourse, rec.dmeDist)

	case leg.CA:
		l.Course = rec.magCourse
		l.Altitude = navdata.FeetAlt(int(rec.alt1))
		l.Identifier = "(CRS)"
		l.Description = fmt.Sprintf("CRS %03.0f TO %s", rec.magCourse, l.Altitude)

	case leg.CI:
		l.RecFix = rec.navaid()
		l.Course = rec.magCourse
		l.Identifier = "(INTC)"
		l.Description = fmt.Sprintf("CRS %03.0f INTC", rec.magCourse)

	case leg.CD:
		l.RecFix = rec.navaid()
		l.Course = rec.magCourse
		l.Distance = navdata.NM(rec.dmeDist)
		l.Identifier = "(DME)"
		l.Description = fmt.Sprintf("CRS %03.0f DME %.1f", rec.magCourse, rec.dmeDist)

	case leg.CR:
		l.RecFix = rec.navaid()
		l.Course = rec.magCourse
		l.Identifier = "(RADIAL)"
		l.Description = fmt.Sprintf("CRS %03.0f R%03.0f", rec.magCourse, rec.radial)

	case leg.VA:
		l.Heading = rec.magCourse
		l.Altitude = navdata.FeetAlt(int(rec.alt1))
		l.Identifier = "(HDG)"
		l.Description = fmt.Sprintf("HDG %03.0f TO %s", rec.magCourse, l.Altitude)

	case leg.VI:
		l.RecFix = rec.navaid()
		l.Heading = rec.magCourse
		l.Identifier = "(INTC)"
		l.Description = fmt.Sprintf("HDG %03.0f INTC", rec.magCourse)

	case leg.VD:
		l.RecFix = rec.navaid()
		l.Heading = rec.magCourse
		l.Distance = navdata.NM(rec.dmeDist)
		l.Identifier = "(DME)"
		l.Description = fmt.Sprintf("HDG %03.0f DME %.1f", rec.magCourse, rec.dmeDist)

	case leg.VR:
		l.RecFix = rec.navaid()
		l.Heading = rec.magCourse
		l.Identifier = "(RADIAL)"
		l.Description = fmt.Sprintf("HDG %03.0f R%03.0f", rec.magCourse, rec.radial)

	case leg.VM:
		l.Heading = rec.magCourse
		l.Identifier = "(VECTOR)"
		l.Description = fmt.Sprintf("HDG %03.0f MANUAL", rec.magCourse)

	case leg.AF:
		l.Dst = rec.waypoint()
		l.RecFix = rec.navaid()
		l.Course = rec.radial // stop radial; start radial derived from src at synthesis time
		l.Distance = navdata.NM(rec.dmeDist)
		l.Identifier = l.Dst.Id
		dir := "RIGHT"
		if restr.Turn == leg.TurnLeft {
			dir = "LEFT"
		}
		navId := ""
		if l.RecFix != nil {
			navId = l.RecFix.Id
		}
		l.Description = fmt.Sprintf("ARC %s %s D%.1f", dir, navId, rec.dmeDist)

	case leg.RF:
		l.Dst = rec.waypoint()
		l.RecFix = rec.navaid()
		l.Distance = navdata.NM(rec.dmeDist)
		l.Identifier = l.Dst.Id
		l.Description = fmt.Sprintf("RADIUS D%.1f", rec.dmeDist)

	case leg.PI:
		l.Dst = rec.waypoint() // turn fix
		l.Course = rec.magCourse // outbound course
		l.Distance = navdata.NM(rec.legDist)
		l.TurnLimitDistance = navdata.NM(rec.dmeDist)
		l.TurnAngle = geo.BearingAngle(rec.magCourse, rec.radial)
		l.Identifier = "(INTC)"
		l.Description = fmt.Sprintf("P-TURN %s", l.Dst.Id)

	case leg.HF, leg.HA, leg.HM:
		l.Dst = rec.waypoint()
		restr.Hold = rec.holdShape()
		dir := "RIGHT"
		if restr.Hold.Turn == leg.TurnLeft {
			dir = "LEFT"
		}
		l.Identifier = l.Dst.Id
		if t == leg.HA {
			l.Altitude = navdata.FeetAlt(int(rec.alt1))
			l.Description = fmt.Sprintf("HOLD %s TO %s", dir, l.Altitude)
		} else {
			l.Description = fmt.Sprintf("HOLD %s", dir)
		}

	default:
		return leg.Leg{}, fmt.Errorf("interp: unhandled leg type %v", t)
	}

	validated, err := leg.Restrict(t, restr)
	if err != nil {
		return leg.Leg{}, err
	}
	l.Restriction = validated
	return l, nil
}

func descFor(t leg.Type, id string) string {
	switch t {
	case leg.IF:
		return "INITIAL FIX " + id
	case leg.TF:
		return "TRACK TO " + id
	case leg.DF:
		return "DIRECT " + id
	default:
		return id
	}
}
