package flightplan

import (
	"errors"
	"fmt"

	"github.com/skynav/navdconv/interp"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

func requiresRunwaySID(t navdata.ProcedureType) bool {
	return t == navdata.SID1 || t == navdata.SID4
}

func requiresRunwaySTAR(t navdata.ProcedureType) bool {
	return t == navdata.STAR3 || t == navdata.STAR6 || t == navdata.STAR9
}

func runwayLabel(r *navdata.Runway) string {
	if r == nil {
		return "(none)"
	}
	return r.Id
}

func (fp *FlightPlan) resolveAirport(icao string) (*navdata.Airport, error) {
	apt, err := fp.db.InitAirport(icao)
	if err != nil {
		if errors.Is(err, navdata.ErrAlreadyInitialized) {
			return apt, nil
		}
		return nil, fmt.Errorf("flightplan: unknown airport %s: %w", icao, ErrNotFound)
	}
	return apt, nil
}

// SetDeparture implements spec.md §4.E.1's set_departure: resolves the
// airport and runway, clears SID state when either changes, and
// computes TransitionAltitude (apt.TransitionAlt if set, else
// apt.TransitionLevel, else 10,000ft).
func (fp *FlightPlan) SetDeparture(icao, rwy string) error {
	apt, err := fp.resolveAirport(icao)
	if err != nil {
		return err
	}
	var rw *navdata.Runway
	if rwy != "" {
		r, ok := apt.RunwayByID(rwy)
		if !ok {
			return fmt.Errorf("flightplan: %s: unknown runway %s: %w", icao, rwy, ErrInvalidInput)
		}
		rw = r
	}
	if fp.depApt != apt || fp.depRwy != rw {
		fp.depSID, fp.depSIDEnroute = nil, nil
	}
	fp.depApt, fp.depRwy = apt, rw

	switch {
	case apt.TransitionAlt != nil:
		fp.TransitionAltitude = *apt.TransitionAlt
	case apt.TransitionLevel != nil:
		fp.TransitionAltitude = *apt.TransitionLevel
	default:
		fp.TransitionAltitude = navdata.FeetAlt(10000)
	}

	return fp.routeLegUpdate()
}

// SetArrival mirrors SetDeparture, additionally clearing STAR/approach
// state on change, and computes TransitionLevelAltitude analogously
// (apt.TransitionLevel first, then apt.TransitionAlt, then 10,000ft).
func (fp *FlightPlan) SetArrival(icao, rwy string) error {
	apt, err := fp.resolveAirport(icao)
	if err != nil {
		return err
	}
	var rw *navdata.Runway
	if rwy != "" {
		r, ok := apt.RunwayByID(rwy)
		if !ok {
			return fmt.Errorf("flightplan: %s: unknown runway %s: %w", icao, rwy, ErrInvalidInput)
		}
		rw = r
	}
	if fp.arrApt != apt || fp.arrRwy != rw {
		fp.starEnroute, fp.star, fp.apchTrans, fp.apch = nil, nil, nil, nil
	}
	fp.arrApt, fp.arrRwy = apt, rw

	switch {
	case apt.TransitionLevel != nil:
		fp.TransitionLevelAltitude = *apt.TransitionLevel
	case apt.TransitionAlt != nil:
		fp.TransitionLevelAltitude = *apt.TransitionAlt
	default:
		fp.TransitionLevelAltitude = navdata.FeetAlt(10000)
	}

	return fp.routeLegUpdate()
}

// decodeAndSegment decodes proc's common-route legs and stitches them
// into a route segment beginning at src.
func (fp *FlightPlan) decodeAndSegment(proc *navdata.Procedure, src *navdata.Waypoint, prefix []leg.Leg) (*RouteSegment, interp.SegmentResult, error) {
	legs, err := interp.DecodeLegs(proc.RawLegs())
	if err != nil {
		return nil, interp.SegmentResult{}, fmt.Errorf("flightplan: decoding %s: %w", proc.Name, err)
	}
	proc.MarkOpened()
	res, err := interp.SegmentProced(src, proc, legs, prefix)
	if err != nil {
		return nil, interp.SegmentResult{}, fmt.Errorf("flightplan: segmenting %s: %w", proc.Name, err)
	}
	return fp.newSegment(SegmentProcedure, proc.Name, res.Legs), res, nil
}

// segmentTransition decodes and stitches a named transition's legs,
// treated as a general (non-runway) procedure entry regardless of which
// parent procedure it belongs to.
func segmentTransition(src *navdata.Waypoint, tr *navdata.Transition) (interp.SegmentResult, error) {
	legs, err := interp.DecodeLegs(tr.RawLegs)
	if err != nil {
		return interp.SegmentResult{}, fmt.Errorf("flightplan: decoding transition %s: %w", tr.Name, err)
	}
	shell := &navdata.Procedure{Name: tr.Name, Type: navdata.STAR1}
	res, err := interp.SegmentProced(src, shell, legs, nil)
	if err != nil {
		return interp.SegmentResult{}, fmt.Errorf("flightplan: segmenting transition %s: %w", tr.Name, err)
	}
	return res, nil
}

// segmentEndpoint returns the waypoint s's last leg concludes at, or nil
// if s is empty or its last leg has no determinate endpoint.
func segmentEndpoint(s *RouteSegment) *navdata.Waypoint {
	if s == nil || len(s.Legs) == 0 {
		return nil
	}
	last := s.Legs[len(s.Legs)-1]
	if ep, ok := last.EndPoint(); ok {
		w := navdata.Waypoint{Id: last.Dst.Id, Position: ep, Kind: last.Dst.Kind}
		return &w
	}
	return nil
}

func lastOf(segs []*RouteSegment) *RouteSegment {
	if len(segs) == 0 {
		return nil
	}
	return segs[len(segs)-1]
}

// deepestEndpoint returns the endpoint of the first populated segment in
// segs, falling back to the departure runway/airport waypoint.
func (fp *FlightPlan) deepestEndpoint(segs ...*RouteSegment) *navdata.Waypoint {
	for _, s := range segs {
		if ep := segmentEndpoint(s); ep != nil {
			return ep
		}
	}
	if fp.depRwy != nil {
		w := fp.depRwy.Waypoint()
		return &w
	}
	if fp.depApt != nil {
		w := fp.depApt.Waypoint()
		return &w
	}
	return nil
}

func mergeRestriction(base, extra leg.Restriction) leg.Restriction {
	out := base
	if out.Altitude.Kind == leg.AltitudeNone {
		out.Altitude = extra.Altitude
	}
	if out.Airspeed.Kind == leg.AirspeedNone {
		out.Airspeed = extra.Airspeed
	}
	if out.Waypoint == leg.WaypointConstraintNone {
		out.Waypoint = extra.Waypoint
	}
	return out
}

// mergeConstraintIntoLastLeg merges a constraint skipped off a
// downstream procedure's own entry leg back into seg's last leg, per
// spec.md §4.D.2's "constraints" out-parameter.
func mergeConstraintIntoLastLeg(seg *RouteSegment, skipped leg.Restriction) {
	if seg == nil || len(seg.Legs) == 0 {
		return
	}
	last := &seg.Legs[len(seg.Legs)-1]
	merged := mergeRestriction(last.Restriction, skipped)
	if validated, err := leg.Restrict(last.Type, merged); err == nil {
		last.Restriction = validated
	}
}

// SetDepartSID implements spec.md §4.E.1's set_departsid: looks up the
// named SID on the departure runway, requires a runway for SID_1/SID_4,
// opens the procedure lazily, and chains an optional transition.
func (fp *FlightPlan) SetDepartSID(name, trans string) error {
	if fp.depApt == nil {
		return fmt.Errorf("flightplan: set_departsid: no departure airport set: %w", ErrInvalidInput)
	}
	proc := fp.depApt.SIDs[name]
	if proc == nil {
		fp.log.Warnf("flightplan: %s: invalid SID '%s' for runway %s", fp.depApt.Id, name, runwayLabel(fp.depRwy))
		return fmt.Errorf("flightplan: %s: invalid SID %q for runway %s: %w", fp.depApt.Id, name, runwayLabel(fp.depRwy), ErrInvalidInput)
	}
	if requiresRunwaySID(proc.Type) && fp.depRwy == nil {
		fp.log.Warnf("flightplan: %s: invalid SID '%s' for runway %s", fp.depApt.Id, name, runwayLabel(fp.depRwy))
		return fmt.Errorf("flightplan: %s: SID %q requires a runway: %w", fp.depApt.Id, name, ErrInvalidInput)
	}

	var src *navdata.Waypoint
	if fp.depRwy != nil {
		w := fp.depRwy.Waypoint()
		src = &w
	}
	sid, res, err := fp.decodeAndSegment(proc, src, nil)
	if err != nil {
		return err
	}

	var sidEnroute *RouteSegment
	if trans != "" {
		tr, ok := proc.Transitions[trans]
		if !ok {
			return fmt.Errorf("flightplan: %s: unknown SID transition %q: %w", name, trans, ErrInvalidInput)
		}
		trRes, err := segmentTransition(segmentEndpoint(sid), tr)
		if err != nil {
			return err
		}
		sidEnroute = fp.newSegment(SegmentProcedure, trans, trRes.Legs)
		if trRes.SkippedConstraint != nil {
			mergeConstraintIntoLastLeg(sid, *trRes.SkippedConstraint)
		}
	}
	if res.SkippedConstraint != nil {
		mergeConstraintIntoLastLeg(sid, *res.SkippedConstraint)
	}

	fp.depSID, fp.depSIDEnroute = sid, sidEnroute
	return fp.routeLegUpdate()
}

// SetArrivalSTAR implements spec.md §4.E.1's set_arrivstar: chains an
// optional enroute transition before the STAR itself, sourcing the
// transition from the last leg of whichever upstream segment (enroute,
// SID-enroute, SID) is currently populated. STAR types that require a
// runway (STAR3/STAR6/STAR9) fall back to the procedure's runway-agnostic
// "star" transition prefix when no arrival runway is set.
func (fp *FlightPlan) SetArrivalSTAR(name, trans string) error {
	if fp.arrApt == nil {
		return fmt.Errorf("flightplan: set_arrivstar: no arrival airport set: %w", ErrInvalidInput)
	}
	proc := fp.arrApt.STARs[name]
	if proc == nil {
		return fmt.Errorf("flightplan: %s: invalid STAR %q: %w", fp.arrApt.Id, name, ErrInvalidInput)
	}

	upstream := fp.deepestEndpoint(lastOf(fp.enroute), fp.depSIDEnroute, fp.depSID)

	var starEnroute *RouteSegment
	src := upstream
	if trans != "" {
		tr, ok := proc.Transitions[trans]
		if !ok {
			return fmt.Errorf("flightplan: %s: unknown STAR transition %q: %w", name, trans, ErrInvalidInput)
		}
		trRes, err := segmentTransition(upstream, tr)
		if err != nil {
			return err
		}
		starEnroute = fp.newSegment(SegmentProcedure, trans, trRes.Legs)
		if ep := segmentEndpoint(starEnroute); ep != nil {
			src = ep
		}
	}

	var prefix []leg.Leg
	if requiresRunwaySTAR(proc.Type) && fp.arrRwy == nil {
		if pfx, ok := proc.Transitions["star"]; ok {
			prefix, _ = interp.DecodeLegs(pfx.RawLegs)
		}
	}

	star, res, err := fp.decodeAndSegment(proc, src, prefix)
	if err != nil {
		return err
	}
	if res.SkippedConstraint != nil && starEnroute != nil {
		mergeConstraintIntoLastLeg(starEnroute, *res.SkippedConstraint)
	}

	fp.starEnroute, fp.star = starEnroute, star
	return fp.routeLegUpdate()
}

// SetArrivalApproach implements spec.md §4.E.1's set_arrivapch: requires
// an arrival runway, opens the approach and its transition, and chains
// transition-then-final, sourcing from the deepest currently-populated
// upstream leg (STAR, STAR-enroute, enroute, SID-enroute, SID).
func (fp *FlightPlan) SetArrivalApproach(name, trans string) error {
	if fp.arrRwy == nil {
		return fmt.Errorf("flightplan: set_arrivapch: requires an arrival runway: %w", ErrInvalidInput)
	}
	proc := fp.arrRwy.Approaches[name]
	if proc == nil && fp.arrApt != nil {
		proc = fp.arrApt.AllProcs[name]
	}
	if proc == nil {
		return fmt.Errorf("flightplan: %s: invalid approach %q: %w", runwayLabel(fp.arrRwy), name, ErrInvalidInput)
	}

	upstream := fp.deepestEndpoint(fp.star, fp.starEnroute, lastOf(fp.enroute), fp.depSIDEnroute, fp.depSID)

	var apchTrans *RouteSegment
	src := upstream
	if trans != "" {
		tr, ok := proc.Transitions[trans]
		if !ok {
			return fmt.Errorf("flightplan: %s: unknown approach transition %q: %w", name, trans, ErrInvalidInput)
		}
		trRes, err := segmentTransition(upstream, tr)
		if err != nil {
			return err
		}
		apchTrans = fp.newSegment(SegmentProcedure, trans, trRes.Legs)
		if ep := segmentEndpoint(apchTrans); ep != nil {
			src = ep
		}
	}

	final, res, err := fp.decodeAndSegment(proc, src, nil)
	if err != nil {
		return err
	}
	if res.SkippedConstraint != nil && apchTrans != nil {
		mergeConstraintIntoLastLeg(apchTrans, *res.SkippedConstraint)
	}

	fp.apchTrans, fp.apch = apchTrans, final
	fp.apchType = proc.AppType
	return fp.routeLegUpdate()
}
