// Package flightplan implements the flight-plan assembler of spec.md
// §4.E: a mutable FlightPlan with named route segments (departure SID,
// enroute legs, arrival STAR/transition/approach) recompiled to a single
// leg list by routeLegUpdate whenever a setter or editor changes plan
// state.
package flightplan

import (
	"errors"

	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
	"github.com/skynav/navdconv/navlog"
)

// ErrInvalidInput and ErrNotFound are the sentinel errors setters and
// editors wrap, replacing spec.md §7's EINVAL/ENOENT errno vocabulary.
var (
	ErrInvalidInput = errors.New("flightplan: invalid input")
	ErrNotFound     = errors.New("flightplan: not found")
)

// SegmentKind tags what a RouteSegment represents.
type SegmentKind int

const (
	SegmentDirect SegmentKind = iota
	SegmentAirway
	SegmentDiscontinuity
	SegmentProcedure
	SegmentMissedApproach
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentDirect:
		return "direct"
	case SegmentAirway:
		return "airway"
	case SegmentDiscontinuity:
		return "discontinuity"
	case SegmentProcedure:
		return "procedure"
	case SegmentMissedApproach:
		return "missed-approach"
	default:
		return "?"
	}
}

// RouteSegment is a named run of legs belonging to one logical piece of
// the route: a SID, a STAR, an approach or its transition, an airway, or
// a single direct leg. Legs carry their owning segment's ID
// (leg.SegmentID) rather than a back-pointer, per spec.md §9's
// non-owning-reference design note — segment slices get reallocated by
// split/consolidate, which would dangle a raw pointer.
type RouteSegment struct {
	ID         int
	Kind       SegmentKind
	Identifier string // airway id, or procedure/transition name
	Legs       []leg.Leg
}

func (s *RouteSegment) retag() {
	for i := range s.Legs {
		s.Legs[i].SegmentID = s.ID
	}
}

// FlightPlan is the assembler's mutable plan state, per spec.md §4.E.
type FlightPlan struct {
	db  navdata.Database
	wmm navdata.WorldMagneticModel
	log *navlog.Logger

	// CruiseAltitude feeds interp's altitude-profile synthesis as the
	// enroute target altitude.
	CruiseAltitude navdata.Altitude

	// TransitionAltitude/TransitionLevelAltitude are computed by
	// SetDeparture/SetArrival per spec.md §4.E.1.
	TransitionAltitude      navdata.Altitude
	TransitionLevelAltitude navdata.Altitude

	depApt *navdata.Airport
	depRwy *navdata.Runway
	arrApt *navdata.Airport
	arrRwy *navdata.Runway

	depSID        *RouteSegment
	depSIDEnroute *RouteSegment
	enroute       []*RouteSegment
	starEnroute   *RouteSegment
	star          *RouteSegment
	apchTrans     *RouteSegment
	apch          *RouteSegment
	arrLast       *RouteSegment
	apchType      navdata.ApproachType

	legs []leg.Leg
	cws  []navdata.Waypoint // synthesized waypoints this plan owns

	nextSegID int
}

// New creates an empty flight plan against db. A nil wmm defaults to
// navdata.NewSimpleWMM(); a nil log defaults to navlog.Default().
func New(db navdata.Database, wmm navdata.WorldMagneticModel, log *navlog.Logger) *FlightPlan {
	if wmm == nil {
		wmm = navdata.NewSimpleWMM()
	}
	if log == nil {
		log = navlog.Default()
	}
	return &FlightPlan{db: db, wmm: wmm, log: log, CruiseAltitude: navdata.FeetAlt(33000)}
}

// Legs returns the plan's compiled leg list, as last rebuilt by
// routeLegUpdate.
func (fp *FlightPlan) Legs() []leg.Leg { return append([]leg.Leg(nil), fp.legs...) }

// DepartureAirport, DepartureRunway, ArrivalAirport and ArrivalRunway
// expose the plan's current endpoints.
func (fp *FlightPlan) DepartureAirport() *navdata.Airport { return fp.depApt }
func (fp *FlightPlan) DepartureRunway() *navdata.Runway   { return fp.depRwy }
func (fp *FlightPlan) ArrivalAirport() *navdata.Airport   { return fp.arrApt }
func (fp *FlightPlan) ArrivalRunway() *navdata.Runway     { return fp.arrRwy }

// ArrivalApproachType reports the AppType of the approach set by
// SetArrivalApproach, or ApproachUnknown with ok false if none is set —
// the XP-FMS writer's FAF/NPA altcode selection (spec.md §6) keys off it.
func (fp *FlightPlan) ArrivalApproachType() (navdata.ApproachType, bool) {
	if fp.apch == nil {
		return navdata.ApproachUnknown, false
	}
	return fp.apchType, true
}

func (fp *FlightPlan) newSegment(kind SegmentKind, identifier string, legs []leg.Leg) *RouteSegment {
	fp.nextSegID++
	s := &RouteSegment{ID: fp.nextSegID, Kind: kind, Identifier: identifier, Legs: legs}
	s.retag()
	return s
}

// allSegments returns every populated segment slot, in no particular
// order — used for ID lookups and for the write-back pass, not for
// compiling flp.legs (routeLegUpdate's concatenation order is explicit).
func (fp *FlightPlan) allSegments() []*RouteSegment {
	segs := make([]*RouteSegment, 0, 7+len(fp.enroute))
	segs = append(segs, fp.depSID, fp.depSIDEnroute)
	segs = append(segs, fp.enroute...)
	segs = append(segs, fp.starEnroute, fp.star, fp.apchTrans, fp.apch, fp.arrLast)
	return segs
}

func (fp *FlightPlan) segmentByID(id int) *RouteSegment {
	for _, s := range fp.allSegments() {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}

// addSynthesized records a waypoint this plan materialized (a PBD/LLC
// fix, an icaoroute-synthesized point) in the plan's own arena, per
// spec.md §9's "plan owns its synthesized waypoints by index" design
// note.
func (fp *FlightPlan) addSynthesized(w navdata.Waypoint) navdata.Waypoint {
	w.Synthesized = true
	fp.cws = append(fp.cws, w)
	return w
}

// Synthesize records w (a PBD/LLC/place-bearing-distance fix the ICAO
// route parser or any other caller materializes rather than reads from
// the navdatabase) in the plan's synthesized-waypoint arena, and returns
// the recorded copy with Synthesized set.
func (fp *FlightPlan) Synthesize(w navdata.Waypoint) navdata.Waypoint {
	return fp.addSynthesized(w)
}

// SynthesizedWaypoints returns every waypoint this plan has materialized
// via Synthesize, in creation order.
func (fp *FlightPlan) SynthesizedWaypoints() []navdata.Waypoint {
	return append([]navdata.Waypoint(nil), fp.cws...)
}

