// Package navdata implements the navigation-database data model (spec.md
// §3) and the façade (§4.B) the procedure interpreter and flight-plan
// assembler query. It deliberately does not parse the raw navdatabase
// files (airports/airways/navaids/waypoints/procedure preambles) — those
// are out of scope per spec.md §1 and are treated as already-populated
// structures a caller constructs via Add*/NewAirport.
package navdata

import (
	"github.com/skynav/navdconv/geo"
)

// Kind is a waypoint's variant tag, per spec.md §3.
type Kind int

const (
	KindAPT Kind = iota // airport
	KindNDB
	KindVOR
	KindLOC
	KindFIX
	KindDME
	KindRWY // runway threshold
	KindLLC // raw lat/lon
	KindXPA // airport matched only via index lookup
	KindPBD // place/bearing/distance
	KindPBX // place/bearing-place/bearing intersection
	KindINT // place/bearing-place/distance
	KindTOC // top of climb (vertical profile pseudo-waypoint)
	KindTOD // top of descent
)

func (k Kind) String() string {
	switch k {
	case KindAPT:
		return "APT"
	case KindNDB:
		return "NDB"
	case KindVOR:
		return "VOR"
	case KindLOC:
		return "LOC"
	case KindFIX:
		return "FIX"
	case KindDME:
		return "DME"
	case KindRWY:
		return "RWY"
	case KindLLC:
		return "LLC"
	case KindXPA:
		return "XPA"
	case KindPBD:
		return "PBD"
	case KindPBX:
		return "PBX"
	case KindINT:
		return "INT"
	case KindTOC:
		return "TOC"
	case KindTOD:
		return "TOD"
	default:
		return "?"
	}
}

// kindSortPriority implements §4.B's lookup priority ordering: FIX >
// (APT/XPA) > VOR > NDB > DME > rest.
func kindSortPriority(k Kind) int {
	switch k {
	case KindFIX:
		return 0
	case KindAPT, KindXPA:
		return 1
	case KindVOR:
		return 2
	case KindNDB:
		return 3
	case KindDME:
		return 4
	default:
		return 5
	}
}

// Waypoint is any fix the engine can route through: a database fix, a
// navaid, a runway threshold, or one of the synthesized variants the
// ICAO route parser and procedure interpreter materialize.
type Waypoint struct {
	Id        string
	Region    string // two-letter ICAO region, may be empty for synthesized waypoints
	Position  geo.Point
	Kind      Kind
	Frequency *Frequency // optional: navaids only
	Range     *Distance  // optional: navaid service volume

	// Synthesized is true for waypoints this engine created (PBD, PBX,
	// INT, LLC, xpfms dummies) rather than ones read from the
	// navdatabase. flightplan.FlightPlan.cws owns exactly these.
	Synthesized bool
}

// SameFix reports whether two waypoints refer to the same position,
// which is the "same waypoint" equality spec.md §3 requires be reliable.
func (w Waypoint) SameFix(o Waypoint) bool {
	return w.Position == o.Position
}

// AirwayDirection restricts which way an airway leg may be traversed.
type AirwayDirection int

const (
	AirwayDirectionAny AirwayDirection = iota
	AirwayDirectionForward
	AirwayDirectionBackward
)

// AirwayLeg is one edge of a named airway: endpoints by identifier and
// position (not pre-resolved to database waypoints — resolution happens
// lazily when a leg is traversed, per spec.md §3), in/out courses, and
// length.
type AirwayLeg struct {
	InId, OutId   string
	InPos, OutPos geo.Point
	InCourse      float64 // true, outbound from InId
	OutCourse     float64 // true, inbound to OutId
	Length        Distance
	Direction     AirwayDirection
}

// Airway is a named ordered list of legs.
type Airway struct {
	Name string
	Legs []AirwayLeg
}

// ILS describes a runway's instrument landing system, when present.
type ILS struct {
	Available   bool
	Frequency   Frequency
	CourseDeg   float64
	Glideslope  float64 // degrees
	WaypointId  string  // associated localizer waypoint, if any
}

type Surface int

const (
	SurfaceUnknown Surface = iota
	SurfaceAsphalt
	SurfaceConcrete
	SurfaceTurf
	SurfaceWater
	SurfaceGravel
)

type RunwayUsage int

const (
	RunwayClosed RunwayUsage = iota
	RunwayTakeoffOnly
	RunwayLandingOnly
	RunwayBoth
)

// Runway is a physical runway at an airport. Heading starts out
// database-supplied and is recomputed from threshold geodesy by
// Database.InitAirport, per spec.md §3/§9.
type Runway struct {
	Id                 string
	Heading            float64 // magnetic, recomputed on init
	Length             Distance
	Width              Distance
	Threshold          geo.Point
	ThresholdElevation Altitude
	ILS                *ILS
	Surface            Surface
	Usage              RunwayUsage

	SIDs       map[string]*Procedure
	STARs      map[string]*Procedure
	Approaches map[string]*Procedure
}

// Waypoint returns the synthesized runway-threshold waypoint used as a
// procedure's entry/exit fix.
func (r *Runway) Waypoint() Waypoint {
	return Waypoint{
		Id:          "RW" + r.Id,
		Position:    r.Threshold,
		Kind:        KindRWY,
		Synthesized: true,
	}
}

// splitRunwayId returns the suffix ('L'/'R'/'C'/'T'/"") of a runway id
// and the bare number, e.g. "27L" -> ("27", 'L').
func splitRunwayId(id string) (number string, suffix byte) {
	if id == "" {
		return "", 0
	}
	last := id[len(id)-1]
	if last == 'L' || last == 'R' || last == 'C' || last == 'T' {
		return id[:len(id)-1], last
	}
	return id, 0
}

// ReciprocalId returns the identifier of the paired reciprocal runway,
// per spec.md §9's "exactly two paired runways (L<->R), no C<->C pair, T
// treated as a parallel suffix" assumption.
func ReciprocalId(id string) (string, bool) {
	num, suf := splitRunwayId(id)
	n := 0
	for _, c := range num {
		if c < '0' || c > '9' {
			return "", false
		}
		n = n*10 + int(c-'0')
	}
	recipNum := n + 18
	if recipNum > 36 {
		recipNum -= 36
	}
	recipSuf := suf
	switch suf {
	case 'L':
		recipSuf = 'R'
	case 'R':
		recipSuf = 'L'
	case 'C':
		return "", false // no C<->C pairing, per spec.md §9
	}
	out := padRunwayNumber(recipNum)
	if recipSuf != 0 {
		out += string(recipSuf)
	}
	return out, true
}

func padRunwayNumber(n int) string {
	if n < 10 {
		return "0" + itoa(n)
	}
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Airport is an ICAO-identified aerodrome. Procedure lists are not
// populated until Database.InitAirport runs (spec.md §3: "Airport
// initialization is idempotent and on-demand").
type Airport struct {
	Id                string
	Name              string
	Position          geo.Point
	TransitionAlt     *Altitude
	TransitionLevel   *Altitude
	LongestRunway     Distance
	Runways           []*Runway

	SIDs     map[string]*Procedure
	STARs    map[string]*Procedure
	AllProcs map[string]*Procedure

	// rawProcedureText holds the unparsed procedure-file body until
	// InitAirport splits it into per-procedure raw leg text (spec.md §3:
	// "the parse is restricted to a textual preamble").
	rawProcedureText string
	initialized      bool
}

// Waypoint returns the synthesized airport-reference-point waypoint.
func (a *Airport) Waypoint() Waypoint {
	return Waypoint{Id: a.Id, Position: a.Position, Kind: KindAPT, Synthesized: true}
}

// RunwayByID looks up a runway by its identifier, trimming any leading
// zero the caller may have included.
func (a *Airport) RunwayByID(id string) (*Runway, bool) {
	id = TidyRunwayID(id)
	for _, r := range a.Runways {
		if TidyRunwayID(r.Id) == id {
			return r, true
		}
	}
	return nil, false
}

// TidyRunwayID strips a leading zero and "RW" prefix some navdatabase
// encodings use.
func TidyRunwayID(id string) string {
	if len(id) > 2 && id[:2] == "RW" {
		id = id[2:]
	}
	if len(id) > 1 && id[0] == '0' {
		id = id[1:]
	}
	return id
}

// NewAirport creates an airport with its procedure-file body staged for
// lazy initialization.
func NewAirport(id, name string, pos geo.Point, rawProcedureText string) *Airport {
	return &Airport{
		Id:               id,
		Name:             name,
		Position:         pos,
		rawProcedureText: rawProcedureText,
	}
}
