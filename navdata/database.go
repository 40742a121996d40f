package navdata

import (
	"fmt"
	"sort"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/navlog"
)

// ErrNotFound is returned when a lookup by identifier finds no match at
// or after the given index.
var ErrNotFound = fmt.Errorf("navdata: not found")

// ErrAlreadyInitialized is returned by InitAirport on an airport that has
// already run its lazy procedure-preamble parse; callers may ignore it,
// since InitAirport is meant to be idempotent.
var ErrAlreadyInitialized = fmt.Errorf("navdata: airport already initialized")

// Database is the façade the procedure interpreter and flight-plan
// assembler query. Lookups that can have multiple matches (duplicate
// identifiers across regions/kinds) take an `after` index and return the
// index of the match found, so a caller can resume the search from there
// — this replaces spec.md §4.B's C-style &idx output parameter with an
// idiomatic (result, nextIndex, ok) tuple.
type Database interface {
	GetAirport(id string) (*Airport, bool)
	InitAirport(id string) (*Airport, error)

	GetAirway(id string, after int) (*Airway, int, bool)
	GetWaypoint(id string, after int) (*Waypoint, int, bool)
	GetWptNear2(id string, near geo.Point) (*Waypoint, int, bool)
	GetWpt4Pos(id string, pos geo.Point) (*Waypoint, int, bool)

	// GetWpt4Awy resolves the waypoint one leg away from src along awyId;
	// a non-empty dstId accepts only a neighbor with that identifier (empty
	// dstId means "any next leg").
	GetWpt4Awy(src *Waypoint, dstId, awyId string) (dst *Waypoint, leg *AirwayLeg, ok bool)

	AddWaypoint(wp *Waypoint)
}

// MemDatabase is an in-memory Database built directly from Add* calls; it
// does not parse any on-disk navdatabase file, per spec.md §1's scope
// boundary — a caller (or a test) populates it directly.
type MemDatabase struct {
	log *navlog.Logger

	airports map[string]*Airport
	airways  map[string][]*Airway // multiple same-named airway fragments can coexist
	fixes    []*Waypoint          // sorted by Id for binary search + sequential iteration
	wmm      WorldMagneticModel
}

// NewMemDatabase creates an empty database. A nil logger defaults to
// navlog.Default(); a nil wmm defaults to NewSimpleWMM().
func NewMemDatabase(log *navlog.Logger, wmm WorldMagneticModel) *MemDatabase {
	if log == nil {
		log = navlog.Default()
	}
	if wmm == nil {
		wmm = NewSimpleWMM()
	}
	return &MemDatabase{
		log:      log,
		airports: make(map[string]*Airport),
		airways:  make(map[string][]*Airway),
		wmm:      wmm,
	}
}

func (db *MemDatabase) AddAirport(a *Airport) { db.airports[a.Id] = a }

func (db *MemDatabase) AddAirway(a *Airway) {
	db.airways[a.Name] = append(db.airways[a.Name], a)
}

// AddWaypoint inserts wp keeping db.fixes sorted by Id, then by the
// kind-priority order §4.B specifies for same-Id disambiguation (FIX,
// then APT/XPA, then VOR, NDB, DME, everything else).
func (db *MemDatabase) AddWaypoint(wp *Waypoint) {
	i := sort.Search(len(db.fixes), func(i int) bool {
		if db.fixes[i].Id != wp.Id {
			return db.fixes[i].Id >= wp.Id
		}
		return kindSortPriority(db.fixes[i].Kind) >= kindSortPriority(wp.Kind)
	})
	db.fixes = append(db.fixes, nil)
	copy(db.fixes[i+1:], db.fixes[i:])
	db.fixes[i] = wp
}

func (db *MemDatabase) GetAirport(id string) (*Airport, bool) {
	a, ok := db.airports[id]
	return a, ok
}

// InitAirport performs the lazy, idempotent procedure-preamble parse
// spec.md §3/§9 describes: on first call it splits the airport's staged
// raw procedure text into per-procedure headers (see procedure.go) and
// recomputes each runway's magnetic heading from threshold geodesy plus
// the world magnetic model; subsequent calls are no-ops returning
// ErrAlreadyInitialized.
func (db *MemDatabase) InitAirport(id string) (*Airport, error) {
	a, ok := db.airports[id]
	if !ok {
		return nil, fmt.Errorf("navdata: InitAirport %q: %w", id, ErrNotFound)
	}
	if a.initialized {
		return a, ErrAlreadyInitialized
	}

	for _, r := range a.Runways {
		recip, ok := ReciprocalId(r.Id)
		if !ok {
			continue
		}
		if other, ok := a.RunwayByID(recip); ok {
			hdg := geo.TrueBearing(r.Threshold, other.Threshold)
			r.Heading = db.wmm.TrueToMagnetic(hdg, r.Threshold)
		}
	}

	if err := parseProcedurePreamble(a, db.log); err != nil {
		return a, fmt.Errorf("navdata: InitAirport %q: %w", id, err)
	}
	a.initialized = true
	return a, nil
}

func (db *MemDatabase) GetAirway(id string, after int) (*Airway, int, bool) {
	frags := db.airways[id]
	if after >= len(frags) {
		return nil, after, false
	}
	return frags[after], after + 1, true
}

func (db *MemDatabase) GetWaypoint(id string, after int) (*Waypoint, int, bool) {
	start := sort.Search(len(db.fixes), func(i int) bool { return db.fixes[i].Id >= id })
	for i := start; i < len(db.fixes); i++ {
		if db.fixes[i].Id != id {
			break
		}
		if i >= after {
			return db.fixes[i], i + 1, true
		}
	}
	return nil, after, false
}

// GetWptNear2 returns the matching waypoint with Id closest to near,
// breaking distance ties using kind priority.
func (db *MemDatabase) GetWptNear2(id string, near geo.Point) (*Waypoint, int, bool) {
	start := sort.Search(len(db.fixes), func(i int) bool { return db.fixes[i].Id >= id })
	var best *Waypoint
	bestIdx := -1
	bestDist := 0.0
	for i := start; i < len(db.fixes); i++ {
		if db.fixes[i].Id != id {
			break
		}
		d := geo.Distance(db.fixes[i].Position, near)
		if best == nil || d < bestDist {
			best, bestIdx, bestDist = db.fixes[i], i, d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestIdx, true
}

// GetWpt4Pos returns the matching waypoint whose position exactly equals
// pos, per spec.md §3's exact-equality requirement for fixed-point
// positions.
func (db *MemDatabase) GetWpt4Pos(id string, pos geo.Point) (*Waypoint, int, bool) {
	start := sort.Search(len(db.fixes), func(i int) bool { return db.fixes[i].Id >= id })
	for i := start; i < len(db.fixes); i++ {
		if db.fixes[i].Id != id {
			break
		}
		if db.fixes[i].Position == pos {
			return db.fixes[i], i, true
		}
	}
	return nil, 0, false
}

// GetWpt4Awy steps one leg from src along the named airway, returning the
// neighboring waypoint and the leg traversed to reach it. If dstId is
// non-empty only a neighbor with that identifier matches; fixes further
// along the airway are not searched. Otherwise it returns the first
// neighbor found.
func (db *MemDatabase) GetWpt4Awy(src *Waypoint, dstId, awyId string) (*Waypoint, *AirwayLeg, bool) {
	for _, frag := range db.airways[awyId] {
		for i := range frag.Legs {
			leg := &frag.Legs[i]
			if leg.InId != src.Id || leg.InPos != src.Position {
				continue
			}
			if leg.Direction == AirwayDirectionBackward {
				continue
			}
			dst, ok := db.resolveEndpoint(leg.OutId, leg.OutPos)
			if !ok {
				continue
			}
			if dstId == "" || dst.Id == dstId {
				return dst, leg, true
			}
		}
		for i := range frag.Legs {
			leg := &frag.Legs[i]
			if leg.OutId != src.Id || leg.OutPos != src.Position {
				continue
			}
			if leg.Direction == AirwayDirectionForward {
				continue
			}
			dst, ok := db.resolveEndpoint(leg.InId, leg.InPos)
			if !ok {
				continue
			}
			if dstId == "" || dst.Id == dstId {
				return dst, leg, true
			}
		}
	}
	return nil, nil, false
}

func (db *MemDatabase) resolveEndpoint(id string, pos geo.Point) (*Waypoint, bool) {
	for idx := 0; ; {
		wp, next, ok := db.GetWaypoint(id, idx)
		if !ok {
			return nil, false
		}
		if wp.Position == pos {
			return wp, true
		}
		idx = next
	}
}
