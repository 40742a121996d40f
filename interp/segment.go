package interp

import (
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// SegmentResult is what SegmentProced produces: the leg list to install
// into a procedure route segment, the (possibly nil) effective source
// waypoint for that segment, and any restriction skipped off the
// procedure's own entry legs that the caller must merge into whatever
// leg now precedes this segment (spec.md §4.D.2's "constraints"
// out-parameter).
type SegmentResult struct {
	Legs              []leg.Leg
	Source            *navdata.Waypoint
	SkippedConstraint *leg.Restriction
}

// SegmentProced stitches a procedure's decoded legs into a route segment
// beginning from src (nil if no useful entry fix is known), per spec.md
// §4.D.2. procLegs are the procedure's own decoded common-route legs;
// starPrefixLegs are the decoded legs of proc.Transitions's built-in
// common-route prefix, used only for STAR3/STAR6/STAR9 when present.
func SegmentProced(src *navdata.Waypoint, proc *navdata.Procedure, procLegs, starPrefixLegs []leg.Leg) (SegmentResult, error) {
	switch {
	case proc.Type == navdata.SID1 || proc.Type == navdata.SID4:
		return segmentRunwaySID(src, procLegs), nil
	case proc.Type == navdata.SID2 || proc.Type == navdata.SID5:
		return segmentRunwayAgnosticSID(procLegs), nil
	default:
		return segmentGeneral(src, proc, procLegs, starPrefixLegs)
	}
}

// segmentRunwaySID appends the copied legs after a discontinuity when no
// runway (src) is chosen; SID_1/SID_4 always carry their own runway
// transition legs first in procLegs, per spec.md §4.D.2.
func segmentRunwaySID(src *navdata.Waypoint, procLegs []leg.Leg) SegmentResult {
	out := copyLegs(procLegs, src)
	if src == nil {
		out = prependDiscontinuity(out)
	}
	return SegmentResult{Legs: out, Source: src}
}

func segmentRunwayAgnosticSID(procLegs []leg.Leg) SegmentResult {
	out := prependDiscontinuity(copyLegs(procLegs, nil))
	return SegmentResult{Legs: out, Source: nil}
}

// segmentGeneral implements the STAR/approach/transition entry logic.
func segmentGeneral(src *navdata.Waypoint, proc *navdata.Procedure, procLegs, starPrefixLegs []leg.Leg) (SegmentResult, error) {
	pool := procLegs
	if proc.Type.IsBuiltinPrefixed() && len(starPrefixLegs) > 0 {
		pool = append(append([]leg.Leg(nil), starPrefixLegs...), procLegs...)
	}
	if len(pool) == 0 {
		return SegmentResult{Source: src}, nil
	}

	startIdx := 0
	var skipped *leg.Restriction
	effectiveSrc := src

	first := pool[0]
	switch {
	case src != nil && first.Type == leg.IF && sameWaypoint(first.Dst, *src):
		startIdx = 0

	case src != nil && sameWaypoint(first.Dst, *src) && isEntryCandidate(first.Type):
		startIdx = 1
		r := first.Restriction
		skipped = &r

	default:
		idx, r := findEntryLeg(pool, src)
		if idx >= 0 {
			startIdx = idx + 1
			skipped = r
		} else {
			if src != nil {
				effectiveSrc = nil
			}
			var prefix []leg.Leg
			if effectiveSrc == nil && len(pool) > 0 && pool[0].Dst.Id != "" {
				prefix = append(prefix, syntheticDirect(pool[0].Dst))
			}
			legs := copyLegs(pool[startIdx:], effectiveSrc)
			legs = append(prefix, legs...)
			if src != nil {
				legs = prependDiscontinuity(legs)
			}
			return SegmentResult{Legs: legs, Source: effectiveSrc, SkippedConstraint: skipped}, nil
		}
	}

	legs := copyLegs(pool[startIdx:], effectiveSrc)
	return SegmentResult{Legs: legs, Source: effectiveSrc, SkippedConstraint: skipped}, nil
}

// isEntryCandidate reports whether t is one of the leg types whose
// destination may double as an alternate procedure-entry fix, per
// spec.md §4.D.2.
func isEntryCandidate(t leg.Type) bool {
	return t == leg.IF || t == leg.CF || t == leg.DF || t == leg.TF
}

// findEntryLeg scans for a leg of type IF, or whose waypoint constraint
// is IAF, whose destination equals src; it returns its index and
// restriction to export, or -1 if none found.
func findEntryLeg(pool []leg.Leg, src *navdata.Waypoint) (int, *leg.Restriction) {
	if src == nil {
		return -1, nil
	}
	for i, l := range pool {
		if l.Type == leg.IF || l.Restriction.Waypoint == leg.WaypointConstraintIAF {
			if sameWaypoint(l.Dst, *src) {
				r := l.Restriction
				return i, &r
			}
		}
	}
	return -1, nil
}

func sameWaypoint(a, b navdata.Waypoint) bool {
	return a.Position == b.Position && a.Id == b.Id
}

func prependDiscontinuity(legs []leg.Leg) []leg.Leg {
	return append([]leg.Leg{leg.Discontinuity()}, legs...)
}

func syntheticDirect(dst navdata.Waypoint) leg.Leg {
	return leg.Leg{
		Type:       leg.DF,
		Dst:        dst,
		Identifier: dst.Id,
		Description: "DIRECT " + dst.Id,
	}
}

// copyLegs clones each leg per spec.md §4.D.4 (see clone.go), additionally
// implementing the "skip a leading IF whose destination equals src" and
// "FM/VM append a trailing discontinuity" rules from the §4.D.2 copy
// loop.
func copyLegs(pool []leg.Leg, entrySrc *navdata.Waypoint) []leg.Leg {
	out := make([]leg.Leg, 0, len(pool)+1)
	for _, l := range pool {
		if l.Type == leg.IF && entrySrc != nil && sameWaypoint(l.Dst, *entrySrc) {
			continue
		}
		out = append(out, CloneLeg(l, entrySrc))
		if l.Type == leg.FM || l.Type == leg.VM {
			out = append(out, leg.Discontinuity())
		}
	}
	return out
}
