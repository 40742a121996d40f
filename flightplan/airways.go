package flightplan

import "github.com/skynav/navdconv/leg"

// SplitAirways implements spec.md §4.E.3's split_airways: every enroute
// airway segment with more than one leg is replaced by one single-leg
// airway segment per leg, preserving the leg values (callers may be
// holding a cursor into one of them). Required before any leg-list
// mutation that could otherwise leave an airway mid-broken.
func (fp *FlightPlan) SplitAirways() {
	var out []*RouteSegment
	for _, s := range fp.enroute {
		if s.Kind != SegmentAirway || len(s.Legs) <= 1 {
			out = append(out, s)
			continue
		}
		awyID := airwayNameOf(s.Identifier)
		for _, l := range s.Legs {
			out = append(out, fp.newSegment(SegmentAirway, awyID+" "+l.Dst.Id, []leg.Leg{l}))
		}
	}
	fp.enroute = out
}

// ConsolidateAirways implements spec.md §4.E.3's consolidate_airways —
// resolved per DESIGN.md's Open Question (a) as "implement it": coalesce
// consecutive single-leg airway segments sharing the same airway name
// back into one multi-leg segment, except across a run where a leg's src
// no longer matches the previous leg's dst (a de-facto direct must stay
// broken out rather than being silently folded back in).
func (fp *FlightPlan) ConsolidateAirways() {
	var out []*RouteSegment
	for _, s := range fp.enroute {
		if s.Kind != SegmentAirway || len(s.Legs) != 1 {
			out = append(out, s)
			continue
		}
		awyID := airwayNameOf(s.Identifier)
		if prev := lastOf(out); prev != nil && prev.Kind == SegmentAirway && airwayNameOf(prev.Identifier) == awyID {
			prevLast := prev.Legs[len(prev.Legs)-1]
			cur := s.Legs[0]
			if sameContinuity(prevLast, cur) {
				prev.Legs = append(prev.Legs, cur)
				prev.Identifier = awyID + " " + cur.Dst.Id
				prev.retag()
				continue
			}
		}
		out = append(out, s)
	}
	fp.enroute = out
}

func sameContinuity(prev, cur leg.Leg) bool {
	ep, ok := prev.EndPoint()
	return ok && cur.Src.Position == ep
}

func airwayNameOf(identifier string) string {
	for i, c := range identifier {
		if c == ' ' {
			return identifier[:i]
		}
	}
	return identifier
}
