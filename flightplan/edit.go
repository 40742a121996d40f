package flightplan

import (
	"fmt"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

func directLeg(src, dst navdata.Waypoint) leg.Leg {
	return leg.Leg{
		Type:        leg.DF,
		Src:         src,
		Dst:         dst,
		Identifier:  dst.Id,
		Description: "DIRECT " + dst.Id,
	}
}

func (fp *FlightPlan) deepestArrivalSegment() *RouteSegment {
	for _, s := range []*RouteSegment{fp.apch, fp.apchTrans, fp.star, fp.starEnroute} {
		if s != nil {
			return s
		}
	}
	return lastOf(fp.enroute)
}

// indexWithinSegment returns legIdx's position within seg.Legs, relying
// on the write-back invariant that a segment's legs form a contiguous
// run in fp.legs.
func (fp *FlightPlan) indexWithinSegment(seg *RouteSegment, legIdx int) int {
	start := legIdx
	for start > 0 && fp.legs[start-1].SegmentID == seg.ID {
		start--
	}
	return legIdx - start
}

// procedureNeighbors returns the destination of the leg preceding idx
// within seg (or, at seg's start, seg's own first leg's source) and the
// source of the leg at idx (or, at seg's end, the destination of seg's
// last leg) — the prev_dst/next_src spec.md §4.E.2 splices a new direct
// between.
func (fp *FlightPlan) procedureNeighbors(seg *RouteSegment, idx int) (navdata.Waypoint, navdata.Waypoint) {
	var prevDst, nextSrc navdata.Waypoint
	if idx > 0 {
		if ep, ok := seg.Legs[idx-1].EndPoint(); ok {
			prevDst = navdata.Waypoint{Id: seg.Legs[idx-1].Dst.Id, Position: ep}
		}
	} else if len(seg.Legs) > 0 {
		prevDst = seg.Legs[0].Src
	}
	if idx < len(seg.Legs) {
		nextSrc = seg.Legs[idx].Src
	} else if len(seg.Legs) > 0 {
		if ep, ok := seg.Legs[len(seg.Legs)-1].EndPoint(); ok {
			nextSrc = navdata.Waypoint{Id: seg.Legs[len(seg.Legs)-1].Dst.Id, Position: ep}
		}
	}
	return prevDst, nextSrc
}

// enrouteInsertIndex returns the index into fp.enroute where an edit
// anchored at cursorLeg should operate: the enroute segment containing
// cursorLeg, or one past it when insertAfter.
func (fp *FlightPlan) enrouteInsertIndex(cursorLeg int, insertAfter bool) int {
	segID := fp.legs[cursorLeg].SegmentID
	for i, s := range fp.enroute {
		if s.ID == segID {
			if insertAfter {
				return i + 1
			}
			return i
		}
	}
	return len(fp.enroute)
}

// InsertDirect implements spec.md §4.E.2's insert_direct. Airways are
// split first so no edit can mid-break one. Then, depending on
// cursorLeg's position: a negative cursor appends a new direct-to at the
// end of the enroute list; a cursor on the plan's terminal arrival leg
// appends to the deepest populated arrival segment; a cursor inside a
// procedure segment splices a new direct leg into that segment's own leg
// list; otherwise a new direct segment is inserted at the matching
// enroute position.
func (fp *FlightPlan) InsertDirect(wpt navdata.Waypoint, cursorLeg int, insertAfter bool) error {
	fp.SplitAirways()
	n := len(fp.legs)

	switch {
	case cursorLeg < 0:
		src := fp.deepestEndpoint(lastOf(fp.enroute), fp.depSIDEnroute, fp.depSID)
		var s navdata.Waypoint
		if src != nil {
			s = *src
		}
		fp.enroute = append(fp.enroute, fp.newSegment(SegmentDirect, wpt.Id, []leg.Leg{directLeg(s, wpt)}))

	case fp.arrLast != nil && cursorLeg == n-1 && fp.legs[cursorLeg].SegmentID == fp.arrLast.ID:
		target := fp.deepestArrivalSegment()
		if target == nil {
			src := fp.deepestEndpoint(lastOf(fp.enroute), fp.depSIDEnroute, fp.depSID)
			var s navdata.Waypoint
			if src != nil {
				s = *src
			}
			fp.enroute = append(fp.enroute, fp.newSegment(SegmentDirect, wpt.Id, []leg.Leg{directLeg(s, wpt)}))
		} else {
			var s navdata.Waypoint
			if ep := segmentEndpoint(target); ep != nil {
				s = *ep
			}
			target.Legs = append(target.Legs, directLeg(s, wpt))
			target.retag()
		}

	default:
		if cursorLeg < 0 || cursorLeg >= n {
			return fmt.Errorf("flightplan: insert_direct: cursor out of range: %w", ErrInvalidInput)
		}
		seg := fp.segmentByID(fp.legs[cursorLeg].SegmentID)
		if seg != nil && seg.Kind == SegmentProcedure {
			idx := fp.indexWithinSegment(seg, cursorLeg)
			at := idx
			if insertAfter {
				at = idx + 1
			}
			prevDst, _ := fp.procedureNeighbors(seg, at)
			newLeg := directLeg(prevDst, wpt)
			seg.Legs = append(seg.Legs[:at:at], append([]leg.Leg{newLeg}, seg.Legs[at:]...)...)
			seg.retag()
		} else {
			at := fp.enrouteInsertIndex(cursorLeg, insertAfter)
			var src navdata.Waypoint
			if at > 0 && at-1 < len(fp.enroute) {
				if ep := segmentEndpoint(fp.enroute[at-1]); ep != nil {
					src = *ep
				}
			}
			newSeg := fp.newSegment(SegmentDirect, wpt.Id, []leg.Leg{directLeg(src, wpt)})
			fp.enroute = append(fp.enroute[:at:at], append([]*RouteSegment{newSeg}, fp.enroute[at:]...)...)
		}
	}

	return fp.routeLegUpdate()
}

// walkAirway resolves the one-hop-at-a-time leg sequence from src to dst
// along awy via the database's airway traversal.
func (fp *FlightPlan) walkAirway(src, dst navdata.Waypoint, awy string) ([]leg.Leg, error) {
	var legs []leg.Leg
	cur := src
	for i := 0; i < 500; i++ {
		next, al, ok := fp.db.GetWpt4Awy(&cur, "", awy)
		if !ok {
			return nil, fmt.Errorf("flightplan: airway %s: no leg from %s: %w", awy, cur.Id, ErrNotFound)
		}
		legs = append(legs, leg.Leg{
			Type:            leg.TF,
			Src:             cur,
			Dst:             *next,
			Identifier:      next.Id,
			Description:     "ON " + awy,
			SourceAirwayLeg: al,
		})
		if next.SameFix(dst) {
			return legs, nil
		}
		cur = *next
	}
	return nil, fmt.Errorf("flightplan: airway %s: did not reach %s: %w", awy, dst.Id, ErrNotFound)
}

// InsertAirway implements spec.md §4.E.2's insert_airway: splits
// airways, locates the enroute segment containing cursorLeg, and inserts
// a new single-segment airway run immediately after it. On any failure
// no partial segment is kept and routeLegUpdate is re-run so the plan is
// left consistent; the airway split done first is not undone.
func (fp *FlightPlan) InsertAirway(src, dst navdata.Waypoint, awy string, cursorLeg int) error {
	fp.SplitAirways()

	legs, err := fp.walkAirway(src, dst, awy)
	if err != nil {
		fp.routeLegUpdate()
		return err
	}
	seg := fp.newSegment(SegmentAirway, awy+" "+dst.Id, legs)

	at := len(fp.enroute)
	if cursorLeg >= 0 && cursorLeg < len(fp.legs) {
		at = fp.enrouteInsertIndex(cursorLeg, true)
	}
	fp.enroute = append(fp.enroute[:at:at], append([]*RouteSegment{seg}, fp.enroute[at:]...)...)

	return fp.routeLegUpdate()
}

// RemoveLeg implements spec.md §4.E.2's remove_leg: splits airways,
// removes the leg at cursorLeg from its owning segment, then collapses
// the segment out of its plan slot if that leaves it empty.
func (fp *FlightPlan) RemoveLeg(cursorLeg int) error {
	fp.SplitAirways()

	if cursorLeg < 0 || cursorLeg >= len(fp.legs) {
		return fmt.Errorf("flightplan: remove_leg: cursor out of range: %w", ErrInvalidInput)
	}
	seg := fp.segmentByID(fp.legs[cursorLeg].SegmentID)
	if seg == nil {
		return fmt.Errorf("flightplan: remove_leg: leg belongs to no segment: %w", ErrInvalidInput)
	}
	idx := fp.indexWithinSegment(seg, cursorLeg)
	seg.Legs = append(seg.Legs[:idx], seg.Legs[idx+1:]...)
	seg.retag()

	if len(seg.Legs) == 0 {
		fp.clearSegmentSlot(seg)
	}

	return fp.routeLegUpdate()
}

// TrimBoundaryDirect drops a single-leg direct segment sitting at the
// start (fromStart) or end of the enroute list if it terminates at pos,
// reporting whether it removed one. It operates on fp.enroute directly
// rather than through RemoveLeg so a caller (icaoroute's boundary-direct
// post-pass) can drop a redundant direct to the departure/arrival
// waypoint before SetDeparture/SetArrival's own rolling-src and
// arrival-tail reconciliation would otherwise just rebuild an equivalent
// one in its place.
func (fp *FlightPlan) TrimBoundaryDirect(pos geo.Point, fromStart bool) bool {
	if len(fp.enroute) == 0 {
		return false
	}
	idx := 0
	if !fromStart {
		idx = len(fp.enroute) - 1
	}
	s := fp.enroute[idx]
	if s.Kind != SegmentDirect || len(s.Legs) != 1 {
		return false
	}
	ep, ok := s.Legs[0].EndPoint()
	if !ok || ep != pos {
		return false
	}
	fp.enroute = append(fp.enroute[:idx:idx], fp.enroute[idx+1:]...)
	fp.routeLegUpdate()
	return true
}

func (fp *FlightPlan) clearSegmentSlot(seg *RouteSegment) {
	switch seg {
	case fp.depSID:
		fp.depSID = nil
	case fp.depSIDEnroute:
		fp.depSIDEnroute = nil
	case fp.starEnroute:
		fp.starEnroute = nil
	case fp.star:
		fp.star = nil
	case fp.apchTrans:
		fp.apchTrans = nil
	case fp.apch:
		fp.apch = nil
	case fp.arrLast:
		fp.arrLast = nil
	default:
		for i, s := range fp.enroute {
			if s == seg {
				fp.enroute = append(fp.enroute[:i], fp.enroute[i+1:]...)
				return
			}
		}
	}
}
