package flightplan

import (
	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/interp"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// routeLegUpdate is the assembler's fixed point, spec.md §4.E.4: rebuild
// flp.legs from the current segments in order, resolve overlaps, enforce
// endpoint consistency, reconcile the terminal arrival segment, and
// replay xpfms synthesis. It is total and idempotent — a synthesis
// failure is logged and downgraded rather than propagated, so a plan is
// never left half-updated.
func (fp *FlightPlan) routeLegUpdate() error {
	var legs []leg.Leg
	appendSeg := func(s *RouteSegment) {
		if s != nil {
			legs = append(legs, s.Legs...)
		}
	}
	appendSeg(fp.depSID)
	appendSeg(fp.depSIDEnroute)
	for _, s := range fp.enroute {
		appendSeg(s)
	}
	appendSeg(fp.starEnroute)
	appendSeg(fp.star)
	appendSeg(fp.apchTrans)
	appendSeg(fp.apch)

	segByID := map[int]*RouteSegment{}
	for _, s := range fp.allSegments() {
		if s != nil {
			segByID[s.ID] = s
		}
	}

	legs = resolveOverlaps(legs)
	legs = fp.enforceEndpointConsistency(legs, fp.rollingStartSrc(), segByID)
	legs = fp.reconcileArrivalTail(legs)

	arrivalIDs := map[int]bool{}
	for _, s := range []*RouteSegment{fp.starEnroute, fp.star, fp.apchTrans, fp.apch, fp.arrLast} {
		if s != nil {
			arrivalIDs[s.ID] = true
		}
	}
	finalIDs := map[int]bool{}
	for _, s := range []*RouteSegment{fp.apchTrans, fp.apch} {
		if s != nil {
			finalIDs[s.ID] = true
		}
	}
	todSegID := 0
	switch {
	case fp.starEnroute != nil && len(fp.starEnroute.Legs) > 0:
		todSegID = fp.starEnroute.ID
	case fp.star != nil && len(fp.star.Legs) > 0:
		todSegID = fp.star.ID
	}
	fp.synthesizeAltitudeProfile(legs, arrivalIDs, finalIDs, todSegID)

	fp.legs = legs
	fp.writeBackSegments()
	return nil
}

func (fp *FlightPlan) rollingStartSrc() navdata.Waypoint {
	if fp.depRwy != nil {
		return fp.depRwy.Waypoint()
	}
	if fp.depApt != nil {
		return fp.depApt.Waypoint()
	}
	return navdata.Waypoint{}
}

// resolveOverlaps implements spec.md §4.E.4's overlap-resolution pass:
// whenever a later leg re-enters at a point an earlier leg already
// reached (the later leg is an IF, or carries an IAF constraint), the
// earlier leg and every leg between the two are dropped, and the later leg
// is kept. The inner scan aborts at a
// manual discontinuity, so unrelated legs on the far side of a break
// never get swept up.
func resolveOverlaps(legs []leg.Leg) []leg.Leg {
	i := 0
	for i < len(legs) {
		matched := -1
		for j := i + 1; j < len(legs); j++ {
			if legs[j].Type == leg.ZZ {
				break
			}
			endI, okI := legs[i].EndPoint()
			endJ, okJ := legs[j].EndPoint()
			if okI && okJ && endI == endJ &&
				(legs[j].Type == leg.IF || legs[j].Restriction.Waypoint == leg.WaypointConstraintIAF) {
				matched = j
				break
			}
		}
		if matched >= 0 {
			legs = append(legs[:i:i], legs[matched:]...)
			continue
		}
		i++
	}
	return legs
}

// enforceEndpointConsistency implements spec.md §4.E.4's endpoint-
// consistency pass: drops an IF that immediately follows a CI/PI/VI (the
// LSZH-I16 pattern, since there's no course to intercept against once
// the entry fix is already behind it), downgrades a single-leg airway
// segment to a direct once its recorded source no longer matches the
// rolling source, overwrites every leg's Src with the rolling source, and
// recomputes distance/bearings for fix-terminated legs that carry no
// dummies yet.
func (fp *FlightPlan) enforceEndpointConsistency(legs []leg.Leg, rollingSrc navdata.Waypoint, segByID map[int]*RouteSegment) []leg.Leg {
	out := make([]leg.Leg, 0, len(legs))
	src := rollingSrc
	for i := 0; i < len(legs); i++ {
		l := legs[i]

		if l.Type == leg.IF && i > 0 {
			switch legs[i-1].Type {
			case leg.CI, leg.PI, leg.VI:
				continue
			}
		}

		if l.Type == leg.ZZ {
			out = append(out, l)
			continue
		}

		if seg := segByID[l.SegmentID]; seg != nil && seg.Kind == SegmentAirway && len(seg.Legs) == 1 {
			if l.SourceAirwayLeg != nil && !l.Src.SameFix(src) {
				seg.Kind = SegmentDirect
				l.SourceAirwayLeg = nil
				l.Description = "DIRECT " + l.Dst.Id
			}
		}

		l.Src = src
		if ep, ok := l.EndPoint(); ok {
			if len(l.Xpfms) == 0 {
				l.Distance = navdata.NM(geo.Distance(src.Position, ep))
				l.TrueBearing = geo.TrueBearing(src.Position, ep)
				l.InboundMagBearing = fp.wmm.TrueToMagnetic(l.TrueBearing, ep)
				l.OutboundMagBearing = fp.wmm.TrueToMagnetic(l.TrueBearing, src.Position)
			}
			src = navdata.Waypoint{Id: l.Dst.Id, Position: ep, Kind: l.Dst.Kind}
		}
		out = append(out, l)
	}
	return out
}

// reconcileArrivalTail implements spec.md §4.E.4's terminal-segment
// reconciliation: once an arrival airport is set, the plan's last leg
// must be a direct from wherever the route currently ends to the arrival
// runway (if known) or airport waypoint.
func (fp *FlightPlan) reconcileArrivalTail(legs []leg.Leg) []leg.Leg {
	if fp.arrApt == nil {
		fp.arrLast = nil
		return legs
	}
	dst := fp.arrApt.Waypoint()
	if fp.arrRwy != nil {
		dst = fp.arrRwy.Waypoint()
	}

	var src navdata.Waypoint
	if n := len(legs); n > 0 {
		if ep, ok := legs[n-1].EndPoint(); ok {
			src = navdata.Waypoint{Id: legs[n-1].Dst.Id, Position: ep, Kind: legs[n-1].Dst.Kind}
		}
	} else if fp.depRwy != nil {
		src = fp.depRwy.Waypoint()
	} else if fp.depApt != nil {
		src = fp.depApt.Waypoint()
	}

	if src.Position == dst.Position {
		fp.arrLast = nil
		return legs
	}

	tail := leg.Leg{
		Type:        leg.DF,
		Src:         src,
		Dst:         dst,
		Identifier:  dst.Id,
		Description: "DIRECT " + dst.Id,
	}
	seg := fp.arrLast
	if seg == nil {
		seg = fp.newSegment(SegmentDirect, dst.Id, nil)
		fp.arrLast = seg
	}
	seg.Identifier = dst.Id
	seg.Legs = []leg.Leg{tail}
	seg.retag()
	return append(legs, seg.Legs[0])
}

// synthesizeAltitudeProfile replays interp's xpfms dummy-waypoint and
// altitude-advancement synthesis over every leg in order, threading the
// predicted-altitude scalar from the departure runway's threshold
// elevation through to the last leg, per spec.md §4.D.3/§4.E.4. Airports
// carry no elevation of their own, so without a departure runway the
// scalar starts at zero. A synthesis failure
// (typically an ambiguous intercept) is logged, per spec.md §7, and the
// leg is left to fly direct rather than aborting the rebuild. todSegID, if
// nonzero, names the segment whose first leg is the pseudo top-of-descent:
// the running altitude is pulled up to cruise there before synthesis runs,
// so the descent ratio (not whatever the climb profile left behind) drives
// every leg from that point on. finalIDs marks the FINAL/APPTR segments
// (the approach and its transition) that applyRNAVFAFAltitudes scans for
// the FAF.
func (fp *FlightPlan) synthesizeAltitudeProfile(legs []leg.Leg, arrivalIDs, finalIDs map[int]bool, todSegID int) {
	ctx := &interp.Context{WMM: fp.wmm, CruiseAlt: fp.CruiseAltitude}

	alt := navdata.FeetAlt(0)
	if fp.depRwy != nil {
		alt = fp.depRwy.ThresholdElevation
	}

	todSeeded := todSegID == 0
	firstLeg := true
	for i := range legs {
		if legs[i].Type == leg.ZZ {
			continue
		}
		l := &legs[i]
		var next *leg.Leg
		if i+1 < len(legs) && legs[i+1].Type != leg.ZZ {
			next = &legs[i+1]
		}

		var rwyLen navdata.Distance
		if firstLeg && fp.depRwy != nil {
			rwyLen = fp.depRwy.Length
		}
		firstLeg = false

		if !todSeeded && l.SegmentID == todSegID {
			if alt < fp.CruiseAltitude {
				alt = fp.CruiseAltitude
			}
			todSeeded = true
		}

		arrivalSeg := arrivalIDs[l.SegmentID]
		if err := ctx.Synthesize(l.Src, l, next, &alt, rwyLen, arrivalSeg); err != nil {
			fp.log.Warnf("%s %.0f, intersection(s) ambiguous", l.Src.Id, l.Course)
		}
		l.PredictedAltitude = alt
	}

	fp.applyRNAVFAFAltitudes(legs, finalIDs)
}

// applyRNAVFAFAltitudes implements spec.md §4.D.3's RNAV-FAF mode: once an
// arrival runway is set and the approach type is RNAV-family (GLS/RNAV/
// GPS/FMS), every fix from the FAF to the runway threshold gets its
// predicted altitude overwritten by linear interpolation — by cumulative
// distance, not leg count — between the FAF's already-computed altitude
// and the threshold elevation, rather than the ordinary climb/descent-
// ratio profile.
func (fp *FlightPlan) applyRNAVFAFAltitudes(legs []leg.Leg, finalIDs map[int]bool) {
	if fp.arrRwy == nil {
		return
	}
	apchType, ok := fp.ArrivalApproachType()
	if !ok || !apchType.IsRNAVFamily() {
		return
	}

	fafIdx := -1
	for i := range legs {
		if finalIDs[legs[i].SegmentID] && legs[i].Restriction.Waypoint == leg.WaypointConstraintFAF {
			fafIdx = i
			break
		}
	}
	if fafIdx < 0 {
		return
	}
	fafPos, ok := legs[fafIdx].EndPoint()
	if !ok {
		return
	}

	lastIdx := fafIdx
	for i := fafIdx + 1; i < len(legs); i++ {
		if legs[i].Type == leg.ZZ {
			break
		}
		lastIdx = i
	}
	if lastIdx <= fafIdx {
		return
	}

	cum := make([]float64, lastIdx-fafIdx+1)
	prevPos := fafPos
	total := 0.0
	for i := fafIdx + 1; i <= lastIdx; i++ {
		ep, ok := legs[i].EndPoint()
		if !ok {
			continue
		}
		total += geo.Distance(prevPos, ep)
		cum[i-fafIdx] = total
		prevPos = ep
	}
	if total <= 0 {
		return
	}

	fafAlt := legs[fafIdx].PredictedAltitude
	threshAlt := fp.arrRwy.ThresholdElevation
	for i := fafIdx + 1; i <= lastIdx; i++ {
		frac := cum[i-fafIdx] / total
		legs[i].PredictedAltitude = fafAlt - navdata.Altitude(float64(fafAlt-threshAlt)*frac)
	}
}

// writeBackSegments partitions the recompiled fp.legs back into their
// originating segments by SegmentID, so each RouteSegment reflects the
// post-update src/bearing/xpfms/altitude values. This is safe to repeat:
// Synthesize resets and rebuilds each leg's dummy list deterministically,
// so running routeLegUpdate again over unchanged segments reproduces the
// same fp.legs.
func (fp *FlightPlan) writeBackSegments() {
	bySeg := map[int][]leg.Leg{}
	for _, l := range fp.legs {
		if l.SegmentID == 0 {
			continue
		}
		bySeg[l.SegmentID] = append(bySeg[l.SegmentID], l)
	}
	for _, s := range fp.allSegments() {
		if s == nil {
			continue
		}
		if legs, ok := bySeg[s.ID]; ok {
			s.Legs = legs
		}
	}
}
