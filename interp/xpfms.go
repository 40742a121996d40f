package interp

import (
	"math"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// Context carries the collaborators xpfms synthesis needs: the world
// magnetic model (for magnetic<->true conversion) and the plan's cruise
// altitude, which bounds the climb profile.
type Context struct {
	WMM       navdata.WorldMagneticModel
	CruiseAlt navdata.Altitude
}

const metersPerNM = 1852.0

// Synthesize materializes leg.Xpfms for l (spec.md §4.D.3) and advances
// *alt along the leg's aggregated horizontal distance. legSrc is the
// position the leg starts from (the previous leg's destination, or the
// departure runway/airport for the first leg); runwayLengthFt is added to
// the climb-distance budget only when legSrc is a runway threshold and
// this is the first leg of a departure. next, if non-nil, is used for
// intercept and DF-helper synthesis.
func (c *Context) Synthesize(legSrc navdata.Waypoint, l *leg.Leg, next *leg.Leg, alt *navdata.Altitude, runwayLengthFt navdata.Distance, arrivalSegment bool) error {
	l.Xpfms = l.Xpfms[:0]

	switch l.Type {
	case leg.CA, leg.FA, leg.VA:
		c.synthAltitudeTerminator(legSrc, l, alt, runwayLengthFt)
	case leg.CD, leg.FD, leg.VD:
		if err := c.synthDMEIntersection(legSrc, l); err != nil {
			return err
		}
	case leg.CR, leg.VR:
		if err := c.synthRadialIntersection(legSrc, l); err != nil {
			return err
		}
	case leg.FC:
		c.synthPlaceBearingDistance(legSrc, l)
	case leg.AF:
		c.synthArc(legSrc, l)
	case leg.RF:
		c.synthRadiusArc(legSrc, l)
	case leg.PI:
		c.synthProcedureTurn(legSrc, l)
	case leg.CF, leg.DF, leg.IF, leg.TF, leg.CI, leg.VI:
		// no table dummies; intercept/DF-helper logic below may still add some
	case leg.HF, leg.HA, leg.HM, leg.FM, leg.VM, leg.ZZ:
		// none
	}

	if next != nil && l.Type != leg.ZZ {
		c.synthIntercept(legSrc, l, next)
	}
	if l.Type == leg.DF || (l.Type == leg.CF && next != nil && next.Type == leg.DF) {
		c.synthDFHelpers(legSrc, l, next)
	}

	// Course/radial/DME-terminated legs (CA, VA, CI, CD, CR, VI, VD, VR)
	// carry no Dst of their own; the last synthesized dummy becomes their
	// effective, determinate endpoint for downstream legs and altitude
	// advancement.
	if l.Dst.Id == "" && len(l.Xpfms) > 0 {
		l.Dst = l.Xpfms[len(l.Xpfms)-1]
	}

	c.advanceAltitude(legSrc, l, alt, runwayLengthFt, arrivalSegment)
	return nil
}

func (c *Context) trueCourse(magDeg float64, at geo.Point) float64 {
	return c.WMM.MagneticToTrue(magDeg, at)
}

// synthAltitudeTerminator implements the CA/FA/VA row: a single
// terminator placed along the leg's course/heading at a distance derived
// from the altitude change, using a 1:11 climb ratio (plus runway length
// if legSrc is a runway) and a 1:15 descent ratio.
func (c *Context) synthAltitudeTerminator(legSrc navdata.Waypoint, l *leg.Leg, alt *navdata.Altitude, runwayLengthFt navdata.Distance) {
	bearing := l.Course
	if l.Type == leg.VA {
		bearing = l.Heading
	}
	deltaFt := float64(l.Altitude) - float64(*alt)
	var horizontalFt float64
	if deltaFt >= 0 {
		horizontalFt = deltaFt*11 + runwayLengthFt.Feet()
	} else {
		horizontalFt = -deltaFt * 15
	}
	distNM := horizontalFt / navdata.NauticalMilesToFeet
	pos := geo.PlaceBearingDistance(legSrc.Position, c.trueCourse(bearing, legSrc.Position), distNM)
	l.Xpfms = append(l.Xpfms, navdata.Waypoint{Id: "TERM", Position: pos, Kind: navdata.KindTOC, Synthesized: true})
}

// synthDMEIntersection implements CD/FD/VD: intersect (src, bearing)
// with the circle of the leg's DME distance around RecFix.
func (c *Context) synthDMEIntersection(legSrc navdata.Waypoint, l *leg.Leg) error {
	if l.RecFix == nil {
		return nil
	}
	bearing := l.Course
	if l.Type == leg.VD {
		bearing = l.Heading
	}
	pos, err := geo.IntersectRadialCircle(legSrc.Position, c.trueCourse(bearing, legSrc.Position), l.RecFix.Position, l.Distance.NM())
	if err != nil {
		return err
	}
	l.Xpfms = append(l.Xpfms, navdata.Waypoint{Id: "DME", Position: pos, Kind: navdata.KindLLC, Synthesized: true})
	return nil
}

// synthRadialIntersection implements CR/VR: intersect (src, bearing)
// with the given navaid radial.
func (c *Context) synthRadialIntersection(legSrc navdata.Waypoint, l *leg.Leg) error {
	if l.RecFix == nil {
		return nil
	}
	bearing := l.Course
	if l.Type == leg.VR {
		bearing = l.Heading
	}
	pos, err := geo.IntersectRadials(legSrc.Position, c.trueCourse(bearing, legSrc.Position), l.RecFix.Position, c.trueCourse(l.Course, l.RecFix.Position))
	if err != nil {
		return err
	}
	l.Xpfms = append(l.Xpfms, navdata.Waypoint{Id: "RDL", Position: pos, Kind: navdata.KindLLC, Synthesized: true})
	return nil
}

// synthPlaceBearingDistance implements FC: a single PBD fix along course
// from the leg's source.
func (c *Context) synthPlaceBearingDistance(legSrc navdata.Waypoint, l *leg.Leg) {
	pos := geo.PlaceBearingDistance(legSrc.Position, c.trueCourse(l.Course, legSrc.Position), l.Distance.NM())
	l.Xpfms = append(l.Xpfms, navdata.Waypoint{Id: "PBD", Position: pos, Kind: navdata.KindPBD, Synthesized: true})
}

// synthArc implements AF: helper fixes spaced at most ~5 degrees apart
// around the DME arc centered on RecFix; the first helper is skipped if
// within 1 nmi of legSrc.
func (c *Context) synthArc(legSrc navdata.Waypoint, l *leg.Leg) {
	if l.RecFix == nil {
		return
	}
	startBrg := geo.TrueBearing(l.RecFix.Position, legSrc.Position)
	stopBrg := c.trueCourse(l.Course, l.RecFix.Position)
	l.Xpfms = append(l.Xpfms, arcHelpers(l.RecFix.Position, startBrg, stopBrg, l.Distance.NM(), legSrc.Position, true)...)
}

// synthRadiusArc implements RF: same as AF but the first helper (the leg
// source itself) is implicit and not emitted.
func (c *Context) synthRadiusArc(legSrc navdata.Waypoint, l *leg.Leg) {
	if l.RecFix == nil {
		return
	}
	startBrg := geo.TrueBearing(l.RecFix.Position, legSrc.Position)
	stopBrg := geo.TrueBearing(l.RecFix.Position, l.Dst.Position)
	l.Xpfms = append(l.Xpfms, arcHelpers(l.RecFix.Position, startBrg, stopBrg, l.Distance.NM(), legSrc.Position, false)...)
}

func arcHelpers(center geo.Point, startBrg, stopBrg, radiusNM float64, legSrcPos geo.Point, emitFirst bool) []navdata.Waypoint {
	sweep := geo.BearingAngle(startBrg, stopBrg)
	steps := int(math.Ceil(math.Abs(sweep) / 5))
	if steps < 1 {
		steps = 1
	}
	var out []navdata.Waypoint
	for i := 0; i <= steps; i++ {
		brg := geo.NormalizeBearing(startBrg + sweep*float64(i)/float64(steps))
		pos := geo.PlaceBearingDistance(center, brg, radiusNM)
		if i == 0 {
			if !emitFirst {
				continue
			}
			if geo.Distance(pos, legSrcPos) < 1 {
				continue
			}
		}
		out = append(out, navdata.Waypoint{Id: "ARC", Position: pos, Kind: navdata.KindLLC, Synthesized: true})
	}
	return out
}

// synthProcedureTurn implements PI: three helper fixes per spec.md
// §4.D.3, recomputing the leg's effective outbound course for the
// subsequent intercept from the last two helpers.
func (c *Context) synthProcedureTurn(legSrc navdata.Waypoint, l *leg.Leg) {
	outboundTrue := c.trueCourse(l.Course, l.Dst.Position)

	outDist := l.Distance.NM()
	if l.TurnLimitDistance > 0 && l.TurnLimitDistance.NM() < outDist {
		outDist = l.TurnLimitDistance.NM()
	}
	h1 := geo.PlaceBearingDistance(l.Dst.Position, outboundTrue, outDist)

	turnAngle := l.TurnAngle
	if turnAngle == 0 {
		turnAngle = 45.0 // no decoded turn angle; fall back to the default and take only the direction from the restriction
		if l.Restriction.Turn == leg.TurnLeft {
			turnAngle = -turnAngle
		}
	}
	h2Brg := geo.NormalizeBearing(outboundTrue + turnAngle)
	h2 := geo.PlaceBearingDistance(h1, h2Brg, 5000/metersPerNM)

	h3Brg := geo.NormalizeBearing(outboundTrue + turnAngle/2)
	h3 := geo.PlaceBearingDistance(h1, h3Brg, 5000/metersPerNM)

	l.Xpfms = append(l.Xpfms,
		navdata.Waypoint{Id: "PT1", Position: h1, Kind: navdata.KindLLC, Synthesized: true},
		navdata.Waypoint{Id: "PT2", Position: h2, Kind: navdata.KindLLC, Synthesized: true},
		navdata.Waypoint{Id: "PT3", Position: h3, Kind: navdata.KindLLC, Synthesized: true},
	)
	l.Course = c.WMM.TrueToMagnetic(geo.TrueBearing(h2, h3), h3)
}

// lastDummyOrDst returns the last synthesized fix's position, or the
// leg's own destination if it has none.
func lastDummyOrDst(l *leg.Leg) (navdata.Waypoint, bool) {
	if n := len(l.Xpfms); n > 0 {
		return l.Xpfms[n-1], true
	}
	if pos, ok := l.EndPoint(); ok {
		return navdata.Waypoint{Position: pos, Id: l.Dst.Id}, true
	}
	return navdata.Waypoint{}, false
}

// terminatingMagBearing returns the magnetic bearing a leg is flying on
// as it terminates, used as brg1 in intercept synthesis.
func terminatingMagBearing(l *leg.Leg) (float64, bool) {
	switch l.Type {
	case leg.CF, leg.CA, leg.CI, leg.CD, leg.CR, leg.FC, leg.AF, leg.RF:
		return l.Course, true
	case leg.VA, leg.VI, leg.VD, leg.VR:
		return l.Heading, true
	case leg.DF, leg.TF, leg.IF:
		return 0, false
	default:
		return 0, false
	}
}

// synthIntercept implements the intercept-synthesis rule: insert one
// dummy at the point where l's terminating course meets next's inbound
// course, unless the turn is negligible, the endpoints are already close,
// or the geometry is degenerate (in which case the force-intercept
// fallback is attempted).
func (c *Context) synthIntercept(legSrc navdata.Waypoint, l *leg.Leg, next *leg.Leg) {
	if !next.Type.IsCourseDefined() && next.Type != leg.CF {
		return
	}
	brg1, ok := terminatingMagBearing(l)
	if !ok {
		return
	}
	src1wp, ok := lastDummyOrDst(l)
	if !ok {
		return
	}
	src2, ok := next.EndPoint()
	if !ok {
		return
	}
	nextCourse, ok := terminatingMagBearing(next)
	if !ok {
		return
	}
	brg2True := geo.NormalizeBearing(c.trueCourse(nextCourse, src2) + 180)

	forcedIntercept := l.Type == leg.CI || l.Type == leg.PI || l.Type == leg.VI

	if geo.Distance(src1wp.Position, src2) < 3 && next.Type == leg.CF && !forcedIntercept {
		return
	}

	brg1True := c.trueCourse(brg1, src1wp.Position)
	pos, err := geo.IntersectRadials(src1wp.Position, brg1True, src2, brg2True)
	if err == nil {
		turnAngle := geo.BearingAngle(brg1, geo.TrueBearing(src1wp.Position, pos))
		if math.Abs(turnAngle) < 6 {
			return
		}
		if geo.Distance(src1wp.Position, pos) > 99 {
			err = geo.ErrAmbiguousIntersection
		}
	}
	if err != nil {
		pos, err = c.forceIntercept(src1wp.Position, brg1, brg2True, src2)
		if err != nil {
			if next.Type == leg.CF {
				return
			}
			return
		}
	}
	l.Xpfms = append(l.Xpfms, navdata.Waypoint{Id: "INTC", Position: pos, Kind: navdata.KindLLC, Synthesized: true})
}

// forceIntercept retries the radial intersection with brg1 replaced by a
// bearing 90 degrees from the intercept course, signed by the turn
// direction between brg1 and brg2.
func (c *Context) forceIntercept(src1 geo.Point, brg1Mag, brg2True float64, src2 geo.Point) (geo.Point, error) {
	sign := 1.0
	if geo.BearingAngle(brg1Mag, c.WMM.TrueToMagnetic(brg2True, src2)) < 0 {
		sign = -1.0
	}
	forced := geo.NormalizeBearing(brg2True + 90*sign)
	return geo.IntersectRadials(src1, forced, src2, brg2True)
}

// synthDFHelpers implements the DF turn-helper insertion rules.
func (c *Context) synthDFHelpers(legSrc navdata.Waypoint, l *leg.Leg, next *leg.Leg) {
	if next == nil {
		return
	}
	brg1, ok := terminatingMagBearing(l)
	if !ok {
		var hasIntc bool
		if len(l.Xpfms) > 0 {
			brg1 = geo.TrueBearing(legSrc.Position, l.Xpfms[len(l.Xpfms)-1].Position)
			hasIntc = true
		}
		if !hasIntc {
			return
		}
	}
	src1, ok := lastDummyOrDst(l)
	if !ok {
		return
	}
	nxtDst, ok := next.EndPoint()
	if !ok {
		return
	}

	turnSign := 1.0
	if l.Restriction.Turn == leg.TurnLeft {
		turnSign = -1.0
	}

	if geo.Distance(src1.Position, nxtDst) < 660/navdata.NauticalMilesToFeet || (next.Dst.Id != "" && src1.Id == next.Dst.Id) {
		h1 := geo.PlaceBearingDistance(next.Dst.Position, c.trueCourse(brg1, next.Dst.Position), 3000/metersPerNM)
		h2Brg := geo.NormalizeBearing(brg1 + 60*turnSign)
		h2 := geo.PlaceBearingDistance(next.Dst.Position, c.trueCourse(h2Brg, next.Dst.Position), 3000/metersPerNM)
		l.Xpfms = append(l.Xpfms,
			navdata.Waypoint{Id: "DF1", Position: h1, Kind: navdata.KindLLC, Synthesized: true},
			navdata.Waypoint{Id: "DF2", Position: h2, Kind: navdata.KindLLC, Synthesized: true},
		)
		return
	}

	if l.Overfly {
		return
	}
	directCourse := geo.TrueBearing(src1.Position, l.Dst.Position)
	turnAngle := geo.BearingAngle(brg1, directCourse)
	if l.Restriction.Turn == leg.TurnLeft || l.Restriction.Turn == leg.TurnRight {
		turnAngle = geo.AngleReverse(turnAngle)
	}
	abs := math.Abs(turnAngle)
	var offsets []float64
	switch {
	case abs > 270:
		offsets = []float64{90, 135, 180}
	case abs > 180:
		offsets = []float64{90, 135}
	case abs > 120:
		offsets = []float64{90}
	}
	sign := 1.0
	if turnAngle < 0 {
		sign = -1.0
	}
	for _, off := range offsets {
		brg := geo.NormalizeBearing(brg1 + off*sign)
		pos := geo.PlaceBearingDistance(src1.Position, c.trueCourse(brg, src1.Position), 3000/metersPerNM)
		l.Xpfms = append(l.Xpfms, navdata.Waypoint{Id: "DFH", Position: pos, Kind: navdata.KindLLC, Synthesized: true})
	}
}

// climbRatio returns the horizontal-feet-per-foot-of-climb ratio for the
// altitude bracket containing altFt, per spec.md §4.D.3's climb table.
func climbRatio(altFt navdata.Altitude) float64 {
	switch {
	case altFt <= 10000:
		return 10
	case altFt <= 20000:
		return 15
	case altFt <= 30000:
		return 30
	case altFt <= 40000:
		return 45
	case altFt <= 50000:
		return 60
	default:
		return 75
	}
}

// advanceAltitude updates *alt along l's aggregated horizontal distance,
// then applies the leg-type altitude floor and the leg's own restriction
// clamp, per spec.md §4.D.3's altitude-profile rules. Top-of-descent
// seeding and RNAV-FAF interpolation operate across the whole leg list, not
// one leg at a time, so the flightplan package applies them around its
// per-leg calls into this one (synthesizeAltitudeProfile's TOD seed and its
// applyRNAVFAFAltitudes pass).
func (c *Context) advanceAltitude(legSrc navdata.Waypoint, l *leg.Leg, alt *navdata.Altitude, runwayLengthFt navdata.Distance, arrivalSegment bool) {
	horizontalFt := legHorizontalDistanceFt(legSrc, l) - runwayLengthFt.Feet()
	if horizontalFt < 0 {
		horizontalFt = 0
	}

	if arrivalSegment {
		ratio := 18.0
		if *alt > 10000 {
			ratio = 15
		}
		*alt -= navdata.Altitude(horizontalFt / ratio)
	} else {
		ratio := climbRatio(*alt)
		gain := navdata.Altitude(horizontalFt / ratio)
		if *alt+gain > c.CruiseAlt {
			gain = c.CruiseAlt - *alt
		}
		if gain > 0 {
			*alt += gain
		}
	}

	switch l.Type {
	case leg.CA, leg.FA, leg.HA, leg.VA:
		if l.Altitude > *alt {
			*alt = l.Altitude
		}
	}

	applyRestrictionClamp(l.Restriction.Altitude, alt)
}

func applyRestrictionClamp(a leg.AltitudeConstraint, alt *navdata.Altitude) {
	switch a.Kind {
	case leg.AltitudeAt:
		*alt = a.Alt1
	case leg.AltitudeAtOrAbove:
		if *alt < a.Alt1 {
			*alt = a.Alt1
		}
	case leg.AltitudeAtOrBelow:
		if *alt > a.Alt2 {
			*alt = a.Alt2
		}
	case leg.AltitudeBoth:
		if *alt < a.Alt1 {
			*alt = a.Alt1
		}
		if *alt > a.Alt2 {
			*alt = a.Alt2
		}
	}
}

// legHorizontalDistanceFt sums the great-circle distance from legSrc
// through each synthesized dummy to the leg's determinate endpoint, in
// feet.
func legHorizontalDistanceFt(legSrc navdata.Waypoint, l *leg.Leg) float64 {
	pts := []geo.Point{legSrc.Position}
	for _, d := range l.Xpfms {
		pts = append(pts, d.Position)
	}
	if ep, ok := l.EndPoint(); ok {
		pts = append(pts, ep)
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += geo.Distance(pts[i-1], pts[i])
	}
	return total * navdata.NauticalMilesToFeet
}
