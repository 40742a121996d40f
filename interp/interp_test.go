package interp

import (
	"testing"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

func TestDecodeLegsBasicTypes(t *testing.T) {
	raw := "IF,ALPHA,47.0,-122.0,0,,,,,,,,0,,,0,0,,,0,0,0,\n" +
		"TF,BETA,47.5,-122.5,0,,,,,,,,0,,,0,0,,,0,0,0,\n" +
		"CA,,,,0,,,,,,090,,1,5000,,0,0,,,0,0,0,\n"

	legs, err := DecodeLegs(raw)
	if err != nil {
		t.Fatalf("DecodeLegs: %v", err)
	}
	if len(legs) != 3 {
		t.Fatalf("expected 3 legs, got %d", len(legs))
	}
	if legs[0].Type != leg.IF || legs[0].Dst.Id != "ALPHA" {
		t.Errorf("leg 0 = %+v", legs[0])
	}
	if legs[1].Type != leg.TF || legs[1].Dst.Id != "BETA" {
		t.Errorf("leg 1 = %+v", legs[1])
	}
	if legs[2].Type != leg.CA || legs[2].Altitude != navdata.FeetAlt(5000) {
		t.Errorf("leg 2 = %+v", legs[2])
	}
}

func TestDecodeLegsRejectsUnknownType(t *testing.T) {
	_, err := DecodeLegs("XX,FOO,1,2\n")
	if err == nil {
		t.Fatal("expected an error for an unknown leg type")
	}
}

func TestDecodeLegsSwapsInvertedAltitudeWindow(t *testing.T) {
	// BT with (max,min) coded backwards should be swapped to (min,max).
	raw := "CA,,,,0,,,,,,090,,4,9000,5000,0,0,,,0,0,0,\n"
	legs, err := DecodeLegs(raw)
	if err != nil {
		t.Fatalf("DecodeLegs: %v", err)
	}
	a := legs[0].Restriction.Altitude
	if a.Alt1 != navdata.FeetAlt(5000) || a.Alt2 != navdata.FeetAlt(9000) {
		t.Errorf("expected swapped (5000,9000), got (%v,%v)", a.Alt1, a.Alt2)
	}
}

func TestDecodeLegsHoldRejectsShortTurn(t *testing.T) {
	raw := "HM,GAMMA,47.0,-122.0,0,,,,,,180,,0,,,0,0,,,0,0,0,60\n"
	_, err := DecodeLegs(raw)
	if err == nil {
		t.Fatal("expected a restriction error for a hold with turn=SHORT")
	}
}

func straightProcLegs() []leg.Leg {
	return []leg.Leg{
		{Type: leg.IF, Dst: navdata.Waypoint{Id: "ENTRY", Position: geo.NewPointDeg(47, -122)}},
		{Type: leg.TF, Dst: navdata.Waypoint{Id: "NEXT", Position: geo.NewPointDeg(47.2, -122.2)}},
	}
}

func TestSegmentProcedGeneralMatchesFirstLegSource(t *testing.T) {
	entry := navdata.Waypoint{Id: "ENTRY", Position: geo.NewPointDeg(47, -122)}
	proc := &navdata.Procedure{Name: "TEST1", Type: navdata.STAR1}
	res, err := SegmentProced(&entry, proc, straightProcLegs(), nil)
	if err != nil {
		t.Fatalf("SegmentProced: %v", err)
	}
	// The leading IF matching the entry source is elided by copyLegs;
	// only the trailing TF survives.
	if len(res.Legs) != 1 || res.Legs[0].Type != leg.TF {
		t.Fatalf("expected the TF leg only, got %d: %+v", len(res.Legs), res.Legs)
	}
}

func TestSegmentProcedRunwayAgnosticSIDPrependsDiscontinuity(t *testing.T) {
	proc := &navdata.Procedure{Name: "DEP2", Type: navdata.SID2}
	res, err := SegmentProced(nil, proc, straightProcLegs(), nil)
	if err != nil {
		t.Fatalf("SegmentProced: %v", err)
	}
	if len(res.Legs) != 3 || res.Legs[0].Type != leg.ZZ {
		t.Fatalf("expected a leading discontinuity, got %+v", res.Legs)
	}
	if res.Source != nil {
		t.Errorf("expected nil source for runway-agnostic SID, got %+v", res.Source)
	}
}

func TestSynthesizeAltitudeTerminatorClimbsTowardTarget(t *testing.T) {
	ctx := &Context{WMM: navdata.NewSimpleWMM(), CruiseAlt: navdata.FeetAlt(33000)}
	legSrc := navdata.Waypoint{Position: geo.NewPointDeg(47, -122)}
	l := &leg.Leg{Type: leg.CA, Course: 90, Altitude: navdata.FeetAlt(5000)}
	alt := navdata.FeetAlt(0)
	if err := ctx.Synthesize(legSrc, l, nil, &alt, 0, false); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(l.Xpfms) != 1 {
		t.Fatalf("expected one terminator dummy, got %d", len(l.Xpfms))
	}
	if alt < 5000 {
		t.Errorf("expected *alt to reach or exceed 5000, got %v", alt)
	}
}

func TestSynthesizeArcProducesHelpers(t *testing.T) {
	ctx := &Context{WMM: navdata.NewSimpleWMM(), CruiseAlt: navdata.FeetAlt(33000)}
	center := navdata.Waypoint{Id: "VOR1", Position: geo.NewPointDeg(47, -122)}
	legSrc := navdata.Waypoint{Position: geo.PlaceBearingDistance(center.Position, 0, 10)}
	l := &leg.Leg{
		Type:     leg.AF,
		RecFix:   &center,
		Course:   90,
		Distance: navdata.NM(10),
		Dst:      navdata.Waypoint{Id: "ARCWP", Position: geo.PlaceBearingDistance(center.Position, 90, 10)},
	}
	alt := navdata.FeetAlt(3000)
	if err := ctx.Synthesize(legSrc, l, nil, &alt, 0, false); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(l.Xpfms) == 0 {
		t.Error("expected at least one arc helper fix")
	}
}

func TestDecodeLegsPIDecodesTurnAngleAndLimitDistance(t *testing.T) {
	// radial=060, magCourse=090, dmeDist=8nm, legDist=5nm.
	raw := "PI,WPX,47.0,-122.0,0,,,,60,8,90,5,0,,,0,0,,,0,0,0,\n"
	legs, err := DecodeLegs(raw)
	if err != nil {
		t.Fatalf("DecodeLegs: %v", err)
	}
	if len(legs) != 1 || legs[0].Type != leg.PI {
		t.Fatalf("expected a single PI leg, got %+v", legs)
	}
	l := legs[0]
	if want := navdata.NM(8); l.TurnLimitDistance != want {
		t.Errorf("TurnLimitDistance = %v, want %v", l.TurnLimitDistance, want)
	}
	if want := -30.0; l.TurnAngle != want {
		t.Errorf("TurnAngle = %v, want %v (left turn from 090 to 060)", l.TurnAngle, want)
	}
}

func TestSynthesizeProcedureTurnUsesDecodedAngleAndLimitDistance(t *testing.T) {
	ctx := &Context{WMM: navdata.NewSimpleWMM(), CruiseAlt: navdata.FeetAlt(33000)}
	l := &leg.Leg{
		Type:              leg.PI,
		Dst:               navdata.Waypoint{Id: "WPX", Position: geo.NewPointDeg(47, -122)},
		Course:            90,
		Distance:          navdata.NM(10),
		TurnLimitDistance: navdata.NM(4),
		TurnAngle:         -30,
	}
	alt := navdata.FeetAlt(5000)
	if err := ctx.Synthesize(navdata.Waypoint{Position: geo.NewPointDeg(47, -122.2)}, l, nil, &alt, 0, false); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(l.Xpfms) != 3 {
		t.Fatalf("expected 3 procedure-turn helper fixes, got %d", len(l.Xpfms))
	}
	// The outbound helper (PT1) must sit at the 4nm limit, not the leg's
	// own 10nm outbound distance.
	gotDist := geo.Distance(l.Dst.Position, l.Xpfms[0].Position)
	if gotDist > 4.1 || gotDist < 3.9 {
		t.Errorf("PT1 at %.2fnm from the turn fix, want ~4nm (clamped to TurnLimitDistance)", gotDist)
	}
}

func TestCloneLegRewritesSrcForIFAndTF(t *testing.T) {
	entry := navdata.Waypoint{Id: "ENTRY", Position: geo.NewPointDeg(1, 1)}
	orig := leg.Leg{Type: leg.TF, Dst: navdata.Waypoint{Id: "X"}}
	clone := CloneLeg(orig, &entry)
	if clone.Src.Id != "ENTRY" {
		t.Errorf("expected TF clone's Src rewritten to ENTRY, got %+v", clone.Src)
	}
}
