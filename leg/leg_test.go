package leg

import (
	"errors"
	"testing"

	"github.com/skynav/navdconv/navdata"
)

func TestRestrictRejectsHoldWithTurnShort(t *testing.T) {
	r := Restriction{Turn: TurnShort, Hold: &HoldShape{Turn: TurnShort}}
	_, err := Restrict(HM, r)
	if !errors.Is(err, ErrInvalidRestriction) {
		t.Fatalf("expected ErrInvalidRestriction, got %v", err)
	}
}

func TestRestrictAcceptsHoldLeftOrRight(t *testing.T) {
	for _, turn := range []TurnDirection{TurnLeft, TurnRight} {
		r := Restriction{Hold: &HoldShape{Turn: turn, LegTime: 1}}
		if _, err := Restrict(HF, r); err != nil {
			t.Errorf("turn=%v: unexpected error %v", turn, err)
		}
	}
}

func TestRestrictRejectsHoldShapeOnNonHold(t *testing.T) {
	r := Restriction{Hold: &HoldShape{Turn: TurnLeft}}
	if _, err := Restrict(CF, r); !errors.Is(err, ErrInvalidRestriction) {
		t.Fatalf("expected ErrInvalidRestriction, got %v", err)
	}
}

func TestRestrictRequiresHoldShapeOnHoldLegs(t *testing.T) {
	if _, err := Restrict(HA, Restriction{}); !errors.Is(err, ErrInvalidRestriction) {
		t.Fatalf("expected ErrInvalidRestriction for missing hold shape, got %v", err)
	}
}

func TestRestrictRejectsInvertedAltitudeWindow(t *testing.T) {
	r := Restriction{Altitude: AltitudeConstraint{
		Kind: AltitudeBoth,
		Alt1: navdata.FeetAlt(10000),
		Alt2: navdata.FeetAlt(5000),
	}}
	if _, err := Restrict(CA, r); !errors.Is(err, ErrInvalidRestriction) {
		t.Fatalf("expected ErrInvalidRestriction, got %v", err)
	}
}

func TestCloneDoesNotAliasHoldShape(t *testing.T) {
	orig := Leg{
		Type: HM,
		Restriction: Restriction{
			Hold: &HoldShape{Turn: TurnRight, LegTime: 1},
		},
	}
	clone := Clone(orig)
	clone.Restriction.Hold.Turn = TurnLeft
	if orig.Restriction.Hold.Turn != TurnRight {
		t.Error("Clone aliased the hold shape pointer")
	}
}

func TestEndPointManualTerminationHasNone(t *testing.T) {
	l := Leg{Type: FM, Dst: navdata.Waypoint{Id: "ABC"}}
	if _, ok := l.EndPoint(); ok {
		t.Error("FM leg should have no determinate endpoint")
	}
	l2 := Leg{Type: TF, Dst: navdata.Waypoint{Id: "ABC"}}
	if _, ok := l2.EndPoint(); !ok {
		t.Error("TF leg should have a determinate endpoint")
	}
}

func TestTypeStringAndPredicates(t *testing.T) {
	if RF.String() != "RF" {
		t.Errorf("RF.String() = %q", RF.String())
	}
	if !VA.IsVector() {
		t.Error("VA should be a vector leg")
	}
	if !HM.IsManualTermination() {
		t.Error("HM should be a manual-termination leg")
	}
	if !HF.IsHold() || !HA.IsHold() || !HM.IsHold() {
		t.Error("HF/HA/HM should all report IsHold")
	}
}
