// Package interp implements the ARINC-424-style procedure interpreter:
// record parsing (this file and parse.go), stitching a procedure into a
// route segment (segment.go), leg cloning (clone.go), and "xpfms"
// dummy-waypoint, intercept and altitude-profile synthesis (xpfms.go).
package interp

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/skynav/navdconv/geo"
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// record is the decoded form of one raw CSV leg line, laid out in the
// fixed column order every procedure leg record carries (unused columns
// for a given leg type are simply blank). Column order:
//
//	type,wpt_id,wpt_lat,wpt_lon,turn,navaid_id,navaid_lat,navaid_lon,
//	radial,dme_dist,mag_course,leg_dist,alt_kind,alt1,alt2,
//	spd_kind,spd_class,spd1,spd2,wpt_flag,overfly,hold_disttype,hold_value
type record struct {
	typ      string
	wptId    string
	wptLat   float64
	wptLon   float64
	turn     int
	navaidId string
	navLat   float64
	navLon   float64
	radial   float64
	dmeDist  float64
	magCourse float64
	legDist  float64
	altKind  int
	alt1     float64
	alt2     float64
	spdKind  int
	spdClass int
	spd1     float64
	spd2     float64
	wptFlag  int
	overfly  int
	holdType int
	holdVal  float64
}

// ErrUnknownLegType is returned (wrapped) by decodeRow, and so by
// parseRecords, for a first field that doesn't match one of the 22 ARINC
// leg types.
var ErrUnknownLegType = fmt.Errorf("interp: unknown leg type")

var legTypeByName = map[string]leg.Type{
	"IF": leg.IF, "TF": leg.TF, "CF": leg.CF, "DF": leg.DF,
	"FA": leg.FA, "FM": leg.FM, "FC": leg.FC, "FD": leg.FD,
	"CA": leg.CA, "CI": leg.CI, "CD": leg.CD, "CR": leg.CR,
	"VA": leg.VA, "VI": leg.VI, "VD": leg.VD, "VR": leg.VR, "VM": leg.VM,
	"AF": leg.AF, "RF": leg.RF, "PI": leg.PI,
	"HF": leg.HF, "HA": leg.HA, "HM": leg.HM,
}

// parseRecords decodes a procedure's raw CSV leg text into records. It
// does not produce Leg values — that's DecodeLegs's job, one layer up.
// Neither layer consults a database: waypoints are built from each
// record's own id and coordinates.
func parseRecords(raw string) ([]record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("interp: reading leg records: %w", err)
	}

	out := make([]record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("interp: record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRow(row []string) (record, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	f := func(i int) float64 {
		v, _ := strconv.ParseFloat(get(i), 64)
		return v
	}
	n := func(i int) int {
		v, _ := strconv.Atoi(get(i))
		return v
	}

	if get(0) == "" {
		return record{}, fmt.Errorf("%w: empty leg type", ErrUnknownLegType)
	}
	if _, ok := legTypeByName[get(0)]; !ok {
		return record{}, fmt.Errorf("%w: %q", ErrUnknownLegType, get(0))
	}

	rec := record{
		typ:       get(0),
		wptId:     get(1),
		wptLat:    f(2),
		wptLon:    f(3),
		turn:      n(4),
		navaidId:  get(5),
		navLat:    f(6),
		navLon:    f(7),
		radial:    f(8),
		dmeDist:   f(9),
		magCourse: f(10),
		legDist:   f(11),
		altKind:   n(12),
		alt1:      f(13),
		alt2:      f(14),
		spdKind:   n(15),
		spdClass:  n(16),
		spd1:      f(17),
		spd2:      f(18),
		wptFlag:   n(19),
		overfly:   n(20),
		holdType:  n(21),
		holdVal:   f(22),
	}

	// Altitude-BT quirk: some vendors code (min,max), others (max,min).
	if rec.altKind == 4 && rec.alt2 != 0 && rec.alt1 > rec.alt2 {
		rec.alt1, rec.alt2 = rec.alt2, rec.alt1
	}

	return rec, nil
}

func (rec record) waypoint() navdata.Waypoint {
	return navdata.Waypoint{
		Id:       rec.wptId,
		Position: geo.NewPointDeg(rec.wptLat, rec.wptLon),
		Kind:     navdata.KindFIX,
	}
}

func (rec record) navaid() *navdata.Waypoint {
	if rec.navaidId == "" {
		return nil
	}
	return &navdata.Waypoint{
		Id:       rec.navaidId,
		Position: geo.NewPointDeg(rec.navLat, rec.navLon),
		Kind:     navdata.KindVOR,
	}
}

func (rec record) turnDirection() leg.TurnDirection {
	switch rec.turn {
	case 1:
		return leg.TurnLeft
	case 2:
		return leg.TurnRight
	default:
		return leg.TurnShort
	}
}

func (rec record) altitudeConstraint() leg.AltitudeConstraint {
	kind := leg.AltitudeConstraintKind(rec.altKind)
	return leg.AltitudeConstraint{
		Kind: kind,
		Alt1: navdata.FeetAlt(int(rec.alt1)),
		Alt2: navdata.FeetAlt(int(rec.alt2)),
	}
}

func (rec record) airspeedConstraint() leg.AirspeedConstraint {
	class := leg.AircraftClass(rec.spdClass)
	kind := leg.AirspeedConstraintKind(rec.spdKind)
	if class == leg.AircraftNon {
		kind = leg.AirspeedNone
	}
	return leg.AirspeedConstraint{
		Kind:  kind,
		Class: class,
		Spd1:  navdata.Knots(int(rec.spd1)),
		Spd2:  navdata.Knots(int(rec.spd2)),
	}
}

func (rec record) waypointConstraint() leg.WaypointConstraintKind {
	switch rec.wptFlag {
	case 1:
		return leg.WaypointConstraintIAF
	case 2:
		return leg.WaypointConstraintFAF
	case 3:
		return leg.WaypointConstraintMAP
	default:
		return leg.WaypointConstraintNone
	}
}

func (rec record) holdShape() *leg.HoldShape {
	h := &leg.HoldShape{
		InboundCourse: rec.magCourse,
		Turn:          rec.turnDirection(),
		Speed:         rec.airspeedConstraint(),
	}
	if rec.holdType == 1 {
		h.LegTime = rec.holdVal
	} else {
		h.LegDistance = navdata.NM(rec.holdVal)
	}
	return h
}
