package icaoroute

import (
	"regexp"
	"strconv"

	"github.com/skynav/navdconv/geo"
)

// llc patterns implement spec.md §6's waypoint_llc table. Each regexp
// captures the hemisphere letters and digit groups for one of the seven
// shapes the table lists; parseLLC tries them in the table's order and
// returns the decoded position plus a synthesized identifier.
var (
	llcWholeDeg        = regexp.MustCompile(`^([NS])(\d{2})([EW])(\d{3})$`)
	llcWholeDegSlash   = regexp.MustCompile(`^([NS])(\d{2})/([EW])(\d{3})$`)
	llcDegMin          = regexp.MustCompile(`^([NS])(\d{2})(\d{2})([EW])(\d{3})(\d{2})$`)
	llcDegMinSlash     = regexp.MustCompile(`^([NS])(\d{4})/([EW])(\d{5})$`)
	llcDegMinSec       = regexp.MustCompile(`^([NS])(\d{2})(\d{2})(\d{2})([EW])(\d{3})(\d{2})(\d{2})$`)
	llcDegDecMin       = regexp.MustCompile(`^([NS])(\d{2})(\d{2}\.\d)([EW])(\d{3})(\d{2}\.\d)$`)
	llcDegDecMinSlash  = regexp.MustCompile(`^([NS])(\d{2})(\d{2}\.\d)/([EW])(\d{3})(\d{2}\.\d)$`)
	llcCompactTrailing = regexp.MustCompile(`^(\d{2})(\d{2,3})([NS])$`)
	llcCompactInterior = regexp.MustCompile(`^(\d{2})([NS])(\d{2,3})$`)
	llcVariableSigned  = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)/(-?\d+(?:\.\d+)?)$`)
	llcVariableHemi    = regexp.MustCompile(`^(\d+(?:\.\d+)?)([NS])/(\d+(?:\.\d+)?)([EW])$`)
)

func sign(hemi string) float64 {
	if hemi == "S" || hemi == "W" {
		return -1
	}
	return 1
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// parseLLC attempts to decode tok as one of the lat/lon identifier formats
// spec.md §6 documents, trying the full token first and then, per §4.F
// step 4's "full form or prefix", the prefix portion alone.
func parseLLC(full, prefix string) (geo.Point, string, bool) {
	if p, id, ok := matchLLC(full); ok {
		return p, id, true
	}
	if prefix != full {
		return matchLLC(prefix)
	}
	return geo.Point{}, "", false
}

func matchLLC(tok string) (geo.Point, string, bool) {
	if m := llcWholeDeg.FindStringSubmatch(tok); m != nil {
		return fromDeg(m[1], m[2], m[3], m[4]), tok, true
	}
	if m := llcWholeDegSlash.FindStringSubmatch(tok); m != nil {
		return fromDeg(m[1], m[2], m[3], m[4]), tok, true
	}
	if m := llcDegMin.FindStringSubmatch(tok); m != nil {
		return fromDegMin(m[1], m[2], m[3], m[4], m[5], m[6]), tok, true
	}
	if m := llcDegMinSlash.FindStringSubmatch(tok); m != nil {
		lat := m[2]
		lon := m[4]
		return fromDegMin(m[1], lat[:2], lat[2:], m[3], lon[:3], lon[3:]), tok, true
	}
	if m := llcDegMinSec.FindStringSubmatch(tok); m != nil {
		return fromDegMinSec(m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8]), tok, true
	}
	if m := llcDegDecMinSlash.FindStringSubmatch(tok); m != nil {
		return fromDegDecMin(m[1], m[2], m[3], m[4], m[5], m[6]), tok, true
	}
	if m := llcDegDecMin.FindStringSubmatch(tok); m != nil {
		return fromDegDecMin(m[1], m[2], m[3], m[4], m[5], m[6]), tok, true
	}
	// Compact oceanic form: a two-digit longitude is conventionally the
	// low two digits of a three-digit West-hemisphere value, per the
	// table's own worked example (44N66 => 166°W).
	if m := llcCompactTrailing.FindStringSubmatch(tok); m != nil {
		return compactPoint(m[1], m[3], m[2]), tok, true
	}
	if m := llcCompactInterior.FindStringSubmatch(tok); m != nil {
		return compactPoint(m[1], m[2], m[3]), tok, true
	}
	if m := llcVariableHemi.FindStringSubmatch(tok); m != nil {
		lat := atof(m[1]) * sign(m[2])
		lon := atof(m[3]) * sign(m[4])
		return geo.NewPointDeg(lat, lon), tok, true
	}
	if m := llcVariableSigned.FindStringSubmatch(tok); m != nil {
		return geo.NewPointDeg(atof(m[1]), atof(m[2])), tok, true
	}
	return geo.Point{}, "", false
}

func fromDeg(latHemi, latDeg, lonHemi, lonDeg string) geo.Point {
	lat := atof(latDeg) * sign(latHemi)
	lon := atof(lonDeg) * sign(lonHemi)
	return geo.NewPointDeg(lat, lon)
}

func fromDegMin(latHemi, latDeg, latMin, lonHemi, lonDeg, lonMin string) geo.Point {
	lat := (atof(latDeg) + atof(latMin)/60) * sign(latHemi)
	lon := (atof(lonDeg) + atof(lonMin)/60) * sign(lonHemi)
	return geo.NewPointDeg(lat, lon)
}

func fromDegMinSec(latHemi, latDeg, latMin, latSec, lonHemi, lonDeg, lonMin, lonSec string) geo.Point {
	lat := (atof(latDeg) + atof(latMin)/60 + atof(latSec)/3600) * sign(latHemi)
	lon := (atof(lonDeg) + atof(lonMin)/60 + atof(lonSec)/3600) * sign(lonHemi)
	return geo.NewPointDeg(lat, lon)
}

func fromDegDecMin(latHemi, latDeg, latMin, lonHemi, lonDeg, lonMin string) geo.Point {
	lat := (atof(latDeg) + atof(latMin)/60) * sign(latHemi)
	lon := (atof(lonDeg) + atof(lonMin)/60) * sign(lonHemi)
	return geo.NewPointDeg(lat, lon)
}

func compactPoint(latDeg, hemi, lonDigits string) geo.Point {
	lat := atof(latDeg) * sign(hemi)
	lonDigits = padLon(lonDigits)
	lon := -atof(lonDigits) // oceanic compact tracks are conventionally west
	return geo.NewPointDeg(lat, lon)
}

func padLon(digits string) string {
	if len(digits) == 2 {
		return "1" + digits
	}
	return digits
}
