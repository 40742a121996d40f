// Package geo implements the great-circle geodesy primitives the rest of
// the engine builds on: bearing/distance, forward solutions, and the two
// intersection constructions procedure interpretation needs.
package geo

import (
	"fmt"
	"math"
)

// Point is a latitude/longitude pair stored as signed thirds of an arc
// second so that two waypoints compare equal with ordinary ==, which the
// navdatabase façade and the assembler's overlap-resolution pass both rely
// on.
type Point struct {
	LatThirds int32 // thirds of an arc-second, north positive
	LonThirds int32 // thirds of an arc-second, east positive
}

const thirdsPerDegree = 60 * 60 * 3

// NewPointDeg builds a Point from floating-point degrees.
func NewPointDeg(latDeg, lonDeg float64) Point {
	return Point{
		LatThirds: int32(math.Round(latDeg * thirdsPerDegree)),
		LonThirds: int32(math.Round(lonDeg * thirdsPerDegree)),
	}
}

func (p Point) LatDeg() float64 { return float64(p.LatThirds) / thirdsPerDegree }
func (p Point) LonDeg() float64 { return float64(p.LonThirds) / thirdsPerDegree }

func (p Point) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", p.LatDeg(), p.LonDeg())
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// EarthRadiusNM is the ellipsoidal quadratic mean radius, 6,372,800 m,
// expressed in nautical miles, per spec.md §4.A.
const EarthRadiusNM = 6372800.0 / 1852.0

// Distance returns the great-circle distance between a and b in nautical
// miles, via the haversine formula.
func Distance(a, b Point) float64 {
	lat1, lon1 := radians(a.LatDeg()), radians(a.LonDeg())
	lat2, lon2 := radians(b.LatDeg()), radians(b.LonDeg())
	dlat, dlon := lat2-lat1, lon2-lon1

	sinDLat2 := math.Sin(dlat / 2)
	sinDLon2 := math.Sin(dlon / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLon2*sinDLon2
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusNM * c
}

// TrueBearing returns the initial true-course bearing in [0,360) from a to
// b along the great circle connecting them.
func TrueBearing(a, b Point) float64 {
	lat1, lon1 := radians(a.LatDeg()), radians(a.LonDeg())
	lat2, lon2 := radians(b.LatDeg()), radians(b.LonDeg())
	dlon := lon2 - lon1

	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	brg := degrees(math.Atan2(y, x))
	return NormalizeBearing(brg)
}

// NormalizeBearing reduces a bearing to [0,360).
func NormalizeBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	return b
}

// BearingAngle returns the signed minimum-turn angle from a to b, in
// (-180,180], right (clockwise) positive, per spec.md §4.A.
func BearingAngle(a, b float64) float64 {
	d := NormalizeBearing(b - a)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	if d == -180 {
		d = 180
	}
	return d
}

// AngleReverse flips a signed turn angle to the long-way-around turn:
// +θ -> θ-360, -θ -> θ+360.
func AngleReverse(theta float64) float64 {
	if theta >= 0 {
		return theta - 360
	}
	return theta + 360
}
