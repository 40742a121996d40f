package geo

import "errors"

// Failure modes for the two-radial and radial/circle constructions, per
// spec.md §4.A. These map to the EDOM/ERANGE/ENOENT errno categories
// spec.md §7 names; idiomatic Go carries them as sentinels instead.
var (
	// ErrCoincidentGreatCircles is returned by IntersectRadials when the two
	// great circles coincide, so there are infinitely many intersections.
	ErrCoincidentGreatCircles = errors.New("geo: great circles coincide (infinity of intersections)")

	// ErrAmbiguousIntersection is returned by IntersectRadials when the two
	// finite intersection points are equally valid (equidistant forward
	// of both originating bearings).
	ErrAmbiguousIntersection = errors.New("geo: intersection is ambiguous")

	// ErrNoIntersection is returned by IntersectRadialCircle when the
	// radial never meets the circle.
	ErrNoIntersection = errors.New("geo: radial does not intersect circle")
)
