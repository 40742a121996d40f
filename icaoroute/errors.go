package icaoroute

import "errors"

// ErrUnresolvedToken is returned when a route token cannot be interpreted as
// a place-bearing-distance fix, an airway id, a known waypoint, or a
// lat/lon encoding — spec.md §4.F step 5's "otherwise reject".
var ErrUnresolvedToken = errors.New("icaoroute: unresolved token")

// ErrDanglingAirway is returned when the route string ends with an airway
// token still awaiting its endpoint.
var ErrDanglingAirway = errors.New("icaoroute: airway with no endpoint")

// ErrNoAirwayJunction is returned when two airway tokens appear back to
// back with no common fix between them.
var ErrNoAirwayJunction = errors.New("icaoroute: airways share no junction fix")
