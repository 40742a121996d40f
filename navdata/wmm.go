package navdata

import "github.com/skynav/navdconv/geo"

// WorldMagneticModel converts between true and magnetic bearings at a
// position. spec.md §4.A treats magnetic variation as an external
// parameter rather than something this engine computes from first
// principles (no real WMM coefficient table is in scope — see
// DESIGN.md), so this is a seam a caller can back with a real model.
type WorldMagneticModel interface {
	// Variation returns the magnetic variation at pos, in degrees, positive
	// east (subtracted from true bearings to obtain magnetic).
	Variation(pos geo.Point) float64
	TrueToMagnetic(trueDeg float64, pos geo.Point) float64
	MagneticToTrue(magDeg float64, pos geo.Point) float64
}

// SimpleWMM is a WorldMagneticModel backed by a fixed variation, useful
// for tests and for navdatabases that encode per-airport variation
// directly rather than requiring a geomagnetic model.
type SimpleWMM struct {
	FixedVariation float64
}

func NewSimpleWMM() *SimpleWMM { return &SimpleWMM{} }

func (w *SimpleWMM) Variation(pos geo.Point) float64 { return w.FixedVariation }

func (w *SimpleWMM) TrueToMagnetic(trueDeg float64, pos geo.Point) float64 {
	return geo.NormalizeBearing(trueDeg - w.Variation(pos))
}

func (w *SimpleWMM) MagneticToTrue(magDeg float64, pos geo.Point) float64 {
	return geo.NormalizeBearing(magDeg + w.Variation(pos))
}
