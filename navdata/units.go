package navdata

import "fmt"

// Distance is a fixed-point scalar distance, stored internally in
// hundredths of a nautical mile so arithmetic between values obtained in
// different units (feet thresholds, NM airway lengths) stays exact
// enough for equality comparisons in the assembler's overlap checks.
// Grounded on the Frequency fixed-point idiom in mmp-vice/aviation.go,
// generalized to the other scalar kinds spec.md §3 names.
type Distance int64

const hundredthsPerNM = 100

func NM(v float64) Distance   { return Distance(v * hundredthsPerNM) }
func Feet(v float64) Distance { return Distance(v / NauticalMilesToFeet * hundredthsPerNM) }
func Meters(v float64) Distance {
	return Distance(v / MetersPerNauticalMile * hundredthsPerNM)
}

const NauticalMilesToFeet = 6076.12
const MetersPerNauticalMile = 1852.0

func (d Distance) NM() float64   { return float64(d) / hundredthsPerNM }
func (d Distance) Feet() float64 { return d.NM() * NauticalMilesToFeet }
func (d Distance) Add(o Distance) Distance { return d + o }
func (d Distance) Sub(o Distance) Distance { return d - o }
func (d Distance) String() string          { return fmt.Sprintf("%.2fnm", d.NM()) }

// Altitude is a signed feet scalar with an FL (flight-level, hundreds of
// feet) convenience constructor, per spec.md §3.
type Altitude int32

func FeetAlt(v int) Altitude  { return Altitude(v) }
func FlightLevel(fl int) Altitude { return Altitude(fl * 100) }
func (a Altitude) Feet() int  { return int(a) }
func (a Altitude) String() string {
	if a >= 18000 {
		return fmt.Sprintf("FL%03d", a/100)
	}
	return fmt.Sprintf("%dft", a)
}

// Airspeed is a knots scalar.
type Airspeed int32

func Knots(v int) Airspeed { return Airspeed(v) }
func (a Airspeed) Knots() int { return int(a) }

// Frequency is stored internally in kHz so both VOR/LOC (in tenths of
// MHz) and NDB (whole kHz) frequencies round-trip exactly.
type Frequency int32

func MHz(v float64) Frequency { return Frequency(v * 1000) }
func KHz(v int) Frequency     { return Frequency(v) }
func (f Frequency) MHz() float64 { return float64(f) / 1000 }
func (f Frequency) KHz() int     { return int(f) }
func (f Frequency) String() string {
	if f >= 100000 {
		return fmt.Sprintf("%.2f", f.MHz())
	}
	return fmt.Sprintf("%d", f.KHz())
}
