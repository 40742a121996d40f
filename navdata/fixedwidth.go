package navdata

import (
	"strings"

	fixedwidth "github.com/wallaceicy06/go-fixedwidth"
)

// runwayRecord mirrors the fixed-column runway subset of an ARINC-424
// airport record. Column widths follow the 424 runway record layout;
// decoding uses go-fixedwidth the way the rest of the ambient stack
// prefers a pack library over a hand-rolled column slicer.
type runwayRecord struct {
	Id                 string  `fixedwidth:"0,6"`
	HeadingTenths       int     `fixedwidth:"6,10"`
	LengthFt           int     `fixedwidth:"10,15"`
	WidthFt            int     `fixedwidth:"15,18"`
	ThresholdLatThirds int     `fixedwidth:"18,27"`
	ThresholdLonThirds int     `fixedwidth:"27,37"`
	ElevationFt        int     `fixedwidth:"37,42"`
	SurfaceCode        string  `fixedwidth:"42,43"`
}

// DecodeRunwayColumns decodes a block of fixed-width runway records (one
// per line) as found embedded in some ARINC-424 distributions' airport
// files, into Runway values with Heading/Length/Width/Threshold set but
// Waypoint/ILS/procedure lists left for the caller to fill in.
func DecodeRunwayColumns(block string) ([]*Runway, error) {
	var recs []runwayRecord
	if err := fixedwidth.Unmarshal([]byte(block), &recs); err != nil {
		return nil, err
	}
	out := make([]*Runway, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &Runway{
			Id:                 TidyRunwayID(strings.TrimSpace(rec.Id)),
			Heading:            float64(rec.HeadingTenths) / 10,
			Length:             Feet(float64(rec.LengthFt)),
			Width:              Feet(float64(rec.WidthFt)),
			ThresholdElevation: FeetAlt(rec.ElevationFt),
			Surface:            decodeSurface(rec.SurfaceCode),
		})
	}
	return out, nil
}

func decodeSurface(code string) Surface {
	switch strings.TrimSpace(code) {
	case "A":
		return SurfaceAsphalt
	case "C":
		return SurfaceConcrete
	case "T":
		return SurfaceTurf
	case "W":
		return SurfaceWater
	case "G":
		return SurfaceGravel
	default:
		return SurfaceUnknown
	}
}
