package interp

import (
	"github.com/skynav/navdconv/leg"
	"github.com/skynav/navdconv/navdata"
)

// CloneLeg implements spec.md §4.D.4's leg-copy behavior: HF/HA/HM copy
// verbatim; IF/TF have their Src rewritten to entrySrc; everything else
// gets a fresh Xpfms list (handled by leg.Clone) and, if it has no Src
// yet and entrySrc is known, adopts it.
func CloneLeg(l leg.Leg, entrySrc *navdata.Waypoint) leg.Leg {
	out := leg.Clone(l)
	switch l.Type {
	case leg.HF, leg.HA, leg.HM:
		return out
	case leg.IF, leg.TF:
		if entrySrc != nil {
			out.Src = *entrySrc
		}
		return out
	default:
		if out.Src.Id == "" && entrySrc != nil {
			out.Src = *entrySrc
		}
		return out
	}
}
