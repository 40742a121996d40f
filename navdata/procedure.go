package navdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skynav/navdconv/navlog"
)


// ProcedureType is the ARINC-424-derived procedure family, per spec.md
// §3's six SID subtypes, nine STAR subtypes, approach transitions, and
// final approach segments.
type ProcedureType int

const (
	SID1 ProcedureType = iota + 1 // runway transition into a common route
	SID2                          // runway transition into an enroute transition
	SID3                          // common route only
	SID4                          // vectors-to-common-route, no runway transition
	SID5                          // runway transition directly to enroute transition, no common route
	SID6                          // RNAV runway-specific, no transitions
	STAR1
	STAR2
	STAR3 // built-in common-route prefix (§4.D.2)
	STAR4
	STAR5
	STAR6 // built-in common-route prefix
	STAR7
	STAR8
	STAR9 // built-in common-route prefix
	APPTR // approach transition
	FINAL // final approach segment
)

func (t ProcedureType) IsSID() bool   { return t >= SID1 && t <= SID6 }
func (t ProcedureType) IsSTAR() bool  { return t >= STAR1 && t <= STAR9 }
func (t ProcedureType) IsBuiltinPrefixed() bool {
	return t == STAR3 || t == STAR6 || t == STAR9
}

// TransitionCategory distinguishes a procedure's named child transitions.
type TransitionCategory int

const (
	TransitionRunway TransitionCategory = iota
	TransitionEnroute
	TransitionCommon
)

// ApproachType is the ARINC-424 approach-type letter, mapped per spec.md
// §6's FINAL-record recode table (appr_letter -> type).
type ApproachType int

const (
	ApproachUnknown ApproachType = iota
	ApproachVDM                  // D
	ApproachVOR                  // S, V
	ApproachTAC                  // T
	ApproachNDB                  // N
	ApproachNDM                  // Q
	ApproachLBC                  // B
	ApproachIGS                  // G
	ApproachILS                  // I
	ApproachLOC                  // L
	ApproachLDA                  // X
	ApproachRNP                  // H
	ApproachGLS                  // J
	ApproachGPS                  // P
	ApproachRNV                  // R
	ApproachFMS                  // F
	ApproachMLS                  // M, W, Y
	ApproachSDF                  // U
)

// IsRNAVFamily reports whether a, per spec.md §4.D.3's FAF-detection rule,
// belongs to the GLS/RNAV-equipped approach family that triggers
// RNAV-FAF altitude interpolation.
func (a ApproachType) IsRNAVFamily() bool {
	switch a {
	case ApproachGLS, ApproachRNV, ApproachGPS, ApproachFMS:
		return true
	default:
		return false
	}
}

// Transition is one named entry path into a procedure's common route
// (a runway transition, an enroute transition, or — for approaches — a
// transition named after its IAF).
type Transition struct {
	Name     string
	Category TransitionCategory
	RawLegs  string // undecoded leg records, decoded lazily by interp.DecodeLegs
}

// Procedure is a single SID, STAR, approach transition, or final
// approach segment. Its leg records are not decoded until first use
// (Open), per spec.md §3's "lazy raw-text-then-open" lifecycle.
type Procedure struct {
	Name       string
	Type       ProcedureType
	Suffix     string // approach suffix letter, e.g. "Z" in "ILS 27LZ"
	ShortName  string
	AppType    ApproachType

	Transitions map[string]*Transition
	Runways     []string // runway identifiers this procedure serves

	rawCommonLegs string
	opened        bool
}

// RawLegs exposes the undecoded common-route leg records for
// interp.DecodeLegs to parse. The text is kept after the procedure is
// opened: MarkOpened does not clear it, so RawLegs returns the same string
// before and after.
func (p *Procedure) RawLegs() string { return p.rawCommonLegs }

func (p *Procedure) Opened() bool { return p.opened }

// MarkOpened records that this procedure's raw text has been decoded
// (flightplan calls it after interp.DecodeLegs). It only sets the flag; the
// decoded legs are not stored on the Procedure. It is idempotent.
func (p *Procedure) MarkOpened() { p.opened = true }

// parseProcedurePreamble splits an airport's staged raw procedure-file
// text into per-procedure records, extracting only the header fields
// (name, type, suffix, transition names) and leaving each procedure's leg
// rows as raw text for interp.DecodeLegs to parse on demand. This is the
// in-scope "textual preamble" parse spec.md §3 describes; full ARINC-424
// field decoding of the per-leg rows is interp's job, not this package's.
//
// Record format (one logical procedure per blank-line-delimited block):
//
//	PROC <name> <type> [<suffix>] [APPTYPE=<code>]
//	RWY <id> [<id> ...]
//	TRANS <category> <name>
//	<raw leg line>
//	...
func parseProcedurePreamble(a *Airport, log *navlog.Logger) error {
	if a.rawProcedureText == "" {
		return nil
	}
	a.SIDs = make(map[string]*Procedure)
	a.STARs = make(map[string]*Procedure)
	a.AllProcs = make(map[string]*Procedure)

	blocks := strings.Split(a.rawProcedureText, "\n\n")
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		proc, err := parseProcedureBlock(block)
		if err != nil {
			log.Warnf("navdata: skipping malformed procedure block in %s: %v", a.Id, err)
			continue
		}
		a.AllProcs[proc.Name] = proc
		switch {
		case proc.Type.IsSID():
			a.SIDs[proc.Name] = proc
		case proc.Type.IsSTAR():
			a.STARs[proc.Name] = proc
		}
	}
	a.rawProcedureText = ""
	return nil
}

func parseProcedureBlock(block string) (*Procedure, error) {
	lines := strings.Split(block, "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("navdata: empty procedure block")
	}

	header := strings.Fields(lines[0])
	if len(header) < 3 || header[0] != "PROC" {
		return nil, fmt.Errorf("navdata: malformed procedure header %q", lines[0])
	}
	typ, err := parseProcedureType(header[2])
	if err != nil {
		return nil, err
	}
	p := &Procedure{
		Name:        header[1],
		Type:        typ,
		Transitions: make(map[string]*Transition),
	}
	for _, tok := range header[3:] {
		if strings.HasPrefix(tok, "APPTYPE=") {
			p.AppType = parseApproachType(strings.TrimPrefix(tok, "APPTYPE="))
		} else if len(tok) == 1 {
			p.Suffix = tok
		}
	}

	var bodyLines []string
	var curTrans *Transition
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "RWY":
			p.Runways = append(p.Runways, fields[1:]...)
		case "TRANS":
			if len(fields) < 3 {
				return nil, fmt.Errorf("navdata: malformed TRANS line %q", line)
			}
			cat := TransitionEnroute
			switch fields[1] {
			case "RUNWAY":
				cat = TransitionRunway
			case "COMMON":
				cat = TransitionCommon
			}
			curTrans = &Transition{Name: fields[2], Category: cat}
			p.Transitions[fields[2]] = curTrans
		default:
			if curTrans != nil {
				curTrans.RawLegs += line + "\n"
			} else {
				bodyLines = append(bodyLines, line)
			}
		}
	}
	p.rawCommonLegs = strings.Join(bodyLines, "\n")
	return p, nil
}

func parseProcedureType(s string) (ProcedureType, error) {
	switch s {
	case "SID1":
		return SID1, nil
	case "SID2":
		return SID2, nil
	case "SID3":
		return SID3, nil
	case "SID4":
		return SID4, nil
	case "SID5":
		return SID5, nil
	case "SID6":
		return SID6, nil
	case "STAR1":
		return STAR1, nil
	case "STAR2":
		return STAR2, nil
	case "STAR3":
		return STAR3, nil
	case "STAR4":
		return STAR4, nil
	case "STAR5":
		return STAR5, nil
	case "STAR6":
		return STAR6, nil
	case "STAR7":
		return STAR7, nil
	case "STAR8":
		return STAR8, nil
	case "STAR9":
		return STAR9, nil
	case "APPTR":
		return APPTR, nil
	case "FINAL":
		return FINAL, nil
	default:
		if n, err := strconv.Atoi(s); err == nil {
			return ProcedureType(n), nil
		}
		return 0, fmt.Errorf("navdata: unknown procedure type %q", s)
	}
}

// parseApproachType maps a FINAL record's single-letter appr_letter field
// (spec.md §6) to its ApproachType.
func parseApproachType(letter string) ApproachType {
	if len(letter) != 1 {
		return ApproachUnknown
	}
	switch strings.ToUpper(letter)[0] {
	case 'D':
		return ApproachVDM
	case 'S', 'V':
		return ApproachVOR
	case 'T':
		return ApproachTAC
	case 'N':
		return ApproachNDB
	case 'Q':
		return ApproachNDM
	case 'B':
		return ApproachLBC
	case 'G':
		return ApproachIGS
	case 'I':
		return ApproachILS
	case 'L':
		return ApproachLOC
	case 'X':
		return ApproachLDA
	case 'H':
		return ApproachRNP
	case 'J':
		return ApproachGLS
	case 'P':
		return ApproachGPS
	case 'R':
		return ApproachRNV
	case 'F':
		return ApproachFMS
	case 'M', 'W', 'Y':
		return ApproachMLS
	case 'U':
		return ApproachSDF
	default:
		return ApproachUnknown
	}
}
