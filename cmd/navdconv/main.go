// Command navdconv builds a flight plan from a departure/arrival pair
// (with optional SID/STAR/approach and enroute route string) against a
// pre-digested navdatabase snapshot, and writes it out in XP-FMS form.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v3"

	"github.com/skynav/navdconv/flightplan"
	"github.com/skynav/navdconv/icaoroute"
	"github.com/skynav/navdconv/navdata"
	"github.com/skynav/navdconv/navlog"
	"github.com/skynav/navdconv/writer"
)

func main() {
	fs := flag.NewFlagSet("navdconv", flag.ContinueOnError)

	dbPath := fs.String("db", "", "path to a digested navdatabase JSON snapshot")
	dep := fs.String("dep", "", "departure airport, optionally ICAO/RWY")
	arr := fs.String("arr", "", "arrival airport, optionally ICAO/RWY")
	sid := fs.String("sid", "", "departure SID, optionally NAME/TRANS")
	star := fs.String("star", "", "arrival STAR, optionally NAME/TRANS")
	appr := fs.String("appr", "", "arrival approach, optionally NAME/TRANS")
	rte := fs.String("rte", "", "ICAO route string, e.g. \"KBOS J121 ALB KORD\"")
	cruise := fs.Int("cruise", 350, "cruise altitude, flight level")
	xplane := fs.String("xplane", "", "XP-FMS output path (\"-\" for stdout)")
	ofmt := fs.String("ofmt", "xplane", "output format: xplane (qpac is recognized but unimplemented)")
	qpac := fs.Bool("qpac", false, "shorthand for -ofmt qpac")
	info := fs.Bool("info", false, "print a summary of the compiled plan to stdout")
	logDir := fs.String("log-dir", "", "directory for a rotating diagnostic log; stderr if empty")

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("NAVDCONV")); err != nil {
		fmt.Fprintf(os.Stderr, "navdconv: %v\n", err)
		os.Exit(1)
	}

	if *qpac {
		*ofmt = "qpac"
	}

	log := navlog.New("info", *logDir)

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "navdconv: -db is required")
		os.Exit(1)
	}
	db, err := loadDatabase(*dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navdconv: %v\n", err)
		os.Exit(1)
	}

	fp := flightplan.New(db, nil, log)
	fp.CruiseAltitude = navdata.FlightLevel(*cruise)

	if err := configurePlan(fp, db, *dep, *arr, *sid, *star, *appr, *rte); err != nil {
		fmt.Fprintf(os.Stderr, "navdconv: %v\n", err)
		os.Exit(1)
	}

	if *info {
		printSummary(fp)
	}

	if *xplane == "" {
		return
	}
	if *ofmt != "xplane" {
		fmt.Fprintf(os.Stderr, "navdconv: output format %q not implemented (only xplane is)\n", *ofmt)
		os.Exit(1)
	}

	out := os.Stdout
	if *xplane != "-" {
		f, err := os.Create(*xplane)
		if err != nil {
			fmt.Fprintf(os.Stderr, "navdconv: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := writer.WriteXPFMS(out, fp); err != nil {
		fmt.Fprintf(os.Stderr, "navdconv: %v\n", err)
		os.Exit(1)
	}
}

func splitIdTrans(s string) (string, string) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// configurePlan wires the flag surface into the flightplan/icaoroute
// APIs: departure and arrival are set first (each optionally with a
// runway), then their SID/STAR/approach, and finally the free-form route
// string is parsed onto the enroute segment.
func configurePlan(fp *flightplan.FlightPlan, db navdata.Database, dep, arr, sid, star, appr, rte string) error {
	if dep != "" {
		id, rwy := splitIdTrans(dep)
		if err := fp.SetDeparture(id, rwy); err != nil {
			return err
		}
	}
	if arr != "" {
		id, rwy := splitIdTrans(arr)
		if err := fp.SetArrival(id, rwy); err != nil {
			return err
		}
	}
	if sid != "" {
		name, trans := splitIdTrans(sid)
		if err := fp.SetDepartSID(name, trans); err != nil {
			return err
		}
	}
	if star != "" {
		name, trans := splitIdTrans(star)
		if err := fp.SetArrivalSTAR(name, trans); err != nil {
			return err
		}
	}
	if appr != "" {
		name, trans := splitIdTrans(appr)
		if err := fp.SetArrivalApproach(name, trans); err != nil {
			return err
		}
	}
	if rte != "" {
		if err := icaoroute.Parse(fp, db, rte); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(fp *flightplan.FlightPlan) {
	dep, arr := "(none)", "(none)"
	if a := fp.DepartureAirport(); a != nil {
		dep = a.Id
	}
	if a := fp.ArrivalAirport(); a != nil {
		arr = a.Id
	}
	fmt.Printf("dep=%s arr=%s legs=%d\n", dep, arr, len(fp.Legs()))
	for i, l := range fp.Legs() {
		fmt.Printf("  %3d %-4s %-8s %s\n", i, l.Type, l.Identifier, l.Description)
	}
}
