package navdata

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the on-disk representation of a MemDatabase: the decoded
// (or still-raw) contents of every Add*'d airport, airway fragment, and
// waypoint, so a caller can skip re-parsing a navdatabase on every run.
type snapshot struct {
	Airports map[string]*Airport
	Airways  map[string][]*Airway
	Fixes    []*Waypoint
}

// WriteSnapshot serializes the database to w as zstd-compressed
// msgpack, mirroring the teacher's practice of shipping a compiled
// navdatabase bundle rather than re-deriving it from source files on
// every launch.
func (db *MemDatabase) WriteSnapshot(w io.Writer) error {
	snap := snapshot{Airports: db.airports, Airways: db.airways, Fixes: db.fixes}
	raw, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("navdata: marshal snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("navdata: create zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("navdata: write snapshot: %w", err)
	}
	return enc.Close()
}

// LoadSnapshot reconstructs a MemDatabase from a stream written by
// WriteSnapshot. The resulting database's airports are already
// initialized exactly as they were when snapshotted; InitAirport on them
// returns ErrAlreadyInitialized if init had already run.
func LoadSnapshot(r io.Reader) (*MemDatabase, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("navdata: create zstd reader: %w", err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, fmt.Errorf("navdata: read snapshot: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(buf.Bytes(), &snap); err != nil {
		return nil, fmt.Errorf("navdata: unmarshal snapshot: %w", err)
	}

	db := NewMemDatabase(nil, nil)
	db.airports = snap.Airports
	db.airways = snap.Airways
	db.fixes = snap.Fixes
	return db, nil
}
