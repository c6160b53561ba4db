// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-inestool.
//
// go-inestool is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-inestool is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-inestool.  If not, see <https://www.gnu.org/licenses/>.

// Package nesdb loads the NES cartridge reference database from
// Nestopia-style XML (NstDatabase.xml). Each cartridge or arcade entry
// becomes the header its dump is supposed to carry, keyed by the CRC32
// fingerprint of the ROM payload.
package nesdb

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ZaparooProject/go-inestool/ines"
)

// DB maps canonical CRC32 fingerprints to reference headers.
type DB struct {
	records map[string]*ines.Header
}

// Lookup returns the reference header for a fingerprint.
func (db *DB) Lookup(crc string) (*ines.Header, bool) {
	h, ok := db.records[crc]
	return h, ok
}

// Len returns the number of unique fingerprints loaded.
func (db *DB) Len() int {
	return len(db.records)
}

// Load reads a reference database from the XML file at path.
func Load(path string, log hclog.Logger) (*DB, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided path is expected
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = file.Close() }()

	db, err := LoadReader(file, log)
	if err != nil {
		return nil, fmt.Errorf("load database %s: %w", path, err)
	}
	return db, nil
}

// LoadReader consumes a reference database document from r. The
// document decodes as a stream, holding one cartridge element in memory
// at a time, so arbitrarily large databases load in constant memory.
// Entries that cannot be parsed are logged and skipped; I/O and XML
// syntax errors fail the load.
func LoadReader(r io.Reader, log hclog.Logger) (*DB, error) {
	db := &DB{records: make(map[string]*ines.Header)}
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return db, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode database XML: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "cartridge" && start.Name.Local != "arcade" {
			continue
		}

		var entry element
		if err := decoder.DecodeElement(&entry, &start); err != nil {
			return nil, fmt.Errorf("decode database XML: %w", err)
		}

		crc, hdr, err := parseEntry(&entry)
		if err != nil {
			log.Warn("skipping database entry",
				"offset", decoder.InputOffset(), "error", err)
			continue
		}
		db.merge(crc, hdr, log)
	}
}

// merge adds one record, reconciling fingerprint collisions. Databases
// routinely list the same dump once per region; an NTSC and a PAL entry
// that otherwise agree merge into a single record valid for both
// timings. Entries that disagree beyond TV timing keep the first-seen
// record.
func (db *DB) merge(crc string, hdr *ines.Header, log hclog.Logger) {
	existing, ok := db.records[crc]
	if !ok {
		db.records[crc] = hdr
		return
	}

	tvDiff := false
	var rest []ines.FieldDiff
	for _, d := range existing.Diff(*hdr) {
		if d.Field == ines.FieldTVSystem {
			tvDiff = true
			continue
		}
		rest = append(rest, d)
	}

	switch {
	case len(rest) > 0:
		log.Warn("multiple different database entries, ignoring entries after the first", "crc", crc)
	case tvDiff:
		// Same dump released for both TV systems.
		existing.TVSystem = ines.TVBoth
	default:
		log.Warn("duplicate identical database entries", "crc", crc)
	}
}
