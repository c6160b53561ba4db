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

// Package ines reads and writes the 16-byte iNES cartridge header.
//
// Header layout:
//
//	Offset 0x00: Magic "NES\x1a" (4 bytes)
//	Offset 0x04: PRG ROM size in 16 KiB units
//	Offset 0x05: CHR ROM size in 8 KiB units, 0 means CHR RAM
//	Offset 0x06: Mirroring axis, battery, trainer, mapper low nibble
//	Offset 0x07: VS/PlayChoice flags, format generation, mapper high nibble
//	Offset 0x08: PRG RAM size in 8 KiB units
//	Offset 0x09: TV system
//	Offset 0x0A: Reserved (6 bytes, zero on write, ignored on read)
package ines

import "bytes"

// HeaderSize is the length of an iNES header in bytes.
const HeaderSize = 16

// Unit sizes for the three banked cartridge memories. Header size fields
// count in these units.
const (
	PRGROMUnit = 16384
	CHRROMUnit = 8192
	PRGRAMUnit = 8192
)

// Magic words for the image formats this package can tell apart.
var (
	inesMagic = []byte("NES\x1a")
	unifMagic = []byte("UNIF")
)

// Mirroring describes the nametable arrangement a cartridge requests.
// The values match the wire encoding of header byte 6 bits 0 and 3.
type Mirroring int

// MirrorMapperControlled never appears on the wire; it marks database
// records for boards whose mapper drives mirroring at runtime. Its value
// is chosen so that masking with 0xF on encode degrades it to horizontal,
// which such mappers ignore anyway.
const (
	MirrorHorizontal       Mirroring = 0
	MirrorVertical         Mirroring = 1
	MirrorFourScreen       Mirroring = 8
	MirrorFourScreenOdd    Mirroring = 9
	MirrorMapperControlled Mirroring = 16
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "Horizontal"
	case MirrorVertical:
		return "Vertical"
	case MirrorFourScreen:
		return "Four screen"
	case MirrorFourScreenOdd:
		return "Four screen (odd)"
	case MirrorMapperControlled:
		return "Mapper controlled"
	}
	return "Unknown"
}

// TVSystem describes the video timing a cartridge expects.
type TVSystem int

// TVBoth never appears on the wire; it marks database records seen with
// both timings. Masking with 1 on encode degrades it to NTSC, the more
// common system.
const (
	TVNTSC TVSystem = 0
	TVPAL  TVSystem = 1
	TVBoth TVSystem = 2
)

func (tv TVSystem) String() string {
	switch tv {
	case TVNTSC:
		return "NTSC"
	case TVPAL:
		return "PAL"
	case TVBoth:
		return "NTSC and PAL"
	}
	return "Unknown"
}

// Header holds the decoded fields of an iNES header. Sizes are in bytes.
type Header struct {
	PRGROM int
	PRGRAM int
	CHRROM int // 0 means the board uses CHR RAM
	Mapper int

	Mirroring Mirroring
	TVSystem  TVSystem

	Battery      bool
	Trainer      bool
	PlayChoice10 bool
	VSUnisystem  bool
}

// Parse decodes an iNES header from the start of data.
//
// It returns (nil, nil) when data does not begin with an iNES header,
// including when fewer than HeaderSize bytes are available. It returns
// an UnsupportedError for recognized formats this package refuses to
// touch: UNIF images, NES 2.0 headers, and headers with a trainer
// attached. Callers treat that as a skip, not corruption.
func Parse(data []byte) (*Header, error) {
	if bytes.HasPrefix(data, unifMagic) {
		return nil, UnsupportedError{Reason: "UNIF currently unsupported"}
	}
	if len(data) < HeaderSize || !bytes.HasPrefix(data, inesMagic) {
		return nil, nil
	}
	// Format generation bits 2-3 of byte 7: binary 10 means NES 2.0.
	if data[7]&0x0C == 0x08 {
		return nil, UnsupportedError{Reason: "NES 2.0 currently unsupported"}
	}
	if data[6]&0x04 != 0 {
		return nil, UnsupportedError{Reason: "ROMs with trainers currently unsupported"}
	}

	return &Header{
		PRGROM:       int(data[4]) * PRGROMUnit,
		CHRROM:       int(data[5]) * CHRROMUnit,
		PRGRAM:       int(data[8]) * PRGRAMUnit,
		Mapper:       int(data[7]&0xF0 | (data[6]&0xF0)>>4),
		Mirroring:    Mirroring(data[6] & 0x09),
		TVSystem:     TVSystem(data[9] & 0x01),
		Battery:      data[6]&0x02 != 0,
		PlayChoice10: data[7]&0x02 != 0,
		VSUnisystem:  data[7]&0x01 != 0,
	}, nil
}

// Encode renders the header in wire form, always exactly HeaderSize
// bytes with the reserved tail zeroed. All range checks run before any
// byte is produced, so a RangeError means nothing was emitted.
//
// Two encodings are lossy. The database sentinels MirrorMapperControlled
// and TVBoth degrade to horizontal and NTSC. A PRG RAM size that is not
// a multiple of its 8 KiB unit rounds up (Crisis Force carries 2 KiB),
// which reads back larger and therefore keeps reporting as a mismatch.
func (h Header) Encode() ([]byte, error) {
	if h.PRGROM%PRGROMUnit != 0 || h.PRGROM < 0 || h.PRGROM > 0xFF*PRGROMUnit {
		return nil, RangeError{Field: "PRG ROM size", Value: h.PRGROM}
	}
	if h.CHRROM%CHRROMUnit != 0 || h.CHRROM < 0 || h.CHRROM > 0xFF*CHRROMUnit {
		return nil, RangeError{Field: "CHR ROM size", Value: h.CHRROM}
	}
	if h.Mapper < 0 || h.Mapper > 0xFF {
		return nil, RangeError{Field: "mapper", Value: h.Mapper}
	}
	if h.PRGRAM < 0 || h.PRGRAM > 0xFF*PRGRAMUnit {
		return nil, RangeError{Field: "PRG RAM size", Value: h.PRGRAM}
	}

	out := make([]byte, HeaderSize)
	copy(out, inesMagic)
	out[4] = byte(h.PRGROM / PRGROMUnit)
	out[5] = byte(h.CHRROM / CHRROMUnit)
	out[6] = byte(h.Mapper&0x0F)<<4 | byte(h.Mirroring)&0x0F
	if h.Battery {
		out[6] |= 0x02
	}
	if h.Trainer {
		out[6] |= 0x04
	}
	out[7] = byte(h.Mapper & 0xF0)
	if h.PlayChoice10 {
		out[7] |= 0x02
	}
	if h.VSUnisystem {
		out[7] |= 0x01
	}
	out[8] = byte((h.PRGRAM + PRGRAMUnit - 1) / PRGRAMUnit)
	out[9] = byte(h.TVSystem) & 0x01
	return out, nil
}
