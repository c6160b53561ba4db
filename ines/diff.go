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

package ines

import (
	"fmt"
	"strconv"
)

// Field identifies one comparable header field.
type Field int

// Fields in report order.
const (
	FieldPRGROM Field = iota
	FieldPRGRAM
	FieldCHRROM
	FieldMapper
	FieldMirroring
	FieldTVSystem
	FieldBattery
	FieldTrainer
	FieldPlayChoice10
	FieldVSUnisystem
)

// String returns the field label used in reports.
func (f Field) String() string {
	switch f {
	case FieldPRGROM:
		return "PRG ROM"
	case FieldPRGRAM:
		return "PRG RAM"
	case FieldCHRROM:
		return "CHR ROM"
	case FieldMapper:
		return "Mapper"
	case FieldMirroring:
		return "Mirroring"
	case FieldTVSystem:
		return "TV System"
	case FieldBattery:
		return "Has NVRAM"
	case FieldTrainer:
		return "Has Trainer"
	case FieldPlayChoice10:
		return "Is PlayChoice-10"
	case FieldVSUnisystem:
		return "Is VS. UniSystem"
	}
	return "Unknown"
}

// FieldDiff records one disagreement between two headers. Expected and
// Actual hold the two values formatted for display.
type FieldDiff struct {
	Field    Field
	Expected string
	Actual   string
}

// Diff compares h, the expected side, against other field by field and
// returns the disagreements in report order. An empty result means the
// headers agree.
//
// Two comparisons are deliberately loose. A mapper-controlled mirroring
// claim is satisfied by anything except a four-screen arrangement, since
// the mapper overrides the axis bit at runtime. A TV system of TVBoth is
// satisfied by either timing.
func (h Header) Diff(other Header) []FieldDiff {
	var diffs []FieldDiff
	add := func(f Field, expected, actual string) {
		diffs = append(diffs, FieldDiff{Field: f, Expected: expected, Actual: actual})
	}

	if h.PRGROM != other.PRGROM {
		add(FieldPRGROM, FormatKiB(h.PRGROM), FormatKiB(other.PRGROM))
	}
	if h.PRGRAM != other.PRGRAM {
		add(FieldPRGRAM, FormatKiB(h.PRGRAM), FormatKiB(other.PRGRAM))
	}
	if h.CHRROM != other.CHRROM {
		add(FieldCHRROM, FormatCHRROM(h.CHRROM), FormatCHRROM(other.CHRROM))
	}
	if h.Mapper != other.Mapper {
		add(FieldMapper, strconv.Itoa(h.Mapper), strconv.Itoa(other.Mapper))
	}
	if !mirroringCompatible(h.Mirroring, other.Mirroring) {
		add(FieldMirroring, h.Mirroring.String(), other.Mirroring.String())
	}
	if !tvCompatible(h.TVSystem, other.TVSystem) {
		add(FieldTVSystem, h.TVSystem.String(), other.TVSystem.String())
	}
	if h.Battery != other.Battery {
		add(FieldBattery, strconv.FormatBool(h.Battery), strconv.FormatBool(other.Battery))
	}
	if h.Trainer != other.Trainer {
		add(FieldTrainer, strconv.FormatBool(h.Trainer), strconv.FormatBool(other.Trainer))
	}
	if h.PlayChoice10 != other.PlayChoice10 {
		add(FieldPlayChoice10, strconv.FormatBool(h.PlayChoice10), strconv.FormatBool(other.PlayChoice10))
	}
	if h.VSUnisystem != other.VSUnisystem {
		add(FieldVSUnisystem, strconv.FormatBool(h.VSUnisystem), strconv.FormatBool(other.VSUnisystem))
	}
	return diffs
}

// mirroringCompatible reports whether two mirroring claims agree. One
// mapper-controlled side matches anything without the four-screen bit.
func mirroringCompatible(a, b Mirroring) bool {
	if a == b {
		return true
	}
	return (a|b)&(MirrorMapperControlled|MirrorFourScreen) == MirrorMapperControlled
}

// tvCompatible reports whether two TV system claims agree.
func tvCompatible(a, b TVSystem) bool {
	return a == b || a == TVBoth || b == TVBoth
}

// FormatKiB renders a byte count in KiB. Sizes that are not a whole
// number of KiB keep the fractional part.
func FormatKiB(n int) string {
	if n%1024 != 0 {
		return fmt.Sprintf("%f KiB", float64(n)/1024)
	}
	return fmt.Sprintf("%d KiB", n/1024)
}

// FormatCHRROM renders a CHR ROM size; zero means the board has CHR RAM
// instead.
func FormatCHRROM(n int) string {
	if n == 0 {
		return "CHR RAM"
	}
	return FormatKiB(n)
}
