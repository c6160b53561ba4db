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

package inestool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZaparooProject/go-inestool/container"
	"github.com/ZaparooProject/go-inestool/ines"
)

// FormatItem renders the read report for one image: the name and
// fingerprint, then each header field on its own line with the labels
// aligned. Headerless images get a single line instead.
func FormatItem(item container.Item) string {
	if item.Header == nil {
		return fmt.Sprintf("%s (%s): no header", item.Name, item.CRC32)
	}

	width := 0
	for f := ines.FieldPRGROM; f <= ines.FieldVSUnisystem; f++ {
		if n := len(f.String()); n > width {
			width = n
		}
	}

	lines := []string{fmt.Sprintf("%s (%s):", item.Name, item.CRC32)}
	for f := ines.FieldPRGROM; f <= ines.FieldVSUnisystem; f++ {
		lines = append(lines, fmt.Sprintf("\t%-*s: %s", width, f.String(), fieldValue(*item.Header, f)))
	}
	return strings.Join(lines, "\n")
}

// FormatOutcome renders the write report for one reconciled image. The
// replace verdict gets one extra line per differing field.
func FormatOutcome(outcome Outcome) string {
	prefix := fmt.Sprintf("%s (%s): ", outcome.Item.Name, outcome.Item.CRC32)
	switch outcome.Action {
	case ActionNoHeaderUnknown:
		return prefix + "no header, not in database, cannot add header"
	case ActionUnknown:
		return prefix + "not in database, skipping"
	case ActionInsert:
		return prefix + "no header, will add header"
	case ActionMatch:
		return prefix + "header matches database"
	case ActionReplace:
		lines := []string{prefix + "header differs from database, will update header"}
		for _, d := range outcome.Diff {
			lines = append(lines, fmt.Sprintf("\t%s: expected %s, read %s", d.Field, d.Expected, d.Actual))
		}
		return strings.Join(lines, "\n")
	}
	return prefix + "unknown action"
}

func fieldValue(h ines.Header, f ines.Field) string {
	switch f {
	case ines.FieldPRGROM:
		return ines.FormatKiB(h.PRGROM)
	case ines.FieldPRGRAM:
		return ines.FormatKiB(h.PRGRAM)
	case ines.FieldCHRROM:
		return ines.FormatCHRROM(h.CHRROM)
	case ines.FieldMapper:
		return strconv.Itoa(h.Mapper)
	case ines.FieldMirroring:
		return h.Mirroring.String()
	case ines.FieldTVSystem:
		return h.TVSystem.String()
	case ines.FieldBattery:
		return strconv.FormatBool(h.Battery)
	case ines.FieldTrainer:
		return strconv.FormatBool(h.Trainer)
	case ines.FieldPlayChoice10:
		return strconv.FormatBool(h.PlayChoice10)
	case ines.FieldVSUnisystem:
		return strconv.FormatBool(h.VSUnisystem)
	}
	return ""
}
