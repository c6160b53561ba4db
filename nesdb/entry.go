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

package nesdb

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/ZaparooProject/go-inestool/ines"
)

// element is a generic XML tree node. The database schema has enough
// per-board variation (vram, chip, cic, pad elements nested under
// board) that decoding into a fixed struct would be brittle; instead
// each entry decodes into this tree and the parser walks it.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// children returns the direct children named name, in document order.
func (e *element) children(name string) []*element {
	var out []*element
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// childOne returns the single direct child named name. Zero children is
// fine when optional, otherwise an error, and more than one is always
// an error.
func (e *element) childOne(name string, optional bool) (*element, error) {
	found := e.children(name)
	if len(found) > 1 {
		return nil, fmt.Errorf("too many %s elements", name)
	}
	if len(found) == 0 {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("no %s element", name)
	}
	return found[0], nil
}

// anyDescendant reports whether any element strictly below e satisfies
// pred.
func (e *element) anyDescendant(pred func(*element) bool) bool {
	for i := range e.Children {
		child := &e.Children[i]
		if pred(child) || child.anyDescendant(pred) {
			return true
		}
	}
	return false
}

// parseEntry converts one cartridge or arcade element into the header
// its dump should carry, keyed by the canonical CRC32 fingerprint.
func parseEntry(entry *element) (string, *ines.Header, error) {
	crc, ok := entry.attr("crc")
	if !ok {
		return "", nil, DataError{Reason: "missing crc attribute"}
	}
	crc = strings.ToUpper(crc)

	system, ok := entry.attr("system")
	if !ok {
		return "", nil, DataError{CRC: crc, Reason: "missing system attribute"}
	}
	tv := ines.TVNTSC
	if palSystems[system] {
		tv = ines.TVPAL
	}

	board, err := entry.childOne("board", false)
	if err != nil {
		return "", nil, DataError{CRC: crc, Reason: err.Error()}
	}

	mapper := 0
	if raw, ok := board.attr("mapper"); ok {
		mapper, err = strconv.Atoi(raw)
		if err != nil {
			return "", nil, DataError{CRC: crc, Reason: fmt.Sprintf("can't parse mapper %q", raw)}
		}
	}

	prgROM, err := sumSizes(board, "prg")
	if err != nil {
		return "", nil, DataError{CRC: crc, Reason: err.Error()}
	}
	prgRAM, err := sumSizes(board, "wram")
	if err != nil {
		return "", nil, DataError{CRC: crc, Reason: err.Error()}
	}
	chrROM, err := sumSizes(board, "chr")
	if err != nil {
		return "", nil, DataError{CRC: crc, Reason: err.Error()}
	}

	battery := board.anyDescendant(func(e *element) bool {
		v, ok := e.attr("battery")
		return ok && v == "1"
	})

	mirroring, err := boardMirroring(board, crc)
	if err != nil {
		return "", nil, err
	}

	return crc, &ines.Header{
		PRGROM:       prgROM,
		PRGRAM:       prgRAM,
		CHRROM:       chrROM,
		Mapper:       mapper,
		Mirroring:    mirroring,
		TVSystem:     tv,
		Battery:      battery,
		PlayChoice10: strings.EqualFold(system, "Playchoice-10"),
		VSUnisystem:  strings.EqualFold(system, "VS-Unisystem"),
	}, nil
}

// sumSizes totals the size attributes of the direct children of board
// named name. Boards split memory across chips, so a board with two
// 128k prg elements has a 256 KiB PRG ROM.
func sumSizes(board *element, name string) (int, error) {
	total := 0
	for _, chip := range board.children(name) {
		raw, ok := chip.attr("size")
		if !ok {
			return 0, fmt.Errorf("missing size attribute on %s element", name)
		}
		size, err := parseSize(raw)
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

// boardMirroring derives the mirroring mode from the board type and its
// solder pad element. A pad with H connected means the board is wired
// for vertical mirroring and vice versa. No pad on a board that is not
// a known four screen board means the mapper controls mirroring.
func boardMirroring(board *element, crc string) (ines.Mirroring, error) {
	pad, err := board.childOne("pad", true)
	if err != nil {
		return 0, DataError{CRC: crc, Reason: err.Error()}
	}

	padH, padV := 0, 0
	if pad != nil {
		if padH, err = padAttr(pad, "h"); err != nil {
			return 0, DataError{CRC: crc, Reason: err.Error()}
		}
		if padV, err = padAttr(pad, "v"); err != nil {
			return 0, DataError{CRC: crc, Reason: err.Error()}
		}
		if padH != 0 && padV != 0 {
			return 0, DataError{CRC: crc, Reason: "both H and V solder pads set"}
		}
		if padH == 0 && padV == 0 {
			return 0, DataError{CRC: crc, Reason: "neither H nor V solder pad set"}
		}
	}

	boardType, _ := board.attr("type")
	switch {
	case fourScreenBoards[boardType]:
		if pad != nil {
			return 0, DataError{CRC: crc, Reason: "solder pads set on four screen board"}
		}
		return ines.MirrorFourScreen, nil
	case pad == nil:
		return ines.MirrorMapperControlled, nil
	case padH != 0:
		return ines.MirrorVertical, nil
	default:
		return ines.MirrorHorizontal, nil
	}
}

func padAttr(pad *element, name string) (int, error) {
	raw, ok := pad.attr(name)
	if !ok {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("can't parse pad attribute %s=%q", name, raw)
	}
	return value, nil
}
