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
	"fmt"
	"strconv"
	"strings"
)

// fourScreenBoards lists board types hardwired for four screen
// mirroring. The database marks mirroring with solder pads on other
// boards, but these have dedicated VRAM instead.
var fourScreenBoards = map[string]bool{
	// Gauntlet
	"NES-DRROM":     true,
	"NES-TR1ROM":    true,
	"TENGEN-800004": true,
	// Rad Racer II
	"NES-TVROM": true,
	// Napoleon Senki
	"IREM-74*161/161/21/138": true,
	// In Nestopia's source, though possibly never manufactured
	"HVC-DRROM": true,
	"HVC-TVROM": true,
}

// palSystems lists system attribute values with PAL timing. Dendy
// hardware is close enough to PAL.
var palSystems = map[string]bool{
	"NES-PAL":   true,
	"NES-PAL-A": true,
	"NES-PAL-B": true,
	"Dendy":     true,
}

// parseSize converts a database size attribute such as "128k" to bytes.
func parseSize(s string) (int, error) {
	digits, ok := strings.CutSuffix(s, "k")
	if !ok || digits == "" {
		return 0, fmt.Errorf("can't parse size %q", s)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("can't parse size %q", s)
		}
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("can't parse size %q", s)
	}
	return value * 1024, nil
}
