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

import "fmt"

// DataError indicates a malformed cartridge or arcade entry. Loading
// logs the entry and moves on rather than failing the whole database.
type DataError struct {
	CRC    string
	Reason string
}

func (e DataError) Error() string {
	if e.CRC == "" {
		return "bad database entry: " + e.Reason
	}
	return fmt.Sprintf("bad database entry %s: %s", e.CRC, e.Reason)
}
