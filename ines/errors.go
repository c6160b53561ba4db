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

import "fmt"

// UnsupportedError indicates a recognized image format that this package
// deliberately does not handle, such as NES 2.0 or UNIF. Scanners treat
// it as a skip rather than a failure.
type UnsupportedError struct {
	Reason string
}

func (e UnsupportedError) Error() string {
	return e.Reason
}

// RangeError indicates a header field value that cannot be represented
// in the 16-byte wire form.
type RangeError struct {
	Field string
	Value int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("can't represent %s %d in iNES header", e.Field, e.Value)
}
