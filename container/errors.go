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

package container

import "fmt"

// MemberNotFoundError indicates an update request targeting a member the
// container does not contain.
type MemberNotFoundError struct {
	Container string
	Member    string
}

func (e MemberNotFoundError) Error() string {
	return fmt.Sprintf("member %q not found in %q", e.Member, e.Container)
}

// ModifiedError indicates the container was rewritten while a Walk was
// in progress, invalidating the enumeration.
type ModifiedError struct {
	Container string
}

func (e ModifiedError) Error() string {
	return fmt.Sprintf("%q modified during enumeration", e.Container)
}
