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

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/ZaparooProject/go-inestool/ines"
	"github.com/ZaparooProject/go-inestool/internal/crc32sum"
)

// scanItem reads one ROM image from r and fingerprints it. name is the
// display name, member the container-internal key. When an iNES header
// is present the checksum covers only the payload after it; otherwise
// it covers the whole stream, header candidate bytes included.
func scanItem(name, member string, r io.Reader, log hclog.Logger) (Item, error) {
	head := make([]byte, ines.HeaderSize)
	n, err := io.ReadFull(r, head)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return Item{}, fmt.Errorf("read header: %w", err)
		}
		head = head[:n]
	}

	hdr, err := ines.Parse(head)
	if err != nil {
		if isSkip(err) {
			log.Warn("skipping image", "name", name, "reason", err.Error())
		}
		return Item{}, err
	}

	payload := r
	if hdr == nil {
		payload = io.MultiReader(bytes.NewReader(head), r)
	}
	sum, err := crc32sum.Sum(payload)
	if err != nil {
		return Item{}, err
	}

	return Item{Name: name, CRC32: sum, Header: hdr, member: member}, nil
}

// isSkip reports whether err marks an image the codec refuses to handle,
// which walkers drop without failing the enumeration.
func isSkip(err error) bool {
	var unsupported ines.UnsupportedError
	return errors.As(err, &unsupported)
}
