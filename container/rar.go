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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/nwaples/rardecode/v2"
)

// RAR scans ROM images inside a RAR archive. It is read-only.
type RAR struct {
	path string
	log  hclog.Logger
}

// NewRAR creates a container for a RAR archive.
func NewRAR(path string, log hclog.Logger) *RAR {
	return &RAR{path: path, log: log}
}

// Path returns the archive path.
func (ra *RAR) Path() string {
	return ra.path
}

// Walk scans every member. RAR archives only support sequential
// reading, so each entry streams through the scanner as it is reached.
func (ra *RAR) Walk(fn func(Item) error) error {
	file, err := os.Open(ra.path) //nolint:gosec // User-provided path is expected
	if err != nil {
		return fmt.Errorf("open RAR archive: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader, err := rardecode.NewReader(file)
	if err != nil {
		return fmt.Errorf("create RAR reader: %w", err)
	}

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read RAR header: %w", err)
		}
		if header.IsDir {
			continue
		}
		if err := ra.walkMember(header.Name, reader, fn); err != nil {
			return err
		}
	}
}

// walkMember scans one member from the archive stream and hands it to
// fn. Unreadable members are dropped; only a callback error aborts the
// walk.
func (ra *RAR) walkMember(name string, src io.Reader, fn func(Item) error) error {
	item, err := scanItem(filepath.Join(ra.path, name), name, src, ra.log)
	if err != nil {
		if !isSkip(err) {
			ra.log.Warn("can't read archive member",
				"archive", ra.path, "member", name, "error", err)
		}
		return nil
	}
	return fn(item)
}
