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
	"fmt"
	"io"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/hashicorp/go-hclog"
)

// MaxSevenZipMember caps how much of a 7z member is buffered for
// scanning; larger members are skipped.
const MaxSevenZipMember = 4 << 20

// SevenZip scans ROM images inside a 7z archive. It is read-only.
type SevenZip struct {
	path string
	log  hclog.Logger
}

// NewSevenZip creates a container for a 7z archive.
func NewSevenZip(path string, log hclog.Logger) *SevenZip {
	return &SevenZip{path: path, log: log}
}

// Path returns the archive path.
func (sz *SevenZip) Path() string {
	return sz.path
}

// Walk scans every member in archive order. Members decompress fully
// into memory first; solid blocks only decompress sequentially, so
// partial reads would drag in the rest of the block anyway. Members
// larger than MaxSevenZipMember are skipped.
func (sz *SevenZip) Walk(fn func(Item) error) error {
	reader, err := sevenzip.OpenReader(sz.path)
	if err != nil {
		return fmt.Errorf("open 7z archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if err := sz.walkMember(member.Name, member.UncompressedSize, member.Open, fn); err != nil {
			return err
		}
	}
	return nil
}

// walkMember scans one member and hands it to fn. size is the claimed
// decompressed size, checked against the cap before anything is opened.
// Oversized and unreadable members are dropped; only a callback error
// aborts the walk.
func (sz *SevenZip) walkMember(name string, size uint64, open func() (io.ReadCloser, error), fn func(Item) error) error {
	if size > MaxSevenZipMember {
		sz.log.Warn("skipping archive member: too big",
			"archive", sz.path, "member", name, "size", size)
		return nil
	}

	item, err := sz.scanMember(name, open)
	if err != nil {
		if !isSkip(err) {
			sz.log.Warn("can't read archive member",
				"archive", sz.path, "member", name, "error", err)
		}
		return nil
	}
	return fn(item)
}

func (sz *SevenZip) scanMember(name string, open func() (io.ReadCloser, error)) (Item, error) {
	rc, err := open()
	if err != nil {
		return Item{}, fmt.Errorf("open 7z member: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Item{}, fmt.Errorf("read 7z member: %w", err)
	}
	return scanItem(filepath.Join(sz.path, name), name, bytes.NewReader(data), sz.log)
}
