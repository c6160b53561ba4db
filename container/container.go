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

// Package container abstracts the places a ROM image can live: bare
// files, ZIP, 7z, and RAR archives, and gzip or xz compressed files.
// Every container scans its images the same way; bare files and ZIP
// archives can additionally rewrite headers in place.
package container

import (
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ZaparooProject/go-inestool/ines"
)

// Item is one scanned ROM image inside a container.
type Item struct {
	// Name identifies the image in reports: the file path, or the
	// path joined with the member name for archive members.
	Name string

	// CRC32 is the canonical fingerprint of the image payload. It
	// excludes the header bytes when an iNES header is present.
	CRC32 string

	// Header is the parsed iNES header, nil when the image has none.
	Header *ines.Header

	member string // key the container uses to locate the image again
}

// Kind selects how an Update rewrites its target.
type Kind int

const (
	// ReplaceHeader overwrites the existing header in place.
	ReplaceHeader Kind = iota
	// InsertHeader prepends a header to a headerless image, growing
	// it by ines.HeaderSize bytes.
	InsertHeader
)

// Update asks a container to rewrite one of its items with a new header.
// Item must come from a Walk of the same container.
type Update struct {
	Item   Item
	Kind   Kind
	Header ines.Header
}

// Container enumerates the ROM images at one path.
type Container interface {
	// Path returns the path the container was opened with.
	Path() string

	// Walk scans every image, invoking fn for each. The underlying
	// file opens lazily, so Walk may be called repeatedly. An error
	// from fn aborts the walk.
	Walk(fn func(Item) error) error
}

// Updater is implemented by containers that can rewrite their contents.
type Updater interface {
	Container

	// Apply rewrites the container with all updates applied. On error
	// the container is left exactly as it was.
	Apply(updates []Update) error
}

// Open selects a container implementation for path by extension,
// case-insensitively. Unrecognized extensions are treated as bare ROM
// files. Open itself never touches the filesystem.
func Open(path string, log hclog.Logger) Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return NewZip(path, log)
	case ".7z":
		return NewSevenZip(path, log)
	case ".rar":
		return NewRAR(path, log)
	case ".gz":
		return NewGzipFile(path, log)
	case ".xz":
		return NewXZFile(path, log)
	default:
		return NewFile(path, log)
	}
}
