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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// File is a bare ROM image on disk, the fallback for paths with no
// recognized archive extension.
type File struct {
	path string
	log  hclog.Logger
}

// NewFile creates a container for a bare ROM file.
func NewFile(path string, log hclog.Logger) *File {
	return &File{path: path, log: log}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Walk scans the file as a single image.
func (f *File) Walk(fn func(Item) error) error {
	file, err := os.Open(f.path) //nolint:gosec // User-provided path is expected
	if err != nil {
		return fmt.Errorf("open ROM file: %w", err)
	}
	defer func() { _ = file.Close() }()

	item, err := scanItem(f.path, f.path, file, f.log)
	if err != nil {
		if isSkip(err) {
			return nil
		}
		return err
	}
	return fn(item)
}

// Apply rewrites the file once per update. Each new header is encoded
// before anything is written, so a representation error leaves the file
// untouched.
func (f *File) Apply(updates []Update) error {
	for _, u := range updates {
		if u.Item.member != f.path {
			return MemberNotFoundError{Container: f.path, Member: u.Item.member}
		}
	}
	return applyToFile(f.path, updates)
}

// applyToFile is the update engine shared with archive rebuilds, which
// run it against extracted member copies.
func applyToFile(path string, updates []Update) error {
	for _, u := range updates {
		encoded, err := u.Header.Encode()
		if err != nil {
			return err
		}

		switch u.Kind {
		case ReplaceHeader:
			err = replaceHeader(path, encoded)
		case InsertHeader:
			err = insertHeader(path, encoded)
		default:
			err = fmt.Errorf("unknown update kind %d", u.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// replaceHeader overwrites the leading header bytes in place.
func replaceHeader(path string, header []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY, 0) //nolint:gosec // User-provided path is expected
	if err != nil {
		return fmt.Errorf("open ROM file for update: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteAt(header, 0); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// insertHeader writes the header followed by the original content to a
// temporary file in the same directory, then renames it over the
// original. A failure part way through removes the temporary file and
// leaves the original as it was.
func insertHeader(path string, header []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	orig, err := os.Open(path) //nolint:gosec // User-provided path is expected
	if err != nil {
		return fmt.Errorf("open ROM file: %w", err)
	}
	_, copyErr := io.Copy(tmp, orig)
	_ = orig.Close()
	if copyErr != nil {
		return fmt.Errorf("copy ROM content: %w", copyErr)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace ROM file: %w", err)
	}
	committed = true
	return nil
}
