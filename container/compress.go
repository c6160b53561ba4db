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

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// compressedFile is a single ROM stored behind a stream compressor.
// These containers are read-only; rewriting the compressed stream in
// place is not supported.
type compressedFile struct {
	path   string
	format string
	log    hclog.Logger
	decode func(io.Reader) (io.Reader, error)
}

// NewGzipFile creates a read-only container for a gzip-compressed ROM.
func NewGzipFile(path string, log hclog.Logger) Container {
	return &compressedFile{
		path:   path,
		format: "gzip",
		log:    log,
		decode: func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r) //nolint:wrapcheck // Constructor error passthrough
		},
	}
}

// NewXZFile creates a read-only container for an xz-compressed ROM.
func NewXZFile(path string, log hclog.Logger) Container {
	return &compressedFile{
		path:   path,
		format: "xz",
		log:    log,
		decode: func(r io.Reader) (io.Reader, error) {
			return xz.NewReader(r) //nolint:wrapcheck // Constructor error passthrough
		},
	}
}

// Path returns the file path.
func (cf *compressedFile) Path() string {
	return cf.path
}

// Walk decompresses the stream and scans it as one image.
func (cf *compressedFile) Walk(fn func(Item) error) error {
	file, err := os.Open(cf.path) //nolint:gosec // User-provided path is expected
	if err != nil {
		return fmt.Errorf("open %s file: %w", cf.format, err)
	}
	defer func() { _ = file.Close() }()

	decoded, err := cf.decode(file)
	if err != nil {
		return fmt.Errorf("decode %s stream: %w", cf.format, err)
	}

	item, err := scanItem(cf.path, cf.path, decoded, cf.log)
	if err != nil {
		if isSkip(err) {
			return nil
		}
		return err
	}
	return fn(item)
}
