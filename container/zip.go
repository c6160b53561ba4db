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
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/flate"
)

// Zip scans and rewrites ROM images inside a ZIP archive.
type Zip struct {
	path string
	log  hclog.Logger

	// generation counts committed rewrites. Walks remember the value
	// they started with and fail once it moves.
	generation int
}

// NewZip creates a container for a ZIP archive.
func NewZip(path string, log hclog.Logger) *Zip {
	return &Zip{path: path, log: log}
}

// Path returns the archive path.
func (z *Zip) Path() string {
	return z.path
}

// Walk scans every member in archive order. Directory entries are
// skipped, and a member that fails to decompress is logged and skipped
// so local corruption cannot hide the rest of the archive. The walk
// fails with ModifiedError when an Apply commits while it is running.
func (z *Zip) Walk(fn func(Item) error) error {
	generation := z.generation

	reader, err := zip.OpenReader(z.path)
	if err != nil {
		return fmt.Errorf("open ZIP archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	for _, member := range reader.File {
		if z.generation != generation {
			return ModifiedError{Container: z.path}
		}
		if member.FileInfo().IsDir() {
			continue
		}

		item, err := z.scanMember(member)
		if err != nil {
			if !isSkip(err) {
				z.log.Warn("can't read archive member",
					"archive", z.path, "member", member.Name, "error", err)
			}
			continue
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

func (z *Zip) scanMember(member *zip.File) (Item, error) {
	rc, err := member.Open()
	if err != nil {
		return Item{}, fmt.Errorf("open ZIP member: %w", err)
	}
	defer func() { _ = rc.Close() }()

	return scanItem(filepath.Join(z.path, member.Name), member.Name, rc, z.log)
}

// Apply rewrites the archive with the queued updates applied. Every
// member is extracted to a scratch directory, patched there when updates
// target it, and written back to a new archive that atomically replaces
// the original. Updates left over after the member pass mean a stale
// item was queued; that fails the apply before anything is renamed, so
// the original archive survives any failure byte for byte.
func (z *Zip) Apply(updates []Update) error {
	pending := make(map[string][]Update, len(updates))
	for _, u := range updates {
		pending[u.Item.member] = append(pending[u.Item.member], u)
	}

	scratch, err := os.MkdirTemp("", "inestool")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	reader, err := zip.OpenReader(z.path)
	if err != nil {
		return fmt.Errorf("open ZIP archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(z.path), filepath.Base(z.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	writer := zip.NewWriter(tmp)
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression) //nolint:wrapcheck // Constructor error passthrough
	})

	for _, member := range reader.File {
		if err := z.rewriteMember(writer, member, scratch, pending); err != nil {
			return err
		}
	}

	for _, u := range updates {
		if _, stale := pending[u.Item.member]; stale {
			return MemberNotFoundError{Container: z.path, Member: u.Item.member}
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmpName, z.path); err != nil {
		return fmt.Errorf("replace archive: %w", err)
	}
	committed = true
	z.generation++
	return nil
}

// rewriteMember copies one member into the new archive, patching its
// extracted copy first when updates target it. Directory entries are
// carried over as is.
func (z *Zip) rewriteMember(writer *zip.Writer, member *zip.File, scratch string, pending map[string][]Update) error {
	if member.FileInfo().IsDir() {
		if _, err := writer.Create(member.Name); err != nil {
			return fmt.Errorf("write directory entry: %w", err)
		}
		return nil
	}

	extracted, err := extractMember(member, scratch)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(extracted) }()

	if updates, ok := pending[member.Name]; ok {
		if err := applyToFile(extracted, updates); err != nil {
			return err
		}
		delete(pending, member.Name)
	}

	dst, err := writer.Create(member.Name)
	if err != nil {
		return fmt.Errorf("write ZIP member: %w", err)
	}
	src, err := os.Open(extracted) //nolint:gosec // Path is within the scratch directory
	if err != nil {
		return fmt.Errorf("open extracted member: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy ZIP member: %w", err)
	}
	return nil
}

// extractMember writes one member to the scratch directory, refusing
// member names that would escape it.
func extractMember(member *zip.File, scratch string) (string, error) {
	dest := filepath.Join(scratch, filepath.FromSlash(member.Name))
	if !strings.HasPrefix(dest, filepath.Clean(scratch)+string(os.PathSeparator)) {
		return "", fmt.Errorf("member name %q escapes extraction directory", member.Name)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", fmt.Errorf("create extraction directory: %w", err)
	}

	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("open ZIP member: %w", err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.Create(dest) //nolint:gosec // Path verified above
	if err != nil {
		return "", fmt.Errorf("create extracted member: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("extract ZIP member: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close extracted member: %w", err)
	}
	return dest, nil
}
