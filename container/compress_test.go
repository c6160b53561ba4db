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

package container_test

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/ZaparooProject/go-inestool/container"
)

func gzipCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func xzCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buf.Bytes()
}

func TestGzipFileWalk(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x77}, 150)
	image := headeredROM(t, payload)
	path := writeFile(t, t.TempDir(), "game.nes.gz", gzipCompress(t, image))

	items := walkItems(t, container.NewGzipFile(path, hclog.NewNullLogger()))
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Name != path {
		t.Errorf("Name = %q, want %q", item.Name, path)
	}
	if item.Header == nil || *item.Header != testHeader {
		t.Errorf("Header = %+v, want %+v", item.Header, testHeader)
	}
	// The fingerprint covers the decompressed payload, not the
	// compressed stream.
	if want := checksum(payload); item.CRC32 != want {
		t.Errorf("CRC32 = %s, want %s", item.CRC32, want)
	}
}

func TestXZFileWalk(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x88, 0x11}, 90)
	path := writeFile(t, t.TempDir(), "game.nes.xz", xzCompress(t, payload))

	items := walkItems(t, container.NewXZFile(path, hclog.NewNullLogger()))
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Header != nil {
		t.Errorf("Header = %+v, want nil", *items[0].Header)
	}
	if want := checksum(payload); items[0].CRC32 != want {
		t.Errorf("CRC32 = %s, want %s", items[0].CRC32, want)
	}
}

func TestGzipFileWalkBadStream(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "game.nes.gz", []byte("not gzip data"))

	c := container.NewGzipFile(path, hclog.NewNullLogger())
	err := c.Walk(func(container.Item) error { return nil })
	if err == nil {
		t.Error("expected error for corrupt stream")
	}
}
