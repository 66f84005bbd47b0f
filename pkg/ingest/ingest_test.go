// Playdeck Core
// Copyright (c) 2026 The Playdeck Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playdeck Core.
//
// Playdeck Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playdeck Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playdeck Core.  If not, see <http://www.gnu.org/licenses/>.

package ingest

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/PlaydeckProject/playdeck-core/pkg/consoles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestIngest_RawFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Super Game.sfc")
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	res, err := Ingest(path)
	require.NoError(t, err)
	assert.Equal(t, payload, res.Payload)
	assert.Equal(t, "Super Game.sfc", res.SourceName)
	assert.Equal(t, consoles.CoreSNES, res.Profile.EngineCoreID)
}

func TestIngest_RawFileUnknownExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xFF}, 0o600))

	res, err := Ingest(path)
	require.NoError(t, err)
	// unknown extensions are not an error, they get the default profile
	assert.Equal(t, consoles.Default().EngineCoreID, res.Profile.EngineCoreID)
}

func TestIngest_ZipPicksFirstKnownEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.zip")
	writeZip(t, path, map[string][]byte{
		"readme.txt":   []byte("notes"),
		"game.gba":     {0xAA, 0xBB},
		"fallback.nes": {0xCC},
	}, []string{"readme.txt", "game.gba", "fallback.nes"})

	res, err := Ingest(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, res.Payload)
	assert.Equal(t, "game.gba", res.SourceName)
	assert.Equal(t, consoles.CoreGBA, res.Profile.EngineCoreID)
}

func TestIngest_ZipEntryNameRedrivesDetection(t *testing.T) {
	t.Parallel()

	// The archive's own name must not influence detection, only the
	// matched entry's name.
	dir := t.TempDir()
	path := filepath.Join(dir, "snes-collection.zip")
	writeZip(t, path, map[string][]byte{
		"actually/inner.nes": {0x4E},
	}, []string{"actually/inner.nes"})

	res, err := Ingest(path)
	require.NoError(t, err)
	assert.Equal(t, "inner.nes", res.SourceName)
	assert.Equal(t, consoles.CoreNES, res.Profile.EngineCoreID)
}

func TestIngest_ZipNoRomFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "junk.zip")
	writeZip(t, path, map[string][]byte{
		"readme.txt": []byte("nope"),
		"cover.png":  {0x89},
	}, []string{"readme.txt", "cover.png"})

	res, err := Ingest(path)
	require.ErrorIs(t, err, ErrNoRomInArchive)
	assert.Nil(t, res)
}

func TestIngest_ZipByMagicBytes(t *testing.T) {
	t.Parallel()

	// A zip container with a lying extension is still recognized.
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.dat")
	writeZip(t, path, map[string][]byte{
		"game.gb": {0x42},
	}, []string{"game.gb"})

	res, err := Ingest(path)
	require.NoError(t, err)
	assert.Equal(t, consoles.CoreGB, res.Profile.EngineCoreID)
}

func TestIngest_GzipSingleMember(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "game.smc.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte{0x10, 0x20})
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	res, err := Ingest(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x20}, res.Payload)
	assert.Equal(t, "game.smc", res.SourceName)
	assert.Equal(t, consoles.CoreSNES, res.Profile.EngineCoreID)
}

func TestIngest_MissingFile(t *testing.T) {
	t.Parallel()

	res, err := Ingest(filepath.Join(t.TempDir(), "nope.nes"))
	require.ErrorIs(t, err, ErrUnreadableFile)
	assert.Nil(t, res)
}
