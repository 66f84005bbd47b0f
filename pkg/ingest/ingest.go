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

// Package ingest turns a user-selected file into a ready-to-launch cartridge
// payload. Archives (zip, 7z, gzip, rar) are unpacked and scanned in stored
// entry order for the first entry with a known cartridge extension; that
// entry's name then drives console-profile detection. Plain files are used
// as-is. Nothing is retained on failure.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PlaydeckProject/playdeck-core/pkg/consoles"
)

// Cartridge payloads larger than this are rejected rather than loaded into
// memory. The largest commercial cartridges are 64 MB (NDS-class); anything
// bigger is not a cartridge image.
const maxPayloadSize = 64 * 1024 * 1024

var (
	// ErrNoRomInArchive is returned when an archive contains no entry with a
	// known cartridge extension.
	ErrNoRomInArchive = errors.New("no rom found in archive")

	// ErrUnreadableFile is returned when the selected file or an archive
	// entry cannot be read.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrPayloadTooLarge is returned when a payload exceeds maxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
)

// Result is a ready-to-launch payload with its detected console profile.
// It is handed to the session controller and discarded after launch.
type Result struct {
	Payload    []byte
	SourceName string
	Profile    consoles.Profile
}

// Archive container magic bytes, used as a fallback when the file extension
// lies about the container format.
var (
	magicZip     = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZipEnd  = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z      = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip    = []byte{0x1F, 0x8B}
	magicRar     = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

type containerType int

const (
	containerNone containerType = iota
	containerZip
	container7z
	containerGzip
	containerRar
)

var containerExts = map[string]containerType{
	".zip": containerZip,
	".7z":  container7z,
	".gz":  containerGzip,
	".tgz": containerGzip,
	".rar": containerRar,
}

// Ingest validates a selected file, unpacks it if it is an archive, detects
// the console profile and returns the payload. The only side effect is
// reading the input.
func Ingest(path string) (*Result, error) {
	container, err := detectContainer(path)
	if err != nil {
		return nil, err
	}

	var payload []byte
	var sourceName string

	switch container {
	case containerZip:
		payload, sourceName, err = extractFromZip(path)
	case container7z:
		payload, sourceName, err = extractFrom7z(path)
	case containerGzip:
		payload, sourceName, err = extractFromGzip(path)
	case containerRar:
		payload, sourceName, err = extractFromRar(path)
	case containerNone:
		payload, sourceName, err = readRaw(path)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Payload:    payload,
		SourceName: sourceName,
		Profile:    consoles.ProfileForFilename(sourceName),
	}, nil
}

// detectContainer decides whether path is an archive container, first by its
// lowercase trailing extension and then by magic bytes.
func detectContainer(path string) (containerType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := containerExts[ext]; ok {
		return c, nil
	}

	f, err := os.Open(path) //nolint:gosec // path is user-selected by design
	if err != nil {
		return containerNone, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil && !errors.Is(err, io.EOF) {
		return containerNone, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, magicZip), bytes.HasPrefix(header, magicZipEnd):
		return containerZip, nil
	case bytes.HasPrefix(header, magic7z):
		return container7z, nil
	case bytes.HasPrefix(header, magicRar):
		return containerRar, nil
	case bytes.HasPrefix(header, magicGzip):
		return containerGzip, nil
	default:
		return containerNone, nil
	}
}

func readRaw(path string) ([]byte, string, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-selected by design
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer func() { _ = f.Close() }()

	data, err := limitedRead(f)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(path), nil
}

// isKnownEntry checks an archive entry name against the known-extension
// universe (the union of all profile alias sets).
func isKnownEntry(name string) bool {
	return consoles.Known(filepath.Ext(name))
}

// limitedRead reads up to maxPayloadSize bytes, failing if exceeded.
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxPayloadSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	if len(data) > maxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	return data, nil
}
