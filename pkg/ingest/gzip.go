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
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractFromGzip handles .gz and .tar.gz/.tgz containers. A plain .gz holds
// a single member whose name (header name, or the file name minus .gz) must
// have a known cartridge extension.
func extractFromGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-selected by design
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer func() { _ = f.Close() }()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}
	defer func() { _ = gr.Close() }()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr, path)
	}

	name := gr.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if !isKnownEntry(name) {
		return nil, "", fmt.Errorf("%w: %s", ErrNoRomInArchive, filepath.Base(path))
	}

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(name), nil
}

func extractFromTar(r io.Reader, path string) ([]byte, string, error) {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if !isKnownEntry(header.Name) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(header.Name), nil
	}

	return nil, "", fmt.Errorf("%w: %s", ErrNoRomInArchive, filepath.Base(path))
}
