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

// Package consoles is the reference table of console profiles supported by
// Playdeck. A profile pairs an engine core ID with the file extensions that
// identify cartridge images for that console. Given a file name, the table
// can be used to associate the file with the engine core needed to run it.
package consoles

import (
	"path/filepath"
	"sort"
	"strings"
)

// Engine core IDs. A core is selected by the external emulation engine at
// launch time; Playdeck only ever treats these as opaque identifiers.
const (
	CoreSNES    = "snes9x"
	CoreNES     = "fceumm"
	CoreGBA     = "mgba"
	CoreGB      = "gambatte"
	CoreGenesis = "genesis_plus_gx"
	CoreN64     = "mupen64plus_next"
	CorePCE     = "mednafen_pce"
)

// Profile is an immutable console profile: the engine core that runs it and
// the file extensions accepted for it. Extensions are stored lowercase with
// a leading dot.
type Profile struct {
	EngineCoreID string
	Extensions   []string
}

// Profiles is the full table of supported console profiles. Multiple
// extensions may legally map to the same profile (alias sets).
var Profiles = []Profile{
	{CoreSNES, []string{".smc", ".sfc", ".fig", ".swc"}},
	{CoreNES, []string{".nes", ".unf", ".unif"}},
	{CoreGBA, []string{".gba", ".agb"}},
	{CoreGB, []string{".gb", ".gbc", ".dmg"}},
	{CoreGenesis, []string{".md", ".gen", ".smd", ".sms", ".gg"}},
	{CoreN64, []string{".n64", ".z64", ".v64"}},
	{CorePCE, []string{".pce"}},
}

// Default returns the fallback profile used when a file extension is not
// recognized. Detection never hard-fails on an unknown extension; most
// headerless dumps in the wild are SNES images, so that profile is the
// designated default.
func Default() Profile {
	return Profiles[0]
}

// normalizeExt lowercases an extension token and ensures a leading dot, the
// same way custom launcher extensions are normalized.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// ProfileForExtension returns the profile whose alias set contains the given
// extension, or the default profile if no alias set matches.
func ProfileForExtension(ext string) Profile {
	ext = normalizeExt(ext)
	for _, p := range Profiles {
		for _, alias := range p.Extensions {
			if alias == ext {
				return p
			}
		}
	}
	return Default()
}

// ProfileForFilename detects a profile from the lowercase trailing extension
// of a file name.
func ProfileForFilename(name string) Profile {
	return ProfileForExtension(filepath.Ext(name))
}

// Known reports whether an extension belongs to any profile's alias set.
func Known(ext string) bool {
	ext = normalizeExt(ext)
	for _, p := range Profiles {
		for _, alias := range p.Extensions {
			if alias == ext {
				return true
			}
		}
	}
	return false
}

// AllExtensions returns the union of every profile's alias set, sorted. This
// is the known-extension universe used when scanning archive entries.
func AllExtensions() []string {
	var exts []string
	for _, p := range Profiles {
		exts = append(exts, p.Extensions...)
	}
	sort.Strings(exts)
	return exts
}
