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

//go:build !linux

package main

import (
	"github.com/rs/zerolog/log"

	"github.com/PlaydeckProject/playdeck-core/pkg/input/uinputsink"
)

// openKeyboardSink is a stub: virtual keyboards are a linux uinput feature.
func openKeyboardSink(enabled bool) *uinputsink.Sink {
	if enabled {
		log.Warn().Msg("uinput mirror is only available on linux")
	}
	return nil
}
