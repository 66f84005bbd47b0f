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

//go:build linux

package uinputsink

import (
	"fmt"

	"github.com/bendahl/uinput"
)

const (
	deviceName = "Playdeck"
	uinputDev  = "/dev/uinput"
)

// New creates a sink backed by a virtual uinput keyboard. The device must be
// closed when the session ends.
func New() (*Sink, error) {
	kbd, err := uinput.CreateKeyboard(uinputDev, []byte(deviceName))
	if err != nil {
		return nil, fmt.Errorf("failed to create uinput keyboard: %w", err)
	}
	return newSink(kbd), nil
}
