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

package api

import (
	"github.com/PlaydeckProject/playdeck-core/pkg/helpers/syncutil"
	"github.com/PlaydeckProject/playdeck-core/pkg/input"
)

// padFeed holds the overlay's most recent gamepad snapshot and serves it to
// the router's poll loop. The overlay pushes at its own rate; the poller
// reads at the configured rate. Between pushes the last snapshot repeats,
// which the edge-detecting poller treats as steady state.
type padFeed struct {
	mu      syncutil.Mutex
	samples []input.PadSample
}

// Sample implements input.GamepadSource.
func (f *padFeed) Sample() []input.PadSample {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]input.PadSample, len(f.samples))
	copy(out, f.samples)
	return out
}

func (f *padFeed) set(samples []input.PadSample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = samples
}
