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

package input

import (
	"testing"

	"github.com/PlaydeckProject/playdeck-core/pkg/controls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestVirtualButton_DownUp(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	r.VirtualButtonDown(controls.Player1, controls.ButtonA)
	r.VirtualButtonUp(controls.Player1, controls.ButtonA)

	evs := drain(r)
	require.Len(t, evs, 2)
	assert.Equal(t, controls.TransitionDown, evs[0].Transition)
	assert.Equal(t, controls.TransitionUp, evs[1].Transition)
}

func TestDpad_ZoneClassification(t *testing.T) {
	t.Parallel()

	const w, h = 90.0, 90.0
	tests := []struct {
		name    string
		x, y    float64
		want    controls.Button
		neutral bool
	}{
		{name: "top center", x: 45, y: 10, want: controls.ButtonUp},
		{name: "bottom center", x: 45, y: 80, want: controls.ButtonDown},
		{name: "middle left", x: 10, y: 45, want: controls.ButtonLeft},
		{name: "middle right", x: 80, y: 45, want: controls.ButtonRight},
		{name: "dead center", x: 45, y: 45, neutral: true},
		// vertical zones win over horizontal ones
		{name: "top left corner", x: 5, y: 5, want: controls.ButtonUp},
		{name: "bottom right corner", x: 85, y: 85, want: controls.ButtonDown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, active := classifyDpadZone(tt.x, tt.y, w, h)
			if tt.neutral {
				assert.False(t, active)
				return
			}
			require.True(t, active)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDpad_DragAcrossZones(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	const w, h = 90.0, 90.0

	r.VirtualDpadMove(controls.Player1, 1, 45, 10, w, h) // up zone
	r.VirtualDpadMove(controls.Player1, 1, 45, 12, w, h) // still up, no emission
	r.VirtualDpadMove(controls.Player1, 1, 10, 45, w, h) // straight to left
	r.VirtualDpadEnd(controls.Player1, 1)

	evs := drain(r)
	require.Len(t, evs, 4)
	assert.Equal(t, controls.Event{Button: controls.ButtonUp, Transition: controls.TransitionDown, Player: controls.Player1}, evs[0])
	assert.Equal(t, controls.Event{Button: controls.ButtonUp, Transition: controls.TransitionUp, Player: controls.Player1}, evs[1])
	assert.Equal(t, controls.Event{Button: controls.ButtonLeft, Transition: controls.TransitionDown, Player: controls.Player1}, evs[2])
	assert.Equal(t, controls.Event{Button: controls.ButtonLeft, Transition: controls.TransitionUp, Player: controls.Player1}, evs[3])
}

func TestDpad_NeutralReleasesWithoutPress(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	const w, h = 90.0, 90.0

	r.VirtualDpadMove(controls.Player1, 1, 45, 10, w, h) // up
	r.VirtualDpadMove(controls.Player1, 1, 45, 45, w, h) // neutral center

	evs := drain(r)
	require.Len(t, evs, 2)
	assert.Equal(t, controls.TransitionDown, evs[0].Transition)
	assert.Equal(t, controls.TransitionUp, evs[1].Transition)
}

func TestDpad_EndWithoutActiveDirectionIsSilent(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	r.VirtualDpadEnd(controls.Player1, 7)
	assert.Empty(t, drain(r))
}

func TestDpad_IndependentPointersPerPlayer(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	const w, h = 90.0, 90.0

	r.VirtualDpadMove(controls.Player1, 1, 45, 10, w, h)
	r.VirtualDpadMove(controls.Player2, 1, 10, 45, w, h)

	evs := drain(r)
	require.Len(t, evs, 2)
	assert.Equal(t, controls.Player1, evs[0].Player)
	assert.Equal(t, controls.ButtonUp, evs[0].Button)
	assert.Equal(t, controls.Player2, evs[1].Player)
	assert.Equal(t, controls.ButtonLeft, evs[1].Button)
}

// Any drag sequence produces a balanced up/down stream with at most one
// direction active at a time.
func TestDpad_DragSequenceIsBalanced(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		// dpad handling never touches the store or clock, so a bare router
		// is enough here
		r := &Router{
			events:   make(chan controls.Event, eventBuffer),
			pads:     make(map[int]*padState),
			pointers: make(map[pointerKey]controls.Button),
		}
		const w, h = 90.0, 90.0

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Float64Range(0, 1).Draw(t, "end") < 0.1 {
				r.VirtualDpadEnd(controls.Player1, 1)
				continue
			}
			x := rapid.Float64Range(0, w).Draw(t, "x")
			y := rapid.Float64Range(0, h).Draw(t, "y")
			r.VirtualDpadMove(controls.Player1, 1, x, y, w, h)
		}
		r.VirtualDpadEnd(controls.Player1, 1)

		active := map[controls.Button]bool{}
		count := 0
		for _, ev := range drain(r) {
			if ev.Transition == controls.TransitionDown {
				require.False(t, active[ev.Button], "double down for %s", ev.Button)
				active[ev.Button] = true
				count++
			} else {
				require.True(t, active[ev.Button], "up without down for %s", ev.Button)
				delete(active, ev.Button)
				count--
			}
			require.LessOrEqual(t, count, 1, "more than one direction active")
		}
		require.Empty(t, active, "directions left pressed after end")
	})
}
