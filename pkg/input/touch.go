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

import "github.com/PlaydeckProject/playdeck-core/pkg/controls"

// pointerKey identifies one pointer contact on one player's virtual dpad.
type pointerKey struct {
	player controls.Player
	id     int
}

// VirtualButtonDown handles pointer-start on a direct-press on-screen button.
func (r *Router) VirtualButtonDown(player controls.Player, button controls.Button) {
	r.send([]controls.Event{{
		Button:     button,
		Transition: controls.TransitionDown,
		Player:     player,
	}})
}

// VirtualButtonUp handles pointer-end, -leave and -cancel on a direct-press
// on-screen button.
func (r *Router) VirtualButtonUp(player controls.Player, button controls.Button) {
	r.send([]controls.Event{{
		Button:     button,
		Transition: controls.TransitionUp,
		Player:     player,
	}})
}

// classifyDpadZone maps a contact point within the dpad's bounding box to a
// direction. The box is divided in thirds on each dimension; vertical zones
// are checked before horizontal ones, and the center third of both is
// neutral. Returns false for neutral.
func classifyDpadZone(x, y, w, h float64) (controls.Button, bool) {
	if w <= 0 || h <= 0 {
		return "", false
	}
	switch {
	case y < h/3:
		return controls.ButtonUp, true
	case y > 2*h/3:
		return controls.ButtonDown, true
	case x < w/3:
		return controls.ButtonLeft, true
	case x > 2*w/3:
		return controls.ButtonRight, true
	default:
		return "", false
	}
}

// VirtualDpadMove handles a contact moving on the dpad surface. The dpad is
// a single continuous-drag surface: a zone change releases the previously
// active direction before pressing the new one, so at most one direction is
// active per pointer at any time.
func (r *Router) VirtualDpadMove(player controls.Player, pointerID int, x, y, w, h float64) {
	next, active := classifyDpadZone(x, y, w, h)
	key := pointerKey{player: player, id: pointerID}

	r.mu.Lock()
	prev, held := r.pointers[key]
	if held && prev == next {
		r.mu.Unlock()
		return
	}

	var evs []controls.Event
	if held {
		evs = append(evs, controls.Event{
			Button:     prev,
			Transition: controls.TransitionUp,
			Player:     player,
		})
		delete(r.pointers, key)
	}
	if active {
		evs = append(evs, controls.Event{
			Button:     next,
			Transition: controls.TransitionDown,
			Player:     player,
		})
		r.pointers[key] = next
	}
	r.mu.Unlock()

	r.send(evs)
}

// VirtualDpadEnd handles the contact leaving the dpad surface, releasing
// whatever direction the pointer held.
func (r *Router) VirtualDpadEnd(player controls.Player, pointerID int) {
	key := pointerKey{player: player, id: pointerID}

	r.mu.Lock()
	prev, held := r.pointers[key]
	if held {
		delete(r.pointers, key)
	}
	r.mu.Unlock()

	if held {
		r.send([]controls.Event{{
			Button:     prev,
			Transition: controls.TransitionUp,
			Player:     player,
		}})
	}
}
